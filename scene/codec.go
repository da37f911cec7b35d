package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks YAML for .yaml and .yml files and JSON otherwise.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ParseFormat parses "json" or "yaml".
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("scene: unknown format %q", s)
}

// Parse decodes and validates a spec in the given format.
func Parse(data []byte, format Format) (*SpecSchema, error) {
	if format == FormatYAML {
		return ParseYAML(data)
	}
	return ParseJSON(data)
}

// ParseJSON decodes a spec, applies defaults, and validates it.
// Missing required fields are reported as *ValidationError.
func ParseJSON(data []byte) (*SpecSchema, error) {
	var s SpecSchema
	if err := json.Unmarshal(data, &s); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return nil, ve
		}
		return nil, fmt.Errorf("scene: decode json: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// ParseYAML is ParseJSON for YAML documents.
func ParseYAML(data []byte) (*SpecSchema, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("scene: decode yaml: %w", err)
	}
	js, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("scene: decode yaml: %w", err)
	}
	return ParseJSON(js)
}

// Encode writes s in the given format.
func Encode(w io.Writer, s *SpecSchema, format Format) error {
	if format == FormatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// UnmarshalJSON requires type and defaults editable to true.
func (m *MaterialProperties) UnmarshalJSON(data []byte) error {
	type plain MaterialProperties
	var raw struct {
		plain
		Type     *string `json:"type"`
		Editable *bool   `json:"editable"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Type == nil {
		return required("type")
	}

	*m = MaterialProperties(raw.plain)
	m.Type = *raw.Type
	m.Editable = raw.Editable == nil || *raw.Editable
	if m.Properties == nil {
		m.Properties = make(map[string]any)
	}
	return nil
}

// UnmarshalJSON requires length, width, and height and defaults units.
func (d *Dimensions) UnmarshalJSON(data []byte) error {
	var raw struct {
		Length *float64 `json:"length"`
		Width  *float64 `json:"width"`
		Height *float64 `json:"height"`
		Units  *string  `json:"units"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.Length == nil:
		return required("length")
	case raw.Width == nil:
		return required("width")
	case raw.Height == nil:
		return required("height")
	}

	*d = Dimensions{Length: *raw.Length, Width: *raw.Width, Height: *raw.Height, Units: DefaultUnits}
	if raw.Units != nil {
		d.Units = *raw.Units
	}
	return nil
}

// UnmarshalJSON requires object_id, object_type, material, and dimensions
// and defaults editable to true.
func (o *DesignObject) UnmarshalJSON(data []byte) error {
	type plain DesignObject
	var raw struct {
		plain
		ObjectID   *string         `json:"object_id"`
		ObjectType *string         `json:"object_type"`
		Material   json.RawMessage `json:"material"`
		Dimensions json.RawMessage `json:"dimensions"`
		Editable   *bool           `json:"editable"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.ObjectID == nil:
		return required("object_id")
	case raw.ObjectType == nil:
		return required("object_type")
	case raw.Material == nil:
		return required("material")
	case raw.Dimensions == nil:
		return required("dimensions")
	}

	*o = DesignObject(raw.plain)
	o.ObjectID = *raw.ObjectID
	o.ObjectType = *raw.ObjectType
	if err := json.Unmarshal(raw.Material, &o.Material); err != nil {
		return under("material", err)
	}
	if err := json.Unmarshal(raw.Dimensions, &o.Dimensions); err != nil {
		return under("dimensions", err)
	}
	o.Editable = raw.Editable == nil || *raw.Editable
	if o.Metadata == nil {
		o.Metadata = make(map[string]any)
	}
	return nil
}

// UnmarshalJSON requires spec_id and objects and defaults both timestamps
// to the current time.
func (s *SpecSchema) UnmarshalJSON(data []byte) error {
	type plain SpecSchema
	var raw struct {
		plain
		SpecID    *string           `json:"spec_id"`
		Objects   []json.RawMessage `json:"objects"`
		CreatedAt *time.Time        `json:"created_at"`
		UpdatedAt *time.Time        `json:"updated_at"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.SpecID == nil:
		return required("spec_id")
	case raw.Objects == nil:
		return required("objects")
	}

	*s = SpecSchema(raw.plain)
	s.SpecID = *raw.SpecID
	s.Objects = make([]DesignObject, len(raw.Objects))
	for i, msg := range raw.Objects {
		if err := json.Unmarshal(msg, &s.Objects[i]); err != nil {
			return under(fmt.Sprintf("objects[%d]", i), err)
		}
	}

	t := now()
	s.CreatedAt, s.UpdatedAt = t, t
	if raw.CreatedAt != nil {
		s.CreatedAt = *raw.CreatedAt
	}
	if raw.UpdatedAt != nil {
		s.UpdatedAt = *raw.UpdatedAt
	}
	if s.SceneMetadata == nil {
		s.SceneMetadata = make(map[string]any)
	}
	return nil
}
