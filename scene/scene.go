package scene

import (
	"fmt"
	"time"
)

// DefaultUnits is the Dimensions unit label used when none is given.
const DefaultUnits = "meters"

// MaterialProperties describes the editable material of one object.
type MaterialProperties struct {
	Type    string `json:"type" yaml:"type" validate:"required"`
	Color   string `json:"color,omitempty" yaml:"color,omitempty"`
	Texture string `json:"texture,omitempty" yaml:"texture,omitempty"`
	Finish  string `json:"finish,omitempty" yaml:"finish,omitempty"`

	// Bounded properties. Nil means unset; set values must lie in [0, 1].
	Reflectivity *float64 `json:"reflectivity,omitempty" yaml:"reflectivity,omitempty" validate:"omitempty,gte=0,lte=1"`
	Roughness    *float64 `json:"roughness,omitempty" yaml:"roughness,omitempty" validate:"omitempty,gte=0,lte=1"`
	Metallic     *float64 `json:"metallic,omitempty" yaml:"metallic,omitempty" validate:"omitempty,gte=0,lte=1"`

	Properties map[string]any `json:"properties" yaml:"properties"`
	Editable   bool           `json:"editable" yaml:"editable"`
}

// Validate checks the material type and the bounded properties.
func (m MaterialProperties) Validate() error {
	return check(m)
}

// Position is a point in scene coordinates. The zero value is the origin.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Dimensions is the bounding size of an object.
type Dimensions struct {
	Length float64 `json:"length" yaml:"length"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
	Units  string  `json:"units" yaml:"units"`
}

// NewDimensions returns dimensions in units, or DefaultUnits when units is empty.
func NewDimensions(length, width, height float64, units string) Dimensions {
	if units == "" {
		units = DefaultUnits
	}
	return Dimensions{Length: length, Width: width, Height: height, Units: units}
}

// DesignObject is one uniquely identified entity in a scene.
type DesignObject struct {
	// ObjectID follows the {type}_{index} convention, e.g. floor_1. See GenerateID.
	ObjectID   string             `json:"object_id" yaml:"object_id" validate:"required"`
	ObjectType string             `json:"object_type" yaml:"object_type" validate:"required"`
	Material   MaterialProperties `json:"material" yaml:"material"`
	Position   Position           `json:"position" yaml:"position"`
	Dimensions Dimensions         `json:"dimensions" yaml:"dimensions"`

	// Rotation holds angles in degrees keyed by axis.
	Rotation map[string]float64 `json:"rotation,omitempty" yaml:"rotation,omitempty"`
	Metadata map[string]any     `json:"metadata" yaml:"metadata"`
	Editable bool               `json:"editable" yaml:"editable"`
}

// Validate checks the object's required fields and its material.
func (o DesignObject) Validate() error {
	return check(o)
}

// SpecSchema is a complete scene specification.
type SpecSchema struct {
	SpecID        string         `json:"spec_id" yaml:"spec_id" validate:"required"`
	Objects       []DesignObject `json:"objects" yaml:"objects" validate:"dive"`
	SceneMetadata map[string]any `json:"scene_metadata" yaml:"scene_metadata"`
	CreatedAt     time.Time      `json:"created_at" yaml:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" yaml:"updated_at"`
}

// Validate checks every object and the uniqueness of object IDs.
func (s *SpecSchema) Validate() error {
	if err := check(s); err != nil {
		return err
	}
	seen := make(map[string]int, len(s.Objects))
	for i, obj := range s.Objects {
		if first, dup := seen[obj.ObjectID]; dup {
			return &ValidationError{
				Field:  fmt.Sprintf("objects[%d].object_id", i),
				Reason: fmt.Sprintf("%q already used by objects[%d]", obj.ObjectID, first),
				cause:  ErrDuplicateObjectID,
			}
		}
		seen[obj.ObjectID] = i
	}
	return nil
}

// Object returns the object with id, or nil.
func (s *SpecSchema) Object(id string) *DesignObject {
	for i := range s.Objects {
		if s.Objects[i].ObjectID == id {
			return &s.Objects[i]
		}
	}
	return nil
}

// Add validates obj and appends it, rejecting a duplicate object ID.
func (s *SpecSchema) Add(obj DesignObject) error {
	if err := obj.Validate(); err != nil {
		return under(fmt.Sprintf("objects[%d]", len(s.Objects)), err)
	}
	if s.Object(obj.ObjectID) != nil {
		return &ValidationError{
			Field:  fmt.Sprintf("objects[%d].object_id", len(s.Objects)),
			Reason: fmt.Sprintf("%q already used", obj.ObjectID),
			cause:  ErrDuplicateObjectID,
		}
	}
	s.Objects = append(s.Objects, obj)
	s.UpdatedAt = now()
	return nil
}

// NextID returns the first {type}_{n} ID above every existing one of that type.
func (s *SpecSchema) NextID(objectType string) string {
	prefix := GenerateID(objectType, 0)
	prefix = prefix[:len(prefix)-1]

	highest := 0
	for _, obj := range s.Objects {
		if n, ok := idIndex(obj.ObjectID, prefix); ok && n > highest {
			highest = n
		}
	}
	return GenerateID(objectType, highest+1)
}

var now = func() time.Time { return time.Now().UTC() }
