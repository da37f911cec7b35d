package scene

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
)

const minimalSpec = `{
  "spec_id": "spec_min",
  "objects": [
    {
      "object_id": "wall_1",
      "object_type": "wall",
      "material": {"type": "concrete"},
      "dimensions": {"length": 4, "width": 0.2, "height": 3}
    }
  ]
}`

func TestParseJSON_AppliesDefaults(t *testing.T) {
	fixed := time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)
	restore := now
	now = func() time.Time { return fixed }
	defer func() { now = restore }()

	s, err := ParseJSON([]byte(minimalSpec))
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}
	o := s.Objects[0]
	if !o.Editable || !o.Material.Editable {
		t.Error("editable did not default to true")
	}
	if o.Dimensions.Units != DefaultUnits {
		t.Errorf("Units = %q, want %q", o.Dimensions.Units, DefaultUnits)
	}
	if o.Position != (Position{}) {
		t.Errorf("Position = %+v, want origin", o.Position)
	}
	if o.Material.Properties == nil || o.Metadata == nil || s.SceneMetadata == nil {
		t.Error("maps not initialised")
	}
	if !s.CreatedAt.Equal(fixed) || !s.UpdatedAt.Equal(fixed) {
		t.Errorf("timestamps = %v, %v", s.CreatedAt, s.UpdatedAt)
	}
}

func TestParseJSON_KeepsExplicitValues(t *testing.T) {
	doc := `{
	  "spec_id": "spec_x",
	  "created_at": "2025-01-01T00:00:00Z",
	  "objects": [{
	    "object_id": "window_1",
	    "object_type": "window",
	    "editable": false,
	    "material": {"type": "glass", "editable": false, "reflectivity": 0.9},
	    "dimensions": {"length": 1, "width": 0.05, "height": 1.2, "units": "feet"},
	    "rotation": {"z": 45}
	  }]
	}`
	s, err := ParseJSON([]byte(doc))
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}
	o := s.Objects[0]
	if o.Editable || o.Material.Editable {
		t.Error("explicit editable=false overwritten")
	}
	if o.Dimensions.Units != "feet" || o.Rotation["z"] != 45 {
		t.Errorf("object = %+v", o)
	}
	if o.Material.Reflectivity == nil || *o.Material.Reflectivity != 0.9 {
		t.Errorf("Reflectivity = %v", o.Material.Reflectivity)
	}
	if !s.CreatedAt.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("CreatedAt = %v", s.CreatedAt)
	}
}

func TestParseJSON_EmptyObjectListAllowed(t *testing.T) {
	s, err := ParseJSON([]byte(`{"spec_id": "spec_empty", "objects": []}`))
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}
	if len(s.Objects) != 0 {
		t.Errorf("Objects = %v", s.Objects)
	}
}

func TestParseJSON_ReportsFieldErrors(t *testing.T) {
	obj := func(body string) string {
		return `{"spec_id": "s", "objects": [` + body + `]}`
	}
	const good = `{"object_id": "a_1", "object_type": "a", "material": {"type": "wood"}, "dimensions": {"length": 1, "width": 1, "height": 1}}`

	tests := []struct {
		name      string
		doc       string
		wantField string
	}{
		{"missing spec_id", `{"objects": []}`, "spec_id"},
		{"missing objects", `{"spec_id": "s"}`, "objects"},
		{"null objects", `{"spec_id": "s", "objects": null}`, "objects"},
		{"missing object_id", obj(`{"object_type": "a", "material": {"type": "wood"}, "dimensions": {"length": 1, "width": 1, "height": 1}}`), "objects[0].object_id"},
		{"missing material", obj(`{"object_id": "a_1", "object_type": "a", "dimensions": {"length": 1, "width": 1, "height": 1}}`), "objects[0].material"},
		{"missing material type", obj(good + `, {"object_id": "a_2", "object_type": "a", "material": {"color": "red"}, "dimensions": {"length": 1, "width": 1, "height": 1}}`), "objects[1].material.type"},
		{"missing dimensions", obj(`{"object_id": "a_1", "object_type": "a", "material": {"type": "wood"}}`), "objects[0].dimensions"},
		{"missing height", obj(`{"object_id": "a_1", "object_type": "a", "material": {"type": "wood"}, "dimensions": {"length": 1, "width": 1}}`), "objects[0].dimensions.height"},
		{"reflectivity above 1", obj(`{"object_id": "a_1", "object_type": "a", "material": {"type": "wood", "reflectivity": 1.0001}, "dimensions": {"length": 1, "width": 1, "height": 1}}`), "objects[0].material.reflectivity"},
		{"metallic below 0", obj(`{"object_id": "a_1", "object_type": "a", "material": {"type": "wood", "metallic": -0.01}, "dimensions": {"length": 1, "width": 1, "height": 1}}`), "objects[0].material.metallic"},
		{"duplicate object_id", obj(good + ", " + good), "objects[1].object_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJSON([]byte(tt.doc))
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("error = %v, want *ValidationError", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("Field = %q, want %q (%v)", ve.Field, tt.wantField, err)
			}
		})
	}
}

func TestParseJSON_DecodeErrors(t *testing.T) {
	for _, doc := range []string{`not json`, `{"spec_id": 5, "objects": []}`} {
		_, err := ParseJSON([]byte(doc))
		if err == nil || errors.Is(err, ErrValidation) {
			t.Errorf("ParseJSON(%q) error = %v, want decode error", doc, err)
		}
	}
}

func TestExample_JSONRoundTrip(t *testing.T) {
	want := Example()
	data, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	got, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}
	assertSameSpec(t, got, want)
}

func TestExample_YAMLRoundTrip(t *testing.T) {
	want := Example()
	var buf bytes.Buffer
	if err := Encode(&buf, want, FormatYAML); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !strings.Contains(buf.String(), "spec_id: spec_12345") {
		t.Errorf("YAML output:\n%s", buf.String())
	}
	got, err := ParseYAML(buf.Bytes())
	if err != nil {
		t.Fatalf("ParseYAML() error = %v\n%s", err, buf.String())
	}
	assertSameSpec(t, got, want)
}

func TestParseYAML(t *testing.T) {
	doc := `
spec_id: spec_yaml
objects:
  - object_id: ceiling_1
    object_type: ceiling
    material:
      type: plaster
      roughness: 0.3
    dimensions: {length: 5, width: 4, height: 0.05}
scene_metadata:
  style: minimal
`
	s, err := ParseYAML([]byte(doc))
	if err != nil {
		t.Fatalf("ParseYAML() error = %v", err)
	}
	o := s.Object("ceiling_1")
	if o == nil || *o.Material.Roughness != 0.3 || o.Dimensions.Units != DefaultUnits {
		t.Errorf("object = %+v", o)
	}
	if s.SceneMetadata["style"] != "minimal" {
		t.Errorf("SceneMetadata = %v", s.SceneMetadata)
	}

	_, err = ParseYAML([]byte("objects: []\n"))
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "spec_id" {
		t.Errorf("missing spec_id error = %v", err)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"scene.yaml", FormatYAML},
		{"scene.YML", FormatYAML},
		{"scene.json", FormatJSON},
		{"scene", FormatJSON},
	}
	for _, tt := range tests {
		if got := FormatFromPath(tt.path); got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
	if f, err := ParseFormat("YAML"); err != nil || f != FormatYAML {
		t.Errorf("ParseFormat(YAML) = %q, %v", f, err)
	}
	if _, err := ParseFormat("toml"); err == nil {
		t.Error("ParseFormat(toml) succeeded")
	}
}

func assertSameSpec(t *testing.T, got, want *SpecSchema) {
	t.Helper()
	if !got.CreatedAt.Equal(want.CreatedAt) || !got.UpdatedAt.Equal(want.UpdatedAt) {
		t.Errorf("timestamps = %v/%v, want %v/%v", got.CreatedAt, got.UpdatedAt, want.CreatedAt, want.UpdatedAt)
	}
	g := *got
	g.CreatedAt, g.UpdatedAt = want.CreatedAt, want.UpdatedAt
	if !reflect.DeepEqual(&g, want) {
		t.Errorf("round trip lost fields:\ngot  %+v\nwant %+v", g, *want)
	}
}
