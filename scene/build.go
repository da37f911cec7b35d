package scene

import (
	"maps"
)

// MaterialOption sets an optional material field.
type MaterialOption func(*MaterialProperties)

// WithColor sets the material color, e.g. "#8B4513".
func WithColor(c string) MaterialOption { return func(m *MaterialProperties) { m.Color = c } }

// WithTexture sets the surface texture, e.g. "smooth".
func WithTexture(t string) MaterialOption { return func(m *MaterialProperties) { m.Texture = t } }

// WithFinish sets the surface finish, e.g. "matte".
func WithFinish(f string) MaterialOption { return func(m *MaterialProperties) { m.Finish = f } }

// WithReflectivity sets reflectivity. Values outside [0, 1] fail validation.
func WithReflectivity(v float64) MaterialOption {
	return func(m *MaterialProperties) { m.Reflectivity = &v }
}

// WithRoughness sets roughness. Values outside [0, 1] fail validation.
func WithRoughness(v float64) MaterialOption {
	return func(m *MaterialProperties) { m.Roughness = &v }
}

// WithMetallic sets metallic. Values outside [0, 1] fail validation.
func WithMetallic(v float64) MaterialOption {
	return func(m *MaterialProperties) { m.Metallic = &v }
}

// WithProperty sets one extra material property.
func WithProperty(key string, value any) MaterialOption {
	return func(m *MaterialProperties) { m.Properties[key] = value }
}

// WithMaterialEditable overrides the default editable=true.
func WithMaterialEditable(editable bool) MaterialOption {
	return func(m *MaterialProperties) { m.Editable = editable }
}

// NewMaterialProperties builds and validates a material. Editable defaults
// to true.
func NewMaterialProperties(materialType string, opts ...MaterialOption) (MaterialProperties, error) {
	m := MaterialProperties{
		Type:       materialType,
		Properties: make(map[string]any),
		Editable:   true,
	}
	for _, opt := range opts {
		opt(&m)
	}
	if err := m.Validate(); err != nil {
		return MaterialProperties{}, err
	}
	return m, nil
}

// ObjectOption sets an optional object field.
type ObjectOption func(*DesignObject)

// AtPosition places the object. Default: origin.
func AtPosition(x, y, z float64) ObjectOption {
	return func(o *DesignObject) { o.Position = Position{X: x, Y: y, Z: z} }
}

// WithRotation sets rotation angles in degrees keyed by axis.
func WithRotation(rotation map[string]float64) ObjectOption {
	return func(o *DesignObject) { o.Rotation = maps.Clone(rotation) }
}

// WithMetadata sets one metadata entry.
func WithMetadata(key string, value any) ObjectOption {
	return func(o *DesignObject) { o.Metadata[key] = value }
}

// WithObjectEditable overrides the default editable=true.
func WithObjectEditable(editable bool) ObjectOption {
	return func(o *DesignObject) { o.Editable = editable }
}

// NewDesignObject builds and validates an object. Editable defaults to true.
func NewDesignObject(objectID, objectType string, material MaterialProperties, dims Dimensions, opts ...ObjectOption) (DesignObject, error) {
	if dims.Units == "" {
		dims.Units = DefaultUnits
	}
	o := DesignObject{
		ObjectID:   objectID,
		ObjectType: objectType,
		Material:   material,
		Dimensions: dims,
		Metadata:   make(map[string]any),
		Editable:   true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.Validate(); err != nil {
		return DesignObject{}, err
	}
	return o, nil
}

// NewSpecSchema builds and validates a spec. Both timestamps are set to the
// current UTC time. An empty object list is allowed.
func NewSpecSchema(specID string, objects []DesignObject, metadata map[string]any) (*SpecSchema, error) {
	if metadata == nil {
		metadata = make(map[string]any)
	}
	if objects == nil {
		objects = []DesignObject{}
	}
	t := now()
	s := &SpecSchema{
		SpecID:        specID,
		Objects:       objects,
		SceneMetadata: metadata,
		CreatedAt:     t,
		UpdatedAt:     t,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
