// Package scene defines the design specification schema: a spec made of
// uniquely identified objects, each with editable material properties,
// a position, and dimensions.
//
// Values are validated when built with the New* constructors or decoded with
// ParseJSON and ParseYAML. Decoding applies the schema defaults (editable
// true, units "meters", timestamps now) and reports missing required fields.
// Validation failures are *ValidationError values naming the offending field
// and wrapping ErrValidation:
//
//	_, err := scene.NewMaterialProperties("wood", scene.WithReflectivity(1.5))
//	var ve *scene.ValidationError
//	if errors.As(err, &ve) {
//		fmt.Println(ve.Field) // reflectivity
//	}
//
// Object IDs follow the {type}_{index} convention (see GenerateID) and must
// be unique within a spec.
package scene
