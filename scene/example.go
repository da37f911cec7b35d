package scene

// Example returns the canonical worked example: spec_12345 holding a wooden
// floor and a fabric sofa in a living room.
func Example() *SpecSchema {
	floorMat := must(NewMaterialProperties("wood",
		WithColor("#8B4513"),
		WithTexture("smooth"),
		WithFinish("glossy"),
		WithProperty("hardness", "medium"),
	))
	floor := must(NewDesignObject("floor_1", "floor", floorMat, NewDimensions(10, 10, 0.1, DefaultUnits)))

	sofaMat := must(NewMaterialProperties("fabric",
		WithColor("#4A4A4A"),
		WithTexture("soft"),
		WithFinish("matte"),
		WithProperty("comfort", "high"),
	))
	sofa := must(NewDesignObject("sofa_1", "furniture", sofaMat, NewDimensions(2, 0.9, 0.8, DefaultUnits),
		AtPosition(2, 0, 3),
	))

	return must(NewSpecSchema("spec_12345", []DesignObject{floor, sofa}, map[string]any{
		"environment": "living_room",
		"lighting":    "natural",
		"style":       "modern",
	}))
}

// must panics if the example stops validating.
func must[T any](v T, err error) T {
	if err != nil {
		panic("scene: invalid example: " + err.Error())
	}
	return v
}
