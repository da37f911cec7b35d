package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jonwraymond/designops/scene"
)

func (c *cli) sceneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scene",
		Short: "Validate and generate scene specifications",
	}

	var validateFormat string
	validate := &cobra.Command{
		Use:   "validate FILE",
		Short: "Validate a JSON or YAML scene specification",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			format := scene.FormatFromPath(args[0])
			if validateFormat != "" {
				f, err := scene.ParseFormat(validateFormat)
				if err != nil {
					return err
				}
				format = f
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			s, err := scene.Parse(data, format)
			if err != nil {
				color.New(color.FgRed).Fprintf(c.stdout, "invalid: %s\n", args[0])
				return err
			}
			color.New(color.FgGreen).Fprintf(c.stdout, "valid: %s (%d objects)\n", s.SpecID, len(s.Objects))
			return nil
		},
	}
	validate.Flags().StringVar(&validateFormat, "format", "", "json|yaml (default: from file extension)")

	var exampleFormat string
	example := &cobra.Command{
		Use:   "example",
		Short: "Print the canonical example specification",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			format, err := scene.ParseFormat(exampleFormat)
			if err != nil {
				return err
			}
			return scene.Encode(c.stdout, scene.Example(), format)
		},
	}
	example.Flags().StringVar(&exampleFormat, "format", "json", "json|yaml")

	var idType string
	var idIndex int
	id := &cobra.Command{
		Use:   "id",
		Short: "Print the object ID for a type and index",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if idType == "" {
				return fmt.Errorf("--type is required")
			}
			fmt.Fprintln(c.stdout, scene.GenerateID(idType, idIndex))
			return nil
		},
	}
	id.Flags().StringVar(&idType, "type", "", "object type, e.g. sofa")
	id.Flags().IntVar(&idIndex, "index", 1, "object index")

	cmd.AddCommand(validate, example, id)
	return cmd
}
