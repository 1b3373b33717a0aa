package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/latentlab/lcspec/loader"
)

// NewConvertCmd creates the "convert" subcommand.
func NewConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert between specification forms",
		Long: `Convert reads a configuration, path list, or equation text and
re-renders the full specification in another form. Converting an exported
form back to itself reproduces it byte for byte.`,
		Args: cobra.ExactArgs(1),
		RunE: runConvert,
	}

	cmd.Flags().StringP("to", "t", "", "Target format: pathlist | equations | json (required)")
	cmd.Flags().StringP("output", "o", "", "Write output to file instead of stdout")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func runConvert(cmd *cobra.Command, args []string) error {
	path := args[0]
	target, _ := cmd.Flags().GetString("to")
	outputPath, _ := cmd.Flags().GetString("output")

	switch target {
	case "pathlist", "equations", "json":
	default:
		return exitError(exitValidation, "unknown target format %q (want pathlist, equations, or json)", target)
	}

	spec, _, err := loader.LoadSpec(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return exitError(exitFileNotFound, "file not found: %s", path)
		}
		var diagErr *loader.DiagnosticError
		if errors.As(err, &diagErr) {
			printDiagnostics(cmd.ErrOrStderr(), diagErr.Diagnostics, "text")
			return exitError(exitValidation, "invalid configuration")
		}
		return exitError(exitValidation, "loading %s: %v", path, err)
	}

	out := cmd.OutOrStdout()
	if outputPath != "" {
		file, err := os.Create(outputPath) // #nosec G304 -- path from user CLI arg
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer file.Close()
		out = file
	}

	return renderSpec(out, spec, target)
}
