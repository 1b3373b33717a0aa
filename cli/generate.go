package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/latentlab/lcspec"
	"github.com/latentlab/lcspec/catalog"
	"github.com/latentlab/lcspec/export"
	"github.com/latentlab/lcspec/loader"
)

// NewGenerateCmd creates the "generate" subcommand.
func NewGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <config-file>",
		Short: "Build a model specification from a configuration",
		Args:  cobra.ExactArgs(1),
		RunE:  runGenerate,
	}

	cmd.Flags().StringP("format", "f", "pathlist", "Output format: pathlist | equations | json")
	cmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().String("save", "", "Also save the spec to a SQLite catalog at this path")

	return cmd
}

// runGenerate implements the generate pipeline:
//
//	read config -> validate -> build -> render requested form -> write output
//	-> (if --save: store both renderings in the catalog)
func runGenerate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	format, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")
	savePath, _ := cmd.Flags().GetString("save")
	stderr := cmd.ErrOrStderr()

	cfg, err := loader.LoadConfig(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return exitError(exitFileNotFound, "file not found: %s", configPath)
		}
		return exitError(exitValidation, "loading configuration: %s", err)
	}

	spec, err := lcspec.Build(cfg)
	if err != nil {
		return exitError(exitValidation, "building specification: %s", err)
	}

	out := cmd.OutOrStdout()
	var file *os.File
	if outputPath != "" {
		file, err = os.Create(outputPath) // #nosec G304 -- path from user CLI arg
		if err != nil {
			return exitError(exitStore, "creating output file: %s", err)
		}
		defer file.Close()
		out = file
	}

	if err := renderSpec(out, spec, format); err != nil {
		return exitError(exitValidation, "rendering: %s", err)
	}

	if savePath != "" {
		if err := saveToCatalog(cmd, spec, savePath); err != nil {
			return err
		}
		fmt.Fprintf(stderr, "saved spec %s (fingerprint %s)\n", spec.ID(), spec.Fingerprint()[:12])
	}
	return nil
}

func renderSpec(w io.Writer, spec *lcspec.ModelSpec, format string) error {
	switch format {
	case "pathlist":
		return export.WritePathList(w, spec)
	case "equations":
		return export.WriteEquations(w, spec)
	case "json":
		rows, err := export.ToPathList(spec)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	default:
		return fmt.Errorf("unknown format %q (want pathlist, equations, or json)", format)
	}
}

func saveToCatalog(cmd *cobra.Command, spec *lcspec.ModelSpec, savePath string) error {
	store, err := catalog.NewSQLiteStore(savePath)
	if err != nil {
		return exitError(exitStore, "opening catalog: %s", err)
	}
	defer store.Close()

	entry, err := catalog.NewEntry(spec)
	if err != nil {
		return exitError(exitStore, "preparing catalog entry: %s", err)
	}
	if err := store.Save(cmd.Context(), entry); err != nil {
		return exitError(exitStore, "saving to catalog: %s", err)
	}
	return nil
}
