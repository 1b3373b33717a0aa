package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// newTestRoot creates a fresh cobra root command wired to all subcommands.
// Each test gets an isolated command tree to avoid shared state.
func newTestRoot() *cobra.Command {
	root := &cobra.Command{
		Use:          "lcspec",
		SilenceUsage: true,
	}
	root.AddCommand(NewGenerateCmd())
	root.AddCommand(NewValidateCmd())
	root.AddCommand(NewInspectCmd())
	root.AddCommand(NewConvertCmd())
	root.AddCommand(NewCatalogCmd())
	return root
}

// executeCommand runs a cobra command with the given args and captures stdout/stderr.
func executeCommand(root *cobra.Command, args ...string) (stdout, stderr string, err error) {
	var outBuf, errBuf bytes.Buffer
	root.SetOut(&outBuf)
	root.SetErr(&errBuf)
	root.SetArgs(args)
	err = root.Execute()
	return outBuf.String(), errBuf.String(), err
}

// writeTestFile creates a temporary file with the given content and returns its path.
func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

const univariateYAML = `processes: [y]
horizon: 5
`

const bivariateYAML = `processes: [x, y]
horizon: 5
coupled: true
stochastic: true
`

const badHorizonYAML = `processes: [y]
horizon: 1
`

// --- Validate command tests ---

func TestValidate_ValidConfig(t *testing.T) {
	path := writeTestFile(t, "model.yaml", univariateYAML)
	root := newTestRoot()
	stdout, _, err := executeCommand(root, "validate", path)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !strings.Contains(stdout, "Valid") {
		t.Errorf("expected 'Valid' in output, got: %q", stdout)
	}
}

func TestValidate_BadHorizon(t *testing.T) {
	path := writeTestFile(t, "model.yaml", badHorizonYAML)
	root := newTestRoot()
	stdout, _, err := executeCommand(root, "validate", path)
	if err == nil {
		t.Fatal("expected an error for horizon 1")
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != exitValidation {
		t.Errorf("expected exit code %d, got: %v", exitValidation, err)
	}
	if !strings.Contains(stdout, "CF-001") {
		t.Errorf("expected CF-001 diagnostic in output, got: %q", stdout)
	}
}

func TestValidate_StrictTreatsWarningAsError(t *testing.T) {
	path := writeTestFile(t, "model.yaml", "processes: [y]\nhorizon: 5\ncoupled: true\n")
	root := newTestRoot()
	_, _, err := executeCommand(root, "validate", path)
	if err != nil {
		t.Fatalf("warning alone should not fail: %v", err)
	}

	root = newTestRoot()
	_, _, err = executeCommand(root, "validate", "--strict", path)
	if err == nil {
		t.Fatal("expected --strict to fail on a warning")
	}
}

func TestValidate_JSONOutput(t *testing.T) {
	path := writeTestFile(t, "model.yaml", univariateYAML)
	root := newTestRoot()
	stdout, _, err := executeCommand(root, "validate", "--format", "json", path)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if strings.TrimSpace(stdout) != "[]" {
		t.Errorf("expected empty JSON array, got: %q", stdout)
	}
}

func TestValidate_MissingFile(t *testing.T) {
	root := newTestRoot()
	_, _, err := executeCommand(root, "validate", "/nonexistent/model.yaml")
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != exitFileNotFound {
		t.Errorf("expected exit code %d, got: %v", exitFileNotFound, err)
	}
}

// --- Generate command tests ---

func TestGenerate_PathList(t *testing.T) {
	path := writeTestFile(t, "model.yaml", univariateYAML)
	root := newTestRoot()
	stdout, _, err := executeCommand(root, "generate", path)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !strings.HasPrefix(stdout, "from\tto\tarrows\tfree\tvalue\tlabel\n") {
		t.Errorf("missing path-list header, got: %q", firstLine(stdout))
	}
	if !strings.Contains(stdout, "one\ty0\t1\t1\t0\tmean_y0") {
		t.Errorf("expected level-mean row in output:\n%s", stdout)
	}
	// header + 32 paths
	if got := strings.Count(stdout, "\n"); got != 33 {
		t.Errorf("line count = %d, want 33", got)
	}
}

func TestGenerate_Equations(t *testing.T) {
	path := writeTestFile(t, "model.yaml", univariateYAML)
	root := newTestRoot()
	stdout, _, err := executeCommand(root, "generate", "--format", "equations", path)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	for _, want := range []string{
		"# regressions",
		"ly2 ~ 1*ly1",
		"dy2 ~ beta*ly1",
		"y0 ~ mean_y0*1",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in equations output", want)
		}
	}
}

func TestGenerate_OutputFile(t *testing.T) {
	cfgPath := writeTestFile(t, "model.yaml", bivariateYAML)
	outPath := filepath.Join(t.TempDir(), "spec.tsv")
	root := newTestRoot()
	_, _, err := executeCommand(root, "generate", "-o", outPath, cfgPath)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	// header + 93 paths
	if got := bytes.Count(data, []byte("\n")); got != 94 {
		t.Errorf("line count = %d, want 94", got)
	}
}

func TestGenerate_UnknownFormat(t *testing.T) {
	path := writeTestFile(t, "model.yaml", univariateYAML)
	root := newTestRoot()
	_, _, err := executeCommand(root, "generate", "--format", "xml", path)
	if err == nil {
		t.Fatal("expected an error for unknown format")
	}
}

func TestGenerate_SaveAndCatalog(t *testing.T) {
	cfgPath := writeTestFile(t, "model.yaml", univariateYAML)
	dbPath := filepath.Join(t.TempDir(), "catalog.db")

	root := newTestRoot()
	_, stderr, err := executeCommand(root, "generate", "--save", dbPath, cfgPath)
	if err != nil {
		t.Fatalf("generate --save: %v", err)
	}
	if !strings.Contains(stderr, "saved spec") {
		t.Errorf("expected save confirmation on stderr, got: %q", stderr)
	}

	root = newTestRoot()
	stdout, _, err := executeCommand(root, "catalog", "list", "--db", dbPath)
	if err != nil {
		t.Fatalf("catalog list: %v", err)
	}
	if !strings.Contains(stdout, "FINGERPRINT") || strings.Contains(stdout, "catalog is empty") {
		t.Errorf("expected one catalog entry, got: %q", stdout)
	}

	// The fingerprint prefix printed by list resolves the entry.
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	fields := strings.Fields(lines[len(lines)-1])
	if len(fields) < 2 {
		t.Fatalf("unexpected list row: %q", lines[len(lines)-1])
	}
	root = newTestRoot()
	shown, _, err := executeCommand(root, "catalog", "show", "--db", dbPath, fields[1])
	if err != nil {
		t.Fatalf("catalog show: %v", err)
	}
	if !strings.HasPrefix(shown, "from\tto\t") {
		t.Errorf("expected stored path list, got: %q", firstLine(shown))
	}

	root = newTestRoot()
	_, _, err = executeCommand(root, "catalog", "delete", "--db", dbPath, fields[0])
	if err != nil {
		t.Fatalf("catalog delete: %v", err)
	}
}

// --- Inspect command tests ---

func TestInspect_Config(t *testing.T) {
	path := writeTestFile(t, "model.yaml", bivariateYAML)
	root := newTestRoot()
	stdout, _, err := executeCommand(root, "inspect", path)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	for _, want := range []string{
		"Processes:   x, y",
		"Coupled:     true",
		"Stochastic:  true",
		"Invariance:  strong",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in inspect output:\n%s", want, stdout)
		}
	}
	if !strings.Contains(stdout, "total") {
		t.Errorf("expected path totals in inspect output")
	}
}

func TestInspect_ExportedForm(t *testing.T) {
	cfgPath := writeTestFile(t, "model.yaml", univariateYAML)
	specPath := filepath.Join(t.TempDir(), "spec.tsv")
	root := newTestRoot()
	if _, _, err := executeCommand(root, "generate", "-o", specPath, cfgPath); err != nil {
		t.Fatalf("generate: %v", err)
	}

	root = newTestRoot()
	stdout, _, err := executeCommand(root, "inspect", specPath)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if !strings.Contains(stdout, "Source:      pathlist") {
		t.Errorf("expected pathlist source, got:\n%s", stdout)
	}
}

// --- Convert command tests ---

func TestConvert_RoundTrip(t *testing.T) {
	cfgPath := writeTestFile(t, "model.yaml", bivariateYAML)
	specPath := filepath.Join(t.TempDir(), "spec.tsv")
	root := newTestRoot()
	if _, _, err := executeCommand(root, "generate", "-o", specPath, cfgPath); err != nil {
		t.Fatalf("generate: %v", err)
	}
	original, err := os.ReadFile(specPath)
	if err != nil {
		t.Fatal(err)
	}

	// pathlist -> equations -> pathlist reproduces the original bytes.
	root = newTestRoot()
	equations, _, err := executeCommand(root, "convert", "--to", "equations", specPath)
	if err != nil {
		t.Fatalf("convert to equations: %v", err)
	}
	eqPath := writeTestFile(t, "spec.lav", equations)
	root = newTestRoot()
	restored, _, err := executeCommand(root, "convert", "--to", "pathlist", eqPath)
	if err != nil {
		t.Fatalf("convert back to pathlist: %v", err)
	}
	if restored != string(original) {
		t.Errorf("round trip changed output:\n--- original ---\n%s\n--- restored ---\n%s", original, restored)
	}
}

func TestConvert_UnknownTarget(t *testing.T) {
	path := writeTestFile(t, "model.yaml", univariateYAML)
	root := newTestRoot()
	_, _, err := executeCommand(root, "convert", "--to", "xml", path)
	if err == nil {
		t.Fatal("expected an error for unknown target")
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
