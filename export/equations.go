package export

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/latentlab/lcspec"
)

// Operator tokens of the equation form.
const (
	opMeasuredBy   = "=~"
	opCovariesWith = "~~"
	opRegressedOn  = "~"
)

// equation groups, in emission order. Each group draws whole path classes,
// so parsing a grouped file and restoring class order recovers the
// canonical path sequence exactly.
var equationGroups = []struct {
	header  string
	classes []lcspec.PathClass
}{
	{"# regressions", []lcspec.PathClass{
		lcspec.ClassLatentChain,
		lcspec.ClassAdditiveToChange,
		lcspec.ClassSelfFeedback,
		lcspec.ClassCoupling,
		lcspec.ClassChangeToState,
	}},
	{"# loadings", []lcspec.PathClass{lcspec.ClassMeasurement}},
	{"# means and intercepts", []lcspec.PathClass{lcspec.ClassMeans, lcspec.ClassIntercepts}},
	{"# variances and covariances", []lcspec.PathClass{
		lcspec.ClassInitialCovariances,
		lcspec.ClassMeasurementError,
		lcspec.ClassInnovation,
	}},
}

// WriteEquations writes the equation-text form: one line per path, grouped
// by operator, using the same labels as the path-list form. The output is
// byte-identical across builds of one configuration.
func WriteEquations(w io.Writer, spec *lcspec.ModelSpec) error {
	paths := spec.Paths()
	if len(paths) == 0 {
		return fmt.Errorf("specification has no paths: %w", ErrExport)
	}

	bw := bufio.NewWriter(w)
	for gi, group := range equationGroups {
		inGroup := make(map[lcspec.PathClass]bool, len(group.classes))
		for _, c := range group.classes {
			inGroup[c] = true
		}

		var lines []string
		for _, p := range paths {
			if inGroup[p.Class] {
				lines = append(lines, equationLine(p))
			}
		}
		if len(lines) == 0 {
			continue
		}
		if gi > 0 {
			fmt.Fprintln(bw)
		}
		fmt.Fprintln(bw, group.header)
		for _, line := range lines {
			fmt.Fprintln(bw, line)
		}
	}
	return bw.Flush()
}

// ToEquationText renders the equation form as a single string.
func ToEquationText(spec *lcspec.ModelSpec) (string, error) {
	var sb strings.Builder
	if err := WriteEquations(&sb, spec); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// equationLine renders one path. Measurement paths use the measured-by
// operator with the state on the left; mean and intercept paths regress on
// the literal "1"; everything else follows the path direction.
func equationLine(p lcspec.Path) string {
	switch {
	case p.Kind == lcspec.Covariance:
		return p.From.Name() + " " + opCovariesWith + " " + term(p, p.To.Name())
	case p.Class == lcspec.ClassMeasurement:
		return p.From.Name() + " " + opMeasuredBy + " " + term(p, p.To.Name())
	case p.From == lcspec.One:
		return p.To.Name() + " " + opRegressedOn + " " + term(p, "1")
	default:
		return p.To.Name() + " " + opRegressedOn + " " + term(p, p.From.Name())
	}
}

// term renders the right-hand side: "<value>*name" for fixed paths,
// "<label>*name" for labeled free paths, bare name otherwise.
func term(p lcspec.Path, name string) string {
	if !p.Free {
		return formatValue(p.Value) + "*" + name
	}
	if p.Label != "" {
		return p.Label + "*" + name
	}
	return name
}

// ParseEquations reads equation text back into a model specification.
// Blank lines and '#' comments are skipped; operator detection tries
// measured-by, then covaries-with, then regressed-on.
func ParseEquations(r io.Reader) (*lcspec.ModelSpec, error) {
	scanner := bufio.NewScanner(r)
	var paths []lcspec.Path
	line := 0

	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		path, err := parseEquationLine(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		paths = append(paths, path)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading equations: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("empty equation input: %w", ErrParse)
	}

	return lcspec.FromPaths(paths)
}

func parseEquationLine(text string) (lcspec.Path, error) {
	var op string
	switch {
	case strings.Contains(text, " "+opMeasuredBy+" "):
		op = opMeasuredBy
	case strings.Contains(text, " "+opCovariesWith+" "):
		op = opCovariesWith
	case strings.Contains(text, " "+opRegressedOn+" "):
		op = opRegressedOn
	default:
		return lcspec.Path{}, fmt.Errorf("no operator in %q: %w", text, ErrParse)
	}

	parts := strings.SplitN(text, " "+op+" ", 2)
	lhs := strings.TrimSpace(parts[0])
	rhs := strings.TrimSpace(parts[1])

	free, value, label, baseName, err := splitTerm(rhs)
	if err != nil {
		return lcspec.Path{}, err
	}

	var kind lcspec.PathKind
	var from, to lcspec.VariableRef

	switch op {
	case opCovariesWith:
		kind = lcspec.Covariance
		if from, err = parseVarName(lhs); err != nil {
			return lcspec.Path{}, err
		}
		if to, err = parseVarName(baseName); err != nil {
			return lcspec.Path{}, err
		}
	case opMeasuredBy:
		kind = lcspec.Regression
		if from, err = parseVarName(lhs); err != nil {
			return lcspec.Path{}, err
		}
		if to, err = parseVarName(baseName); err != nil {
			return lcspec.Path{}, err
		}
	case opRegressedOn:
		kind = lcspec.Regression
		if to, err = parseVarName(lhs); err != nil {
			return lcspec.Path{}, err
		}
		if baseName == "1" {
			from = lcspec.One
		} else if from, err = parseVarName(baseName); err != nil {
			return lcspec.Path{}, err
		}
	}

	class, err := classify(kind, from, to)
	if err != nil {
		return lcspec.Path{}, err
	}

	return lcspec.Path{
		Class: class,
		Kind:  kind,
		From:  from,
		To:    to,
		Free:  free,
		Value: value,
		Label: label,
	}, nil
}

// splitTerm decomposes "mult*name" / "name" right-hand sides. A numeric
// multiplier fixes the path at that value; any other multiplier is a label
// on a free path.
func splitTerm(rhs string) (free bool, value float64, label, baseName string, err error) {
	if rhs == "" {
		return false, 0, "", "", fmt.Errorf("empty right-hand side: %w", ErrParse)
	}
	mult, name, found := strings.Cut(rhs, "*")
	if !found {
		return true, 0, "", rhs, nil
	}
	if name == "" || mult == "" {
		return false, 0, "", "", fmt.Errorf("malformed term %q: %w", rhs, ErrParse)
	}
	if v, perr := strconv.ParseFloat(mult, 64); perr == nil {
		return false, v, "", name, nil
	}
	return true, 0, mult, name, nil
}
