package export

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/latentlab/lcspec"
)

// PathRow is one row of the path-list form: a directed (arrows = 1) or
// bidirected (arrows = 2) relationship between two named variables, with
// its freeness, fixed value, and optional parameter label.
type PathRow struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Arrows int     `json:"arrows"`
	Free   int     `json:"free"`
	Value  float64 `json:"value"`
	Label  string  `json:"label,omitempty"`
}

// ToPathList renders spec as ordered path rows. Row order is the canonical
// path order of the specification, so repeated calls are identical.
func ToPathList(spec *lcspec.ModelSpec) ([]PathRow, error) {
	paths := spec.Paths()
	if len(paths) == 0 {
		return nil, fmt.Errorf("specification has no paths: %w", ErrExport)
	}

	rows := make([]PathRow, len(paths))
	for i, p := range paths {
		free := 0
		if p.Free {
			free = 1
		}
		rows[i] = PathRow{
			From:   p.From.Name(),
			To:     p.To.Name(),
			Arrows: p.Kind.Arrows(),
			Free:   free,
			Value:  p.Value,
			Label:  p.Label,
		}
	}
	return rows, nil
}

// WritePathList writes the tab-separated path-list text: a header row
// followed by one row per path. The output is byte-identical across builds
// of one configuration.
func WritePathList(w io.Writer, spec *lcspec.ModelSpec) error {
	rows, err := ToPathList(spec)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "from\tto\tarrows\tfree\tvalue\tlabel")
	for _, r := range rows {
		fmt.Fprintf(bw, "%s\t%s\t%d\t%d\t%s\t%s\n",
			r.From, r.To, r.Arrows, r.Free, formatValue(r.Value), r.Label)
	}
	return bw.Flush()
}

// ParsePathList reads path-list text back into a model specification. The
// header row is required; empty lines and lines starting with '#' are
// skipped.
func ParsePathList(r io.Reader) (*lcspec.ModelSpec, error) {
	scanner := bufio.NewScanner(r)
	var paths []lcspec.Path
	sawHeader := false
	line := 0

	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if !sawHeader {
			if !strings.HasPrefix(text, "from\t") {
				return nil, fmt.Errorf("line %d: missing path-list header: %w", line, ErrParse)
			}
			sawHeader = true
			continue
		}

		fields := strings.Split(text, "\t")
		if len(fields) != 6 {
			return nil, fmt.Errorf("line %d: %d fields, want 6: %w", line, len(fields), ErrParse)
		}

		path, err := rowToPath(fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		paths = append(paths, path)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading path list: %w", err)
	}
	if !sawHeader {
		return nil, fmt.Errorf("empty path-list input: %w", ErrParse)
	}

	return lcspec.FromPaths(paths)
}

func rowToPath(fields []string) (lcspec.Path, error) {
	from, err := parseVarName(fields[0])
	if err != nil {
		return lcspec.Path{}, err
	}
	to, err := parseVarName(fields[1])
	if err != nil {
		return lcspec.Path{}, err
	}

	arrows, err := strconv.Atoi(fields[2])
	if err != nil || (arrows != 1 && arrows != 2) {
		return lcspec.Path{}, fmt.Errorf("arrows %q: %w", fields[2], ErrParse)
	}
	kind := lcspec.Regression
	if arrows == 2 {
		kind = lcspec.Covariance
	}

	free, err := strconv.Atoi(fields[3])
	if err != nil || (free != 0 && free != 1) {
		return lcspec.Path{}, fmt.Errorf("free %q: %w", fields[3], ErrParse)
	}

	value, err := strconv.ParseFloat(fields[4], 64)
	if err != nil {
		return lcspec.Path{}, fmt.Errorf("value %q: %w", fields[4], ErrParse)
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
		Free:  free == 1,
		Value: value,
		Label: fields[5],
	}, nil
}
