package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/latentlab/lcspec"
)

func TestToEquationText_Lines(t *testing.T) {
	spec := buildSpec(t, lcspec.Config{Processes: []string{"y"}, Horizon: 5})

	text, err := ToEquationText(spec)
	if err != nil {
		t.Fatalf("ToEquationText() error = %v", err)
	}

	for _, want := range []string{
		"ly1 ~ 1*y0",
		"ly2 ~ 1*ly1",
		"dy2 ~ 1*ya",
		"dy2 ~ beta*ly1",
		"ly2 ~ 1*dy2",
		"ly1 =~ 1*y1",
		"y0 ~ mean_y0*1",
		"ya ~ mean_ya*1",
		"y0 ~~ var_y0*y0",
		"y0 ~~ cov_y0ya*ya",
		"y1 ~~ mer_y*y1",
	} {
		if !strings.Contains(text, want+"\n") {
			t.Errorf("equation text missing line %q", want)
		}
	}

	// Group headers appear in order.
	lastIdx := -1
	for _, header := range []string{"# regressions", "# loadings", "# means and intercepts", "# variances and covariances"} {
		idx := strings.Index(text, header)
		if idx < 0 {
			t.Errorf("missing group header %q", header)
			continue
		}
		if idx < lastIdx {
			t.Errorf("group header %q out of order", header)
		}
		lastIdx = idx
	}
}

func TestWriteEquations_Deterministic(t *testing.T) {
	cfg := lcspec.Config{Processes: []string{"x", "y"}, Horizon: 4, Coupled: true, Stochastic: true}

	var a, b bytes.Buffer
	if err := WriteEquations(&a, buildSpec(t, cfg)); err != nil {
		t.Fatalf("WriteEquations() error = %v", err)
	}
	if err := WriteEquations(&b, buildSpec(t, cfg)); err != nil {
		t.Fatalf("WriteEquations() error = %v", err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("two builds rendered different equation bytes")
	}
}

func TestEquations_RoundTrip(t *testing.T) {
	configs := []lcspec.Config{
		{Processes: []string{"y"}, Horizon: 5},
		{Processes: []string{"x", "y"}, Horizon: 5, Coupled: true, Stochastic: true},
		{Processes: []string{"x"}, Horizon: 3, Indicators: map[string]int{"x": 3}},
		{Processes: []string{"x", "y"}, Horizon: 4, Indicators: map[string]int{"x": 2, "y": 1}, Invariance: lcspec.InvarianceConfigural},
	}

	for _, cfg := range configs {
		spec := buildSpec(t, cfg)

		text, err := ToEquationText(spec)
		if err != nil {
			t.Fatalf("ToEquationText() error = %v", err)
		}
		parsed, err := ParseEquations(strings.NewReader(text))
		if err != nil {
			t.Fatalf("ParseEquations() error = %v", err)
		}
		if !lcspec.Equal(spec, parsed) {
			t.Errorf("round trip changed the spec for %+v", cfg)
		}
	}
}

// The two renderings are views of one graph: parsing either yields the
// same abstract specification.
func TestForms_AgreeOnOneGraph(t *testing.T) {
	spec := buildSpec(t, lcspec.Config{Processes: []string{"x", "y"}, Horizon: 5, Coupled: true, Stochastic: true})

	var pl bytes.Buffer
	if err := WritePathList(&pl, spec); err != nil {
		t.Fatalf("WritePathList() error = %v", err)
	}
	fromRows, err := ParsePathList(&pl)
	if err != nil {
		t.Fatalf("ParsePathList() error = %v", err)
	}

	text, err := ToEquationText(spec)
	if err != nil {
		t.Fatalf("ToEquationText() error = %v", err)
	}
	fromEquations, err := ParseEquations(strings.NewReader(text))
	if err != nil {
		t.Fatalf("ParseEquations() error = %v", err)
	}

	if !lcspec.Equal(fromRows, fromEquations) {
		t.Error("path-list and equation parses disagree")
	}
}

func TestParseEquations_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"no operator", "dy2 beta ly1\n"},
		{"bad lhs", "QQ ~ 1*ly1\n"},
		{"bad rhs", "dy2 ~ beta*QQ\n"},
		{"empty term", "dy2 ~ beta*\n"},
		{"unclassifiable", "y0 ~ 1*dy2\n"},
		{"empty", "# only a comment\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEquations(strings.NewReader(tt.input))
			if !errors.Is(err, ErrParse) {
				t.Errorf("ParseEquations() error = %v, want ErrParse", err)
			}
		})
	}
}

func TestWriteEquations_EmptySpec(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteEquations(&buf, &lcspec.ModelSpec{}); !errors.Is(err, ErrExport) {
		t.Errorf("WriteEquations(empty) error = %v, want ErrExport", err)
	}
}
