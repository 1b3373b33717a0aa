// Package export renders a built model specification into its two external
// forms, a RAM-style path list and equation text, and parses either form
// back into the abstract graph. The two renderings are equivalent views of
// one specification: parsing either must yield a spec that compares Equal
// to the original.
package export

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/latentlab/lcspec"
)

var (
	// ErrExport indicates a specification that cannot be rendered, such as
	// one with no paths.
	ErrExport = errors.New("specification cannot be exported")

	// ErrParse indicates malformed path-list or equation input.
	ErrParse = errors.New("malformed specification text")
)

var (
	stateRe         = regexp.MustCompile(`^([ld])([a-z])([0-9]+)$`)
	initialRe       = regexp.MustCompile(`^([a-z])(0|a)$`)
	soloManifestRe  = regexp.MustCompile(`^([a-z])([0-9]+)$`)
	multiManifestRe = regexp.MustCompile(`^([a-z])([0-9]+)_([0-9]+)$`)
)

// parseVarName maps an external variable name back to its typed ref,
// inverting VariableRef.Name.
func parseVarName(s string) (lcspec.VariableRef, error) {
	if s == "one" {
		return lcspec.One, nil
	}
	if m := initialRe.FindStringSubmatch(s); m != nil {
		role := lcspec.RoleInitialLevel
		if m[2] == "a" {
			role = lcspec.RoleInitialSlope
		}
		return lcspec.VariableRef{Kind: lcspec.KindLatent, Role: role, Process: m[1]}, nil
	}
	if m := stateRe.FindStringSubmatch(s); m != nil {
		role := lcspec.RoleState
		if m[1] == "d" {
			role = lcspec.RoleChange
		}
		t, _ := strconv.Atoi(m[3])
		return lcspec.VariableRef{Kind: lcspec.KindLatent, Role: role, Process: m[2], Time: t}, nil
	}
	if m := soloManifestRe.FindStringSubmatch(s); m != nil {
		t, _ := strconv.Atoi(m[2])
		return lcspec.VariableRef{Kind: lcspec.KindManifest, Process: m[1], Time: t}, nil
	}
	if m := multiManifestRe.FindStringSubmatch(s); m != nil {
		i, _ := strconv.Atoi(m[2])
		t, _ := strconv.Atoi(m[3])
		return lcspec.VariableRef{Kind: lcspec.KindManifest, Process: m[1], Indicator: i, Time: t}, nil
	}
	return lcspec.VariableRef{}, fmt.Errorf("variable name %q: %w", s, ErrParse)
}

// classify recovers the structural path class from the endpoint shapes.
// Both external forms omit the class, so parsing depends on the class being
// a pure function of kind and endpoints.
func classify(kind lcspec.PathKind, from, to lcspec.VariableRef) (lcspec.PathClass, error) {
	if kind == lcspec.Covariance {
		switch {
		case isInitial(from) && isInitial(to):
			return lcspec.ClassInitialCovariances, nil
		case from.Kind == lcspec.KindManifest && to.Kind == lcspec.KindManifest:
			return lcspec.ClassMeasurementError, nil
		case from.Role == lcspec.RoleChange && to.Role == lcspec.RoleChange:
			return lcspec.ClassInnovation, nil
		}
		return 0, fmt.Errorf("covariance %s ~~ %s fits no class: %w", from.Name(), to.Name(), ErrParse)
	}

	switch {
	case from.Kind == lcspec.KindMeanSource && to.Kind == lcspec.KindLatent:
		return lcspec.ClassMeans, nil
	case from.Kind == lcspec.KindMeanSource && to.Kind == lcspec.KindManifest:
		return lcspec.ClassIntercepts, nil
	case from.Role == lcspec.RoleInitialLevel && to.Role == lcspec.RoleState:
		return lcspec.ClassLatentChain, nil
	case from.Role == lcspec.RoleState && to.Role == lcspec.RoleState:
		return lcspec.ClassLatentChain, nil
	case from.Role == lcspec.RoleInitialSlope && to.Role == lcspec.RoleChange:
		return lcspec.ClassAdditiveToChange, nil
	case from.Role == lcspec.RoleState && to.Role == lcspec.RoleChange && from.Process == to.Process:
		return lcspec.ClassSelfFeedback, nil
	case from.Role == lcspec.RoleState && to.Role == lcspec.RoleChange:
		return lcspec.ClassCoupling, nil
	case from.Role == lcspec.RoleChange && to.Role == lcspec.RoleState:
		return lcspec.ClassChangeToState, nil
	case from.Role == lcspec.RoleState && to.Kind == lcspec.KindManifest:
		return lcspec.ClassMeasurement, nil
	}
	return 0, fmt.Errorf("regression %s -> %s fits no class: %w", from.Name(), to.Name(), ErrParse)
}

func isInitial(v lcspec.VariableRef) bool {
	return v.Role == lcspec.RoleInitialLevel || v.Role == lcspec.RoleInitialSlope
}

// formatValue renders a fixed value without a trailing fraction for whole
// numbers, matching the hand-written tutorials ("1", "0", "0.5").
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
