package lcspec

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// ModelSpec is the complete specification of one model variant: every
// variable, every constrained path, and the label table tying parameters to
// one another. It is immutable once built; accessors return copies.
type ModelSpec struct {
	id          string
	config      Config
	fingerprint string
	vars        *VariableSet
	paths       []Path
	labels      *LabelRegistry
}

// ID returns the unique identifier assigned when the spec was built. Two
// builds of the same configuration share a fingerprint but not an ID.
func (s *ModelSpec) ID() string { return s.id }

// Config returns the normalized configuration the spec was built from. The
// zero Config is returned for specs reconstructed by parsing an exported
// form.
func (s *ModelSpec) Config() Config { return s.config }

// Fingerprint returns the configuration fingerprint, or "" for parsed specs.
func (s *ModelSpec) Fingerprint() string { return s.fingerprint }

// Variables returns the variable set.
func (s *ModelSpec) Variables() *VariableSet { return s.vars }

// Paths returns the paths in canonical order.
func (s *ModelSpec) Paths() []Path {
	out := make([]Path, len(s.paths))
	copy(out, s.paths)
	return out
}

// PathsByClass returns the paths of one class, preserving canonical order.
func (s *ModelSpec) PathsByClass(class PathClass) []Path {
	var out []Path
	for _, p := range s.paths {
		if p.Class == class {
			out = append(out, p)
		}
	}
	return out
}

// LabelNames returns every parameter label in first-use order.
func (s *ModelSpec) LabelNames() []string { return s.labels.Names() }

// LabelMembers returns the indices (into Paths) of the paths tied by name.
func (s *ModelSpec) LabelMembers(name string) []int { return s.labels.Members(name) }

// Counts summarizes a specification for inspection and for exact count
// assertions in tests.
type Counts struct {
	Latents      map[Role]int
	Manifests    int
	PathsByClass map[PathClass]int
	TotalPaths   int
	Labels       int
}

// Counts tallies variables per role and paths per class.
func (s *ModelSpec) Counts() Counts {
	c := Counts{
		Latents:      make(map[Role]int),
		PathsByClass: make(map[PathClass]int),
	}
	for _, v := range s.vars.latents {
		c.Latents[v.Role]++
	}
	c.Manifests = len(s.vars.manifests)
	for _, p := range s.paths {
		c.PathsByClass[p.Class]++
	}
	c.TotalPaths = len(s.paths)
	c.Labels = len(s.labels.order)
	return c
}

// FromPaths reconstructs a specification from a path list, deriving the
// variable set from the path endpoints, interning every label, and
// restoring canonical class order (relative order within a class is kept).
// It is the entry point for the exported-form parsers and fails with
// ErrLabelConflict or ErrInvalidPath on an inconsistent list.
func FromPaths(paths []Path) (*ModelSpec, error) {
	ordered := make([]Path, len(paths))
	copy(ordered, paths)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Class < ordered[j].Class
	})

	vars := &VariableSet{}
	for _, p := range ordered {
		for _, ref := range []VariableRef{p.From, p.To} {
			if ref.Kind == KindMeanSource || vars.Contains(ref) {
				continue
			}
			vars.add(ref)
		}
	}
	return newModelSpec(Config{}, "", vars, ordered)
}

// newModelSpec validates paths against vars, interns and attaches labels,
// and seals the result. All structural and referential checks live here so
// that built and parsed specifications pass through identical validation.
func newModelSpec(cfg Config, fingerprint string, vars *VariableSet, paths []Path) (*ModelSpec, error) {
	labels := NewLabelRegistry()
	for i, p := range paths {
		if !vars.Contains(p.From) {
			return nil, fmt.Errorf("path %d: from %q: %w", i, p.From.Name(), ErrUnknownVariable)
		}
		if !vars.Contains(p.To) {
			return nil, fmt.Errorf("path %d: to %q: %w", i, p.To.Name(), ErrUnknownVariable)
		}
		if p.Kind == Covariance && p.From != p.To &&
			p.From.Kind == KindManifest && p.To.Kind == KindManifest &&
			p.From.Process == p.To.Process {
			// A residual covariance between two distinct manifests of one
			// process is a self-loop in disguise, not a variance term.
			return nil, fmt.Errorf("path %d: covariance between %q and %q within process %q: %w",
				i, p.From.Name(), p.To.Name(), p.From.Process, ErrInvalidPath)
		}
		if p.Label == "" {
			continue
		}
		if err := labels.Intern(p.Label, p.Kind, p.Free); err != nil {
			return nil, err
		}
		if err := labels.Attach(p.Label, i); err != nil {
			return nil, err
		}
	}

	return &ModelSpec{
		id:          uuid.NewString(),
		config:      cfg,
		fingerprint: fingerprint,
		vars:        vars,
		paths:       paths,
		labels:      labels,
	}, nil
}

// Equal reports whether two specifications describe the same abstract
// graph: the same variable set, the same paths in canonical order, and the
// same label memberships. ID, fingerprint, and configuration provenance are
// ignored, so a built spec compares equal to its parsed round-trip.
func Equal(a, b *ModelSpec) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.paths) != len(b.paths) {
		return false
	}
	for i := range a.paths {
		if a.paths[i] != b.paths[i] {
			return false
		}
	}

	av := append(a.vars.Latents(), a.vars.Manifests()...)
	bv := append(b.vars.Latents(), b.vars.Manifests()...)
	if len(av) != len(bv) {
		return false
	}
	sortRefs(av)
	sortRefs(bv)
	for i := range av {
		if av[i] != bv[i] {
			return false
		}
	}

	as, bs := a.labels.snapshot(), b.labels.snapshot()
	if len(as) != len(bs) {
		return false
	}
	for name, members := range as {
		other, ok := bs[name]
		if !ok || len(other) != len(members) {
			return false
		}
		for i := range members {
			if members[i] != other[i] {
				return false
			}
		}
	}
	return true
}
