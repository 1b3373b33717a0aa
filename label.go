package lcspec

import (
	"fmt"
	"sort"
)

// labelInfo records the structural signature a label was first interned
// with, plus the indices of its member paths.
type labelInfo struct {
	kind    PathKind
	free    bool
	members []int
}

// LabelRegistry manages named free parameters and their equality-constraint
// membership. Interning the same name twice validates that both uses agree
// in path kind and freeness; sharing a name across paths constrains them to
// one estimated value.
//
// A registry belongs to a single build and is not safe for concurrent use;
// independent builds use independent registries.
type LabelRegistry struct {
	labels map[string]*labelInfo
	order  []string
}

// NewLabelRegistry creates an empty registry.
func NewLabelRegistry() *LabelRegistry {
	return &LabelRegistry{labels: make(map[string]*labelInfo)}
}

// Intern registers name with the given structural signature. Repeated calls
// with the same name are idempotent when the signature matches and fail
// with ErrLabelConflict otherwise.
func (r *LabelRegistry) Intern(name string, kind PathKind, free bool) error {
	if name == "" {
		return fmt.Errorf("empty label name: %w", ErrLabelConflict)
	}
	if info, ok := r.labels[name]; ok {
		if info.kind != kind {
			return fmt.Errorf("label %q interned as %s and %s: %w", name, info.kind, kind, ErrLabelConflict)
		}
		if info.free != free {
			return fmt.Errorf("label %q interned as both free and fixed: %w", name, ErrLabelConflict)
		}
		return nil
	}
	r.labels[name] = &labelInfo{kind: kind, free: free}
	r.order = append(r.order, name)
	return nil
}

// Attach records pathIdx as a member of name. The label must have been
// interned first.
func (r *LabelRegistry) Attach(name string, pathIdx int) error {
	info, ok := r.labels[name]
	if !ok {
		return fmt.Errorf("label %q attached before intern: %w", name, ErrLabelConflict)
	}
	info.members = append(info.members, pathIdx)
	return nil
}

// Members returns the path indices tied by name, in attachment order, or
// nil when the label is unknown.
func (r *LabelRegistry) Members(name string) []int {
	info, ok := r.labels[name]
	if !ok {
		return nil
	}
	out := make([]int, len(info.members))
	copy(out, info.members)
	return out
}

// Names returns every interned label in first-intern order.
func (r *LabelRegistry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Kind returns the path kind a label was interned with.
func (r *LabelRegistry) Kind(name string) (PathKind, bool) {
	info, ok := r.labels[name]
	if !ok {
		return 0, false
	}
	return info.kind, true
}

// snapshot returns name -> sorted member indices, used for set comparison.
func (r *LabelRegistry) snapshot() map[string][]int {
	out := make(map[string][]int, len(r.labels))
	for name, info := range r.labels {
		members := make([]int, len(info.members))
		copy(members, info.members)
		sort.Ints(members)
		out[name] = members
	}
	return out
}
