package lcspec

import (
	"fmt"
	"sort"
	"strconv"
)

// VarKind distinguishes the three endpoint kinds a path may reference.
type VarKind uint8

const (
	// KindLatent is an unobserved model variable.
	KindLatent VarKind = iota + 1
	// KindManifest is an observed measurement occasion.
	KindManifest
	// KindMeanSource is the constant pseudo-variable ("one") that mean and
	// intercept paths regress on, following the RAM convention.
	KindMeanSource
)

// Role classifies a latent variable within the change-score structure.
type Role uint8

const (
	// RoleInitialLevel is the time-free initial-level factor of a process.
	RoleInitialLevel Role = iota + 1
	// RoleInitialSlope is the time-free constant-change factor of a process.
	RoleInitialSlope
	// RoleState is the latent state at a time point (t = 1..T).
	RoleState
	// RoleChange is the latent change score at a time point (t = 2..T).
	RoleChange
)

func (r Role) String() string {
	switch r {
	case RoleInitialLevel:
		return "initial-level"
	case RoleInitialSlope:
		return "initial-slope"
	case RoleState:
		return "state"
	case RoleChange:
		return "change"
	default:
		return "unknown"
	}
}

// VariableRef identifies a variable by typed fields rather than an assembled
// name string. It is a comparable value type; two refs are the same variable
// exactly when they are ==.
//
// Field usage by kind:
//   - KindLatent: Role, Process always set; Time set for State/Change,
//     zero for the initial factors.
//   - KindManifest: Process, Time always set; Indicator is 1-based when the
//     process declares multiple indicators, and zero for a single-indicator
//     process (whose manifests are named after the process itself).
//   - KindMeanSource: all other fields zero.
type VariableRef struct {
	Kind      VarKind
	Role      Role
	Process   string
	Indicator int
	Time      int
}

// One is the constant mean-source pseudo-variable.
var One = VariableRef{Kind: KindMeanSource}

// Name renders the ref in the external naming scheme shared by both
// exported forms: "one"; "<p>0" / "<p>a" for the initial factors;
// "l<p><t>" / "d<p><t>" for states and changes; "<p><t>" for the manifest
// of a single-indicator process and "<p><i>_<t>" otherwise.
func (v VariableRef) Name() string {
	switch v.Kind {
	case KindMeanSource:
		return "one"
	case KindLatent:
		switch v.Role {
		case RoleInitialLevel:
			return v.Process + "0"
		case RoleInitialSlope:
			return v.Process + "a"
		case RoleState:
			return "l" + v.Process + strconv.Itoa(v.Time)
		case RoleChange:
			return "d" + v.Process + strconv.Itoa(v.Time)
		}
	case KindManifest:
		if v.Indicator == 0 {
			return v.Process + strconv.Itoa(v.Time)
		}
		return v.Process + strconv.Itoa(v.Indicator) + "_" + strconv.Itoa(v.Time)
	}
	return ""
}

// IsZero reports whether the ref is the zero value (no variable).
func (v VariableRef) IsZero() bool {
	return v.Kind == 0
}

// VariableSet holds every variable allocated for one configuration.
// It is populated once by Allocate and read-only afterwards.
type VariableSet struct {
	latents   []VariableRef
	manifests []VariableRef
	index     map[VariableRef]struct{}
}

// Latents returns the latent variables in allocation order.
func (s *VariableSet) Latents() []VariableRef {
	out := make([]VariableRef, len(s.latents))
	copy(out, s.latents)
	return out
}

// Manifests returns the manifest variables in allocation order.
func (s *VariableSet) Manifests() []VariableRef {
	out := make([]VariableRef, len(s.manifests))
	copy(out, s.manifests)
	return out
}

// Contains reports whether ref was allocated in this set. The mean source
// is always considered present.
func (s *VariableSet) Contains(ref VariableRef) bool {
	if ref.Kind == KindMeanSource {
		return true
	}
	_, ok := s.index[ref]
	return ok
}

// ManifestNames returns the column names the estimation engine's data
// source must provide, in allocation order.
func (s *VariableSet) ManifestNames() []string {
	names := make([]string, len(s.manifests))
	for i, m := range s.manifests {
		names[i] = m.Name()
	}
	return names
}

func (s *VariableSet) add(ref VariableRef) {
	if s.index == nil {
		s.index = make(map[VariableRef]struct{})
	}
	s.index[ref] = struct{}{}
	switch ref.Kind {
	case KindLatent:
		s.latents = append(s.latents, ref)
	case KindManifest:
		s.manifests = append(s.manifests, ref)
	}
}

// Allocate builds the variable set for the given processes, horizon, and
// per-process indicator counts. For each process it emits the two initial
// factors, states for t = 1..T, changes for t = 2..T, and one manifest per
// declared indicator per time point. An indicator count of 1 yields
// manifests named after the process (Indicator 0), reproducing the
// single-indicator naming.
func Allocate(processes []string, horizon int, indicators map[string]int) (*VariableSet, error) {
	if horizon < 2 {
		return nil, fmt.Errorf("horizon %d: at least two time points are needed for a change score: %w", horizon, ErrInvalidConfig)
	}
	if len(processes) == 0 {
		return nil, fmt.Errorf("no processes declared: %w", ErrInvalidConfig)
	}

	set := &VariableSet{}
	for _, p := range processes {
		k := indicators[p]
		if k == 0 {
			k = 1
		}
		if k < 0 {
			return nil, fmt.Errorf("process %q declares %d indicators: %w", p, k, ErrInvalidConfig)
		}

		set.add(VariableRef{Kind: KindLatent, Role: RoleInitialLevel, Process: p})
		set.add(VariableRef{Kind: KindLatent, Role: RoleInitialSlope, Process: p})
		for t := 1; t <= horizon; t++ {
			set.add(VariableRef{Kind: KindLatent, Role: RoleState, Process: p, Time: t})
		}
		for t := 2; t <= horizon; t++ {
			set.add(VariableRef{Kind: KindLatent, Role: RoleChange, Process: p, Time: t})
		}
		for i := 1; i <= k; i++ {
			ind := i
			if k == 1 {
				ind = 0
			}
			for t := 1; t <= horizon; t++ {
				set.add(VariableRef{Kind: KindManifest, Process: p, Indicator: ind, Time: t})
			}
		}
	}
	return set, nil
}

// sortRefs orders refs by name-independent canonical key, used when two
// sets built in different orders must be compared as equal.
func sortRefs(refs []VariableRef) {
	sort.Slice(refs, func(i, j int) bool {
		a, b := refs[i], refs[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Process != b.Process {
			return a.Process < b.Process
		}
		if a.Role != b.Role {
			return a.Role < b.Role
		}
		if a.Indicator != b.Indicator {
			return a.Indicator < b.Indicator
		}
		return a.Time < b.Time
	})
}
