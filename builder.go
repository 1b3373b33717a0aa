package lcspec

import (
	"fmt"
	"strconv"
)

// Build constructs the full model specification for cfg in one pass. The
// build is all-or-nothing: any configuration or label problem is returned
// before a specification exists. Paths are emitted in the canonical class
// order of PathClasses, processes in configuration order, time ascending,
// indicators ascending, so repeated builds render byte-identically.
func Build(cfg Config) (*ModelSpec, error) {
	cfg = cfg.Normalized()
	if err := cfg.Err(); err != nil {
		return nil, err
	}

	vars, err := Allocate(cfg.Processes, cfg.Horizon, cfg.Indicators)
	if err != nil {
		return nil, err
	}

	b := &pathBuilder{cfg: cfg, vars: vars}
	b.means()
	b.initialCovariances()
	b.latentChain()
	b.additiveToChange()
	b.selfFeedback()
	b.coupling()
	b.changeToState()
	b.measurement()
	b.intercepts()
	b.measurementError()

	// Build deterministically first; the overlay then extends the sealed
	// spec, so a stochastic build and an overlaid deterministic build are
	// the same code path.
	stochastic := cfg.Stochastic
	cfg.Stochastic = false
	spec, err := newModelSpec(cfg, cfg.Fingerprint(), vars, b.paths)
	if err != nil {
		return nil, err
	}
	if stochastic {
		return ApplyStochasticOverlay(spec)
	}
	return spec, nil
}

// ApplyStochasticOverlay returns a new specification extending spec with
// the innovation paths: a free, time-invariant-labeled variance on every
// change score and, for coupled bivariate models, a covariance between the
// two processes' change scores at every time point. The overlay is purely
// additive: every pre-existing path is carried over unchanged, so building
// with Stochastic=true equals building deterministically and overlaying.
// A spec that is already stochastic is returned as-is.
func ApplyStochasticOverlay(spec *ModelSpec) (*ModelSpec, error) {
	cfg := spec.Config()
	if len(cfg.Processes) == 0 {
		return nil, fmt.Errorf("overlay needs a built specification with its configuration: %w", ErrInvalidConfig)
	}
	if cfg.Stochastic {
		return spec, nil
	}
	cfg.Stochastic = true

	b := &pathBuilder{cfg: cfg, vars: spec.Variables(), paths: spec.Paths()}
	b.innovation()
	return newModelSpec(cfg, cfg.Fingerprint(), b.vars, b.paths)
}

// pathBuilder accumulates paths for one build. Emission methods append in
// canonical order; they never reorder or revisit earlier classes.
type pathBuilder struct {
	cfg   Config
	vars  *VariableSet
	paths []Path
}

func (b *pathBuilder) regression(class PathClass, from, to VariableRef, free bool, value float64, label string) {
	b.paths = append(b.paths, Path{Class: class, Kind: Regression, From: from, To: to, Free: free, Value: value, Label: label})
}

func (b *pathBuilder) covariance(class PathClass, from, to VariableRef, label string) {
	b.paths = append(b.paths, Path{Class: class, Kind: Covariance, From: from, To: to, Free: true, Label: label})
}

func (b *pathBuilder) level(p string) VariableRef {
	return VariableRef{Kind: KindLatent, Role: RoleInitialLevel, Process: p}
}

func (b *pathBuilder) slope(p string) VariableRef {
	return VariableRef{Kind: KindLatent, Role: RoleInitialSlope, Process: p}
}

func (b *pathBuilder) state(p string, t int) VariableRef {
	return VariableRef{Kind: KindLatent, Role: RoleState, Process: p, Time: t}
}

func (b *pathBuilder) change(p string, t int) VariableRef {
	return VariableRef{Kind: KindLatent, Role: RoleChange, Process: p, Time: t}
}

func (b *pathBuilder) manifest(p string, indicator, t int) VariableRef {
	return VariableRef{Kind: KindManifest, Process: p, Indicator: indicator, Time: t}
}

// indicatorIndices returns the allocation-order indicator indices of a
// process: {0} for a single indicator, {1..k} otherwise.
func (b *pathBuilder) indicatorIndices(p string) []int {
	k := b.cfg.Indicators[p]
	if k <= 1 {
		return []int{0}
	}
	out := make([]int, k)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// suffix returns the per-process label suffix for dynamics parameters:
// empty for univariate models (the tutorials' bare "beta"), "_<p>" otherwise.
func (b *pathBuilder) suffix(p string) string {
	if b.cfg.bivariate() {
		return "_" + p
	}
	return ""
}

// means emits intercept -> initial-factor paths. The initial-level mean is
// fixed to 0 instead of estimated when the invariance regime demands it for
// a multi-indicator process.
func (b *pathBuilder) means() {
	for _, p := range b.cfg.Processes {
		if b.cfg.Invariance.fixesLevelMean(b.cfg.Indicators[p]) {
			b.regression(ClassMeans, One, b.level(p), false, 0, "")
		} else {
			b.regression(ClassMeans, One, b.level(p), true, 0, "mean_"+p+"0")
		}
		b.regression(ClassMeans, One, b.slope(p), true, 0, "mean_"+p+"a")
	}
}

// initialCovariances emits variances of the initial factors, their
// within-process covariance, and all cross-process pairs.
func (b *pathBuilder) initialCovariances() {
	for _, p := range b.cfg.Processes {
		b.covariance(ClassInitialCovariances, b.level(p), b.level(p), "var_"+p+"0")
		b.covariance(ClassInitialCovariances, b.slope(p), b.slope(p), "var_"+p+"a")
		b.covariance(ClassInitialCovariances, b.level(p), b.slope(p), "cov_"+p+"0"+p+"a")
	}
	if !b.cfg.bivariate() {
		return
	}
	p, q := b.cfg.Processes[0], b.cfg.Processes[1]
	pairs := [][2]VariableRef{
		{b.level(p), b.level(q)},
		{b.level(p), b.slope(q)},
		{b.slope(p), b.level(q)},
		{b.slope(p), b.slope(q)},
	}
	for _, pair := range pairs {
		b.covariance(ClassInitialCovariances, pair[0], pair[1], "cov_"+pair[0].Name()+pair[1].Name())
	}
}

// latentChain emits the fixed-unit backbone: initial level into the first
// state, then each state into the next.
func (b *pathBuilder) latentChain() {
	for _, p := range b.cfg.Processes {
		b.regression(ClassLatentChain, b.level(p), b.state(p, 1), false, 1, "")
		for t := 1; t < b.cfg.Horizon; t++ {
			b.regression(ClassLatentChain, b.state(p, t), b.state(p, t+1), false, 1, "")
		}
	}
}

// additiveToChange emits the fixed-unit constant-change paths.
func (b *pathBuilder) additiveToChange() {
	for _, p := range b.cfg.Processes {
		for t := 2; t <= b.cfg.Horizon; t++ {
			b.regression(ClassAdditiveToChange, b.slope(p), b.change(p, t), false, 1, "")
		}
	}
}

// selfFeedback emits the free prior-state-to-own-change paths, one shared
// label per process.
func (b *pathBuilder) selfFeedback() {
	for _, p := range b.cfg.Processes {
		label := "beta" + b.suffix(p)
		for t := 2; t <= b.cfg.Horizon; t++ {
			b.regression(ClassSelfFeedback, b.state(p, t-1), b.change(p, t), true, 0, label)
		}
	}
}

// coupling emits, for each ordered process pair (p, q), the free paths from
// q's prior state into p's change, labeled per receiving process.
func (b *pathBuilder) coupling() {
	if !b.cfg.Coupled || !b.cfg.bivariate() {
		return
	}
	for i, p := range b.cfg.Processes {
		q := b.cfg.Processes[1-i]
		for t := 2; t <= b.cfg.Horizon; t++ {
			b.regression(ClassCoupling, b.state(q, t-1), b.change(p, t), true, 0, "gamma_"+p)
		}
	}
}

// changeToState emits the fixed-unit change-into-state paths.
func (b *pathBuilder) changeToState() {
	for _, p := range b.cfg.Processes {
		for t := 2; t <= b.cfg.Horizon; t++ {
			b.regression(ClassChangeToState, b.change(p, t), b.state(p, t), false, 1, "")
		}
	}
}

// measurement emits the loadings. The first indicator is fixed to 1 at
// every occasion; further indicators are free, tied across time under weak
// or strong invariance and untied under configural invariance.
func (b *pathBuilder) measurement() {
	for _, p := range b.cfg.Processes {
		for _, i := range b.indicatorIndices(p) {
			for t := 1; t <= b.cfg.Horizon; t++ {
				from, to := b.state(p, t), b.manifest(p, i, t)
				if i <= 1 {
					b.regression(ClassMeasurement, from, to, false, 1, "")
					continue
				}
				label := ""
				if b.cfg.Invariance.tiedLoadings() {
					label = "lambda_" + p + strconv.Itoa(i)
				}
				b.regression(ClassMeasurement, from, to, true, 0, label)
			}
		}
	}
}

// intercepts emits manifest intercepts for multi-indicator processes: free
// and time-tied under strong invariance, fixed to 0 otherwise.
// Single-indicator processes carry none, matching the tutorials.
func (b *pathBuilder) intercepts() {
	for _, p := range b.cfg.Processes {
		if b.cfg.Indicators[p] <= 1 {
			continue
		}
		for _, i := range b.indicatorIndices(p) {
			for t := 1; t <= b.cfg.Horizon; t++ {
				if b.cfg.Invariance.freeIntercepts() {
					b.regression(ClassIntercepts, One, b.manifest(p, i, t), true, 0, "tau_"+p+strconv.Itoa(i))
				} else {
					b.regression(ClassIntercepts, One, b.manifest(p, i, t), false, 0, "")
				}
			}
		}
	}
}

// measurementError emits one time-invariant-labeled residual variance per
// indicator, plus the cross-process residual covariance of the bivariate
// single-indicator variant.
func (b *pathBuilder) measurementError() {
	for _, p := range b.cfg.Processes {
		for _, i := range b.indicatorIndices(p) {
			label := "mer_" + p
			if i > 0 {
				label = "mer_" + p + strconv.Itoa(i)
			}
			for t := 1; t <= b.cfg.Horizon; t++ {
				m := b.manifest(p, i, t)
				b.covariance(ClassMeasurementError, m, m, label)
			}
		}
	}
	if b.cfg.bivariate() && b.cfg.allSingleIndicator() {
		p, q := b.cfg.Processes[0], b.cfg.Processes[1]
		for t := 1; t <= b.cfg.Horizon; t++ {
			b.covariance(ClassMeasurementError, b.manifest(p, 0, t), b.manifest(q, 0, t), "cov_mer")
		}
	}
}

// innovation emits the stochastic overlay paths.
func (b *pathBuilder) innovation() {
	for _, p := range b.cfg.Processes {
		label := "varDer" + b.suffix(p)
		for t := 2; t <= b.cfg.Horizon; t++ {
			d := b.change(p, t)
			b.covariance(ClassInnovation, d, d, label)
		}
	}
	if b.cfg.Coupled && b.cfg.bivariate() {
		p, q := b.cfg.Processes[0], b.cfg.Processes[1]
		for t := 2; t <= b.cfg.Horizon; t++ {
			b.covariance(ClassInnovation, b.change(p, t), b.change(q, t), "covDer")
		}
	}
}
