package lcspec

// PathKind distinguishes directed regressions from symmetric covariances.
type PathKind uint8

const (
	// Regression is a directed (single-headed) path.
	Regression PathKind = iota + 1
	// Covariance is a bidirected (double-headed) path; a covariance of a
	// variable with itself is a variance.
	Covariance
)

func (k PathKind) String() string {
	switch k {
	case Regression:
		return "regression"
	case Covariance:
		return "covariance"
	default:
		return "unknown"
	}
}

// Arrows returns the RAM arrow count for the kind (1 directed, 2 bidirected).
func (k PathKind) Arrows() int {
	if k == Covariance {
		return 2
	}
	return 1
}

// PathClass groups paths by structural role and fixes the canonical
// emission order. Two builds of the same configuration emit classes in this
// order, processes in configuration order, time ascending, indicators
// ascending, so the exported forms are byte-identical across builds.
type PathClass uint8

const (
	// ClassMeans covers the mean paths of the initial factors.
	ClassMeans PathClass = iota + 1
	// ClassInitialCovariances covers variances and covariances among the
	// initial factors, within and across processes.
	ClassInitialCovariances
	// ClassLatentChain covers the fixed-unit level-to-first-state and
	// state-to-next-state paths.
	ClassLatentChain
	// ClassAdditiveToChange covers the fixed-unit slope-to-change paths.
	ClassAdditiveToChange
	// ClassSelfFeedback covers the free prior-state-to-own-change paths.
	ClassSelfFeedback
	// ClassCoupling covers the free prior-state-to-other-change paths of
	// coupled bivariate models.
	ClassCoupling
	// ClassChangeToState covers the fixed-unit change-to-state paths.
	ClassChangeToState
	// ClassMeasurement covers factor loadings from states to manifests.
	ClassMeasurement
	// ClassIntercepts covers manifest intercept paths (multi-indicator only).
	ClassIntercepts
	// ClassMeasurementError covers manifest residual variances and the
	// cross-process residual covariances.
	ClassMeasurementError
	// ClassInnovation covers the stochastic overlay: change-score variances
	// and, when coupled, cross-process change covariances.
	ClassInnovation
)

func (c PathClass) String() string {
	switch c {
	case ClassMeans:
		return "means"
	case ClassInitialCovariances:
		return "initial-covariances"
	case ClassLatentChain:
		return "latent-chain"
	case ClassAdditiveToChange:
		return "additive-to-change"
	case ClassSelfFeedback:
		return "self-feedback"
	case ClassCoupling:
		return "coupling"
	case ClassChangeToState:
		return "change-to-state"
	case ClassMeasurement:
		return "measurement"
	case ClassIntercepts:
		return "intercepts"
	case ClassMeasurementError:
		return "measurement-error"
	case ClassInnovation:
		return "innovation"
	default:
		return "unknown"
	}
}

// PathClasses lists every class in canonical order.
func PathClasses() []PathClass {
	return []PathClass{
		ClassMeans,
		ClassInitialCovariances,
		ClassLatentChain,
		ClassAdditiveToChange,
		ClassSelfFeedback,
		ClassCoupling,
		ClassChangeToState,
		ClassMeasurement,
		ClassIntercepts,
		ClassMeasurementError,
		ClassInnovation,
	}
}

// Path is one constrained relationship between two variables. A mean or
// intercept path regresses its target on the One pseudo-variable. Fixed
// paths carry Value and no label; free paths may carry a label that ties
// them to every other path sharing that label.
type Path struct {
	Class PathClass
	Kind  PathKind
	From  VariableRef
	To    VariableRef
	Free  bool
	Value float64
	Label string
}

// IsVariance reports whether the path is a covariance of a variable with
// itself.
func (p Path) IsVariance() bool {
	return p.Kind == Covariance && p.From == p.To
}
