package lcspec

// Invariance selects the measurement-invariance regime applied to
// multi-indicator processes. Single-indicator processes are unaffected:
// their one loading is always fixed to 1 and they carry no intercepts.
type Invariance string

const (
	// InvarianceConfigural frees the loadings of indicators beyond the
	// first without tying them across time, and fixes intercepts to 0.
	InvarianceConfigural Invariance = "configural"

	// InvarianceWeak frees the loadings of indicators beyond the first and
	// ties each indicator's loading across time; intercepts stay fixed to 0.
	InvarianceWeak Invariance = "weak"

	// InvarianceStrong is weak invariance plus freely estimated,
	// time-tied intercepts for every indicator. To keep the model
	// identified, the initial-level mean of any multi-indicator process is
	// fixed to 0 instead of estimated.
	InvarianceStrong Invariance = "strong"
)

// DefaultInvariance is applied when the configuration leaves the field empty.
const DefaultInvariance = InvarianceStrong

// Valid reports whether v is one of the recognized regimes.
func (v Invariance) Valid() bool {
	switch v {
	case InvarianceConfigural, InvarianceWeak, InvarianceStrong:
		return true
	}
	return false
}

// tiedLoadings reports whether free loadings share a per-indicator label
// across time.
func (v Invariance) tiedLoadings() bool {
	return v != InvarianceConfigural
}

// freeIntercepts reports whether indicator intercepts are estimated rather
// than fixed to 0.
func (v Invariance) freeIntercepts() bool {
	return v == InvarianceStrong
}

// fixesLevelMean reports whether the initial-level mean of a process with
// the given indicator count is fixed to 0 for identification.
func (v Invariance) fixesLevelMean(indicators int) bool {
	return v.freeIntercepts() && indicators > 1
}
