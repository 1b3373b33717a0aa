// Package lcspec generates complete Latent Change Score (LCS) model
// specifications from a small structural configuration: measurement
// horizon, one or two processes, indicator counts per process, coupling,
// stochastic innovations, and a measurement-invariance regime.
//
// A build allocates every latent and manifest variable, emits the full set
// of constrained regression and covariance paths in a fixed canonical
// order, and ties parameters through named labels, so that one
// configuration always yields one byte-identical specification. The result
// can be rendered as a RAM-style path list or as equation text (see the
// export subpackage); estimation of the resulting model is the job of an
// external SEM engine and is out of scope here.
//
// Builds are pure and self-contained: each call to Build allocates its own
// registries and shares no state, so independent configurations may be
// built concurrently without coordination.
package lcspec
