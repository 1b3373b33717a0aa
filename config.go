package lcspec

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Config is the complete structural description of one model variant.
// The zero value is not valid; Horizon and Processes are required.
type Config struct {
	// Processes lists one or two process identifiers in model order. Each
	// identifier is a single lowercase letter ("x", "y") so that generated
	// variable names stay unambiguous.
	Processes []string `yaml:"processes" json:"processes" validate:"required,min=1,max=2,dive,len=1,lowercase,alpha"`

	// Horizon is the number of measurement occasions T (at least 2).
	Horizon int `yaml:"horizon" json:"horizon" validate:"gte=2"`

	// Indicators maps a process to its indicator count. Missing entries
	// default to 1, reproducing the single-indicator variants.
	Indicators map[string]int `yaml:"indicators,omitempty" json:"indicators,omitempty"`

	// Coupled adds cross-process coupling paths; meaningful only with two
	// processes.
	Coupled bool `yaml:"coupled,omitempty" json:"coupled,omitempty"`

	// Stochastic adds the innovation-variance overlay on the change scores.
	Stochastic bool `yaml:"stochastic,omitempty" json:"stochastic,omitempty"`

	// Invariance selects the measurement-invariance regime; empty means
	// DefaultInvariance.
	Invariance Invariance `yaml:"invariance,omitempty" json:"invariance,omitempty"`
}

var validate = validator.New()

// Normalized returns a copy with defaults applied: every process has an
// explicit indicator count and the invariance regime is set.
func (c Config) Normalized() Config {
	out := c
	out.Indicators = make(map[string]int, len(c.Processes))
	for _, p := range c.Processes {
		k := c.Indicators[p]
		if k == 0 {
			k = 1
		}
		out.Indicators[p] = k
	}
	if out.Invariance == "" {
		out.Invariance = DefaultInvariance
	}
	return out
}

// Validate checks field constraints and cross-field consistency, returning
// every finding. An empty result (or warnings only) means the configuration
// is buildable.
func (c Config) Validate() []Diagnostic {
	var diags []Diagnostic

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				diags = append(diags, Diagnostic{
					Code:     "CF-001",
					Severity: SeverityError,
					Message:  fmt.Sprintf("field %s fails constraint %q", fe.Field(), fe.Tag()),
					Path:     strings.ToLower(fe.Field()),
				})
			}
		} else {
			diags = append(diags, Diagnostic{
				Code:     "CF-001",
				Severity: SeverityError,
				Message:  err.Error(),
			})
		}
	}

	seen := make(map[string]bool, len(c.Processes))
	for i, p := range c.Processes {
		if seen[p] {
			diags = append(diags, Diagnostic{
				Code:     "CF-002",
				Severity: SeverityError,
				Message:  fmt.Sprintf("duplicate process %q", p),
				Path:     fmt.Sprintf("processes[%d]", i),
			})
		}
		seen[p] = true
	}

	for p, k := range c.Indicators {
		if !seen[p] {
			diags = append(diags, Diagnostic{
				Code:     "CF-003",
				Severity: SeverityError,
				Message:  fmt.Sprintf("indicator count declared for unknown process %q", p),
				Path:     "indicators." + p,
			})
		}
		if k < 1 {
			diags = append(diags, Diagnostic{
				Code:     "CF-004",
				Severity: SeverityError,
				Message:  fmt.Sprintf("process %q needs at least one indicator, got %d", p, k),
				Path:     "indicators." + p,
			})
		}
	}

	if c.Invariance != "" && !c.Invariance.Valid() {
		diags = append(diags, Diagnostic{
			Code:     "CF-005",
			Severity: SeverityError,
			Message:  fmt.Sprintf("unknown invariance regime %q", c.Invariance),
			Path:     "invariance",
		})
	}

	if c.Coupled && len(c.Processes) < 2 {
		diags = append(diags, Diagnostic{
			Code:     "CF-006",
			Severity: SeverityWarning,
			Message:  "coupled has no effect with a single process",
			Path:     "coupled",
		})
	}

	return diags
}

// Err returns nil when the configuration has no error-severity findings,
// and an error wrapping ErrInvalidConfig otherwise.
func (c Config) Err() error {
	errs := Errors(c.Validate())
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return fmt.Errorf("%s: %w", errs[0].Message, ErrInvalidConfig)
	}
	return fmt.Errorf("%d problems (first: %s): %w", len(errs), errs[0].Message, ErrInvalidConfig)
}

// Fingerprint returns the hex SHA-256 of the canonical JSON encoding of the
// normalized configuration. Two configurations that build the same model
// share a fingerprint; it keys catalog storage.
func (c Config) Fingerprint() string {
	data, err := json.Marshal(c.Normalized())
	if err != nil {
		// Config contains only plain values; Marshal cannot fail.
		panic(err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// bivariate reports whether the configuration declares two processes.
func (c Config) bivariate() bool {
	return len(c.Processes) == 2
}

// allSingleIndicator reports whether every process has exactly one indicator.
func (c Config) allSingleIndicator() bool {
	for _, p := range c.Processes {
		if c.Indicators[p] > 1 {
			return false
		}
	}
	return true
}
