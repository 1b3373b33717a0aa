package lcspec

import (
	"errors"
	"testing"
)

func TestLabelRegistry_Intern(t *testing.T) {
	r := NewLabelRegistry()

	if err := r.Intern("beta", Regression, true); err != nil {
		t.Fatalf("Intern() error = %v", err)
	}
	// Re-interning with the same signature is idempotent.
	if err := r.Intern("beta", Regression, true); err != nil {
		t.Errorf("repeated Intern() error = %v", err)
	}
	if got := r.Names(); len(got) != 1 || got[0] != "beta" {
		t.Errorf("Names() = %v, want [beta]", got)
	}
}

// Scenario: interning one name as a free regression and again as fixed is a
// label conflict.
func TestLabelRegistry_FreenessConflict(t *testing.T) {
	r := NewLabelRegistry()

	if err := r.Intern("beta", Regression, true); err != nil {
		t.Fatalf("Intern() error = %v", err)
	}
	err := r.Intern("beta", Regression, false)
	if !errors.Is(err, ErrLabelConflict) {
		t.Errorf("Intern(fixed beta) error = %v, want ErrLabelConflict", err)
	}
}

func TestLabelRegistry_KindConflict(t *testing.T) {
	r := NewLabelRegistry()

	if err := r.Intern("phi", Covariance, true); err != nil {
		t.Fatalf("Intern() error = %v", err)
	}
	err := r.Intern("phi", Regression, true)
	if !errors.Is(err, ErrLabelConflict) {
		t.Errorf("Intern(regression phi) error = %v, want ErrLabelConflict", err)
	}
}

func TestLabelRegistry_EmptyName(t *testing.T) {
	r := NewLabelRegistry()
	if err := r.Intern("", Regression, true); !errors.Is(err, ErrLabelConflict) {
		t.Errorf("Intern(empty) error = %v, want ErrLabelConflict", err)
	}
}

func TestLabelRegistry_Members(t *testing.T) {
	r := NewLabelRegistry()

	if err := r.Intern("gamma_x", Regression, true); err != nil {
		t.Fatalf("Intern() error = %v", err)
	}
	for _, idx := range []int{3, 7, 11} {
		if err := r.Attach("gamma_x", idx); err != nil {
			t.Fatalf("Attach(%d) error = %v", idx, err)
		}
	}

	got := r.Members("gamma_x")
	want := []int{3, 7, 11}
	if len(got) != len(want) {
		t.Fatalf("Members() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Members()[%d] = %d, want %d", i, got[i], want[i])
		}
	}

	if r.Members("unknown") != nil {
		t.Error("Members(unknown) != nil")
	}
}

func TestLabelRegistry_AttachBeforeIntern(t *testing.T) {
	r := NewLabelRegistry()
	if err := r.Attach("beta", 0); !errors.Is(err, ErrLabelConflict) {
		t.Errorf("Attach before Intern error = %v, want ErrLabelConflict", err)
	}
}
