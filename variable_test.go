package lcspec

import (
	"errors"
	"testing"
)

func TestAllocate_Univariate(t *testing.T) {
	set, err := Allocate([]string{"y"}, 5, map[string]int{"y": 1})
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}

	// 2 initial factors + 5 states + 4 changes.
	if got := len(set.Latents()); got != 11 {
		t.Errorf("len(Latents()) = %d, want 11", got)
	}
	if got := len(set.Manifests()); got != 5 {
		t.Errorf("len(Manifests()) = %d, want 5", got)
	}

	names := set.ManifestNames()
	want := []string{"y1", "y2", "y3", "y4", "y5"}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("manifest name %d = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestAllocate_MultipleIndicators(t *testing.T) {
	set, err := Allocate([]string{"x"}, 2, map[string]int{"x": 3})
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	if got := len(set.Manifests()); got != 6 {
		t.Errorf("len(Manifests()) = %d, want 6", got)
	}
	names := set.ManifestNames()
	want := []string{"x1_1", "x1_2", "x2_1", "x2_2", "x3_1", "x3_2"}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("manifest name %d = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestAllocate_HorizonTooShort(t *testing.T) {
	_, err := Allocate([]string{"y"}, 1, nil)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Allocate(T=1) error = %v, want ErrInvalidConfig", err)
	}
}

func TestAllocate_NoProcesses(t *testing.T) {
	_, err := Allocate(nil, 5, nil)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Allocate(no processes) error = %v, want ErrInvalidConfig", err)
	}
}

func TestVariableRef_Name(t *testing.T) {
	tests := []struct {
		ref  VariableRef
		want string
	}{
		{One, "one"},
		{VariableRef{Kind: KindLatent, Role: RoleInitialLevel, Process: "x"}, "x0"},
		{VariableRef{Kind: KindLatent, Role: RoleInitialSlope, Process: "y"}, "ya"},
		{VariableRef{Kind: KindLatent, Role: RoleState, Process: "x", Time: 3}, "lx3"},
		{VariableRef{Kind: KindLatent, Role: RoleState, Process: "x", Time: 12}, "lx12"},
		{VariableRef{Kind: KindLatent, Role: RoleChange, Process: "y", Time: 2}, "dy2"},
		{VariableRef{Kind: KindManifest, Process: "y", Time: 4}, "y4"},
		{VariableRef{Kind: KindManifest, Process: "x", Indicator: 2, Time: 5}, "x2_5"},
	}
	for _, tt := range tests {
		if got := tt.ref.Name(); got != tt.want {
			t.Errorf("Name(%+v) = %q, want %q", tt.ref, got, tt.want)
		}
	}
}

func TestVariableSet_Contains(t *testing.T) {
	set, err := Allocate([]string{"x"}, 3, nil)
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}

	if !set.Contains(VariableRef{Kind: KindLatent, Role: RoleState, Process: "x", Time: 2}) {
		t.Error("Contains(lx2) = false")
	}
	if !set.Contains(One) {
		t.Error("Contains(one) = false")
	}
	if set.Contains(VariableRef{Kind: KindLatent, Role: RoleState, Process: "x", Time: 4}) {
		t.Error("Contains(lx4) = true for T=3")
	}
	if set.Contains(VariableRef{Kind: KindLatent, Role: RoleState, Process: "z", Time: 1}) {
		t.Error("Contains(lz1) = true for unknown process")
	}
}
