package assembly_test

import (
	"testing"

	"reelcut/internal/assembly"
)

func TestNewPlan(t *testing.T) {
	tests := []struct {
		name      string
		mode      string
		order     string
		seed      int64
		want      assembly.Plan
		wantErr   bool
		freshSeed bool
	}{
		{name: "compiled default order", mode: "compiled", want: assembly.Plan{Mode: assembly.ModeCompiled, Order: assembly.OrderChronological}},
		{name: "case insensitive", mode: " Compiled ", order: "RANDOM", seed: 7, want: assembly.Plan{Mode: assembly.ModeCompiled, Order: assembly.OrderRandom, Seed: 7}},
		{name: "random fresh seed", mode: "compiled", order: "random", freshSeed: true},
		{name: "individual ignores order", mode: "individual", order: "random", seed: 9, want: assembly.Plan{Mode: assembly.ModeIndividual, Order: assembly.OrderChronological}},
		{name: "bad mode", mode: "both", wantErr: true},
		{name: "bad order", mode: "compiled", order: "sorted", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := assembly.NewPlan(tt.mode, tt.order, tt.seed)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewPlan: %v", err)
			}
			if tt.freshSeed {
				if got.Seed == 0 || got.Order != assembly.OrderRandom {
					t.Fatalf("expected random plan with fresh seed, got %+v", got)
				}
				return
			}
			if got != tt.want {
				t.Fatalf("NewPlan = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPlanString(t *testing.T) {
	p := assembly.Plan{Mode: assembly.ModeCompiled, Order: assembly.OrderRandom, Seed: 42}
	if got := p.String(); got != "compiled/random (seed 42)" {
		t.Fatalf("String = %q", got)
	}
	if got := (assembly.Plan{Mode: assembly.ModeIndividual}).String(); got != "individual" {
		t.Fatalf("String = %q", got)
	}
}
