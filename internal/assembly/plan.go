package assembly

import (
	"fmt"
	"strings"
)

// Mode selects the output strategy.
type Mode string

const (
	ModeCompiled   Mode = "compiled"
	ModeIndividual Mode = "individual"
)

// Order selects the segment order of a compiled output.
type Order string

const (
	OrderChronological Order = "chronological"
	OrderRandom        Order = "random"
)

// Plan is fixed before processing starts and never changes during a run.
type Plan struct {
	Mode  Mode
	Order Order
	// Seed drives the random order. It is recorded in the run summary so a
	// shuffled output can be reproduced.
	Seed int64
}

// ParseMode accepts "compiled" or "individual" (case-insensitive).
func ParseMode(value string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case ModeCompiled:
		return ModeCompiled, nil
	case ModeIndividual:
		return ModeIndividual, nil
	default:
		return "", fmt.Errorf("output mode %q: want compiled or individual", value)
	}
}

// ParseOrder accepts "chronological" or "random" (case-insensitive). An empty
// value means chronological.
func ParseOrder(value string) (Order, error) {
	switch Order(strings.ToLower(strings.TrimSpace(value))) {
	case "", OrderChronological:
		return OrderChronological, nil
	case OrderRandom:
		return OrderRandom, nil
	default:
		return "", fmt.Errorf("output order %q: want chronological or random", value)
	}
}

// NewPlan builds a plan from its textual form. Individual mode ignores order.
// A random order with a zero seed receives a fresh seed.
func NewPlan(mode, order string, seed int64) (Plan, error) {
	m, err := ParseMode(mode)
	if err != nil {
		return Plan{}, err
	}
	o, err := ParseOrder(order)
	if err != nil {
		return Plan{}, err
	}
	if m == ModeIndividual {
		return Plan{Mode: m, Order: OrderChronological}, nil
	}
	if o == OrderRandom && seed == 0 {
		seed = NewSeed()
	}
	return Plan{Mode: m, Order: o, Seed: seed}, nil
}

func (p Plan) String() string {
	switch {
	case p.Mode == ModeIndividual:
		return string(p.Mode)
	case p.Order == OrderRandom:
		return fmt.Sprintf("%s/%s (seed %d)", p.Mode, p.Order, p.Seed)
	default:
		return fmt.Sprintf("%s/%s", p.Mode, p.Order)
	}
}
