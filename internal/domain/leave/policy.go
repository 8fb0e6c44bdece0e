package leave

// Policy holds the yearly allocation per leave type.
type Policy struct {
	Allocations map[Type]float64
}

func DefaultPolicy() Policy {
	return Policy{
		Allocations: map[Type]float64{
			TypeAnnual:    25,
			TypeSick:      10,
			TypePersonal:  5,
			TypeMaternity: 90,
			TypePaternity: 15,
			TypeEmergency: 3,
			TypeUnpaid:    0,
		},
	}
}

// Allocation returns the yearly days for t, 0 when the policy has no entry.
func (p Policy) Allocation(t Type) float64 {
	return p.Allocations[t]
}

// WithOverrides returns a copy of p with the given allocations replaced.
func (p Policy) WithOverrides(overrides map[Type]float64) Policy {
	merged := make(map[Type]float64, len(p.Allocations))
	for t, v := range p.Allocations {
		merged[t] = v
	}
	for t, v := range overrides {
		merged[t] = v
	}
	return Policy{Allocations: merged}
}
