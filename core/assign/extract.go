package assign

import (
	"fmt"
	"math"
)

// extract turns solved variable values into the request -> provider mapping.
// Values must round to exactly one chosen provider per request within tol;
// anything else wraps ErrInternalInconsistency.
func extract(m *ilpModel, sol []float64, tol float64) (map[string]string, []string, int, error) {
	chosen := make([]int, len(m.requests))
	for i := range chosen {
		chosen[i] = -1
	}
	for i, v := range sol[:len(m.vars)] {
		switch {
		case math.Abs(v) <= tol:
			continue
		case math.Abs(v-1) <= tol:
			r := m.vars[i].request
			if chosen[r] != -1 {
				return nil, nil, 0, fmt.Errorf("%w: request %s assigned to both %s and %s",
					ErrInternalInconsistency,
					m.requests[r].ID,
					m.providers[chosen[r]].Name,
					m.providers[m.vars[i].provider].Name)
			}
			chosen[r] = m.vars[i].provider
		default:
			return nil, nil, 0, fmt.Errorf("%w: variable for request %s on provider %s has non-binary value %g",
				ErrInternalInconsistency,
				m.requests[m.vars[i].request].ID,
				m.providers[m.vars[i].provider].Name, v)
		}
	}

	assignments := make(map[string]string, len(m.requests))
	var unassigned []string
	objective := 0
	counts := make(map[int]map[string]int)
	for r, p := range chosen {
		if p == -1 {
			return nil, nil, 0, fmt.Errorf("%w: request %s received no assignment", ErrInternalInconsistency, m.requests[r].ID)
		}
		assignments[m.requests[r].ID] = m.providers[p].Name
		if p == m.sink {
			unassigned = append(unassigned, m.requests[r].ID)
			objective++
			continue
		}
		if counts[p] == nil {
			counts[p] = make(map[string]int)
		}
		counts[p][m.requests[r].Slot]++
	}

	// Capacity ledger check: the solved placements must honor every
	// per-(provider, slot) limit.
	for p, slots := range counts {
		for slot, n := range slots {
			if n > m.providers[p].Capacity {
				return nil, nil, 0, fmt.Errorf("%w: provider %s exceeds capacity %d in slot %s with %d placements",
					ErrInternalInconsistency, m.providers[p].Name, m.providers[p].Capacity, slot, n)
			}
		}
	}
	return assignments, unassigned, objective, nil
}
