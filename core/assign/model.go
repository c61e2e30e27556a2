package assign

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/careops/bookd/core/model"
)

// pairVar is one binary decision variable: request i assigned to provider p.
type pairVar struct {
	provider int // index into the provider list
	request  int // index into the request list
}

// capRow is one capacity constraint: the placements of a real provider within
// one slot must not exceed its capacity. The sink has no capacity rows.
type capRow struct {
	provider int
	slot     string
	vars     []int
	capacity float64
}

// ilpModel is the optimization model for one cycle: minimize sink placements
// subject to one-provider-per-request equalities and per-slot capacities.
// Variables and constraints are laid out in provider declaration order and
// request input order, so identical input yields an identical model.
type ilpModel struct {
	providers []model.Provider
	requests  []model.Request
	sink      int // provider index of the unassigned sink

	vars      []pairVar
	byRequest [][]int // variable indices per request
	capRows   []capRow

	c []float64  // objective: 1 on sink variables
	g *mat.Dense // capacity rows followed by -x <= 0 rows
	h []float64
	a *mat.Dense // coverage equalities, one row per request
	b []float64
}

// validateInputs rejects configuration errors before any model is built.
// Every condition reported here wraps ErrInvalidConfiguration.
func validateInputs(providers []model.Provider, categories model.CategorySet, requests []model.Request) error {
	if len(providers) == 0 {
		return fmt.Errorf("%w: no providers configured", ErrInvalidConfiguration)
	}
	sinks := 0
	names := make(map[string]struct{}, len(providers))
	for _, p := range providers {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
		}
		if _, dup := names[p.Name]; dup {
			return fmt.Errorf("%w: duplicate provider name %s", ErrInvalidConfiguration, p.Name)
		}
		names[p.Name] = struct{}{}
		if p.Sink {
			sinks++
			continue
		}
		for _, c := range p.Categories {
			if !categories.Has(c) {
				return fmt.Errorf("%w: provider %s references unknown category %s", ErrInvalidConfiguration, p.Name, c)
			}
		}
	}
	if sinks == 0 {
		return fmt.Errorf("%w: no unassigned sink provider configured", ErrInvalidConfiguration)
	}
	if sinks > 1 {
		return fmt.Errorf("%w: %d sink providers configured, want exactly one", ErrInvalidConfiguration, sinks)
	}
	ids := make(map[string]struct{}, len(requests))
	for _, r := range requests {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
		}
		if _, dup := ids[r.ID]; dup {
			return fmt.Errorf("%w: duplicate request id %s", ErrInvalidConfiguration, r.ID)
		}
		ids[r.ID] = struct{}{}
		if !categories.Has(r.Category) {
			return fmt.Errorf("%w: request %s references unknown category %s", ErrInvalidConfiguration, r.ID, r.Category)
		}
	}
	return nil
}

// ValidateSetup checks a provider roster against the category catalog using
// the same rules the solver applies, so misconfiguration surfaces at load
// time instead of on the first cycle.
func ValidateSetup(providers []model.Provider, categories model.CategorySet) error {
	return validateInputs(providers, categories, nil)
}

// supportIndex precomputes the feasibility set of every provider so the hot
// path never inspects category lists per request.
func supportIndex(providers []model.Provider) []map[model.CategoryID]struct{} {
	idx := make([]map[model.CategoryID]struct{}, len(providers))
	for p, prov := range providers {
		if prov.Sink {
			continue // nil entry, the sink accepts everything
		}
		set := make(map[model.CategoryID]struct{}, len(prov.Categories))
		for _, c := range prov.Categories {
			set[c] = struct{}{}
		}
		idx[p] = set
	}
	return idx
}

// buildModel constructs the optimization model for a non-empty, validated
// request set. Infeasible (provider, request) pairs get no variable at all,
// which is how capability restrictions are enforced.
func buildModel(providers []model.Provider, requests []model.Request) *ilpModel {
	m := &ilpModel{
		providers: providers,
		requests:  requests,
		byRequest: make([][]int, len(requests)),
	}
	support := supportIndex(providers)
	for p, prov := range providers {
		if prov.Sink {
			m.sink = p
			break
		}
	}

	// Variable layout: request-major, providers in declaration order.
	varsBySlot := make([]map[string][]int, len(providers))
	for r, req := range requests {
		for p, prov := range providers {
			if !prov.Sink {
				if _, ok := support[p][req.Category]; !ok {
					continue
				}
			}
			i := len(m.vars)
			m.vars = append(m.vars, pairVar{provider: p, request: r})
			m.byRequest[r] = append(m.byRequest[r], i)
			if prov.Sink {
				continue
			}
			if varsBySlot[p] == nil {
				varsBySlot[p] = make(map[string][]int)
			}
			varsBySlot[p][req.Slot] = append(varsBySlot[p][req.Slot], i)
		}
	}
	n := len(m.vars)

	m.c = make([]float64, n)
	for i, v := range m.vars {
		if v.provider == m.sink {
			m.c[i] = 1
		}
	}

	// Capacity rows in provider declaration order, slots in first-seen order.
	slots := slotOrder(requests)
	for p, prov := range providers {
		if prov.Sink {
			continue
		}
		for _, s := range slots {
			idxs := varsBySlot[p][s]
			if len(idxs) == 0 {
				continue
			}
			m.capRows = append(m.capRows, capRow{
				provider: p,
				slot:     s,
				vars:     idxs,
				capacity: float64(prov.Capacity),
			})
		}
	}

	// G x <= h: capacity rows, then -x <= 0 to pin variables at zero or
	// above. Upper bounds x <= 1 are implied by the coverage equalities.
	nG := len(m.capRows) + n
	m.g = mat.NewDense(nG, n, nil)
	m.h = make([]float64, nG)
	for i, row := range m.capRows {
		for _, j := range row.vars {
			m.g.Set(i, j, 1)
		}
		m.h[i] = row.capacity
	}
	for j := 0; j < n; j++ {
		m.g.Set(len(m.capRows)+j, j, -1)
	}

	// A x = b: every request takes exactly one provider.
	m.a = mat.NewDense(len(requests), n, nil)
	m.b = make([]float64, len(requests))
	for r, idxs := range m.byRequest {
		for _, j := range idxs {
			m.a.Set(r, j, 1)
		}
		m.b[r] = 1
	}
	return m
}

func slotOrder(requests []model.Request) []string {
	seen := make(map[string]struct{}, len(requests))
	var slots []string
	for _, r := range requests {
		if _, ok := seen[r.Slot]; ok {
			continue
		}
		seen[r.Slot] = struct{}{}
		slots = append(slots, r.Slot)
	}
	return slots
}
