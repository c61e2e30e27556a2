package intake

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/careops/bookd/core/model"
	"github.com/careops/bookd/core/slotplan"
)

// Reservation is the wire payload for one reservation request. Either an
// explicit slot key or a start time must be given; the start time is mapped
// onto the slot grid during conversion.
type Reservation struct {
	ID       string    `json:"id"`
	Category string    `json:"category"`
	Slot     string    `json:"slot"`
	Start    time.Time `json:"start_time"`
}

// Validate checks that the reservation payload is complete.
func (r Reservation) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("id required")
	}
	if r.Category == "" {
		return fmt.Errorf("category required")
	}
	if r.Slot == "" && r.Start.IsZero() {
		return fmt.Errorf("slot or start_time required")
	}
	return nil
}

// ToModel converts the payload into a domain request, deriving the slot key
// from start_time when no explicit slot is given.
func (r Reservation) ToModel(plan *slotplan.Plan) (model.Request, error) {
	if err := r.Validate(); err != nil {
		return model.Request{}, err
	}
	slot := r.Slot
	if slot == "" {
		if plan == nil {
			return model.Request{}, fmt.Errorf("reservation %s: no slot plan to derive a slot from start_time", r.ID)
		}
		key, err := plan.KeyFor(r.Start)
		if err != nil {
			return model.Request{}, fmt.Errorf("reservation %s: %w", r.ID, err)
		}
		slot = key
	}
	return model.Request{
		ID:       r.ID,
		Category: model.CategoryID(r.Category),
		Slot:     slot,
	}, nil
}

// CycleRequest is the wire payload for a batch of reservations solved
// together. An empty cycle id gets a fresh UUID during conversion.
type CycleRequest struct {
	CycleID      string        `json:"cycle_id"`
	Reservations []Reservation `json:"reservations"`
}

// Validate checks every reservation of the batch.
func (c CycleRequest) Validate() error {
	for i, r := range c.Reservations {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("reservation %d: %w", i, err)
		}
	}
	return nil
}

// ToModel converts the batch into a domain cycle.
func (c CycleRequest) ToModel(plan *slotplan.Plan) (model.Cycle, error) {
	id := c.CycleID
	if id == "" {
		id = uuid.NewString()
	}
	reqs := make([]model.Request, len(c.Reservations))
	for i, r := range c.Reservations {
		req, err := r.ToModel(plan)
		if err != nil {
			return model.Cycle{}, err
		}
		reqs[i] = req
	}
	return model.Cycle{ID: id, Requests: reqs, ReceivedAt: time.Now()}, nil
}

// CycleResponse summarizes a solved cycle for the HTTP caller.
type CycleResponse struct {
	CycleID     string            `json:"cycle_id"`
	Strategy    string            `json:"strategy"`
	Placed      int               `json:"placed"`
	Assignments map[string]string `json:"assignments"`
	Unassigned  []string          `json:"unassigned,omitempty"`
}
