package model

import (
	"fmt"
	"time"
)

// Request represents one reservation awaiting placement within a time slot.
// Requests are created externally and consumed whole by a single solve.
type Request struct {
	ID       string     // unique within a solving cycle
	Category CategoryID // requested service category
	Slot     string     // time-slot key; requests in different slots do not compete
}

// Validate checks that the request carries the fields a solve relies on.
func (r Request) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("request id must not be empty")
	}
	if r.Category == "" {
		return fmt.Errorf("request %s: category must not be empty", r.ID)
	}
	if r.Slot == "" {
		return fmt.Errorf("request %s: slot must not be empty", r.ID)
	}
	return nil
}

// Cycle is one batch of requests solved together. Capacity is still tracked
// per slot inside the batch, so a cycle may span several slots.
type Cycle struct {
	ID         string
	Requests   []Request
	ReceivedAt time.Time
}

// Slots returns the distinct slot keys of the cycle in first-seen order.
func (c Cycle) Slots() []string {
	seen := make(map[string]struct{}, len(c.Requests))
	var slots []string
	for _, r := range c.Requests {
		if _, ok := seen[r.Slot]; ok {
			continue
		}
		seen[r.Slot] = struct{}{}
		slots = append(slots, r.Slot)
	}
	return slots
}

// Validate checks every request and rejects duplicate identifiers.
func (c Cycle) Validate() error {
	ids := make(map[string]struct{}, len(c.Requests))
	for _, r := range c.Requests {
		if err := r.Validate(); err != nil {
			return err
		}
		if _, dup := ids[r.ID]; dup {
			return fmt.Errorf("duplicate request id %s", r.ID)
		}
		ids[r.ID] = struct{}{}
	}
	return nil
}
