package slotplan

import (
	"errors"
	"fmt"
	"time"
)

// KeyFormat is the layout of a slot key: the slot's start minute.
const KeyFormat = "2006-01-02T15:04"

// Config defines the slot grid loaded from configuration.
type Config struct {
	SlotMinutes int    `json:"slot_minutes" yaml:"slot_minutes"`
	DayStart    string `json:"day_start" yaml:"day_start"` // "08:00"
	DayEnd      string `json:"day_end" yaml:"day_end"`     // "18:00", exclusive
}

// SetDefaults fills unset fields with production defaults.
func (c *Config) SetDefaults() {
	if c.SlotMinutes == 0 {
		c.SlotMinutes = 30
	}
	if c.DayStart == "" {
		c.DayStart = "08:00"
	}
	if c.DayEnd == "" {
		c.DayEnd = "18:00"
	}
}

// Validate checks the grid parameters without building a plan.
func (c Config) Validate() error {
	_, err := New(c)
	return err
}

// Plan is a compiled slot grid.
type Plan struct {
	slot     time.Duration
	dayStart time.Duration // offset from midnight
	dayEnd   time.Duration
}

// New compiles the configuration into a Plan.
func New(cfg Config) (*Plan, error) {
	if cfg.SlotMinutes <= 0 {
		return nil, errors.New("slot_minutes must be positive")
	}
	start, err := clockOffset(cfg.DayStart)
	if err != nil {
		return nil, fmt.Errorf("day_start: %w", err)
	}
	end, err := clockOffset(cfg.DayEnd)
	if err != nil {
		return nil, fmt.Errorf("day_end: %w", err)
	}
	if end <= start {
		return nil, errors.New("day_end must be after day_start")
	}
	p := &Plan{
		slot:     time.Duration(cfg.SlotMinutes) * time.Minute,
		dayStart: start,
		dayEnd:   end,
	}
	if p.Slots() == 0 {
		return nil, errors.New("slot duration too long for the service day")
	}
	return p, nil
}

func clockOffset(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// Slots returns the number of whole slots in one service day.
func (p *Plan) Slots() int {
	return int((p.dayEnd - p.dayStart) / p.slot)
}

// SlotDuration returns the width of one slot.
func (p *Plan) SlotDuration() time.Duration { return p.slot }

// KeyFor maps a timestamp to its slot key. Times outside the service day or
// in the truncated tail of an uneven grid are rejected.
func (p *Plan) KeyFor(t time.Time) (string, error) {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	off := t.Sub(midnight)
	if off < p.dayStart || off >= p.dayEnd {
		return "", fmt.Errorf("time %s outside service day", t.Format(KeyFormat))
	}
	idx := int((off - p.dayStart) / p.slot)
	if idx >= p.Slots() {
		return "", fmt.Errorf("time %s falls in the truncated tail of the grid", t.Format(KeyFormat))
	}
	slotStart := midnight.Add(p.dayStart + time.Duration(idx)*p.slot)
	return slotStart.Format(KeyFormat), nil
}

// Keys enumerates every slot key of the given day in chronological order.
func (p *Plan) Keys(date time.Time) []string {
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	n := p.Slots()
	keys := make([]string, 0, n)
	for i := 0; i < n; i++ {
		keys = append(keys, midnight.Add(p.dayStart+time.Duration(i)*p.slot).Format(KeyFormat))
	}
	return keys
}
