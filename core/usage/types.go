package usage

import "time"

// Record aggregates placement counts for one provider and day. The sink
// provider's rows count the requests left unassigned that day.
type Record struct {
	Provider string
	Date     time.Time
	Placed   int
	Cycles   int
}

// FillRate returns the share of the given daily capacity that was used.
func (r Record) FillRate(dailyCapacity int) float64 {
	if dailyCapacity <= 0 {
		return 0
	}
	return float64(r.Placed) / float64(dailyCapacity)
}

// PerCycle returns the average placements per solved cycle.
func (r Record) PerCycle() float64 {
	if r.Cycles == 0 {
		return 0
	}
	return float64(r.Placed) / float64(r.Cycles)
}
