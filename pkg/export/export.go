// Package export renders solved cycles as JSON or CSV for downstream tools.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/careops/bookd/core/assign"
	"github.com/careops/bookd/core/model"
)

// Placement is one exported assignment row.
type Placement struct {
	CycleID    string `json:"cycle_id"`
	RequestID  string `json:"request_id"`
	Category   string `json:"category"`
	Slot       string `json:"slot"`
	Provider   string `json:"provider"`
	Unassigned bool   `json:"unassigned"`
}

// FromResult flattens a solved cycle into placement rows, one per request,
// in the order the requests arrived.
func FromResult(c model.Cycle, res assign.Result) []Placement {
	unassigned := make(map[string]bool, len(res.Unassigned))
	for _, id := range res.Unassigned {
		unassigned[id] = true
	}
	rows := make([]Placement, 0, len(c.Requests))
	for _, r := range c.Requests {
		rows = append(rows, Placement{
			CycleID:    res.CycleID,
			RequestID:  r.ID,
			Category:   string(r.Category),
			Slot:       r.Slot,
			Provider:   res.Assignments[r.ID],
			Unassigned: unassigned[r.ID],
		})
	}
	return rows
}

// WriteJSON writes the placement rows to w in JSON format.
func WriteJSON(w io.Writer, rows []Placement) error {
	enc := json.NewEncoder(w)
	return enc.Encode(rows)
}

// WriteCSV writes the placement rows to w in CSV format.
func WriteCSV(w io.Writer, rows []Placement) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"cycle_id", "request_id", "category", "slot", "provider", "unassigned"}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.CycleID,
			r.RequestID,
			r.Category,
			r.Slot,
			r.Provider,
			strconv.FormatBool(r.Unassigned),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
