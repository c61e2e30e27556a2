package providers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/careops/bookd/core/usage"
)

// NewUsageHandler exposes the daily usage ledger via
// GET /api/providers/{name}/usage. The fill rate is computed against the
// provider's daily capacity (capacity times slots per day).
func NewUsageHandler(store usage.Store, dailyCapacity map[string]int, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if token != "" {
			auth := r.Header.Get("Authorization")
			if auth != "Bearer "+token {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		path := strings.TrimPrefix(r.URL.Path, "/api/providers/")
		parts := strings.Split(path, "/")
		if len(parts) < 2 || parts[1] != "usage" {
			http.NotFound(w, r)
			return
		}
		name := parts[0]
		start, _ := time.Parse(time.RFC3339, r.URL.Query().Get("start"))
		end, _ := time.Parse(time.RFC3339, r.URL.Query().Get("end"))
		if end.IsZero() {
			end = time.Now()
		}
		recs, err := store.Query(name, start, end)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		type out struct {
			Date     string  `json:"date"`
			Placed   int     `json:"placed"`
			Cycles   int     `json:"cycles"`
			FillRate float64 `json:"fill_rate"`
			PerCycle float64 `json:"placed_per_cycle"`
		}
		outSlice := make([]out, len(recs))
		for i, rec := range recs {
			outSlice[i] = out{
				Date:     rec.Date.Format("2006-01-02"),
				Placed:   rec.Placed,
				Cycles:   rec.Cycles,
				FillRate: rec.FillRate(dailyCapacity[name]),
				PerCycle: rec.PerCycle(),
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(outSlice)
	})
}
