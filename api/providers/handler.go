package providers

import (
	"encoding/json"
	"net/http"

	"github.com/careops/bookd/core/model"
	"github.com/careops/bookd/core/providerstatus"
)

// NewStatusHandler returns an HTTP handler exposing provider status data via
// GET /api/providers. Requests must include an Authorization header with
// "Bearer <token>" when token is non-empty.
func NewStatusHandler(store providerstatus.Store, token string) http.Handler {
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
		f := providerstatus.Filter{
			Category: model.CategoryID(r.URL.Query().Get("category")),
			Status:   r.URL.Query().Get("status"),
		}
		entries := store.List(f)
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(entries); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
