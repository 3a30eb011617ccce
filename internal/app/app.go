// Package app is the default application started by the launcher.
package app

import (
	"encoding/json"
	"net/http"

	"launcher/internal/config"
)

// Info is the response shape for GET /.
type Info struct {
	Service          string `json:"service"`
	Env              string `json:"env,omitempty"`
	Debug            bool   `json:"debug"`
	APIKeyConfigured bool   `json:"api_key_configured"`
}

// New is the application entry point. It matches server.EntryPoint.
func New(cfg *config.Config) (http.Handler, error) {
	info := Info{
		Service:          "launcher",
		Env:              cfg.Env,
		Debug:            cfg.DebugEnabled(),
		APIKeyConfigured: cfg.APIKey != "",
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, info)
	})
	return mux, nil
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
