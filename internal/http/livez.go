package http

import (
	"net/http"
	"time"

	"github.com/signetlabs/signet/pkg/httpx"
)

// LivezHandler answers the liveness probe. Always 200 while the process
// is serving.
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		}
		httpx.WriteJSON(w, http.StatusOK, response)
	}
}
