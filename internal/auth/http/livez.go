package http

import (
	"net/http"
	"time"

	"github.com/fixhub/auth/pkg/authsdk"
	"github.com/fixhub/auth/pkg/httpx"
)

// LivezHandler reports basic process health. It returns 200 whenever the
// service is running at all; dependency checks live on the readiness probe.
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := authsdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		}
		httpx.WriteJSON(w, http.StatusOK, response)
	}
}
