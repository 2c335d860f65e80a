package server

import (
	"context"
	"net/http"
	"sort"

	"contact-gateway/httpjson"

	"github.com/go-chi/httplog/v2"
)

type healthResponse struct {
	Status   string            `json:"status"`
	Checks   map[string]string `json:"checks,omitempty"`
	InFlight *int              `json:"in_flight,omitempty"`
	Capacity *int              `json:"capacity,omitempty"`
}

func (httpserver *HttpServer) healthz(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	status := http.StatusOK

	if len(httpserver.checks) > 0 {
		ctx, cancel := context.WithTimeout(r.Context(), httpserver.timeout)
		defer cancel()

		names := make([]string, 0, len(httpserver.checks))
		for name := range httpserver.checks {
			names = append(names, name)
		}
		sort.Strings(names)

		resp.Checks = make(map[string]string, len(names))
		for _, name := range names {
			if err := httpserver.checks[name](ctx); err != nil {
				httplog.LogEntry(r.Context()).Warn("health check failed", "check", name, "error", err)
				resp.Checks[name] = "fail"
				resp.Status = "unavailable"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
	}

	if httpserver.pool != nil {
		inUse, capacity := httpserver.pool.InUse(), httpserver.pool.Cap()
		resp.InFlight, resp.Capacity = &inUse, &capacity
	}

	httpjson.WriteJson(w, status, resp)
}
