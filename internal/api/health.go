// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/taibuivan/mangaonline/internal/platform/respond"
)

// probeTimeout bounds every readiness check.
const probeTimeout = 2 * time.Second

// Probe is one dependency the readiness endpoint checks.
type Probe struct {
	Name  string
	Check func(context context.Context) error
}

// HealthDependencies holds the readiness probes and the live hub size.
type HealthDependencies struct {
	Probes []Probe

	// HubClients reports connected websocket clients. Optional.
	HubClients func() int
}

type healthHandler struct {
	dependencies HealthDependencies
	logger       *slog.Logger
}

// NewHealthHandlers creates the /health and /ready handlers.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{dependencies: deps, logger: logger}
	return handler.liveness, handler.readiness
}

func (handler *healthHandler) liveness(writer http.ResponseWriter, request *http.Request) {
	body := map[string]any{"status": "ok"}
	if handler.dependencies.HubClients != nil {
		body["hubClients"] = handler.dependencies.HubClients()
	}
	respond.OK(writer, body)
}

type checkResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// readiness answers 200 when every probe passes and 503 otherwise.
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	results := make([]checkResult, 0, len(handler.dependencies.Probes))
	isReady := true

	for _, probe := range handler.dependencies.Probes {
		context, cancel := context.WithTimeout(request.Context(), probeTimeout)
		err := probe.Check(context)
		cancel()

		result := checkResult{Name: probe.Name, IsOK: err == nil}
		if err != nil {
			result.Error = err.Error()
			isReady = false
			handler.logger.Error("readiness_check_failed", slog.String("dependency", probe.Name), slog.Any("error", err))
		}
		results = append(results, result)
	}

	if !isReady {
		respond.JSON(writer, http.StatusServiceUnavailable, respond.ResultEnvelope{
			Success: false,
			Status:  http.StatusServiceUnavailable,
			Message: "degraded",
			Data:    results,
		})
		return
	}

	respond.OK(writer, map[string]any{"status": "ready", "checks": results})
}
