// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metrics declares the Prometheus instruments of the API server.

Architecture:

  - HTTP: request counts and latency per chi route pattern.
  - Publication: chapters published and deleted, outbox failures.
  - Hub: connected clients, frames delivered and clients dropped.
  - Assets: stored bytes per storage kind.
  - Manager client: breaker state and failed API calls by kind.

Instruments are registered on the default registry and exposed by [Handler].
*/
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mangaonline"

// # HTTP

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by method, route and status class.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency, by method and route.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// # Chapter Publication

var (
	ChaptersPublishedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chapters_published_total",
		Help:      "Chapters committed by AddChapter.",
	})

	ChaptersDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chapters_deleted_total",
		Help:      "Chapters deactivated by DeleteChapter.",
	})

	DuplicateChapterRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicate_chapter_rejections_total",
			Help:      "AddChapter calls rejected as duplicates, by the guard that caught them.",
		},
		[]string{"guard"},
	)

	OutboxPublishFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_publish_failures_total",
			Help:      "Notification events that could not be handed to the outbox, by event.",
		},
		[]string{"event"},
	)
)

// # Notification Hub

var (
	HubConnectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "hub_connected_clients",
		Help:      "Websocket clients currently connected to the notification hub.",
	})

	HubBroadcastsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hub_broadcasts_total",
			Help:      "Events fanned out by the hub, by event.",
		},
		[]string{"event"},
	)

	HubDroppedClientsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "hub_dropped_clients_total",
		Help:      "Clients disconnected because their send buffer was full.",
	})
)

// # Rate Limiting

var RateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "rate_limited_requests_total",
	Help:      "Requests rejected with 429 by the per-IP limiter.",
})

// # Asset Store

var AssetBytesStoredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "asset_bytes_stored_total",
		Help:      "Bytes written to the asset store, by kind.",
	},
	[]string{"kind"},
)

// # Manager Client

var (
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Breaker state by name: 0 closed, 1 half-open, 2 open.",
		},
		[]string{"name"},
	)

	ClientCallFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "client_call_failures_total",
			Help:      "Failed manager calls to the API, by operation and failure kind.",
		},
		[]string{"operation", "kind"},
	)
)

// Handler exposes the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
