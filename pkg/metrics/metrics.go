// Package metrics はWebクライアントのPrometheusメトリクスを定義する。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ゲートウェイの処理結果を表すラベル値。
const (
	OutcomeOK             = "ok"
	OutcomeMissingToken   = "missing_token"
	OutcomeAuthRejected   = "auth_rejected"
	OutcomeTransportError = "transport_error"
	OutcomeStoreError     = "store_error"
)

var (
	// GatewayRequests はゲートウェイ経由のリクエスト数を処理結果ごとに数える。
	GatewayRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bidflare_gateway_requests_total",
		Help: "Total number of requests that went through the session-guarded gateway",
	}, []string{"outcome"})

	// GatewayDuration はバックエンドへの送信から応答までの時間。
	GatewayDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bidflare_gateway_request_duration_seconds",
		Help:    "Time spent waiting for the backend",
		Buckets: prometheus.ExponentialBuckets(0.005, 2.0, 12), // 5ms to ~10s
	}, []string{"method"})

	// PageRenders は画面の描画回数をページと結果ごとに数える。
	PageRenders = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bidflare_page_renders_total",
		Help: "Total number of rendered pages",
	}, []string{"page", "result"})
)
