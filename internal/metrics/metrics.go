// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// セッションサービス、ワーカー、HTTPミドルウェアから利用する。
type MetricsCollector interface {
	RecordSessionStarted()
	RecordSessionEnded()
	RecordEndConflict()
	RecordStatusQuery()
	RecordDataIntegrityError()
	RecordHTTPStatus(statusCode int)
	SetActiveSessions(count int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	sessionsStarted     prometheus.Counter
	sessionsEnded       prometheus.Counter
	endConflicts        prometheus.Counter
	statusQueries       prometheus.Counter
	dataIntegrityErrors prometheus.Counter
	httpStatus          *prometheus.CounterVec
	activeSessions      prometheus.Gauge
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		sessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "timetrack_sessions_started_total",
			Help: "開始されたセッションの合計数",
		}),
		sessionsEnded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "timetrack_sessions_ended_total",
			Help: "終了したセッションの合計数",
		}),
		endConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "timetrack_session_end_conflicts_total",
			Help: "終了済みセッションへの終了要求の合計数",
		}),
		statusQueries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "timetrack_status_queries_total",
			Help: "セッション状態照会の合計数",
		}),
		dataIntegrityErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "timetrack_data_integrity_errors_total",
			Help: "整合性が崩れたセッションを検出した回数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "timetrack_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "timetrack_active_sessions",
			Help: "終了レコードを持たないセッション数",
		}),
	}

	reg.MustRegister(
		c.sessionsStarted,
		c.sessionsEnded,
		c.endConflicts,
		c.statusQueries,
		c.dataIntegrityErrors,
		c.httpStatus,
		c.activeSessions,
	)

	return c
}

// RecordSessionStarted はセッション開始を記録する。
func (c *Collector) RecordSessionStarted() {
	c.sessionsStarted.Inc()
}

// RecordSessionEnded はセッション終了を記録する。
func (c *Collector) RecordSessionEnded() {
	c.sessionsEnded.Inc()
}

// RecordEndConflict は二重終了の拒否を記録する。
func (c *Collector) RecordEndConflict() {
	c.endConflicts.Inc()
}

// RecordStatusQuery は状態照会を記録する。
func (c *Collector) RecordStatusQuery() {
	c.statusQueries.Inc()
}

// RecordDataIntegrityError は整合性エラーを記録する。
func (c *Collector) RecordDataIntegrityError() {
	c.dataIntegrityErrors.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// SetActiveSessions はアクティブセッション数のゲージを更新する。
func (c *Collector) SetActiveSessions(count int) {
	c.activeSessions.Set(float64(count))
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを登録したServeMuxを返す。
// 呼び出し側で他のエンドポイントを追加できる。
func SetupMetricsRoute(gatherer prometheus.Gatherer) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}

// compile-time interface check
var _ MetricsCollector = (*Collector)(nil)
