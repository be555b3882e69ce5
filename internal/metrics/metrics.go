// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラーやサービス層から利用する。
type MetricsCollector interface {
	RecordLoginSuccess()
	RecordLoginFailure(code string)
	RecordAccountLocked()
	RecordHTTPStatus(statusCode int)
	RecordDashboardLatency(duration time.Duration)
	RecordRecordsCreated(kind string)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	loginSuccess     prometheus.Counter
	loginFail        *prometheus.CounterVec
	accountLocked    prometheus.Counter
	httpStatus       *prometheus.CounterVec
	dashboardLatency prometheus.Histogram
	recordsCreated   *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "farmpigs_login_success_total",
			Help: "ログイン成功の合計数",
		}),
		loginFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "farmpigs_login_fail_total",
			Help: "結果コード別のログイン失敗数",
		}, []string{"code"}),
		accountLocked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "farmpigs_account_locked_total",
			Help: "アカウントロック発生の合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "farmpigs_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		dashboardLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "farmpigs_dashboard_latency_seconds",
			Help:    "ダッシュボード集計のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		recordsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "farmpigs_records_created_total",
			Help: "記録種別ごとの作成数",
		}, []string{"kind"}),
	}

	reg.MustRegister(
		c.loginSuccess,
		c.loginFail,
		c.accountLocked,
		c.httpStatus,
		c.dashboardLatency,
		c.recordsCreated,
	)

	return c
}

// RecordLoginSuccess はログイン成功を記録する。
func (c *Collector) RecordLoginSuccess() {
	c.loginSuccess.Inc()
}

// RecordLoginFailure は結果コード付きでログイン失敗を記録する。
func (c *Collector) RecordLoginFailure(code string) {
	c.loginFail.WithLabelValues(code).Inc()
}

// RecordAccountLocked はアカウントロックの発生を記録する。
func (c *Collector) RecordAccountLocked() {
	c.accountLocked.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordDashboardLatency はダッシュボード集計のレイテンシを記録する。
func (c *Collector) RecordDashboardLatency(duration time.Duration) {
	c.dashboardLatency.Observe(duration.Seconds())
}

// RecordRecordsCreated は記録の作成を種別付きで記録する。
func (c *Collector) RecordRecordsCreated(kind string) {
	c.recordsCreated.WithLabelValues(kind).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
