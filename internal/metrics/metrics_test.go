package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// TestNewCollector_ReturnsNonNil はCollectorが正常に生成されることを検証する。
func TestNewCollector_ReturnsNonNil(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	if c == nil {
		t.Fatal("expected non-nil Collector")
	}
}

// counterValue はレジストリから指定名のカウンタ値を取得する。
func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	for _, mf := range metrics {
		if mf.GetName() == name {
			if len(mf.GetMetric()) != 1 {
				t.Fatalf("expected 1 metric for %s, got %d", name, len(mf.GetMetric()))
			}
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	t.Fatalf("%s metric not found", name)
	return 0
}

// TestRecordLoginSuccess_IncrementsCounter はログイン成功カウンタが増加することを検証する。
func TestRecordLoginSuccess_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordLoginSuccess()
	c.RecordLoginSuccess()

	if got := counterValue(t, reg, "farmpigs_login_success_total"); got != 2 {
		t.Errorf("login_success_total = %v, want 2", got)
	}
}

// TestRecordLoginFailure_LabelsByCode は結果コード別にログイン失敗が記録されることを検証する。
func TestRecordLoginFailure_LabelsByCode(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordLoginFailure("INVALID_PASSWORD")
	c.RecordLoginFailure("INVALID_PASSWORD")
	c.RecordLoginFailure("ACCOUNT_LOCKED")

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() != "farmpigs_login_fail_total" {
			continue
		}
		found = true
		if len(mf.GetMetric()) != 2 {
			t.Fatalf("expected 2 labeled series, got %d", len(mf.GetMetric()))
		}
		for _, m := range mf.GetMetric() {
			code := m.GetLabel()[0].GetValue()
			val := m.GetCounter().GetValue()
			switch code {
			case "INVALID_PASSWORD":
				if val != 2 {
					t.Errorf("INVALID_PASSWORD = %v, want 2", val)
				}
			case "ACCOUNT_LOCKED":
				if val != 1 {
					t.Errorf("ACCOUNT_LOCKED = %v, want 1", val)
				}
			default:
				t.Errorf("unexpected code label: %s", code)
			}
		}
	}
	if !found {
		t.Error("farmpigs_login_fail_total metric not found")
	}
}

// TestRecordAccountLocked_IncrementsCounter はロック発生カウンタが増加することを検証する。
func TestRecordAccountLocked_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordAccountLocked()

	if got := counterValue(t, reg, "farmpigs_account_locked_total"); got != 1 {
		t.Errorf("account_locked_total = %v, want 1", got)
	}
}

// TestRecordHTTPStatus_LabelsByStatusCode はステータスコード別にカウントされることを検証する。
func TestRecordHTTPStatus_LabelsByStatusCode(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(403)

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	for _, mf := range metrics {
		if mf.GetName() != "farmpigs_http_status_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			code := m.GetLabel()[0].GetValue()
			val := m.GetCounter().GetValue()
			if code == "200" && val != 2 {
				t.Errorf("status 200 = %v, want 2", val)
			}
			if code == "403" && val != 1 {
				t.Errorf("status 403 = %v, want 1", val)
			}
		}
	}
}

// TestRecordDashboardLatency_ObservesHistogram はレイテンシがヒストグラムに記録されることを検証する。
func TestRecordDashboardLatency_ObservesHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordDashboardLatency(150 * time.Millisecond)

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "farmpigs_dashboard_latency_seconds" {
			found = true
			count := mf.GetMetric()[0].GetHistogram().GetSampleCount()
			if count != 1 {
				t.Errorf("sample count = %d, want 1", count)
			}
		}
	}
	if !found {
		t.Error("farmpigs_dashboard_latency_seconds metric not found")
	}
}

// TestRecordRecordsCreated_LabelsByKind は記録種別ごとにカウントされることを検証する。
func TestRecordRecordsCreated_LabelsByKind(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRecordsCreated("farrowing")
	c.RecordRecordsCreated("farrowing")
	c.RecordRecordsCreated("health_record")

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	for _, mf := range metrics {
		if mf.GetName() != "farmpigs_records_created_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			kind := m.GetLabel()[0].GetValue()
			val := m.GetCounter().GetValue()
			if kind == "farrowing" && val != 2 {
				t.Errorf("farrowing = %v, want 2", val)
			}
			if kind == "health_record" && val != 1 {
				t.Errorf("health_record = %v, want 1", val)
			}
		}
	}
}
