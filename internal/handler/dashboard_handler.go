package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/hs6uej/farmpigs-sub001/internal/analytics"
	"github.com/hs6uej/farmpigs-sub001/internal/model"
)

// dateLayout はクエリパラメータおよびレスポンスの日付形式。
const dateLayout = "2006-01-02"

// DashboardServiceInterface はダッシュボードハンドラーが必要とするサービスインターフェース。
type DashboardServiceInterface interface {
	// BuildReport は[start, end]のKPI集計を実行する。ゼロ値はデフォルトウィンドウ。
	BuildReport(ctx context.Context, start, end time.Time) (*analytics.Report, error)
}

// DashboardMetrics はダッシュボード集計メトリクスの記録先。nil許容。
type DashboardMetrics interface {
	RecordDashboardLatency(duration time.Duration)
}

// DashboardHandler はダッシュボードKPIのHTTPハンドラー。
type DashboardHandler struct {
	service DashboardServiceInterface
	metrics DashboardMetrics
}

// NewDashboardHandler はDashboardHandlerを生成する。metricsはnil許容。
func NewDashboardHandler(service DashboardServiceInterface, metrics DashboardMetrics) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		metrics: metrics,
	}
}

// overviewResponse は農場の現在頭数スナップショットのレスポンス。
type overviewResponse struct {
	TotalSows    int `json:"total_sows"`
	TotalBoars   int `json:"total_boars"`
	TotalPiglets int `json:"total_piglets"`
	TotalPens    int `json:"total_pens"`
	TotalAnimals int `json:"total_animals"`
}

// performanceResponse はKPI集計結果のレスポンス。
// FeedConversionRatioは未定義の場合null。
type performanceResponse struct {
	BreedingSuccessRate float64  `json:"breeding_success_rate"`
	AvgPigletsPerLitter float64  `json:"avg_piglets_per_litter"`
	SurvivalRate        float64  `json:"survival_rate"`
	MortalityRate       float64  `json:"mortality_rate"`
	AvgDailyGain        float64  `json:"avg_daily_gain"`
	FeedConversionRatio *float64 `json:"feed_conversion_ratio"`
}

// upcomingFarrowingResponse は分娩予定のレスポンス。
type upcomingFarrowingResponse struct {
	BreedingID         string `json:"breeding_id"`
	SowID              string `json:"sow_id"`
	SowTagNumber       string `json:"sow_tag_number"`
	BreedingDate       string `json:"breeding_date"`
	ExpectedFarrowDate string `json:"expected_farrow_date"`
}

// healthRecordSummaryResponse は直近健康記録のレスポンス。
type healthRecordSummaryResponse struct {
	ID          string   `json:"id"`
	RecordType  string   `json:"record_type"`
	RecordDate  string   `json:"record_date"`
	SubjectType string   `json:"subject_type"`
	SubjectID   string   `json:"subject_id"`
	Description string   `json:"description"`
	Cost        *float64 `json:"cost"`
}

// dashboardResponse はダッシュボード集計のレスポンス全体。
type dashboardResponse struct {
	StartDate           string                        `json:"start_date"`
	EndDate             string                        `json:"end_date"`
	Overview            overviewResponse              `json:"overview"`
	SowsByStatus        map[string]int                `json:"sows_by_status"`
	PigletsByStatus     map[string]int                `json:"piglets_by_status"`
	Performance         performanceResponse           `json:"performance"`
	UpcomingFarrowings  []upcomingFarrowingResponse   `json:"upcoming_farrowings"`
	RecentHealthRecords []healthRecordSummaryResponse `json:"recent_health_records"`
}

// GetDashboard はダッシュボードKPIの集計を処理する。
// start_date / end_date はYYYY-MM-DD形式で任意指定。未指定時はデフォルトウィンドウ。
// GET /api/dashboard?start_date=2026-01-01&end_date=2026-01-31
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	start, ok := parseDateParam(w, r, "start_date")
	if !ok {
		return
	}
	end, ok := parseDateParam(w, r, "end_date")
	if !ok {
		return
	}

	began := time.Now()
	report, err := h.service.BuildReport(r.Context(), start, end)
	if h.metrics != nil {
		h.metrics.RecordDashboardLatency(time.Since(began))
	}
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toDashboardResponse(report))
}

// parseDateParam は日付クエリパラメータを解析する。
// 未指定はゼロ値、形式不正は400 INVALID_DATEを返す。
func parseDateParam(w http.ResponseWriter, r *http.Request, name string) (time.Time, bool) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return time.Time{}, true
	}

	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidDateError(name, value))
		return time.Time{}, false
	}
	return parsed, true
}

// toDashboardResponse はanalytics.ReportからAPIレスポンスに変換する。
func toDashboardResponse(report *analytics.Report) dashboardResponse {
	upcoming := make([]upcomingFarrowingResponse, len(report.UpcomingFarrowings))
	for i, u := range report.UpcomingFarrowings {
		upcoming[i] = upcomingFarrowingResponse{
			BreedingID:         u.BreedingID,
			SowID:              u.SowID,
			SowTagNumber:       u.SowTagNumber,
			BreedingDate:       u.BreedingDate.Format(dateLayout),
			ExpectedFarrowDate: u.ExpectedFarrowDate.Format(dateLayout),
		}
	}

	recent := make([]healthRecordSummaryResponse, len(report.RecentHealthRecords))
	for i, rec := range report.RecentHealthRecords {
		recent[i] = healthRecordSummaryResponse{
			ID:          rec.ID,
			RecordType:  string(rec.RecordType),
			RecordDate:  rec.RecordDate.Format(dateLayout),
			SubjectType: string(rec.SubjectType),
			SubjectID:   rec.SubjectID,
			Description: rec.Description,
			Cost:        rec.Cost,
		}
	}

	return dashboardResponse{
		StartDate:       report.StartDate.Format(dateLayout),
		EndDate:         report.EndDate.Format(dateLayout),
		SowsByStatus:    report.SowsByStatus,
		PigletsByStatus: report.PigletsByStatus,
		Overview: overviewResponse{
			TotalSows:    report.Overview.TotalSows,
			TotalBoars:   report.Overview.TotalBoars,
			TotalPiglets: report.Overview.TotalPiglets,
			TotalPens:    report.Overview.TotalPens,
			TotalAnimals: report.Overview.TotalAnimals,
		},
		Performance: performanceResponse{
			BreedingSuccessRate: report.Performance.BreedingSuccessRate,
			AvgPigletsPerLitter: report.Performance.AvgPigletsPerLitter,
			SurvivalRate:        report.Performance.SurvivalRate,
			MortalityRate:       report.Performance.MortalityRate,
			AvgDailyGain:        report.Performance.AvgDailyGain,
			FeedConversionRatio: report.Performance.FCR,
		},
		UpcomingFarrowings:  upcoming,
		RecentHealthRecords: recent,
	}
}
