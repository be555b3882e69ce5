package handler

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hs6uej/farmpigs-sub001/internal/model"
	"github.com/hs6uej/farmpigs-sub001/internal/repository"
	"github.com/hs6uej/farmpigs-sub001/internal/security"
)

// writeInvalidEnum は列挙型フィールドの不正値エラーレスポンスを書き込む。
func writeInvalidEnum(w http.ResponseWriter, field, value string) {
	writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
		Code:     model.ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("%s の値が不正です: %s", field, value),
		Category: "validation",
		Action:   "定義済みの値を指定してください。",
	})
}

// HealthRecordHandler は健康記録管理のHTTPハンドラー。
type HealthRecordHandler struct {
	repo      repository.HealthRecordRepository
	sanitizer security.TextSanitizerService
	metrics   RecordMetrics
}

// NewHealthRecordHandler はHealthRecordHandlerを生成する。metricsはnil許容。
func NewHealthRecordHandler(repo repository.HealthRecordRepository, sanitizer security.TextSanitizerService, metrics RecordMetrics) *HealthRecordHandler {
	return &HealthRecordHandler{
		repo:      repo,
		sanitizer: sanitizer,
		metrics:   metrics,
	}
}

// healthRecordRequest は健康記録の作成・更新リクエストのボディ。
type healthRecordRequest struct {
	RecordType  string   `json:"record_type"`
	RecordDate  string   `json:"record_date"`
	SubjectType string   `json:"subject_type"`
	SubjectID   string   `json:"subject_id"`
	Description string   `json:"description"`
	Cost        *float64 `json:"cost"`
}

// healthRecordResponse は健康記録のAPIレスポンス。
type healthRecordResponse struct {
	ID          string    `json:"id"`
	RecordType  string    `json:"record_type"`
	RecordDate  string    `json:"record_date"`
	SubjectType string    `json:"subject_type"`
	SubjectID   string    `json:"subject_id"`
	Description string    `json:"description"`
	Cost        *float64  `json:"cost"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func healthRecordTypeFromRequest(value string) (model.HealthRecordType, bool) {
	switch recordType := model.HealthRecordType(value); recordType {
	case model.HealthRecordVaccination, model.HealthRecordTreatment,
		model.HealthRecordDisease, model.HealthRecordMortality:
		return recordType, true
	default:
		return "", false
	}
}

func subjectTypeFromRequest(value string) (model.SubjectType, bool) {
	switch subjectType := model.SubjectType(value); subjectType {
	case model.SubjectSow, model.SubjectBoar, model.SubjectPiglet:
		return subjectType, true
	default:
		return "", false
	}
}

// validateHealthRecordRequest は健康記録リクエストの必須項目と列挙値を検証する。
func validateHealthRecordRequest(w http.ResponseWriter, req *healthRecordRequest) (model.HealthRecordType, model.SubjectType, time.Time, bool) {
	if req.RecordType == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldError("record_type"))
		return "", "", time.Time{}, false
	}
	recordType, ok := healthRecordTypeFromRequest(req.RecordType)
	if !ok {
		writeInvalidEnum(w, "record_type", req.RecordType)
		return "", "", time.Time{}, false
	}

	if req.SubjectType == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldError("subject_type"))
		return "", "", time.Time{}, false
	}
	subjectType, ok := subjectTypeFromRequest(req.SubjectType)
	if !ok {
		writeInvalidEnum(w, "subject_type", req.SubjectType)
		return "", "", time.Time{}, false
	}

	if req.SubjectID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldError("subject_id"))
		return "", "", time.Time{}, false
	}

	recordDate, ok := parseRequiredBodyDate(w, "record_date", req.RecordDate)
	if !ok {
		return "", "", time.Time{}, false
	}
	return recordType, subjectType, recordDate, true
}

// List は健康記録一覧を返す。
// GET /api/health-records
func (h *HealthRecordHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.repo.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]healthRecordResponse, len(records))
	for i, record := range records {
		results[i] = toHealthRecordResponse(record)
	}
	writeJSON(w, http.StatusOK, results)
}

// Get は健康記録詳細を返す。
// GET /api/health-records/{id}
func (h *HealthRecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	record, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if record == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewRecordNotFoundError("健康記録", id))
		return
	}

	writeJSON(w, http.StatusOK, toHealthRecordResponse(record))
}

// Create は健康記録を登録する。
// POST /api/health-records
func (h *HealthRecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req healthRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	recordType, subjectType, recordDate, ok := validateHealthRecordRequest(w, &req)
	if !ok {
		return
	}

	now := time.Now()
	record := &model.HealthRecord{
		ID:          uuid.New().String(),
		RecordType:  recordType,
		RecordDate:  recordDate,
		SubjectType: subjectType,
		SubjectID:   req.SubjectID,
		Description: h.sanitizer.Sanitize(req.Description),
		Cost:        req.Cost,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.repo.Create(r.Context(), record); err != nil {
		handleServiceError(w, err)
		return
	}
	if h.metrics != nil {
		h.metrics.RecordRecordsCreated("health")
	}

	writeJSON(w, http.StatusCreated, toHealthRecordResponse(record))
}

// Update は健康記録を更新する。
// PUT /api/health-records/{id}
func (h *HealthRecordHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req healthRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	recordType, subjectType, recordDate, ok := validateHealthRecordRequest(w, &req)
	if !ok {
		return
	}

	record, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if record == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewRecordNotFoundError("健康記録", id))
		return
	}

	record.RecordType = recordType
	record.RecordDate = recordDate
	record.SubjectType = subjectType
	record.SubjectID = req.SubjectID
	record.Description = h.sanitizer.Sanitize(req.Description)
	record.Cost = req.Cost
	record.UpdatedAt = time.Now()

	if err := h.repo.Update(r.Context(), record); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toHealthRecordResponse(record))
}

// Delete は健康記録を削除する。
// DELETE /api/health-records/{id}
func (h *HealthRecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.repo.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toHealthRecordResponse(record *model.HealthRecord) healthRecordResponse {
	return healthRecordResponse{
		ID:          record.ID,
		RecordType:  string(record.RecordType),
		RecordDate:  record.RecordDate.Format(dateLayout),
		SubjectType: string(record.SubjectType),
		SubjectID:   record.SubjectID,
		Description: record.Description,
		Cost:        record.Cost,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}

// GrowthRecordHandler は成長記録管理のHTTPハンドラー。
type GrowthRecordHandler struct {
	repo    repository.GrowthRecordRepository
	metrics RecordMetrics
}

// NewGrowthRecordHandler はGrowthRecordHandlerを生成する。metricsはnil許容。
func NewGrowthRecordHandler(repo repository.GrowthRecordRepository, metrics RecordMetrics) *GrowthRecordHandler {
	return &GrowthRecordHandler{
		repo:    repo,
		metrics: metrics,
	}
}

// growthRecordRequest は成長記録の作成・更新リクエストのボディ。
type growthRecordRequest struct {
	PigletID   string  `json:"piglet_id"`
	RecordDate string  `json:"record_date"`
	Weight     float64 `json:"weight"`
}

// growthRecordResponse は成長記録のAPIレスポンス。
type growthRecordResponse struct {
	ID         string    `json:"id"`
	PigletID   string    `json:"piglet_id"`
	RecordDate string    `json:"record_date"`
	Weight     float64   `json:"weight"`
	ADG        *float64  `json:"adg"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ListByPiglet は指定子豚の成長記録一覧を返す。
// GET /api/growth-records?piglet_id={pigletID}
func (h *GrowthRecordHandler) ListByPiglet(w http.ResponseWriter, r *http.Request) {
	pigletID := r.URL.Query().Get("piglet_id")
	if pigletID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldError("piglet_id"))
		return
	}

	records, err := h.repo.ListByPiglet(r.Context(), pigletID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]growthRecordResponse, len(records))
	for i, record := range records {
		results[i] = toGrowthRecordResponse(record)
	}
	writeJSON(w, http.StatusOK, results)
}

// Get は成長記録詳細を返す。
// GET /api/growth-records/{id}
func (h *GrowthRecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	record, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if record == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewRecordNotFoundError("成長記録", id))
		return
	}

	writeJSON(w, http.StatusOK, toGrowthRecordResponse(record))
}

// Create は成長記録を登録する。
// 直前の測定記録がある場合は日増体量（ADG）を導出して保存する。
// POST /api/growth-records
func (h *GrowthRecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req growthRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}
	if req.PigletID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldError("piglet_id"))
		return
	}
	if req.Weight <= 0 {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldError("weight"))
		return
	}

	recordDate, ok := parseRequiredBodyDate(w, "record_date", req.RecordDate)
	if !ok {
		return
	}

	adg, err := h.deriveADG(r, req.PigletID, recordDate, req.Weight)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	now := time.Now()
	record := &model.GrowthRecord{
		ID:         uuid.New().String(),
		PigletID:   req.PigletID,
		RecordDate: recordDate,
		Weight:     req.Weight,
		ADG:        adg,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := h.repo.Create(r.Context(), record); err != nil {
		handleServiceError(w, err)
		return
	}
	if h.metrics != nil {
		h.metrics.RecordRecordsCreated("growth")
	}

	writeJSON(w, http.StatusCreated, toGrowthRecordResponse(record))
}

// Update は成長記録を更新する。ADGは更新後の値で再導出する。
// PUT /api/growth-records/{id}
func (h *GrowthRecordHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req growthRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}
	if req.PigletID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldError("piglet_id"))
		return
	}
	if req.Weight <= 0 {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldError("weight"))
		return
	}

	recordDate, ok := parseRequiredBodyDate(w, "record_date", req.RecordDate)
	if !ok {
		return
	}

	record, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if record == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewRecordNotFoundError("成長記録", id))
		return
	}

	adg, err := h.deriveADG(r, req.PigletID, recordDate, req.Weight)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	record.PigletID = req.PigletID
	record.RecordDate = recordDate
	record.Weight = req.Weight
	record.ADG = adg
	record.UpdatedAt = time.Now()

	if err := h.repo.Update(r.Context(), record); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toGrowthRecordResponse(record))
}

// Delete は成長記録を削除する。
// DELETE /api/growth-records/{id}
func (h *GrowthRecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.repo.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// deriveADG は測定日より前の直近記録から日増体量を導出する。
// 直前の記録がない場合はnilを返す。
func (h *GrowthRecordHandler) deriveADG(r *http.Request, pigletID string, recordDate time.Time, weight float64) (*float64, error) {
	prev, err := h.repo.FindLatestBefore(r.Context(), pigletID, recordDate.AddDate(0, 0, -1))
	if err != nil {
		return nil, err
	}
	if prev == nil {
		return nil, nil
	}

	days := recordDate.Sub(prev.RecordDate).Hours() / 24
	if days <= 0 {
		return nil, nil
	}
	adg := math.Round((weight-prev.Weight)/days*100) / 100
	return &adg, nil
}

func toGrowthRecordResponse(record *model.GrowthRecord) growthRecordResponse {
	return growthRecordResponse{
		ID:         record.ID,
		PigletID:   record.PigletID,
		RecordDate: record.RecordDate.Format(dateLayout),
		Weight:     record.Weight,
		ADG:        record.ADG,
		CreatedAt:  record.CreatedAt,
		UpdatedAt:  record.UpdatedAt,
	}
}

// FeedConsumptionHandler は給餌記録管理のHTTPハンドラー。
type FeedConsumptionHandler struct {
	repo    repository.FeedConsumptionRepository
	metrics RecordMetrics
}

// NewFeedConsumptionHandler はFeedConsumptionHandlerを生成する。metricsはnil許容。
func NewFeedConsumptionHandler(repo repository.FeedConsumptionRepository, metrics RecordMetrics) *FeedConsumptionHandler {
	return &FeedConsumptionHandler{
		repo:    repo,
		metrics: metrics,
	}
}

// feedConsumptionRequest は給餌記録の作成・更新リクエストのボディ。
type feedConsumptionRequest struct {
	RecordDate string   `json:"record_date"`
	PenID      string   `json:"pen_id"`
	FeedType   string   `json:"feed_type"`
	Quantity   float64  `json:"quantity"`
	Cost       *float64 `json:"cost"`
}

// feedConsumptionResponse は給餌記録のAPIレスポンス。
type feedConsumptionResponse struct {
	ID         string    `json:"id"`
	RecordDate string    `json:"record_date"`
	PenID      string    `json:"pen_id"`
	FeedType   string    `json:"feed_type"`
	Quantity   float64   `json:"quantity"`
	Cost       *float64  `json:"cost"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// validateFeedConsumptionRequest は給餌記録リクエストの必須項目を検証する。
func validateFeedConsumptionRequest(w http.ResponseWriter, req *feedConsumptionRequest) (time.Time, bool) {
	if req.PenID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldError("pen_id"))
		return time.Time{}, false
	}
	if req.FeedType == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldError("feed_type"))
		return time.Time{}, false
	}
	if req.Quantity <= 0 {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldError("quantity"))
		return time.Time{}, false
	}
	return parseRequiredBodyDate(w, "record_date", req.RecordDate)
}

// List は給餌記録一覧を返す。
// GET /api/feed-consumptions
func (h *FeedConsumptionHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.repo.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]feedConsumptionResponse, len(records))
	for i, record := range records {
		results[i] = toFeedConsumptionResponse(record)
	}
	writeJSON(w, http.StatusOK, results)
}

// Get は給餌記録詳細を返す。
// GET /api/feed-consumptions/{id}
func (h *FeedConsumptionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	record, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if record == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewRecordNotFoundError("給餌記録", id))
		return
	}

	writeJSON(w, http.StatusOK, toFeedConsumptionResponse(record))
}

// Create は給餌記録を登録する。
// POST /api/feed-consumptions
func (h *FeedConsumptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req feedConsumptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	recordDate, ok := validateFeedConsumptionRequest(w, &req)
	if !ok {
		return
	}

	now := time.Now()
	record := &model.FeedConsumption{
		ID:         uuid.New().String(),
		RecordDate: recordDate,
		PenID:      req.PenID,
		FeedType:   req.FeedType,
		Quantity:   req.Quantity,
		Cost:       req.Cost,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := h.repo.Create(r.Context(), record); err != nil {
		handleServiceError(w, err)
		return
	}
	if h.metrics != nil {
		h.metrics.RecordRecordsCreated("feed")
	}

	writeJSON(w, http.StatusCreated, toFeedConsumptionResponse(record))
}

// Update は給餌記録を更新する。
// PUT /api/feed-consumptions/{id}
func (h *FeedConsumptionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req feedConsumptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	recordDate, ok := validateFeedConsumptionRequest(w, &req)
	if !ok {
		return
	}

	record, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if record == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewRecordNotFoundError("給餌記録", id))
		return
	}

	record.RecordDate = recordDate
	record.PenID = req.PenID
	record.FeedType = req.FeedType
	record.Quantity = req.Quantity
	record.Cost = req.Cost
	record.UpdatedAt = time.Now()

	if err := h.repo.Update(r.Context(), record); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toFeedConsumptionResponse(record))
}

// Delete は給餌記録を削除する。
// DELETE /api/feed-consumptions/{id}
func (h *FeedConsumptionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.repo.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toFeedConsumptionResponse(record *model.FeedConsumption) feedConsumptionResponse {
	return feedConsumptionResponse{
		ID:         record.ID,
		RecordDate: record.RecordDate.Format(dateLayout),
		PenID:      record.PenID,
		FeedType:   record.FeedType,
		Quantity:   record.Quantity,
		Cost:       record.Cost,
		CreatedAt:  record.CreatedAt,
		UpdatedAt:  record.UpdatedAt,
	}
}
