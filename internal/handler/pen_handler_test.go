package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hs6uej/farmpigs-sub001/internal/model"
	"github.com/hs6uej/farmpigs-sub001/internal/security"
)

type mockPenRepo struct {
	findByIDFunc func(ctx context.Context, id string) (*model.Pen, error)
	listFunc     func(ctx context.Context) ([]*model.Pen, error)
	createFunc   func(ctx context.Context, pen *model.Pen) error
	updateFunc   func(ctx context.Context, pen *model.Pen) error
	deleteFunc   func(ctx context.Context, id string) error
	countFunc    func(ctx context.Context) (int, error)
}

func (m *mockPenRepo) FindByID(ctx context.Context, id string) (*model.Pen, error) {
	return m.findByIDFunc(ctx, id)
}
func (m *mockPenRepo) List(ctx context.Context) ([]*model.Pen, error) { return m.listFunc(ctx) }
func (m *mockPenRepo) Create(ctx context.Context, pen *model.Pen) error {
	return m.createFunc(ctx, pen)
}
func (m *mockPenRepo) Update(ctx context.Context, pen *model.Pen) error {
	return m.updateFunc(ctx, pen)
}
func (m *mockPenRepo) Delete(ctx context.Context, id string) error { return m.deleteFunc(ctx, id) }
func (m *mockPenRepo) Count(ctx context.Context) (int, error)      { return m.countFunc(ctx) }

func TestPenHandler_List(t *testing.T) {
	repo := &mockPenRepo{
		listFunc: func(ctx context.Context) ([]*model.Pen, error) {
			return []*model.Pen{
				{ID: "pen-1", Name: "分娩房A", PenType: "FARROWING", Capacity: 1},
				{ID: "pen-2", Name: "肥育房B", PenType: "GROWING", Capacity: 20},
			}, nil
		},
	}
	handler := NewPenHandler(repo, security.NewTextSanitizer())

	req := httptest.NewRequest(http.MethodGet, "/api/pens", nil)
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var resp []penResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 2 || resp[0].Name != "分娩房A" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestPenHandler_Get_NotFound(t *testing.T) {
	repo := &mockPenRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Pen, error) {
			return nil, nil
		},
	}
	handler := NewPenHandler(repo, security.NewTextSanitizer())

	req := httptest.NewRequest(http.MethodGet, "/api/pens/ghost", nil)
	req = requestWithURLParam(req, "id", "ghost")
	rec := httptest.NewRecorder()
	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	var resp map[string]any
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["code"] != model.ErrCodeRecordNotFound {
		t.Errorf("code = %v, want %s", resp["code"], model.ErrCodeRecordNotFound)
	}
}

func TestPenHandler_Create(t *testing.T) {
	var created *model.Pen
	repo := &mockPenRepo{
		createFunc: func(ctx context.Context, pen *model.Pen) error {
			created = pen
			return nil
		},
	}
	handler := NewPenHandler(repo, security.NewTextSanitizer())

	body := `{"name":"分娩房C","pen_type":"FARROWING","capacity":1,"notes":"<script>alert(1)</script>北側"}`
	req := httptest.NewRequest(http.MethodPost, "/api/pens", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	if created == nil {
		t.Fatal("repo.Create not called")
	}
	if created.ID == "" {
		t.Error("ID should be generated")
	}
	if strings.Contains(created.Notes, "<script>") {
		t.Errorf("notes should be sanitized: %q", created.Notes)
	}
	if !strings.Contains(created.Notes, "北側") {
		t.Errorf("plain text should survive sanitizing: %q", created.Notes)
	}
}

func TestPenHandler_Create_MissingName(t *testing.T) {
	handler := NewPenHandler(&mockPenRepo{}, security.NewTextSanitizer())

	req := httptest.NewRequest(http.MethodPost, "/api/pens", strings.NewReader(`{"capacity":10}`))
	rec := httptest.NewRecorder()
	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	var resp map[string]any
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["code"] != model.ErrCodeMissingField {
		t.Errorf("code = %v, want %s", resp["code"], model.ErrCodeMissingField)
	}
}

func TestPenHandler_Update(t *testing.T) {
	existing := &model.Pen{
		ID:        "pen-1",
		Name:      "分娩房A",
		PenType:   "FARROWING",
		Capacity:  1,
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	var updated *model.Pen
	repo := &mockPenRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Pen, error) {
			return existing, nil
		},
		updateFunc: func(ctx context.Context, pen *model.Pen) error {
			updated = pen
			return nil
		},
	}
	handler := NewPenHandler(repo, security.NewTextSanitizer())

	body := `{"name":"分娩房A改","pen_type":"FARROWING","capacity":2}`
	req := httptest.NewRequest(http.MethodPut, "/api/pens/pen-1", strings.NewReader(body))
	req = requestWithURLParam(req, "id", "pen-1")
	rec := httptest.NewRecorder()
	handler.Update(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if updated == nil || updated.Name != "分娩房A改" || updated.Capacity != 2 {
		t.Errorf("unexpected update: %+v", updated)
	}
}

func TestPenHandler_Delete_NotFound(t *testing.T) {
	repo := &mockPenRepo{
		deleteFunc: func(ctx context.Context, id string) error {
			return model.NewRecordNotFoundError("豚房", id)
		},
	}
	handler := NewPenHandler(repo, security.NewTextSanitizer())

	req := httptest.NewRequest(http.MethodDelete, "/api/pens/ghost", nil)
	req = requestWithURLParam(req, "id", "ghost")
	rec := httptest.NewRecorder()
	handler.Delete(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestPenHandler_Delete(t *testing.T) {
	var deleted string
	repo := &mockPenRepo{
		deleteFunc: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	handler := NewPenHandler(repo, security.NewTextSanitizer())

	req := httptest.NewRequest(http.MethodDelete, "/api/pens/pen-1", nil)
	req = requestWithURLParam(req, "id", "pen-1")
	rec := httptest.NewRecorder()
	handler.Delete(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if deleted != "pen-1" {
		t.Errorf("deleted = %q, want pen-1", deleted)
	}
}
