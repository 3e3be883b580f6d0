package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Pedrocavalcantip/projeto-prefeitura-backend-sub000/internal/apperrors"
	"github.com/Pedrocavalcantip/projeto-prefeitura-backend-sub000/internal/auth"
	"github.com/Pedrocavalcantip/projeto-prefeitura-backend-sub000/internal/middleware"
	"github.com/Pedrocavalcantip/projeto-prefeitura-backend-sub000/internal/models"

	"github.com/gin-gonic/gin"
)

const testSecret = "handler-test-secret"

// stubItemService returns canned results so the tests exercise only the
// HTTP framing and error mapping.
type stubItemService struct {
	item *models.Item
	err  error
	ids  []uint
}

func (s *stubItemService) ListPublic(context.Context, string, string, string) ([]models.Item, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []models.Item{}, nil
}

func (s *stubItemService) GetByID(context.Context, string, uint) (*models.Item, error) {
	return s.item, s.err
}

func (s *stubItemService) ListMine(context.Context, string, uint, string) ([]models.Item, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []models.Item{}, nil
}

func (s *stubItemService) Create(context.Context, string, uint, map[string]any) (*models.Item, error) {
	return s.item, s.err
}

func (s *stubItemService) Update(context.Context, string, uint, uint, map[string]any) (*models.Item, error) {
	return s.item, s.err
}

func (s *stubItemService) SetStatus(context.Context, string, uint, uint, string) (*models.Item, error) {
	return s.item, s.err
}

func (s *stubItemService) Delete(context.Context, string, uint, uint) error {
	return s.err
}

func (s *stubItemService) FinalizeExpiredDonations(context.Context) ([]uint, error) {
	return s.ids, s.err
}

func (s *stubItemService) FinalizeAgedRelocations(context.Context) (int64, error) {
	return int64(len(s.ids)), s.err
}

func (s *stubItemService) PurgeOldItems(context.Context, string) (int64, error) {
	return int64(len(s.ids)), s.err
}

func newTestRouter(svc *stubItemService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	h := NewItemHandler(svc, models.PurposeDonation, "/tmp", "http://localhost:8080/uploads")
	h.Register(r.Group("/api/donations"), middleware.AuthMiddleware(testSecret))
	return r
}

func bearer(t *testing.T) string {
	t.Helper()
	token, err := auth.GenerateToken(testSecret, 1, "contato@ong.org.br")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return "Bearer " + token
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	r := newTestRouter(&stubItemService{})

	tests := []struct {
		name  string
		token string
	}{
		{"missing token", ""},
		{"malformed header", "Token abc"},
		{"garbage token", "Bearer not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPatch, "/api/donations/1/status", tt.token,
				map[string]string{"status": models.StatusFinalized})
			if w.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", w.Code)
			}
		})
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"forbidden", apperrors.NewForbidden("você não tem permissão para alterar este item"), http.StatusForbidden},
		{"not found", apperrors.NewNotFound("item não encontrado"), http.StatusNotFound},
		{"conflict", apperrors.NewConflict("o item só pode ser atualizado enquanto estiver ATIVA"), http.StatusBadRequest},
		{"internal hidden", context.DeadlineExceeded, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(&stubItemService{err: tt.err})

			w := doJSON(t, r, http.MethodPatch, "/api/donations/1/status", bearer(t),
				map[string]string{"status": models.StatusFinalized})
			if w.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d (%s)", tt.wantStatus, w.Code, w.Body.String())
			}

			if tt.wantStatus == http.StatusInternalServerError &&
				strings.Contains(w.Body.String(), "deadline") {
				t.Errorf("internal detail leaked to client: %s", w.Body.String())
			}
		})
	}
}

func TestCreateRequiresImageReference(t *testing.T) {
	r := newTestRouter(&stubItemService{item: &models.Item{ID: 1}})

	body := map[string]any{
		"title":       "Cestas básicas",
		"description": "Cestas",
	}
	w := doJSON(t, r, http.MethodPost, "/api/donations", bearer(t), body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without an image reference, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "imagem") {
		t.Errorf("expected image message, got %s", w.Body.String())
	}
}

func TestPublicRoutesNeedNoToken(t *testing.T) {
	r := newTestRouter(&stubItemService{item: &models.Item{ID: 3, Purpose: models.PurposeDonation}})

	if w := doJSON(t, r, http.MethodGet, "/api/donations", "", nil); w.Code != http.StatusOK {
		t.Errorf("list: expected 200, got %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodGet, "/api/donations/3", "", nil); w.Code != http.StatusOK {
		t.Errorf("detail: expected 200, got %d", w.Code)
	}
}

func TestManualExpiredTriggers(t *testing.T) {
	r := newTestRouter(&stubItemService{ids: []uint{4, 9}})

	w := doJSON(t, r, http.MethodPatch, "/api/donations/expired", bearer(t), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("finalize trigger: expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "finalized") {
		t.Errorf("expected finalized ids in body, got %s", w.Body.String())
	}

	w = doJSON(t, r, http.MethodDelete, "/api/donations/expired", bearer(t), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("purge trigger: expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "purged") {
		t.Errorf("expected purged count in body, got %s", w.Body.String())
	}
}
