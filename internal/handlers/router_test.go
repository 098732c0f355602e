package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xelth-com/esimchatgo/internal/ai"
	"github.com/xelth-com/esimchatgo/internal/chat"
	"github.com/xelth-com/esimchatgo/internal/config"
	"github.com/xelth-com/esimchatgo/internal/orders"
)

const testOrdersCSV = "Order Number ,email,ICCID,GEO,Data,Price ,Currency,LPA\n" +
	"15622,alice@example.com,8937204016180003021,Turkey,10GB / 30 days,19.90,USD,LPA:1$smdp.example.com$ABC-123\n" +
	"15623,bob@example.com,8937204016180003022,Spain,5GB / 15 days,12.50,EUR,\n"

type fakeCompleter struct{ reply string }

func (f fakeCompleter) Complete(ctx context.Context, msgs []ai.Message, maxTokens int) (string, error) {
	return f.reply, nil
}

func newTestRouter(t *testing.T) *Router {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "order.csv")
	if err := os.WriteFile(path, []byte(testOrdersCSV), 0o644); err != nil {
		t.Fatalf("Failed to write orders file: %v", err)
	}

	dataset := orders.NewDataset(filepath.Join(dir, "@order.csv"), path, orders.DefaultMaxAge)
	svc := &chat.Service{
		Orders:    dataset,
		Completer: fakeCompleter{reply: "ok"},
		Resolver:  chat.NewLanguageResolver(chat.ScriptFallback{}, "English"),
		Options: func() chat.Options {
			return chat.Options{Gated: true, ResponseLength: "brief", DefaultLanguage: "English"}
		},
	}
	cfg := &config.Config{JWTSecret: "test-secret-key-12345"}

	return NewRouter(cfg, nil, svc, dataset, nil, nil)
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %v", body["status"])
	}
}

func TestPostChat(t *testing.T) {
	router := newTestRouter(t)

	payload := `{"message": "15622"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/chat", strings.NewReader(payload)))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp chat.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if !strings.Contains(resp.Reply, "15622") {
		t.Errorf("Expected order summary, got %q", resp.Reply)
	}
	if resp.FollowUp == "" {
		t.Error("Expected ask-device follow-up")
	}
}

func TestPostChatValidation(t *testing.T) {
	router := newTestRouter(t)

	cases := []string{
		`{}`,
		`{"message": "   "}`,
		`{"message": 42}`,
		`not json`,
	}
	for _, payload := range cases {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("POST", "/chat", bytes.NewReader([]byte(payload))))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Payload %q: expected 400, got %d", payload, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "error") {
			t.Errorf("Payload %q: expected error body, got %q", payload, rec.Body.String())
		}
	}
}

func TestGetOrders(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/orders?email=alice@example.com", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body struct {
		Count   int             `json:"count"`
		Results []orders.Record `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if body.Count != 1 {
		t.Errorf("Expected 1 result, got %d", body.Count)
	}
}

func TestGetOrdersEmptyQuery(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/orders", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"count":0`) {
		t.Errorf("Empty query must return zero results, got %q", rec.Body.String())
	}
}

func TestGetOrderQR(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/orders/qr?order=15622", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected image/png, got %q", ct)
	}

	// 15623 carries no activation data.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/orders/qr?order=15623", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for order without LPA, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/orders/qr?order=99999", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown order, got %d", rec.Code)
	}
}

func TestGetOrderReceipt(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/orders/receipt?order=15622", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Expected application/pdf, got %q", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Error("Expected PDF body")
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/orders/receipt", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without order parameter, got %d", rec.Code)
	}
}

func TestAdminRequiresAuth(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/admin/settings", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without token, got %d", rec.Code)
	}

	req := httptest.NewRequest("GET", "/admin/settings", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 with bad token, got %d", rec.Code)
	}
}
