package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kejionglee/iphall-landing-page/agent/agents/workflow"
	catalogx "github.com/kejionglee/iphall-landing-page/agent/catalog"
	contractx "github.com/kejionglee/iphall-landing-page/agent/contract"
	quotationx "github.com/kejionglee/iphall-landing-page/agent/quotation"
	statex "github.com/kejionglee/iphall-landing-page/agent/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAssistant struct {
	last contractx.TurnRequest
	resp contractx.TurnResponse
	err  error
}

func (s *stubAssistant) HandleMessage(_ context.Context, req contractx.TurnRequest) (contractx.TurnResponse, error) {
	s.last = req
	if s.err != nil {
		return contractx.TurnResponse{}, s.err
	}
	resp := s.resp
	resp.SessionID = req.SessionID
	return resp, nil
}

type downCatalog struct{ contractx.Catalog }

func (downCatalog) ListServices(context.Context) ([]contractx.Service, error) {
	return nil, fmt.Errorf("%w: dial tcp: connection refused", contractx.ErrCatalogUnavailable)
}

func sampleCatalog(t *testing.T) *catalogx.Catalog {
	t.Helper()
	provider, err := catalogx.NewMemoryProvider(catalogx.SampleRecords())
	require.NoError(t, err)
	c, err := catalogx.New(provider)
	require.NoError(t, err)
	return c
}

func newTestServer(t *testing.T, assistant Assistant, catalog contractx.Catalog, cfg Config) http.Handler {
	t.Helper()
	composer, err := quotationx.NewComposer(catalog)
	require.NoError(t, err)
	srv, err := NewServer(assistant, catalog, composer, quotationx.StubDocumentGenerator{}, cfg)
	require.NoError(t, err)
	return srv.Handler()
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) ProblemDetail {
	t.Helper()
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	var p ProblemDetail
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&p))
	return p
}

func TestChatAssignsConversationID(t *testing.T) {
	t.Parallel()

	assistant := &stubAssistant{resp: contractx.TurnResponse{Reply: "hello", Step: contractx.StepChoosingService, Suggestions: []string{"1"}}}
	h := newTestServer(t, assistant, sampleCatalog(t), Config{})

	rec := do(t, h, http.MethodPost, "/api/v1/chat", map[string]string{"message": "hi"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	var out chatResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	assert.True(t, strings.HasPrefix(out.ConversationID, "conv_"), out.ConversationID)
	assert.Equal(t, "hello", out.Response)
	assert.Equal(t, contractx.StepChoosingService, out.Step)
	assert.Equal(t, "hi", assistant.last.Text)
	assert.Nil(t, out.Quotation)
}

func TestChatRejectsBadRequests(t *testing.T) {
	t.Parallel()

	h := newTestServer(t, &stubAssistant{}, sampleCatalog(t), Config{MaxMessageBytes: 10})

	tests := []struct {
		name string
		body any
		want int
	}{
		{name: "not json", body: "{", want: http.StatusBadRequest},
		{name: "unknown command", body: map[string]string{"command": "explode"}, want: http.StatusBadRequest},
		{name: "message too long", body: map[string]string{"message": strings.Repeat("x", 11)}, want: http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/v1/chat", tt.body)
			require.Equal(t, tt.want, rec.Code)
			p := decodeProblem(t, rec)
			assert.Equal(t, tt.want, p.Status)
			assert.Equal(t, "/api/v1/chat", p.Instance)
		})
	}
}

func TestChatHidesEngineErrors(t *testing.T) {
	t.Parallel()

	h := newTestServer(t, &stubAssistant{err: errors.New("secret dsn leaked")}, sampleCatalog(t), Config{})
	rec := do(t, h, http.MethodPost, "/api/v1/chat", map[string]string{"message": "1", "conversation_id": "c1"})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret")
}

func TestChatEndToEndWithWorkflowEngine(t *testing.T) {
	t.Parallel()

	catalog := sampleCatalog(t)
	store, err := statex.NewMemoryStore(100)
	require.NoError(t, err)
	composer, err := quotationx.NewComposer(catalog)
	require.NoError(t, err)
	engine, err := workflow.New(store, catalog, composer, quotationx.StubDocumentGenerator{})
	require.NoError(t, err)
	h := newTestServer(t, engine, catalog, Config{RateLimitBurst: 100})

	var out chatResponse
	for _, msg := range []string{"copyright", "laos", "1", "done"} {
		rec := do(t, h, http.MethodPost, "/api/v1/chat", map[string]string{"message": msg, "conversation_id": "visitor-1"})
		require.Equal(t, http.StatusOK, rec.Code)
		out = chatResponse{}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	}
	assert.Equal(t, contractx.StepReadyToFinalize, out.Step)
	require.NotNil(t, out.Quotation)
	require.NotNil(t, out.GrandTotal)
	assert.Equal(t, 750.0, *out.GrandTotal)

	rec := do(t, h, http.MethodPost, "/api/v1/chat", map[string]string{"message": "generate pdf", "conversation_id": "visitor-1"})
	require.Equal(t, http.StatusOK, rec.Code)
	out = chatResponse{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	assert.Equal(t, contractx.StepChoosingService, out.Step)
	assert.Equal(t, "/api/quotation/download/"+out.Quotation.ID+".pdf", out.DocumentRef)
}

func TestCatalogRoutes(t *testing.T) {
	t.Parallel()

	h := newTestServer(t, &stubAssistant{}, sampleCatalog(t), Config{RateLimitBurst: 100})

	rec := do(t, h, http.MethodGet, "/api/quotation/services", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var services struct {
		Services []contractx.Service `json:"services"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&services))
	require.Len(t, services.Services, 3)
	assert.Equal(t, "copyright", services.Services[0].ID)

	rec = do(t, h, http.MethodGet, "/api/quotation/services/copyright/countries", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"currency":"USD"`)

	rec = do(t, h, http.MethodGet, "/api/quotation/services/copyright/countries/laos/items", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var items struct {
		Items []itemView `json:"items"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&items))
	require.Len(t, items.Items, 1)
	assert.Equal(t, 750.0, items.Items[0].TotalCost)

	itemID := items.Items[0].ID
	rec = do(t, h, http.MethodGet, "/api/quotation/generate/copyright/laos/"+itemID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var quote quotationView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&quote))
	assert.Equal(t, 750.0, quote.GrandTotal)
	assert.Equal(t, "USD", quote.Quotation.Currency)
	assert.Equal(t, "/api/quotation/download/"+quote.Quotation.ID+".pdf", quote.DocumentRef)
}

func TestCatalogRoutesNotFound(t *testing.T) {
	t.Parallel()

	h := newTestServer(t, &stubAssistant{}, sampleCatalog(t), Config{RateLimitBurst: 100})

	for _, path := range []string{
		"/api/quotation/services/nope/countries",
		"/api/quotation/services/copyright/countries/mars/items",
		"/api/quotation/generate/copyright/laos/unknown_item",
		"/definitely/not/here",
	} {
		rec := do(t, h, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Equal(t, http.StatusNotFound, decodeProblem(t, rec).Status, path)
	}
}

func TestCatalogOutageIsServiceUnavailable(t *testing.T) {
	t.Parallel()

	h := newTestServer(t, &stubAssistant{}, downCatalog{Catalog: sampleCatalog(t)}, Config{})
	rec := do(t, h, http.MethodGet, "/api/quotation/services", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestHealthAndIndex(t *testing.T) {
	t.Parallel()

	h := newTestServer(t, &stubAssistant{}, sampleCatalog(t), Config{})

	rec := do(t, h, http.MethodGet, "/api/v1/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	rec = do(t, h, http.MethodGet, "/api", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "POST /api/v1/chat")
}

func TestRequestIDIsEchoed(t *testing.T) {
	t.Parallel()

	h := newTestServer(t, &stubAssistant{}, sampleCatalog(t), Config{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "req-42", rec.Header().Get(RequestIDHeader))
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()

	h := newTestServer(t, &stubAssistant{}, sampleCatalog(t), Config{AllowedOrigins: []string{"https://iphall.example"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/chat", nil)
	req.Header.Set("Origin", "https://iphall.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://iphall.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Parallel()

	limiter := NewRateLimiter(0.001, 2)
	h := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code, "within burst")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "5", rec.Header().Get("Retry-After"))

	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.RemoteAddr = "203.0.113.9:4000"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code, "separate bucket per ip")
}

func TestRateLimiterEvictsIdleVisitors(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(1, 1)
	limiter.now = func() time.Time { return now }

	limiter.limiter("198.51.100.1")
	now = now.Add(2 * time.Minute)
	limiter.limiter("198.51.100.2")
	now = now.Add(2 * time.Minute)
	limiter.evictIdle()

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	assert.Len(t, limiter.visitors, 1)
	assert.Contains(t, limiter.visitors, "198.51.100.2")
}
