package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// setupTipsTest creates a Gin engine backed by a mock chat completions server.
// The returned counter reports how many requests reached the mock.
func setupTipsTest(t *testing.T, cache tipsCache) (*gin.Engine, func(int, interface{}), *int32) {
	t.Helper()
	var mockStatus int
	var mockBody interface{}
	var calls int32

	mock := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(mockStatus)
		json.NewEncoder(w).Encode(mockBody)
	}))
	t.Cleanup(mock.Close)

	gin.SetMode(gin.TestMode)
	h := Handler{ai: newAIClient(mock.URL, "test-key", "test-model"), tips: cache}
	router := gin.New()
	router.POST("/api/ai/tips", h.requestTips)

	setMock := func(status int, body interface{}) {
		mockStatus = status
		mockBody = body
	}
	return router, setMock, &calls
}

func doTipsRequest(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/api/ai/tips", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// openAIChatResponse wraps content in the chat completions response shape.
func openAIChatResponse(content string) map[string]interface{} {
	return map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]interface{}{"content": content}},
		},
	}
}

func TestTips_Success(t *testing.T) {
	router, setMock, _ := setupTipsTest(t, nil)
	setMock(http.StatusOK, openAIChatResponse("  Add a little fish oil.  "))

	w := doTipsRequest(router, `{"prompt":"Low fat this week","system":"You are a canine nutritionist."}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp tipsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Tips != "Add a little fish oil." {
		t.Errorf("expected trimmed tips, got %q", resp.Tips)
	}
	if resp.Cached {
		t.Error("expected cached=false on first request")
	}
}

func TestTips_EmptyPrompt(t *testing.T) {
	router, _, calls := setupTipsTest(t, nil)

	w := doTipsRequest(router, `{"prompt":"   "}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if atomic.LoadInt32(calls) != 0 {
		t.Errorf("expected no upstream call, got %d", atomic.LoadInt32(calls))
	}
}

func TestTips_InvalidBody(t *testing.T) {
	router, _, _ := setupTipsTest(t, nil)

	w := doTipsRequest(router, `not json`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestTips_UpstreamError(t *testing.T) {
	router, setMock, _ := setupTipsTest(t, nil)
	setMock(http.StatusInternalServerError, map[string]string{"error": "boom"})

	w := doTipsRequest(router, `{"prompt":"anything"}`)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "ai request failed") {
		t.Errorf("expected generic error message, got %s", w.Body.String())
	}
}

func TestTips_EmptyChoices(t *testing.T) {
	router, setMock, _ := setupTipsTest(t, nil)
	setMock(http.StatusOK, map[string]interface{}{"choices": []interface{}{}})

	w := doTipsRequest(router, `{"prompt":"anything"}`)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
}

func TestTips_NoAPIKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := Handler{ai: newAIClient("http://127.0.0.1:0", "", "m")}
	router := gin.New()
	router.POST("/api/ai/tips", h.requestTips)

	w := doTipsRequest(router, `{"prompt":"anything"}`)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
}

func TestTips_CacheHit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	router, setMock, calls := setupTipsTest(t, newRedisTipsCache(rdb, time.Hour))
	setMock(http.StatusOK, openAIChatResponse("Try pumpkin for fiber."))

	first := doTipsRequest(router, `{"prompt":"fiber is low"}`)
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", first.Code, first.Body.String())
	}

	second := doTipsRequest(router, `{"prompt":"fiber is low"}`)
	if second.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", second.Code)
	}
	var resp tipsResponse
	if err := json.Unmarshal(second.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if !resp.Cached || resp.Tips != "Try pumpkin for fiber." {
		t.Errorf("expected cached tips, got %+v", resp)
	}
	if atomic.LoadInt32(calls) != 1 {
		t.Errorf("expected 1 upstream call, got %d", atomic.LoadInt32(calls))
	}
}

// brokenCache fails every operation; the handler must still answer.
type brokenCache struct{}

func (brokenCache) get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("cache down")
}
func (brokenCache) set(context.Context, string, string) error { return errors.New("cache down") }

func TestTips_CacheErrorsAreNotFatal(t *testing.T) {
	router, setMock, _ := setupTipsTest(t, brokenCache{})
	setMock(http.StatusOK, openAIChatResponse("ok"))

	w := doTipsRequest(router, `{"prompt":"anything"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestTipsCacheKey(t *testing.T) {
	a := tipsCacheKey("m", []chatMessage{{Role: "user", Content: "x"}})
	b := tipsCacheKey("m", []chatMessage{{Role: "user", Content: "x"}})
	c := tipsCacheKey("other", []chatMessage{{Role: "user", Content: "x"}})
	d := tipsCacheKey("m", []chatMessage{{Role: "system", Content: "x"}})

	if a != b {
		t.Error("expected identical inputs to share a key")
	}
	if a == c || a == d {
		t.Error("expected model and role to change the key")
	}
	if !strings.HasPrefix(a, "tips:") {
		t.Errorf("expected tips: prefix, got %s", a)
	}
}
