package main

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

/* ─── Request / Response types ───────────────────────────────────────── */

// tipsRequest is the request body for POST /api/ai/tips. The client owns the
// prompt; the server only attaches credentials and relays it.
type tipsRequest struct {
	Prompt string `json:"prompt"`
	System string `json:"system"`
}

// tipsResponse is returned on success. Cached is true when the answer came
// from the tips cache instead of the model.
type tipsResponse struct {
	Tips   string `json:"tips"`
	Cached bool   `json:"cached"`
}

// maxPromptBytes keeps a single relay request to a sane size.
const maxPromptBytes = 8000

/* ─── Chat completions client ────────────────────────────────────────── */

// chatMessage is a single message in the chat completions request.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the request body for the chat completions API.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

var errAINotConfigured = errors.New("OPENAI_API_KEY not set")

// aiClient talks to an OpenAI-compatible chat completions endpoint over raw
// net/http. baseURL is overridable so tests can point it at httptest.
type aiClient struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

func newAIClient(baseURL, apiKey, model string) *aiClient {
	return &aiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// complete sends messages and returns the content of the first choice.
func (a *aiClient) complete(ctx context.Context, messages []chatMessage) (string, error) {
	if a == nil || a.apiKey == "" {
		return "", errAINotConfigured
	}

	bodyBytes, err := json.Marshal(chatRequest{
		Model:       a.model,
		Messages:    messages,
		Temperature: 0.4,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("model API returned status %d: %s", resp.StatusCode, string(respBytes))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBytes, &result); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(result.Choices) == 0 || strings.TrimSpace(result.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("no content in response")
	}

	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}

/* ─── Handler ────────────────────────────────────────────────────────── */

// tipsCacheKey hashes everything that shapes the answer.
func tipsCacheKey(model string, messages []chatMessage) string {
	h := sha256.New()
	h.Write([]byte(model))
	for _, m := range messages {
		h.Write([]byte{0})
		h.Write([]byte(m.Role))
		h.Write([]byte{0})
		h.Write([]byte(m.Content))
	}
	return "tips:" + hex.EncodeToString(h.Sum(nil))
}

// requestTips relays a dietary-tips prompt to the language model.
// POST /api/ai/tips. Any upstream failure is reported as a generic 502 so the
// client can fall back to its local scores.
func (h *Handler) requestTips(c *gin.Context) {
	var req tipsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.Prompt == "" {
		apiError(c, http.StatusBadRequest, "prompt is required")
		return
	}
	if len(req.Prompt)+len(req.System) > maxPromptBytes {
		apiError(c, http.StatusBadRequest, "prompt is too long")
		return
	}

	var messages []chatMessage
	if s := strings.TrimSpace(req.System); s != "" {
		messages = append(messages, chatMessage{Role: "system", Content: s})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	model := ""
	if h.ai != nil {
		model = h.ai.model
	}
	key := tipsCacheKey(model, messages)

	if h.tips != nil {
		if cached, ok, err := h.tips.get(c, key); err != nil {
			log.Printf("[tips] cache read failed: %v", err)
		} else if ok {
			c.JSON(http.StatusOK, tipsResponse{Tips: cached, Cached: true})
			return
		}
	}

	content, err := h.ai.complete(c.Request.Context(), messages)
	if err != nil {
		log.Printf("[tips] model error: %v", err)
		apiError(c, http.StatusBadGateway, "ai request failed")
		return
	}

	if h.tips != nil {
		if err := h.tips.set(c, key, content); err != nil {
			log.Printf("[tips] cache write failed: %v", err)
		}
	}

	c.JSON(http.StatusOK, tipsResponse{Tips: content})
}
