package gen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/hpungsan/scribe/internal/document"
)

// DefaultBaseURL is the OpenAI API root. Overridable for compatible
// gateways (e.g., OpenRouter).
const DefaultBaseURL = "https://api.openai.com/v1"

// DefaultTimeout bounds one generation request.
const DefaultTimeout = 60 * time.Second

// OpenAIClient is a Generator backed by the OpenAI chat-completions API
// (or any API-compatible endpoint).
type OpenAIClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewOpenAIClient creates a client. An empty baseURL selects
// DefaultBaseURL; a zero timeout selects DefaultTimeout. An empty apiKey
// is allowed at construction time; Generate then fails with the
// not_configured error kind.
func NewOpenAIClient(apiKey, baseURL string, timeout time.Duration) *OpenAIClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &OpenAIClient{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Configured reports whether an API key is present.
func (c *OpenAIClient) Configured() bool {
	return c.apiKey != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Generate implements Generator.
func (c *OpenAIClient) Generate(ctx context.Context, kind document.Kind, sourceText string, params Params) (string, error) {
	if !c.Configured() {
		return "", &Error{Kind: NotConfigured, Message: "no API key configured"}
	}

	userPrompt, ok := UserPrompt(kind, sourceText)
	if !ok {
		return "", fmt.Errorf("kind %q is not generated by any stage", kind)
	}

	messages := make([]chatMessage, 0, 2)
	if system := SystemPrompt(kind); system != "" {
		messages = append(messages, chatMessage{Role: "system", Content: system})
	}
	messages = append(messages, chatMessage{Role: "user", Content: userPrompt})

	body, err := json.Marshal(chatRequest{
		Model:       params.Model,
		Messages:    messages,
		MaxTokens:   params.MaxTokens,
		Temperature: params.Temperature,
	})
	if err != nil {
		return "", &Error{Kind: Upstream, Message: "encode request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", &Error{Kind: Upstream, Message: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", &Error{Kind: Timeout, Message: "request timed out", Err: err}
		}
		return "", &Error{Kind: Upstream, Message: "transport failure", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", &Error{Kind: Upstream, Message: "read response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		kind := Upstream
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusTooManyRequests:
			kind = Rejected
		}
		return "", &Error{
			Kind:    kind,
			Status:  resp.StatusCode,
			Message: upstreamMessage(respBody),
		}
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", &Error{Kind: Upstream, Message: "decode response", Err: err}
	}
	if len(parsed.Choices) == 0 {
		return "", &Error{Kind: Upstream, Message: "response contained no choices"}
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", &Error{Kind: Upstream, Message: "response contained empty content"}
	}
	return content, nil
}

// isTimeout reports whether err stems from a deadline or network timeout.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// upstreamMessage extracts the provider error message from a failed
// response body, falling back to a truncated raw body.
func upstreamMessage(body []byte) string {
	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 500 {
		s = s[:500]
	}
	if s == "" {
		s = "upstream request failed"
	}
	return s
}
