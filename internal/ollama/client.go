// Package ollama is a minimal client for the chat endpoint of an
// Ollama-compatible text-generation service.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const DefaultBaseURL = "http://localhost:11434"

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Options struct {
	NumPredict  int     `json:"num_predict"`
	NumCtx      int     `json:"num_ctx,omitempty"`
	Temperature float64 `json:"temperature"`
}

type chatRequest struct {
	Model    string    `json:"model"`
	Stream   bool      `json:"stream"`
	Think    bool      `json:"think"`
	Options  Options   `json:"options"`
	Messages []Message `json:"messages"`
}

type chatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

// StatusError is a non-2xx reply from the service, body included so callers
// can surface upstream detail.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ollama status %d: %s", e.Code, e.Body)
}

type Client struct {
	baseURL    string
	model      string
	numCtx     int
	httpClient *http.Client
}

// NewClient builds a client for baseURL and model. Call deadlines come from
// the caller's context, so the underlying http.Client has no fixed timeout.
// numCtx is optional; zero omits it from the request.
func NewClient(baseURL, model string, numCtx int) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		numCtx:     numCtx,
		httpClient: &http.Client{},
	}
}

func (c *Client) Model() string { return c.model }

// Chat sends a system+user exchange and returns the reply content.
func (c *Client) Chat(ctx context.Context, system, user string, numPredict int, temperature float64) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:  c.model,
		Stream: false,
		Think:  false,
		Options: Options{
			NumPredict:  numPredict,
			NumCtx:      c.numCtx,
			Temperature: temperature,
		},
		Messages: []Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return "", fmt.Errorf("ollama chat: %w", cerr)
		}
		return "", fmt.Errorf("ollama chat: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return "", &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	return out.Message.Content, nil
}
