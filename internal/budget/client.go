package budget

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/basketwise/basketwise-backend/pkg/config"
	pkgerrors "github.com/basketwise/basketwise-backend/pkg/errors"
)

// Completer is the single-call surface the service depends on.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// OpenAIClient talks to an OpenAI-compatible chat-completions endpoint.
type OpenAIClient struct {
	cfg        config.OpenAIConfig
	httpClient *http.Client
}

// NewOpenAIClient builds the model client from config.
func NewOpenAIClient(cfg config.OpenAIConfig) (*OpenAIClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("openai base url is required")
	}
	return &OpenAIClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	ResponseFormat responseFormat `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete issues one chat-completion call. There are no retries: a throttled
// or unpaid account surfaces immediately with its own error code.
func (c *OpenAIClient) Complete(ctx context.Context, system, user string) (string, error) {
	payload := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		ResponseFormat: responseFormat{Type: "json_object"},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode model request")
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build model request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "call model")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read model response")
	}

	if err := classifyStatus(resp.StatusCode); err != nil {
		return "", err
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode model response")
	}
	if len(parsed.Choices) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "model returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// classifyStatus maps provider status codes onto the platform error codes.
// 429 and 402 carry distinct meaning for callers; everything else non-2xx is
// a generic dependency failure.
func classifyStatus(status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusTooManyRequests:
		return pkgerrors.New(pkgerrors.CodeRateLimit, "model rate limit exceeded")
	case status == http.StatusPaymentRequired:
		return pkgerrors.New(pkgerrors.CodePaymentRequired, "model account out of credit")
	default:
		return pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("model returned status %d", status))
	}
}
