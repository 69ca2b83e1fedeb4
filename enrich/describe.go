package enrich

// describe.go — vision description client.
//
// Sends one embedded image plus a prompt to a chat-completions style
// endpoint and extracts the description text. The remote response shape is
// not guaranteed, so extraction walks a fixed priority chain and degrades
// to the raw body rather than failing. Describe never returns an error:
// every failure becomes an inline placeholder so the enrichment pass can
// always produce output.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Options configures one enrichment invocation. It is immutable for the
// duration of the call; callers supply it explicitly rather than relying on
// process-wide defaults.
type Options struct {
	EndpointURL string
	Model       string
	Prompt      string
	MaxTokens   int

	// Temperature and Seed are passed through verbatim when set; they have
	// no local semantics.
	Temperature *float64
	Seed        *int

	// Timeout bounds one description request; zero means no timeout.
	Timeout time.Duration

	// Workers bounds concurrent description calls; <=1 is sequential.
	Workers int
}

// maxErrorBody bounds how much of a failed response is echoed into the
// placeholder text.
const maxErrorBody = 1024

// Client talks to the description service.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Client with a shared transport. The logger is used
// for diagnostics only; failures surface as placeholder text, not errors.
func NewClient(logger *slog.Logger) *Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
	}
	return &Client{
		httpClient: &http.Client{Transport: transport},
		logger:     logger,
	}
}

// chat-completions request body. Content is a part list so the image can
// ride alongside the prompt in a single user turn.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature *float64      `json:"temperature,omitempty"`
	Seed        *int          `json:"seed,omitempty"`
}

type chatMessage struct {
	Role    string     `json:"role"`
	Content []chatPart `json:"content"`
}

type chatPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *chatImageURL `json:"image_url,omitempty"`
}

type chatImageURL struct {
	URL string `json:"url"`
}

// Describe sends payload (a full data URI) to the description service and
// returns the extracted text. On any transport or status failure it returns
// a "[PictureDescription failed: ...]" placeholder instead. No retries.
func (c *Client) Describe(ctx context.Context, payload string, opts Options) string {
	text, err := c.request(ctx, payload, opts)
	if err != nil {
		c.logger.Warn("picture description failed", "error", err)
		return fmt.Sprintf("[PictureDescription failed: %v]", err)
	}
	return text
}

func (c *Client) request(ctx context.Context, payload string, opts Options) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: opts.Model,
		Messages: []chatMessage{{
			Role: "user",
			Content: []chatPart{
				{Type: "text", Text: opts.Prompt},
				{Type: "image_url", ImageURL: &chatImageURL{URL: payload}},
			},
		}},
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
		Seed:        opts.Seed,
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, opts.EndpointURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	return extractText(respBody), nil
}

// extractText pulls description text out of a loosely-shaped response.
// Priority order:
//  1. choices[0].message.content as a plain string
//  2. choices[0].message.content as a part list — first text-typed part
//  3. choices[0].text
//  4. top-level "text", "output", "message", "description" (in that order)
//  5. unparseable body — returned verbatim
//  6. parsed but nothing matched — the structure re-serialized
func extractText(body []byte) string {
	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return string(body)
	}

	if s := textFromChoices(parsed); s != "" {
		return s
	}
	for _, key := range []string{"text", "output", "message", "description"} {
		if s, ok := parsed[key].(string); ok && s != "" {
			return s
		}
	}

	out, err := json.Marshal(parsed)
	if err != nil {
		return string(body)
	}
	return string(out)
}

func textFromChoices(parsed map[string]any) string {
	choices, ok := parsed["choices"].([]any)
	if !ok || len(choices) == 0 {
		return ""
	}
	first, ok := choices[0].(map[string]any)
	if !ok {
		return ""
	}

	if msg, ok := first["message"].(map[string]any); ok {
		switch content := msg["content"].(type) {
		case string:
			if content != "" {
				return content
			}
		case []any:
			for _, p := range content {
				part, ok := p.(map[string]any)
				if !ok {
					continue
				}
				if t, _ := part["type"].(string); t != "text" {
					continue
				}
				if s, ok := part["text"].(string); ok && s != "" {
					return s
				}
			}
		}
	}

	if s, ok := first["text"].(string); ok && s != "" {
		return s
	}
	return ""
}
