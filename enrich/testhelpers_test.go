package enrich

// Shared test helpers for the enrich package.

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
)

func assertNoErr(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func assertErr(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
}

func assertEq(t *testing.T, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func assertContains(t *testing.T, got, want string) {
	t.Helper()
	if !strings.Contains(got, want) {
		t.Errorf("expected output to contain %q\ngot: %s", want, got)
	}
}

func newTestClient() *Client {
	return NewClient(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// stubService is a description-service stand-in that counts calls and
// records the payloads it was asked about.
type stubService struct {
	srv      *httptest.Server
	calls    atomic.Int64
	payloads chan string
}

// newStubService starts a server whose responses come from respond, given
// the image payload extracted from the request body.
func newStubService(t *testing.T, respond func(payload string) string) *stubService {
	t.Helper()
	s := &stubService{payloads: make(chan string, 64)}
	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.calls.Add(1)
		body, _ := io.ReadAll(r.Body)
		payload := extractStubPayload(string(body))
		s.payloads <- payload
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(respond(payload)))
	}))
	t.Cleanup(s.srv.Close)
	return s
}

// extractStubPayload pulls the image_url value out of a chat request body
// without depending on the client's own request types.
func extractStubPayload(body string) string {
	const marker = `"url":"`
	i := strings.Index(body, marker)
	if i < 0 {
		return ""
	}
	rest := body[i+len(marker):]
	if j := strings.IndexByte(rest, '"'); j >= 0 {
		return rest[:j]
	}
	return rest
}

// choicesResponse wraps text in the canonical chat-completions shape.
func choicesResponse(text string) string {
	return `{"choices":[{"message":{"content":` + quoteJSON(text) + `}}]}`
}

func quoteJSON(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writeFile: %v", err)
	}
}

func testOptions(url string) Options {
	return Options{
		EndpointURL: url,
		Model:       "test-model",
		Prompt:      "Describe this picture.",
		MaxTokens:   64,
	}
}
