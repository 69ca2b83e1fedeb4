package enrich

// engine.go — deduplicating enrichment engine and pipeline entry points.
//
// The engine scans the input once, calls the description service at most
// once per unique normalized payload, then rebuilds the output in a single
// pass from the original span list. Rebuilding from the immutable spans
// sidesteps the offset-invalidation hazard of mutating the text between
// substitutions.

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
)

// Enrich replaces every embedded data-URI image in markdown with a textual
// description. Alt text and titles are preserved byte-for-byte; only the
// target between the parentheses is substituted. Identical images (modulo
// base64 line wrapping) are described once and share the result. An input
// with no embedded images is returned unchanged without any remote call.
//
// Enrich never fails: an unexpected panic inside the pass falls back to
// returning the input untouched.
func (c *Client) Enrich(ctx context.Context, markdown string, opts Options) (out string) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("enrichment pass failed, returning original text", "panic", r)
			out = markdown
		}
	}()

	occs := Scan(markdown)
	if len(occs) == 0 {
		return markdown
	}

	descriptions := c.describeUnique(ctx, occs, opts)

	var sb strings.Builder
	sb.Grow(len(markdown))
	last := 0
	for _, occ := range occs {
		sb.WriteString(markdown[last:occ.URLStart])
		sb.WriteString(descriptions[occ.Normalized])
		last = occ.URLEnd
	}
	sb.WriteString(markdown[last:])
	return sb.String()
}

// EnrichFile reads the Markdown file at path and enriches its contents.
func (c *Client) EnrichFile(ctx context.Context, path string, opts Options) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("markdown file not found: %s", path)
		}
		return "", fmt.Errorf("read markdown file: %w", err)
	}
	return c.Enrich(ctx, string(data), opts), nil
}

// describeUnique resolves one description per unique normalized payload.
// The cache lives only for this invocation. With Workers > 1 the calls run
// under a bounded pool; results are keyed by payload, so completion order
// never affects the substitution pass.
func (c *Client) describeUnique(ctx context.Context, occs []ImageOccurrence, opts Options) map[string]string {
	unique := make([]ImageOccurrence, 0, len(occs))
	seen := make(map[string]bool, len(occs))
	for _, occ := range occs {
		if !seen[occ.Normalized] {
			seen[occ.Normalized] = true
			unique = append(unique, occ)
		}
	}

	results := make(map[string]string, len(unique))

	if opts.Workers <= 1 {
		for _, occ := range unique {
			results[occ.Normalized] = c.Describe(ctx, occ.Normalized, opts)
		}
		return results
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, opts.Workers)
	)
	for _, occ := range unique {
		wg.Add(1)
		sem <- struct{}{}
		go func(occ ImageOccurrence) {
			defer wg.Done()
			defer func() { <-sem }()
			desc := c.Describe(ctx, occ.Normalized, opts)
			mu.Lock()
			results[occ.Normalized] = desc
			mu.Unlock()
		}(occ)
	}
	wg.Wait()
	return results
}
