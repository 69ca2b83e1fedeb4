package enrich

// scan.go — embedded-image reference scanner.
//
// Finds every `![alt](target ["title"]?)` reference whose target is an
// inline data URI. Converters that wrap base64 payloads across lines are
// common, so the parenthesized content may span multiple lines; the base64
// segment is whitespace-normalized to build a stable deduplication key.

import (
	"regexp"
	"strings"
	"unicode"
)

// imageRefRE matches a Markdown image reference. The character classes
// match newlines, so wrapped base64 payloads inside the parentheses are
// captured in full. Nested brackets or parentheses do not match and the
// reference is left untouched.
var imageRefRE = regexp.MustCompile(`!\[([^\]\[]*)\]\(([^()]*)\)`)

// base64Marker separates the data-URI media-type prefix from the payload.
const base64Marker = "base64,"

// dataImagePrefix is the target prefix that marks an embedded image.
const dataImagePrefix = "data:image/"

// ImageOccurrence is one embedded-image reference found in Markdown text.
// Spans are byte offsets into the original text and are only valid against
// the unmodified snapshot the scan ran over.
type ImageOccurrence struct {
	Alt        string // alt text between the square brackets
	RawPayload string // exact target substring, trailing title excluded
	Normalized string // RawPayload with whitespace stripped from the base64 segment
	Start      int    // byte offset of the leading '!'
	End        int    // byte offset just past the closing ')'
	URLStart   int    // byte span of the target inside [Start, End)
	URLEnd     int
	Title      string // quoted title segment including quotes, "" when absent
}

// Scan returns every embedded-image reference in markdown, in order of
// appearance. References whose target is not a data:image/ URI are skipped.
func Scan(markdown string) []ImageOccurrence {
	matches := imageRefRE.FindAllStringSubmatchIndex(markdown, -1)
	if matches == nil {
		return nil
	}

	occs := make([]ImageOccurrence, 0, len(matches))
	for _, m := range matches {
		innerStart, innerEnd := m[4], m[5]
		inner := markdown[innerStart:innerEnd]

		urlStart, urlEnd, title := splitTarget(inner)
		raw := inner[urlStart:urlEnd]
		if !strings.HasPrefix(raw, dataImagePrefix) {
			continue
		}

		occs = append(occs, ImageOccurrence{
			Alt:        markdown[m[2]:m[3]],
			RawPayload: raw,
			Normalized: normalizePayload(raw),
			Start:      m[0],
			End:        m[1],
			URLStart:   innerStart + urlStart,
			URLEnd:     innerStart + urlEnd,
			Title:      title,
		})
	}
	return occs
}

// splitTarget splits parenthesized content into the target span and an
// optional trailing quoted title. The title is the whitespace-separated
// quoted segment (single or double quotes) at the very end; everything
// before it is the target. Offsets are relative to inner.
func splitTarget(inner string) (urlStart, urlEnd int, title string) {
	urlStart = len(inner) - len(strings.TrimLeftFunc(inner, unicode.IsSpace))
	trimmed := strings.TrimRightFunc(inner, unicode.IsSpace)
	urlEnd = len(trimmed)
	if urlEnd <= urlStart {
		return urlStart, urlStart, ""
	}

	q := trimmed[urlEnd-1]
	if q != '"' && q != '\'' {
		return urlStart, urlEnd, ""
	}
	open := strings.LastIndexByte(trimmed[:urlEnd-1], q)
	if open <= urlStart || !unicode.IsSpace(rune(trimmed[open-1])) {
		// No opening quote, or nothing before it that could be a target.
		return urlStart, urlEnd, ""
	}
	target := strings.TrimRightFunc(trimmed[:open], unicode.IsSpace)
	if len(target) <= urlStart {
		return urlStart, urlEnd, ""
	}
	return urlStart, len(target), trimmed[open:urlEnd]
}

// normalizePayload removes whitespace from the base64 segment of a data URI
// so that line-wrapped copies of the same image share one cache key. The
// media-type prefix is preserved unchanged. A data URI without a base64
// marker is returned as-is.
func normalizePayload(raw string) string {
	i := strings.Index(raw, base64Marker)
	if i < 0 {
		return raw
	}
	body := raw[i+len(base64Marker):]
	if !strings.ContainsFunc(body, unicode.IsSpace) {
		return raw
	}
	var sb strings.Builder
	sb.Grow(len(raw))
	sb.WriteString(raw[:i+len(base64Marker)])
	for _, r := range body {
		if !unicode.IsSpace(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
