package converter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

// nativeExts are all formats handled entirely in Go.
var nativeExts = map[string]bool{
	".html": true,
	".htm":  true,
	".csv":  true,
	".json": true,
	".xml":  true,
	".txt":  true,
	".md":   true,
	".docx": true,
	".xlsx": true,
	".xls":  true,
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// formatConverter converts raw file bytes and URLs using pure Go libraries.
type formatConverter struct {
	htmlConverter *md.Converter
}

func newFormatConverter() *formatConverter {
	return &formatConverter{
		htmlConverter: md.NewConverter("", true, nil),
	}
}

// CanConvert returns true when the file extension is handled natively.
func (c *formatConverter) CanConvert(filename string) bool {
	return nativeExts[strings.ToLower(filepath.Ext(filename))]
}

// SupportedFormats returns supported extensions without the leading dot.
func (c *formatConverter) SupportedFormats() []string {
	out := make([]string, 0, len(nativeExts))
	for ext := range nativeExts {
		out = append(out, strings.TrimPrefix(ext, "."))
	}
	return out
}

// Convert turns raw file bytes into Markdown. The filename supplies the
// extension used for format dispatch.
func (c *formatConverter) Convert(filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".html", ".htm":
		return c.convertHTML(string(data))
	case ".csv":
		return convertCSV(data)
	case ".json":
		return convertJSON(data)
	case ".xml":
		return convertXML(string(data))
	case ".txt", ".md":
		return string(data), nil
	case ".docx":
		return convertDOCX(data)
	case ".xlsx", ".xls":
		return convertXLSX(data)
	case ".pdf":
		return convertPDF(data)
	case ".png", ".jpg", ".jpeg":
		return convertImage(data, ext)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// ConvertURL fetches an HTTP/HTTPS URL and converts the response body to Markdown.
func (c *formatConverter) ConvertURL(url string) (string, error) {
	resp, err := http.Get(url) //nolint:noctx
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("HTTP %d fetching %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	ct := resp.Header.Get("Content-Type")
	if strings.Contains(ct, "text/html") || ct == "" {
		return c.convertHTML(string(body))
	}
	// Plain text / markdown served over HTTP
	return string(body), nil
}

// --- format converters -------------------------------------------------------

func (c *formatConverter) convertHTML(html string) (string, error) {
	result, err := c.htmlConverter.ConvertString(html)
	if err != nil {
		return fmt.Sprintf("```html\n%s\n```", html), nil
	}
	return result, nil
}

func convertCSV(data []byte) (string, error) {
	r := csv.NewReader(strings.NewReader(string(data)))
	records, err := r.ReadAll()
	if err != nil {
		return fmt.Sprintf("```csv\n%s\n```", string(data)), nil
	}
	if len(records) == 0 {
		return "", nil
	}
	return renderMarkdownTable(records), nil
}

func convertJSON(data []byte) (string, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Sprintf("```json\n%s\n```", string(data)), nil
	}
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("```json\n%s\n```", string(data)), nil
	}
	return fmt.Sprintf("```json\n%s\n```", string(pretty)), nil
}

func convertXML(xml string) (string, error) {
	return fmt.Sprintf("```xml\n%s\n```", xml), nil
}
