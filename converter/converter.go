package converter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/JacobLanIsMe/markitdown-service/config"
)

// ErrUnsupportedFormat marks inputs whose extension has no converter. The
// HTTP layer maps it to 415.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Converter routes all conversions through the native Go backend.
// Uploads arrive as streams, so the primary entry point is Convert;
// ConvertFile and ConvertURI wrap it for local paths and URIs.
type Converter struct {
	native *formatConverter
	cfg    *config.Config
}

// NewConverter creates a Converter using environment-driven config.
func NewConverter() *Converter {
	return NewConverterWithConfig(config.Load())
}

// NewConverterWithConfig creates a Converter with an explicit config,
// letting callers share one loaded Config across components.
func NewConverterWithConfig(cfg *config.Config) *Converter {
	return &Converter{
		native: newFormatConverter(),
		cfg:    cfg,
	}
}

// Convert reads the stream and converts it to Markdown. The filename is
// only used for format detection; it need not exist on disk. Streams
// larger than the configured limit are rejected.
func (c *Converter) Convert(_ context.Context, filename string, r io.Reader) (string, error) {
	if !c.native.CanConvert(filename) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(filename))
	}
	data, err := io.ReadAll(io.LimitReader(r, c.cfg.MaxFileSizeBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > c.cfg.MaxFileSizeBytes {
		return "", fmt.Errorf("file too large: over %d bytes", c.cfg.MaxFileSizeBytes)
	}
	return c.native.Convert(filename, data)
}

// ConvertFile converts a local file path to Markdown.
func (c *Converter) ConvertFile(ctx context.Context, filePath string) (string, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return "", fmt.Errorf("file not found: %s", filePath)
	}
	if info.Size() > c.cfg.MaxFileSizeBytes {
		return "", fmt.Errorf("file too large: %d bytes (max %d)", info.Size(), c.cfg.MaxFileSizeBytes)
	}
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", filePath, err)
	}
	defer func() { _ = f.Close() }()
	return c.Convert(ctx, filePath, f)
}

// ConvertURI converts a URI to Markdown.
// Supported schemes: file://, http://, https://
func (c *Converter) ConvertURI(ctx context.Context, uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("invalid URI: %s", uri)
	}

	switch u.Scheme {
	case "file":
		return c.ConvertFile(ctx, u.Path)
	case "http", "https":
		return c.native.ConvertURL(uri)
	default:
		return "", fmt.Errorf("unsupported URI scheme: %q (expected file, http, or https)", u.Scheme)
	}
}

// GetConversionInfo returns a Markdown summary of supported formats and config.
func (c *Converter) GetConversionInfo(_ context.Context) string {
	fmts := c.native.SupportedFormats()
	sort.Strings(fmts)

	return fmt.Sprintf(`# MarkItDown Conversion Info

## Supported Formats (native Go)
%s

## Configuration
- Max file size: %d MB`,
		"- "+strings.Join(fmts, "\n- "),
		c.cfg.MaxFileSizeMB(),
	)
}
