package converter

// image.go — image file → Markdown.
//
// An uploaded image becomes an embedded data-URI reference so the
// downstream enrichment pass can replace it with a description. When the
// "tesseract" binary is on PATH its OCR text is appended as a fallback for
// deployments without a description service. lookPath is a package var so
// tests can simulate a missing binary.

import (
	"encoding/base64"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// lookPath is the exec.LookPath implementation used by ocrAvailable.
var lookPath = exec.LookPath

// imageMIMETypes maps supported extensions to data-URI media types.
var imageMIMETypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

// convertImage renders image bytes as an embedded Markdown image reference,
// with OCR text appended when Tesseract is installed.
func convertImage(data []byte, ext string) (string, error) {
	mime, ok := imageMIMETypes[strings.ToLower(ext)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	var sb strings.Builder
	sb.WriteString("![](data:")
	sb.WriteString(mime)
	sb.WriteString(";base64,")
	sb.WriteString(base64.StdEncoding.EncodeToString(data))
	sb.WriteString(")")

	if ocrAvailable() {
		if text, err := ocrImageData(data, ext); err == nil && text != "" {
			sb.WriteString("\n\n")
			sb.WriteString(text)
		}
	}
	return sb.String(), nil
}

// ocrAvailable returns true when the "tesseract" binary is on PATH.
func ocrAvailable() bool {
	_, err := lookPath("tesseract")
	return err == nil
}

// ocrImageData runs Tesseract on raw image bytes. The suffix is the file
// extension (e.g. ".png") used when naming the temp file so Tesseract can
// detect the image format. If Tesseract is absent it returns ("", nil).
func ocrImageData(data []byte, suffix string) (string, error) {
	if !ocrAvailable() {
		return "", nil
	}

	tmp, err := os.CreateTemp("", "markitdown-ocr-*"+suffix)
	if err != nil {
		return "", fmt.Errorf("create temp file for OCR: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write temp file for OCR: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file for OCR: %w", err)
	}

	out, err := exec.Command("tesseract", tmpPath, "stdout").Output()
	if err != nil {
		return "", fmt.Errorf("tesseract: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}
