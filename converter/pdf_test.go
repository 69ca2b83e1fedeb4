package converter

import (
	"testing"
)

func TestConvertPDF_BasicText(t *testing.T) {
	out, err := convertPDF(makePDF(t, "Hello PDF"))
	assertNoErr(t, err)
	assertContains(t, out, "Hello PDF")
}

func TestConvertPDF_NotAPDF(t *testing.T) {
	_, err := convertPDF([]byte("this is not a PDF"))
	assertErr(t, err)
}

func TestConvertPDF_Empty(t *testing.T) {
	_, err := convertPDF(nil)
	assertErr(t, err)
}
