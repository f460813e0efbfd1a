package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectPDF(t *testing.T) {
	assert.True(t, DetectPDF([]byte("%PDF-1.4\nrest of file")))
	assert.False(t, DetectPDF([]byte("<html>")))
	assert.False(t, DetectPDF([]byte(" %PDF-1.4")))
	assert.False(t, DetectPDF(nil))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "Design Patterns", SanitizeFilename("Design Patterns"))
	assert.Equal(t, `say \"hi\"`, SanitizeFilename(`say "hi"`))
	assert.Equal(t, `a\\b`, SanitizeFilename(`a\b`))
	assert.Equal(t, "oneline", SanitizeFilename("one\r\nline"))
}
