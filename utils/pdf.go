package utils

import (
	"bytes"
	"strings"
)

var pdfMagic = []byte("%PDF-")

// DetectPDF reports whether head starts with the PDF magic bytes. A
// 512-byte prefix is more than enough.
func DetectPDF(head []byte) bool {
	return bytes.HasPrefix(head, pdfMagic)
}

// SanitizeFilename makes name usable inside a quoted Content-Disposition
// filename: backslashes and quotes are escaped, CR/LF stripped.
func SanitizeFilename(name string) string {
	name = strings.NewReplacer("\r", "", "\n", "").Replace(name)
	name = strings.ReplaceAll(name, "\\", "\\\\")
	return strings.ReplaceAll(name, "\"", "\\\"")
}
