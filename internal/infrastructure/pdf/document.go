// Package pdf turns final contract HTML into PDF bytes with a headless
// Chromium driven by go-rod.
package pdf

import (
	"html"
	"strings"
)

const printStyle = `@page { size: A4; margin: 20mm 18mm; }
body { font-family: "Times New Roman", serif; font-size: 12pt; line-height: 1.5; color: #000; }
table { border-collapse: collapse; width: 100%; page-break-inside: avoid; }
td, th { border: 1px solid #444; padding: 4px 6px; vertical-align: top; }
h1, h2, h3 { page-break-after: avoid; }`

// Document wraps a contract fragment into a self-contained HTML page with
// inline print styles. Full documents are returned unchanged.
func Document(title, body string) string {
	trimmed := strings.TrimSpace(body)
	lower := strings.ToLower(trimmed)
	if strings.HasPrefix(lower, "<!doctype") || strings.HasPrefix(lower, "<html") {
		return body
	}

	var b strings.Builder
	b.Grow(len(body) + len(printStyle) + 256)
	b.WriteString("<!DOCTYPE html>\n<html lang=\"pt-BR\">\n<head>\n<meta charset=\"utf-8\">\n<title>")
	b.WriteString(html.EscapeString(title))
	b.WriteString("</title>\n<style>\n")
	b.WriteString(printStyle)
	b.WriteString("\n</style>\n</head>\n<body>\n")
	b.WriteString(body)
	b.WriteString("\n</body>\n</html>\n")
	return b.String()
}
