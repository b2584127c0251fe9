package styles

import (
	"bytes"
	"encoding/xml"
)

const (
	// MaxLabelChars bounds node title labels before truncation.
	MaxLabelChars = 24

	fontHeightRatio = 0.6
	fontWidthRatio  = 0.85
	fontCharWidth   = 0.55
	fontSizeMin     = 8.0
	fontSizeMax     = 16.0
)

// Truncate shortens s to at most maxLen characters. Strings over the limit
// keep their first maxLen-3 characters followed by "...". A maxLen below 4
// is treated as 4 so the ellipsis never swallows the whole label.
func Truncate(s string, maxLen int) string {
	if maxLen < 4 {
		maxLen = 4
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

// FontSizeFor picks a font size that fits textLen characters into the given
// box, clamped to the readable range.
func FontSizeFor(availWidth, availHeight float64, textLen int) float64 {
	n := max(1, textLen)
	byHeight := availHeight * fontHeightRatio
	byWidth := (availWidth * fontWidthRatio) / (float64(n) * fontCharWidth)
	return max(fontSizeMin, min(fontSizeMax, min(byHeight, byWidth)))
}

// EscapeXML escapes s for embedding in SVG text content and attributes.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
