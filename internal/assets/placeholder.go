package assets

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"html"
	"strings"
)

// PlaceholderContentType is the media type of Placeholder output.
const PlaceholderContentType = "image/svg+xml"

// Placeholder dimensions match the project card image slot.
const (
	PlaceholderWidth  = 400
	PlaceholderHeight = 225
)

const (
	maxLineRunes = 24
	maxLines     = 3
)

var palette = []string{
	"#2563eb", "#7c3aed", "#db2777", "#ea580c",
	"#16a34a", "#0891b2", "#4f46e5", "#b45309",
}

// Placeholder renders a solid-colour image with the title written on it.
// The colour is derived from the title so a project keeps the same one.
func Placeholder(title string) []byte {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "Project"
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(title))
	fill := palette[h.Sum32()%uint32(len(palette))]

	lines := wrap(title, maxLineRunes, maxLines)
	const lineHeight = 32
	firstY := PlaceholderHeight/2 - (len(lines)-1)*lineHeight/2

	var b bytes.Buffer
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		PlaceholderWidth, PlaceholderHeight, PlaceholderWidth, PlaceholderHeight)
	fmt.Fprintf(&b, `<rect width="100%%" height="100%%" fill="%s"/>`, fill)
	b.WriteString(`<text x="50%" text-anchor="middle" dominant-baseline="middle" font-family="sans-serif" font-size="24" font-weight="bold" fill="#ffffff">`)
	for i, line := range lines {
		fmt.Fprintf(&b, `<tspan x="50%%" y="%d">%s</tspan>`, firstY+i*lineHeight, html.EscapeString(line))
	}
	b.WriteString(`</text></svg>`)
	return b.Bytes()
}

// wrap splits s on spaces into at most maxLines lines of roughly width runes.
// Overflow is cut with an ellipsis.
func wrap(s string, width, maxLines int) []string {
	var lines []string
	var cur []rune
	for _, word := range strings.Fields(s) {
		w := []rune(word)
		switch {
		case len(cur) == 0:
			cur = w
		case len(cur)+1+len(w) <= width:
			cur = append(append(cur, ' '), w...)
		default:
			lines = append(lines, string(cur))
			cur = w
		}
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}
	for i, l := range lines {
		if r := []rune(l); len(r) > width {
			lines[i] = string(r[:width-1]) + "…"
		}
	}
	if len(lines) > maxLines {
		lines = lines[:maxLines]
		last := []rune(lines[maxLines-1])
		if len(last) >= width {
			last = last[:width-1]
		}
		lines[maxLines-1] = string(last) + "…"
	}
	return lines
}
