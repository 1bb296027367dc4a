package render

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/masonry/pkg/grid"
)

const (
	cardInset     = 4.0
	cardRadius    = 6.0
	fontSizeMin   = 8.0
	fontSizeMax   = 16.0
	fontCharWidth = 0.55
)

// Card fills cycle by column so neighbouring columns are distinguishable.
var palette = []string{"#f4a261", "#2a9d8f", "#e9c46a", "#8ab17d", "#e76f51", "#83c5be"}

// RenderSVG draws the layout as an SVG document.
func RenderSVG(s *grid.State, opts ...Option) []byte {
	r := newRenderer(opts...)

	view := grid.Rect{Width: s.Width(), Height: s.ContentHeight()}
	if r.viewport != nil {
		view = *r.viewport
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		view.X, view.Y, view.Width, view.Height, view.Width, view.Height)
	fmt.Fprintf(&buf, `  <rect class="background" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#fafafa"/>`+"\n",
		view.X, view.Y, view.Width, view.Height)

	for _, p := range r.placements(s) {
		renderCard(&buf, &r, p)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderCard(buf *bytes.Buffer, r *renderer, p grid.Placement) {
	f := p.Frame
	w := max(0, f.Width-2*cardInset)
	h := max(0, f.Height-2*cardInset)

	fmt.Fprintf(buf, `  <rect id="item-%s" class="card" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.0f" fill="%s"/>`+"\n",
		escapeXML(r.id(p.Index)), f.X+cardInset, f.Y+cardInset, w, h, cardRadius, palette[p.Column%len(palette)])

	if !r.labels || h < fontSizeMin {
		return
	}
	label := r.label(p.Index)
	size := fontSize(w, h, len(label))
	fmt.Fprintf(buf, `  <text class="label" x="%.1f" y="%.1f" font-family="sans-serif" font-size="%.1f" text-anchor="middle" dominant-baseline="middle">%s</text>`+"\n",
		f.X+f.Width/2, f.Y+f.Height/2, size, escapeXML(truncate(label, w, size)))
}

func fontSize(availWidth, availHeight float64, textLen int) float64 {
	n := max(1, textLen)
	byHeight := availHeight * 0.6
	byWidth := availWidth * 0.85 / (float64(n) * fontCharWidth)
	return max(fontSizeMin, min(fontSizeMax, byHeight, byWidth))
}

func truncate(label string, width, size float64) string {
	maxChars := max(3, int(width*0.85/(size*fontCharWidth)))
	runes := []rune(label)
	if len(runes) <= maxChars {
		return label
	}
	return string(runes[:maxChars-2]) + ".."
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
