package export

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/san-kum/artplum/internal/plum"
)

// SVG renders segments as a single path in logical units. Pruned segments
// are drawn too; they were stroked on the surface as well.
func SVG(segments []plum.Segment, width, height float64, stroke color.NRGBA, lineWidth float64) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%g" height="%g" viewBox="0 0 %g %g">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, hex(Background)))

	if len(segments) == 0 {
		sb.WriteString("</svg>\n")
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-opacity="%.3f" stroke-width="%g" stroke-linecap="butt" d="`,
		hex(stroke), float64(stroke.A)/255, lineWidth))
	for i, seg := range segments {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(fmt.Sprintf("M%.2f,%.2f L%.2f,%.2f", seg.From.X, seg.From.Y, seg.To.X, seg.To.Y))
	}
	sb.WriteString("\"/>\n</svg>\n")
	return sb.String()
}

func hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
