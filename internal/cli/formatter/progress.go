package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderBand renders a word count against its [lo, hi] band as a bar like
// [██████░░] 4210 (4000–5500). The bar fills proportionally to hi and is
// green inside the band, yellow below it and red above it.
func RenderBand(words, lo, hi, width int) string {
	if width < 2 {
		width = 2
	}
	pct := 0.0
	if hi > 0 {
		pct = float64(words) / float64(hi)
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}

	filled := int(pct * float64(width))
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	switch {
	case words < lo:
		style = StyleYellow
	case words > hi:
		style = StyleRed
	}

	return fmt.Sprintf("[%s] %s %s", style.Render(bar), style.Render(fmt.Sprint(words)), Dim(fmt.Sprintf("(%d–%d)", lo, hi)))
}
