package formatter

import (
	"fmt"
	"strings"
)

// RenderPagination renders a one-line page strip such as "‹ 1 [2] 3 ›".
// A zero-page result renders a dim empty-state note instead of erroring.
func RenderPagination(current, total int) string {
	if total <= 0 {
		return StyleDim.Render("no pages")
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	var parts []string
	if current > 1 {
		parts = append(parts, StyleDim.Render("‹"))
	}

	// Window of up to five page numbers centered on the current page.
	lo, hi := current-2, current+2
	if lo < 1 {
		hi += 1 - lo
		lo = 1
	}
	if hi > total {
		lo -= hi - total
		hi = total
	}
	if lo < 1 {
		lo = 1
	}

	for p := lo; p <= hi; p++ {
		if p == current {
			parts = append(parts, StyleHeader.Render(fmt.Sprintf("[%d]", p)))
		} else {
			parts = append(parts, StyleFg.Render(fmt.Sprintf("%d", p)))
		}
	}

	if current < total {
		parts = append(parts, StyleDim.Render("›"))
	}

	return strings.Join(parts, " ")
}
