package tui

import (
	"fmt"
	"strings"

	"tradmin/internal/listctl"
)

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}

func pad(s string, n int) string {
	s = truncate(s, n)
	if len(s) < n {
		return s + strings.Repeat(" ", n-len(s))
	}
	return s
}

var pageSizes = []int{5, 10, 20, 50}

// nextPageSize cycles 5 → 10 → 20 → 50 → 5.
func nextPageSize(cur int) int {
	for i, s := range pageSizes {
		if s == cur {
			return pageSizes[(i+1)%len(pageSizes)]
		}
	}
	return pageSizes[0]
}

// renderPager draws the windowed pager: " 1 … 4 [5] 6 … 20 ".
func renderPager(st uiStyles, page int, numbers []int) string {
	if len(numbers) == 0 {
		return ""
	}
	parts := make([]string, 0, len(numbers))
	for _, n := range numbers {
		switch {
		case n == listctl.Ellipsis:
			parts = append(parts, st.pager.Render("…"))
		case n == page:
			parts = append(parts, st.pagerCur.Render(fmt.Sprintf("[%d]", n+1)))
		default:
			parts = append(parts, st.pager.Render(fmt.Sprintf("%d", n+1)))
		}
	}
	return strings.Join(parts, " ")
}

func sortMarker(s listctl.SortDir) string {
	if s == listctl.SortAsc {
		return "▲"
	}
	return "▼"
}
