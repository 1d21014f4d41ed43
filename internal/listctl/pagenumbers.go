package listctl

// Ellipsis marks a gap in a page-number plan.
const Ellipsis = -1

// PageNumbers derives the compact pager for (page, totalPages): at most five
// literal page indices plus up to two ellipsis markers. The first and last
// page always appear when the plan is truncated, and a contiguous window
// always surrounds the current page.
func PageNumbers(page, totalPages int) []int {
	const maxVisible = 5

	if totalPages <= 0 {
		return nil
	}
	if totalPages <= maxVisible {
		out := make([]int, totalPages)
		for i := range out {
			out[i] = i
		}
		return out
	}

	out := []int{0}
	switch {
	case page <= 2:
		// Near the start
		for i := 1; i <= 4; i++ {
			out = append(out, i)
		}
		out = append(out, Ellipsis, totalPages-1)
	case page >= totalPages-3:
		// Near the end
		out = append(out, Ellipsis)
		for i := totalPages - 4; i < totalPages; i++ {
			out = append(out, i)
		}
	default:
		// In the middle
		out = append(out, Ellipsis, page-1, page, page+1, Ellipsis, totalPages-1)
	}
	return out
}
