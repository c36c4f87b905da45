package repo

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// paginate returns the window of items selected by offset and limit.
// A nil or non-positive limit means no upper bound.
func paginate[T any](items []T, offset, limit *int) []T {
	start := 0
	if offset != nil {
		start = clamp(*offset, 0, len(items))
	}

	end := len(items)
	if limit != nil && *limit > 0 {
		end = clamp(start+*limit, start, len(items))
	}

	return items[start:end]
}
