package api

// maxChartPoints caps how many points a range query returns to the
// dashboard; longer ranges are thinned by uniform stride selection.
const maxChartPoints = 100

// Downsample reduces points to at most max entries by keeping every n-th
// element, always starting from the first. Original ordering is preserved.
func Downsample[T any](points []T, max int) []T {
	if max <= 0 || len(points) <= max {
		return points
	}

	// Ceiling division so the result never exceeds max.
	stride := (len(points) + max - 1) / max
	out := make([]T, 0, max)
	for i := 0; i < len(points); i += stride {
		out = append(out, points[i])
	}
	return out
}
