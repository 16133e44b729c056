package sourcechain

// Count emits the total number of items parent produced, once parent
// finishes.
func Count[T any](parent *Source[T], label string) *Source[int] {
	n := 0
	return attachBuffered(parent, label,
		func(_ T, _ *Source[int]) { n++ },
		func(child *Source[int]) {
			if err := child.Emit(n); err == nil {
				_ = child.Finish()
			}
		},
	)
}

// Sum emits the running total of numeric items, once parent finishes.
func Sum[T int | int64 | float64](parent *Source[T], label string) *Source[T] {
	var total T
	return attachBuffered(parent, label,
		func(item T, _ *Source[T]) { total += item },
		func(child *Source[T]) {
			if err := child.Emit(total); err == nil {
				_ = child.Finish()
			}
		},
	)
}

// Mean emits the arithmetic mean of every item seen, once parent
// finishes. On an empty stream it emits 0.
func Mean[T int | int64 | float64](parent *Source[T], label string) *Source[float64] {
	var total float64
	count := 0
	return attachBuffered(parent, label,
		func(item T, _ *Source[float64]) {
			total += float64(item)
			count++
		},
		func(child *Source[float64]) {
			mean := 0.0
			if count > 0 {
				mean = total / float64(count)
			}
			if err := child.Emit(mean); err == nil {
				_ = child.Finish()
			}
		},
	)
}

// Min emits the smallest item seen, once parent finishes. On an empty
// stream it finishes without emitting.
func Min[T int | int64 | float64](parent *Source[T], label string) *Source[T] {
	return extremum(parent, label, func(a, b T) bool { return a < b })
}

// Max emits the largest item seen, once parent finishes.
func Max[T int | int64 | float64](parent *Source[T], label string) *Source[T] {
	return extremum(parent, label, func(a, b T) bool { return a > b })
}

func extremum[T int | int64 | float64](parent *Source[T], label string, better func(a, b T) bool) *Source[T] {
	var best T
	seen := false
	return attachBuffered(parent, label,
		func(item T, _ *Source[T]) {
			if !seen || better(item, best) {
				best = item
				seen = true
			}
		},
		func(child *Source[T]) {
			if seen {
				if err := child.Emit(best); err != nil {
					return
				}
			}
			_ = child.Finish()
		},
	)
}

// Statistics bundles count, sum, mean, min, and max of a numeric stream
// into a single value emitted once parent finishes.
type Statistics[T int | int64 | float64] struct {
	Count int
	Sum   T
	Mean  float64
	Min   T
	Max   T
}

func ComputeStatistics[T int | int64 | float64](parent *Source[T], label string) *Source[Statistics[T]] {
	var stats Statistics[T]
	seen := false
	return attachBuffered(parent, label,
		func(item T, _ *Source[Statistics[T]]) {
			stats.Count++
			stats.Sum += item
			if !seen || item < stats.Min {
				stats.Min = item
			}
			if !seen || item > stats.Max {
				stats.Max = item
			}
			seen = true
		},
		func(child *Source[Statistics[T]]) {
			if stats.Count > 0 {
				stats.Mean = float64(stats.Sum) / float64(stats.Count)
			}
			if err := child.Emit(stats); err == nil {
				_ = child.Finish()
			}
		},
	)
}
