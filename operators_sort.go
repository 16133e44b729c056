package sourcechain

import "sort"

// SortBy buffers every item from parent and, once parent finishes,
// emits them in ascending order of less(a, b). Sorting is inherently a
// whole-stream operation, so nothing is emitted until parent completes.
func SortBy[T any](parent *Source[T], label string, less func(a, b T) bool) *Source[T] {
	var buf []T
	return attachBuffered(parent, label,
		func(item T, _ *Source[T]) { buf = append(buf, item) },
		func(child *Source[T]) { flushSorted(child, buf, less) },
	)
}

// RevSortBy is SortBy with the comparison inverted.
func RevSortBy[T any](parent *Source[T], label string, less func(a, b T) bool) *Source[T] {
	return SortBy(parent, label, func(a, b T) bool { return less(b, a) })
}

// NSortBy emits only the first n items of the ascending sort, the
// "top-n" shape without materializing a full sorted emission first.
func NSortBy[T any](parent *Source[T], label string, n int, less func(a, b T) bool) (*Source[T], error) {
	if err := validateArgs(struct {
		N int `validate:"gte=0"`
	}{N: n}); err != nil {
		return nil, err
	}
	var buf []T
	return attachBuffered(parent, label,
		func(item T, _ *Source[T]) { buf = append(buf, item) },
		func(child *Source[T]) {
			sort.SliceStable(buf, func(i, j int) bool { return less(buf[i], buf[j]) })
			if n < len(buf) {
				buf = buf[:n]
			}
			flushSorted(child, buf, nil)
		},
	), nil
}

// RevNSortBy is NSortBy with the comparison inverted.
func RevNSortBy[T any](parent *Source[T], label string, n int, less func(a, b T) bool) (*Source[T], error) {
	return NSortBy(parent, label, n, func(a, b T) bool { return less(b, a) })
}

// flushSorted sorts buf by less (skipping the sort if less is nil,
// meaning the caller already sorted it) and emits it in order, finishing
// the child once every item is delivered or emission fails partway.
func flushSorted[T any](child *Source[T], buf []T, less func(a, b T) bool) {
	if less != nil {
		sort.SliceStable(buf, func(i, j int) bool { return less(buf[i], buf[j]) })
	}
	for _, item := range buf {
		if err := child.Emit(item); err != nil {
			return
		}
	}
	_ = child.Finish()
}
