package sourcechain

// Skip discards the first n items emitted by parent, then passes
// through everything after.
func Skip[T any](parent *Source[T], label string, n int) (*Source[T], error) {
	if err := validateArgs(struct {
		N int `validate:"gte=0"`
	}{N: n}); err != nil {
		return nil, err
	}
	skipped := 0
	return attach(parent, label, func(item T, child *Source[T]) {
		if skipped < n {
			skipped++
			return
		}
		_ = child.Emit(item)
	}), nil
}

// Take passes through only the first n items emitted by parent, then
// finishes. Finishing the child triggers newChild's teardown hook, which
// removes it from parent's bookkeeping — parent sees one fewer child the
// moment Take is satisfied, same as any other early-finishing child.
// take(0) is a boundary case: the child is finished immediately at
// construction rather than waiting on the first (never-taken) item.
func Take[T any](parent *Source[T], label string, n int) (*Source[T], error) {
	if err := validateArgs(struct {
		N int `validate:"gte=0"`
	}{N: n}); err != nil {
		return nil, err
	}
	if n <= 0 {
		child := newChild[T, T](parent, label)
		_ = child.Finish()
		return child, nil
	}
	taken := 0
	return attach(parent, label, func(item T, child *Source[T]) {
		if taken >= n {
			return
		}
		taken++
		if err := child.Emit(item); err != nil {
			return
		}
		if taken >= n {
			_ = child.Finish()
		}
	}), nil
}

// SkipLast withholds the final n items: it buffers up to n items and
// only emits the oldest once the buffer would otherwise overflow, so the
// n items still in the buffer when parent finishes are the ones dropped.
func SkipLast[T any](parent *Source[T], label string, n int) *Source[T] {
	buf := make([]T, 0, n)
	return attach(parent, label, func(item T, out *Source[T]) {
		if n <= 0 {
			_ = out.Emit(item)
			return
		}
		buf = append(buf, item)
		if len(buf) > n {
			_ = out.Emit(buf[0])
			buf = buf[1:]
		}
	})
}
