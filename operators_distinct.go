package sourcechain

// Distinct passes through only items whose key (as produced by keyFn)
// has not been seen before on this stream, grounded on the source
// material's dedupe.go minus its TTL-based eviction — the spec carries
// no timing-capable extension here, so "seen" means "seen this run."
func Distinct[T any, K comparable](parent *Source[T], label string, keyFn func(T) K) *Source[T] {
	seen := make(map[K]struct{})
	return attach(parent, label, func(item T, child *Source[T]) {
		k := keyFn(item)
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		_ = child.Emit(item)
	})
}

// DistinctUntilChanged passes through an item only when its key differs
// from the immediately preceding item's key, unlike Distinct's
// whole-stream memory.
func DistinctUntilChanged[T any, K comparable](parent *Source[T], label string, keyFn func(T) K) *Source[T] {
	var last K
	first := true
	return attach(parent, label, func(item T, child *Source[T]) {
		k := keyFn(item)
		if !first && k == last {
			return
		}
		first = false
		last = k
		_ = child.Emit(item)
	})
}
