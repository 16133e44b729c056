package sourcechain

import (
	"reflect"
	"regexp"
)

// Filter passes through only items for which predicate returns true;
// §4.D's general form, used directly for the "callable" matcher kind and
// underneath the other Filter* helpers below for the rest.
func Filter[T any](parent *Source[T], label string, predicate func(T) bool) *Source[T] {
	return attach(parent, label, func(item T, child *Source[T]) {
		if predicate(item) {
			_ = child.Emit(item)
		}
	})
}

// FilterEqual passes through only items equal to want — the "equality"
// matcher kind.
func FilterEqual[T comparable](parent *Source[T], label string, want T) *Source[T] {
	return Filter(parent, label, func(item T) bool { return item == want })
}

// FilterStructural passes through only items deeply equal to want,
// covering matcher kinds equality can't (slices, maps, structs without a
// comparable constraint).
func FilterStructural[T any](parent *Source[T], label string, want T) *Source[T] {
	return Filter(parent, label, func(item T) bool { return reflect.DeepEqual(item, want) })
}

// FilterRegex passes through only strings matching pattern — the
// "regex" matcher kind. No ecosystem regex library appears anywhere in
// the retrieved pack, so this sits directly on the standard library's
// regexp (see DESIGN.md).
func FilterRegex(parent *Source[string], label, pattern string) (*Source[string], error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return Filter(parent, label, re.MatchString), nil
}
