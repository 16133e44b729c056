package sourcechain

// Some emits true once any item satisfies predicate (finishing early,
// short-circuiting the remaining input the way a boolean "any" should),
// or false once parent finishes having never satisfied it.
func Some[T any](parent *Source[T], label string, predicate func(T) bool) *Source[bool] {
	return attachBuffered(parent, label,
		func(item T, child *Source[bool]) {
			if predicate(item) {
				if err := child.Emit(true); err == nil {
					_ = child.Finish()
				}
			}
		},
		func(child *Source[bool]) {
			if err := child.Emit(false); err == nil {
				_ = child.Finish()
			}
		},
	)
}

// Every emits false the moment any item fails predicate (short-circuit),
// or true once parent finishes having never failed it.
func Every[T any](parent *Source[T], label string, predicate func(T) bool) *Source[bool] {
	return attachBuffered(parent, label,
		func(item T, child *Source[bool]) {
			if !predicate(item) {
				if err := child.Emit(false); err == nil {
					_ = child.Finish()
				}
			}
		},
		func(child *Source[bool]) {
			if err := child.Emit(true); err == nil {
				_ = child.Finish()
			}
		},
	)
}
