package sourcechain

import "testing"

func TestMergeCombinesMultipleInputs(t *testing.T) {
	a := New[int]("a")
	b := New[int]("b")
	merged := Merge("merged", a, b)

	var got []int
	merged.Each(func(n int) { got = append(got, n) })

	_ = a.Emit(1)
	_ = b.Emit(2)
	_ = a.Emit(3)
	_ = a.Finish()
	_ = b.Finish()

	if len(got) != 3 {
		t.Fatalf("expected 3 merged items, got %v", got)
	}
	if !merged.IsDone() {
		t.Fatalf("expected merged to finish once both inputs finished, state=%v", merged.completed.State())
	}
}

func TestMergeFailsWhenAnyInputFails(t *testing.T) {
	a := New[int]("a")
	b := New[int]("b")
	merged := Merge("merged", a, b)

	_ = a.Fail(errAny, "boom")

	if !merged.IsFailed() {
		t.Fatalf("expected merged to fail when an input fails, state=%v", merged.completed.State())
	}
}

func TestFlatMapExpandsEachItem(t *testing.T) {
	root := New[int]("numbers")
	expanded := FlatMap(root, "repeat", func(n int) []int { return []int{n, n} })

	var got []int
	expanded.Each(func(n int) { got = append(got, n) })

	_ = root.Emit(1, 2)
	_ = root.Finish()

	if len(got) != 4 {
		t.Fatalf("expected 4 items, got %v", got)
	}
}

func TestCatchSplicesRecoverySourceOnFailure(t *testing.T) {
	root := New[int]("numbers")
	recovery := New[int]("recovery")
	recovered := Catch(root, "recover", func(f *Failure) *Source[int] {
		return recovery
	})

	var got []int
	recovered.Each(func(n int) { got = append(got, n) })

	_ = root.Emit(1, 2)
	_ = root.Fail(errAny, "boom")
	_ = recovery.Emit(-1, -2)
	_ = recovery.Finish()

	if len(got) != 4 || got[2] != -1 || got[3] != -2 {
		t.Fatalf("expected [1 2 -1 -2], got %v", got)
	}
	if !recovered.IsDone() {
		t.Fatalf("expected recovered source to inherit the recovery source's completion, state=%v", recovered.completed.State())
	}
}

func TestCatchPropagatesWhenNotRecovered(t *testing.T) {
	root := New[int]("numbers")
	passthrough := Catch(root, "no-recover", func(f *Failure) *Source[int] {
		return nil
	})

	_ = root.Fail(errAny, "boom")

	if !passthrough.IsFailed() {
		t.Fatalf("expected unrecovered catch to fail, state=%v", passthrough.completed.State())
	}
}

func TestCombineLatestEmitsOnceBothHaveValues(t *testing.T) {
	a := New[int]("a")
	b := New[string]("b")
	combined := CombineLatest(a, b, "combined", func(n int, s string) string {
		return s
	})

	var got []string
	combined.Each(func(s string) { got = append(got, s) })

	_ = a.Emit(1)
	if len(got) != 0 {
		t.Fatalf("expected no emission before b produces a value, got %v", got)
	}
	_ = b.Emit("x")
	if len(got) != 1 || got[0] != "x" {
		t.Fatalf("expected one emission once both have values, got %v", got)
	}
}

func TestCombineLatestFinishesWhenEitherInputFinishesFirst(t *testing.T) {
	a := New[int]("a")
	b := New[string]("b")
	combined := CombineLatest(a, b, "combined", func(n int, s string) string {
		return s
	})

	_ = a.Finish()

	if !combined.IsDone() {
		t.Fatalf("expected combined to finish once a finishes, regardless of b, state=%v", combined.completed.State())
	}
	if b.IsDone() {
		t.Fatalf("b should be untouched by a's completion")
	}
}

func TestSwitchStrEmitsMatchingCaseAndDropsUnmatched(t *testing.T) {
	root := New[string]("words")
	switched := SwitchStr(root, "switched", func(s string) string { return s },
		[]SwitchCase[string, int]{
			{Key: "one", Fn: func(string) int { return 1 }},
			{Key: "two", Fn: func(string) int { return 2 }},
		}, nil)

	var got []int
	switched.Each(func(n int) { got = append(got, n) })

	_ = root.Emit("one", "unknown", "two")
	_ = root.Finish()

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("expected [1 2] with the unmatched item silently dropped, got %v", got)
	}
}

func TestSwitchStrFallsBackToDefault(t *testing.T) {
	root := New[string]("words")
	switched := SwitchStr(root, "switched", func(s string) string { return s },
		[]SwitchCase[string, int]{
			{Key: "one", Fn: func(string) int { return 1 }},
		}, func(string) int { return -1 })

	var got []int
	switched.Each(func(n int) { got = append(got, n) })

	_ = root.Emit("one", "unknown")
	_ = root.Finish()

	if len(got) != 2 || got[0] != 1 || got[1] != -1 {
		t.Fatalf("expected [1 -1], got %v", got)
	}
}

func TestOrderedFuturesRelaysInCompletionOrder(t *testing.T) {
	root := New[*Completion[int]]("futures")
	ordered := OrderedFutures(root, "ordered")

	var got []int
	ordered.Each(func(n int) { got = append(got, n) })

	first := NewCompletion[int]()
	second := NewCompletion[int]()

	_ = root.Emit(first, second)
	_ = root.Finish()

	_ = second.Done(2)
	if len(got) != 1 || got[0] != 2 {
		t.Fatalf("expected second's value first since it resolved first, got %v", got)
	}

	_ = first.Done(1)
	if len(got) != 2 || got[1] != 1 {
		t.Fatalf("expected first's value relayed after it resolves, got %v", got)
	}

	if !ordered.IsDone() {
		t.Fatalf("expected ordered to finish once parent finished and both futures resolved, state=%v", ordered.completed.State())
	}
}

func TestWithLatestFromDropsUntilSecondaryEmits(t *testing.T) {
	primary := New[int]("primary")
	secondary := New[string]("secondary")
	combined := WithLatestFrom(primary, secondary, "combined", func(n int, s string) string {
		return s
	})

	var got []string
	combined.Each(func(s string) { got = append(got, s) })

	_ = primary.Emit(1)
	if len(got) != 0 {
		t.Fatalf("expected drop before secondary emits, got %v", got)
	}
	_ = secondary.Emit("ready")
	_ = primary.Emit(2)
	if len(got) != 1 || got[0] != "ready" {
		t.Fatalf("expected [ready], got %v", got)
	}
}
