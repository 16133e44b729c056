package sourcechain

import "testing"

func TestMapTransformsItems(t *testing.T) {
	root := New[int]("numbers")
	doubled := Map(root, "doubled", func(n int) int { return n * 2 })

	var got []int
	doubled.Each(func(n int) { got = append(got, n) })

	_ = root.Emit(1, 2, 3)
	_ = root.Finish()

	if len(got) != 3 || got[0] != 2 || got[1] != 4 || got[2] != 6 {
		t.Fatalf("expected [2 4 6], got %v", got)
	}
	if !doubled.IsDone() {
		t.Fatalf("expected child to finish when parent finishes, state=%v", doubled.completed.State())
	}
}

func TestMapFailurePropagates(t *testing.T) {
	root := New[int]("numbers")
	doubled := Map(root, "doubled", func(n int) int { return n * 2 })

	_ = root.Fail(errAny, "boom")

	if !doubled.IsFailed() {
		t.Fatalf("expected child to fail when parent fails, state=%v", doubled.completed.State())
	}
}

func TestTapObservesWithoutModifying(t *testing.T) {
	root := New[int]("numbers")
	var seen []int
	tapped := Tap(root, "tap", func(n int) { seen = append(seen, n) })

	var got []int
	tapped.Each(func(n int) { got = append(got, n) })

	_ = root.Emit(1, 2)
	_ = root.Finish()

	if len(seen) != 2 || len(got) != 2 {
		t.Fatalf("expected both observers to see 2 items, seen=%v got=%v", seen, got)
	}
}

func TestWithIndexPairsItems(t *testing.T) {
	root := New[string]("letters")
	indexed := WithIndex(root, "indexed")

	var got []Indexed[string]
	indexed.Each(func(v Indexed[string]) { got = append(got, v) })

	_ = root.Emit("a", "b")
	_ = root.Finish()

	if len(got) != 2 || got[0].Index != 0 || got[1].Index != 1 {
		t.Fatalf("unexpected indexed output: %+v", got)
	}
}

var errAny = &testError{"boom"}

type testError struct{ msg string }

func (e *testError) Error() string { return e.msg }
