package sourcechain

import "testing"

func TestSkip(t *testing.T) {
	root := New[int]("numbers")
	skipped := mustSource(Skip(root, "skip3", 3))

	var got []int
	skipped.Each(func(n int) { got = append(got, n) })

	_ = root.Emit(0, 1, 2, 3, 4, 5)
	_ = root.Finish()

	expected := []int{3, 4, 5}
	if len(got) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, got)
	}
	for i, v := range expected {
		if got[i] != v {
			t.Fatalf("expected %v at %d, got %d", v, i, got[i])
		}
	}
}

func TestSkipRejectsNegativeCount(t *testing.T) {
	root := New[int]("numbers")
	if _, err := Skip(root, "bad", -1); err == nil {
		t.Fatal("expected validation error for negative count")
	}
}

func TestTakeStopsAtN(t *testing.T) {
	root := New[int]("numbers")
	taken := mustSource(Take(root, "take3", 3))

	var got []int
	taken.Each(func(n int) { got = append(got, n) })

	_ = root.Emit(0, 1, 2, 3, 4, 5)

	if len(got) != 3 || got[0] != 0 || got[2] != 2 {
		t.Fatalf("expected [0 1 2], got %v", got)
	}
	if !taken.IsDone() {
		t.Fatalf("expected take to finish once satisfied, state=%v", taken.completed.State())
	}
}

func TestTakeZeroFinishesImmediately(t *testing.T) {
	root := New[int]("numbers")
	taken := mustSource(Take(root, "take0", 0))

	if !taken.IsDone() {
		t.Fatalf("expected take(0) to finish immediately at construction, state=%v", taken.completed.State())
	}

	var got []int
	taken.Each(func(n int) { got = append(got, n) })
	_ = root.Emit(0, 1, 2)
	_ = root.Finish()

	if len(got) != 0 {
		t.Fatalf("expected take(0) to emit nothing, got %v", got)
	}
}

func TestSkipLastWithholdsTrailingItems(t *testing.T) {
	root := New[int]("numbers")
	dropped := SkipLast(root, "skiplast2", 2)

	var got []int
	dropped.Each(func(n int) { got = append(got, n) })

	_ = root.Emit(1, 2, 3, 4, 5)
	_ = root.Finish()

	if len(got) != 3 || got[2] != 3 {
		t.Fatalf("expected [1 2 3], got %v", got)
	}
}
