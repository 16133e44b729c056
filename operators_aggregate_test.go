package sourcechain

import "testing"

func TestCountEmitsTotalOnFinish(t *testing.T) {
	root := New[string]("words")
	count := Count(root, "count")

	var got int
	count.Each(func(n int) { got = n })

	_ = root.Emit("a", "b", "c")
	_ = root.Finish()

	if got != 3 {
		t.Fatalf("expected count 3, got %d", got)
	}
}

func TestSumAndMean(t *testing.T) {
	root := New[int]("numbers")
	sum := Sum(root, "sum")
	mean := Mean(root, "mean")

	var gotSum int
	var gotMean float64
	sum.Each(func(n int) { gotSum = n })
	mean.Each(func(n float64) { gotMean = n })

	_ = root.Emit(1, 2, 3, 4)
	_ = root.Finish()

	if gotSum != 10 {
		t.Fatalf("expected sum 10, got %d", gotSum)
	}
	if gotMean != 2.5 {
		t.Fatalf("expected mean 2.5, got %v", gotMean)
	}
}

func TestMinMax(t *testing.T) {
	root := New[int]("numbers")
	min := Min(root, "min")
	max := Max(root, "max")

	var gotMin, gotMax int
	min.Each(func(n int) { gotMin = n })
	max.Each(func(n int) { gotMax = n })

	_ = root.Emit(5, 1, 9, 3)
	_ = root.Finish()

	if gotMin != 1 || gotMax != 9 {
		t.Fatalf("expected min=1 max=9, got min=%d max=%d", gotMin, gotMax)
	}
}

func TestSomeShortCircuitsOnFirstMatch(t *testing.T) {
	root := New[int]("numbers")
	any := Some(root, "any-positive", func(n int) bool { return n > 0 })

	var results []bool
	any.Each(func(b bool) { results = append(results, b) })

	_ = root.Emit(-1, -2, 3, -4)

	if len(results) != 1 || results[0] != true {
		t.Fatalf("expected a single true result, got %v", results)
	}
}

func TestEveryFailsFastOnFirstMismatch(t *testing.T) {
	root := New[int]("numbers")
	all := Every(root, "all-positive", func(n int) bool { return n > 0 })

	var results []bool
	all.Each(func(b bool) { results = append(results, b) })

	_ = root.Emit(1, 2, -3, 4)

	if len(results) != 1 || results[0] != false {
		t.Fatalf("expected a single false result, got %v", results)
	}
}

func TestAsListCollectsUntilDone(t *testing.T) {
	root := New[int]("numbers")
	result := AsList(root, "collect")

	_ = root.Emit(1, 2, 3)
	_ = root.Finish()

	v, ok := result.Value()
	if !ok || len(v) != 3 {
		t.Fatalf("expected [1 2 3], got %v (ok=%v)", v, ok)
	}
}
