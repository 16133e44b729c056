package sourcechain

import "testing"

func TestFilterKeepsMatching(t *testing.T) {
	root := New[int]("numbers")
	positive := Filter(root, "positive", func(n int) bool { return n > 0 })

	var got []int
	positive.Each(func(n int) { got = append(got, n) })

	_ = root.Emit(-2, -1, 0, 1, 2)
	_ = root.Finish()

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("expected [1 2], got %v", got)
	}
}

func TestFilterEqual(t *testing.T) {
	root := New[string]("words")
	matches := FilterEqual(root, "eq", "b")

	var got []string
	matches.Each(func(s string) { got = append(got, s) })

	_ = root.Emit("a", "b", "c", "b")
	_ = root.Finish()

	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %v", got)
	}
}

func TestFilterRegexRejectsBadPattern(t *testing.T) {
	root := New[string]("words")
	if _, err := FilterRegex(root, "bad", "("); err == nil {
		t.Fatal("expected error compiling invalid regex")
	}
}

func TestFilterRegexMatches(t *testing.T) {
	root := New[string]("words")
	matched, err := FilterRegex(root, "digits", `^\d+$`)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}

	var got []string
	matched.Each(func(s string) { got = append(got, s) })

	_ = root.Emit("123", "abc", "456")
	_ = root.Finish()

	if len(got) != 2 || got[0] != "123" || got[1] != "456" {
		t.Fatalf("expected [123 456], got %v", got)
	}
}
