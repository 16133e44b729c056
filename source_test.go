package sourcechain

import (
	"errors"
	"testing"
)

func TestSourceEmitDeliversInOrder(t *testing.T) {
	s := New[int]("numbers")
	var got []int
	s.Each(func(n int) { got = append(got, n) })

	if err := s.Emit(1, 2, 3); err != nil {
		t.Fatalf("Emit returned error: %v", err)
	}
	_ = s.Finish()

	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("expected [1 2 3], got %v", got)
	}
}

func TestSourceEmitAfterCompletionFails(t *testing.T) {
	s := New[int]("numbers")
	_ = s.Finish()

	if err := s.Emit(1); !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("expected ErrAlreadyCompleted, got %v", err)
	}
}

func TestSourceCallbackPanicFailsSource(t *testing.T) {
	s := New[int]("numbers")
	s.Each(func(int) { panic("boom") })

	err := s.Emit(1)
	if err == nil {
		t.Fatal("expected emit to return the panic as an error")
	}
	if !s.IsFailed() {
		t.Fatalf("expected source to be failed, state=%v", s.completed.State())
	}
	if f := s.Failure(); f == nil || !f.HasTag(calleeExceptionTag) {
		t.Fatalf("expected failure tagged %q, got %v", calleeExceptionTag, f)
	}
}

func TestSourceDescribeWalksParentChain(t *testing.T) {
	root := New[int]("root")
	child := Map(root, "doubled", func(n int) int { return n * 2 })

	desc := child.Describe()
	if desc != "root(pending)=>doubled(pending)" {
		t.Fatalf("unexpected describe output: %q", desc)
	}
}

func mustSource[T any](s *Source[T], err error) *Source[T] {
	if err != nil {
		panic(err)
	}
	return s
}

func TestSourceCancelWhenLastChildFinishesEarly(t *testing.T) {
	root := New[int]("root")
	child := mustSource(Take(root, "take1", 1))

	_ = root.Emit(1)
	if !child.IsDone() {
		t.Fatalf("expected child to finish after taking 1 item, state=%v", child.completed.State())
	}
	if !root.IsCancelled() {
		t.Fatalf("expected root to cancel once its only child finished early, state=%v", root.completed.State())
	}
}

func TestSourcePauseResume(t *testing.T) {
	s := New[int]("numbers")
	if s.IsPaused() {
		t.Fatal("expected source to start unpaused")
	}
	s.Pause()
	if !s.IsPaused() {
		t.Fatal("expected IsPaused true after Pause")
	}
	s.Resume()
	if s.IsPaused() {
		t.Fatal("expected IsPaused false after Resume")
	}
}
