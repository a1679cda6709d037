package timer

import (
	"testing"
)

const tick = 1.0 / 60.0

func TestForeverSpawnCadence(t *testing.T) {
	s := New()
	var fired []int
	tickNo := 0
	s.Run("spawn", Seq(Wait(2.0), Do(func() { fired = append(fired, tickNo) })).Forever())

	for tickNo = 1; tickNo <= 300; tickNo++ {
		s.Advance(tick)
	}

	expected := []int{120, 240}
	if len(fired) != len(expected) {
		t.Fatalf("fired at %v, expected %v", fired, expected)
	}
	for i := range expected {
		if fired[i] != expected[i] {
			t.Errorf("fire %d at tick %d, expected %d", i, fired[i], expected[i])
		}
	}
}

func TestRepeatThen(t *testing.T) {
	s := New()
	var log []string
	done := false
	seq := Seq(
		Do(func() { log = append(log, "on") }),
		Wait(0.05),
		Do(func() { log = append(log, "off") }),
		Wait(0.05),
	).Repeat(4).Then(func() { done = true })

	if d := seq.Duration(); d < 0.4-1e-12 || d > 0.4+1e-12 {
		t.Errorf("Duration() = %g, expected 0.4", d)
	}

	s.Run("flash", seq)
	ticks := 0
	for !done && ticks < 100 {
		s.Advance(tick)
		ticks++
	}

	if !done {
		t.Fatal("sequence never completed")
	}
	if ticks != 24 {
		t.Errorf("completed after %d ticks, expected 24", ticks)
	}
	if len(log) != 8 {
		t.Errorf("expected 8 actions, got %d: %v", len(log), log)
	}
	if s.Active("flash") {
		t.Error("completed sequence should be removed")
	}
}

func TestRunSameKeySupersedes(t *testing.T) {
	s := New()
	first, second := 0, 0
	h := s.Run("flash", Seq(Wait(0.1), Do(func() { first++ })))
	s.Run("flash", Seq(Wait(0.1), Do(func() { second++ })))

	for i := 0; i < 20; i++ {
		s.Advance(tick)
	}

	if first != 0 {
		t.Error("superseded sequence must not run")
	}
	if second != 1 {
		t.Errorf("new sequence should run once, ran %d", second)
	}
	if s.CancelHandle(h) {
		t.Error("stale handle must not cancel anything")
	}
}

func TestCancelSkipsCompletion(t *testing.T) {
	s := New()
	done := false
	h := s.Run("spin", Seq(Wait(1)).Then(func() { done = true }))

	s.Advance(0.5)
	if !s.CancelHandle(h) {
		t.Fatal("live handle should cancel")
	}
	s.Advance(1)

	if done {
		t.Error("canceled sequence must not call Then")
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, expected 0", s.Len())
	}
}

func TestPauseResumeKeepsProgress(t *testing.T) {
	s := New()
	count := 0
	s.Run("spawn", Seq(Wait(1), Do(func() { count++ })).Forever())

	s.Advance(0.75)
	s.Pause("spawn")
	if !s.Paused("spawn") {
		t.Error("sequence should report paused")
	}
	s.Advance(10)
	if count != 0 {
		t.Fatalf("paused sequence fired %d times", count)
	}

	s.Resume("spawn")
	s.Advance(0.25)
	if count != 1 {
		t.Errorf("resumed sequence should fire after the remaining 0.25s, count=%d", count)
	}
}

func TestActionsMayReschedule(t *testing.T) {
	s := New()
	order := []string{}
	s.Run("a", Seq(Do(func() {
		order = append(order, "a")
		s.Run("b", Seq(Do(func() { order = append(order, "b") })))
		s.Cancel("c")
	})))
	s.Run("c", Seq(Do(func() { order = append(order, "c") })))

	s.Advance(tick)
	if len(order) != 1 || order[0] != "a" {
		t.Fatalf("first advance ran %v, expected [a]", order)
	}

	s.Advance(tick)
	if len(order) != 2 || order[1] != "b" {
		t.Errorf("second advance ran %v, expected [a b]", order)
	}
}

func TestZeroDurationForeverDoesNotSpin(t *testing.T) {
	s := New()
	count := 0
	s.Run("busy", Seq(Do(func() { count++ })).Forever())

	s.Advance(tick)
	if count != 1 {
		t.Errorf("zero-duration forever sequence should run once per advance, ran %d", count)
	}
}

func TestCancelAll(t *testing.T) {
	s := New()
	s.Run("a", Seq(Wait(1)))
	s.Run("b", Seq(Wait(1)))
	s.CancelAll()
	if s.Len() != 0 || s.Active("a") {
		t.Error("CancelAll should drop every sequence")
	}
}
