package sim

import (
	"sort"
	"testing"
)

// stubEvent is a minimal Event for exercising the loop directly.
type stubEvent struct {
	at    float64
	fired func(s *Simulator, now float64)
}

func (e *stubEvent) Timestamp() float64 { return e.at }
func (e *stubEvent) Execute(s *Simulator) {
	if e.fired != nil {
		e.fired(s, e.at)
	}
}

func TestSimulator_Run_ExecutesInTimeOrder(t *testing.T) {
	// GIVEN events scheduled out of order
	s := NewSimulator(0)
	times := []float64{30, 5, 12.5, 80, 0, 41}
	var executed []float64
	for _, at := range times {
		s.Schedule(&stubEvent{at: at, fired: func(_ *Simulator, now float64) {
			executed = append(executed, now)
		}})
	}

	// WHEN the loop drains
	elapsed := s.Run()

	// THEN execution order is the sorted due-time order and the final clock
	// is the last due time
	want := append([]float64(nil), times...)
	sort.Float64s(want)
	if len(executed) != len(want) {
		t.Fatalf("executed %d events, want %d", len(executed), len(want))
	}
	for i := range want {
		if executed[i] != want[i] {
			t.Errorf("position %d: executed at %v, want %v", i, executed[i], want[i])
		}
	}
	if elapsed != want[len(want)-1] {
		t.Errorf("Run() = %v, want %v", elapsed, want[len(want)-1])
	}
}

func TestSimulator_Run_ClockMonotonic(t *testing.T) {
	// Handlers may schedule successors; the observed clock never goes back
	s := NewSimulator(0)
	var observed []float64
	var chain func(s *Simulator, now float64)
	remaining := 50
	chain = func(s *Simulator, now float64) {
		observed = append(observed, now)
		if remaining > 0 {
			remaining--
			s.Schedule(&stubEvent{at: now + float64(remaining%7), fired: chain})
		}
	}
	s.Schedule(&stubEvent{at: 1, fired: chain})
	s.Schedule(&stubEvent{at: 3, fired: chain})

	s.Run()

	for i := 1; i < len(observed); i++ {
		if observed[i] < observed[i-1] {
			t.Fatalf("clock went backwards: %v after %v", observed[i], observed[i-1])
		}
	}
}

func TestSimulator_Run_FIFOAmongEqualTimes(t *testing.T) {
	// Same-timestamp events pop in insertion order
	s := NewSimulator(0)
	var labels []string
	mk := func(label string) *stubEvent {
		return &stubEvent{at: 7, fired: func(_ *Simulator, _ float64) {
			labels = append(labels, label)
		}}
	}
	s.Schedule(mk("a"))
	s.Schedule(mk("b"))
	s.Schedule(mk("c"))
	s.Run()

	want := []string{"a", "b", "c"}
	for i := range want {
		if labels[i] != want[i] {
			t.Fatalf("tie-break order %v, want %v", labels, want)
		}
	}
}

func TestSimulator_Schedule_NegativeTimePanics(t *testing.T) {
	s := NewSimulator(0)
	defer func() {
		if recover() == nil {
			t.Error("scheduling a negative-time event did not panic")
		}
	}()
	s.Schedule(&stubEvent{at: -1})
}

func TestSimulator_Schedule_PastTimePanics(t *testing.T) {
	s := NewSimulator(0)
	s.Clock = 100
	defer func() {
		if recover() == nil {
			t.Error("scheduling into the past did not panic")
		}
	}()
	s.Schedule(&stubEvent{at: 50})
}

func TestSimulator_Run_HorizonStopsRunawayChain(t *testing.T) {
	// A self-perpetuating chain must stop once the clock passes the horizon
	s := NewSimulator(100)
	steps := 0
	var chain func(s *Simulator, now float64)
	chain = func(s *Simulator, now float64) {
		steps++
		s.Schedule(&stubEvent{at: now + 10, fired: chain})
	}
	s.Schedule(&stubEvent{at: 0, fired: chain})

	elapsed := s.Run()

	if elapsed <= 100 {
		t.Errorf("Run() = %v, want > horizon 100", elapsed)
	}
	if steps > 13 {
		t.Errorf("chain executed %d steps, want bounded by horizon", steps)
	}
}

func TestSimulator_Run_EmptyQueueReturnsZero(t *testing.T) {
	s := NewSimulator(0)
	if elapsed := s.Run(); elapsed != 0 {
		t.Errorf("Run() on empty queue = %v, want 0", elapsed)
	}
}
