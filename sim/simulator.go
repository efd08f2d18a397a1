// sim/simulator.go
package sim

import (
	"container/heap"
	"fmt"

	"github.com/sirupsen/logrus"
)

// eventItem pairs an event with its insertion sequence number so that
// same-timestamp events pop in FIFO order. Any deterministic tie-break
// works statistically; FIFO keeps replays stable.
type eventItem struct {
	ev  Event
	seq uint64
}

// EventQueue implements heap.Interface and orders events by timestamp.
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type EventQueue []eventItem

func (eq EventQueue) Len() int { return len(eq) }
func (eq EventQueue) Less(i, j int) bool {
	if eq[i].ev.Timestamp() != eq[j].ev.Timestamp() {
		return eq[i].ev.Timestamp() < eq[j].ev.Timestamp()
	}
	return eq[i].seq < eq[j].seq
}
func (eq EventQueue) Swap(i, j int) { eq[i], eq[j] = eq[j], eq[i] }

func (eq *EventQueue) Push(x any) {
	*eq = append(*eq, x.(eventItem))
}

func (eq *EventQueue) Pop() any {
	old := *eq
	n := len(old)
	item := old[n-1]
	*eq = old[0 : n-1]
	return item
}

// Simulator holds the simulated clock, the pending event queue, and the
// statistics shared by the server and clients of one run. One Simulator is
// one independent run; nothing is shared across runs.
type Simulator struct {
	Clock float64
	// Horizon, when > 0, bounds simulated time as a safety valve against
	// pathological non-termination under extreme contention. 0 leaves the
	// run unbounded, which is the reference behavior.
	Horizon float64
	// EventQueue holds all pending protocol events in due-time order.
	EventQueue EventQueue
	Stats      *Stats

	nextSeq uint64
}

// NewSimulator creates a simulator with an empty queue and zeroed stats.
func NewSimulator(horizon float64) *Simulator {
	return &Simulator{
		Horizon:    horizon,
		EventQueue: make(EventQueue, 0),
		Stats:      &Stats{},
	}
}

// Schedule pushes an event into the simulator's EventQueue. Scheduling into
// the past or at a negative time indicates a defect in the protocol code,
// never a runtime condition, so it panics rather than corrupt the run's
// statistics.
func (sim *Simulator) Schedule(ev Event) {
	if ev.Timestamp() < 0 {
		panic(fmt.Sprintf("Schedule: negative event time %f", ev.Timestamp()))
	}
	if ev.Timestamp() < sim.Clock {
		panic(fmt.Sprintf("Schedule: event time %f before clock %f", ev.Timestamp(), sim.Clock))
	}
	heap.Push(&sim.EventQueue, eventItem{ev: ev, seq: sim.nextSeq})
	sim.nextSeq++
}

// Run drains the event queue, advancing the clock monotonically, and returns
// the simulated time at which the last event executed.
func (sim *Simulator) Run() float64 {
	for len(sim.EventQueue) > 0 {
		// get the next event to be simulated
		item := heap.Pop(&sim.EventQueue).(eventItem)
		ev := item.ev
		// time must move forward; a violation means the scheduler is broken
		if ev.Timestamp() < sim.Clock {
			panic(fmt.Sprintf("Run: event time %f before clock %f", ev.Timestamp(), sim.Clock))
		}
		// advance the clock
		sim.Clock = ev.Timestamp()
		logrus.Debugf("[t=%09.3f] executing %T", sim.Clock, ev)
		// process the event
		ev.Execute(sim)
		if sim.Horizon > 0 && sim.Clock > sim.Horizon {
			logrus.Warnf("[t=%09.3f] horizon %.3f reached with %d events pending", sim.Clock, sim.Horizon, len(sim.EventQueue))
			break
		}
	}
	logrus.Debugf("[t=%09.3f] simulation ended", sim.Clock)
	return sim.Clock
}
