package sim

import "github.com/sirupsen/logrus"

// Event defines the interface for all simulation events.
// Each event must have a Timestamp (in ticks) and an Execute method
// that advances protocol state when invoked. Executing an event may
// schedule its successor on the simulator; an event that schedules
// nothing ends its branch of simulated activity.
//
// The event set is closed: every message in the OCC protocol is one of the
// tagged types below, dispatched by the loop without indirect handler
// references.
type Event interface {
	Timestamp() float64
	Execute(*Simulator)
}

// StartEvent begins one client's read-modify-write sequence.
type StartEvent struct {
	time   float64
	Client *OccClient
}

// Timestamp returns the scheduled time of the StartEvent.
func (e *StartEvent) Timestamp() float64 {
	return e.time
}

// Execute hands control to the client's start step.
func (e *StartEvent) Execute(sim *Simulator) {
	logrus.Debugf("[t=%09.3f] client %d starts", e.time, e.Client.ID)
	e.Client.Start(sim, e.time)
}

// ReadRequestEvent is a version read arriving at the server.
type ReadRequestEvent struct {
	time    float64
	Server  *OccServer
	ReplyTo *OccClient
}

// Timestamp returns the scheduled time of the ReadRequestEvent.
func (e *ReadRequestEvent) Timestamp() float64 {
	return e.time
}

// Execute delivers the read to the server.
func (e *ReadRequestEvent) Execute(sim *Simulator) {
	e.Server.Read(sim, e.time, e.ReplyTo)
}

// ReadResponseEvent carries the current version back to a client.
type ReadResponseEvent struct {
	time    float64
	Client  *OccClient
	Version int64
}

// Timestamp returns the scheduled time of the ReadResponseEvent.
func (e *ReadResponseEvent) Timestamp() float64 {
	return e.time
}

// Execute resumes the client with the version it read.
func (e *ReadResponseEvent) Execute(sim *Simulator) {
	e.Client.ReadRsp(sim, e.time, e.Version)
}

// WriteRequestEvent is a conditional write arriving at the server.
// Version is the version the client read; the write commits iff it is
// still current.
type WriteRequestEvent struct {
	time    float64
	Server  *OccServer
	ReplyTo *OccClient
	Version int64
}

// Timestamp returns the scheduled time of the WriteRequestEvent.
func (e *WriteRequestEvent) Timestamp() float64 {
	return e.time
}

// Execute delivers the write to the server.
func (e *WriteRequestEvent) Execute(sim *Simulator) {
	e.Server.Write(sim, e.time, e.ReplyTo, e.Version)
}

// WriteResponseEvent carries a write outcome back to a client.
type WriteResponseEvent struct {
	time   float64
	Client *OccClient
	OK     bool
}

// Timestamp returns the scheduled time of the WriteResponseEvent.
func (e *WriteResponseEvent) Timestamp() float64 {
	return e.time
}

// Execute resumes the client with the write outcome.
func (e *WriteResponseEvent) Execute(sim *Simulator) {
	e.Client.WriteRsp(sim, e.time, e.OK)
}
