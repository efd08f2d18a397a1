// Implements the OCC server and client state machines. The server models a
// single versioned row; each client tries to update that row exactly once,
// retrying on contention under its assigned backoff policy.

package sim

import "github.com/sirupsen/logrus"

// CommitRecorder receives the simulated timestamp of every committed write.
// The trace package provides the file-backed implementation; a nil recorder
// disables tracing.
type CommitRecorder interface {
	RecordCommit(tm float64)
}

// OccServer models a single row under optimistic concurrency control. Reads
// return the current version; a write commits only if the caller proves it
// read the latest version.
//
// The server is a pure request handler invoked only by the event loop, so
// its state needs no locking.
type OccServer struct {
	version int64
	net     *Network
	stats   *Stats
	commits CommitRecorder
}

// NewOccServer creates a server with version 0. commits may be nil.
func NewOccServer(net *Network, stats *Stats, commits CommitRecorder) *OccServer {
	return &OccServer{net: net, stats: stats, commits: commits}
}

// Version returns the number of committed writes so far.
func (s *OccServer) Version() int64 {
	return s.version
}

// Read replies to the client with the current version after one network
// delay. Reads are total: they never fail.
func (s *OccServer) Read(sim *Simulator, now float64, replyTo *OccClient) {
	sim.Schedule(&ReadResponseEvent{
		time:    now + s.net.Delay(),
		Client:  replyTo,
		Version: s.version,
	})
}

// Write attempts a conditional write carrying the version the client read.
// A stale version is the modeled contention outcome, not an error: the call
// counter advances either way, and the boolean outcome is delivered to the
// client after one network delay.
func (s *OccServer) Write(sim *Simulator, now float64, replyTo *OccClient, version int64) {
	s.stats.Calls++
	ok := version == s.version
	if ok {
		s.version++
		if s.commits != nil {
			s.commits.RecordCommit(now)
		}
	} else {
		s.stats.Failures++
	}
	sim.Schedule(&WriteResponseEvent{
		time:   now + s.net.Delay(),
		Client: replyTo,
		OK:     ok,
	})
}

// OccClient drives one logical update against the server: read the version,
// attempt the write, and on contention retry after a policy-chosen wait.
// Each client owns its backoff policy instance and is never shared.
type OccClient struct {
	ID      int
	server  *OccServer
	net     *Network
	backoff BackoffPolicy
	stats   *Stats
	attempt int
	done    bool

	// maxAttempts, when > 0, bounds failed writes as a safety valve against
	// pathological non-termination. 0 means retry until success.
	maxAttempts int
}

// NewOccClient creates a client in its start state.
func NewOccClient(id int, server *OccServer, net *Network, backoff BackoffPolicy, stats *Stats, maxAttempts int) *OccClient {
	return &OccClient{
		ID:          id,
		server:      server,
		net:         net,
		backoff:     backoff,
		stats:       stats,
		maxAttempts: maxAttempts,
	}
}

// Done reports whether the client committed its write.
func (c *OccClient) Done() bool {
	return c.done
}

// Attempts returns the number of failed writes the client has seen.
func (c *OccClient) Attempts() int {
	return c.attempt
}

// Start emits the initial read, paying one network delay.
func (c *OccClient) Start(sim *Simulator, now float64) {
	sim.Schedule(&ReadRequestEvent{
		time:    now + c.net.Delay(),
		Server:  c.server,
		ReplyTo: c,
	})
}

// ReadRsp turns the version just read into a conditional write.
func (c *OccClient) ReadRsp(sim *Simulator, now float64, version int64) {
	sim.Schedule(&WriteRequestEvent{
		time:    now + c.net.Delay(),
		Server:  c.server,
		ReplyTo: c,
		Version: version,
	})
}

// WriteRsp finishes the client on success. On contention it backs off and
// rereads; the retry pays the network delay and the backoff wait.
func (c *OccClient) WriteRsp(sim *Simulator, now float64, ok bool) {
	if ok {
		c.done = true
		logrus.Debugf("[t=%09.3f] client %d committed after %d failed attempts", now, c.ID, c.attempt)
		return
	}
	c.attempt++
	if c.maxAttempts > 0 && c.attempt >= c.maxAttempts {
		c.stats.Abandoned++
		logrus.Warnf("[t=%09.3f] client %d abandoned after %d attempts", now, c.ID, c.attempt)
		return
	}
	sim.Schedule(&ReadRequestEvent{
		time:    now + c.net.Delay() + c.backoff.Backoff(c.attempt),
		Server:  c.server,
		ReplyTo: c,
	})
}
