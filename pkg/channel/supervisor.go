package channel

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kennedyongogo/tuvibe/pkg/conf"
	"github.com/kennedyongogo/tuvibe/pkg/pubsub"
)

type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateReconnecting
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	}

	return "unknown"
}

// Producer identifies which path currently feeds the sink.
type Producer int32

const (
	ProducerNone Producer = iota
	ProducerPush
	ProducerPoll
)

const (
	// DefaultRetry is the fixed wait between reconnect attempts.
	DefaultRetry = 5 * time.Second

	// DefaultPollAfter is how many consecutive failed reconnects arm the
	// poll fallback.
	DefaultPollAfter = 3

	// DefaultPollInterval is the fallback poll cadence.
	DefaultPollInterval = 30 * time.Second
)

type Config struct {
	// Dial opens the push transport.
	Dial func(ctx context.Context) (Transport, error)

	// Sink receives every decoded event, from exactly one producer at a
	// time.
	Sink func(event pubsub.Event)

	// Refresh fetches a full snapshot while polling. Optional.
	Refresh func(ctx context.Context) error

	Retry        time.Duration
	PollAfter    int
	PollInterval time.Duration
}

// NewConfig builds a supervisor Config from file configuration, dialing the
// configured websocket URL. Zero timings fall back to the defaults.
func NewConfig(c conf.ChannelConf, sink func(event pubsub.Event), refresh func(ctx context.Context) error) *Config {
	return &Config{
		Dial: func(ctx context.Context) (Transport, error) {
			return Dial(ctx, c.URL)
		},
		Sink:         sink,
		Refresh:      refresh,
		Retry:        time.Duration(c.RetrySeconds) * time.Second,
		PollAfter:    c.PollAfter,
		PollInterval: time.Duration(c.PollSeconds) * time.Second,
	}
}

// Supervisor keeps the push subscription alive. Channel errors are logged and
// retried, never surfaced: the UI keeps its last known state until the
// channel recovers. While the channel is down long enough, the dormant poll
// path takes over producing events; reconnecting hands production back.
type Supervisor struct {
	config *Config

	ctx    context.Context
	cancel context.CancelFunc

	state     int32
	producing int32

	mu       sync.Mutex
	conn     Transport
	polling  bool
	pollStop chan struct{}

	closed chan struct{}
	done   chan struct{}
	once   sync.Once
}

func NewSupervisor(config *Config) *Supervisor {
	if config.Retry <= 0 {
		config.Retry = DefaultRetry
	}

	if config.PollAfter <= 0 {
		config.PollAfter = DefaultPollAfter
	}

	if config.PollInterval <= 0 {
		config.PollInterval = DefaultPollInterval
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Supervisor{
		config: config,
		ctx:    ctx,
		cancel: cancel,
		closed: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Run starts the supervisor loop. It returns immediately.
func (s *Supervisor) Run() {
	go s.run()
}

// Close tears down the subscription, cancels any pending reconnect and stops
// the poller.
func (s *Supervisor) Close() {
	s.once.Do(func() {
		close(s.closed)
		s.cancel()

		s.mu.Lock()
		if s.conn != nil {
			s.conn.Close()
		}
		s.mu.Unlock()

		s.disarmPoller()
	})
}

// Done is closed once the supervisor loop has exited.
func (s *Supervisor) Done() <-chan struct{} {
	return s.done
}

func (s *Supervisor) State() State {
	return State(atomic.LoadInt32(&s.state))
}

// Producing reports which path currently feeds the sink.
func (s *Supervisor) Producing() Producer {
	return Producer(atomic.LoadInt32(&s.producing))
}

func (s *Supervisor) run() {
	defer close(s.done)
	defer s.setState(StateDisconnected)

	failures := 0

	for {
		select {
		case <-s.closed:
			return
		default:
		}

		if failures == 0 {
			s.setState(StateConnecting)
		} else {
			s.setState(StateReconnecting)
		}

		conn, err := s.config.Dial(s.ctx)
		if err != nil {
			select {
			case <-s.closed:
				return
			default:
			}

			failures++
			reconnects.Inc()
			log.Printf("channel dial err: %v", err)

			if s.config.Refresh != nil && failures >= s.config.PollAfter {
				s.armPoller()
			}

			if !s.wait() {
				return
			}

			continue
		}

		failures = 0
		s.disarmPoller()

		s.mu.Lock()
		s.conn = conn
		s.mu.Unlock()

		s.setState(StateConnected)
		atomic.StoreInt32(&s.producing, int32(ProducerPush))

		s.read(conn)

		conn.Close()
		atomic.StoreInt32(&s.producing, int32(ProducerNone))

		select {
		case <-s.closed:
			return
		default:
		}

		// dropped: reconnect silently, no eager refresh
		s.setState(StateReconnecting)

		if !s.wait() {
			return
		}
	}
}

// read forwards decoded events until the transport fails. Malformed frames
// are dropped without affecting the connection.
func (s *Supervisor) read(conn Transport) {
	for {
		data, err := conn.Read()
		if err != nil {
			select {
			case <-s.closed:
			default:
				log.Printf("channel dropped: %v", err)
			}

			return
		}

		event, err := pubsub.Decode(data)
		if err != nil {
			framesDropped.Inc()
			log.Printf("dropping malformed event: %s", err.Error())
			continue
		}

		eventsReceived.Inc()
		s.config.Sink(*event)
	}
}

func (s *Supervisor) wait() bool {
	select {
	case <-s.closed:
		return false
	case <-time.After(s.config.Retry):
		return true
	}
}

func (s *Supervisor) armPoller() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.polling {
		return
	}

	s.polling = true
	s.pollStop = make(chan struct{})

	atomic.StoreInt32(&s.producing, int32(ProducerPoll))

	go s.poll(s.pollStop)
}

func (s *Supervisor) disarmPoller() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.polling {
		return
	}

	close(s.pollStop)
	s.polling = false
}

func (s *Supervisor) poll(stop chan struct{}) {
	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			err := s.config.Refresh(s.ctx)
			if err != nil {
				log.Printf("poll refresh err: %v", err)
			}
		}
	}
}

func (s *Supervisor) setState(state State) {
	atomic.StoreInt32(&s.state, int32(state))
}
