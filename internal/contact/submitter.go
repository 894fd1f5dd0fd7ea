package contact

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Zachkp/portfolio/internal/metrics"
)

// Status is the submission state shown on the contact card.
type Status int

const (
	StatusIdle Status = iota
	StatusSending
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusSending:
		return "sending"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

const (
	successMessage = "Message sent successfully!"
	genericFailure = "Failed to send message"
	missingFields  = "Please fill in all fields."

	// DefaultResetAfter is how long a success banner stays up.
	DefaultResetAfter = 5 * time.Second
)

// State is a copy of the submitter's state at one point in time.
type State struct {
	Form    FormState
	Status  Status
	Message string
}

// Timer is the part of *time.Timer the submitter uses.
type Timer interface {
	Stop() bool
}

// Clock schedules the success auto-reset.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Submitter drives one visitor's form through
// idle -> sending -> success|error. Success falls back to idle after
// resetAfter; error stays until the next Submit.
type Submitter struct {
	relay      Relay
	clock      Clock
	resetAfter time.Duration
	logger     zerolog.Logger

	mu    sync.Mutex
	state State
	gen   uint64
	timer Timer
}

// Option configures a Submitter.
type Option func(*Submitter)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c Clock) Option {
	return func(s *Submitter) { s.clock = c }
}

// WithResetAfter changes how long the success state lasts.
func WithResetAfter(d time.Duration) Option {
	return func(s *Submitter) {
		if d > 0 {
			s.resetAfter = d
		}
	}
}

// WithLogger sets the logger used for submission events.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Submitter) { s.logger = l }
}

func NewSubmitter(relay Relay, opts ...Option) *Submitter {
	s := &Submitter{
		relay:      relay,
		clock:      realClock{},
		resetAfter: DefaultResetAfter,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current state.
func (s *Submitter) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Submit validates form and hands it to the relay once. While a previous
// call is still sending it returns the current state and
// ErrSubmissionInFlight without contacting the relay.
func (s *Submitter) Submit(ctx context.Context, form FormState) (State, error) {
	s.mu.Lock()
	if s.state.Status == StatusSending {
		st := s.state
		s.mu.Unlock()
		metrics.RecordContactSubmission("in_flight")
		return st, ErrSubmissionInFlight
	}
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if err := form.Validate(); err != nil {
		s.state = State{Form: form, Status: StatusError, Message: missingFields}
		st := s.state
		s.mu.Unlock()
		metrics.RecordContactSubmission("invalid")
		return st, err
	}
	s.state = State{Form: form, Status: StatusSending}
	gen := s.gen
	s.mu.Unlock()

	err := s.relay.Send(ctx, form.Envelope())

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = State{Form: form, Status: StatusError, Message: failureMessage(err)}
		metrics.RecordContactSubmission("error")
		s.logger.Warn().Err(err).Str("event", "contact.send_failed").Msg("contact message not delivered")
		return s.state, err
	}

	s.state = State{Status: StatusSuccess, Message: successMessage}
	s.timer = s.clock.AfterFunc(s.resetAfter, func() { s.reset(gen) })
	metrics.RecordContactSubmission("success")
	s.logger.Info().Str("event", "contact.sent").Msg("contact message delivered")
	return s.state, nil
}

func (s *Submitter) reset(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen || s.state.Status != StatusSuccess {
		return
	}
	s.state = State{Status: StatusIdle}
	s.timer = nil
}

// Close stops a pending reset timer.
func (s *Submitter) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func failureMessage(err error) string {
	reason := genericFailure
	var relayErr *RelayError
	if errors.As(err, &relayErr) && relayErr.Message != "" {
		reason = relayErr.Message
	}
	return "Failed to send message: " + reason + ". Please try again."
}
