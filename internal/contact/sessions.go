package contact

import (
	"time"

	"github.com/google/uuid"

	"github.com/Zachkp/portfolio/internal/cache"
)

// Sessions hands each visitor their own Submitter, so one visitor's
// in-flight message never blocks another's.
type Sessions struct {
	submitters *cache.TTL[string, *Submitter]
	newFn      func() *Submitter
}

// NewSessions keeps idle submitters for ttl. newFn builds a fresh one.
func NewSessions(ttl time.Duration, newFn func() *Submitter) *Sessions {
	return &Sessions{
		submitters: cache.New[string, *Submitter](ttl, ttl/2),
		newFn:      newFn,
	}
}

// NewID returns a fresh session identifier.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like one NewID issued.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Get returns the submitter for id, creating it if needed.
func (s *Sessions) Get(id string) *Submitter {
	sub, _ := s.submitters.GetOrCreate(id, s.newFn)
	return sub
}

// Peek returns the submitter for id without creating one.
func (s *Sessions) Peek(id string) (*Submitter, bool) {
	return s.submitters.Get(id)
}

// Len is the number of live sessions.
func (s *Sessions) Len() int {
	return s.submitters.Stats().CurrentSize
}

// Close stops the cleanup goroutine.
func (s *Sessions) Close() {
	s.submitters.Stop()
}
