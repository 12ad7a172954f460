package testdoubles

import (
	"context"
	"sync"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/notify"
)

// PublisherSpy records published notification messages. If Err is set, Publish records the message
// and then fails with Err.
type PublisherSpy struct {
	Err error

	mu       sync.Mutex
	messages []notify.Message
}

// NewPublisherSpy creates a new PublisherSpy.
func NewPublisherSpy() *PublisherSpy {
	return &PublisherSpy{}
}

func (s *PublisherSpy) Publish(_ context.Context, message notify.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = append(s.messages, message)

	return s.Err
}

// Messages returns the recorded messages of one notification type, or all if notificationType is empty.
func (s *PublisherSpy) Messages(notificationType string) []notify.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]notify.Message, 0, len(s.messages))
	for _, message := range s.messages {
		if notificationType == "" || message.Type == notificationType {
			result = append(result, message)
		}
	}

	return result
}
