package mocks

import (
	"context"
	"sync"

	"github.com/IlianBuh/Blog-service/internal/domain/models"
)

// SenderMock collects sent events
type SenderMock struct {
	mu     sync.Mutex
	events []models.Event
	Err    error
}

func (s *SenderMock) Send(_ context.Context, page []models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return s.Err
	}
	s.events = append(s.events, page...)

	return nil
}

func (s *SenderMock) Events() []models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]models.Event(nil), s.events...)
}
