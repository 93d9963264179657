// Package notify keeps a queue of short-lived toast notifications.
package notify

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Kind is the severity of a toast.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

const (
	DefaultDuration = 5 * time.Second
	ErrorDuration   = 8 * time.Second
)

// Toast is one notification. A non-positive Duration means it stays until
// removed.
type Toast struct {
	ID        string        `json:"id"`
	Kind      Kind          `json:"type"`
	Title     string        `json:"title"`
	Message   string        `json:"message"`
	Duration  time.Duration `json:"duration"`
	Timestamp time.Time     `json:"timestamp"`
}

// Sticky reports whether the toast never expires.
func (t Toast) Sticky() bool { return t.Duration <= 0 }

// Service holds the active toasts and removes each one once its duration
// elapses.
type Service struct {
	logger *zap.Logger
	now    func() time.Time

	mu     sync.Mutex
	toasts []Toast
	timers map[string]*time.Timer
	subs   map[chan []Toast]struct{}
	closed bool
}

// New returns an empty Service. A nil logger disables logging.
func New(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		logger: logger.Named("notify"),
		now:    time.Now,
		timers: make(map[string]*time.Timer),
		subs:   make(map[chan []Toast]struct{}),
	}
}

// Success shows a success toast for DefaultDuration.
func (s *Service) Success(title, message string) Toast {
	return s.Show(KindSuccess, title, message, 0)
}

// Error shows an error toast for ErrorDuration.
func (s *Service) Error(title, message string) Toast {
	return s.Show(KindError, title, message, 0)
}

// Warning shows a warning toast for DefaultDuration.
func (s *Service) Warning(title, message string) Toast {
	return s.Show(KindWarning, title, message, 0)
}

// Info shows an info toast for DefaultDuration.
func (s *Service) Info(title, message string) Toast {
	return s.Show(KindInfo, title, message, 0)
}

// Show adds a toast. A zero duration picks the default for kind, a
// negative one makes the toast sticky. After Close, Show still returns the
// toast but does not queue it.
func (s *Service) Show(kind Kind, title, message string, duration time.Duration) Toast {
	if duration == 0 {
		duration = DefaultDuration
		if kind == KindError {
			duration = ErrorDuration
		}
	}

	t := Toast{
		ID:        uuid.NewString(),
		Kind:      kind,
		Title:     title,
		Message:   message,
		Duration:  duration,
		Timestamp: s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return t
	}

	s.toasts = append(s.toasts, t)
	if !t.Sticky() {
		id := t.ID
		s.timers[id] = time.AfterFunc(duration, func() { s.Remove(id) })
	}
	s.logger.Debug("toast shown",
		zap.String("id", t.ID),
		zap.String("kind", string(kind)),
		zap.String("title", title),
		zap.Duration("duration", duration),
	)
	s.publishLocked()
	return t
}

// Remove drops the toast with id. It reports whether it was present.
func (s *Service) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.toasts, func(t Toast) bool { return t.ID == id })
	if i < 0 {
		return false
	}
	s.toasts = slices.Delete(s.toasts, i, i+1)
	if timer, ok := s.timers[id]; ok {
		timer.Stop()
		delete(s.timers, id)
	}
	s.publishLocked()
	return true
}

// Clear drops every toast.
func (s *Service) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimersLocked()
	s.toasts = nil
	s.publishLocked()
}

// Toasts returns the active toasts, oldest first.
func (s *Service) Toasts() []Toast {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.toasts)
}

// Subscribe returns a channel that receives the toast list after every
// change, starting with the current one. Slow readers only see the latest
// list. The returned func unsubscribes and closes the channel.
func (s *Service) Subscribe() (<-chan []Toast, func()) {
	ch := make(chan []Toast, 1)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	s.subs[ch] = struct{}{}
	ch <- slices.Clone(s.toasts)
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if _, ok := s.subs[ch]; ok {
				delete(s.subs, ch)
				close(ch)
			}
		})
	}
}

// Close stops every timer and closes all subscriptions.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.stopTimersLocked()
	for ch := range s.subs {
		close(ch)
	}
	clear(s.subs)
}

func (s *Service) stopTimersLocked() {
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}

func (s *Service) publishLocked() {
	snapshot := slices.Clone(s.toasts)
	for ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- snapshot
	}
}
