package notify

import (
	"context"
	"sync"

	"github.com/hokkystyle/toolrent-backend/pkg/logging"
)

// Notification is the read-only projection of a submission handed to every
// sink. Field values are raw text; sinks that render markup escape them
// themselves.
type Notification struct {
	Flow      string
	Name      string
	Contact   string
	ToolID    string
	ToolName  string
	DateFrom  string
	DateTo    string
	Notes     string
	Addons    map[string]bool
	UserAgent string
	Referrer  string
	PagePath  string
	Timestamp string
	IP        string
}

// Sink delivers a notification to one downstream channel.
type Sink interface {
	Name() string
	Send(ctx context.Context, n *Notification) error
}

// Observer records sink outcomes for monitoring.
type Observer interface {
	ObserveSink(sink, status string)
}

// Service fans a notification out to every configured sink. Sinks run
// concurrently and fail independently; Send never returns an error.
type Service struct {
	sinks    []Sink
	logger   *logging.Logger
	observer Observer
}

// NewService creates a notification service over the given sinks.
func NewService(sinks []Sink, logger *logging.Logger, observer Observer) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{sinks: sinks, logger: logger, observer: observer}
}

// Send broadcasts n to all sinks and waits for every attempt to finish.
// Failures are logged and counted, never propagated.
func (s *Service) Send(ctx context.Context, n *Notification) {
	if len(s.sinks) == 0 {
		s.logger.Warn("no notification sinks configured, submission not forwarded",
			"flow", n.Flow,
		)
		return
	}

	var wg sync.WaitGroup
	for _, sink := range s.sinks {
		wg.Add(1)
		go func(sink Sink) {
			defer wg.Done()
			if err := sink.Send(ctx, n); err != nil {
				s.logger.Error("notification sink failed",
					"sink", sink.Name(),
					"flow", n.Flow,
					"error", err,
				)
				s.observe(sink.Name(), "error")
				return
			}
			s.observe(sink.Name(), "ok")
		}(sink)
	}
	wg.Wait()
}

func (s *Service) observe(sink, status string) {
	if s.observer != nil {
		s.observer.ObserveSink(sink, status)
	}
}
