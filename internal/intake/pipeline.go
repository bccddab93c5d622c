package intake

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/hokkystyle/toolrent-backend/internal/catalog"
	"github.com/hokkystyle/toolrent-backend/internal/notify"
	"github.com/hokkystyle/toolrent-backend/internal/ratelimit"
	"github.com/hokkystyle/toolrent-backend/pkg/logging"
)

// Store persists a submission. The bookings package provides the Postgres
// and no-op implementations.
type Store interface {
	Save(ctx context.Context, sub *Submission) (*SavedBooking, error)
}

// SavedBooking describes a persisted booking row.
type SavedBooking struct {
	ID       int64
	ToolName string
}

// Metrics records pipeline outcomes for monitoring.
type Metrics interface {
	ObserveSubmission(flow, status string)
	ObserveRateLimited(flow string)
}

// Pipeline runs a submission through validate → rate limit → persist →
// notify. Both flows share it; only the lead flow is rate limited.
type Pipeline struct {
	store    Store
	notifier *notify.Service
	limiter  *ratelimit.Limiter
	logger   *logging.Logger
	metrics  Metrics
	tracer   trace.Tracer
	now      func() time.Time
}

// NewPipeline wires the intake pipeline.
func NewPipeline(store Store, notifier *notify.Service, limiter *ratelimit.Limiter, logger *logging.Logger, metrics Metrics) *Pipeline {
	if logger == nil {
		logger = logging.Default()
	}
	return &Pipeline{
		store:    store,
		notifier: notifier,
		limiter:  limiter,
		logger:   logger,
		metrics:  metrics,
		tracer:   otel.Tracer("toolrent.internal.intake.pipeline"),
		now:      time.Now,
	}
}

// Process validates and forwards one submission. It returns ErrMissingField
// for invalid input and ratelimit.ErrRateLimited for throttled callers;
// persistence and notification failures are logged and swallowed.
func (p *Pipeline) Process(ctx context.Context, sub *Submission) error {
	ctx, span := p.tracer.Start(ctx, "intake.process")
	defer span.End()
	span.SetAttributes(attribute.String("toolrent.flow", string(sub.Flow)))

	if err := sub.Normalize(p.now()); err != nil {
		span.RecordError(err)
		p.observe(sub, "invalid")
		return err
	}

	if sub.Flow == FlowLead && p.limiter != nil {
		if err := p.limiter.Allow(sub.IP); err != nil {
			span.RecordError(err)
			p.logger.Warn("lead submission rate limited", "ip", sub.IP)
			if p.metrics != nil {
				p.metrics.ObserveRateLimited(string(sub.Flow))
			}
			p.observe(sub, "rate_limited")
			return err
		}
	}

	toolName := sub.ToolName
	if p.store != nil {
		saved, err := p.store.Save(ctx, sub)
		switch {
		case err != nil:
			p.logger.Error("failed to save booking", "error", err, "flow", sub.Flow)
		case saved != nil:
			p.logger.Info("booking saved", "id", saved.ID, "flow", sub.Flow)
			if saved.ToolName != "" {
				toolName = saved.ToolName
			}
		}
	}
	if toolName == "" {
		toolName = catalog.FallbackToolName(sub.ToolID)
	}
	sub.ToolName = toolName

	if p.notifier != nil {
		p.notifier.Send(ctx, p.notification(sub))
	}

	p.observe(sub, "ok")
	return nil
}

func (p *Pipeline) notification(sub *Submission) *notify.Notification {
	return &notify.Notification{
		Flow:      string(sub.Flow),
		Name:      sub.Name,
		Contact:   sub.Contact,
		ToolID:    sub.ToolID,
		ToolName:  sub.ToolName,
		DateFrom:  sub.DateFrom,
		DateTo:    sub.DateTo,
		Notes:     sub.Notes,
		Addons:    sub.Addons,
		UserAgent: sub.UserAgent,
		Referrer:  sub.Referrer,
		PagePath:  sub.PagePath,
		Timestamp: sub.Timestamp,
		IP:        sub.IP,
	}
}

func (p *Pipeline) observe(sub *Submission, status string) {
	if p.metrics != nil {
		p.metrics.ObserveSubmission(string(sub.Flow), status)
	}
}
