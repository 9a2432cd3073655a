package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	eventserrors "hitcounter/internal/events/errors"
	"hitcounter/internal/events/repository"
	"hitcounter/internal/events/validator"
	"hitcounter/pkg/config"
	apperrors "hitcounter/pkg/errors"
	"hitcounter/pkg/metrics"
	"hitcounter/pkg/model"
	"hitcounter/pkg/sanitizer"
)

type Outcome int

const (
	// OutcomeStored means exactly one document was inserted.
	OutcomeStored Outcome = iota
	// OutcomeIgnored means the ping came from a private address and nothing
	// was written.
	OutcomeIgnored
)

func (o Outcome) String() string {
	switch o {
	case OutcomeStored:
		return metrics.OutcomeStored
	case OutcomeIgnored:
		return metrics.OutcomeIgnored
	default:
		return "unknown"
	}
}

type EventService interface {
	Log(ctx context.Context, raw *model.RawEvent) (Outcome, error)
}

// EventPublisher forwards stored events downstream. Publish is called on the
// request path and must hand off rather than wait on the broker. Failures
// never affect the ping response.
type EventPublisher interface {
	Publish(ctx context.Context, ev *model.Event) error
}

type eventService struct {
	repo      repository.EventRepository
	validator *validator.EventValidator
	publisher EventPublisher
	cfg       *config.Config
	now       func() time.Time
}

// NewEventService wires the ingest path. publisher may be nil.
func NewEventService(
	repo repository.EventRepository,
	validator *validator.EventValidator,
	publisher EventPublisher,
	cfg *config.Config,
) EventService {
	return &eventService{
		repo:      repo,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *eventService) Log(ctx context.Context, raw *model.RawEvent) (Outcome, error) {
	if sanitizer.IsPrivateIP(raw.ClientIP) {
		metrics.EventsTotal.WithLabelValues(metrics.OutcomeIgnored).Inc()
		s.cfg.Log.Debug("Ignoring ping from private address")
		return OutcomeIgnored, nil
	}

	start := time.Now()
	ev := Normalize(raw, s.now())
	metrics.NormalizationDuration.Observe(time.Since(start).Seconds())

	if err := s.validator.Validate(ev); err != nil {
		return s.rejected(ev, err)
	}

	start = time.Now()
	err := s.repo.Insert(ctx, ev)
	metrics.StorageDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.StorageErrors.Inc()
		metrics.EventsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		s.cfg.Log.Error("Failed to store event",
			"project", ev.Project,
			"error", err,
		)
		return 0, apperrors.Internal(eventserrors.MsgSaveFailed, err)
	}

	metrics.EventsTotal.WithLabelValues(metrics.OutcomeStored).Inc()
	s.cfg.Log.Debug("Event stored",
		"id", ev.ID,
		"project", ev.Project,
		"ip", ev.IP,
	)

	s.publish(ctx, ev)
	return OutcomeStored, nil
}

// rejected maps a validation failure. A missing project is the caller's
// fault; anything else means normalization let something through, which is
// ours.
func (s *eventService) rejected(ev *model.Event, err error) (Outcome, error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && verrs.HasField("project") && ev.Project == "" {
		metrics.EventsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		s.cfg.Log.Warn("Rejected event without project")
		return 0, apperrors.Wrap(eventserrors.ErrMissingProject,
			apperrors.CodeInvalidInput, eventserrors.MsgMissingProject, http.StatusBadRequest)
	}

	metrics.EventsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
	s.cfg.Log.Error("Normalized event failed validation",
		"project", ev.Project,
		"error", err,
		"details", verrs,
	)
	return 0, apperrors.Internal(eventserrors.MsgSaveFailed, err)
}

func (s *eventService) publish(ctx context.Context, ev *model.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(context.WithoutCancel(ctx), ev); err != nil {
		s.cfg.Log.Warn("Failed to publish event",
			"id", ev.ID,
			"project", ev.Project,
			"error", err,
		)
	}
}
