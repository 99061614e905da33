package navigation

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/domain/registry"
	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/domain/surface"
	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/infrastructure/logging"
	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/infrastructure/monitoring"
	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/shared/id"
	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/ui"
)

// Stage names a step of a navigation request in the logs
type Stage string

const (
	StageReceived  Stage = "received"
	StageValidated Stage = "validated"
	StageResolved  Stage = "resolved"
	StageScheduled Stage = "scheduled"
	StageResponded Stage = "responded"
)

// Result describes an accepted navigation request
type Result struct {
	RequestID id.RequestID `json:"requestId"`
	URL       string       `json:"url"`
	Scheduled bool         `json:"scheduled"`
}

// Service schedules navigation of the browser surface
type Service struct {
	workspaces *ui.Workspaces
	registry   *registry.Registry
	sched      ui.Scheduler
	logger     *logging.Logger
	metrics    *monitoring.Metrics
}

// NewService creates a navigation service
func NewService(workspaces *ui.Workspaces, reg *registry.Registry, sched ui.Scheduler, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		workspaces: workspaces,
		registry:   reg,
		sched:      sched,
		logger:     logger.Named("navigation"),
	}
}

// WithMetrics adds navigation outcome metrics
func (s *Service) WithMetrics(metrics *monitoring.Metrics) *Service {
	s.metrics = metrics
	return s
}

// Open schedules loading rawURL into the browser surface and returns without
// waiting for the UI loop.
func (s *Service) Open(ctx context.Context, rawURL string) (result Result, err error) {
	rid := id.RequestIDFrom(ctx)
	log := s.logger.With(zap.String("request_id", rid.String()))
	result.RequestID = rid

	log.Debug("Navigation request", zap.String("stage", string(StageReceived)), zap.String("raw_url", rawURL))
	defer func() {
		log.Debug("Navigation request",
			zap.String("stage", string(StageResponded)),
			zap.Int("status", StatusCode(err)),
			zap.Bool("scheduled", result.Scheduled),
		)
	}()

	url := strings.TrimSpace(rawURL)
	if url == "" {
		s.record(monitoring.OutcomeInvalid)
		return result, ErrInvalidURL
	}
	result.URL = url
	log.Debug("Navigation request", zap.String("stage", string(StageValidated)), zap.String("url", url))

	if s.workspaces.Count() == 0 {
		s.record(monitoring.OutcomeUnavailable)
		return result, ErrUnavailable
	}
	log.Debug("Navigation request", zap.String("stage", string(StageResolved)))

	postErr := s.sched.Post(func() {
		surf, err := s.browserSurface()
		if err != nil {
			log.Warn("Browser surface unavailable", zap.String("url", url), zap.Error(err))
			return
		}
		surf.LoadURL(url)
	})
	if postErr != nil {
		s.record(monitoring.OutcomeScheduleFailed)
		log.Error("Navigation not scheduled",
			zap.String("url", url),
			zap.Error(fmt.Errorf("%w: %w", ErrScheduling, postErr)),
		)
		return result, nil
	}

	result.Scheduled = true
	s.record(monitoring.OutcomeScheduled)
	log.Debug("Navigation request", zap.String("stage", string(StageScheduled)))
	return result, nil
}

// WithSurface runs fn with the browser surface on the UI loop. It returns once
// fn is scheduled, not when it has run.
func (s *Service) WithSurface(ctx context.Context, fn func(*surface.Surface)) error {
	if s.workspaces.Count() == 0 {
		return ErrUnavailable
	}

	rid := id.RequestIDFrom(ctx)
	err := s.sched.Post(func() {
		surf, err := s.browserSurface()
		if err != nil {
			s.logger.Warn("Browser surface unavailable",
				zap.String("request_id", rid.String()),
				zap.Error(err),
			)
			return
		}
		fn(surf)
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrScheduling, err)
	}
	return nil
}

// browserSurface shows the Browser tool window of the first open workspace and
// resolves its surface. Must run on the UI loop.
func (s *Service) browserSurface() (*surface.Surface, error) {
	ws, ok := s.workspaces.First()
	if !ok {
		return nil, ErrUnavailable
	}

	win, ok := ws.ToolWindows().Get(string(registry.Browser))
	if !ok {
		return nil, fmt.Errorf("%w: tool window %s in workspace %s", ErrNotFound, registry.Browser, ws.Name())
	}

	var surf *surface.Surface
	if err := win.Show(func() {
		surf, _ = s.registry.Resolve(registry.Browser)
	}); err != nil {
		return nil, err
	}
	if surf == nil {
		return nil, fmt.Errorf("%w: surface %s", ErrNotFound, registry.Browser)
	}
	return surf, nil
}

func (s *Service) record(outcome string) {
	if s.metrics != nil {
		s.metrics.RecordNavigation(outcome)
	}
}
