package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"altesse/internal/common"
	"altesse/internal/models"
)

const (
	cdBytes     = 700 * 1024 * 1024
	floppyBytes = 1474560

	widgetCacheTTL = 2 * time.Second
)

// EventPublisher pushes events to connected front ends
type EventPublisher interface {
	Publish(eventType string, payload any) error
}

// StatsService records conversions and serves the dashboard widget
type StatsService struct {
	mu     sync.Mutex
	store  StatsStore
	events EventPublisher
	cache  *WidgetCache
	log    *slog.Logger
}

// NewStatsService creates the service. events may be nil.
func NewStatsService(store StatsStore, events EventPublisher, log *slog.Logger) *StatsService {
	return &StatsService{
		store:  store,
		events: events,
		cache:  NewWidgetCache(widgetCacheTTL),
		log:    log.With(slog.String("item", "StatsService")),
	}
}

// RegisterConversion adds one conversion to the totals, persists them and
// broadcasts the refreshed widget stats.
func (s *StatsService) RegisterConversion(ctx context.Context, rec *models.ConversionRecord) (*models.WidgetStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStatsUnavailable, err)
	}

	stats.TotalConverted++

	format, exists := stats.Formats[rec.Format]
	if !exists || format == nil {
		format = &models.FormatStats{}
		stats.Formats[rec.Format] = format
	}
	format.Count++
	format.OriginalSize += rec.OriginalSize
	format.FinalSize += rec.FinalSize

	original, compressed := stats.TotalSizes()
	saved := original - compressed
	stats.TotalSavedInCD = saved / cdBytes
	stats.TotalSavedFloppy = saved / floppyBytes

	if err := s.store.Save(ctx, stats); err != nil {
		return nil, fmt.Errorf("cannot save stats: %w", err)
	}

	widget := toWidget(stats)
	s.cache.Set(widget)

	s.log.Debug("Conversion registered",
		slog.String("format", rec.Format),
		slog.Int64("original_size", rec.OriginalSize),
		slog.Int64("final_size", rec.FinalSize),
	)

	if s.events != nil {
		if err := s.events.Publish(EventStatsUpdate, widget); err != nil {
			s.log.Warn("Cannot publish stats update", slog.Any("error", err))
		}
	}

	return widget, nil
}

// GetWidgetStats returns the dashboard totals
func (s *StatsService) GetWidgetStats(ctx context.Context) (*models.WidgetStats, error) {
	if widget := s.cache.Get(); widget != nil {
		return widget, nil
	}

	stats, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStatsUnavailable, err)
	}

	widget := toWidget(stats)
	s.cache.Set(widget)
	return widget, nil
}

func toWidget(stats *models.Stats) *models.WidgetStats {
	original, compressed := stats.TotalSizes()

	return &models.WidgetStats{
		TotalConverted:      stats.TotalConverted,
		Formats:             stats.Formats,
		TotalSavedInCD:      stats.TotalSavedInCD,
		TotalSavedFloppy:    stats.TotalSavedFloppy,
		TotalOriginalSize:   original,
		TotalCompressedSize: compressed,
	}
}
