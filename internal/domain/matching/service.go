package matching

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/yanqian/technician-matching/pkg/errors"
)

// Service exposes technician matching capabilities.
type Service interface {
	FindAvailableTechnicians(ctx context.Context, q Query) (Result, error)
	Categories() []CategoryOption
	TrendingCategories(ctx context.Context) ([]CategoryCount, error)
}

type service struct {
	cfg       Config
	directory Directory
	stats     SearchStats
	recorder  Recorder
	tracer    trace.Tracer
	logger    *slog.Logger
	now       func() time.Time
}

// TracerName names the spans emitted by the matching service.
const TracerName = "technician-matching/matching"

// otherCategory is the metric label for categories outside the catalog.
const otherCategory = "other"

// NewService wires up the matching domain. recorder and tracer may be nil.
func NewService(cfg Config, directory Directory, stats SearchStats, recorder Recorder, tracer trace.Tracer, logger *slog.Logger) Service {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if tracer == nil {
		tracer = otel.Tracer(TracerName)
	}
	return &service{
		cfg:       cfg,
		directory: directory,
		stats:     stats,
		recorder:  recorder,
		tracer:    tracer,
		logger:    logger.With("component", "matching.service"),
		now:       time.Now,
	}
}

func (s *service) FindAvailableTechnicians(ctx context.Context, q Query) (Result, error) {
	start := s.now()
	limit := s.resolveLimit(q.Limit)
	filter := EligibleFilter(q.Category)
	requester := requesterLocation(q.Lat, q.Lng)

	radiusKm := s.cfg.DefaultRadiusKm
	if q.RadiusKm != nil {
		radiusKm = *q.RadiusKm
	}
	radius := newRadiusFilter(radiusKm)

	records, err := s.queryDirectory(ctx, filter, 2*limit)
	if err != nil {
		s.recorder.ObserveSearch(metricCategory(q.Category), 0, s.now().Sub(start), err)
		s.logger.Error("technician directory query failed", "category", q.Category, "error", err)
		return Result{}, apperrors.Wrap(apperrors.CodeDirectoryUnavailable, "technician directory query failed", err)
	}

	annotated := make([]RankedTechnician, 0, len(records))
	for _, rec := range records {
		if !filter.Matches(rec) {
			continue
		}
		annotated = append(annotated, annotate(rec, requester, radius, s.cfg.FallbackLocation))
	}

	sortByDistance(annotated)
	page := annotated
	if len(page) > limit {
		page = page[:limit]
	}
	summary := summarize(annotated, page, radius)

	s.recorder.ObserveSearch(metricCategory(q.Category), len(annotated), s.now().Sub(start), nil)
	s.recordCategory(ctx, q.Category)
	s.logger.Debug("technician search ranked",
		"category", q.Category,
		"candidates", len(annotated),
		"returned", len(page),
		"has_location", requester != nil,
	)

	return Result{Technicians: page, Summary: summary}, nil
}

func (s *service) Categories() []CategoryOption {
	out := make([]CategoryOption, 0, len(Specialties))
	for _, sp := range Specialties {
		out = append(out, CategoryOption{Value: sp, Label: sp.Label()})
	}
	return out
}

func (s *service) TrendingCategories(ctx context.Context) ([]CategoryCount, error) {
	if s.stats == nil {
		return []CategoryCount{}, nil
	}
	items, err := s.stats.TopCategories(ctx, s.cfg.TrendingLimit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStatsError, "failed to load trending categories", err)
	}
	out := make([]CategoryCount, 0, len(items))
	for _, item := range items {
		item.Label = item.Category.Label()
		out = append(out, item)
	}
	return out, nil
}

func (s *service) queryDirectory(ctx context.Context, filter Filter, limit int) ([]TechnicianRecord, error) {
	ctx, span := s.tracer.Start(ctx, "matching.query_directory", trace.WithAttributes(
		attribute.String("matching.category", string(filter.Specialty)),
		attribute.Int("matching.fetch_limit", limit),
	))
	defer span.End()

	records, err := s.directory.QueryEligible(ctx, filter, limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "directory query failed")
		return nil, err
	}
	span.SetAttributes(attribute.Int("matching.candidates", len(records)))
	return records, nil
}

// recordCategory counts catalog categories only, so the trending store stays bounded.
func (s *service) recordCategory(ctx context.Context, category Specialty) {
	if !category.Known() || s.stats == nil {
		return
	}
	if err := s.stats.IncrementCategory(ctx, category); err != nil {
		s.logger.Warn("category search count failed", "category", category, "error", err)
	}
}

// resolveLimit applies the default and the cap. The result is always in
// [1, maxLimit] so the doubled directory bound cannot overflow.
func (s *service) resolveLimit(limit int) int {
	maxLimit := s.cfg.MaxLimit
	if maxLimit <= 0 {
		maxLimit = DefaultConfig().MaxLimit
	}
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}
	if limit <= 0 {
		limit = DefaultConfig().DefaultLimit
	}
	return min(limit, maxLimit)
}

func metricCategory(category Specialty) string {
	switch {
	case category == "":
		return ""
	case category.Known():
		return string(category)
	default:
		return otherCategory
	}
}

func requesterLocation(lat, lng *float64) *Location {
	if lat == nil || lng == nil || !finite(*lat) || !finite(*lng) {
		return nil
	}
	return &Location{Lat: *lat, Lng: *lng}
}
