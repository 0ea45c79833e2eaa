package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-scheduler-api/internal/dto"
	"github.com/noah-isme/sma-scheduler-api/internal/models"
	"github.com/noah-isme/sma-scheduler-api/internal/scheduler"
	appErrors "github.com/noah-isme/sma-scheduler-api/pkg/errors"
	"github.com/noah-isme/sma-scheduler-api/pkg/export"
)

const defaultTimetablePageSize = 100

type planReader interface {
	FindByID(ctx context.Context, id string) (*models.AcademicPlan, error)
}

type timetableReader interface {
	ListByPlan(ctx context.Context, planID string, page, size int) ([]models.TimetableEntryDetail, int, error)
}

type conflictReader interface {
	ListByPlan(ctx context.Context, planID string) ([]models.SchedulingConflict, error)
}

type renderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

// TimetableExport is a rendered timetable document.
type TimetableExport struct {
	Filename    string
	ContentType string
	Data        []byte
}

type timetablePage struct {
	Entries []models.TimetableEntryDetail `json:"entries"`
	Total   int                           `json:"total"`
}

// TimetableService reads committed timetables.
type TimetableService struct {
	plans     planReader
	entries   timetableReader
	conflicts conflictReader
	bookings  bookingLister
	cache     *CacheService
	renderers map[string]renderer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTimetableService constructs the service with CSV and PDF renderers.
func NewTimetableService(plans planReader, entries timetableReader, conflicts conflictReader, bookings bookingLister, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{
		plans:     plans,
		entries:   entries,
		conflicts: conflicts,
		bookings:  bookings,
		cache:     cache,
		renderers: map[string]renderer{
			"csv": export.NewCSVExporter(),
			"pdf": export.NewPDFExporter(),
		},
		validator: validate,
		logger:    logger,
	}
}

// ListEntries returns a page of committed entries. Pages are cached per plan
// until the next commit.
func (s *TimetableService) ListEntries(ctx context.Context, planID string, query dto.TimetableQuery) ([]models.TimetableEntryDetail, *models.Pagination, bool, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, nil, false, appErrors.Validation(err, "invalid timetable query")
	}
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.PageSize <= 0 {
		query.PageSize = defaultTimetablePageSize
	}
	if _, err := s.findPlan(ctx, planID); err != nil {
		return nil, nil, false, err
	}

	key := timetableCacheKey(planID, fmt.Sprintf("entries:%d:%d", query.Page, query.PageSize))
	var page timetablePage
	if hit, _ := s.cache.Get(ctx, key, &page); hit {
		return page.Entries, pagination(query, page.Total), true, nil
	}

	entries, total, err := s.entries.ListByPlan(ctx, planID, query.Page, query.PageSize)
	if err != nil {
		return nil, nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetable entries")
	}
	if entries == nil {
		entries = []models.TimetableEntryDetail{}
	}
	_ = s.cache.Set(ctx, key, timetablePage{Entries: entries, Total: total}, 0)
	return entries, pagination(query, total), false, nil
}

// ListConflicts returns the conflict records stored for a plan.
func (s *TimetableService) ListConflicts(ctx context.Context, planID string) ([]models.SchedulingConflict, error) {
	if _, err := s.findPlan(ctx, planID); err != nil {
		return nil, err
	}
	conflicts, err := s.conflicts.ListByPlan(ctx, planID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list scheduling conflicts")
	}
	if conflicts == nil {
		conflicts = []models.SchedulingConflict{}
	}
	return conflicts, nil
}

// Audit checks the committed entries of a plan for teacher or room double bookings.
func (s *TimetableService) Audit(ctx context.Context, planID string) (*dto.TimetableAuditResponse, error) {
	if _, err := s.findPlan(ctx, planID); err != nil {
		return nil, err
	}
	loader := &snapshotLoader{bookings: s.bookings, logger: s.logger}
	bookings, err := loader.PlanBookings(ctx, planID)
	if err != nil {
		return nil, err
	}
	conflicts := scheduler.DetectDoubleBookings(planID, bookings)
	if len(conflicts) > 0 {
		s.logger.Warn("double bookings detected", zap.String("plan_id", planID), zap.Int("conflicts", len(conflicts)))
	}
	return &dto.TimetableAuditResponse{
		PlanID:    planID,
		Entries:   len(bookings),
		Conflicts: toConflictResponses(conflicts),
	}, nil
}

// Export renders the full committed timetable of a plan as CSV or PDF.
func (s *TimetableService) Export(ctx context.Context, planID string, query dto.TimetableExportQuery) (*TimetableExport, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Validation(err, "invalid export format")
	}
	format := strings.ToLower(query.Format)
	if format == "" {
		format = "csv"
	}
	r, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", query.Format))
	}

	plan, err := s.findPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	entries, _, err := s.entries.ListByPlan(ctx, planID, 0, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetable entries")
	}

	data, err := r.Render(timetableDataset(plan, entries))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable")
	}
	return &TimetableExport{
		Filename:    fmt.Sprintf("timetable-%s.%s", plan.ID, r.Extension()),
		ContentType: r.ContentType(),
		Data:        data,
	}, nil
}

func (s *TimetableService) findPlan(ctx context.Context, planID string) (*models.AcademicPlan, error) {
	plan, err := s.plans.FindByID(ctx, planID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "academic plan not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load academic plan")
	}
	return plan, nil
}

func timetableDataset(plan *models.AcademicPlan, entries []models.TimetableEntryDetail) export.Dataset {
	data := export.Dataset{
		Title:    fmt.Sprintf("Timetable %s", plan.Name),
		Subtitle: fmt.Sprintf("Status %s, %d sessions", plan.Status, len(entries)),
		Headers:  []string{"Day", "Block", "Start", "End", "Room", "Subject", "Teacher", "Attendance", "Modality"},
		Rows:     make([][]string, 0, len(entries)),
	}
	for _, e := range entries {
		data.Rows = append(data.Rows, []string{
			scheduler.Weekday(e.DayOfWeek).String(),
			e.BlockName,
			shortClock(e.StartTime),
			shortClock(e.EndTime),
			e.RoomCode,
			e.SubjectName,
			e.TeacherName,
			fmt.Sprintf("%d", e.ExpectedAttendance),
			e.Modality,
		})
	}
	return data
}

func shortClock(raw string) string {
	if c, err := scheduler.ParseClock(raw); err == nil {
		return c.String()
	}
	return raw
}

func pagination(query dto.TimetableQuery, total int) *models.Pagination {
	return &models.Pagination{Page: query.Page, PageSize: query.PageSize, TotalCount: total}
}
