package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-scheduler-api/internal/models"
	"github.com/noah-isme/sma-scheduler-api/internal/scheduler"
	appErrors "github.com/noah-isme/sma-scheduler-api/pkg/errors"
)

type obligationLister interface {
	ListActiveByPlan(ctx context.Context, planID string) ([]models.TeachingObligation, error)
}

type timeBlockLister interface {
	ListActive(ctx context.Context) ([]models.TimeBlock, error)
}

type roomLister interface {
	List(ctx context.Context) ([]models.Room, error)
}

type preferenceLister interface {
	ListByTeachers(ctx context.Context, teacherIDs []string) ([]models.TeacherPreference, error)
}

type bookingLister interface {
	ListBookingsExcludingPlan(ctx context.Context, planID string) ([]models.TimetableBooking, error)
	ListBookingsByPlan(ctx context.Context, planID string) ([]models.TimetableBooking, error)
}

// snapshotLoader reads everything a run needs once, before the engine starts.
type snapshotLoader struct {
	obligations obligationLister
	blocks      timeBlockLister
	rooms       roomLister
	prefs       preferenceLister
	bookings    bookingLister
	logger      *zap.Logger
}

func (l *snapshotLoader) Load(ctx context.Context, planID string) (scheduler.Plan, error) {
	plan := scheduler.Plan{ID: planID}

	obligations, err := l.obligations.ListActiveByPlan(ctx, planID)
	if err != nil {
		return plan, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teaching obligations")
	}
	blocks, err := l.blocks.ListActive(ctx)
	if err != nil {
		return plan, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load time blocks")
	}
	rooms, err := l.rooms.List(ctx)
	if err != nil {
		return plan, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}
	bookings, err := l.bookings.ListBookingsExcludingPlan(ctx, planID)
	if err != nil {
		return plan, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load existing timetable")
	}

	teacherIDs := make([]string, 0, len(obligations))
	seen := make(map[string]struct{}, len(obligations))
	for _, ob := range obligations {
		plan.Obligations = append(plan.Obligations, toSchedulerObligation(ob))
		if _, ok := seen[ob.TeacherID]; !ok {
			seen[ob.TeacherID] = struct{}{}
			teacherIDs = append(teacherIDs, ob.TeacherID)
		}
	}

	prefs, err := l.prefs.ListByTeachers(ctx, teacherIDs)
	if err != nil {
		return plan, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher preferences")
	}

	for _, b := range blocks {
		block, err := toSchedulerBlock(b)
		if err != nil {
			l.logger.Warn("skipping malformed time block", zap.String("time_block_id", b.ID), zap.Error(err))
			continue
		}
		plan.Blocks = append(plan.Blocks, block)
	}
	for _, r := range rooms {
		plan.Rooms = append(plan.Rooms, toSchedulerRoom(r))
	}
	for _, b := range bookings {
		booking, err := toSchedulerBooking(b)
		if err != nil {
			l.logger.Warn("skipping malformed booking", zap.String("entry_id", b.EntryID), zap.Error(err))
			continue
		}
		plan.Existing = append(plan.Existing, booking)
	}

	plan.Preferences = make(map[string]scheduler.TeacherPreference, len(prefs))
	for _, p := range prefs {
		pref, err := toSchedulerPreference(p)
		if err != nil {
			l.logger.Warn("ignoring malformed teacher preference", zap.String("teacher_id", p.TeacherID), zap.Error(err))
			continue
		}
		plan.Preferences[p.TeacherID] = pref
	}

	return plan, nil
}

func (l *snapshotLoader) PlanBookings(ctx context.Context, planID string) ([]scheduler.Booking, error) {
	rows, err := l.bookings.ListBookingsByPlan(ctx, planID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load plan timetable")
	}
	bookings := make([]scheduler.Booking, 0, len(rows))
	for _, row := range rows {
		booking, err := toSchedulerBooking(row)
		if err != nil {
			l.logger.Warn("skipping malformed booking", zap.String("entry_id", row.EntryID), zap.Error(err))
			continue
		}
		bookings = append(bookings, booking)
	}
	return bookings, nil
}

func toSchedulerObligation(ob models.TeachingObligation) scheduler.Obligation {
	return scheduler.Obligation{
		ID:                 ob.ID,
		PlanID:             ob.PlanID,
		TeacherID:          ob.TeacherID,
		TeacherName:        ob.TeacherName,
		SubjectID:          ob.SubjectID,
		SubjectName:        ob.SubjectName,
		SubjectKind:        scheduler.SubjectKind(strings.ToUpper(ob.SubjectKind)),
		SubjectLevel:       ob.SubjectLevel,
		WeeklyHours:        ob.WeeklyHours,
		ExpectedAttendance: ob.ExpectedAttendance,
		Active:             ob.Active,
	}
}

func toSchedulerBlock(b models.TimeBlock) (scheduler.TimeBlock, error) {
	start, err := scheduler.ParseClock(b.StartTime)
	if err != nil {
		return scheduler.TimeBlock{}, err
	}
	end, err := scheduler.ParseClock(b.EndTime)
	if err != nil {
		return scheduler.TimeBlock{}, err
	}
	block, err := scheduler.NewTimeBlock(b.ID, b.Name, scheduler.Weekday(b.DayOfWeek), start, end)
	if err != nil {
		return scheduler.TimeBlock{}, err
	}
	block.Active = b.Active
	return block, nil
}

func toSchedulerRoom(r models.Room) scheduler.Room {
	return scheduler.Room{
		ID:        r.ID,
		Code:      r.Code,
		Capacity:  r.Capacity,
		Type:      scheduler.RoomType(strings.ToUpper(r.RoomType)),
		Available: r.Available,
	}
}

func toSchedulerBooking(b models.TimetableBooking) (scheduler.Booking, error) {
	block, err := toSchedulerBlock(models.TimeBlock{
		ID:        b.TimeBlockID,
		Name:      b.BlockName,
		DayOfWeek: b.DayOfWeek,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		Active:    true,
	})
	if err != nil {
		return scheduler.Booking{}, err
	}
	return scheduler.Booking{
		EntryID:      b.EntryID,
		PlanID:       b.PlanID,
		ObligationID: b.ObligationID,
		TeacherID:    b.TeacherID,
		RoomID:       b.RoomID,
		Block:        block,
	}, nil
}

func toSchedulerPreference(p models.TeacherPreference) (scheduler.TeacherPreference, error) {
	pref := scheduler.TeacherPreference{TeacherID: p.TeacherID}
	var err error
	if pref.Preferred, err = decodeWindows(p.Preferred); err != nil {
		return pref, fmt.Errorf("preferred: %w", err)
	}
	if pref.Avoid, err = decodeWindows(p.Unavailable); err != nil {
		return pref, fmt.Errorf("unavailable: %w", err)
	}
	return pref, nil
}

func decodeWindows(raw []byte) ([]scheduler.Window, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var items []models.TeacherWindow
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	windows := make([]scheduler.Window, 0, len(items))
	for _, item := range items {
		w, err := parseWindow(item)
		if err != nil {
			return nil, err
		}
		windows = append(windows, w)
	}
	return windows, nil
}

// parseWindow converts {"MONDAY", "08:00-10:00"} into an engine window.
func parseWindow(item models.TeacherWindow) (scheduler.Window, error) {
	day, err := scheduler.ParseWeekday(item.DayOfWeek)
	if err != nil {
		return scheduler.Window{}, err
	}
	bounds := strings.SplitN(item.TimeRange, "-", 2)
	if len(bounds) != 2 {
		return scheduler.Window{}, fmt.Errorf("time range %q must look like HH:MM-HH:MM", item.TimeRange)
	}
	start, err := scheduler.ParseClock(bounds[0])
	if err != nil {
		return scheduler.Window{}, err
	}
	end, err := scheduler.ParseClock(bounds[1])
	if err != nil {
		return scheduler.Window{}, err
	}
	if start >= end {
		return scheduler.Window{}, fmt.Errorf("time range %q must start before it ends", item.TimeRange)
	}
	return scheduler.Window{Day: day, Start: start, End: end}, nil
}
