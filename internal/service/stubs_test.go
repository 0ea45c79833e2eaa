package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-scheduler-api/internal/models"
	"github.com/noah-isme/sma-scheduler-api/internal/scheduler"
	appErrors "github.com/noah-isme/sma-scheduler-api/pkg/errors"
	"github.com/noah-isme/sma-scheduler-api/pkg/jobs"
)

type planStoreStub struct {
	mu      sync.Mutex
	plans   map[string]models.AcademicPlan
	updates []models.PlanStatus
}

func newPlanStoreStub(plans ...models.AcademicPlan) *planStoreStub {
	stub := &planStoreStub{plans: make(map[string]models.AcademicPlan)}
	for _, p := range plans {
		stub.plans[p.ID] = p
	}
	return stub
}

func (s *planStoreStub) FindByID(_ context.Context, id string) (*models.AcademicPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	plan, ok := s.plans[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &plan, nil
}

func (s *planStoreStub) UpdateStatus(_ context.Context, _ sqlx.ExtContext, id string, status models.PlanStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	plan, ok := s.plans[id]
	if !ok {
		return sql.ErrNoRows
	}
	plan.Status = status
	s.plans[id] = plan
	s.updates = append(s.updates, status)
	return nil
}

type obligationListerStub struct {
	items []models.TeachingObligation
	err   error
}

func (s obligationListerStub) ListActiveByPlan(context.Context, string) ([]models.TeachingObligation, error) {
	return s.items, s.err
}

type timeBlockListerStub struct {
	items []models.TimeBlock
}

func (s timeBlockListerStub) ListActive(context.Context) ([]models.TimeBlock, error) {
	return s.items, nil
}

type roomListerStub struct {
	items []models.Room
}

func (s roomListerStub) List(context.Context) ([]models.Room, error) {
	return s.items, nil
}

type preferenceStub struct {
	mu       sync.Mutex
	items    map[string]models.TeacherPreference
	lastIDs  []string
	upserted []models.TeacherPreference
}

func (s *preferenceStub) ListByTeachers(_ context.Context, ids []string) ([]models.TeacherPreference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastIDs = ids
	var out []models.TeacherPreference
	for _, id := range ids {
		if p, ok := s.items[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *preferenceStub) Upsert(_ context.Context, pref *models.TeacherPreference) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.items == nil {
		s.items = make(map[string]models.TeacherPreference)
	}
	s.items[pref.TeacherID] = *pref
	s.upserted = append(s.upserted, *pref)
	return nil
}

type bookingListerStub struct {
	others      []models.TimetableBooking
	plan        []models.TimetableBooking
	excludedFor string
}

func (s *bookingListerStub) ListBookingsExcludingPlan(_ context.Context, planID string) ([]models.TimetableBooking, error) {
	s.excludedFor = planID
	return s.others, nil
}

func (s *bookingListerStub) ListBookingsByPlan(context.Context, string) ([]models.TimetableBooking, error) {
	return s.plan, nil
}

type persisterStub struct {
	mu    sync.Mutex
	calls int
	err   error
	saved map[string]scheduler.Result
}

func (p *persisterStub) Replace(_ context.Context, planID string, result scheduler.Result) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return p.err
	}
	if p.saved == nil {
		p.saved = make(map[string]scheduler.Result)
	}
	p.saved[planID] = result
	return nil
}

type queueStub struct {
	jobs []jobs.Job
	err  error
}

func (q *queueStub) Enqueue(job jobs.Job) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

// memoryCache mimics the Redis repository including JSON round trips.
type memoryCache struct {
	mu          sync.Mutex
	items       map[string][]byte
	invalidated []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: make(map[string][]byte)}
}

func (m *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = raw
	return nil
}

func (m *memoryCache) DeleteByPattern(_ context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidated = append(m.invalidated, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.items {
		if strings.HasPrefix(key, prefix) {
			delete(m.items, key)
		}
	}
	return nil
}

func newTxProviderMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func draftPlan(id string) models.AcademicPlan {
	return models.AcademicPlan{ID: id, Name: "2025-1", Status: models.PlanStatusDraft}
}

func obligationRow(id, teacherID string, attendance int) models.TeachingObligation {
	return models.TeachingObligation{
		ID:                 id,
		PlanID:             "plan-1",
		TeacherID:          teacherID,
		TeacherName:        "Teacher " + teacherID,
		SubjectID:          "sub-" + id,
		SubjectName:        "Subject " + id,
		SubjectKind:        models.SubjectKindTheory,
		SubjectLevel:       3,
		WeeklyHours:        2,
		ExpectedAttendance: attendance,
		Active:             true,
	}
}

func blockRow(id string, day int, start, end string) models.TimeBlock {
	return models.TimeBlock{ID: id, Name: "Block " + id, DayOfWeek: day, StartTime: start, EndTime: end, Active: true}
}

func roomRow(id string, capacity int) models.Room {
	return models.Room{ID: id, Code: strings.ToUpper(id), Capacity: capacity, RoomType: "CLASSROOM", Available: true}
}
