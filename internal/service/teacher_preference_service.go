package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-scheduler-api/internal/dto"
	"github.com/noah-isme/sma-scheduler-api/internal/models"
	appErrors "github.com/noah-isme/sma-scheduler-api/pkg/errors"
)

type teacherPreferenceRepo interface {
	ListByTeachers(ctx context.Context, teacherIDs []string) ([]models.TeacherPreference, error)
	Upsert(ctx context.Context, pref *models.TeacherPreference) error
}

// TeacherPreferenceService manages the teaching windows read by the scheduler.
type TeacherPreferenceService struct {
	repo      teacherPreferenceRepo
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherPreferenceService builds the service.
func NewTeacherPreferenceService(repo teacherPreferenceRepo, validate *validator.Validate, logger *zap.Logger) *TeacherPreferenceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherPreferenceService{repo: repo, validator: validate, logger: logger}
}

// Get returns stored windows or an empty preference.
func (s *TeacherPreferenceService) Get(ctx context.Context, teacherID string) (*dto.TeacherPreferenceResponse, error) {
	if teacherID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "teacher id is required")
	}
	prefs, err := s.repo.ListByTeachers(ctx, []string{teacherID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher preferences")
	}
	resp := &dto.TeacherPreferenceResponse{
		TeacherID:   teacherID,
		Preferred:   []dto.TeacherWindowRequest{},
		Unavailable: []dto.TeacherWindowRequest{},
	}
	if len(prefs) == 0 {
		return resp, nil
	}
	if resp.Preferred, err = windowsFromJSON(prefs[0].Preferred); err != nil {
		s.logger.Warn("stored preferred windows are malformed", zap.String("teacher_id", teacherID), zap.Error(err))
	}
	if resp.Unavailable, err = windowsFromJSON(prefs[0].Unavailable); err != nil {
		s.logger.Warn("stored unavailable windows are malformed", zap.String("teacher_id", teacherID), zap.Error(err))
	}
	return resp, nil
}

// Upsert replaces the windows of a teacher.
func (s *TeacherPreferenceService) Upsert(ctx context.Context, teacherID string, req dto.UpsertTeacherPreferenceRequest) (*dto.TeacherPreferenceResponse, error) {
	if teacherID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "teacher id is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid preference payload")
	}

	preferred, err := windowsToJSON(req.Preferred)
	if err != nil {
		return nil, appErrors.Validation(err, "invalid preferred windows")
	}
	unavailable, err := windowsToJSON(req.Unavailable)
	if err != nil {
		return nil, appErrors.Validation(err, "invalid unavailable windows")
	}

	if err := s.repo.Upsert(ctx, &models.TeacherPreference{
		TeacherID:   teacherID,
		Preferred:   preferred,
		Unavailable: unavailable,
	}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to upsert teacher preferences")
	}

	resp := &dto.TeacherPreferenceResponse{TeacherID: teacherID, Preferred: req.Preferred, Unavailable: req.Unavailable}
	if resp.Preferred == nil {
		resp.Preferred = []dto.TeacherWindowRequest{}
	}
	if resp.Unavailable == nil {
		resp.Unavailable = []dto.TeacherWindowRequest{}
	}
	return resp, nil
}

func windowsToJSON(windows []dto.TeacherWindowRequest) (types.JSONText, error) {
	items := make([]models.TeacherWindow, 0, len(windows))
	for _, w := range windows {
		item := models.TeacherWindow{DayOfWeek: w.DayOfWeek, TimeRange: w.TimeRange}
		if _, err := parseWindow(item); err != nil {
			return nil, fmt.Errorf("%s %s: %w", w.DayOfWeek, w.TimeRange, err)
		}
		items = append(items, item)
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	return types.JSONText(raw), nil
}

func windowsFromJSON(raw types.JSONText) ([]dto.TeacherWindowRequest, error) {
	out := []dto.TeacherWindowRequest{}
	if len(raw) == 0 {
		return out, nil
	}
	var items []models.TeacherWindow
	if err := json.Unmarshal(raw, &items); err != nil {
		return out, err
	}
	for _, item := range items {
		out = append(out, dto.TeacherWindowRequest{DayOfWeek: item.DayOfWeek, TimeRange: item.TimeRange})
	}
	return out, nil
}
