package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-scheduler-api/internal/dto"
	appErrors "github.com/noah-isme/sma-scheduler-api/pkg/errors"
)

func TestTeacherPreferenceServiceRoundTrip(t *testing.T) {
	repo := &preferenceStub{}
	svc := NewTeacherPreferenceService(repo, nil, nil)
	ctx := context.Background()

	empty, err := svc.Get(ctx, "t1")
	require.NoError(t, err)
	assert.NotNil(t, empty.Preferred)
	assert.Empty(t, empty.Preferred)
	assert.Empty(t, empty.Unavailable)

	req := dto.UpsertTeacherPreferenceRequest{
		Preferred:   []dto.TeacherWindowRequest{{DayOfWeek: "TUESDAY", TimeRange: "08:00-12:00"}},
		Unavailable: []dto.TeacherWindowRequest{{DayOfWeek: "FRIDAY", TimeRange: "13:00-15:00"}},
	}
	saved, err := svc.Upsert(ctx, "t1", req)
	require.NoError(t, err)
	assert.Equal(t, req.Preferred, saved.Preferred)
	require.Len(t, repo.upserted, 1)
	assert.JSONEq(t, `[{"day_of_week":"FRIDAY","time_range":"13:00-15:00"}]`, string(repo.upserted[0].Unavailable))

	loaded, err := svc.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, req.Preferred, loaded.Preferred)
	assert.Equal(t, req.Unavailable, loaded.Unavailable)
}

func TestTeacherPreferenceServiceRejectsInvalidWindows(t *testing.T) {
	repo := &preferenceStub{}
	svc := NewTeacherPreferenceService(repo, nil, nil)
	ctx := context.Background()

	cases := map[string]dto.UpsertTeacherPreferenceRequest{
		"sunday":   {Preferred: []dto.TeacherWindowRequest{{DayOfWeek: "SUNDAY", TimeRange: "08:00-10:00"}}},
		"reversed": {Unavailable: []dto.TeacherWindowRequest{{DayOfWeek: "MONDAY", TimeRange: "10:00-08:00"}}},
		"garbage":  {Preferred: []dto.TeacherWindowRequest{{DayOfWeek: "MONDAY", TimeRange: "morning"}}},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Upsert(ctx, "t1", req)
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
		})
	}
	assert.Empty(t, repo.upserted)

	_, err := svc.Get(ctx, "")
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
