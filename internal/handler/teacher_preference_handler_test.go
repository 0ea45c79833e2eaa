package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-scheduler-api/internal/dto"
	appErrors "github.com/noah-isme/sma-scheduler-api/pkg/errors"
)

type teacherPreferenceServiceMock struct {
	upsertCalled bool
	captured     dto.UpsertTeacherPreferenceRequest
	err          error
}

func (m *teacherPreferenceServiceMock) Get(_ context.Context, teacherID string) (*dto.TeacherPreferenceResponse, error) {
	return &dto.TeacherPreferenceResponse{TeacherID: teacherID, Preferred: []dto.TeacherWindowRequest{}, Unavailable: []dto.TeacherWindowRequest{}}, m.err
}

func (m *teacherPreferenceServiceMock) Upsert(_ context.Context, teacherID string, req dto.UpsertTeacherPreferenceRequest) (*dto.TeacherPreferenceResponse, error) {
	m.upsertCalled = true
	m.captured = req
	if m.err != nil {
		return nil, m.err
	}
	return &dto.TeacherPreferenceResponse{TeacherID: teacherID, Preferred: req.Preferred, Unavailable: req.Unavailable}, nil
}

func newPreferenceRouter(svc *teacherPreferenceServiceMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewTeacherPreferenceHandler(svc)
	router := gin.New()
	router.GET("/teachers/:teacherId/preferences", handler.Get)
	router.PUT("/teachers/:teacherId/preferences", handler.Upsert)
	return router
}

func TestTeacherPreferenceHandlerGet(t *testing.T) {
	w := perform(newPreferenceRouter(&teacherPreferenceServiceMock{}), http.MethodGet, "/teachers/t1/preferences", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"teacherId":"t1"`)
	assert.Contains(t, w.Body.String(), `"preferred":[]`)
}

func TestTeacherPreferenceHandlerRequiresTeacherID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTeacherPreferenceHandler(&teacherPreferenceServiceMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/teachers//preferences", nil)
	c.Request = req

	handler.Get(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTeacherPreferenceHandlerUpsert(t *testing.T) {
	svc := &teacherPreferenceServiceMock{}
	w := perform(newPreferenceRouter(svc), http.MethodPut, "/teachers/t1/preferences",
		[]byte(`{"preferred":[{"dayOfWeek":"MONDAY","timeRange":"08:00-10:00"}]}`))

	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, svc.upsertCalled)
	require.Len(t, svc.captured.Preferred, 1)
	assert.Equal(t, "MONDAY", svc.captured.Preferred[0].DayOfWeek)
}

func TestTeacherPreferenceHandlerUpsertErrors(t *testing.T) {
	svc := &teacherPreferenceServiceMock{}
	router := newPreferenceRouter(svc)

	w := perform(router, http.MethodPut, "/teachers/t1/preferences", []byte(`{"preferred":`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, svc.upsertCalled)

	svc.err = appErrors.Clone(appErrors.ErrValidation, "invalid preferred windows")
	w = perform(router, http.MethodPut, "/teachers/t1/preferences", []byte(`{"preferred":[{"dayOfWeek":"SUNDAY","timeRange":"x"}]}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
