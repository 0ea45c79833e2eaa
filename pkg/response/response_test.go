package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-scheduler-api/internal/models"
	appErrors "github.com/noah-isme/sma-scheduler-api/pkg/errors"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestJSONWrapsPaginationAndMeta(t *testing.T) {
	c, w := newContext()
	JSON(c, http.StatusOK, []string{"a"}, &models.Pagination{Page: 1, PageSize: 10, TotalCount: 1}, map[string]interface{}{"cacheHit": true})

	var env struct {
		Data       []string               `json:"data"`
		Pagination models.Pagination      `json:"pagination"`
		Meta       map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, []string{"a"}, env.Data)
	assert.Equal(t, 1, env.Pagination.TotalCount)
	assert.Equal(t, true, env.Meta["cacheHit"])
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestErrorUsesAppErrorStatus(t *testing.T) {
	c, w := newContext()
	Error(c, appErrors.Clone(appErrors.ErrUnknownStrategy, "unknown strategy \"simulated_annealing\""))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "simulated_annealing")

	c, w = newContext()
	Error(c, errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAcceptedAndAttachment(t *testing.T) {
	c, w := newContext()
	Accepted(c, gin.H{"runId": "run-1"})
	assert.Equal(t, http.StatusAccepted, w.Code)

	c, w = newContext()
	Attachment(c, "timetable-plan-1.csv", "text/csv", []byte("Day\n"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="timetable-plan-1.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Equal(t, "Day\n", w.Body.String())
}

func TestEnvelopeCarriesRequestID(t *testing.T) {
	c, w := newContext()
	c.Set("request_id", "req-9")
	Error(c, appErrors.Clone(appErrors.ErrNotFound, "scheduling run not found or expired"))

	var env struct {
		Error appErrors.Error        `json:"error"`
		Meta  map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
	assert.Equal(t, "req-9", env.Meta["requestId"])
	assert.Empty(t, c.Errors, "client errors are not logged as failures")
}
