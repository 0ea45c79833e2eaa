package middleware

import (
	"context"
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

type validatorStub struct {
	claims *models.JWTClaims
}

func (v validatorStub) ValidateToken(token string) (*models.JWTClaims, error) {
	if token != "good" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	return v.claims, nil
}

type auditStub struct {
	logs []*models.AuditLog
	err  error
}

func (a *auditStub) Create(_ context.Context, log *models.AuditLog) error {
	a.logs = append(a.logs, log)
	return a.err
}

func newRouter(claims *models.JWTClaims, handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	chain := append([]gin.HandlerFunc{JWT(validatorStub{claims: claims})}, handlers...)
	router.POST("/teachers/:teacherId/preferences", chain...)
	return router
}

func doRequest(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/teachers/t1/preferences", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func ok(c *gin.Context) { c.Status(http.StatusOK) }

func TestJWTRejectsMissingOrInvalidTokens(t *testing.T) {
	router := newRouter(&models.JWTClaims{UserID: "t1", Role: models.RoleTeacher}, ok)

	assert.Equal(t, http.StatusUnauthorized, doRequest(router, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(router, "bad").Code)
	assert.Equal(t, http.StatusOK, doRequest(router, "good").Code)
}

func TestRBACAllowsSelfOnTeacherRoutes(t *testing.T) {
	rbac := RequireRolesOrSelf(models.RoleAdmin)

	self := newRouter(&models.JWTClaims{UserID: "t1", Role: models.RoleTeacher}, rbac, ok)
	assert.Equal(t, http.StatusOK, doRequest(self, "good").Code)

	other := newRouter(&models.JWTClaims{UserID: "t2", Role: models.RoleTeacher}, rbac, ok)
	assert.Equal(t, http.StatusForbidden, doRequest(other, "good").Code)

	admin := newRouter(&models.JWTClaims{UserID: "a1", Role: models.RoleAdmin}, rbac, ok)
	assert.Equal(t, http.StatusOK, doRequest(admin, "good").Code)
}

func TestAuditRecordsSuccessfulRequestsOnly(t *testing.T) {
	repo := &auditStub{err: errors.New("ignored")}
	claims := &models.JWTClaims{UserID: "u1", Role: models.RoleCoordinator}

	router := newRouter(claims, Audit(repo, models.AuditActionSchedulingRun, "teacher_preferences", "teacherId"), ok)
	require.Equal(t, http.StatusOK, doRequest(router, "good").Code)
	require.Len(t, repo.logs, 1)
	assert.Equal(t, "u1", *repo.logs[0].UserID)
	assert.Equal(t, "t1", *repo.logs[0].ResourceID)
	assert.Contains(t, string(repo.logs[0].NewValues), `"status":200`)

	failing := newRouter(claims, Audit(repo, models.AuditActionSchedulingRun, "teacher_preferences", "teacherId"), func(c *gin.Context) {
		c.Status(http.StatusConflict)
	})
	doRequest(failing, "good")
	assert.Len(t, repo.logs, 1)
}

func TestAuditCopiesRunIDFromMeta(t *testing.T) {
	repo := &auditStub{}
	claims := &models.JWTClaims{UserID: "u1", Role: models.RoleCoordinator}
	router := newRouter(claims, Audit(repo, models.AuditActionSchedulingRun, models.AuditResourcePlan, ""), func(c *gin.Context) {
		SetMeta(c, "runId", "run-42")
		c.Status(http.StatusAccepted)
	})

	require.Equal(t, http.StatusAccepted, doRequest(router, "good").Code)
	require.Len(t, repo.logs, 1)
	assert.Nil(t, repo.logs[0].ResourceID)
	assert.Equal(t, models.AuditResourcePlan, repo.logs[0].Resource)
	assert.Contains(t, string(repo.logs[0].NewValues), `"runId":"run-42"`)
}

func TestResponseMetaCarriesCacheHitAndTiming(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	var meta map[string]interface{}
	router.GET("/x", Metrics(nil), WithResponseMeta(), func(c *gin.Context) {
		SetCacheHit(c, true)
		meta = ExtractMeta(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, meta[cacheHitKey])
	assert.Contains(t, meta, processingKey)
}
