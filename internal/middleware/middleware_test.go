package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/gin-gonic/gin"

	authz "github.com/cgmis/guidance/internal/app/auth"
	"github.com/cgmis/guidance/internal/app/models"
	"github.com/cgmis/guidance/internal/app/models/dto"
	"github.com/cgmis/guidance/internal/pkg/apperrors"
	"github.com/cgmis/guidance/internal/pkg/auth"
	"github.com/cgmis/guidance/internal/pkg/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeError(c *qt.C, rec *httptest.ResponseRecorder) dto.ErrorResponse {
	var body dto.ErrorResponse
	c.Assert(json.Unmarshal(rec.Body.Bytes(), &body), qt.IsNil)
	return body
}

func TestHandleAPIErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   dto.ErrorCode
		wantMsg    string
	}{
		{"validation", apperrors.NewValidationError("Invalid request").Add("first_name", "is required"), 400, dto.ErrorCodeValidationFailed, "Invalid request"},
		{"bad request", apperrors.NewBadRequestError("Invalid student ID"), 400, dto.ErrorCodeValidationFailed, "Invalid student ID"},
		{"reference", apperrors.ErrStudentReferenceMissing, 400, dto.ErrorCodeReferenceMissing, "Referenced student not found"},
		{"credentials", apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "Invalid credentials"), 401, dto.ErrorCodeInvalidCredentials, "Invalid credentials"},
		{"missing token", apperrors.ErrTokenMissing, 401, dto.ErrorCodeMissingToken, "Missing token"},
		{"expired token", apperrors.ErrTokenExpired, 401, dto.ErrorCodeExpiredToken, "Invalid or expired token"},
		{"invalid token", fmt.Errorf("%w: bad signature", apperrors.ErrTokenInvalid), 401, dto.ErrorCodeInvalidToken, "Invalid or expired token"},
		{"forbidden", apperrors.NewForbiddenError("nope"), 403, dto.ErrorCodeForbidden, "Forbidden"},
		{"not found", apperrors.ErrStudentNotFound, 404, dto.ErrorCodeResourceNotFound, "Student not found"},
		{"wrapped not found", fmt.Errorf("lookup: %w", apperrors.ErrSessionNotFound), 404, dto.ErrorCodeResourceNotFound, "Session not found"},
		{"conflict", apperrors.ErrEmailAlreadyExists, 409, dto.ErrorCodeResourceAlreadyExists, "Email already exists"},
		{"internal", errors.New("connection reset"), 500, dto.ErrorCodeInternalServer, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			rec := httptest.NewRecorder()
			ctx, _ := gin.CreateTestContext(rec)
			ctx.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

			HandleAPIError(ctx, tt.err)

			c.Assert(rec.Code, qt.Equals, tt.wantStatus)
			body := decodeError(c, rec)
			c.Assert(body.Success, qt.IsFalse)
			c.Assert(body.Message, qt.Equals, tt.wantMsg)
			c.Assert(body.Error.Code, qt.Equals, tt.wantCode)
		})
	}
}

func TestHandleAPIErrorListsEveryField(t *testing.T) {
	c := qt.New(t)
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)
	ctx.Request = httptest.NewRequest(http.MethodPost, "/x", nil)

	HandleAPIError(ctx, apperrors.NewValidationError("Invalid request").
		Add("first_name", "is required").
		Add("last_name", "is required"))

	body := decodeError(c, rec)
	c.Assert(body.Error.Fields, qt.DeepEquals, []apperrors.FieldError{
		{Field: "first_name", Message: "is required"},
		{Field: "last_name", Message: "is required"},
	})
}

func TestInternalErrorCarriesDebugInfoOutsideRelease(t *testing.T) {
	c := qt.New(t)
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

	HandleAPIError(ctx, errors.New("boom"))

	body := decodeError(c, rec)
	c.Assert(body.Error.DebugInfo, qt.Equals, "boom")
	c.Assert(body.Error.Severity, qt.Equals, dto.ErrorSeverityCritical)
	c.Assert(body.Error.Stack, qt.Not(qt.Equals), "")
}

func newAuthRouter(c *qt.C) (*gin.Engine, *auth.JWTService) {
	jwtService, err := auth.NewJWTService(auth.JWTConfig{SecretKey: "middleware-secret", AccessTokenExp: time.Hour})
	c.Assert(err, qt.IsNil)
	m := NewAuthMiddleware(jwtService)

	r := gin.New()
	r.GET("/me", m.RequireAuth(), func(ctx *gin.Context) {
		id, _ := UserIDFrom(ctx)
		role, _ := RoleFrom(ctx)
		ctx.JSON(http.StatusOK, gin.H{"id": id, "role": role})
	})
	r.DELETE("/students/:id", m.RequireAuth(), m.RequireCapability(authz.CapStudentsDelete), func(ctx *gin.Context) {
		ctx.Status(http.StatusNoContent)
	})
	r.GET("/no-auth-role", m.RequireRole(models.RoleAdmin), func(ctx *gin.Context) {
		ctx.Status(http.StatusOK)
	})
	return r, jwtService
}

func tokenFor(c *qt.C, svc *auth.JWTService, id int64, role models.Role) string {
	tok, err := svc.Issue(&models.User{ID: id, Email: "u@school.test", Role: role})
	c.Assert(err, qt.IsNil)
	return tok
}

func TestRequireAuth(t *testing.T) {
	c := qt.New(t)
	r, svc := newAuthRouter(c)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantMsg    string
	}{
		{"no header", "", 401, "Missing token"},
		{"bare scheme", "Bearer", 401, "Missing token"},
		{"wrong scheme", "Basic dXNlcjpwYXNz", 401, "Invalid or expired token"},
		{"garbage", "Bearer not.a.token", 401, "Invalid or expired token"},
		{"valid", "Bearer " + tokenFor(c, svc, 7, models.RoleStaff), 200, ""},
	}
	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			c.Assert(rec.Code, qt.Equals, tt.wantStatus)
			if tt.wantStatus != 200 {
				c.Assert(decodeError(c, rec).Message, qt.Equals, tt.wantMsg)
				return
			}
			c.Assert(rec.Body.String(), qt.JSONEquals, map[string]interface{}{"id": 7, "role": "staff"})
		})
	}
}

func TestRequireCapability(t *testing.T) {
	c := qt.New(t)
	r, svc := newAuthRouter(c)

	for role, want := range map[models.Role]int{
		models.RoleAdmin:   http.StatusNoContent,
		models.RoleStaff:   http.StatusForbidden,
		models.RoleTeacher: http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodDelete, "/students/1", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(c, svc, 1, role))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		c.Assert(rec.Code, qt.Equals, want, qt.Commentf("role %s", role))
	}
}

func TestRequireRoleWithoutAuthIsUnauthenticated(t *testing.T) {
	c := qt.New(t)
	r, _ := newAuthRouter(c)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/no-auth-role", nil))
	c.Assert(rec.Code, qt.Equals, http.StatusUnauthorized)
	c.Assert(decodeError(c, rec).Message, qt.Equals, "Unauthenticated")
}

type bindTarget struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

func TestBindJSON(t *testing.T) {
	c := qt.New(t)
	r := gin.New()
	r.POST("/bind", func(ctx *gin.Context) {
		var req bindTarget
		if !BindJSON(ctx, &req) {
			return
		}
		ctx.JSON(http.StatusOK, req)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bind", strings.NewReader(`{"email":"nope"}`)))
	c.Assert(rec.Code, qt.Equals, http.StatusBadRequest)
	body := decodeError(c, rec)
	c.Assert(body.Error.Fields, qt.HasLen, 2)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bind", strings.NewReader(`{"name":`)))
	c.Assert(rec.Code, qt.Equals, http.StatusBadRequest)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bind", strings.NewReader(`{"name":"a","email":"a@b.test"}`)))
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
}

func TestCORS(t *testing.T) {
	c := qt.New(t)
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173"}))
	r.GET("/x", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	c.Assert(rec.Code, qt.Equals, http.StatusNoContent)
	c.Assert(rec.Header().Get("Access-Control-Allow-Origin"), qt.Equals, "http://localhost:5173")
	c.Assert(rec.Header().Get("Access-Control-Allow-Credentials"), qt.Equals, "true")
	c.Assert(rec.Header().Get("Vary"), qt.Equals, "Origin")

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://evil.test")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(rec.Header().Get("Access-Control-Allow-Origin"), qt.Equals, "")
}

func TestCORSWildcardNeverAllowsCredentials(t *testing.T) {
	c := qt.New(t)
	r := gin.New()
	r.Use(CORS([]string{"*"}))
	r.GET("/x", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })

	for _, origin := range []string{"http://localhost:5173", "http://evil.test"} {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Origin", origin)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		c.Assert(rec.Code, qt.Equals, http.StatusOK)
		c.Assert(rec.Header().Get("Access-Control-Allow-Origin"), qt.Equals, "*")
		c.Assert(rec.Header().Get("Access-Control-Allow-Credentials"), qt.Equals, "")
	}
}

func TestRecoveryAndRequestID(t *testing.T) {
	c := qt.New(t)
	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.GET("/panic", func(ctx *gin.Context) { panic("kaboom") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	c.Assert(rec.Code, qt.Equals, http.StatusInternalServerError)
	c.Assert(rec.Header().Get(RequestIDHeader), qt.Not(qt.Equals), "")
	c.Assert(decodeError(c, rec).Message, qt.Equals, "Internal server error")
}

func TestMetricsMiddlewareUsesRouteTemplate(t *testing.T) {
	c := qt.New(t)
	rec := metrics.NewRecorder()
	r := gin.New()
	r.Use(Metrics(rec))
	r.GET("/students/:id", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(rec.Handler()))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/students/42", nil))

	out := httptest.NewRecorder()
	r.ServeHTTP(out, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	c.Assert(out.Body.String(), qt.Contains, `cgmis_http_requests_total{method="GET",route="/students/:id",status="200"} 1`)
}
