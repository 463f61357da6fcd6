package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cgmis/guidance/internal/app/models/dto"
	"github.com/cgmis/guidance/internal/app/services"
	"github.com/cgmis/guidance/internal/middleware"
)

// SessionController handles counseling session endpoints
type SessionController struct {
	sessionService services.SessionService
}

// NewSessionController creates a new SessionController
func NewSessionController(sessionService services.SessionService) *SessionController {
	return &SessionController{sessionService: sessionService}
}

// ListSessions retrieves all sessions
// @Summary List counseling sessions
// @Description Most recent session date first, with the student's name
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.CounselingSession "Sessions retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Router /sessions [get]
func (c *SessionController) ListSessions(ctx *gin.Context) {
	sessions, err := c.sessionService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, sessions)
}

// ListStudentSessions retrieves the sessions of one student
// @Summary List a student's sessions
// @Description Returns an empty list for students without sessions
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {array} models.CounselingSession "Sessions retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Router /sessions/students/{id} [get]
func (c *SessionController) ListStudentSessions(ctx *gin.Context) {
	studentID, ok := parseIDParam(ctx, "id", "student")
	if !ok {
		return
	}

	sessions, err := c.sessionService.ListByStudent(ctx.Request.Context(), studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, sessions)
}

// GetSession retrieves a session by ID
// @Summary Get counseling session by ID
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Success 200 {object} models.CounselingSession "Session retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid session ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /sessions/{id} [get]
func (c *SessionController) GetSession(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "session")
	if !ok {
		return
	}

	session, err := c.sessionService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, session)
}

// CreateSession logs a counseling session
// @Summary Log a counseling session
// @Description Duration defaults to 45 minutes and type to "individual"
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSessionRequest true "Session information"
// @Success 201 {object} models.CounselingSession "Session created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Admin or staff role required"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /sessions [post]
func (c *SessionController) CreateSession(ctx *gin.Context) {
	var req dto.CreateSessionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	session, err := c.sessionService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, session)
}

// UpdateSession applies a partial update
// @Summary Update a counseling session
// @Description Only supplied fields change; a new student_id must reference an existing student
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Param request body dto.UpdateSessionRequest true "Fields to change"
// @Success 200 {object} models.CounselingSession "Session updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Admin or staff role required"
// @Failure 404 {object} dto.ErrorResponse "Session or student not found"
// @Router /sessions/{id} [put]
func (c *SessionController) UpdateSession(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "session")
	if !ok {
		return
	}
	var req dto.UpdateSessionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	session, err := c.sessionService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, session)
}

// DeleteSession removes a session
// @Summary Delete a counseling session
// @Tags sessions
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Success 204 "Session deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid session ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Admin or staff role required"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /sessions/{id} [delete]
func (c *SessionController) DeleteSession(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "session")
	if !ok {
		return
	}

	if err := c.sessionService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
