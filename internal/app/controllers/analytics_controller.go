package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cgmis/guidance/internal/app/models/dto"
	"github.com/cgmis/guidance/internal/app/services"
	"github.com/cgmis/guidance/internal/middleware"
)

// AnalyticsController serves the dashboard metrics and analytics endpoints
type AnalyticsController struct {
	analyticsService services.AnalyticsService
}

// NewAnalyticsController creates a new AnalyticsController
func NewAnalyticsController(analyticsService services.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{analyticsService: analyticsService}
}

// Dashboard returns the dashboard payload
// @Summary Dashboard metrics
// @Description Totals, completion rate, interest and counselor breakdowns and the five most recent sessions
// @Tags metrics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Dashboard "Dashboard computed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /metrics/dashboard [get]
func (c *AnalyticsController) Dashboard(ctx *gin.Context) {
	d, err := c.analyticsService.Dashboard(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, d)
}

// SessionsByCounselor returns session counts per counselor
// @Summary Sessions by counselor
// @Tags metrics
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.CounselorCount "Counts computed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /metrics/sessions-by-counselor [get]
func (c *AnalyticsController) SessionsByCounselor(ctx *gin.Context) {
	out, err := c.analyticsService.SessionsByCounselor(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, out)
}

// StudentsByInterest returns student counts per career interest
// @Summary Students by career interest
// @Tags metrics
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.InterestCount "Counts computed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /metrics/students-by-interest [get]
func (c *AnalyticsController) StudentsByInterest(ctx *gin.Context) {
	out, err := c.analyticsService.StudentsByInterest(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, out)
}

// Overview returns the range-filtered analytics overview
// @Summary Analytics overview
// @Description Start and end dates are optional and independent; they filter sessions only
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param startDate query string false "Inclusive lower bound (YYYY-MM-DD)"
// @Param endDate query string false "Inclusive upper bound (YYYY-MM-DD)"
// @Success 200 {object} models.AnalyticsOverview "Overview computed"
// @Failure 400 {object} dto.ErrorResponse "Invalid date"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /analytics/overview [get]
func (c *AnalyticsController) Overview(ctx *gin.Context) {
	var filter dto.AnalyticsFilter
	if !middleware.BindQuery(ctx, &filter) {
		return
	}

	out, err := c.analyticsService.Overview(ctx.Request.Context(), &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, out)
}

// StudentInsights returns per-student counseling summaries
// @Summary Student insights
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param studentId query int false "Restrict to one student"
// @Success 200 {array} models.StudentInsight "Insights computed"
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /analytics/student-insights [get]
func (c *AnalyticsController) StudentInsights(ctx *gin.Context) {
	var filter dto.StudentInsightsFilter
	if !middleware.BindQuery(ctx, &filter) {
		return
	}

	out, err := c.analyticsService.StudentInsights(ctx.Request.Context(), &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, out)
}
