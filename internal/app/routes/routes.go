package routes

import (
	"github.com/gin-gonic/gin"

	authz "github.com/cgmis/guidance/internal/app/auth"
	"github.com/cgmis/guidance/internal/app/controllers"
	"github.com/cgmis/guidance/internal/middleware"
	"github.com/cgmis/guidance/internal/pkg/metrics"
)

// Controllers groups every HTTP handler the API mounts
type Controllers struct {
	Auth      *controllers.AuthController
	Users     *controllers.UserController
	Students  *controllers.StudentController
	Sessions  *controllers.SessionController
	Analytics *controllers.AnalyticsController
	Health    *controllers.HealthController
}

// Options selects the optional surfaces of the engine
type Options struct {
	AllowedOrigins []string
	EnableSwagger  bool
	Metrics        *metrics.Recorder
}

// unloggedPaths are polled frequently and kept out of the access log
var unloggedPaths = []string{"/api/health", "/api/health/ready", "/metrics"}

// NewEngine builds the gin engine with the middleware chain and all routes
func NewEngine(opts Options, ctrls *Controllers, authMiddleware *middleware.AuthMiddleware) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(unloggedPaths...),
		middleware.Recovery(),
		middleware.CORS(opts.AllowedOrigins),
	)
	if opts.Metrics != nil {
		router.Use(middleware.Metrics(opts.Metrics))
		router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}
	if opts.EnableSwagger {
		SetupSwagger(router)
	}

	router.NoRoute(middleware.NoRoute)

	SetupRouter(router, ctrls, authMiddleware)
	return router
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, ctrls *Controllers, authMiddleware *middleware.AuthMiddleware) {
	api := router.Group("/api")

	api.GET("/health", ctrls.Health.Health)
	api.GET("/health/ready", ctrls.Health.Ready)

	// --- Public Auth routes ---
	auth := api.Group("/auth")
	{
		auth.POST("/login", ctrls.Auth.Login)
		auth.POST("/register", ctrls.Auth.Register)
	}

	// --- Authenticated Routes Group ---
	authenticated := api.Group("")
	authenticated.Use(authMiddleware.RequireAuth())

	authenticated.GET("/auth/profile", ctrls.Auth.Profile)
	authenticated.POST("/auth/register-admin",
		authMiddleware.RequireCapability(authz.CapCreatePrivilege), ctrls.Auth.RegisterPrivileged)

	users := authenticated.Group("/users")
	users.Use(authMiddleware.RequireCapability(authz.CapUsersManage))
	{
		users.GET("", ctrls.Users.ListUsers)
		users.PUT("/:id/role", ctrls.Users.UpdateRole)
	}

	students := authenticated.Group("/students")
	{
		students.GET("", authMiddleware.RequireCapability(authz.CapStudentsRead), ctrls.Students.ListStudents)
		students.GET("/:id", authMiddleware.RequireCapability(authz.CapStudentsRead), ctrls.Students.GetStudent)
		students.POST("", authMiddleware.RequireCapability(authz.CapStudentsCreate), ctrls.Students.CreateStudent)
		students.PUT("/:id", authMiddleware.RequireCapability(authz.CapStudentsUpdate), ctrls.Students.UpdateStudent)
		students.DELETE("/:id", authMiddleware.RequireCapability(authz.CapStudentsDelete), ctrls.Students.DeleteStudent)
	}

	sessions := authenticated.Group("/sessions")
	{
		read := authMiddleware.RequireCapability(authz.CapSessionsRead)
		write := authMiddleware.RequireCapability(authz.CapSessionsWrite)

		sessions.GET("", read, ctrls.Sessions.ListSessions)
		sessions.GET("/students/:id", read, ctrls.Sessions.ListStudentSessions)
		sessions.GET("/:id", read, ctrls.Sessions.GetSession)
		sessions.POST("", write, ctrls.Sessions.CreateSession)
		sessions.PUT("/:id", write, ctrls.Sessions.UpdateSession)
		sessions.DELETE("/:id", write, ctrls.Sessions.DeleteSession)
	}

	analyticsRead := authMiddleware.RequireCapability(authz.CapAnalyticsRead)

	metricsGroup := authenticated.Group("/metrics")
	metricsGroup.Use(analyticsRead)
	{
		metricsGroup.GET("/dashboard", ctrls.Analytics.Dashboard)
		metricsGroup.GET("/sessions-by-counselor", ctrls.Analytics.SessionsByCounselor)
		metricsGroup.GET("/students-by-interest", ctrls.Analytics.StudentsByInterest)
	}

	analytics := authenticated.Group("/analytics")
	analytics.Use(analyticsRead)
	{
		analytics.GET("/overview", ctrls.Analytics.Overview)
		analytics.GET("/student-insights", ctrls.Analytics.StudentInsights)
	}
}
