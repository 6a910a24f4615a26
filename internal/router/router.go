package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/academia-backend/internal/config"
	"github.com/stemsi/academia-backend/internal/handler"
	"github.com/stemsi/academia-backend/internal/metrics"
	"github.com/stemsi/academia-backend/internal/middleware"
	"github.com/stemsi/academia-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Student   *handler.StudentHandler
	Professor *handler.ProfessorHandler
	Subject   *handler.SubjectHandler
	Lecture   *handler.LectureHandler
	WS        *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	handlers *Handlers,
	cfg *config.Config,
	m *metrics.Metrics,
	limiter *middleware.RateLimiter,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Metrics(m))
	router.Use(middleware.Brotli())

	router.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, response.ErrRouteNotFound)
	})

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(m.Handler()))

	api := router.Group("")
	api.Use(middleware.CacheControl("no-store"), limiter.WriteMiddleware())

	// ─── 1. Students ───────────────────────────────────────────────────
	students := api.Group("/students")
	{
		students.POST("", handlers.Student.Join)
		students.GET("", handlers.Student.List)
		students.GET("/:id", handlers.Student.Get)
		students.GET("/major/:major", handlers.Student.ListByMajor)
		students.PUT("/:id", handlers.Student.Modify)
		students.DELETE("/:id", handlers.Student.Delete)
	}

	// ─── 2. Professors ─────────────────────────────────────────────────
	professors := api.Group("/professors")
	{
		professors.POST("", handlers.Professor.Join)
		professors.GET("", handlers.Professor.List)
		professors.GET("/:id", handlers.Professor.Get)
		professors.GET("/major/:major", handlers.Professor.ListByMajor)
		professors.GET("/subjects/:major", handlers.Professor.ListByMajor)
		professors.PUT("/:id", handlers.Professor.Modify)
		professors.DELETE("/:id", handlers.Professor.Delete)
	}

	// ─── 3. Education ──────────────────────────────────────────────────
	education := api.Group("/education")
	{
		subjects := education.Group("/subjects")
		subjects.POST("", handlers.Subject.Apply)
		subjects.GET("", handlers.Subject.List)
		subjects.GET("/:id", handlers.Subject.Get)
		subjects.PUT("/:id", handlers.Subject.Modify)
		subjects.DELETE("/:id", handlers.Subject.Delete)

		// Every lecture route names its first segment :id; on creation it is
		// the subject id.
		lectures := education.Group("/lectures")
		lectures.GET("", handlers.Lecture.List)
		lectures.GET("/:id", handlers.Lecture.Get)
		lectures.POST("/:id", handlers.Lecture.Create)
		lectures.PUT("/:id", handlers.Lecture.Modify)
		lectures.DELETE("/:id", handlers.Lecture.Delete)
		lectures.POST("/:id/attendedSubject/students/:studentId", handlers.Lecture.ApplyAttendedSubject)
		lectures.DELETE("/:id/attendedSubject/:attendedId", handlers.Lecture.RemoveAttendedSubject)
	}

	// ─── 4. WebSocket ──────────────────────────────────────────────────
	ws := router.Group("/ws/v1")
	{
		ws.GET("/education/lectures/:id/stream", handlers.WS.LectureStream)
	}

	return router
}
