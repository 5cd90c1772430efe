package server

import (
	"html/template"
	"io"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"AINutritionist/internal/metrics"
	"AINutritionist/internal/utility"
	"AINutritionist/web"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// TemplateRenderer is a custom html/template renderer for Echo framework
type TemplateRenderer struct {
	templates *template.Template
}

// NewTemplateRenderer parses the embedded page templates.
func NewTemplateRenderer() *TemplateRenderer {
	return &TemplateRenderer{
		templates: template.Must(template.ParseFS(web.Templates, "templates/*.html")),
	}
}

// Render renders a template document
func (t *TemplateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return t.templates.ExecuteTemplate(w, name, data)
}

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	e.HideBanner = true
	e.Renderer = NewTemplateRenderer()

	e.Use(middleware.Recover())
	e.Use(LoggerMiddleware)
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		// Run the error handler first so v.Status carries the code actually sent.
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			metrics.RecordHTTPRequestDuration(v.Method, c.Path(), strconv.Itoa(v.Status), v.Latency)
			utility.GetLoggerFromContext(c).Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("ip", utility.GetRealIP(c)).
				Msg("request")
			return nil
		},
	}))

	// Dashboard pages
	e.GET("/", s.dashboard.DashboardHandler)
	e.POST("/tip", s.dashboard.TipHandler)

	// JSON API
	api := e.Group("/api")
	api.GET("/dashboard", s.dashboard.DashboardAPIHandler)
	api.POST("/tip", s.dashboard.TipAPIHandler)

	// Operations
	e.GET("/health", s.healthHandler)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}

func (s *Server) healthHandler(c echo.Context) error {
	stats := map[string]string{
		"status":     "up",
		"uptime":     time.Since(s.startedAt).Round(time.Second).String(),
		"goroutines": strconv.Itoa(runtime.NumGoroutine()),
	}

	if v, err := mem.VirtualMemory(); err == nil {
		stats["memory_used_percent"] = strconv.FormatFloat(v.UsedPercent, 'f', 1, 64)
	}
	if cpuPercent, err := cpu.Percent(0, false); err == nil && len(cpuPercent) > 0 {
		stats["cpu_percent"] = strconv.FormatFloat(cpuPercent[0], 'f', 1, 64)
	}

	return c.JSON(http.StatusOK, stats)
}

// LoggerMiddleware tags every request with an id and a child logger.
func LoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Response().Header().Set("X-Request-ID", requestID)

		logger := log.With().Str("request_id", requestID).Logger()

		c.Set("logger", &logger)

		return next(c)
	}
}
