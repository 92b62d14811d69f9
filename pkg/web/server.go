package web

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/jakechorley/hopeconnect/internal/config"
	"github.com/jakechorley/hopeconnect/pkg/core/model"
	"github.com/jakechorley/hopeconnect/pkg/core/services"
)

//go:embed templates/*.html
var templateFiles embed.FS

//go:embed static
var staticFiles embed.FS

// Registry is what the server needs from a Prometheus registry: somewhere to
// register collectors and something to gather them from for /metrics
type Registry interface {
	prometheus.Registerer
	prometheus.Gatherer
}

// Server renders the site pages and hosts the volunteer application form
type Server struct {
	echo   *echo.Echo
	config *config.Config
	logger *zap.Logger
	clock  clockwork.Clock

	templates     *template.Template
	opportunities []model.Opportunity
	visits        *VisitRegistry

	registry    Registry
	httpMetrics *HTTPMetrics
	formMetrics *FormMetrics

	startTime time.Time
}

// NewServer parses the page templates and wires the routes.
// Every volunteer page visit gets its own form submitting through submitter.
func NewServer(cfg *config.Config, logger *zap.Logger, clock clockwork.Clock, submitter services.Submitter, registry Registry) (*Server, error) {
	templates, err := template.New("site").Funcs(templateFuncs).ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	visits := NewVisitRegistry(clock, cfg.VisitTTL, cfg.MaxVisits, func(notifier services.Notifier) *services.ApplicationForm {
		return services.NewApplicationForm(submitter, notifier, logger)
	}, logger)

	srv := &Server{
		echo:          e,
		config:        cfg,
		logger:        logger,
		clock:         clock,
		templates:     templates,
		opportunities: cfg.SiteOpportunities(),
		visits:        visits,
		registry:      registry,
		httpMetrics:   NewHTTPMetrics(registry),
		formMetrics: NewFormMetrics(registry, func() float64 {
			return float64(visits.Len())
		}),
		startTime: clock.Now(),
	}

	e.HTTPErrorHandler = srv.handleError
	srv.registerRoutes()

	return srv, nil
}

// Visits exposes the registry so the caller can run its sweeper
func (s *Server) Visits() *VisitRegistry {
	return s.visits
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start listens on the configured address. It returns nil once Shutdown has been called.
func (s *Server) Start() error {
	s.logger.Info("Starting server", zap.String("addr", s.config.Addr))
	if err := s.echo.Start(s.config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

func (s *Server) renderTemplate(c echo.Context, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("Template execution failed", zap.String("template", name), zap.String("path", c.Request().URL.Path), zap.Error(err))
		if err := c.String(http.StatusInternalServerError, "Failed to render page"); err != nil {
			return fmt.Errorf("failed to send error response: %w", err)
		}
		return nil
	}
	if err := c.HTMLBlob(status, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to send HTML response: %w", err)
	}
	return nil
}

// handleError replaces echo's default error handler so failures are logged through zap
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(code)
		}
	}

	fields := []zap.Field{
		zap.String("method", c.Request().Method),
		zap.String("path", c.Request().URL.Path),
		zap.Int("status", code),
		zap.Error(err),
	}
	if code >= http.StatusInternalServerError {
		s.logger.Error("Request failed", fields...)
	} else {
		s.logger.Debug("Request rejected", fields...)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, map[string]string{"error": message})
	}
	if err != nil {
		s.logger.Error("Failed to write error response", zap.Error(err))
	}
}

func staticFS() fs.FS {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("static assets missing from build: %v", err))
	}
	return sub
}

var templateFuncs = template.FuncMap{
	"sessionDate": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("Mon 2 Jan, 15:04")
	},
}
