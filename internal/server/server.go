package server

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/matheuskafuri/benkyou/internal/config"
	"github.com/matheuskafuri/benkyou/internal/session"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

const (
	indexPage = "index.html"
	learnPage = "learn.html"
)

type Options struct {
	Aggregator Aggregator
	Sessions   *session.Manager
	Pages      config.Pages
	// Static holds the prebuilt HTML/CSS/JS assets served at the root.
	Static fs.FS
	Logger *slog.Logger
	// LoginRate and LoginBurst limit login attempts per client IP.
	LoginRate  rate.Limit
	LoginBurst int
}

type Server struct {
	echo *echo.Echo
}

func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.LoginRate == 0 {
		opts.LoginRate = 30.0 / 60.0 // 30 req/min
	}
	if opts.LoginBurst == 0 {
		opts.LoginBurst = 5
	}

	h := &handlers{
		agg:      opts.Aggregator,
		sessions: opts.Sessions,
		pages:    opts.Pages,
		static:   opts.Static,
		logger:   opts.Logger,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newRequestValidator()

	e.Use(middleware.Recover())
	e.Use(requestLogger(opts.Logger))
	e.Use(securityHeaders())
	e.Use(middleware.CORS())

	e.GET("/ping", h.ping)
	e.GET("/health", h.health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")
	api.GET("/concepts", h.concepts)
	api.GET("/examples", h.examples)
	api.GET("/session", h.session)

	loginRL := newRateLimiter(opts.LoginRate, opts.LoginBurst)
	e.POST("/login", h.login, loginRL.middleware())
	e.Match([]string{http.MethodGet, http.MethodPost}, "/logout", h.logout)

	e.GET("/", h.protectedPage(indexPage))
	e.GET("/"+indexPage, h.protectedPage(indexPage))
	e.GET("/"+learnPage, h.protectedPage(learnPage))
	public := withoutFiles{fsys: opts.Static, hidden: []string{indexPage, learnPage}}
	e.GET("/*", echo.StaticDirectoryHandler(public, false))

	return &Server{echo: e}
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until Shutdown; it returns http.ErrServerClosed
// after a clean shutdown.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
