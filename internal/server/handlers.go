package server

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/matheuskafuri/benkyou/internal/aggregator"
	"github.com/matheuskafuri/benkyou/internal/config"
	"github.com/matheuskafuri/benkyou/internal/metrics"
	"github.com/matheuskafuri/benkyou/internal/session"
)

// Aggregator is the part of aggregator.Aggregator the handlers use.
type Aggregator interface {
	ListConcepts(track string) aggregator.ConceptList
	Examples(ctx context.Context, q aggregator.Query) ([]aggregator.Article, error)
}

type handlers struct {
	agg      Aggregator
	sessions *session.Manager
	pages    config.Pages
	static   fs.FS
	logger   *slog.Logger
}

func (h *handlers) ping(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

func (h *handlers) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *handlers) concepts(c echo.Context) error {
	return c.JSON(http.StatusOK, h.agg.ListConcepts(c.QueryParam("track")))
}

type examplesRequest struct {
	Concepts []string `query:"concept"`
	Track    string   `query:"track"`
	Days     int      `query:"days" validate:"min=1,max=365"`
	Limit    int      `query:"limit" validate:"min=1,max=100"`
}

func (h *handlers) examples(c echo.Context) error {
	req := examplesRequest{Days: aggregator.DefaultDays, Limit: aggregator.DefaultLimit}
	err := echo.QueryParamsBinder(c).
		Strings("concept", &req.Concepts).
		String("track", &req.Track).
		Int("days", &req.Days).
		Int("limit", &req.Limit).
		BindError()
	if err != nil {
		var be *echo.BindingError
		if errors.As(err, &be) {
			return unprocessable(c, be.Field+" must be an integer")
		}
		return unprocessable(c, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return unprocessable(c, err.Error())
	}

	articles, err := h.agg.Examples(c.Request().Context(), aggregator.Query{
		Concepts: req.Concepts,
		Track:    req.Track,
		Days:     req.Days,
		Limit:    req.Limit,
	})
	if errors.Is(err, aggregator.ErrInvalidQuery) {
		return unprocessable(c, err.Error())
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, articles)
}

func unprocessable(c echo.Context, detail string) error {
	return c.JSON(http.StatusUnprocessableEntity, map[string]string{"detail": detail})
}

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

func (h *handlers) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		// an unreadable body is just a failed login
		req = loginRequest{}
	}

	outcome := session.Authenticate(req.Username, req.Password)
	if !outcome.OK {
		// a failed attempt also signs out whoever was signed in
		if err := h.sessions.End(c.Response(), c.Request()); err != nil {
			h.logger.WarnContext(c.Request().Context(), "clearing session after rejected login failed", "error", err)
		}
		metrics.RecordLogin("rejected")
		h.logger.InfoContext(c.Request().Context(), "login rejected", "login", req.Username)
		return c.Redirect(http.StatusSeeOther, h.pages.Login+"?error=1")
	}

	if err := h.sessions.Start(c.Response(), c.Request(), outcome.User); err != nil {
		return err
	}
	metrics.RecordLogin("accepted")
	h.logger.InfoContext(c.Request().Context(), "login accepted", "login", outcome.User.Login)

	if outcome.Destination == session.DestinationOnboarding {
		return c.Redirect(http.StatusSeeOther, h.pages.Onboarding)
	}
	return c.Redirect(http.StatusSeeOther, h.pages.Main)
}

func (h *handlers) logout(c echo.Context) error {
	if err := h.sessions.End(c.Response(), c.Request()); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, h.pages.Login)
}

type sessionResponse struct {
	Authenticated bool          `json:"authenticated"`
	User          *session.User `json:"user"`
}

func (h *handlers) session(c echo.Context) error {
	u, ok := h.currentUser(c)
	if !ok {
		return c.JSON(http.StatusOK, sessionResponse{})
	}
	return c.JSON(http.StatusOK, sessionResponse{Authenticated: true, User: &u})
}

// protectedPage serves file from the static directory to signed-in users
// who are past onboarding.
func (h *handlers) protectedPage(file string) echo.HandlerFunc {
	return func(c echo.Context) error {
		u, ok := h.currentUser(c)
		if !ok {
			return c.Redirect(http.StatusSeeOther, h.pages.Login)
		}
		if u.IsOnboarding() {
			return c.Redirect(http.StatusSeeOther, h.pages.Onboarding)
		}
		return echo.StaticFileHandler(file, h.static)(c)
	}
}

// currentUser treats session store failures as signed out.
func (h *handlers) currentUser(c echo.Context) (session.User, bool) {
	u, ok, err := h.sessions.Current(c.Request())
	if err != nil {
		h.logger.WarnContext(c.Request().Context(), "reading session failed", "error", err)
		return session.User{}, false
	}
	return u, ok
}
