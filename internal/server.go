package internal

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewServer assembles the HTTP surface over a Service: ask, rebuild and
// gate endpoints plus health and metrics. Rebuilds swap the index handle,
// so requests in flight never observe a partial build.
func NewServer(svc *Service) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	httpLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		httpLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]any{"error": msg})
		}
	}

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	h := &APIHandler{svc: svc}
	h.Register(e.Group("/api"))

	return e
}

type APIHandler struct {
	svc *Service
}

func (h *APIHandler) Register(g *echo.Group) {
	g.POST("/ask", h.ask)
	g.POST("/rebuild", h.rebuild)
	g.POST("/gate", h.gate)
	g.GET("/status", h.status)
}

type askRequest struct {
	Query string `json:"query"`
}

type askResponse struct {
	ID       string        `json:"id"`
	Query    string        `json:"query"`
	Answer   string        `json:"answer"`
	Mode     Mode          `json:"mode"`
	Passages []passageJSON `json:"passages,omitempty"`
}

type passageJSON struct {
	ID     string  `json:"id"`
	Source string  `json:"source"`
	Text   string  `json:"text"`
	Score  float32 `json:"score"`
}

func (h *APIHandler) ask(c echo.Context) error {
	var req askRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}

	answer, err := h.svc.Ask(c.Request().Context(), req.Query)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoIndex):
			return echo.NewHTTPError(http.StatusConflict, "no index built, rebuild first")
		case errors.Is(err, ErrModelMismatch), errors.Is(err, ErrDimensionMismatch):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, ErrGenerationUnavailable):
			return echo.NewHTTPError(http.StatusBadGateway, err.Error())
		default:
			return err
		}
	}

	resp := askResponse{
		ID:     answer.ID,
		Query:  answer.Query,
		Answer: answer.Text,
		Mode:   answer.Mode,
	}
	for _, sp := range answer.Passages {
		resp.Passages = append(resp.Passages, passageJSON{
			ID:     sp.Passage.ID,
			Source: sp.Passage.Source,
			Text:   sp.Passage.Text,
			Score:  sp.Score,
		})
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *APIHandler) rebuild(c echo.Context) error {
	info, err := h.svc.Rebuild(c.Request().Context())
	if err != nil {
		if errors.Is(err, ErrSourceNotFound) || errors.Is(err, ErrEmptyCorpus) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		}
		return err
	}
	return c.JSON(http.StatusOK, info)
}

func (h *APIHandler) gate(c echo.Context) error {
	report, err := h.svc.RunGate(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

func (h *APIHandler) status(c echo.Context) error {
	info, err := h.svc.Status()
	if errors.Is(err, ErrNoIndex) {
		return echo.NewHTTPError(http.StatusNotFound, "no index built")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, info)
}
