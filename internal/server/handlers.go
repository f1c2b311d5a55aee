package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/julianstephens/bamboocare/internal/care"
	"github.com/julianstephens/bamboocare/internal/constants"
	"github.com/julianstephens/bamboocare/internal/logger"
	"github.com/julianstephens/bamboocare/internal/models"
	"github.com/julianstephens/bamboocare/internal/storage"
	"github.com/julianstephens/bamboocare/internal/utils"
)

type errorResponse struct {
	Error string `json:"error"`
}

type careRequest struct {
	Type  string `json:"type"`
	Date  string `json:"date"`
	Notes string `json:"notes"`
}

type postponeRequest struct {
	Days int `json:"days"`
}

type postponeResponse struct {
	Changed bool             `json:"changed"`
	Status  care.PlantStatus `json:"status"`
}

type weatherResponse struct {
	Snapshot any      `json:"snapshot"`
	Alerts   []string `json:"alerts"`
}

func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	msg := err.Error()

	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		status = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		}
	case errors.Is(err, storage.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, care.ErrUnknownSpecies):
		status = http.StatusBadRequest
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "uri", c.Request().RequestURI, "error", err)
	}
	if err := c.JSON(status, errorResponse{Error: msg}); err != nil {
		logger.Warn("failed to write error response", "error", err)
	}
}

func badRequest(msg string) error {
	return echo.NewHTTPError(http.StatusBadRequest, msg)
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": constants.Version,
		"storage": s.svc.Store().GetConfigPath(),
	})
}

func (s *Server) dashboard(c echo.Context) error {
	board, err := s.svc.Dashboard(c.Request().Context())
	if err != nil {
		return err
	}
	if board == nil {
		board = []care.PlantStatus{}
	}
	return c.JSON(http.StatusOK, board)
}

func (s *Server) getPlant(c echo.Context) error {
	p, err := s.svc.GetPlant(c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) plantStatus(c echo.Context) error {
	st, err := s.svc.Status(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, st)
}

func (s *Server) history(c echo.Context) error {
	if _, err := s.svc.GetPlant(c.Param("id")); err != nil {
		return err
	}
	logs, err := s.svc.History(c.Param("id"))
	if err != nil {
		return err
	}
	if logs == nil {
		logs = []models.CareLog{}
	}
	return c.JSON(http.StatusOK, logs)
}

// parseDate accepts an empty string (now), a date, "YYYY-MM-DD HH:MM" or RFC3339.
func (s *Server) parseDate(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, nil
	}
	t, err := utils.ParseDateTimeInLocation(value, s.svc.Calculator().Location())
	if err != nil {
		return time.Time{}, badRequest(err.Error())
	}
	return t, nil
}

func (s *Server) water(c echo.Context) error {
	var req careRequest
	if c.Request().ContentLength > 0 {
		if err := c.Bind(&req); err != nil {
			return badRequest("invalid request body")
		}
	}
	at, err := s.parseDate(req.Date)
	if err != nil {
		return err
	}

	entry, err := s.svc.Water(c.Request().Context(), c.Param("id"), at, req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, entry)
}

func (s *Server) recordCare(c echo.Context) error {
	var req careRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	careType, err := models.ParseCareType(req.Type)
	if err != nil {
		return badRequest(err.Error())
	}
	at, err := s.parseDate(req.Date)
	if err != nil {
		return err
	}

	entry, err := s.svc.Record(c.Request().Context(), c.Param("id"), careType, at, req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, entry)
}

func (s *Server) postpone(c echo.Context) error {
	var req postponeRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if req.Days <= 0 {
		return badRequest("days must be positive")
	}

	ctx := c.Request().Context()
	changed, err := s.svc.Postpone(ctx, c.Param("id"), req.Days)
	if err != nil {
		return err
	}
	st, err := s.svc.Status(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, postponeResponse{Changed: changed, Status: st})
}

func (s *Server) listSpecies(c echo.Context) error {
	all, err := s.svc.ListSpecies()
	if err != nil {
		return err
	}
	if all == nil {
		all = []models.Species{}
	}
	return c.JSON(http.StatusOK, all)
}

func (s *Server) weather(c echo.Context) error {
	snap, alerts := s.svc.Weather(c.Request().Context())
	if alerts == nil {
		alerts = []string{}
	}
	resp := weatherResponse{Alerts: alerts}
	if snap != nil {
		resp.Snapshot = snap
	}
	return c.JSON(http.StatusOK, resp)
}
