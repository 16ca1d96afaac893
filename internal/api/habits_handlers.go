package api

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Yassen717/HabitFlow/internal/service"
	"github.com/Yassen717/HabitFlow/pkg/entity"
	"github.com/Yassen717/HabitFlow/pkg/httputil"
)

// Layout of from/to query parameters
const dateLayout = "2006-01-02"

type HabitLogsResponse struct {
	HabitID uuid.UUID              `json:"habitId"`
	Logs    []entity.CompletionLog `json:"logs"`
}

// habitRequestCtx extracts the caller and the {id} path parameter. On
// failure the response is already written.
func (s *Server) habitRequestCtx(w http.ResponseWriter, r *http.Request, op string) (uid, habitID uuid.UUID, ok bool) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error(op + " error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return uuid.Nil, uuid.Nil, false
	}
	habitID, err = uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		logger.Error(op+" error: invalid habit id", slog.String("id", chi.URLParam(r, "id")))
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit id", nil)
		return uuid.Nil, uuid.Nil, false
	}
	return uid, habitID, true
}

func (s *Server) CreateHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("create habit error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req service.CreateHabitRequest
	if err = decodeBody(r, &req); err != nil {
		logger.Error("create habit error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()
	res, err := s.habitsService.CreateHabit(ctx, uid, &req)
	if err != nil {
		writeServiceError(w, logger, "creating habit", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, res)
	logger.Info("habit created", slog.String("habit_id", res.Habit.ID.String()))
}

// GetHabits answers a page of caller's habits. Page and limit query params
// are optional; malformed values fall back to defaults.
func (s *Server) GetHabits(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get habits error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()
	res, err := s.habitsService.GetUserHabits(ctx, uid, service.PaginationOpts{Page: page, Limit: limit})
	if err != nil {
		writeServiceError(w, logger, "getting habits", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, res)
}

func (s *Server) GetHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, habitID, ok := s.habitRequestCtx(w, r, "get habit")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()
	habit, err := s.habitsService.GetHabit(ctx, habitID, uid)
	if err != nil {
		writeServiceError(w, logger, "getting habit", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, habit)
}

func (s *Server) UpdateHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, habitID, ok := s.habitRequestCtx(w, r, "update habit")
	if !ok {
		return
	}
	var req service.UpdateHabitRequest
	if err := decodeBody(r, &req); err != nil {
		logger.Error("update habit error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()
	habit, err := s.habitsService.UpdateHabit(ctx, habitID, uid, &req)
	if err != nil {
		writeServiceError(w, logger, "updating habit", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, habit)
	logger.Info("habit updated", slog.String("habit_id", habitID.String()))
}

func (s *Server) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, habitID, ok := s.habitRequestCtx(w, r, "delete habit")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()
	if err := s.habitsService.DeleteHabit(ctx, habitID, uid); err != nil {
		writeServiceError(w, logger, "deleting habit", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, MessageResponse{Message: "Habit deleted successfully"})
	logger.Info("habit deleted", slog.String("habit_id", habitID.String()))
}

// CheckIn logs today's completion. The body is optional.
func (s *Server) CheckIn(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, habitID, ok := s.habitRequestCtx(w, r, "check-in")
	if !ok {
		return
	}
	var req service.CheckInRequest
	body, err := io.ReadAll(r.Body)
	r.Body.Close()
	if err == nil && len(bytes.TrimSpace(body)) > 0 {
		err = sonic.Unmarshal(body, &req)
	}
	if err != nil {
		logger.Error("check-in error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()
	res, err := s.checkInService.CheckIn(ctx, habitID, uid, &req)
	if err != nil {
		writeServiceError(w, logger, "logging habit", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, res)
	logger.Info("habit logged",
		slog.String("habit_id", habitID.String()),
		slog.Int("user_points", res.UserPoints),
		slog.Int("new_achievements", len(res.NewAchievements)),
	)
}

// GetHabitLogs answers logs within [from, to]. Both bounds are optional
// YYYY-MM-DD dates.
func (s *Server) GetHabitLogs(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, habitID, ok := s.habitRequestCtx(w, r, "get habit logs")
	if !ok {
		return
	}
	from, err := parseDateParam(r, "from")
	if err != nil {
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid 'from' date, expected YYYY-MM-DD", nil)
		return
	}
	to, err := parseDateParam(r, "to")
	if err != nil {
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid 'to' date, expected YYYY-MM-DD", nil)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()
	logs, err := s.checkInService.GetHabitLogs(ctx, habitID, uid, from, to)
	if err != nil {
		writeServiceError(w, logger, "getting habit logs", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, HabitLogsResponse{HabitID: habitID, Logs: logs})
}

func (s *Server) GetHabitStats(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, habitID, ok := s.habitRequestCtx(w, r, "get habit stats")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()
	stats, err := s.checkInService.GetHabitStats(ctx, habitID, uid)
	if err != nil {
		writeServiceError(w, logger, "getting habit stats", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, stats)
}

// parseDateParam returns the zero time for a missing parameter.
func parseDateParam(r *http.Request, name string) (time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, v)
}
