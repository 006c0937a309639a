package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rocketscienceinc/tictactoe-series/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-series/internal/entity"
	"github.com/rocketscienceinc/tictactoe-series/internal/usecase"
)

type moveRequest struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

type moveResponse struct {
	Match  *entity.Match      `json:"match"`
	Result entity.RoundResult `json:"result"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *Server) handleCreateMatch(w http.ResponseWriter, r *http.Request) {
	var setup usecase.Setup
	if err := json.NewDecoder(r.Body).Decode(&setup); err != nil {
		that.respondError(w, r, http.StatusBadRequest, err)
		return
	}

	match, err := that.matches.CreateMatch(r.Context(), setup)
	if err != nil {
		that.respondError(w, r, statusFor(err), err)
		return
	}

	respondJSON(w, http.StatusCreated, match)
}

func (that *Server) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	match, err := that.matches.GetMatch(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.respondError(w, r, statusFor(err), err)
		return
	}

	respondJSON(w, http.StatusOK, match)
}

func (that *Server) handleEndMatch(w http.ResponseWriter, r *http.Request) {
	if err := that.matches.EndMatch(r.Context(), chi.URLParam(r, "id")); err != nil {
		that.respondError(w, r, statusFor(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *Server) handlePlayRound(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.respondError(w, r, http.StatusBadRequest, err)
		return
	}

	if req.Row == nil || req.Col == nil {
		that.respondError(w, r, http.StatusBadRequest, apperror.ErrInvalidCell)
		return
	}

	match, result, err := that.matches.PlayRound(r.Context(), chi.URLParam(r, "id"), *req.Row, *req.Col)
	if err != nil {
		that.respondError(w, r, statusFor(err), err)
		return
	}

	respondJSON(w, http.StatusOK, moveResponse{Match: match, Result: result})
}

func (that *Server) handleAvailableMoves(w http.ResponseWriter, r *http.Request) {
	moves, err := that.matches.AvailableMoves(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.respondError(w, r, statusFor(err), err)
		return
	}

	respondJSON(w, http.StatusOK, moves)
}

func (that *Server) handleResetRound(w http.ResponseWriter, r *http.Request) {
	match, err := that.matches.ResetRound(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.respondError(w, r, statusFor(err), err)
		return
	}

	respondJSON(w, http.StatusOK, match)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrMatchNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrCellOccupied), errors.Is(err, apperror.ErrRoundFinished):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrInvalidCell),
		errors.Is(err, apperror.ErrPlayerNameRequired),
		errors.Is(err, apperror.ErrUnknownMode):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (that *Server) respondError(w http.ResponseWriter, r *http.Request, status int, err error) {
	message := err.Error()
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		message = http.StatusText(status)
	}

	respondJSON(w, status, errorResponse{Error: message})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
