package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/phishdeck/phishdeck/internal/composer"
	"github.com/phishdeck/phishdeck/internal/engine"
	"github.com/phishdeck/phishdeck/internal/lifecycle"
)

// errorResponse mirrors the engine's error body shape so the UI handles both
// surfaces the same way.
type errorResponse struct {
	Detail string `json:"detail"`
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, detail string) {
	s.writeJSON(w, status, errorResponse{Detail: detail})
}

// writeFailure maps a component error onto the console's error contract.
// Validation and guard failures stay local; engine rejections surface the
// engine's detail verbatim with the given generic fallback; 401 escalates as
// a session-invalid signal.
func (s *Server) writeFailure(w http.ResponseWriter, err error, fallback string) {
	var (
		validationErr *composer.ValidationError
		notAllowedErr *lifecycle.NotAllowedError
		apiErr        *engine.APIError
	)
	switch {
	case errors.Is(err, engine.ErrUnauthorized):
		s.writeError(w, http.StatusUnauthorized, "Session expired")
	case errors.As(err, &validationErr):
		s.writeError(w, http.StatusBadRequest, validationErr.Message)
	case errors.As(err, &notAllowedErr):
		s.writeError(w, http.StatusConflict, notAllowedErr.Error())
	case errors.Is(err, composer.ErrSubmitPending):
		s.writeError(w, http.StatusConflict, composer.ErrSubmitPending.Error())
	case errors.As(err, &apiErr):
		s.writeError(w, apiErr.StatusCode, engine.Detail(err, fallback))
	default:
		s.logger.Error("request failed", "error", err)
		s.writeError(w, http.StatusBadGateway, fallback)
	}
}
