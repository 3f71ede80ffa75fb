package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/matzehuels/dissect/pkg/errors"
)

type errorBody struct {
	Code  errors.Code `json:"code"`
	Error string      `json:"error"`
}

// status maps an error code to an HTTP status.
func status(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case errors.ErrCodeInvalidPath, errors.ErrCodeInvalidDissection:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeIO:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("write response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	st := status(code)
	if st >= 500 {
		s.logger.Error("request failed", "err", err)
	}
	s.writeJSON(w, st, errorBody{Code: code, Error: errors.UserMessage(err)})
}

// intParam reads a required integer query parameter.
func intParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, errors.New(errors.ErrCodeInvalidInput, "missing query parameter %q", name)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "query parameter %q: %q is not an integer", name, raw)
	}
	return v, nil
}
