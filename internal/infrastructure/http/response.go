package http

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/0xcro3dile/makanapa-go/internal/domain/entities"
	"github.com/0xcro3dile/makanapa-go/internal/logging"
)

// envelope is the body of every API response.
type envelope struct {
	Success bool                  `json:"success"`
	Data    interface{}           `json:"data,omitempty"`
	Message string                `json:"message,omitempty"`
	Errors  []entities.FieldError `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeData(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

// writeError renders err using its Kind. Only the Kind decides the status.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := entities.KindOf(err)
	status := kind.Status()
	body := envelope{Success: false, Message: s.errorMessage(kind, err)}
	if e, ok := entities.AsError(err); ok {
		body.Errors = e.Fields
	}

	event := logging.Ctx(r.Context()).Warn()
	if status >= http.StatusInternalServerError {
		event = logging.Ctx(r.Context()).Error()
	}
	event.Err(err).
		Str("kind", kind.String()).
		Int("status", status).
		Msg("Request failed")

	writeJSON(w, status, body)
}

func (s *Server) errorMessage(kind entities.Kind, err error) string {
	switch kind {
	case entities.ValidationError:
		return "Validation Error"
	case entities.PersistenceConflict:
		return "Record already exists"
	case entities.PersistenceUnavailable:
		return "Database Error"
	case entities.Unclassified:
		if s.opts.Production {
			return "Internal Server Error"
		}
		return err.Error()
	}
	if e, ok := entities.AsError(err); ok && e.Message != "" {
		return e.Message
	}
	return http.StatusText(kind.Status())
}
