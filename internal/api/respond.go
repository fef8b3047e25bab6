package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"mechshop/internal/database"
	"mechshop/internal/service"
)

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeServiceError maps service and database errors onto the HTTP
// error taxonomy. Unexpected errors surface as a generic 500 with no
// internal detail.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	var verr service.ValidationErrors
	if errors.As(err, &verr) {
		fields := make(map[string]string, len(verr))
		for _, fe := range verr {
			fields[fe.Field] = fe.Message
		}
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": fields})
		return
	}

	var conflict *service.DeleteConflictError
	if errors.As(err, &conflict) {
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":            "cannot delete mechanic who is assigned to service tickets",
			"assigned_tickets": conflict.TicketIDs,
		})
		return
	}

	switch {
	case errors.Is(err, database.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, database.ErrDuplicateEmail),
		errors.Is(err, database.ErrAlreadyAssigned),
		errors.Is(err, database.ErrNotAssigned),
		errors.Is(err, database.ErrCustomerHasTickets),
		errors.Is(err, database.ErrMechanicAssigned),
		errors.Is(err, database.ErrPartInUse):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		s.logger.Error().Err(err).Msg("unexpected handler error")
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
