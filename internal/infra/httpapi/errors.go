package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"pota_dashboard/internal/app"
	"pota_dashboard/internal/domain/whatsapp"
	"pota_dashboard/internal/infra/memdb"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError maps service-layer errors onto HTTP statuses. None
// of these are fatal; the client can always retry the action.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, app.ErrNotTeacher), errors.Is(err, app.ErrNotInvoiceOwner):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, app.ErrEmptyMessage):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, memdb.ErrInvoiceNotFound), errors.Is(err, memdb.ErrUserNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, whatsapp.ErrInvalidRecipient):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
