package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/atinyakov/ShelterDesk/internal/models"
	"github.com/atinyakov/ShelterDesk/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeResult sends the {success,message} envelope.
func writeResult(w http.ResponseWriter, status int, success bool, msg string) {
	writeJSON(w, status, models.Result{Success: success, Message: msg})
}

// writeError sends err as a failed envelope with the matching status.
func writeError(w http.ResponseWriter, err error) {
	var e *service.Error
	if !errors.As(err, &e) {
		writeResult(w, http.StatusInternalServerError, false, "Error: "+err.Error())
		return
	}
	status := http.StatusInternalServerError
	switch e.Code {
	case service.CodeInvalid:
		status = http.StatusBadRequest
	case service.CodeUnauthorized:
		status = http.StatusUnauthorized
	case service.CodeNotFound:
		status = http.StatusNotFound
	}
	writeResult(w, status, false, e.Message)
}

// decode reads a JSON body into v, answering 400 when it cannot.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeResult(w, http.StatusBadRequest, false, "invalid request")
		return false
	}
	return true
}
