package handlers

import (
	"encoding/json"
	"net/http"
)

// Response is the single envelope shape every endpoint uses; there is no
// bare-array variant.
type Response struct {
	Success bool        `json:"success"`
	Count   *int        `json:"count,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	User    interface{} `json:"user,omitempty"`
	Message string      `json:"message,omitempty"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}

func WriteError(w http.ResponseWriter, message string, statusCode int) {
	WriteJSON(w, statusCode, Response{Success: false, Message: message})
}

func WriteData(w http.ResponseWriter, data interface{}, statusCode int) {
	WriteJSON(w, statusCode, Response{Success: true, Data: data})
}

func WriteList(w http.ResponseWriter, data interface{}, count int) {
	WriteJSON(w, http.StatusOK, Response{Success: true, Count: &count, Data: data})
}

func WriteUser(w http.ResponseWriter, user interface{}, statusCode int) {
	WriteJSON(w, statusCode, Response{Success: true, User: user})
}

func WriteMessage(w http.ResponseWriter, message string, statusCode int) {
	WriteJSON(w, statusCode, Response{Success: true, Message: message})
}

// serverError logs the real error and sends the user-safe fallback; the
// underlying message goes out only in development builds.
func (h *Handlers) serverError(w http.ResponseWriter, err error, fallback string) {
	logger.Error().Err(err).Msg(fallback)

	message := fallback
	if h.Cfg.Development() {
		message = err.Error()
	}
	WriteError(w, message, http.StatusInternalServerError)
}
