package api

import (
	"encoding/json"
	"net/http"
)

// Client-facing messages. Internal failures all map to the same generic
// message; diagnostic detail stays in the server logs.
const (
	msgMissingFields   = "Name, email, and productSlug are required"
	msgInvalidProduct  = "Invalid product"
	msgInvalidEmail    = "Invalid email address"
	msgInvalidBody     = "Invalid request body"
	msgSent            = "Email sent successfully!"
	msgInternalError   = "Failed to process request. Please try again."
	msgNotFound        = "Endpoint not found"
	msgTooManyRequests = "Too many requests, please try again later."
)

// envelope is the uniform JSON response shape.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Product string `json:"product,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, envelope{Success: false, Message: message})
}
