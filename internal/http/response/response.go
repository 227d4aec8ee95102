// Package response implements the API's JSON envelope: every success is
// {success, message, data, meta, timestamp} and every error is
// {success, message, type, details} with a status from the error taxonomy.
package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/nafaymotors/inventory/internal/apierror"
)

type successBody struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Data      any    `json:"data"`
	Meta      any    `json:"meta,omitempty"`
	Timestamp string `json:"timestamp"`
}

type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Type    string `json:"type"`
	Details any    `json:"details,omitempty"`
}

func write(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Success writes a 200 envelope.
func Success(w http.ResponseWriter, message string, data any) {
	SuccessMeta(w, message, data, nil)
}

// SuccessMeta writes a 200 envelope with a meta block.
func SuccessMeta(w http.ResponseWriter, message string, data, meta any) {
	write(w, http.StatusOK, successBody{
		Success:   true,
		Message:   message,
		Data:      data,
		Meta:      meta,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Created writes a 201 envelope.
func Created(w http.ResponseWriter, message string, data any) {
	write(w, http.StatusCreated, successBody{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Error classifies err against the taxonomy and writes the error envelope.
// Unclassified errors become 500 with the detail logged, never echoed.
func Error(w http.ResponseWriter, err error) {
	apiErr := apierror.From(err)
	if apiErr == nil {
		slog.Error("unexpected error", "error", err)
		apiErr = apierror.Internal("Internal server error")
	}

	write(w, apiErr.Status, errorBody{
		Success: false,
		Message: apiErr.Message,
		Type:    apiErr.Type,
		Details: apiErr.Details,
	})
}
