package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"springworks/internal/models"
	"springworks/internal/store"
	"springworks/internal/validation"
)

// JSON writes a successful API response with the given data.
func JSON(w http.ResponseWriter, data interface{}) {
	json.NewEncoder(w).Encode(models.APIResponse{Data: data})
}

// Created writes data with status 201.
func Created(w http.ResponseWriter, data interface{}) {
	w.WriteHeader(http.StatusCreated)
	JSON(w, data)
}

// JSONMeta writes a successful API response with pagination metadata.
func JSONMeta(w http.ResponseWriter, data interface{}, meta models.Meta) {
	json.NewEncoder(w).Encode(models.APIResponse{Data: data, Meta: &meta})
}

// Err writes a JSON error response with the given message and HTTP status code.
func Err(w http.ResponseWriter, msg string, code int) {
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// ValidationErr writes a 400 carrying the joined message and the per-field
// errors.
func ValidationErr(w http.ResponseWriter, ve *validation.ValidationErrors) {
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":  ve.Error(),
		"fields": ve.Errors,
	})
}

// StoreErr maps a store error onto an HTTP status: ErrNotFound is 404,
// ErrConflict 409, ErrInvalid 400 and anything else a logged 500.
func StoreErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		Err(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, store.ErrConflict):
		Err(w, err.Error(), http.StatusConflict)
	case errors.Is(err, store.ErrInvalid):
		Err(w, err.Error(), http.StatusBadRequest)
	default:
		zap.S().Errorw("store error", "error", err)
		Err(w, "internal error", http.StatusInternalServerError)
	}
}

// DecodeBody decodes a JSON request body into the given value.
func DecodeBody(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
