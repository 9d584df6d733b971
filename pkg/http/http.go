// Package http contains utility functions for request and response handling.
package http

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strconv"
)

type ErrorCode int

const (
	ErrorCodeInvalidRequestBody ErrorCode = 1
	ErrorCodeNotFound           ErrorCode = 2
	ErrorCodeFailedToStore      ErrorCode = 3
	ErrorCodeFailedToPublish    ErrorCode = 4
)

// JsonError writes an Error to the ResponseWriter with the provided information.
func JsonError(w http.ResponseWriter, responseCode int, code ErrorCode, msg string) {
	type ErrorResponse struct {
		Code    ErrorCode `json:"code"`
		Message string    `json:"message"`
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(responseCode)

	err := json.NewEncoder(w).Encode(ErrorResponse{Code: code, Message: msg})
	if err != nil {
		log.Printf("failed to encode error response: %s", err.Error())
	}
}

// JsonEncode marshals an interface and writes it to the response.
func JsonEncode(w http.ResponseWriter, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}

// JsonSuccess writes a generic success response.
func JsonSuccess(w http.ResponseWriter) {
	err := JsonEncode(w, map[string]bool{"success": true})
	if err != nil {
		log.Printf("failed to encode response: %s", err.Error())
	}
}

// GetInt returns an integer query value for the key, or the default.
func GetInt(values url.Values, key string, defaultValue int) int {
	str := values.Get(key)
	if str == "" {
		return defaultValue
	}

	val, err := strconv.Atoi(str)
	if err != nil {
		return defaultValue
	}

	return val
}
