package handler

import (
	"encoding/json"
	"net/http"
)

const statusSuccess = "success"

// DataResponse wraps a successful response
type DataResponse struct {
	Status string      `json:"status"`
	Token  string      `json:"token,omitempty"`
	Data   interface{} `json:"data"`
}

// CollectionResponse wraps a list response with its length
type CollectionResponse struct {
	Status  string      `json:"status"`
	Results int         `json:"results"`
	Data    interface{} `json:"data"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// WriteData writes a successful data response
func WriteData(w http.ResponseWriter, status int, data interface{}) {
	WriteJSON(w, status, DataResponse{Status: statusSuccess, Data: data})
}

// WriteCollection writes a successful list response
func WriteCollection(w http.ResponseWriter, status int, results int, data interface{}) {
	WriteJSON(w, status, CollectionResponse{Status: statusSuccess, Results: results, Data: data})
}

// DecodeJSON decodes a JSON request body into the given struct
func DecodeJSON(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// WriteNoContent writes a 204 No Content response
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
