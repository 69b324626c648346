package service

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"github.com/harriteja/dict-go-sdk/pkg/types"
)

var errNoCache = errors.New("service requires a term cache")

// WriteError writes an error response with proper headers
func WriteError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(struct {
		Error *types.Error `json:"error"`
	}{
		Error: types.NewError(code, message),
	})
}

// WriteJSON writes a JSON response with proper headers
func WriteJSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}
