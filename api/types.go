package api

import (
	"github.com/quillhub/quillhub-backend/web"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	userHandler userHandler
	blogHandler blogHandler
	postHandler postHandler
	tagHandler  tagHandler
	webHandler  web.Handler
}

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Error   string            `json:"error"`
	Status  string            `json:"status"`
	Field   string            `json:"field,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
	Details string            `json:"details,omitempty"`
	Cause   string            `json:"cause,omitempty"`
}
