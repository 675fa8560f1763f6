package models

import "time"

// Reservation is an upcoming booking with absolute UTC start and end instants.
type Reservation struct {
	ID    uint32    `json:"id"`
	Name  string    `json:"name"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ErrorResponse is the JSON body returned when the pipeline fails.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
