package bookings

import (
	"encoding/json"
	"time"
)

// Known therapy types with dedicated detail projections. The field is
// validated loosely: any other string is accepted and handled by the
// default projection.
const (
	TherapyQuiromasaje   = "Quiromasaje"
	TherapyOsteopatia    = "Osteopatía"
	TherapyEntrenamiento = "Entrenamiento personal"
)

// Status is the booking lifecycle state.
type Status string

const (
	StatusBooked    Status = "booked"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusBooked, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status may move to next. Completed
// and cancelled are terminal.
func (s Status) CanTransitionTo(next Status) bool {
	if s == next {
		return true
	}
	return s == StatusBooked && (next == StatusCompleted || next == StatusCancelled)
}

// Booking is a scheduled appointment. JSON field names follow the public
// API contract, which predates this service.
type Booking struct {
	ID           string    `json:"_id"`
	CustomerName string    `json:"customerName"`
	TherapyType  string    `json:"terapiasType"`
	Date         string    `json:"date"` // YYYY-MM-DD
	Time         string    `json:"time"` // HH:MM
	Status       Status    `json:"status"`
	Email        string    `json:"email,omitempty"`
	PhoneNumber  string    `json:"phoneNumber,omitempty"`
	Detail       string    `json:"tipoMasaje"` // free text or serialized goals, depending on therapy type
	Comment      string    `json:"comentario"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Extra carries the therapy-type-specific payload supplied on submission.
type Extra struct {
	MassageKind  string          `json:"tipoMasaje"`
	Comment      string          `json:"comentario"`
	TargetArea   string          `json:"zonaTratar"`
	OsteoComment string          `json:"osteoComentario"`
	Goals        json.RawMessage `json:"objetivos"`
}

// SubmitRequest is the payload for POST /bookings.
type SubmitRequest struct {
	CustomerName string `json:"customerName"`
	TherapyType  string `json:"terapiasType"`
	DateTime     string `json:"dateTime"` // "YYYY-MM-DD HH:MM"
	Status       string `json:"status"`
	Email        string `json:"email"`
	PhoneNumber  string `json:"phoneNumber"`
	Extra        Extra  `json:"extra"`
}

// UpdateRequest carries optional field edits for PUT /bookings/{id}.
// Pointer fields distinguish "absent" from "set to empty".
type UpdateRequest struct {
	CustomerName *string `json:"customerName"`
	TherapyType  *string `json:"terapiasType"`
	Date         *string `json:"date"`
	Time         *string `json:"time"`
	Status       *string `json:"status"`
	Email        *string `json:"email"`
	PhoneNumber  *string `json:"phoneNumber"`
	Detail       *string `json:"tipoMasaje"`
	Comment      *string `json:"comentario"`
}

// ListFilter narrows booking listings.
type ListFilter struct {
	Date        string
	TherapyType string
}
