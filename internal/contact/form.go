// Package contact holds the contact form state machine and the relays that
// deliver a submitted message.
package contact

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSubmissionInFlight is returned when Submit is called while an
	// earlier submission is still sending.
	ErrSubmissionInFlight = errors.New("contact: submission already in flight")

	// ErrMissingField is returned when a required field is blank.
	ErrMissingField = errors.New("contact: required field missing")
)

// FormState is what the visitor typed into the contact form.
type FormState struct {
	FirstName string `form:"firstName" json:"firstName"`
	LastName  string `form:"lastName" json:"lastName"`
	Email     string `form:"email" json:"email"`
	Message   string `form:"message" json:"message"`
}

// Validate reports the first blank field.
func (f FormState) Validate() error {
	fields := []struct {
		name, value string
	}{
		{"first name", f.FirstName},
		{"last name", f.LastName},
		{"email", f.Email},
		{"message", f.Message},
	}
	for _, fld := range fields {
		if strings.TrimSpace(fld.value) == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, fld.name)
		}
	}
	return nil
}

// Envelope converts the form into the message handed to a relay.
func (f FormState) Envelope() Message {
	return Message{
		Name:    strings.TrimSpace(f.FirstName) + " " + strings.TrimSpace(f.LastName),
		Email:   strings.TrimSpace(f.Email),
		Message: f.Message,
	}
}

// Message is the payload a relay delivers.
type Message struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}
