// Package request composes field validators into per-endpoint payload
// validators. Each endpoint declares an ordered list of fields; validation
// short-circuits on the first failure.
package request

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/ticketapi/internal/server/fields"
	"github.com/dmitrijs2005/ticketapi/internal/server/response"
)

const genericNiceMessage = "Something went wrong while performing the operation"

// FieldValidator is the capability a Validator runs per payload key.
// fields.Field satisfies it; tests may substitute their own implementations.
type FieldValidator interface {
	FieldName() string
	Validate(value any) (bool, string)
}

// Validator checks a request body against an ordered set of fields.
type Validator struct {
	fields []FieldValidator
}

// New builds a Validator over the given fields; they run in declaration
// order.
func New(ff ...FieldValidator) *Validator {
	return &Validator{fields: ff}
}

// Validate parses body as JSON and runs every field validator in order,
// returning the first failure, or nil if the payload is valid.
//
// A body that is not valid JSON is a user error (400), not a crash. Any
// panic inside a validator is recovered and converted into a generic 5xx
// failure so it never propagates to the caller.
func (v *Validator) Validate(body []byte) (failure *response.Failure) {
	defer func() {
		if r := recover(); r != nil {
			failure = response.NewFailure(
				http.StatusInternalServerError,
				genericNiceMessage,
				"an exception occurred during validation",
			)
		}
	}()

	var data map[string]any
	if err := json.Unmarshal(body, &data); err != nil {
		return response.NewFailure(
			http.StatusBadRequest,
			genericNiceMessage,
			"request body is not valid JSON",
		)
	}

	for _, field := range v.fields {
		name := field.FieldName()
		success, reason := field.Validate(data[name])
		if !success {
			return response.NewFailure(
				http.StatusBadRequest,
				fmt.Sprintf("Field %s is invalid", name),
				fmt.Sprintf("field %s is invalid: %s", name, reason),
			)
		}
	}

	return nil
}

// AuthInfo validates the authentication payload {companyID, password}.
func AuthInfo() *Validator {
	return New(
		fields.String("companyID", true, fields.MaxLength(64)),
		fields.String("password", true, fields.MaxLength(16)),
	)
}

// EmployeeInfo validates the employee-profile-update payload. All contact
// fields are optional; authKey is required.
func EmployeeInfo(defaultCountryCode int) *Validator {
	return New(
		fields.String("firstName", false, fields.MaxLength(32)),
		fields.String("lastName", false, fields.MaxLength(32)),
		fields.Email("email", false, fields.MaxLength(64)),
		fields.Phone("phoneNumber", false, fields.MaxLength(32), fields.CountryCode(defaultCountryCode)),
		fields.String("authKey", true),
	)
}

// TicketInfo validates the ticket-submission payload. Only description and
// authKey are required.
func TicketInfo() *Validator {
	return New(
		fields.String("location", false, fields.MaxLength(64)),
		fields.String("description", true, fields.MaxLength(1024)),
		fields.Image("photo", false),
		fields.String("authKey", true),
	)
}
