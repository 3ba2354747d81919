// Package response defines the structured failure result returned by every
// operation: an HTTP status, a message that may be shown to the user, and a
// debug message for bug reports. Failures are expected control flow, not
// faults.
package response

import "github.com/gin-gonic/gin"

// Failure is a standard failure response. NiceMessage may be displayed to
// the user; DebugMessage should not be, but helps with bug reports. It never
// carries internal error detail verbatim.
type Failure struct {
	Status       int    `json:"-"`
	NiceMessage  string `json:"niceMessage"`
	DebugMessage string `json:"debugMessage"`
}

// NewFailure builds a Failure with the given status code and messages.
func NewFailure(status int, niceMessage, debugMessage string) *Failure {
	return &Failure{Status: status, NiceMessage: niceMessage, DebugMessage: debugMessage}
}

// Write renders the failure as the JSON response and aborts the remaining
// handler chain.
func (f *Failure) Write(c *gin.Context) {
	c.AbortWithStatusJSON(f.Status, f)
}
