// Package fields implements the per-field validation rules applied to
// incoming request payloads.
//
// A Field is a tagged variant over the supported kinds (string, number,
// email, phone number, base64 image) sharing one Validate capability. The
// email, phone and image kinds run the string checks first and then add one
// more check on top, so the layering stays explicit instead of hidden in a
// type hierarchy.
package fields

import (
	"encoding/base64"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"
)

// Kind selects the type-specific check a Field performs.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindEmail
	KindPhone
	KindImage
)

// EncodingBase64 is the only defined image encoding.
const EncodingBase64 = "base64"

const successMsg = "Success"

// validate is shared; validator.Validate is safe for concurrent use.
var validate = validator.New()

// Field describes one payload key and its constraints. Fields are stateless
// and reusable across requests.
type Field struct {
	Name     string
	Required bool
	Kind     Kind

	// string bounds; MaxLength < 0 means unbounded
	MinLength int
	MaxLength int

	// numeric bounds
	MinValue float64
	MaxValue float64

	// phone: country code assumed when the value has no leading "+"
	DefaultCountryCode int

	// image encoding
	Encoding string
}

// Option tweaks an optional constraint on a Field.
type Option func(*Field)

func MinLength(n int) Option    { return func(f *Field) { f.MinLength = n } }
func MaxLength(n int) Option    { return func(f *Field) { f.MaxLength = n } }
func MinValue(v float64) Option { return func(f *Field) { f.MinValue = v } }
func MaxValue(v float64) Option { return func(f *Field) { f.MaxValue = v } }

// CountryCode sets the country code assumed for phone numbers submitted
// without a leading "+".
func CountryCode(code int) Option { return func(f *Field) { f.DefaultCountryCode = code } }

// Encoding sets the expected image encoding; only base64 is defined.
func Encoding(e string) Option { return func(f *Field) { f.Encoding = e } }

func newField(name string, required bool, kind Kind, opts ...Option) Field {
	f := Field{
		Name:               name,
		Required:           required,
		Kind:               kind,
		MinLength:          0,
		MaxLength:          -1,
		MinValue:           math.Inf(-1),
		MaxValue:           math.Inf(1),
		DefaultCountryCode: 1,
		Encoding:           EncodingBase64,
	}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// String declares a text field with optional length bounds.
func String(name string, required bool, opts ...Option) Field {
	return newField(name, required, KindString, opts...)
}

// Number declares a numeric field with optional value bounds.
func Number(name string, required bool, opts ...Option) Field {
	return newField(name, required, KindNumber, opts...)
}

// Email declares a text field that must also be a structurally valid email
// address.
func Email(name string, required bool, opts ...Option) Field {
	return newField(name, required, KindEmail, opts...)
}

// Phone declares a text field that must parse as a possible phone number for
// its country code.
func Phone(name string, required bool, opts ...Option) Field {
	return newField(name, required, KindPhone, opts...)
}

// Image declares a text field holding an encoded image payload.
func Image(name string, required bool, opts ...Option) Field {
	return newField(name, required, KindImage, opts...)
}

// FieldName returns the payload key this field checks.
func (f Field) FieldName() string {
	return f.Name
}

func (f Field) success() (bool, string) {
	return true, successMsg
}

func (f Field) failure(msg string) (bool, string) {
	return false, fmt.Sprintf("key=%s :: %s", f.Name, msg)
}

// Validate checks value against the field's constraints and returns a status
// and a reason. A nil value fails only when the field is required; otherwise
// the kind-specific checks run.
func (f Field) Validate(value any) (bool, string) {
	// ensure the value exists if it is required
	if value == nil {
		if f.Required {
			return f.failure("required but does not exist")
		}
		// not required and absent is a known success
		return f.success()
	}

	switch f.Kind {
	case KindNumber:
		return f.validateNumber(value)
	case KindEmail:
		return f.layerOnString(value, f.validateEmail)
	case KindPhone:
		return f.layerOnString(value, f.validatePhone)
	case KindImage:
		return f.layerOnString(value, f.validateImage)
	default:
		if ok, reason := f.validateString(value); !ok {
			return false, reason
		}
		return f.success()
	}
}

// layerOnString runs the string checks first and then the kind-specific
// check on the asserted string value.
func (f Field) layerOnString(value any, check func(string) (bool, string)) (bool, string) {
	if ok, reason := f.validateString(value); !ok {
		return false, reason
	}
	return check(value.(string))
}

func (f Field) validateString(value any) (bool, string) {
	// check if the value is actually a string
	s, ok := value.(string)
	if !ok {
		return f.failure("not an instance of a string")
	}

	// check if the string fits within the length constraints
	if len(s) < f.MinLength || (f.MaxLength >= 0 && len(s) > f.MaxLength) {
		max := "unbounded"
		if f.MaxLength >= 0 {
			max = fmt.Sprintf("%d", f.MaxLength)
		}
		return f.failure(fmt.Sprintf("not within size bounds %d <= len(string) <= %s", f.MinLength, max))
	}

	return f.success()
}

func (f Field) validateNumber(value any) (bool, string) {
	var n float64
	switch v := value.(type) {
	case float64:
		n = v
	case float32:
		n = float64(v)
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	default:
		return f.failure("not a number")
	}

	if n < f.MinValue || n > f.MaxValue {
		return f.failure(fmt.Sprintf("not within value bounds %v <= value <= %v", f.MinValue, f.MaxValue))
	}

	return f.success()
}

func (f Field) validateEmail(s string) (bool, string) {
	if err := validate.Var(s, "email"); err != nil {
		return f.failure("not a valid email address")
	}
	return f.success()
}

func (f Field) validatePhone(s string) (bool, string) {
	// add the country code if one does not already exist
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "+") {
		s = fmt.Sprintf("+%d%s", f.DefaultCountryCode, s)
	}

	number, err := phonenumbers.Parse(s, "")
	if err != nil {
		return f.failure(err.Error())
	}

	// a possible number is structurally plausible for its country code,
	// not necessarily dialable
	if !phonenumbers.IsPossibleNumber(number) {
		return f.failure(fmt.Sprintf("phone number does not match valid pattern for country code %d", number.GetCountryCode()))
	}

	return f.success()
}

func (f Field) validateImage(s string) (bool, string) {
	if f.Encoding != EncodingBase64 {
		return f.success()
	}

	// decode under the standard alphabet; wrong padding or characters
	// outside the alphabet are a validation failure, not an error
	if _, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(s, "\n", "")); err != nil {
		return f.failure("image not in valid base64 format")
	}

	return f.success()
}
