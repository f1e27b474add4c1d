package validation

import (
	"fmt"
	"net/mail"
	"path/filepath"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ValidationError represents a structured validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects multiple field errors.
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (ve *ValidationErrors) Add(field, message string) {
	ve.Errors = append(ve.Errors, ValidationError{Field: field, Message: message})
}

func (ve *ValidationErrors) HasErrors() bool {
	return len(ve.Errors) > 0
}

func (ve *ValidationErrors) Error() string {
	msgs := make([]string, len(ve.Errors))
	for i, e := range ve.Errors {
		msgs[i] = e.Field + ": " + e.Message
	}
	return strings.Join(msgs, "; ")
}

// RequireField checks a required string field is non-empty.
func RequireField(ve *ValidationErrors, field, value string) {
	if strings.TrimSpace(value) == "" {
		ve.Add(field, "is required")
	}
}

// ValidateEnum checks a field is one of allowed values.
func ValidateEnum(ve *ValidationErrors, field, value string, allowed []string) {
	if value == "" {
		return
	}
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	ve.Add(field, fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")))
}

// DateLayout is the storage format for calendar dates.
const DateLayout = "2006-01-02"

// NormalizeDate parses a user supplied date in any common layout and returns
// it as YYYY-MM-DD. Empty input is returned unchanged.
func NormalizeDate(ve *ValidationErrors, field, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if _, err := time.Parse(DateLayout, value); err == nil {
		return value
	}
	t, err := dateparse.ParseLocal(value)
	if err != nil {
		ve.Add(field, "must be a valid date (YYYY-MM-DD)")
		return value
	}
	return t.Format(DateLayout)
}

// ValidateDateOrder checks that end is not before start. Both must already be
// normalized.
func ValidateDateOrder(ve *ValidationErrors, field, start, end string) {
	if start == "" || end == "" {
		return
	}
	if end < start {
		ve.Add(field, "must not be before "+start)
	}
}

// ValidatePositiveInt checks a field is > 0.
func ValidatePositiveInt(ve *ValidationErrors, field string, value int) {
	if value <= 0 {
		ve.Add(field, "must be a positive integer")
	}
}

// ValidateNonNegativeFloat checks a field is >= 0.
func ValidateNonNegativeFloat(ve *ValidationErrors, field string, value float64) {
	if value < 0 {
		ve.Add(field, "must be non-negative")
	}
}

// ValidateOptionalNonNegative checks an optional measurement is >= 0.
func ValidateOptionalNonNegative(ve *ValidationErrors, field string, value *float64) {
	if value != nil && *value < 0 {
		ve.Add(field, "must be non-negative")
	}
}

// Maximum value constants to prevent overflow and ensure reasonable limits.
const (
	MaxQuantity     = 1000000
	MaxPrice        = 10000000.0
	MaxStringLength = 255
	MaxTextLength   = 10000
)

// ValidateMaxQuantity checks quantity doesn't exceed reasonable maximum.
func ValidateMaxQuantity(ve *ValidationErrors, field string, value int) {
	if value > MaxQuantity {
		ve.Add(field, fmt.Sprintf("exceeds maximum allowed quantity of %d", MaxQuantity))
	}
}

// ValidateMaxPrice checks price doesn't exceed reasonable maximum.
func ValidateMaxPrice(ve *ValidationErrors, field string, value float64) {
	if value > MaxPrice {
		ve.Add(field, fmt.Sprintf("exceeds maximum allowed price of %.2f", MaxPrice))
	}
}

// ValidateEmail checks a field is a valid email (if non-empty).
func ValidateEmail(ve *ValidationErrors, field, value string) {
	if value == "" {
		return
	}
	_, err := mail.ParseAddress(value)
	if err != nil {
		ve.Add(field, "must be a valid email address")
	}
}

// ValidateMaxLength checks string doesn't exceed max length.
func ValidateMaxLength(ve *ValidationErrors, field, value string, max int) {
	if len(value) > max {
		ve.Add(field, fmt.Sprintf("must be at most %d characters", max))
	}
}

// MaxImageDataURL bounds an inline image (data: URL) at roughly 2 MB of payload.
const MaxImageDataURL = 3 * 1024 * 1024

// ImageExtensions is the whitelist of linked product image types.
var ImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp", ".svg"}

// ValidateImageURL accepts inline data:image URLs and http(s) links to an
// image file.
func ValidateImageURL(ve *ValidationErrors, field, value string) {
	switch {
	case value == "":
		ve.Add(field, "is required")
	case strings.HasPrefix(value, "data:"):
		if !strings.HasPrefix(value, "data:image/") {
			ve.Add(field, "must be an image data URL")
		} else if len(value) > MaxImageDataURL {
			ve.Add(field, "image is too large")
		}
	case strings.HasPrefix(value, "http://"), strings.HasPrefix(value, "https://"):
		ext := strings.ToLower(filepath.Ext(strings.SplitN(value, "?", 2)[0]))
		for _, ok := range ImageExtensions {
			if ext == ok {
				return
			}
		}
		ve.Add(field, fmt.Sprintf("file type not allowed: %s", ext))
	default:
		ve.Add(field, "must be a data URL or http(s) link")
	}
}
