package form

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// User-facing validation messages.
const (
	MsgNameRequired    = "Name is required"
	MsgNameTooShort    = "Name must be at least 3 characters long"
	MsgAgeRequired     = "Age is required"
	MsgAgeNotNumber    = "Age must be a number"
	MsgAgeTooYoung     = "Age must be at least 18"
	MsgAgeTooOld       = "Age must be less than 100"
	MsgFileRequired    = "File is required"
	MsgFileUnsupported = "Unsupported file type"
	MsgFileTooLarge    = "File size is too large"
)

// Limits enforced by the rule set.
const (
	MinNameLength = 3
	MinAge        = 18
	MaxAge        = 100
	MaxFileSize   = 5 * 1024 * 1024
)

// AllowedMediaTypes lists the accepted profile picture types.
var AllowedMediaTypes = []string{"image/jpeg", "image/png"}

// rule returns a message when the state fails it, or "" when it passes.
type rule func(State) string

// rules are evaluated per field in order; the first message wins.
var rules = map[Field][]rule{
	FieldName: {nameRequired, nameMinLength},
	FieldAge:  {ageRequired, ageNumeric, ageMin, ageMax},
	FieldFile: {fileRequired, fileType, fileSize},
}

// Validate applies every field's rules and collects at most one message per
// field. Fields are evaluated independently.
func Validate(s State) ValidationResult {
	var errs map[Field]string
	for _, field := range Fields {
		for _, check := range rules[field] {
			msg := check(s)
			if msg == "" {
				continue
			}
			if errs == nil {
				errs = make(map[Field]string, len(Fields))
			}
			errs[field] = msg
			break
		}
	}
	return ValidationResult{errors: errs}
}

func nameRequired(s State) string {
	if s.Name == "" {
		return MsgNameRequired
	}
	return ""
}

func nameMinLength(s State) string {
	if utf8.RuneCountInString(s.Name) < MinNameLength {
		return MsgNameTooShort
	}
	return ""
}

func ageRequired(s State) string {
	if strings.TrimSpace(s.Age) == "" {
		return MsgAgeRequired
	}
	return ""
}

func ageNumeric(s State) string {
	if _, ok := parseAge(s.Age); !ok {
		return MsgAgeNotNumber
	}
	return ""
}

func ageMin(s State) string {
	if age, ok := parseAge(s.Age); ok && age < MinAge {
		return MsgAgeTooYoung
	}
	return ""
}

func ageMax(s State) string {
	if age, ok := parseAge(s.Age); ok && age > MaxAge {
		return MsgAgeTooOld
	}
	return ""
}

func parseAge(raw string) (float64, bool) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

func fileRequired(s State) string {
	if s.File == nil {
		return MsgFileRequired
	}
	return ""
}

func fileType(s State) string {
	if s.File == nil {
		return ""
	}
	mediaType := s.File.BaseMediaType()
	for _, allowed := range AllowedMediaTypes {
		if mediaType == allowed {
			return ""
		}
	}
	return MsgFileUnsupported
}

func fileSize(s State) string {
	if s.File == nil {
		return ""
	}
	if s.File.Size > MaxFileSize {
		return MsgFileTooLarge
	}
	return ""
}
