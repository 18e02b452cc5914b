package form

import "strings"

// Field identifies one of the three form slots.
type Field int

const (
	FieldName Field = iota + 1
	FieldAge
	FieldFile
)

// Fields lists every slot in render order.
var Fields = []Field{FieldName, FieldAge, FieldFile}

// String returns the wire name used by inputs and multipart parts.
func (f Field) String() string {
	switch f {
	case FieldName:
		return "name"
	case FieldAge:
		return "age"
	case FieldFile:
		return "file"
	default:
		return ""
	}
}

// Label returns the human-readable field name shown next to inputs.
func (f Field) Label() string {
	switch f {
	case FieldName:
		return "Name"
	case FieldAge:
		return "Age"
	case FieldFile:
		return "Profile Picture"
	default:
		return ""
	}
}

// Valid reports whether f names one of the form slots.
func (f Field) Valid() bool {
	return f >= FieldName && f <= FieldFile
}

// ParseField maps a wire name back to its Field.
func ParseField(name string) (Field, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "name":
		return FieldName, true
	case "age":
		return FieldAge, true
	case "file":
		return FieldFile, true
	default:
		return 0, false
	}
}

// Value is the raw input for a slot: text for name/age, an attachment for file.
type Value struct {
	text   string
	file   *Attachment
	isFile bool
}

// Text wraps a raw text input.
func Text(s string) Value {
	return Value{text: s}
}

// File wraps a selected attachment. A nil attachment clears the slot.
func File(a *Attachment) Value {
	return Value{file: a, isFile: true}
}

// IsFile reports whether the value carries an attachment reference.
func (v Value) IsFile() bool { return v.isFile }
