package form

// State is the in-memory form. File is nil when no picture is selected.
type State struct {
	Name string
	Age  string
	File *Attachment
}

// UpdateField replaces the slot named by field. Unknown fields and values of
// the wrong kind for the slot are ignored; nothing is validated here.
func (s *State) UpdateField(field Field, value Value) {
	if s == nil {
		return
	}
	switch field {
	case FieldName:
		if value.isFile {
			return
		}
		s.Name = value.text
	case FieldAge:
		if value.isFile {
			return
		}
		s.Age = value.text
	case FieldFile:
		if !value.isFile {
			return
		}
		s.File = value.file
	}
}

// Snapshot returns a copy of the state. The attachment reference is shared;
// attachments are immutable once constructed.
func (s State) Snapshot() State {
	return State{Name: s.Name, Age: s.Age, File: s.File}
}
