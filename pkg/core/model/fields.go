package model

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownField   = errors.New("unknown field")
	ErrWrongValueKind = errors.New("wrong value kind for field")
)

// Field identifies one scalar field of an ApplicationDraft
type Field int

const (
	FieldFirstName Field = iota
	FieldLastName
	FieldEmail
	FieldPhone
	FieldLocation
	FieldAvailability
	FieldExperience
	FieldMotivation
	FieldAgreeToTerms
)

var fieldNames = map[Field]string{
	FieldFirstName:    "firstName",
	FieldLastName:     "lastName",
	FieldEmail:        "email",
	FieldPhone:        "phone",
	FieldLocation:     "location",
	FieldAvailability: "availability",
	FieldExperience:   "experience",
	FieldMotivation:   "motivation",
	FieldAgreeToTerms: "agreeToTerms",
}

// TextFields lists the fields that hold free text, in form order
var TextFields = []Field{
	FieldFirstName,
	FieldLastName,
	FieldEmail,
	FieldPhone,
	FieldLocation,
	FieldExperience,
	FieldMotivation,
}

// Name returns the form input name of the field
func (f Field) Name() string {
	return fieldNames[f]
}

func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

// IsBool reports whether the field holds a boolean rather than text
func (f Field) IsBool() bool {
	return f == FieldAgreeToTerms
}

// ParseField resolves a form input name to a Field
func ParseField(name string) (Field, error) {
	for f, n := range fieldNames {
		if n == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// FieldValue pairs a Field with the value to store in it.
// Build it with TextValue or BoolValue.
type FieldValue struct {
	Field  Field
	text   string
	flag   bool
	isBool bool
}

func TextValue(f Field, value string) FieldValue {
	return FieldValue{Field: f, text: value}
}

func BoolValue(f Field, value bool) FieldValue {
	return FieldValue{Field: f, flag: value, isBool: true}
}

// Apply writes the value into the draft. Only the named field changes.
func (v FieldValue) Apply(d *ApplicationDraft) error {
	if _, ok := fieldNames[v.Field]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, v.Field)
	}
	if v.isBool != v.Field.IsBool() {
		return fmt.Errorf("%w: %s", ErrWrongValueKind, v.Field)
	}

	switch v.Field {
	case FieldFirstName:
		d.FirstName = v.text
	case FieldLastName:
		d.LastName = v.text
	case FieldEmail:
		d.Email = v.text
	case FieldPhone:
		d.Phone = v.text
	case FieldLocation:
		d.Location = v.text
	case FieldAvailability:
		a, err := ParseAvailability(v.text)
		if err != nil {
			return err
		}
		d.Availability = a
	case FieldExperience:
		d.Experience = v.text
	case FieldMotivation:
		d.Motivation = v.text
	case FieldAgreeToTerms:
		d.AgreeToTerms = v.flag
	}
	return nil
}

// ParseFieldValue builds a FieldValue from an untrusted name/value pair, as
// posted by the browser. Booleans accept "true"/"on"/"1" as checked.
func ParseFieldValue(name, value string) (FieldValue, error) {
	f, err := ParseField(name)
	if err != nil {
		return FieldValue{}, err
	}
	if f.IsBool() {
		switch value {
		case "true", "on", "1":
			return BoolValue(f, true), nil
		case "false", "off", "0", "":
			return BoolValue(f, false), nil
		}
		return FieldValue{}, fmt.Errorf("%w: %s expects a boolean, got %q", ErrWrongValueKind, f, value)
	}
	return TextValue(f, value), nil
}
