package model

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"golang.org/x/text/unicode/norm"
)

// Limits applied to user-supplied values.
const (
	MaxNameLength = 120
	MinPar        = 1
	MaxPar        = 10
)

var errBlank = errors.New("must not be blank")

// notBlank rejects strings that contain only whitespace.
var notBlank = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return errBlank
	}
	return nil
})

// NormalizeName trims surrounding whitespace and applies Unicode NFC so that
// visually identical names compare and sort the same way.
func NormalizeName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// IsBlank reports whether s is empty after trimming whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Validate checks the course's user-editable fields.
func (c Course) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, notBlank, validation.RuneLength(1, MaxNameLength)),
		validation.Field(&c.Location, validation.RuneLength(0, MaxNameLength)),
	)
}

// Validate checks the hole's number and par. Optional attributes are only
// checked when present.
func (h Hole) Validate() error {
	return validation.ValidateStruct(&h,
		validation.Field(&h.HoleNumber, validation.Required, validation.Min(1)),
		validation.Field(&h.Par, validation.Required, validation.Min(MinPar), validation.Max(MaxPar)),
		validation.Field(&h.Distance, validation.Min(0)),
		validation.Field(&h.Latitude, validation.Min(-90.0), validation.Max(90.0)),
		validation.Field(&h.Longitude, validation.Min(-180.0), validation.Max(180.0)),
	)
}

// Validate checks the player's name.
func (p Player) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, notBlank, validation.RuneLength(1, MaxNameLength)),
	)
}

// Validate checks that a throw count is plausible.
func (c ThrowCell) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.HoleNumber, validation.Required, validation.Min(1)),
		validation.Field(&c.NumberOfThrows, validation.Min(0)),
	)
}
