package replacer

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidSpec is returned by Process for a Spec that fails validation.
var ErrInvalidSpec = errors.New("invalid replacement spec")

// DateLayout is the layout of a replacement date (DD-MM-YYYY).
const DateLayout = "02-01-2006"

// Spec names the fields to replace.
type Spec struct {
	OldRoll string // Footer literal to replace; empty skips the roll
	NewRoll string

	ReplaceName bool
	OldName     string
	NewName     string

	ReplaceDate bool
	NewDate     string // DD-MM-YYYY
}

// Validate checks that the spec can be applied.
func (s Spec) Validate() error {
	if s.OldRoll != "" && blank(s.NewRoll) {
		return fmt.Errorf("%w: new roll is empty", ErrInvalidSpec)
	}
	if s.ReplaceDate && !blank(s.NewDate) {
		if _, err := time.Parse(DateLayout, s.NewDate); err != nil {
			return fmt.Errorf("%w: date %q is not DD-MM-YYYY", ErrInvalidSpec, s.NewDate)
		}
	}
	return nil
}

func (s Spec) nameEnabled() bool {
	return s.ReplaceName && !blank(s.OldName) && !blank(s.NewName)
}

func (s Spec) dateEnabled() bool {
	return s.ReplaceDate && !blank(s.NewDate)
}
