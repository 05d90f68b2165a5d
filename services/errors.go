package services

import (
	"errors"
	"fmt"
)

var errNoListing = errors.New("extraction returned no listing")

type panicError struct {
	value any
}

func (e *panicError) Error() string {
	return fmt.Sprintf("extraction panicked: %v", e.value)
}
