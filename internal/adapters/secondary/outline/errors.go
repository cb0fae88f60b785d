package outline

import "errors"

var (
	errEmptyInput = errors.New("input text is empty")
	errNoContent  = errors.New("input text yields no sections")
)
