package llm

import "errors"

// ErrProvider is returned when the generation provider fails or returns
// a malformed response.
var ErrProvider = errors.New("generation provider failed")
