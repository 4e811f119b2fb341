package embeddings

import "errors"

// ErrProvider is returned when the embedding provider fails or returns
// a malformed response.
var ErrProvider = errors.New("embedding provider failed")
