package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) and the content services translate them into domain errors:
// - ErrNotFound: record does not exist in the store
// - ErrUnavailable: backing store or remote service could not be reached
// - ErrUnsupported: the store cannot evaluate part of a query
// - ErrCorrupt: a stored value could not be decoded
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
	ErrUnsupported = errors.New("unsupported")
	ErrCorrupt     = errors.New("corrupt value")
)
