package sim

import "errors"

// Construction and run errors. Callers match them with errors.Is.
var (
	ErrInvalidJobID        = errors.New("invalid job id")
	ErrDuplicateJobID      = errors.New("duplicate job id")
	ErrInvalidResourceID   = errors.New("invalid resource id")
	ErrDuplicateResourceID = errors.New("duplicate resource id")
	ErrInvalidOperation    = errors.New("invalid operation name")
	ErrNegativeDuration    = errors.New("negative processing duration")
	ErrUnknownPolicy       = errors.New("unknown dispatch policy")
	ErrAlreadyRun          = errors.New("simulation already run")
	ErrDrainTimeout        = errors.New("start workers did not drain before timeout")
)
