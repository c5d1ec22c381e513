package purchase

import "errors"

var (
	ErrUnknownPlan = errors.New("unknown token package")
	ErrWrongStep   = errors.New("action not available at this step")
)
