package history

import "errors"

// ErrTableCreation indicates the bootstrap_history table could not be created.
var ErrTableCreation = errors.New("creating bootstrap_history table")
