package plan

import "errors"

// ErrUnknownKind indicates a directive kind not recognized by the engine.
var ErrUnknownKind = errors.New("unknown directive kind")

// ErrInvalidDirective indicates a directive missing a required field.
var ErrInvalidDirective = errors.New("invalid directive")

// ErrEmptyPlan indicates a plan file with no directives.
var ErrEmptyPlan = errors.New("plan contains no directives")

// ErrPasswordEnvUnset indicates password_env names an unset environment variable.
var ErrPasswordEnvUnset = errors.New("password environment variable not set")
