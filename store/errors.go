package store

import "errors"

// Recoverable failures surfaced to the HTTP boundary. A mutation that returns
// one of these leaves every table unchanged.
var (
    ErrDuplicateUsername  = errors.New("username already taken")
    ErrInvalidCredentials = errors.New("invalid username or password")
    ErrForbidden          = errors.New("not the owner")
    ErrNotFound           = errors.New("not found")
    ErrEmptyPost          = errors.New("post needs text or media")
    ErrEmptyComment       = errors.New("comment is empty")
)
