package services

import "errors"

// Sentinel errors surfaced by the service layer. Handlers switch on these
// to pick status codes; anything else is treated as a storage fault.
var (
	ErrUserAlreadyExists  = errors.New("username or email already exists")
	ErrUserNotFound       = errors.New("user does not exist")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrForbidden          = errors.New("operation not permitted")
	ErrPostNotFound       = errors.New("post does not exist")
	ErrSlugTaken          = errors.New("slug already used by this author")
	ErrInvalidAccessLevel = errors.New("unknown access level")
)
