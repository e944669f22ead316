package application

import "errors"

// Typed failures of the identity core. Handlers match these with errors.Is and
// map them to statuses; anything else is an internal error and is logged, not
// echoed to the client.
var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrUserNotFound           = errors.New("user not found")
	ErrPasswordIncorrect      = errors.New("password incorrect")

	// ErrNoActiveOTP deliberately covers expired, already used, and never
	// issued: callers cannot probe which OTPs exist for an address.
	ErrNoActiveOTP = errors.New("no active otp for this email")
	ErrOTPMismatch = errors.New("otp code mismatch")
)
