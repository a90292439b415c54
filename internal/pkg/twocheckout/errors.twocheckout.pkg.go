package twocheckout

import "errors"

// ErrNotSupported is returned by every gateway operation the provider cannot
// perform (status polling, capture, refund and cancel).
var ErrNotSupported = errors.New("2CheckOut: operation not supported")

// ErrInvalidAmount is returned when a callback carries a malformed total.
var ErrInvalidAmount = errors.New("2CheckOut: invalid amount")

// ErrChecksumMismatch marks a callback whose key does not match the
// calculated MD5 checksum.
var ErrChecksumMismatch = errors.New("2CheckOut: MD5 checksum mismatch")
