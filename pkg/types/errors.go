// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

// Error taxonomy shared by every provider variant. Providers wrap these
// sentinels so callers can classify failures with errors.Is.
var (
	// ErrNotFound means the source legitimately has nothing for the
	// identifier. A normal empty outcome, not a failure.
	ErrNotFound = errors.New("no data for identifier")

	// ErrUnavailable means the source could not be reached: timeout,
	// connection failure, non-success HTTP status.
	ErrUnavailable = errors.New("source unavailable")

	// ErrMalformedData means the source responded but its content failed
	// validation. Treated like ErrUnavailable at merge time, logged with
	// enough context to debug.
	ErrMalformedData = errors.New("malformed source data")

	// ErrUnsupportedTool means an annotation tool name outside the
	// supported set was selected. A configuration error; always propagates.
	ErrUnsupportedTool = errors.New("unsupported annotation tool")

	// ErrInvalidMode means an unrecognized source mode or narrowing was
	// requested. A configuration error; always propagates.
	ErrInvalidMode = errors.New("invalid source mode")
)
