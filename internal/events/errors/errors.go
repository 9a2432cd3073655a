package errors

import "errors"

var (
	ErrMissingProject = errors.New("missing required field: project")

	ErrMalformedBody = errors.New("request body is not a single JSON object")
)

// Client-facing messages. The wording is part of the beacon contract.
const (
	MsgMissingProject = "Missing required field: project is required"
	MsgSaveFailed     = "Failed to save log data"
	MsgIgnored        = "Localhost request ignored"
	MsgStored         = "Log entry created successfully"
)
