package websocket

import "errors"

var (
	ErrMalformedFrame  = errors.New("malformed frame")
	ErrMissingClientID = errors.New("client_id is required")
)
