package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrUnknownAction is returned when an envelope names an action no codec knows.
var ErrUnknownAction = errors.New("unknown action")

// ErrUnknownEffect is reported when no handler is registered for a run effect.
var ErrUnknownEffect = errors.New("unknown effect")

// ErrStoreClosed is returned when an action is sent to a closed store.
var ErrStoreClosed = errors.New("store closed")
