package notify

import "errors"

var (
	ErrInvalidConfig     = errors.New("notify: invalid config")
	ErrMissingRecipient  = errors.New("notify: recipient is required")
	ErrMissingSubject    = errors.New("notify: subject is required")
	ErrFailedToDeliver   = errors.New("notify: failed to deliver notification")
	ErrUnexpectedPayload = errors.New("notify: unexpected event payload")
)
