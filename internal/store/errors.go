package store

import "errors"

var (
	ErrVisitNotFound     = errors.New("visit not found")
	ErrVisitClosed       = errors.New("visit already completed or cancelled")
	ErrInvalidState      = errors.New("invalid visit state")
	ErrOfficeNotFound    = errors.New("office not found")
	ErrOfficeCodeMissing = errors.New("office has no code configured")
	ErrDeskNotFound      = errors.New("desk not found")
	ErrPurposeNotFound   = errors.New("purpose not found")
	ErrFileNotFound      = errors.New("office file not found")
	ErrNoDeskAssigned    = errors.New("user has no desk assigned")
	ErrSessionNotFound   = errors.New("session not found")
)
