package service

import "errors"

var (
	ErrFormNotFound     = errors.New("candidate form not found")
	ErrDocumentIndex    = errors.New("document index out of range")
	ErrLastDocument     = errors.New("the last document slot cannot be removed")
	ErrInvalidFileType  = errors.New("invalid file type")
	ErrFileTooLarge     = errors.New("file exceeds the maximum allowed size")
	ErrSubmitInProgress = errors.New("a submission for this form is already in progress")
)
