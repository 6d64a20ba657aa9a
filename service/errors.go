package service

import "errors"

// Sentinel errors for the I/O-adjacent operations. Extraction and parsing
// never error; they degrade to absent values.
var (
	// ErrTemplateMalformed means the template blob was empty or unreadable.
	ErrTemplateMalformed = errors.New("template workbook is malformed")
	// ErrWriteFailed means serializing the filled workbook failed.
	ErrWriteFailed = errors.New("failed to serialize workbook")
	// ErrRowNotFound means the token matched no row in the inbox sheet.
	ErrRowNotFound = errors.New("inbox row not found")
	// ErrSourceUnavailable means the inbox sheet could not be fetched or has
	// no usable shape (distinct from a token that matches nothing).
	ErrSourceUnavailable = errors.New("inbox source unavailable")
)
