package pro

// error_messages.go maps codec errors to user-facing messages with codes.
//
// # Codec Errors (PRO001-PRO099)
//
//	PRO001 - Encoding error: a line could not be decoded with any configured encoding
//	PRO002 - Header pattern: the header pattern is not a valid regular expression
//	PRO003 - Invalid CSV: the body is not well-formed delimited text
//	PRO004 - Invalid cell: a value does not match its declared column type
//	PRO005 - Unencodable: a character cannot be written in the output charset
//	PRO006 - Empty file: the document has no header line
//	PRO007 - File too large: the document exceeds the upload limit
//
// # Import Errors (IMP001-IMP099)
//
//	IMP001 - Database unavailable: no database is configured
//	IMP002 - System busy: too many imports in progress
//	IMP003 - Table name: the import target is not a plain identifier
//
// # Default Error (ERR000)

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage is a user-friendly rendering of an error.
type UserMessage struct {
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var (
	msgDecode = UserMessage{
		Message: "File contains characters that could not be decoded",
		Action:  "Save the file as UTF-8 or Latin-1",
		Code:    "PRO001",
	}
	msgHeaderPattern = UserMessage{
		Message: "Header pattern is not a valid regular expression",
		Action:  "Check the header pattern syntax",
		Code:    "PRO002",
	}
	msgInvalidCSV = UserMessage{
		Message: "File is not valid delimited text",
		Action:  "Ensure the file is comma-separated with consistent columns",
		Code:    "PRO003",
	}
	msgInvalidCell = UserMessage{
		Message: "A value does not match its declared column type",
		Action:  "Check the VARIABLE_TYPES line against the data",
		Code:    "PRO004",
	}
	msgUnencodable = UserMessage{
		Message: "Table contains characters that cannot be written",
		Action:  "Remove characters outside the Latin-1 range",
		Code:    "PRO005",
	}
	msgEmpty = UserMessage{
		Message: "The file is empty",
		Action:  "Upload a PRO file with a header line",
		Code:    "PRO006",
	}
)

// errorPatterns are checked in order against the lowercased error text when
// no typed error matched.
var errorPatterns = []errorPattern{
	{pattern: "encoding error", msg: msgDecode},
	{pattern: "invalid header pattern", msg: msgHeaderPattern},
	{pattern: "invalid csv", msg: msgInvalidCSV},
	{pattern: "rune not supported", msg: msgUnencodable},
	{pattern: "empty document", msg: msgEmpty},
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum size limit",
			Action:  "Split the file into smaller chunks",
			Code:    "PRO007",
		},
	},
	{
		pattern: "database not configured",
		msg: UserMessage{
			Message: "Database import is not available",
			Action:  "Configure DATABASE_URL to enable imports",
			Code:    "IMP001",
		},
	},
	{
		pattern: "too many concurrent imports",
		msg: UserMessage{
			Message: "Too many imports in progress",
			Action:  "Please wait a moment and try again",
			Code:    "IMP002",
		},
	},
	{
		pattern: "invalid table name",
		msg: UserMessage{
			Message: "Import target is not a valid table name",
			Action:  "Use letters, digits and underscores only",
			Code:    "IMP003",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var decodeErr *DecodeError
	var cellErr *CellError
	var countErr *FieldCountError
	switch {
	case errors.As(err, &decodeErr):
		return msgDecode
	case errors.As(err, &cellErr):
		return msgInvalidCell
	case errors.As(err, &countErr):
		return msgInvalidCSV
	case errors.Is(err, ErrInvalidHeaderPattern):
		return msgHeaderPattern
	case errors.Is(err, ErrEmptyDocument):
		return msgEmpty
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError formats an error as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to something other than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
