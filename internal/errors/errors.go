package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation Code = "VALIDATION_ERROR"
	CodeInvalidID  Code = "INVALID_ID"
	CodeNotFound   Code = "NOT_FOUND"
	CodeConflict   Code = "CONFLICT"
	CodeInternal   Code = "INTERNAL_ERROR"
)

// Metadata describe cómo se expone un código hacia el cliente HTTP.
type Metadata struct {
	HTTPStatus     int
	PublicMessage  string
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {
		HTTPStatus:     http.StatusBadRequest,
		PublicMessage:  "Validation failed",
		DetailsAllowed: true,
	},
	CodeInvalidID: {
		HTTPStatus:     http.StatusBadRequest,
		PublicMessage:  "Invalid product ID",
		DetailsAllowed: false,
	},
	CodeNotFound: {
		HTTPStatus:     http.StatusNotFound,
		PublicMessage:  "Resource not found",
		DetailsAllowed: false,
	},
	CodeConflict: {
		HTTPStatus:     http.StatusConflict,
		PublicMessage:  "Conflict detected",
		DetailsAllowed: true,
	},
	CodeInternal: {
		HTTPStatus:     http.StatusInternalServerError,
		PublicMessage:  "Internal server error",
		DetailsAllowed: false,
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

// Error es el error tipado que cruzan las capas de catálogo, repositorio y handlers.
type Error struct {
	code    Code
	message string
	details []string
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

// Validation agrupa todas las violaciones de campo en un solo error.
func Validation(messages ...string) *Error {
	return New(CodeValidation, "Validation failed").WithDetails(messages)
}

func NotFound(message string) *Error {
	return New(CodeNotFound, message)
}

func InvalidID(message string) *Error {
	return New(CodeInvalidID, message)
}

func Conflict(message string, details ...string) *Error {
	return New(CodeConflict, message).WithDetails(details)
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() []string {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details []string) *Error {
	if e == nil {
		return nil
	}
	if len(details) == 0 {
		e.details = nil
		return e
	}
	e.details = append([]string(nil), details...)
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// Is reporta si err (o alguno de sus envoltorios) lleva el código dado.
func Is(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.code == code
}
