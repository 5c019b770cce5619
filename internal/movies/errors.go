package movies

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/desertthunder/reelist/internal/models"
	"github.com/desertthunder/reelist/internal/shared"
)

// Kind classifies list failures. Every kind is terminal for its request.
type Kind string

const (
	KindUnauthorized    Kind = "Unauthorized"
	KindNoUserID        Kind = "NoUserID"
	KindNoUser          Kind = "NoUser"
	KindInvalidUser     Kind = "InvalidUser"
	KindInvalidBody     Kind = "InvalidBody"
	KindMissingFields   Kind = "MissingFields"
	KindInvalidCategory Kind = "InvalidCategory"
	KindUserNotFound    Kind = "UserNotFound"
	KindUpdateFailed    Kind = "UpdateFailed"
	KindCreateFailed    Kind = "CreateFailed"
	KindFetchError      Kind = "FetchError"
	KindInternalError   Kind = "InternalError"
)

// Error is a list failure with its public message and the internal cause.
//
// Details, UserID, and Code are safe to show clients. Err and Stack are for server logs,
// and for 500 bodies only when debug errors are enabled.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Details any
	UserID  string
	Code    string
	Err     error
	Stack   []byte
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Body is the JSON shape written to clients.
type Body struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
	UserID  string `json:"userId,omitempty"`
	Code    string `json:"code,omitempty"`
	Stack   string `json:"stack,omitempty"`
}

// Body renders e for a client. Server-side failures carry only the message unless debug is set.
func (e *Error) Body(debug bool) Body {
	b := Body{Error: e.Message, Details: e.Details, UserID: e.UserID}
	if e.Status < http.StatusInternalServerError {
		return b
	}

	b.Details = nil
	if !debug {
		return b
	}

	if e.Err != nil {
		b.Details = e.Err.Error()
	}
	b.Code = e.Code
	if e.Kind == KindInternalError {
		b.Stack = string(e.Stack)
	}
	return b
}

// AsError returns err as an [*Error], wrapping unknown failures as [KindInternalError].
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return internalError(err)
}

func Unauthorized(err error) *Error {
	return &Error{Kind: KindUnauthorized, Status: http.StatusUnauthorized, Message: "Unauthorized", Err: err}
}

// NoUserID is returned to readers whose session has no user id.
func NoUserID() *Error {
	return &Error{Kind: KindNoUserID, Status: http.StatusUnauthorized, Message: "No user ID in session"}
}

// NoUser is returned to writers whose session carries no identity at all.
func NoUser() *Error {
	return &Error{Kind: KindNoUser, Status: http.StatusUnauthorized, Message: "No user in session"}
}

func invalidUser(err error) *Error {
	return &Error{Kind: KindInvalidUser, Status: http.StatusUnauthorized, Message: "Invalid user ID", Err: err}
}

// InvalidBody is returned when the request body is not a JSON object of the expected shape.
func InvalidBody(err error) *Error {
	return &Error{
		Kind:    KindInvalidBody,
		Status:  http.StatusBadRequest,
		Message: "Invalid request body",
		Err:     fmt.Errorf("%w: %v", shared.ErrInvalidInput, err),
	}
}

// missingFieldsDetails echoes the required fields as submitted, absent ones as null.
type missingFieldsDetails struct {
	MovieID  Text `json:"movieId"`
	Title    Text `json:"title"`
	Category Text `json:"category"`
}

func missingFields(p Payload) *Error {
	return &Error{
		Kind:    KindMissingFields,
		Status:  http.StatusBadRequest,
		Message: "Missing required fields",
		Details: missingFieldsDetails{MovieID: p.MovieID, Title: p.Title, Category: p.Category},
		Err:     shared.ErrMissingArgument,
	}
}

type invalidCategoryDetails struct {
	Category string            `json:"category"`
	Allowed  []models.Category `json:"allowed"`
}

func invalidCategory(label string, err error) *Error {
	return &Error{
		Kind:    KindInvalidCategory,
		Status:  http.StatusBadRequest,
		Message: "Invalid category",
		Details: invalidCategoryDetails{Category: label, Allowed: models.Categories},
		Err:     err,
	}
}

func userNotFound(userID string) *Error {
	return &Error{
		Kind:    KindUserNotFound,
		Status:  http.StatusNotFound,
		Message: "User not found",
		Details: "The user associated with this session does not exist",
		UserID:  userID,
		Err:     fmt.Errorf("%w: %s", shared.ErrUserNotFound, userID),
	}
}

func updateFailed(err error) *Error {
	return &Error{Kind: KindUpdateFailed, Status: http.StatusInternalServerError, Message: "Failed to update movie", Err: err}
}

func createFailed(err error) *Error {
	return &Error{
		Kind:    KindCreateFailed,
		Status:  http.StatusInternalServerError,
		Message: "Failed to create movie",
		Code:    shared.ErrorCode(err),
		Err:     err,
	}
}

func fetchError(err error) *Error {
	return &Error{Kind: KindFetchError, Status: http.StatusInternalServerError, Message: "Failed to fetch movies", Err: err}
}

func internalError(err error) *Error {
	return &Error{
		Kind:    KindInternalError,
		Status:  http.StatusInternalServerError,
		Message: "Internal server error",
		Err:     err,
		Stack:   debug.Stack(),
	}
}

// Recovered converts a recovered panic value into an [KindInternalError].
func Recovered(v any) *Error {
	if err, ok := v.(error); ok {
		return internalError(err)
	}
	return internalError(fmt.Errorf("panic: %v", v))
}
