package usecase

import (
	"errors"

	"catalog-console/pkg/backend"
)

// FormError is a local validation failure. It is raised before any backend
// call and its message is shown to the user as is.
type FormError struct {
	Message string
}

func (e *FormError) Error() string {
	return e.Message
}

var (
	ErrMissingCredentials = &FormError{Message: "Please enter email and password"}
	ErrNoSession          = errors.New("no active session")
	ErrUploadInProgress   = &FormError{Message: "an upload is already in progress"}
)

// UserMessage is the text a failed operation shows on screen: the form
// error, or the backend's own message.
func UserMessage(err error) string {
	var fe *FormError
	if errors.As(err, &fe) {
		return fe.Message
	}
	return backend.Message(err)
}
