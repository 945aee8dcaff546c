// Package backend is the console's view of the managed service it stores
// everything in: email/password auth, tables and blob storage.
//
// The console never reimplements that service; it only depends on the
// contract below. Two drivers satisfy it: Supabase over HTTP, and a
// self-hosted variant on Postgres plus a local directory.
package backend

import (
	"context"
	"errors"
	"io"
	"time"
)

// Session is the proof of authentication handed out by SignInWithPassword.
// The console only cares whether one exists; the fields are kept for
// cookie issuance and logging.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	UserID       string
	Email        string
}

type Auth interface {
	SignUp(ctx context.Context, email, password string) error
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, accessToken string) error
	// GetSession returns nil, nil when the token does not belong to a live session.
	GetSession(ctx context.Context, accessToken string) (*Session, error)
}

// Filter is an equality condition, the only one the console needs.
type Filter struct {
	Column string
	Value  any
}

func Eq(column string, value any) Filter {
	return Filter{Column: column, Value: value}
}

type SelectOption func(*SelectOptions)

type SelectOptions struct {
	OrderBy   string
	Ascending bool
}

// OrderBy sorts the selected rows by column, ascending.
func OrderBy(column string) SelectOption {
	return func(o *SelectOptions) {
		o.OrderBy = column
		o.Ascending = true
	}
}

func ApplySelectOptions(opts []SelectOption) SelectOptions {
	var o SelectOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Table is one remote table. Rows are exchanged as JSON-tagged Go values:
// Select decodes into dest (a pointer to a slice), Insert takes a slice of
// rows and Update a partial row.
type Table interface {
	Select(ctx context.Context, columns string, dest any, opts ...SelectOption) error
	Insert(ctx context.Context, rows any) error
	Update(ctx context.Context, values any, filter Filter) error
	Delete(ctx context.Context, filter Filter) error
}

type Tables interface {
	From(name string) Table
}

// Storage is path-addressed blob storage inside one bucket.
type Storage interface {
	Upload(ctx context.Context, path string, body io.Reader, contentType string) error
	PublicURL(path string) string
}

// Client bundles the three services. It is built once at startup and
// passed to whatever needs it.
type Client struct {
	Auth    Auth
	DB      Tables
	Storage Storage
	// Close releases driver resources; nil when there is nothing to release.
	Close func()
}

func (c *Client) From(table string) Table {
	return c.DB.From(table)
}

// Error is a failure reported by the backend itself. Its message is meant
// to be shown to the user as is.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Message returns the backend's own message when err carries one, and
// err.Error() otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var be *Error
	if errors.As(err, &be) {
		return be.Message
	}
	return err.Error()
}
