// Package testutil holds an in-memory backend for tests above pkg/backend.
package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"

	"catalog-console/pkg/backend"
	"catalog-console/pkg/utils"
)

// Backend is an in-memory backend.Client. Every call is recorded in Calls
// as "<service>.<op>" (for tables "<table>.<op>"), and an error registered
// in Fail under the same key is returned instead of doing the work.
type Backend struct {
	mu sync.Mutex

	Users    map[string]string
	Sessions map[string]string
	Rows     map[string][]map[string]any
	Objects  map[string][]byte
	Types    map[string]string
	Calls    []string
	Fail     map[string]error

	// NoSession makes sign-in succeed without issuing a session.
	NoSession bool
	// Tokens seen by table calls, in call order.
	Tokens []string

	nextID  int64
	nextTok int
}

func NewBackend() *Backend {
	return &Backend{
		Users:    map[string]string{},
		Sessions: map[string]string{},
		Rows:     map[string][]map[string]any{},
		Objects:  map[string][]byte{},
		Types:    map[string]string{},
		Fail:     map[string]error{},
	}
}

// BackendError is shorthand for a failure the real service would report.
func BackendError(msg string) error {
	return &backend.Error{Status: http.StatusBadRequest, Message: msg}
}

// Client exposes the fake through the production contract.
func (b *Backend) Client() *backend.Client {
	return &backend.Client{
		Auth:    fakeAuth{b},
		DB:      fakeTables{b},
		Storage: fakeStorage{b},
	}
}

func (b *Backend) record(key string) error {
	b.Calls = append(b.Calls, key)
	return b.Fail[key]
}

// Count reports how many times key was called.
func (b *Backend) Count(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.Calls {
		if c == key {
			n++
		}
	}
	return n
}

// Seed appends rows to table, assigning ids like a serial column.
func (b *Backend) Seed(table string, rows ...map[string]any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, row := range rows {
		b.insertRow(table, row)
	}
}

func (b *Backend) insertRow(table string, row map[string]any) {
	if _, ok := row["id"]; !ok {
		b.nextID++
		row["id"] = b.nextID
	}
	b.Rows[table] = append(b.Rows[table], row)
}

// Login returns a token for a live session of email.
func (b *Backend) Login(email string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextTok++
	token := fmt.Sprintf("token-%d", b.nextTok)
	b.Sessions[token] = email
	return token
}

type fakeAuth struct{ b *Backend }

func (a fakeAuth) SignUp(ctx context.Context, email, password string) error {
	b := a.b
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.record("auth.signup"); err != nil {
		return err
	}
	if _, ok := b.Users[email]; ok {
		return BackendError("User already registered")
	}
	b.Users[email] = password
	return nil
}

func (a fakeAuth) SignInWithPassword(ctx context.Context, email, password string) (*backend.Session, error) {
	b := a.b
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.record("auth.signin"); err != nil {
		return nil, err
	}
	if b.NoSession {
		return nil, nil
	}
	if pw, ok := b.Users[email]; !ok || pw != password {
		return nil, BackendError("Invalid login credentials")
	}
	b.nextTok++
	token := fmt.Sprintf("token-%d", b.nextTok)
	b.Sessions[token] = email
	return &backend.Session{AccessToken: token, Email: email}, nil
}

func (a fakeAuth) SignOut(ctx context.Context, accessToken string) error {
	b := a.b
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.record("auth.signout"); err != nil {
		return err
	}
	delete(b.Sessions, accessToken)
	return nil
}

func (a fakeAuth) GetSession(ctx context.Context, accessToken string) (*backend.Session, error) {
	b := a.b
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.record("auth.session"); err != nil {
		return nil, err
	}
	email, ok := b.Sessions[accessToken]
	if !ok {
		return nil, nil
	}
	return &backend.Session{AccessToken: accessToken, Email: email}, nil
}

type fakeTables struct{ b *Backend }

func (t fakeTables) From(name string) backend.Table {
	return fakeTable{b: t.b, name: name}
}

type fakeTable struct {
	b    *Backend
	name string
}

func (t fakeTable) begin(ctx context.Context, op string) error {
	token, _ := utils.GetTokenFromContext(ctx)
	t.b.Tokens = append(t.b.Tokens, token)
	return t.b.record(t.name + "." + op)
}

func matches(row map[string]any, f backend.Filter) bool {
	return fmt.Sprint(row[f.Column]) == fmt.Sprint(f.Value)
}

func toRows(v any) ([]map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil {
		var row map[string]any
		if err := json.Unmarshal(data, &row); err != nil {
			return nil, err
		}
		rows = []map[string]any{row}
	}
	return rows, nil
}

func (t fakeTable) Select(ctx context.Context, columns string, dest any, opts ...backend.SelectOption) error {
	t.b.mu.Lock()
	defer t.b.mu.Unlock()
	if err := t.begin(ctx, "select"); err != nil {
		return err
	}

	rows := append([]map[string]any{}, t.b.Rows[t.name]...)
	o := backend.ApplySelectOptions(opts)
	if o.OrderBy != "" {
		sort.SliceStable(rows, func(i, j int) bool {
			less := fmt.Sprint(rows[i][o.OrderBy]) < fmt.Sprint(rows[j][o.OrderBy])
			if a, ok := rows[i][o.OrderBy].(int64); ok {
				if c, ok := rows[j][o.OrderBy].(int64); ok {
					less = a < c
				}
			}
			if !o.Ascending {
				return !less
			}
			return less
		})
	}

	data, err := json.Marshal(rows)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func (t fakeTable) Insert(ctx context.Context, rows any) error {
	t.b.mu.Lock()
	defer t.b.mu.Unlock()
	if err := t.begin(ctx, "insert"); err != nil {
		return err
	}

	decoded, err := toRows(rows)
	if err != nil {
		return err
	}
	for _, row := range decoded {
		t.b.insertRow(t.name, row)
	}
	return nil
}

func (t fakeTable) Update(ctx context.Context, values any, filter backend.Filter) error {
	t.b.mu.Lock()
	defer t.b.mu.Unlock()
	if err := t.begin(ctx, "update"); err != nil {
		return err
	}

	patch, err := toRows(values)
	if err != nil {
		return err
	}
	for _, row := range t.b.Rows[t.name] {
		if !matches(row, filter) {
			continue
		}
		for k, v := range patch[0] {
			row[k] = v
		}
	}
	return nil
}

func (t fakeTable) Delete(ctx context.Context, filter backend.Filter) error {
	t.b.mu.Lock()
	defer t.b.mu.Unlock()
	if err := t.begin(ctx, "delete"); err != nil {
		return err
	}

	kept := t.b.Rows[t.name][:0]
	for _, row := range t.b.Rows[t.name] {
		if !matches(row, filter) {
			kept = append(kept, row)
		}
	}
	t.b.Rows[t.name] = kept
	return nil
}

type fakeStorage struct{ b *Backend }

func (s fakeStorage) Upload(ctx context.Context, path string, body io.Reader, contentType string) error {
	b := s.b
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.record("storage.upload"); err != nil {
		return err
	}
	if _, ok := b.Objects[path]; ok {
		return BackendError("The resource already exists")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	b.Objects[path] = data
	b.Types[path] = contentType
	return nil
}

func (s fakeStorage) PublicURL(path string) string {
	return "https://cdn.test/media/" + path
}
