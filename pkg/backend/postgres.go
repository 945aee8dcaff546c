package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"catalog-console/pkg/database"
	"catalog-console/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

const minPasswordLength = 6

// NewPostgres builds a self-hosted Client: auth and tables on Postgres,
// blobs in storage. sessionTTL bounds how long a login stays valid.
func NewPostgres(db database.PgxIface, storage Storage, sessionTTL time.Duration, log *zap.Logger) *Client {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	log = log.With(zap.String("backend", "postgres"))

	return &Client{
		Auth:    &pgAuth{db: db, ttl: sessionTTL, log: log},
		DB:      &pgTables{db: db, log: log},
		Storage: storage,
		Close:   db.Close,
	}
}

// translatePgError turns driver errors into backend errors carrying the
// server's message, the way PostgREST would report them.
func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &Error{Status: http.StatusBadRequest, Code: pgErr.Code, Message: pgErr.Message}
	}
	return err
}

// ==================== AUTH ====================

type pgAuth struct {
	db  database.PgxIface
	ttl time.Duration
	log *zap.Logger
}

func (a *pgAuth) SignUp(ctx context.Context, email, password string) error {
	if len(password) < minPasswordLength {
		return &Error{
			Status:  http.StatusUnprocessableEntity,
			Code:    "weak_password",
			Message: fmt.Sprintf("Password should be at least %d characters.", minPasswordLength),
		}
	}

	var exists bool
	err := a.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		a.log.Error("Failed to check email", zap.Error(err), zap.String("email", email))
		return fmt.Errorf("check email: %w", translatePgError(err))
	}
	if exists {
		return &Error{Status: http.StatusUnprocessableEntity, Code: "user_already_exists", Message: "User already registered"}
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		a.log.Error("Failed to hash password", zap.Error(err))
		return fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	_, err = a.db.Exec(ctx, `
		INSERT INTO users (id, email, password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.New(), email, hashed, now, now)
	if err != nil {
		a.log.Error("Failed to create user", zap.Error(err), zap.String("email", email))
		return fmt.Errorf("create user %s: %w", email, translatePgError(err))
	}

	a.log.Info("User registered", zap.String("email", email))
	return nil
}

func (a *pgAuth) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	invalid := &Error{Status: http.StatusBadRequest, Code: "invalid_credentials", Message: "Invalid login credentials"}

	var (
		userID uuid.UUID
		hash   string
	)
	err := a.db.QueryRow(ctx, `SELECT id, password FROM users WHERE email = $1`, email).Scan(&userID, &hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, invalid
	}
	if err != nil {
		a.log.Error("Failed to find user by email", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("find user: %w", translatePgError(err))
	}

	if !utils.CheckPasswordHash(password, hash) {
		a.log.Warn("Invalid password", zap.String("user_id", userID.String()))
		return nil, invalid
	}

	now := time.Now()
	token := utils.GenerateSessionToken()
	expiresAt := now.Add(a.ttl)
	_, err = a.db.Exec(ctx, `
		INSERT INTO sessions (id, user_id, token, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.New(), userID, token, expiresAt, now)
	if err != nil {
		a.log.Error("Failed to create session", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("create session: %w", translatePgError(err))
	}

	return &Session{
		AccessToken: token.String(),
		ExpiresAt:   expiresAt,
		UserID:      userID.String(),
		Email:       email,
	}, nil
}

func (a *pgAuth) SignOut(ctx context.Context, accessToken string) error {
	token, err := utils.ParseUUID(accessToken)
	if err != nil {
		return nil
	}

	_, err = a.db.Exec(ctx, `
		UPDATE sessions
		SET revoked_at = NOW()
		WHERE token = $1 AND revoked_at IS NULL
	`, token)
	if err != nil {
		a.log.Error("Failed to revoke session", zap.Error(err))
		return fmt.Errorf("revoke session: %w", translatePgError(err))
	}
	return nil
}

func (a *pgAuth) GetSession(ctx context.Context, accessToken string) (*Session, error) {
	token, err := utils.ParseUUID(accessToken)
	if err != nil {
		return nil, nil
	}

	var (
		userID    uuid.UUID
		email     string
		expiresAt time.Time
	)
	err = a.db.QueryRow(ctx, `
		SELECT s.user_id, u.email, s.expires_at
		FROM sessions s
		INNER JOIN users u ON u.id = s.user_id
		WHERE s.token = $1
		  AND s.revoked_at IS NULL
		  AND s.expires_at > NOW()
	`, token).Scan(&userID, &email, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		a.log.Error("Failed to find valid session", zap.Error(err))
		return nil, fmt.Errorf("find session: %w", translatePgError(err))
	}

	return &Session{
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
		UserID:      userID.String(),
		Email:       email,
	}, nil
}

// ==================== TABLES ====================

type pgTables struct {
	db  database.PgxIface
	log *zap.Logger
}

func (p *pgTables) From(name string) Table {
	return &pgTable{db: p.db, name: name, log: p.log.With(zap.String("table", name))}
}

type pgTable struct {
	db   database.PgxIface
	name string
	log  *zap.Logger
}

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

// selectList turns "*" or "a, b" into a safe column list.
func selectList(columns string) string {
	columns = strings.TrimSpace(columns)
	if columns == "" || columns == "*" {
		return "*"
	}
	parts := strings.Split(columns, ",")
	for i, c := range parts {
		parts[i] = ident(strings.TrimSpace(c))
	}
	return strings.Join(parts, ", ")
}

func (t *pgTable) Select(ctx context.Context, columns string, dest any, opts ...SelectOption) error {
	query := fmt.Sprintf("SELECT %s FROM %s", selectList(columns), ident(t.name))
	if o := ApplySelectOptions(opts); o.OrderBy != "" {
		dir := "DESC"
		if o.Ascending {
			dir = "ASC"
		}
		query += fmt.Sprintf(" ORDER BY %s %s", ident(o.OrderBy), dir)
	}

	rows, err := t.db.Query(ctx, query)
	if err != nil {
		t.log.Error("Failed to select rows", zap.Error(err))
		return fmt.Errorf("select %s: %w", t.name, translatePgError(err))
	}
	records, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		t.log.Error("Failed to scan rows", zap.Error(err))
		return fmt.Errorf("scan %s rows: %w", t.name, translatePgError(err))
	}
	if records == nil {
		records = []map[string]any{}
	}

	// Rows go through JSON so dest uses the same tags as the HTTP driver.
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode %s rows: %w", t.name, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode %s rows: %w", t.name, err)
	}
	return nil
}

func (t *pgTable) Insert(ctx context.Context, rows any) error {
	records, err := toRecords(rows)
	if err != nil {
		return err
	}

	for _, record := range records {
		cols, args := sortedColumns(record)
		if len(cols) == 0 {
			continue
		}
		placeholders := make([]string, len(cols))
		for i := range cols {
			placeholders[i] = fmt.Sprintf("$%d", i+1)
			cols[i] = ident(cols[i])
		}
		query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			ident(t.name), strings.Join(cols, ", "), strings.Join(placeholders, ", "))

		if _, err := t.db.Exec(ctx, query, args...); err != nil {
			t.log.Error("Failed to insert row", zap.Error(err))
			return fmt.Errorf("insert %s: %w", t.name, translatePgError(err))
		}
	}
	return nil
}

func (t *pgTable) Update(ctx context.Context, values any, filter Filter) error {
	records, err := toRecords(values)
	if err != nil {
		return err
	}
	if len(records) != 1 {
		return fmt.Errorf("update %s: expected one partial row, got %d", t.name, len(records))
	}

	cols, args := sortedColumns(records[0])
	if len(cols) == 0 {
		return nil
	}
	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", ident(c), i+1)
	}
	args = append(args, filter.Value)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
		ident(t.name), strings.Join(sets, ", "), ident(filter.Column), len(args))

	if _, err := t.db.Exec(ctx, query, args...); err != nil {
		t.log.Error("Failed to update rows", zap.Error(err), zap.Any("filter", filter))
		return fmt.Errorf("update %s: %w", t.name, translatePgError(err))
	}
	return nil
}

func (t *pgTable) Delete(ctx context.Context, filter Filter) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", ident(t.name), ident(filter.Column))
	if _, err := t.db.Exec(ctx, query, filter.Value); err != nil {
		t.log.Error("Failed to delete rows", zap.Error(err), zap.Any("filter", filter))
		return fmt.Errorf("delete %s: %w", t.name, translatePgError(err))
	}
	return nil
}

// toRecords normalizes a row or slice of rows into column maps, using the
// values' JSON tags as column names.
func toRecords(rows any) ([]map[string]any, error) {
	data, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("encode rows: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		data = append(append([]byte{'['}, data...), ']')
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var records []map[string]any
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	for _, record := range records {
		for k, v := range record {
			record[k] = normalizeValue(v)
		}
	}
	return records, nil
}

// normalizeValue maps JSON-decoded values onto types pgx encodes directly.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		f, _ := val.Float64()
		return f
	case []any:
		strs := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return val
			}
			strs = append(strs, s)
		}
		return strs
	default:
		return v
	}
}

func sortedColumns(record map[string]any) ([]string, []any) {
	cols := make([]string, 0, len(record))
	for c := range record {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	args := make([]any, len(cols))
	for i, c := range cols {
		args[i] = record[c]
	}
	return cols, args
}
