package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"catalog-console/pkg/utils"

	"go.uber.org/zap"
)

// SupabaseConfig is what NewSupabase needs to reach a project.
type SupabaseConfig struct {
	URL     string
	AnonKey string
	Bucket  string
	Timeout time.Duration
}

// supabase talks to the GoTrue, PostgREST and Storage APIs of one project.
type supabase struct {
	baseURL    string
	anonKey    string
	bucket     string
	httpClient *http.Client
	log        *zap.Logger
}

// NewSupabase builds a Client backed by a Supabase project. httpClient may be
// nil, in which case one with cfg.Timeout is created.
func NewSupabase(cfg SupabaseConfig, httpClient *http.Client, log *zap.Logger) (*Client, error) {
	if cfg.URL == "" || cfg.AnonKey == "" {
		return nil, fmt.Errorf("supabase url and anon key are required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.Bucket == "" {
		cfg.Bucket = "media"
	}

	s := &supabase{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		anonKey:    cfg.AnonKey,
		bucket:     cfg.Bucket,
		httpClient: httpClient,
		log:        log.With(zap.String("backend", "supabase")),
	}

	return &Client{
		Auth:    &supabaseAuth{s},
		DB:      s,
		Storage: &supabaseStorage{s},
	}, nil
}

type apiResponse struct {
	StatusCode int
	Body       []byte
}

// do sends one request. bearer falls back to the anon key.
func (s *supabase) do(ctx context.Context, method, path string, query url.Values, body io.Reader, header http.Header, bearer string) (*apiResponse, error) {
	fullURL := s.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if bearer == "" {
		bearer = s.anonKey
	}
	req.Header.Set("apikey", s.anonKey)
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.log.Warn("Backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	s.log.Debug("Backend request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
	)

	apiResp := &apiResponse{StatusCode: resp.StatusCode, Body: data}
	if resp.StatusCode >= 300 {
		return apiResp, decodeError(resp.StatusCode, data)
	}
	return apiResp, nil
}

func (s *supabase) doJSON(ctx context.Context, method, path string, query url.Values, payload any, header http.Header, bearer string) (*apiResponse, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	if header == nil {
		header = http.Header{}
	}
	header.Set("Content-Type", "application/json")
	return s.do(ctx, method, path, query, body, header, bearer)
}

// decodeError pulls the human message out of the different error shapes
// GoTrue, PostgREST and Storage return.
func decodeError(status int, body []byte) *Error {
	var payload struct {
		Msg              string          `json:"msg"`
		Message          string          `json:"message"`
		ErrorDescription string          `json:"error_description"`
		Error            json.RawMessage `json:"error"`
		ErrorCode        string          `json:"error_code"`
		Code             json.RawMessage `json:"code"`
	}
	e := &Error{Status: status}
	if err := json.Unmarshal(body, &payload); err == nil {
		var errText string
		_ = json.Unmarshal(payload.Error, &errText)

		switch {
		case payload.Msg != "":
			e.Message = payload.Msg
		case payload.Message != "":
			e.Message = payload.Message
		case payload.ErrorDescription != "":
			e.Message = payload.ErrorDescription
		case errText != "":
			e.Message = errText
		}

		e.Code = payload.ErrorCode
		if e.Code == "" {
			var code string
			if json.Unmarshal(payload.Code, &code) == nil {
				e.Code = code
			}
		}
	}
	if e.Message == "" {
		e.Message = strings.TrimSpace(string(body))
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}

// ==================== AUTH ====================

type supabaseAuth struct {
	*supabase
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type gotrueUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type tokenResponse struct {
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	ExpiresIn    int64      `json:"expires_in"`
	ExpiresAt    int64      `json:"expires_at"`
	User         gotrueUser `json:"user"`
}

func (a *supabaseAuth) SignUp(ctx context.Context, email, password string) error {
	_, err := a.doJSON(ctx, http.MethodPost, "/auth/v1/signup", nil, credentials{email, password}, nil, "")
	return err
}

func (a *supabaseAuth) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	query := url.Values{"grant_type": {"password"}}
	resp, err := a.doJSON(ctx, http.MethodPost, "/auth/v1/token", query, credentials{email, password}, nil, "")
	if err != nil {
		return nil, err
	}

	var tok tokenResponse
	if err := json.Unmarshal(resp.Body, &tok); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, nil
	}

	expiresAt := time.Unix(tok.ExpiresAt, 0)
	if tok.ExpiresAt == 0 {
		expiresAt = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	}

	return &Session{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    expiresAt,
		UserID:       tok.User.ID,
		Email:        tok.User.Email,
	}, nil
}

func (a *supabaseAuth) SignOut(ctx context.Context, accessToken string) error {
	query := url.Values{"scope": {"local"}}
	_, err := a.doJSON(ctx, http.MethodPost, "/auth/v1/logout", query, nil, nil, accessToken)
	return err
}

func (a *supabaseAuth) GetSession(ctx context.Context, accessToken string) (*Session, error) {
	if accessToken == "" {
		return nil, nil
	}

	resp, err := a.do(ctx, http.MethodGet, "/auth/v1/user", nil, nil, nil, accessToken)
	if err != nil {
		if resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			return nil, nil
		}
		return nil, err
	}

	var user gotrueUser
	if err := json.Unmarshal(resp.Body, &user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	if user.ID == "" {
		return nil, nil
	}

	return &Session{AccessToken: accessToken, UserID: user.ID, Email: user.Email}, nil
}

// ==================== TABLES ====================

func (s *supabase) From(name string) Table {
	return &restTable{s: s, name: name}
}

type restTable struct {
	s    *supabase
	name string
}

func (t *restTable) path() string {
	return "/rest/v1/" + url.PathEscape(t.name)
}

func (t *restTable) filterQuery(f Filter) url.Values {
	return url.Values{f.Column: {"eq." + fmt.Sprint(f.Value)}}
}

func userToken(ctx context.Context) string {
	token, _ := utils.GetTokenFromContext(ctx)
	return token
}

func (t *restTable) Select(ctx context.Context, columns string, dest any, opts ...SelectOption) error {
	if columns == "" {
		columns = "*"
	}
	query := url.Values{"select": {columns}}
	if o := ApplySelectOptions(opts); o.OrderBy != "" {
		dir := "desc"
		if o.Ascending {
			dir = "asc"
		}
		query.Set("order", o.OrderBy+"."+dir)
	}

	resp, err := t.s.do(ctx, http.MethodGet, t.path(), query, nil, nil, userToken(ctx))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body, dest); err != nil {
		return fmt.Errorf("decode %s rows: %w", t.name, err)
	}
	return nil
}

func (t *restTable) Insert(ctx context.Context, rows any) error {
	header := http.Header{"Prefer": {"return=minimal"}}
	_, err := t.s.doJSON(ctx, http.MethodPost, t.path(), nil, rows, header, userToken(ctx))
	return err
}

func (t *restTable) Update(ctx context.Context, values any, filter Filter) error {
	header := http.Header{"Prefer": {"return=minimal"}}
	_, err := t.s.doJSON(ctx, http.MethodPatch, t.path(), t.filterQuery(filter), values, header, userToken(ctx))
	return err
}

func (t *restTable) Delete(ctx context.Context, filter Filter) error {
	_, err := t.s.do(ctx, http.MethodDelete, t.path(), t.filterQuery(filter), nil, nil, userToken(ctx))
	return err
}

// ==================== STORAGE ====================

type supabaseStorage struct {
	*supabase
}

func escapePath(p string) string {
	parts := strings.Split(strings.TrimLeft(p, "/"), "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}

func (st *supabaseStorage) Upload(ctx context.Context, path string, body io.Reader, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header := http.Header{
		"Content-Type":  {contentType},
		"Cache-Control": {"max-age=3600"},
		"X-Upsert":      {"false"},
	}
	objectPath := "/storage/v1/object/" + url.PathEscape(st.bucket) + "/" + escapePath(path)
	_, err := st.do(ctx, http.MethodPost, objectPath, nil, body, header, userToken(ctx))
	return err
}

func (st *supabaseStorage) PublicURL(path string) string {
	return st.baseURL + "/storage/v1/object/public/" + url.PathEscape(st.bucket) + "/" + escapePath(path)
}
