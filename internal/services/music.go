// Music service [CloudService] implementation
//
// Communicates with the music API server, which exposes the service's login and cloud
// endpoints over plain HTTP and handles request encryption itself.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/desertthunder/cloudup/internal/shared"
)

const (
	defaultBaseURL   = "http://localhost:3000"
	defaultUserAgent = "cloudup"
	defaultTimeout   = 120 * time.Second
)

// MusicService implements [CloudService] against the music API server.
type MusicService struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	now        func() time.Time
}

// MusicServiceOpts configures a [MusicService].
type MusicServiceOpts struct {
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// NewMusicService creates a new music API client.
func NewMusicService(opts MusicServiceOpts) *MusicService {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}

	return &MusicService{
		baseURL:    opts.BaseURL,
		userAgent:  opts.UserAgent,
		httpClient: opts.HTTPClient,
		now:        time.Now,
	}
}

// NewMusicServiceFromConfig creates a client from the [shared.APIConfig] section.
func NewMusicServiceFromConfig(cfg shared.APIConfig) *MusicService {
	return NewMusicService(MusicServiceOpts{
		BaseURL:   cfg.BaseURL,
		UserAgent: cfg.UserAgent,
		Timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
	})
}

// Name returns the service name.
func (m *MusicService) Name() string {
	return "Cloud Music"
}

// HashPassword returns the lowercase hex md5 digest the login endpoint accepts as md5_password.
func HashPassword(password string) string {
	return shared.MD5Hex([]byte(password))
}

// Login performs a phone number login.
//
// Calls GET /login/cellphone on the API server.
func (m *MusicService) Login(ctx context.Context, params LoginParams) (*LoginResult, error) {
	query := url.Values{}
	query.Set("phone", params.Phone)
	query.Set("countrycode", shared.FirstNonEmpty(params.CountryCode, shared.DefaultCountryCode))
	if params.Password != "" {
		query.Set("password", params.Password)
	} else {
		query.Set("md5_password", params.PasswordHash)
	}

	var body struct {
		Code   int    `json:"code"`
		Cookie string `json:"cookie"`
	}

	status, raw, err := m.doRequest(ctx, http.MethodGet, "/login/cellphone", query, nil, "", &body)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Code: codeOrStatus(body.Code, status), Cookie: body.Cookie, Body: raw}, nil
}

// CheckStatus checks whether token belongs to a logged-in account.
//
// Calls GET /login/status on the API server.
func (m *MusicService) CheckStatus(ctx context.Context, token string) (*StatusResult, error) {
	query := url.Values{}
	query.Set("cookie", token)

	var body struct {
		Data struct {
			Code    int      `json:"code"`
			Account *Account `json:"account"`
			Profile *Profile `json:"profile"`
		} `json:"data"`
	}

	status, _, err := m.doRequest(ctx, http.MethodGet, "/login/status", query, nil, "", &body)
	if err != nil {
		return nil, err
	}

	return &StatusResult{
		Code:    codeOrStatus(body.Data.Code, status),
		Account: body.Data.Account,
		Profile: body.Data.Profile,
	}, nil
}

// Upload sends file to the account's cloud library as multipart form field songFile.
//
// Calls POST /cloud on the API server. A non-success response is returned as a
// [shared.APIError] wrapping [shared.ErrUploadFailed].
func (m *MusicService) Upload(ctx context.Context, token string, file UploadFile, override *Override) (*UploadResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("songFile", file.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, fmt.Errorf("failed to write form file: %w", err)
	}

	fields := map[string]string{"md5": shared.MD5Hex(file.Data)}
	if !override.Empty() {
		fields["name"] = override.Name
		fields["artist"] = override.Artist
		fields["album"] = override.Album
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("failed to write form field %s: %w", key, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	query := url.Values{}
	query.Set("cookie", token)

	var body struct {
		Code         int `json:"code"`
		PrivateCloud struct {
			SongID json.Number `json:"songId"`
		} `json:"privateCloud"`
	}

	status, raw, err := m.doRequest(ctx, http.MethodPost, "/cloud", query, &buf, writer.FormDataContentType(), &body)
	if err != nil {
		return nil, err
	}

	code := codeOrStatus(body.Code, status)
	if status < 200 || status >= 300 || code != SuccessCode {
		return nil, &shared.APIError{StatusCode: status, Code: code, Body: string(raw), Err: shared.ErrUploadFailed}
	}

	return &UploadResult{Code: code, SongID: body.PrivateCloud.SongID.String()}, nil
}

// doRequest sends one request and decodes the JSON body into result.
//
// Non-2xx responses are not errors here: the API server mirrors the service's response code
// into the HTTP status, and callers decide from the decoded code. A timestamp parameter is
// added to every request so the server's response cache is bypassed.
func (m *MusicService) doRequest(ctx context.Context, method, endpoint string, query url.Values, body io.Reader, contentType string, result any) (int, []byte, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("timestamp", strconv.FormatInt(m.now().UnixMilli(), 10))

	apiURL := m.baseURL + endpoint + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, method, apiURL, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", m.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("%w: failed to read response: %v", shared.ErrAPIRequest, err)
	}

	if result != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, result); err != nil {
			return resp.StatusCode, raw, fmt.Errorf("%w: failed to decode response (status %d): %v", shared.ErrAPIRequest, resp.StatusCode, err)
		}
	}

	return resp.StatusCode, raw, nil
}

// codeOrStatus prefers the body's response code and falls back to the HTTP status.
func codeOrStatus(code, status int) int {
	if code != 0 {
		return code
	}
	return status
}
