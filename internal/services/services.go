// package services contains the music service client
package services

import (
	"context"
)

// CloudService defines the operations the uploader needs from the music service.
type CloudService interface {
	// Login performs a phone number login. The returned result carries the service's response code;
	// an error is only returned when no response could be obtained or decoded.
	Login(ctx context.Context, params LoginParams) (*LoginResult, error)

	// CheckStatus reports whether token is still attached to a logged-in account.
	CheckStatus(ctx context.Context, token string) (*StatusResult, error)

	// Upload sends one audio file to the cloud library of the account owning token.
	Upload(ctx context.Context, token string, file UploadFile, override *Override) (*UploadResult, error)

	// Name returns the name of the service
	Name() string
}

// SuccessCode is the response code the service uses for a successful call.
const SuccessCode = 200

// LoginParams contains phone login credentials.
//
// Password and PasswordHash are mutually exclusive; Password wins when both are set.
type LoginParams struct {
	CountryCode  string
	Phone        string
	Password     string
	PasswordHash string
}

// LoginResult is the decoded login response.
type LoginResult struct {
	Code   int
	Cookie string
	Body   []byte
}

// Account is the account object returned by the status endpoint.
type Account struct {
	ID       int64  `json:"id"`
	UserName string `json:"userName"`
	VIPType  int    `json:"vipType"`
}

// Profile is the user profile returned alongside [Account].
type Profile struct {
	UserID   int64  `json:"userId"`
	Nickname string `json:"nickname"`
}

// StatusResult is the decoded status-check response.
type StatusResult struct {
	Code    int
	Account *Account
	Profile *Profile
}

// Valid reports whether the status check proves a live session.
func (s *StatusResult) Valid() bool {
	return s != nil && s.Code == SuccessCode && s.Account != nil
}

// UploadFile is one file's name and contents.
type UploadFile struct {
	Name string
	Data []byte
}

// Override replaces a file's intrinsic name/artist/album tags during upload.
type Override struct {
	Name   string
	Artist string
	Album  string
}

// Empty reports whether no override field is set.
func (o *Override) Empty() bool {
	return o == nil || (o.Name == "" && o.Artist == "" && o.Album == "")
}

// UploadResult is the decoded response of a successful upload.
type UploadResult struct {
	Code   int
	SongID string
}
