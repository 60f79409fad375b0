// Package services defines the [CloudService] interface for the music service and implements it
// with [MusicService], an HTTP client for the music API server.
//
// # Endpoints
//
// [MusicService] calls three endpoints:
//   - GET /login/cellphone : phone login, returns the session cookie
//   - GET /login/status : checks that a cookie belongs to a logged-in account
//   - POST /cloud : multipart upload of one file (field songFile) to the cloud library
//
// The session cookie is passed as the cookie query parameter. Every request carries a
// timestamp parameter so cached responses are never served.
//
// # Response Codes
//
// The API server reports the service's own response code in the JSON body and mirrors it in
// the HTTP status. Login and CheckStatus return the decoded code and leave the decision to the
// caller; only transport and decode failures are errors ([shared.ErrAPIRequest]). Upload
// returns a [shared.APIError] wrapping [shared.ErrUploadFailed] for any code other than [SuccessCode].
//
// # Metadata Override
//
// An [Override] is sent as the name, artist and album form fields alongside the file and replaces
// the tags the service would otherwise read from the file.
package services
