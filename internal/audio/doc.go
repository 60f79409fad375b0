// Package audio reads the intrinsic tags of audio files before upload.
//
// Only ID3v2 frames are inspected (via github.com/bogem/id3v2). Files without an ID3v2
// header yield empty [Tags] rather than an error, since the service accepts untagged uploads.
package audio
