// Package tasks authenticates against the music service and uploads batches of local files to the cloud library,
// with real-time progress reporting.
//
// # Core Operations
//
//  1. [CredentialResolver.Resolve] : obtain a verified session
//     - explicit phone/password from flags always trigger a fresh login, optionally saved to config
//     - otherwise a saved session is checked against the status endpoint
//     - otherwise saved phone/password are used to log in
//
//  2. [PrepareRun] : pick the upload path and custom metadata override
//     - [ResolveTarget] chooses flags over config
//     - [ResolveFiles] lists a single file or the audio files of a directory
//
//  3. [UploadEngine.Run] : upload every file sequentially
//     - failures are isolated per file and collected in a [RunReport]
//     - an optional [Recorder] stores the run history
//
// # Progress Reporting
//
// All operations report through a [Sink]. A [ProgressUpdate] carries the phase, a [Level],
// step counters and a display message. [ChanSink] forwards updates to a channel using select
// with default so reporting never blocks the upload loop.
package tasks
