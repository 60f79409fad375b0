// Package ui renders upload progress in the terminal.
//
// [Console] is the line-oriented sink used by default: every [tasks.ProgressUpdate] becomes one
// line colored by its level.
//
// [Model] is a bubbletea program for `upload --ui`, moving through three views:
//  1. [AuthView] : spinner while the session is resolved
//  2. [UploadView] : progress bar and the latest messages
//  3. [ResultView] : counts and a scrollable list of failed files
//
// The pipeline runs in its own goroutine and reports through a [tasks.ChanSink]; the model reads
// the channel one update at a time, so the upload loop itself stays sequential.
package ui
