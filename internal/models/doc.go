// Package models defines the persisted entities of the upload history.
//
//   - [Run] : one invocation that reached the upload loop, with its final counts
//   - [Upload] : one file's outcome within a run
//
// Both implement [Model] so the SQLite repositories can share the generic [Repository] contract.
package models
