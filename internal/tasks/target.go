package tasks

import (
	"fmt"
	"os"

	"github.com/desertthunder/cloudup/internal/services"
	"github.com/desertthunder/cloudup/internal/shared"
)

// TargetOptions holds the upload target given on the command line.
type TargetOptions struct {
	File   string
	Dir    string
	Name   string
	Artist string
	Album  string
}

func (o TargetOptions) hasCustom() bool {
	return o.Name != "" || o.Artist != "" || o.Album != ""
}

// UploadTarget is the resolved path plus the optional metadata override.
type UploadTarget struct {
	Path        string
	FromConfig  bool
	DisplayName string
	Override    *services.Override
}

// Plan is a resolved target with its files, ready for [UploadEngine.Run].
type Plan struct {
	Target UploadTarget
	Files  []FileEntry
}

// ResolveTarget picks the path to upload and the override to attach.
//
// Path priority is file flag, dir flag, configured file, configured dir. An override is taken
// from the flags when a file flag and any custom field are given; otherwise the configured
// custom values apply when no dir flag is given and a configured file has override enabled.
func ResolveTarget(opts TargetOptions, cfg *shared.Config) UploadTarget {
	cfg = cfg.Clone()

	target := UploadTarget{Path: shared.FirstNonEmpty(opts.File, opts.Dir)}
	if target.Path == "" {
		target.Path = shared.FirstNonEmpty(cfg.Target.File, cfg.Target.Dir)
		target.FromConfig = true
	}

	custom := cfg.Target.Custom
	switch {
	case opts.File != "" && opts.hasCustom():
		target.Override = &services.Override{Name: opts.Name, Artist: opts.Artist, Album: opts.Album}
	case opts.Dir == "" && cfg.Target.File != "" && custom.Override:
		target.Override = &services.Override{Name: custom.Name, Artist: custom.Artist, Album: custom.Album}
	}

	if target.Override.Empty() {
		target.Override = nil
	}
	if target.Override != nil {
		target.DisplayName = target.Override.Name
	}
	return target
}

// PrepareRun resolves the target and its files.
//
// The override is dropped with a warning when the path turns out to be a directory or yields
// more than one file. Returns an error wrapping [shared.ErrNoFiles] when nothing was found.
func PrepareRun(opts TargetOptions, cfg *shared.Config, sink Sink) (*Plan, error) {
	sink = sinkOrNop(sink)

	target := ResolveTarget(opts, cfg)
	if target.FromConfig {
		sink.Send(fallbackTargetUpdate())
	}
	if target.Path == "" {
		return nil, shared.ErrNoFiles
	}

	files, err := ResolveFiles(target.Path)
	if err != nil {
		return nil, err
	}

	if target.Override != nil && (len(files) != 1 || isDir(target.Path)) {
		sink.Send(overrideDroppedUpdate(target.Path))
		target.Override = nil
		target.DisplayName = ""
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", shared.ErrNoFiles, target.Path)
	}

	sink.Send(filesFoundUpdate(target.Path, len(files)))
	return &Plan{Target: target, Files: files}, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
