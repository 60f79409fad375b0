package tasks

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/cloudup/internal/shared"
)

// AudioExtensions lists the extensions picked up when resolving a directory.
var AudioExtensions = map[string]struct{}{
	".mp3":  {},
	".flac": {},
	".wav":  {},
	".m4a":  {},
	".aac":  {},
	".ape":  {},
}

// FileEntry is one file to upload. Data is filled by [FileEntry.Read] right before the upload.
type FileEntry struct {
	Path string // Absolute path
	Name string // Base name sent to the service
	Data []byte
}

// IsAudioFile reports whether name carries one of [AudioExtensions]. The match is case-sensitive.
func IsAudioFile(name string) bool {
	_, ok := AudioExtensions[filepath.Ext(name)]
	return ok
}

// ResolveFiles returns the files to upload for path.
//
// A regular file is returned as-is whatever its extension. A directory yields its direct
// children with an audio extension in directory listing order; subdirectories are skipped.
// An empty result is not an error.
func ResolveFiles(path string) ([]FileEntry, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrIO, path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrIO, err)
	}

	if !info.IsDir() {
		return []FileEntry{{Path: abs, Name: info.Name()}}, nil
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrIO, err)
	}

	files := []FileEntry{}
	for _, entry := range entries {
		if entry.IsDir() || !IsAudioFile(entry.Name()) {
			continue
		}
		files = append(files, FileEntry{Path: filepath.Join(abs, entry.Name()), Name: entry.Name()})
	}
	return files, nil
}

// Read loads the file contents into Data.
func (f *FileEntry) Read() error {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrIO, err)
	}
	f.Data = data
	return nil
}
