package audio

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/bogem/id3v2"
)

// Tags holds the fields shown in progress output and stored in the upload history.
type Tags struct {
	Title  string
	Artist string
	Album  string
}

// Empty reports whether no tag field was found.
func (t Tags) Empty() bool {
	return t.Title == "" && t.Artist == "" && t.Album == ""
}

// ReadTags parses the ID3v2 header of data.
func ReadTags(data []byte) (Tags, error) {
	tag, err := id3v2.ParseReader(bytes.NewReader(data), id3v2.Options{
		Parse:       true,
		ParseFrames: []string{"Title", "Artist", "Album/Movie/Show title"},
	})
	if err != nil {
		return Tags{}, fmt.Errorf("failed to parse ID3 tags: %w", err)
	}
	defer tag.Close()

	return Tags{
		Title:  strings.TrimSpace(tag.Title()),
		Artist: strings.TrimSpace(tag.Artist()),
		Album:  strings.TrimSpace(tag.Album()),
	}, nil
}

// DisplayName formats tags as "Artist - Title", falling back to fallback when the title is missing.
func DisplayName(t Tags, fallback string) string {
	switch {
	case t.Title == "":
		return fallback
	case t.Artist == "":
		return t.Title
	default:
		return t.Artist + " - " + t.Title
	}
}
