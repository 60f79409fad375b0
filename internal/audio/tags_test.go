package audio

import (
	"bytes"
	"testing"

	"github.com/bogem/id3v2"
)

func taggedMP3(t *testing.T, title, artist, album string) []byte {
	t.Helper()

	tag := id3v2.NewEmptyTag()
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	tag.SetTitle(title)
	tag.SetArtist(artist)
	tag.SetAlbum(album)

	var buf bytes.Buffer
	if _, err := tag.WriteTo(&buf); err != nil {
		t.Fatalf("failed to write tag: %v", err)
	}
	buf.WriteString("fake mpeg frames")
	return buf.Bytes()
}

func TestReadTags(t *testing.T) {
	t.Run("tagged file", func(t *testing.T) {
		tags, err := ReadTags(taggedMP3(t, "Song", "Artist", "Album"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		want := Tags{Title: "Song", Artist: "Artist", Album: "Album"}
		if tags != want {
			t.Errorf("expected %+v, got %+v", want, tags)
		}
	})

	t.Run("untagged file", func(t *testing.T) {
		tags, err := ReadTags([]byte("fLaC not an id3 header"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !tags.Empty() {
			t.Errorf("expected empty tags, got %+v", tags)
		}
	})
}

func TestDisplayName(t *testing.T) {
	tc := []struct {
		name string
		tags Tags
		want string
	}{
		{name: "artist and title", tags: Tags{Title: "Song", Artist: "Artist"}, want: "Artist - Song"},
		{name: "title only", tags: Tags{Title: "Song"}, want: "Song"},
		{name: "no title", tags: Tags{Artist: "Artist"}, want: "file.mp3"},
		{name: "empty", tags: Tags{}, want: "file.mp3"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayName(tt.tags, "file.mp3"); got != tt.want {
				t.Errorf("DisplayName() = %v, want %v", got, tt.want)
			}
		})
	}
}
