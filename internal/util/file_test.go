package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileNameFromURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"plain path", "https://cdn.example.com/files/syllabus.pdf", "syllabus.pdf"},
		{"query string stripped", "https://cdn.example.com/files/notes.pdf?sig=abc&x=1", "notes.pdf"},
		{"fragment stripped", "https://cdn.example.com/files/a.zip#top", "a.zip"},
		{"trailing slash", "https://cdn.example.com/files/", ""},
		{"no slash", "bare-name.txt", "bare-name.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FileNameFromURL(tt.url))
		})
	}
}

func TestHasAllowedExtension(t *testing.T) {
	assert.True(t, HasAllowedExtension("movie.MP4", AllowedVideoExtensions))
	assert.True(t, HasAllowedExtension("cover.webp", AllowedImageExtensions))
	assert.False(t, HasAllowedExtension("script.sh", AllowedVideoExtensions))
	assert.False(t, HasAllowedExtension("archive.tar.gz", AllowedImageExtensions))
}
