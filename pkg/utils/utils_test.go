package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "cat.png", "cat.png"},
		{"unix path", "/home/someone/pics/cat.png", "cat.png"},
		{"relative path", "pics/cat.png", "cat.png"},
		{"windows path", `C:\Users\someone\cat.png`, "cat.png"},
		{"trailing separator", "pics/", ""},
		{"empty", "", ""},
		{
			"over 32 chars keeps the tail",
			"an-extremely-descriptive-avatar-name.png",
			"mely-descriptive-avatar-name.png", // exactly the last 32
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeFilename(tt.in)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "/")
			assert.NotContains(t, got, `\`)
			assert.LessOrEqual(t, len(got), MaxFilenameLength)
		})
	}
}

func TestSanitizeFilenameLongPathSegment(t *testing.T) {
	long := "dir/" + strings.Repeat("x", 40) + ".png"
	got := SanitizeFilename(long)

	assert.Len(t, got, MaxFilenameLength)
	// The result is a suffix of the final segment, so the extension survives.
	assert.True(t, strings.HasSuffix(got, ".png"))
	segment := strings.Repeat("x", 40) + ".png"
	assert.True(t, strings.HasSuffix(segment, got))
}

func TestSanitizeFilenameMultibyte(t *testing.T) {
	// Truncation counts runes, so a multibyte name is never cut into an
	// invalid leading sequence.
	long := strings.Repeat("ä", 40) + ".png"
	got := SanitizeFilename(long)

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, MaxFilenameLength, utf8.RuneCountInString(got))
	assert.Equal(t, strings.Repeat("ä", 28)+".png", got)
}

func TestIsHashToken(t *testing.T) {
	assert.True(t, IsHashToken("0123456789abcdef0123456789abcdef"))
	assert.False(t, IsHashToken("alice"))
	assert.False(t, IsHashToken(""))
	assert.False(t, IsHashToken("0123456789abcdef0123456789abcdef0"))
}

func TestSizeToBytes(t *testing.T) {
	assert.Equal(t, int64(5<<20), SizeToBytes("5MB", 0))
	assert.Equal(t, int64(5<<20), SizeToBytes("5 mb", 0))
	assert.Equal(t, int64(512), SizeToBytes("512", 0))
	assert.Equal(t, int64(99), SizeToBytes("", 99))
	assert.Equal(t, int64(99), SizeToBytes("nonsense", 99))
	assert.Equal(t, int64(99), SizeToBytes("5XB", 99))
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1.00 KB", FormatBytes(1024))
	assert.Equal(t, "1.50 MB", FormatBytes(3<<20/2))
}
