package simpleboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveDownloadURL_LegacyPrefix(t *testing.T) {
	url := ResolveDownloadURL("posts/2024/img.png", "http://files.example.com")
	assert.Equal(t, "http://files.example.com/2024/img.png", url)
}

func TestResolveDownloadURL_SlashHandling(t *testing.T) {
	cases := []struct {
		name   string
		path   string
		base   string
		expect string
	}{
		{"no leading slash", "2024/img.png", "http://host", "http://host/2024/img.png"},
		{"leading slash", "/2024/img.png", "http://host", "http://host/2024/img.png"},
		{"trailing slash on base", "2024/img.png", "http://host/", "http://host/2024/img.png"},
		{"both slashes", "/2024/img.png", "http://host/", "http://host/2024/img.png"},
		{"slash then legacy prefix", "/posts/2024/img.png", "http://host", "http://host/2024/img.png"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, ResolveDownloadURL(tc.path, tc.base))
		})
	}
}

func TestNormalizeAttachmentPath_Idempotent(t *testing.T) {
	inputs := []string{
		"posts/2024/img.png",
		"/posts/2024/img.png",
		"2024/img.png",
		"/2024/img.png",
	}
	for _, in := range inputs {
		once := NormalizeAttachmentPath(in)
		twice := NormalizeAttachmentPath(once)
		assert.Equal(t, once, twice, "input %q", in)
	}
}

func TestAttachmentName(t *testing.T) {
	assert.Equal(t, "img.png", AttachmentName("posts/2024/img.png"))
	assert.Equal(t, "img.png", AttachmentName("img.png"))
	assert.Equal(t, "", AttachmentName(""))
}
