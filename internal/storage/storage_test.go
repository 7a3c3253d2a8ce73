package storage

import (
	"strings"
	"testing"
)

func TestGetContentType(t *testing.T) {
	tests := []struct {
		filePath string
		wantType string
	}{
		{"video.mp4", "video/mp4"},
		{"VIDEO.MP4", "video/mp4"},
		{"video.mov", "video/quicktime"},
		{"video.avi", "video/x-msvideo"},
		{"video.mkv", "video/x-matroska"},
		{"video.webm", "video/webm"},
		{"thumb.jpg", "image/jpeg"},
		{"thumb.jpeg", "image/jpeg"},
		{"thumb.png", "image/png"},
		{"unknown.xyz", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.filePath, func(t *testing.T) {
			contentType := getContentType(tt.filePath)
			if contentType != tt.wantType {
				t.Errorf("getContentType(%q) = %q, want %q", tt.filePath, contentType, tt.wantType)
			}
		})
	}
}

func TestObjectKey(t *testing.T) {
	tests := []struct {
		localPath string
		want      string
	}{
		{"/tmp/vidshare/abc.MP4", "videos/id-1.mp4"},
		{"/tmp/vidshare/thumb.png", "images/id-1.png"},
		{"/tmp/vidshare/notes", "files/id-1"},
	}

	for _, tt := range tests {
		t.Run(tt.localPath, func(t *testing.T) {
			if got := objectKey(tt.localPath, "id-1"); got != tt.want {
				t.Errorf("objectKey(%q) = %q, want %q", tt.localPath, got, tt.want)
			}
		})
	}
}

func TestPublicURL(t *testing.T) {
	got := publicURL("https://cdn.example.com/media/", "videos/a b.mp4")
	if got != "https://cdn.example.com/media/videos/a%20b.mp4" {
		t.Errorf("unexpected url %q", got)
	}
	if strings.Contains(publicURL("http://localhost:9000/media", "videos/x.mp4"), "//videos") {
		t.Error("expected a single slash between base and key")
	}
}
