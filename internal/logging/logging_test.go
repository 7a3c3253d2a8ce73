package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name: "JSON format to stdout",
			config: Config{
				Level:  "info",
				Format: "json",
				Output: "stdout",
			},
			wantErr: false,
		},
		{
			name: "Console format to stderr",
			config: Config{
				Level:  "debug",
				Format: "console",
				Output: "stderr",
			},
			wantErr: false,
		},
		{
			name: "Invalid log level defaults to info",
			config: Config{
				Level:  "invalid",
				Format: "json",
				Output: "stdout",
			},
			wantErr: false,
		},
		{
			name: "Unwritable file path",
			config: Config{
				Level:  "info",
				Format: "json",
				Output: "/nonexistent-dir/vidshare.log",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewLogger() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && logger == nil {
				t.Error("Expected non-nil logger")
			}
		})
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, Config{Level: "warn", Format: "json"})

	logger.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("Expected info to be filtered at warn level, got %s", buf.String())
	}

	logger.Warn("kept")
	if buf.Len() == 0 {
		t.Error("Expected warn message to be written")
	}
}

func TestLoggerWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, Config{Level: "info", Format: "json"})

	logger.
		WithRequestID("req-123").
		WithUserID("user-1").
		WithPlaylistID("playlist-1").
		WithVideoID("video-1").
		WithFields(map[string]interface{}{"key": "value"}).
		Info("with fields")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse log output: %v", err)
	}

	expected := map[string]string{
		"request_id":  "req-123",
		"user_id":     "user-1",
		"playlist_id": "playlist-1",
		"video_id":    "video-1",
		"key":         "value",
		"message":     "with fields",
	}
	for k, v := range expected {
		if entry[k] != v {
			t.Errorf("Expected %s=%s, got %v", k, v, entry[k])
		}
	}
}

func TestLogHTTPRequest(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, Config{Level: "info", Format: "json"})

	logger.WithRequestID("req-1").LogHTTPRequest("GET", "/api/v1/videos", "192.168.1.1", 500, 100*time.Millisecond)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse log output: %v", err)
	}

	if entry["level"] != "error" {
		t.Errorf("Expected 5xx to log at error level, got %v", entry["level"])
	}
	if entry["status_code"] != float64(500) {
		t.Errorf("Expected status_code 500, got %v", entry["status_code"])
	}
	if entry["request_id"] != "req-1" {
		t.Errorf("Expected request_id req-1, got %v", entry["request_id"])
	}
}

func TestLogDatabaseOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, Config{Level: "info", Format: "json"})

	logger.LogDatabaseOperation("find_video", 5*time.Millisecond, nil)
	if buf.Len() != 0 {
		t.Error("Expected successful database operations to log at debug level")
	}

	logger.LogDatabaseOperation("find_video", 5*time.Millisecond, errors.New("connection refused"))
	if !bytes.Contains(buf.Bytes(), []byte("connection refused")) {
		t.Errorf("Expected error in output, got %s", buf.String())
	}
}

func TestNop(t *testing.T) {
	logger := Nop()
	logger.Info("discarded")
	logger.WithError(errors.New("x")).Error("discarded")
}
