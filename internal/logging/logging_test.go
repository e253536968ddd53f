package logging

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLogFilePath(t *testing.T) {
	sessionStart := time.Date(2026, 3, 1, 9, 30, 15, 0, time.UTC)

	tests := []struct {
		name    string
		logsDir string
		appName string
		want    string
	}{
		{
			name:    "basic path",
			logsDir: "simlogs",
			appName: "spacecar-sim",
			want:    filepath.Join("simlogs", "spacecar-sim.20260301_093015.log"),
		},
		{
			name:    "relative path with dot",
			logsDir: "./simlogs",
			appName: "spacecar-sim",
			want:    filepath.Join(".", "simlogs", "spacecar-sim.20260301_093015.log"),
		},
		{
			name:    "absolute path",
			logsDir: filepath.Join("/var", "log", "spacecar"),
			appName: "spacecar-sim",
			want:    filepath.Join("/var", "log", "spacecar", "spacecar-sim.20260301_093015.log"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LogFilePath(tt.logsDir, tt.appName, sessionStart))
		})
	}
}
