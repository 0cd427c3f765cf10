package logger

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"wbprivacy/pkg/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.LoggingConfig
		wantErr bool
	}{
		{
			name:    "valid config with info level",
			cfg:     &config.LoggingConfig{Level: "info", Format: "text"},
			wantErr: false,
		},
		{
			name:    "valid config with debug level",
			cfg:     &config.LoggingConfig{Level: "debug", Format: "text"},
			wantErr: false,
		},
		{
			name:    "json format",
			cfg:     &config.LoggingConfig{Level: "info", Format: "json"},
			wantErr: false,
		},
		{
			name:    "invalid log level",
			cfg:     &config.LoggingConfig{Level: "shouting", Format: "text"},
			wantErr: true,
		},
		{
			name: "config with file output",
			cfg: &config.LoggingConfig{
				Level:  "info",
				Format: "text",
				File:   filepath.Join(t.TempDir(), "wbprivacy.log"),
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, log)
			assert.NotNil(t, log.GetZerolog())
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	valid := []string{"debug", "info", "warn", "warning", "error", "fatal", "disabled", "INFO", "Debug"}
	for _, level := range valid {
		_, err := parseLogLevel(level)
		assert.NoError(t, err, "level %q should parse", level)
	}

	_, err := parseLogLevel("verbose")
	assert.Error(t, err)
}

func TestTestLoggerCapturesMessages(t *testing.T) {
	log := NewTestLogger()

	log.Info("run started")
	log.WithField("post_id", "42").Warn("visibility change failed")
	log.WithError(errors.New("boom")).Error("page fetch failed")

	messages := log.GetMessages()
	require.Len(t, messages, 3)

	assert.True(t, log.HasMessage("run started"))
	assert.True(t, log.HasError())

	warns := log.GetMessagesByLevel("WARN")
	require.Len(t, warns, 1)
	assert.Equal(t, "42", warns[0].Fields["post_id"])

	errs := log.GetMessagesByLevel("ERROR")
	require.Len(t, errs, 1)
	assert.EqualError(t, errs[0].Error, "boom")

	log.Clear()
	assert.Empty(t, log.GetMessages())
}

func TestTestLoggerMergesFields(t *testing.T) {
	log := NewTestLogger()

	log.WithFields(map[string]interface{}{"user_id": "777"}).
		InfoWithFields("fetched feed page", map[string]interface{}{"page": 3})

	messages := log.GetMessages()
	require.Len(t, messages, 1)
	assert.Equal(t, "777", messages[0].Fields["user_id"])
	assert.Equal(t, 3, messages[0].Fields["page"])
}

func TestLogMutationLevels(t *testing.T) {
	log := NewTestLogger()

	LogMutation(log, "101", "friends", false, nil)
	LogMutation(log, "102", "friends", true, nil)
	LogMutation(log, "103", "friends", false, errors.New("repost not supported"))

	assert.Len(t, log.GetMessagesByLevel("DEBUG"), 2)
	warns := log.GetMessagesByLevel("WARN")
	require.Len(t, warns, 1)
	assert.Equal(t, "103", warns[0].Fields["post_id"])
}

func TestLogRequestLevels(t *testing.T) {
	log := NewTestLogger()

	LogRequest(log, "GET", "https://weibo.com/ajax/statuses/mymblog", 200, 12.5)
	LogRequest(log, "POST", "https://weibo.com/ajax/statuses/modifyVisible", 403, 9.1)
	LogRequest(log, "GET", "https://weibo.com/ajax/statuses/mymblog", 502, 30.0)

	assert.Len(t, log.GetMessagesByLevel("DEBUG"), 1)
	assert.Len(t, log.GetMessagesByLevel("WARN"), 1)
	assert.Len(t, log.GetMessagesByLevel("ERROR"), 1)
}
