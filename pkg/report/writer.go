package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "wbprivacy/pkg/errors"
)

// Output formats accepted by WriteFile
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ParseFormat normalizes a format name. An empty name means text.
func ParseFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", apperrors.Newf(apperrors.ErrorTypeConfig,
			"unknown report format %q (valid values: text, json, yaml)", s)
	}
}

// Encode serializes the summary in the given format
func (s *Summary) Encode(format string) ([]byte, error) {
	format, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode summary: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(s)
		if err != nil {
			return nil, fmt.Errorf("failed to encode summary: %w", err)
		}
		return data, nil
	default:
		var buf bytes.Buffer
		if err := s.Render(&buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
}

// WriteFile exports the summary to path in the given format
func (s *Summary) WriteFile(path, format string) error {
	data, err := s.Encode(format)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	return writeFileAtomic(path, data)
}

// writeFileAtomic writes through a temporary file so a crash
// never leaves a half-written report behind
func writeFileAtomic(path string, data []byte) error {
	tmpPath := path + ".tmp"

	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}

	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write report file: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close report file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename report file: %w", err)
	}

	return nil
}
