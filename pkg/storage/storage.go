package storage

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Output formats understood by Encode.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

type Storage struct {
	// Dir is prepended to relative paths. Empty means the working directory.
	Dir string
}

// FileStats holds metadata about a file without reading its contents.
type FileStats struct {
	SizeBytes int64
	ModTime   time.Time
}

func (s *Storage) path(fn string) string {
	if s.Dir == "" || filepath.IsAbs(fn) {
		return fn
	}
	return filepath.Join(s.Dir, fn)
}

// SaveFile writes content, creating parent directories as needed.
func (s *Storage) SaveFile(filePath string, content []byte) error {
	full := s.path(filePath)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}
	if err := os.WriteFile(full, content, 0644); err != nil {
		return fmt.Errorf("error saving file: %w", err)
	}
	return nil
}

func (s *Storage) ReadFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(s.path(filePath))
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return data, nil
}

func (s *Storage) HasFile(fn string) bool {
	_, err := os.Stat(s.path(fn))
	return err == nil
}

// GetFileStats returns metadata about a file using os.Stat.
func (s *Storage) GetFileStats(filePath string) (*FileStats, error) {
	info, err := os.Stat(s.path(filePath))
	if err != nil {
		return nil, fmt.Errorf("error getting file stats: %w", err)
	}

	return &FileStats{
		SizeBytes: info.Size(),
		ModTime:   info.ModTime(),
	}, nil
}

// Encode marshals v as indented JSON or YAML.
func Encode(v any, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", FormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal json: %w", err)
		}
		return data, nil
	case FormatYAML, "yml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal yaml: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// Decode unmarshals data written by Encode. The format is taken from ext
// (".json", ".yaml", ".yml"); anything else is tried as JSON.
func Decode(data []byte, ext string, v any) error {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case FormatYAML, "yml":
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to unmarshal yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to unmarshal json: %w", err)
		}
	}
	return nil
}

// SavePath generates a filesystem-friendly file name from a URL:
// <host>-<path>-<date>.<ext>, with dots and slashes replaced.
func SavePath(rawURL, ext string, now time.Time) string {
	if ext == "" {
		ext = FormatJSON
	}
	today := now.Format("2006-01-02")

	parsedURL, err := url.Parse(rawURL)
	if err != nil || parsedURL.Host == "" {
		safe := strings.TrimPrefix(rawURL, "https://")
		safe = strings.TrimPrefix(safe, "http://")
		safe = strings.NewReplacer("/", "_", ":", "_", "\\", "_").Replace(safe)
		return fmt.Sprintf("%s-%s.%s", safe, today, ext)
	}

	host := strings.ReplaceAll(parsedURL.Host, ".", "_")
	host = strings.ReplaceAll(host, ":", "_")

	// Keep the path so github.com/a/x and github.com/b/x do not collide.
	path := strings.Trim(parsedURL.Path, "/")
	path = strings.ReplaceAll(path, "/", "-")
	path = strings.ReplaceAll(path, ".", "_")

	base := host
	if path != "" {
		base = fmt.Sprintf("%s-%s", host, path)
	}
	return fmt.Sprintf("%s-%s.%s", base, today, ext)
}
