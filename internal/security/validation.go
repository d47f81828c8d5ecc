// Package security validates user-supplied endpoints and file paths.
package security

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ValidateServiceURL validates the base URL of an HTTP service such as Ollama.
// Only http and https are allowed and a host is required. Local hosts are
// permitted since model servers usually run on the same machine.
func ValidateServiceURL(urlStr string) error {
	if urlStr == "" {
		return errors.New("empty URL")
	}

	parsed, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("invalid URL protocol (only http:// and https:// allowed): %q", parsed.Scheme)
	}

	if parsed.Host == "" {
		return errors.New("URL must have a hostname")
	}

	if parsed.User != nil {
		return errors.New("URL must not contain credentials")
	}

	return nil
}

// ValidateOutputPath checks that path can be used as a token output file.
// It must name a file, not a directory.
func ValidateOutputPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("empty output path")
	}

	clean := filepath.Clean(path)
	if strings.HasSuffix(path, string(filepath.Separator)) {
		return fmt.Errorf("output path %q names a directory", path)
	}

	info, err := os.Stat(clean)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil
	case err != nil:
		return fmt.Errorf("invalid output path: %w", err)
	case info.IsDir():
		return fmt.Errorf("output path %q is a directory", path)
	case !info.Mode().IsRegular():
		return fmt.Errorf("output path %q is not a regular file", path)
	}

	return nil
}
