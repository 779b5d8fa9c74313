package discovery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

var ErrInvalidPort = errors.New("invalid port in discovery file")

// Publisher writes the bound port to Path. Publishing is best effort: a
// failure is logged and never stops the server.
type Publisher struct {
	Path   string
	Logger *zap.Logger
}

func (p Publisher) Publish(port int) {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := WritePort(p.Path, port); err != nil {
		logger.Debug("publish discovery file failed", zap.String("path", p.Path), zap.Error(err))
		return
	}
	logger.Debug("published discovery file", zap.String("path", p.Path), zap.Int("port", port))
}

// WritePort replaces path with the decimal port, without a trailing newline.
// The write goes through a temp file and rename so readers never see a
// partial value.
func WritePort(path string, port int) error {
	if path == "" {
		return errors.New("empty discovery path")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create discovery dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.WriteString(strconv.Itoa(port)); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("rename discovery file: %w", err)
	}
	return nil
}

// ReadPort parses a discovery file written by WritePort.
func ReadPort(path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	port, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil || port <= 0 || port > 65535 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPort, strings.TrimSpace(string(raw)))
	}
	return port, nil
}
