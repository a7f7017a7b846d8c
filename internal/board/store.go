package board

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/planboard/internal/errors"
)

// Parse decodes and validates a board.
func Parse(data []byte) (*Board, error) {
	var b Board
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, errors.NewBoardError("failed to parse board", err)
	}
	if b.Axis.Kind == "" {
		b.Axis.Kind = "slot"
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// Load reads, decodes and validates the board at path.
func Load(path string) (*Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewBoardError("failed to read board", err).WithPath(path)
	}
	b, err := Parse(data)
	if err != nil {
		var be *errors.BoardError
		if errors.As(err, &be) {
			return nil, be.WithPath(path)
		}
		return nil, err
	}
	return b, nil
}

// Marshal encodes b as YAML with two-space indentation.
func Marshal(b *Board) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(b); err != nil {
		return nil, errors.NewBoardError("failed to encode board", err)
	}
	if err := enc.Close(); err != nil {
		return nil, errors.NewBoardError("failed to encode board", err)
	}
	return buf.Bytes(), nil
}

// Save validates b and writes it to path atomically. Readers, including a
// Watcher on the same file, never observe a partial file.
func Save(path string, b *Board) error {
	if err := b.Validate(); err != nil {
		var be *errors.BoardError
		if errors.As(err, &be) {
			return be.WithPath(path)
		}
		return err
	}
	data, err := Marshal(b)
	if err != nil {
		return err
	}

	perm := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := atomicWriteFile(path, data, perm); err != nil {
		return errors.NewBoardError("failed to save board", err).WithPath(path)
	}
	return nil
}

// atomicWriteFile writes data to a temporary file in the target directory
// and renames it over path.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmpFile, err := os.CreateTemp(dir, ".planboard-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}
