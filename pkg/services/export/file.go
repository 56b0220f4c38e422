package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	SchemeFile   = "file"
	SchemeStdout = "stdout"
	SchemeS3     = "s3"
)

type fileSink struct {
	target string
}

// NewFileSink writes into the directory target, or to target itself when it
// names a .ckl file.
func NewFileSink(target string) Sink {
	return &fileSink{target: target}
}

func FileFactory(_ context.Context, target string) (Sink, error) {
	if target == "" {
		target = "."
	}
	return NewFileSink(target), nil
}

func (s *fileSink) Name() string {
	return SchemeFile
}

func (s *fileSink) Write(_ context.Context, fileName string, data []byte) (string, error) {
	path := s.target
	if !strings.EqualFold(filepath.Ext(path), ".ckl") {
		path = filepath.Join(path, fileName)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write checklist: %w", err)
	}
	return path, nil
}

type writerSink struct {
	w io.Writer
}

func NewWriterSink(w io.Writer) Sink {
	return &writerSink{w: w}
}

func (s *writerSink) Name() string {
	return SchemeStdout
}

func (s *writerSink) Write(_ context.Context, _ string, data []byte) (string, error) {
	if _, err := s.w.Write(data); err != nil {
		return "", fmt.Errorf("write checklist: %w", err)
	}
	return "-", nil
}
