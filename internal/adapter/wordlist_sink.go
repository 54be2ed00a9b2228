package adapter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// WordlistSink appends accepted candidates to a plain-text output file,
// one per line. Opening an existing file truncates a trailing partial
// line first, so an interrupted run never leaves a half-written candidate
// to be trusted on resume.
type WordlistSink interface {
	Write(candidate string) error
	Written() uint64
	Path() string
	Close() error
}

type wordlistSink struct {
	path    string
	file    *os.File
	written uint64
}

// OpenWordlistSink opens path for appending, creating parent directories
// as needed.
func OpenWordlistSink(path string) (WordlistSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open output file %s: %w", path, err)
	}

	if err := truncatePartialLine(f); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("truncate partial line in %s: %w", path, err)
	}

	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("seek output file %s: %w", path, err)
	}

	return &wordlistSink{path: path, file: f}, nil
}

// truncatePartialLine drops any bytes after the last newline.
func truncatePartialLine(f *os.File) error {
	info, err := f.Stat()
	if err != nil {
		return err
	}

	size := info.Size()
	if size == 0 {
		return nil
	}

	const chunkSize = 32 * 1024

	end := size
	for end > 0 {
		start := end - chunkSize
		if start < 0 {
			start = 0
		}

		buf := make([]byte, end-start)
		if _, err := f.ReadAt(buf, start); err != nil {
			return err
		}

		if i := strings.LastIndexByte(string(buf), '\n'); i >= 0 {
			keep := start + int64(i) + 1
			if keep != size {
				slog.Warn("truncating partial line in output file", "path", f.Name(), "bytes", size-keep)
				return f.Truncate(keep)
			}

			return nil
		}

		end = start
	}

	// No newline at all: the whole file is one partial line.
	slog.Warn("truncating partial line in output file", "path", f.Name(), "bytes", size)

	return f.Truncate(0)
}

func (w *wordlistSink) Write(candidate string) error {
	if _, err := w.file.WriteString(candidate + "\n"); err != nil {
		return fmt.Errorf("write output file %s: %w", w.path, err)
	}

	w.written++

	return nil
}

func (w *wordlistSink) Written() uint64 {
	return w.written
}

func (w *wordlistSink) Path() string {
	return w.path
}

func (w *wordlistSink) Close() error {
	if w.file == nil {
		return nil
	}

	err := w.file.Close()
	w.file = nil

	if err != nil {
		slog.Error("failed to close output file", "path", w.path, "error", err)
	}

	return err
}

// NextRunPath returns the output path for a session's next run,
// numbering runs by scanning the directory for earlier ones.
func NextRunPath(dir string, sessionID string) string {
	pattern := regexp.MustCompile(`^passwords_` + regexp.QuoteMeta(sessionID) + `_run(\d+)\.txt$`)
	next := 1

	entries, err := os.ReadDir(dir)
	if err == nil {
		for _, entry := range entries {
			match := pattern.FindStringSubmatch(entry.Name())
			if match == nil {
				continue
			}

			if n, err := strconv.Atoi(match[1]); err == nil && n >= next {
				next = n + 1
			}
		}
	}

	return filepath.Join(dir, fmt.Sprintf("passwords_%s_run%d.txt", sessionID, next))
}

// NamedOutputPath resolves a user-chosen output name under dir, adding a
// .txt extension when the name has none.
func NamedOutputPath(dir string, name string) string {
	name = strings.TrimSpace(name)
	if filepath.Ext(name) == "" {
		name += ".txt"
	}

	if filepath.IsAbs(name) {
		return name
	}

	return filepath.Join(dir, name)
}
