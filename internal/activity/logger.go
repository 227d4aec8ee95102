// Package activity records user actions to append-only JSON-lines files.
// Writes are best-effort: a failed write never fails the request that
// triggered it.
package activity

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// rotationDays is the width of one log-file bucket: a new file every 14 days.
const rotationDays = 14

const recentLimit = 20

// User identifies who performed an action.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Entry is one logged action.
type Entry struct {
	Timestamp time.Time      `json:"timestamp"`
	User      User           `json:"user"`
	Action    string         `json:"action"`
	Resource  string         `json:"resource"`
	Details   map[string]any `json:"details,omitempty"`
}

// FileInfo describes one rotated log file.
type FileInfo struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

type Logger struct {
	dir string
	now func() time.Time
}

func NewLogger(dir string) (*Logger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating logs directory: %w", err)
	}

	return &Logger{dir: dir, now: time.Now}, nil
}

// FileFor maps a date to its log file name. Days since the Unix epoch are
// bucketed into 14-day windows, so the file rotates on a fixed global
// schedule rather than per-process state.
func FileFor(date time.Time) string {
	daysSinceEpoch := date.Unix() / (24 * 60 * 60)

	return fmt.Sprintf("activity-%d.log", daysSinceEpoch/rotationDays)
}

// Log appends one entry to the current log file. Failures are logged
// server-side and swallowed.
func (l *Logger) Log(user User, action, resource string, details map[string]any) {
	entry := Entry{
		Timestamp: l.now().UTC(),
		User:      user,
		Action:    action,
		Resource:  resource,
		Details:   details,
	}

	line, err := json.Marshal(entry)
	if err != nil {
		slog.Warn("failed to encode activity entry", "error", err)
		return
	}

	path := filepath.Join(l.dir, FileFor(entry.Timestamp))

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		slog.Warn("failed to open activity log", "path", path, "error", err)
		return
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		slog.Warn("failed to write activity entry", "path", path, "error", err)
	}
}

// Recent returns entries from the current log file no older than the given
// number of days, newest first, capped at 20. Unparseable lines are skipped.
func (l *Logger) Recent(days int) ([]Entry, error) {
	cutoff := l.now().AddDate(0, 0, -days)

	path := filepath.Join(l.dir, FileFor(l.now()))

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}

		return nil, fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	var entries []Entry

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		var entry Entry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			slog.Warn("skipping malformed activity line", "error", err)
			continue
		}

		if entry.Timestamp.Before(cutoff) {
			continue
		}

		entries = append(entries, entry)
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading activity log: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})

	if len(entries) > recentLimit {
		entries = entries[:recentLimit]
	}

	if entries == nil {
		entries = []Entry{}
	}

	return entries, nil
}

// Files lists the rotated log files, most recently modified first.
func (l *Logger) Files() ([]FileInfo, error) {
	dirEntries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("reading logs directory: %w", err)
	}

	var files []FileInfo

	for _, e := range dirEntries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "activity-") || !strings.HasSuffix(name, ".log") {
			continue
		}

		info, err := e.Info()
		if err != nil {
			continue
		}

		files = append(files, FileInfo{Name: name, Size: info.Size(), Modified: info.ModTime()})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Modified.After(files[j].Modified)
	})

	if files == nil {
		files = []FileInfo{}
	}

	return files, nil
}

// FileContent returns the raw content of one log file, or nil when it does
// not exist. The name is reduced to its base so callers cannot escape the
// logs directory.
func (l *Logger) FileContent(name string) ([]byte, error) {
	content, err := os.ReadFile(filepath.Join(l.dir, filepath.Base(name)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("reading activity log: %w", err)
	}

	return content, nil
}
