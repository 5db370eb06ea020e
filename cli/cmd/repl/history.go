package repl

import (
	"bufio"
	"os"
	"strings"
	"sync"
)

const baseHistory = "history.utf8"

// HistoryEntry is a single history line tagged with the mode it was
// entered in, so recall can restore the mode along with the text.
type HistoryEntry struct {
	Line string
	Mode inputMode
}

// History manages session history with file persistence. Each line is
// stored with a mode prefix ("E:" eval, "C:" command).
type History struct {
	path    string
	entries []HistoryEntry
	mu      sync.RWMutex
}

// NewHistory creates a History backed by the given file path.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load reads history entries from the history file. A missing file is
// not an error; the session simply starts with empty history.
func (h *History) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	file, err := os.Open(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return err
	}
	defer file.Close()

	h.entries = nil

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var (
			mode    inputMode
			content string
		)

		if s, ok := strings.CutPrefix(line, "E:"); ok {
			mode = modeEval
			content = s
		} else if s, ok := strings.CutPrefix(line, "C:"); ok {
			mode = modeCtrl
			content = s
		} else {
			// Unprefixed lines from older files are treated as eval.
			mode = modeEval
			content = line
		}

		h.entries = append(h.entries, HistoryEntry{
			Line: content,
			Mode: mode,
		})
	}

	return scanner.Err()
}

// WriteWithMode appends a new entry with the specified mode.
// An existing duplicate entry (same line and mode) is removed first so the
// most recent use is always last.
func (h *History) WriteWithMode(entry string, mode inputMode) (int, error) {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return 0, nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	// Skip if same as last entry (both line and mode)
	if len(h.entries) > 0 {
		last := h.entries[len(h.entries)-1]
		if last.Line == entry && last.Mode == mode {
			return len(entry), nil
		}
	}

	needsRewrite := false

	for i := 0; i < len(h.entries); i++ {
		if h.entries[i].Line == entry && h.entries[i].Mode == mode {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			needsRewrite = true

			break
		}
	}

	h.entries = append(h.entries, HistoryEntry{
		Line: entry,
		Mode: mode,
	})

	// Removing a duplicate invalidates the file tail, so rewrite it all.
	if needsRewrite {
		return h.rewriteFile()
	}

	file, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	n, err := file.WriteString(modePrefix(mode) + entry + "\n")

	return n, err
}

// GetEntry retrieves a historic entry by index. Index 0 is the oldest.
func (h *History) GetEntry(i int) (HistoryEntry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return HistoryEntry{}, ErrOutOfBounds
	}

	return h.entries[i], nil
}

// Len returns the number of history entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Entries returns a copy of all history entries.
func (h *History) Entries() []HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	result := make([]HistoryEntry, len(h.entries))
	copy(result, h.entries)

	return result
}

// rewriteFile rewrites the entire history file with current entries.
// Must be called with h.mu held.
func (h *History) rewriteFile() (int, error) {
	file, err := os.OpenFile(h.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	totalBytes := 0

	for _, entry := range h.entries {
		n, err := file.WriteString(modePrefix(entry.Mode) + entry.Line + "\n")
		if err != nil {
			return totalBytes, err
		}

		totalBytes += n
	}

	return totalBytes, nil
}

func modePrefix(mode inputMode) string {
	if mode == modeCtrl {
		return "C:"
	}

	return "E:"
}
