package history

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ohsu-comp-bio/nextflow/iox"
)

// historyFieldCount is the number of tab-separated fields per history line:
// timestamp, duration, run name, status, revision, session id, command.
const historyFieldCount = 7

// FileStore is the append-only history file backend.
//
// Minting does not reserve the name in the file; two launchers sharing the
// same file can race between mint and append. That race is accepted and
// surfaces as a duplicate-name failure on the losing side.
type FileStore struct {
	path string

	mu  sync.Mutex
	rng *rand.Rand
}

// NewFileStore opens (creating if needed) a history file at path.
// An empty path uses DefaultFileName in the working directory.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		path = DefaultFileName
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}
	return &FileStore{
		path: path,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Path returns the history file location.
func (s *FileStore) Path() string {
	return s.path
}

// Exists reports whether a run with the given name was recorded.
func (s *FileStore) Exists(name string) (bool, error) {
	records, err := s.readAll()
	if err != nil {
		return false, err
	}
	for _, rec := range records {
		if rec.Name == name {
			return true, nil
		}
	}
	return false, nil
}

// MintName returns a name not present in the file at mint time.
func (s *FileStore) MintName() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return mintName(s.rng, s.Exists)
}

// Append records a run by appending one line to the history file.
func (s *FileStore) Append(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening history file: %w", err)
	}
	defer iox.DiscardClose(f)

	if _, err := f.WriteString(formatLine(rec)); err != nil {
		return fmt.Errorf("writing history record: %w", err)
	}
	return nil
}

// List returns recorded runs, newest first.
func (s *FileStore) List(limit int) ([]Record, error) {
	records, err := s.readAll()
	if err != nil {
		return nil, err
	}

	// File order is oldest first; reverse for newest-first listing.
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// Close is a no-op; the file is opened per operation.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) readAll() ([]Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading history file: %w", err)
	}
	defer iox.DiscardClose(f)

	var records []Record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		rec, err := parseLine(line)
		if err != nil {
			// A malformed line is skipped rather than failing the whole
			// history; the file may carry lines from older versions.
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning history file: %w", err)
	}
	return records, nil
}

func formatLine(rec Record) string {
	ts := rec.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	fields := []string{
		ts.Format(time.RFC3339),
		rec.Duration.String(),
		rec.Name,
		orDash(rec.Status),
		orDash(rec.Revision),
		orDash(rec.SessionID),
		// Tabs are the field separator; flatten any inside the command.
		strings.ReplaceAll(rec.Command, "\t", " "),
	}
	return strings.Join(fields, "\t") + "\n"
}

func parseLine(line string) (Record, error) {
	fields := strings.SplitN(line, "\t", historyFieldCount)
	if len(fields) < historyFieldCount {
		return Record{}, fmt.Errorf("short history line: %d fields", len(fields))
	}

	ts, err := time.Parse(time.RFC3339, fields[0])
	if err != nil {
		return Record{}, fmt.Errorf("bad timestamp %q: %w", fields[0], err)
	}
	dur, err := time.ParseDuration(fields[1])
	if err != nil {
		dur = 0
	}

	return Record{
		Timestamp: ts,
		Duration:  dur,
		Name:      fields[2],
		Status:    dashEmpty(fields[3]),
		Revision:  dashEmpty(fields[4]),
		SessionID: dashEmpty(fields[5]),
		Command:   fields[6],
	}, nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func dashEmpty(s string) string {
	if s == "-" {
		return ""
	}
	return s
}
