package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/gatehouse-sec/gatehouse/internal/core"
)

var _ core.Auditor = (*FileAuditor)(nil)

// FileAuditor appends audit entries to a file, one JSON document per line.
// The decision trail survives restarts; consumers tail or ship the file.
type FileAuditor struct {
	mu     sync.Mutex
	file   *os.File
	writer *bufio.Writer
}

func NewFileAuditor(path string) (*FileAuditor, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("opening audit log file: %w", err)
	}
	return &FileAuditor{
		file:   file,
		writer: bufio.NewWriter(file),
	}, nil
}

func (f *FileAuditor) Log(entry core.AuditEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := json.NewEncoder(f.writer).Encode(entry); err != nil {
		return fmt.Errorf("writing audit log entry: %w", err)
	}
	// every entry is a decision record; don't sit on it
	return f.writer.Flush()
}

func (f *FileAuditor) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.writer.Flush(); err != nil {
		_ = f.file.Close()
		return err
	}
	return f.file.Close()
}
