package mocks

import (
	"io"

	"distzip/internal/ports"
)

// MockArchiver implements ports.Archiver for testing.
type MockArchiver struct {
	// Result is returned from Archive when Err is nil.
	Result ports.ArchiveResult
	// Err, when set, is returned from Archive as a fatal error.
	Err error
	// Payload, when non-empty, is written to dest to simulate output.
	Payload []byte

	// Recorded call arguments.
	SourceDir string
	Level     int
	Exclude   []string
	Calls     int
}

// Archive records its arguments and returns the configured result.
func (m *MockArchiver) Archive(sourceDir string, level int, exclude []string, dest io.Writer, sink ports.ProgressSink) (ports.ArchiveResult, error) {
	m.Calls++
	m.SourceDir = sourceDir
	m.Level = level
	m.Exclude = exclude
	if m.Err != nil {
		return ports.ArchiveResult{}, m.Err
	}
	if len(m.Payload) > 0 {
		if _, err := dest.Write(m.Payload); err != nil {
			return ports.ArchiveResult{}, err
		}
	}
	return m.Result, nil
}

// Compile-time check that MockArchiver implements ports.Archiver.
var _ ports.Archiver = (*MockArchiver)(nil)
