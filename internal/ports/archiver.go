package ports

import "io"

// Archiver abstracts archive creation for testability.
// Production code uses the ZipArchiver adapter; tests use MockArchiver.
type Archiver interface {
	// Archive streams every file under sourceDir into dest as a compressed
	// entry at the given deflate level (1-9). Entry names are relative to
	// sourceDir; the root directory itself is not represented. Skipped
	// entries are reported through the sink and never abort the run.
	// A returned error means the container itself could not be written
	// and the output must be discarded.
	Archive(sourceDir string, level int, exclude []string, dest io.Writer, sink ProgressSink) (ArchiveResult, error)
}

// ArchiveResult summarizes a completed archive stream.
type ArchiveResult struct {
	// Entries is the number of regular files written to the container.
	Entries int
	// CompressedBytes is the total byte count written to dest,
	// i.e. the size of the compressed container.
	CompressedBytes int64
}

// ProgressSink receives observable events from a running archive job.
// Implementations must tolerate interleaved Entry and Bytes calls; all
// calls happen on the archiving goroutine.
type ProgressSink interface {
	// Entry is called once per filesystem entry completed. Directories
	// are reported with isDir=true and do not count as processed files.
	Entry(path string, isDir bool)

	// Bytes is called as source data flows through the compressor,
	// carrying the incremental number of bytes just processed.
	Bytes(n int64)

	// Warn reports a non-fatal per-entry problem (e.g. an unreadable
	// file that was skipped).
	Warn(path string, err error)
}
