// Package ziparchiver provides an archiver adapter using the archive/zip package.
package ziparchiver

import (
	"archive/zip"
	"compress/flate"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"distzip/internal/ports"
	"distzip/internal/scan"
)

// copyBufferSize is the chunk size used when streaming file contents,
// and therefore the granularity of byte progress events.
const copyBufferSize = 32 * 1024

// ZipArchiver implements ports.Archiver using archive/zip with
// configurable deflate compression levels.
type ZipArchiver struct {
	fsys ports.FileSystem
}

// New creates a new ZipArchiver adapter over the given filesystem.
func New(fsys ports.FileSystem) *ZipArchiver {
	return &ZipArchiver{fsys: fsys}
}

// countingWriter counts bytes passed through to the underlying writer.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// Archive streams every regular file under sourceDir into dest as a
// deflate-compressed entry. Entry names are slash-separated paths relative
// to sourceDir; the root directory is not represented inside the container.
//
// Per-entry read failures are reported via sink.Warn and skipped. Any
// failure writing the container itself aborts the run: the returned error
// is fatal and dest holds an incomplete archive.
func (a *ZipArchiver) Archive(sourceDir string, level int, exclude []string, dest io.Writer, sink ports.ProgressSink) (ports.ArchiveResult, error) {
	cw := &countingWriter{w: dest}
	zw := zip.NewWriter(cw)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, level)
	})

	entries := 0
	buf := make([]byte, copyBufferSize)

	walkErr := a.fsys.Walk(sourceDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			sink.Warn(path, err)
			return nil
		}

		relPath, err := filepath.Rel(sourceDir, path)
		if err != nil || relPath == "." {
			return nil // the root itself is not an entry
		}

		if scan.Excluded(filepath.Base(path), exclude) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() {
			// Directories are created implicitly by entry paths.
			sink.Entry(path, true)
			return nil
		}

		if !info.Mode().IsRegular() {
			return nil // sockets, devices, symlinks
		}

		header, err := zip.FileInfoHeader(info)
		if err != nil {
			sink.Warn(path, err)
			return nil
		}
		header.Name = filepath.ToSlash(relPath)
		header.Method = zip.Deflate

		file, err := a.fsys.Open(path)
		if err != nil {
			sink.Warn(path, err)
			return nil
		}

		// CreateHeader failures mean the container stream is broken.
		writer, err := zw.CreateHeader(header)
		if err != nil {
			_ = file.Close()
			return fmt.Errorf("writing entry header %s: %w", header.Name, err)
		}

		fatal, copyErr := copyWithProgress(writer, file, buf, sink)
		_ = file.Close() // data already copied or entry abandoned
		if fatal {
			return fmt.Errorf("writing entry %s: %w", header.Name, copyErr)
		}
		if copyErr != nil {
			// Partial read: the entry stays truncated but the job goes on.
			sink.Warn(path, copyErr)
			return nil
		}

		entries++
		sink.Entry(path, false)
		return nil
	})

	// Close the zip writer even on a failed walk so dest is not left with
	// a dangling compressor, but report the walk error first.
	closeErr := zw.Close()
	if walkErr != nil {
		return ports.ArchiveResult{}, walkErr
	}
	if closeErr != nil {
		return ports.ArchiveResult{}, fmt.Errorf("closing zip writer: %w", closeErr)
	}

	return ports.ArchiveResult{Entries: entries, CompressedBytes: cw.n}, nil
}

// copyWithProgress streams src into dst in fixed-size chunks, reporting
// each chunk to the sink. Read errors are non-fatal (the caller warns and
// skips the entry); write errors mean the container stream is broken and
// are returned with fatal=true.
func copyWithProgress(dst io.Writer, src io.Reader, buf []byte, sink ports.ProgressSink) (fatal bool, err error) {
	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			if _, writeErr := dst.Write(buf[:n]); writeErr != nil {
				return true, writeErr
			}
			sink.Bytes(int64(n))
		}
		if readErr == io.EOF {
			return false, nil
		}
		if readErr != nil {
			return false, readErr
		}
	}
}

// Compile-time check that ZipArchiver implements ports.Archiver.
var _ ports.Archiver = (*ZipArchiver)(nil)
