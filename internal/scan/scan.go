// Package scan computes directory totals used as the progress denominator.
package scan

import (
	"path/filepath"

	"distzip/internal/ports"
)

// Stats holds the totals for a directory tree. Both fields are zero when
// the scan failed wholesale, which callers treat as "unknown totals".
type Stats struct {
	FilesTotal int
	BytesTotal int64
}

// Run walks the tree rooted at root with an explicit stack (no recursion)
// and returns the number of regular files and their combined size in bytes.
// The scan is best-effort: entries that cannot be read or stat'd are
// skipped individually. Only a failure to list root itself yields {0, 0}.
// Names matching an exclude pattern are pruned, directories included.
func Run(fsys ports.FileSystem, root string, exclude []string) Stats {
	var stats Stats

	stack := []string{root}
	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := fsys.ReadDir(dir)
		if err != nil {
			if dir == root {
				return Stats{}
			}
			continue // unreadable subdirectory, skip
		}

		for _, entry := range entries {
			if Excluded(entry.Name(), exclude) {
				continue
			}
			if entry.IsDir() {
				stack = append(stack, filepath.Join(dir, entry.Name()))
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			if !info.Mode().IsRegular() {
				continue
			}
			stats.FilesTotal++
			stats.BytesTotal += info.Size()
		}
	}

	return stats
}

// Excluded reports whether a base name matches any exclude pattern,
// either exactly or as a glob.
func Excluded(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if name == pattern {
			return true
		}
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}
