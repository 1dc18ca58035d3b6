package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/fatih/color"
)

// dedupOptions selects what the executor does with each duplicate.
type dedupOptions struct {
	// pretend reports savings without touching the filesystem.
	pretend bool
	// remove deletes duplicates instead of hardlinking them.
	remove bool
	// keep suppresses empty-directory pruning in remove mode.
	keep bool
}

// dedupStats tracks deduplication results.
type dedupStats struct {
	bytesSaved    int64
	groups        int64
	filesMerged   int64
	alreadyLinked int64
	mismatches    int64
}

// savedMiB returns the reclaimed space in mebibytes.
func (s *dedupStats) savedMiB() float64 {
	return float64(s.bytesSaved) / (1024 * 1024)
}

// dedup consumes the finished grouping and merges every group of
// same-content files: the first member encountered is the canonical copy,
// each later member is deleted and either left gone (remove mode) or
// replaced by a hardlink to the canonical. Groups are visited in
// ascending (size, fingerprint) order. Delete, link and directory-prune
// failures abort the pass; metadata mismatches only skip their pair.
func dedup(m groupMap, opts dedupOptions) (*dedupStats, error) {
	stats := &dedupStats{}

	sizes := make([]int64, 0, len(m))
	for size := range m {
		sizes = append(sizes, size)
	}
	sort.Slice(sizes, func(i, j int) bool { return sizes[i] < sizes[j] })

	for _, size := range sizes {
		bucket := m[size]
		fingerprints := make([]string, 0, len(bucket))
		for fp := range bucket {
			fingerprints = append(fingerprints, fp)
		}
		sort.Strings(fingerprints)

		for _, fp := range fingerprints {
			paths := bucket[fp]
			// need at least a couple
			if len(paths) < 2 {
				continue
			}

			stats.groups++
			base := paths[0]
			fmt.Printf("%s\n*\t%s\n", color.CyanString("Group %d:", stats.groups), base)

			for _, dup := range paths[1:] {
				fmt.Printf("\t%s\n", dup)
				if err := dedupPair(base, dup, size, opts, stats); err != nil {
					return stats, err
				}
			}
		}
	}

	return stats, nil
}

// dedupPair merges one duplicate into its canonical base, or skips it
// when the two may not share an inode.
func dedupPair(base, dup string, size int64, opts dedupOptions, stats *dedupStats) error {
	// An earlier run may have linked the pair already; delete-then-link
	// on a shared inode would destroy the content, so detect and skip.
	if linked, err := sameInode(base, dup); err == nil && linked {
		slog.Debug("already hardlinked", "base", base, "duplicate", dup)
		stats.alreadyLinked++
		return nil
	}

	if !sameMetadata(base, dup) {
		fmt.Printf("%s\n", color.YellowString("Owner/mode mismatch %s and %s", base, dup))
		stats.mismatches++
		return nil
	}

	if !opts.pretend {
		// Delete first: the duplicate's name must never briefly point at
		// an independent second copy. A failed delete leaves it untouched.
		if err := os.Remove(dup); err != nil {
			return fmt.Errorf("cannot delete file %q: %w", dup, err)
		}

		if opts.remove {
			if !opts.keep {
				if err := pruneEmptyDir(filepath.Dir(dup)); err != nil {
					return err
				}
			}
		} else {
			baseMeta, statErr := statMeta(base)
			if err := os.Link(base, dup); err != nil {
				return fmt.Errorf("cannot create hardlink for %q as %q: %w", base, dup, err)
			}
			// The link shares the canonical's inode metadata already;
			// reapply it in case it changed since the compatibility check.
			if statErr == nil {
				if err := applyOwnerMode(dup, baseMeta); err != nil {
					slog.Debug("owner/mode reapply failed", "path", dup, "error", err)
				}
			}
		}
	}

	stats.bytesSaved += size
	stats.filesMerged++
	return nil
}

// pruneEmptyDir removes dir if the last deletion left it empty. Removal
// failure is fatal, matching delete failure.
func pruneEmptyDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return nil
	}
	_, err = f.Readdirnames(1)
	//goland:noinspection GoUnhandledErrorResult
	f.Close()
	if err != io.EOF {
		return nil
	}

	if err := os.Remove(dir); err != nil {
		return fmt.Errorf("cannot delete empty directory %q: %w", dir, err)
	}
	fmt.Printf("Empty directory removed %s\n", dir)
	return nil
}
