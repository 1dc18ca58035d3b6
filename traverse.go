package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// unknownFingerprint marks a size bucket's single deferred entry whose
// hash has not been computed yet. At most one entry per bucket carries
// it, and only while the bucket holds exactly one file.
const unknownFingerprint = ""

// sizeBucket maps content fingerprint to the paths sharing it, in the
// order they were encountered. The first path of each list is the
// canonical member of its group.
type sizeBucket map[string][]string

// groupMap buckets every seen file first by size, then by fingerprint.
type groupMap map[int64]sizeBucket

// insert places path into its size bucket, hashing lazily: the first
// file of a given size is parked under unknownFingerprint unhashed,
// since it may turn out to have no size peer. The second arrival
// promotes the bucket by hashing the deferred file retroactively, after
// which every file of that size is hashed on insert. Each file is hashed
// at most once.
func (m groupMap) insert(path string, size int64, hash hashFunc) error {
	bucket := m[size]
	if bucket == nil {
		bucket = make(sizeBucket)
		m[size] = bucket
	}

	if len(bucket) == 0 {
		bucket[unknownFingerprint] = []string{path}
		return nil
	}

	if deferred, ok := bucket[unknownFingerprint]; ok {
		fp, err := hash(deferred[0])
		if err != nil {
			return err
		}
		delete(bucket, unknownFingerprint)
		bucket[fp] = deferred
	}

	fp, err := hash(path)
	if err != nil {
		return err
	}
	bucket[fp] = append(bucket[fp], path)
	return nil
}

// traverse walks every root and builds the size/fingerprint grouping.
// On error the walk stops immediately, including any roots not yet
// visited; the partially populated map is still returned so the caller
// can act on whatever was found before the failure.
func traverse(roots []string, hash hashFunc) (groupMap, error) {
	m := make(groupMap)
	var count int64
	for _, root := range roots {
		if err := walkTree(root, m, hash, &count); err != nil {
			return m, err
		}
	}
	slog.Debug("traversal complete", "files_seen", count, "unique_sizes", len(m))
	return m, nil
}

// walkTree recursively walks the directory tree at dir, inserting every
// regular file of nonzero size into m. Symlinks are never followed and
// never bucketed; other special files are skipped. Any I/O failure
// (directory read, size probe, hashing) propagates out of the whole
// recursion rather than being skipped per entry.
func walkTree(dir string, m groupMap, hash hashFunc, count *int64) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("cannot read directory %q: %w", dir, err)
	}

	for _, entry := range entries {
		// Skip symlinks entirely.
		if entry.Type()&os.ModeSymlink != 0 {
			continue
		}

		path := filepath.Join(dir, entry.Name())

		if entry.IsDir() {
			if err := walkTree(path, m, hash, count); err != nil {
				return err
			}
			continue
		}

		if !entry.Type().IsRegular() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return fmt.Errorf("cannot stat %q: %w", path, err)
		}

		// Duplicate empty files reclaim nothing; never bucket them.
		if info.Size() == 0 {
			continue
		}

		if err := m.insert(path, info.Size(), hash); err != nil {
			return err
		}

		*count++
		if *count%100_000 == 0 {
			slog.Debug("traversal progress", "files_seen", *count, "unique_sizes", len(m))
		}
	}

	return nil
}
