//go:build unix

package main

import (
	"golang.org/x/sys/unix"
)

// fileMeta holds the metadata a hardlink would force two paths to share.
// Two files may only be merged into one inode when all four fields match;
// otherwise the link would silently overwrite the duplicate's owner or
// mode with the canonical's.
type fileMeta struct {
	uid  uint32
	gid  uint32
	mode uint32
	dev  uint64
}

// statMeta returns the merge-relevant metadata of the file at path.
func statMeta(path string) (fileMeta, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return fileMeta{}, err
	}
	return fileMeta{
		uid:  st.Uid,
		gid:  st.Gid,
		mode: uint32(st.Mode),
		dev:  uint64(st.Dev),
	}, nil
}

// sameMetadata reports whether two paths agree on owner, group, mode and
// device. A failed stat on either side means "incompatible", never an
// error: a disappeared or unreadable file must not be merged, but it is
// no reason to abort the run.
func sameMetadata(a, b string) bool {
	ma, err := statMeta(a)
	if err != nil {
		return false
	}
	mb, err := statMeta(b)
	if err != nil {
		return false
	}
	return ma == mb
}

// sameInode reports whether two paths already refer to the same inode on
// the same device.
func sameInode(a, b string) (bool, error) {
	var statA, statB unix.Stat_t
	if err := unix.Stat(a, &statA); err != nil {
		return false, err
	}
	if err := unix.Stat(b, &statB); err != nil {
		return false, err
	}
	return statA.Dev == statB.Dev && statA.Ino == statB.Ino, nil
}

// applyOwnerMode reapplies the reference owner and permission bits to
// path. The new hardlink already shares the canonical's inode metadata,
// so this is redundant in the common case, but it defends against the
// metadata having changed between the compatibility check and the link.
func applyOwnerMode(path string, ref fileMeta) error {
	// Ownership (may require root).
	if err := unix.Chown(path, int(ref.uid), int(ref.gid)); err != nil {
		return err
	}
	return unix.Chmod(path, ref.mode&0o7777)
}
