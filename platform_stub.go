//go:build !unix

package main

import "fmt"

var errUnsupported = fmt.Errorf("hrdups requires a Unix filesystem (hardlinks and inode metadata)")

type fileMeta struct {
	uid  uint32
	gid  uint32
	mode uint32
	dev  uint64
}

func statMeta(_ string) (fileMeta, error) {
	return fileMeta{}, errUnsupported
}

func sameMetadata(_, _ string) bool {
	return false
}

func sameInode(_, _ string) (bool, error) {
	return false, errUnsupported
}

func applyOwnerMode(_ string, _ fileMeta) error {
	return errUnsupported
}
