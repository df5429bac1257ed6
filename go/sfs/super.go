package sfs

import (
	"github.com/Js637a68/Simple-File-System/go/bio"
	"github.com/Js637a68/Simple-File-System/go/disk"
)

var _ bio.Diskable = new(Superblock)

// Superblock occupies block 0 and describes the volume layout. It is written
// once at format time; everything after the four fields stays zero.
type Superblock struct {
	Magic       uint32
	Blocks      uint32
	InodeBlocks uint32
	Inodes      uint32
}

func (*Superblock) DiskSize() int { return disk.BlockSize }

func (s *Superblock) ReadDisk(r *bio.Reader) error {
	s.Magic = r.Uint32()
	s.Blocks = r.Uint32()
	s.InodeBlocks = r.Uint32()
	s.Inodes = r.Uint32()
	return nil
}

func (s *Superblock) WriteDisk(w *bio.Writer) {
	w.Uint32(s.Magic)
	w.Uint32(s.Blocks)
	w.Uint32(s.InodeBlocks)
	w.Uint32(s.Inodes)
}
