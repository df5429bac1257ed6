package sfs

import (
	"github.com/Js637a68/Simple-File-System/go/bio"
	"github.com/Js637a68/Simple-File-System/go/disk"
)

var (
	_ bio.Diskable = new(Inode)
	_ bio.Diskable = new(InodeBlock)
	_ bio.Diskable = new(PointerBlock)
)

// Inode is one 32-byte slot in the inode table. Direct entries and Indirect
// hold block numbers, 0 meaning unused.
type Inode struct {
	Valid    uint32
	Size     uint32
	Direct   [PointersPerInode]uint32
	Indirect uint32
}

func (*Inode) DiskSize() int { return InodeSize }

func (n *Inode) ReadDisk(r *bio.Reader) error {
	n.Valid = r.Uint32()
	n.Size = r.Uint32()
	for i := range n.Direct {
		n.Direct[i] = r.Uint32()
	}
	n.Indirect = r.Uint32()
	return nil
}

func (n *Inode) WriteDisk(w *bio.Writer) {
	w.Uint32(n.Valid)
	w.Uint32(n.Size)
	for i := range n.Direct {
		w.Uint32(n.Direct[i])
	}
	w.Uint32(n.Indirect)
}

// -----------------------------------------------------------------------------

// InodeBlock is the inode-table view of one block: InodesPerBlock records
// packed in index order.
type InodeBlock [InodesPerBlock]Inode

func (*InodeBlock) DiskSize() int { return disk.BlockSize }

func (b *InodeBlock) ReadDisk(r *bio.Reader) error {
	for i := range b {
		if err := b[i].ReadDisk(r); err != nil {
			return err
		}
	}
	return nil
}

func (b *InodeBlock) WriteDisk(w *bio.Writer) {
	for i := range b {
		b[i].WriteDisk(w)
	}
}

// -----------------------------------------------------------------------------

// PointerBlock is the indirect view of one block: an array of block numbers
// where the first 0 ends the list.
type PointerBlock [PointersPerBlock]uint32

func (*PointerBlock) DiskSize() int { return disk.BlockSize }

func (b *PointerBlock) ReadDisk(r *bio.Reader) error {
	for i := range b {
		b[i] = r.Uint32()
	}
	return nil
}

func (b *PointerBlock) WriteDisk(w *bio.Writer) {
	for i := range b {
		w.Uint32(b[i])
	}
}
