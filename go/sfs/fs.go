package sfs

import (
	"github.com/Js637a68/Simple-File-System/go/bio"
	"github.com/Js637a68/Simple-File-System/go/disk"
	"github.com/chzyer/logex"
)

var (
	ErrNotMounted      = logex.Define("file system is not mounted")
	ErrAlreadyMounted  = logex.Define("file system is already mounted")
	ErrDiskTooSmall    = logex.Define("device needs at least 2 blocks")
	ErrBadMagic        = logex.Define("bad magic number in superblock")
	ErrBlockMismatch   = logex.Define("superblock block count disagrees with device")
	ErrBadInodeCount   = logex.Define("superblock inode count is inconsistent")
	ErrInodeOutOfRange = logex.Define("inode number out of range")
	ErrInodeNotValid   = logex.Define("inode is not valid")
	ErrNoFreeInode     = logex.Define("inode table is full")
	ErrBadOffset       = logex.Define("negative offset")
)

// FileSystem drives a single mounted volume. The inode table on the device
// is the source of truth; the free-block bitmap lives for exactly one mount.
type FileSystem struct {
	dev     bio.BlockDevice
	super   Superblock
	freemap Bitmap
}

func New() *FileSystem {
	return &FileSystem{}
}

func (f *FileSystem) mounted() bool {
	return f.dev != nil
}

// Meta returns a copy of the mounted superblock.
func (f *FileSystem) Meta() (Superblock, error) {
	if !f.mounted() {
		return Superblock{}, ErrNotMounted.Trace()
	}
	return f.super, nil
}

// FreeBlocks reports how many data blocks are currently unreferenced.
func (f *FileSystem) FreeBlocks() (int, error) {
	if !f.mounted() {
		return 0, ErrNotMounted.Trace()
	}
	return f.freemap.FreeCount(), nil
}

// Format writes a fresh superblock to block 0 and zeroes every other block.
// 10% of the blocks (at least one) are reserved for the inode table. A
// device write failure aborts and may leave the volume partially formatted.
func (f *FileSystem) Format(dev bio.BlockDevice) error {
	if f.mounted() {
		return ErrAlreadyMounted.Trace()
	}
	blocks := dev.Blocks()
	if blocks < 2 {
		return ErrDiskTooSmall.Trace(blocks)
	}
	inodeBlocks := blocks / 10
	if inodeBlocks == 0 {
		inodeBlocks = 1
	}
	super := Superblock{
		Magic:       MagicNumber,
		Blocks:      uint32(blocks),
		InodeBlocks: uint32(inodeBlocks),
		Inodes:      uint32(inodeBlocks * InodesPerBlock),
	}
	if err := bio.WriteBlock(dev, 0, &super); err != nil {
		return logex.Trace(err)
	}
	zero := make([]byte, dev.BlockSize())
	for n := 1; n < blocks; n++ {
		if err := dev.WriteBlock(n, zero); err != nil {
			return logex.Trace(err)
		}
	}
	return nil
}

// Mount validates the superblock, caches it and rebuilds the free-block
// bitmap from the inode table. On any failure the handle stays unmounted.
func (f *FileSystem) Mount(dev bio.BlockDevice) error {
	if f.mounted() {
		return ErrAlreadyMounted.Trace()
	}
	var super Superblock
	if err := bio.ReadBlock(dev, 0, &super); err != nil {
		return logex.Trace(err)
	}
	if super.Magic != MagicNumber {
		return ErrBadMagic.Trace(super.Magic)
	}
	if super.Blocks != uint32(dev.Blocks()) {
		return ErrBlockMismatch.Trace(super.Blocks, dev.Blocks())
	}
	if super.Inodes != super.InodeBlocks*InodesPerBlock {
		return ErrBadInodeCount.Trace(super.Inodes, super.InodeBlocks)
	}
	freemap, err := buildFreeMap(dev, &super)
	if err != nil {
		return logex.Trace(err)
	}
	f.dev = dev
	f.super = super
	f.freemap = freemap
	return nil
}

// buildFreeMap derives the bitmap from the inode table: block 0 and the
// table blocks are always in use, everything else is in use iff a valid
// inode reaches it directly or through its pointer block.
func buildFreeMap(dev bio.BlockDevice, super *Superblock) (Bitmap, error) {
	freemap := NewBitmap(int(super.Blocks))
	freemap.Mark(0)

	var table InodeBlock
	for blk := uint32(0); blk < super.InodeBlocks; blk++ {
		freemap.Mark(1 + blk)
		if err := bio.ReadBlock(dev, int(1+blk), &table); err != nil {
			return nil, logex.Trace(err)
		}
		for i := range table {
			node := &table[i]
			if node.Valid == 0 {
				continue
			}
			for _, blkno := range node.Direct {
				if blkno == 0 {
					break
				}
				freemap.Mark(blkno)
			}
			if node.Indirect == 0 {
				continue
			}
			freemap.Mark(node.Indirect)
			var ptrs PointerBlock
			if err := bio.ReadBlock(dev, int(node.Indirect), &ptrs); err != nil {
				return nil, logex.Trace(err)
			}
			for _, blkno := range ptrs {
				if blkno == 0 {
					break
				}
				freemap.Mark(blkno)
			}
		}
	}
	return freemap, nil
}

// Unmount drops the bitmap and the mount marker. Nothing is written back.
// Calling it on an unmounted handle is a no-op.
func (f *FileSystem) Unmount() {
	f.freemap = nil
	f.dev = nil
}

// Create claims the first invalid slot in the inode table and persists it
// before returning. No data blocks are reserved.
func (f *FileSystem) Create() (int, error) {
	if !f.mounted() {
		return -1, ErrNotMounted.Trace()
	}
	var table InodeBlock
	for blk := uint32(0); blk < f.super.InodeBlocks; blk++ {
		if err := bio.ReadBlock(f.dev, int(1+blk), &table); err != nil {
			return -1, logex.Trace(err)
		}
		for i := range table {
			if table[i].Valid != 0 {
				continue
			}
			ino := int(blk)*InodesPerBlock + i
			node := Inode{Valid: 1}
			if err := f.saveInode(ino, &node); err != nil {
				return -1, logex.Trace(err)
			}
			return ino, nil
		}
	}
	return -1, ErrNoFreeInode.Trace()
}

// Remove releases every block the inode reaches and clears its table slot.
// The bitmap mutation is memory-only; only the home block is written.
func (f *FileSystem) Remove(ino int) error {
	var node Inode
	if err := f.loadInode(ino, &node); err != nil {
		return logex.Trace(err)
	}
	for _, blkno := range node.Direct {
		if blkno == 0 {
			break
		}
		f.freemap.Release(blkno)
	}
	if node.Indirect != 0 {
		var ptrs PointerBlock
		if err := bio.ReadBlock(f.dev, int(node.Indirect), &ptrs); err != nil {
			return logex.Trace(err)
		}
		for _, blkno := range ptrs {
			if blkno == 0 {
				break
			}
			f.freemap.Release(blkno)
		}
		// an allocated pointer block is released even when its list is empty
		f.freemap.Release(node.Indirect)
	}
	node = Inode{}
	return logex.Trace(f.saveInode(ino, &node))
}

// Stat returns the logical size in bytes of a valid inode.
func (f *FileSystem) Stat(ino int) (int64, error) {
	var node Inode
	if err := f.loadInode(ino, &node); err != nil {
		return -1, logex.Trace(err)
	}
	return int64(node.Size), nil
}

// Read copies file content starting at off into b. It returns fewer bytes
// than len(b) when the file ends first or the block chain is truncated;
// reading at or past the end returns 0 without error.
func (f *FileSystem) Read(ino int, b []byte, off int64) (int, error) {
	var node Inode
	if err := f.loadInode(ino, &node); err != nil {
		return 0, logex.Trace(err)
	}
	if off < 0 {
		return 0, ErrBadOffset.Trace(off)
	}
	size := int64(node.Size)
	if off >= size || len(b) == 0 {
		return 0, nil
	}
	length := int64(len(b))
	if off+length > size {
		length = size - off
	}

	var (
		sum int64
		buf = make([]byte, disk.BlockSize)
		idx = off >> disk.BlockBit
	)
	for ; idx < PointersPerInode && sum < length; idx++ {
		if node.Direct[idx] == 0 {
			return int(sum), nil
		}
		if err := f.dev.ReadBlock(int(node.Direct[idx]), buf); err != nil {
			return int(sum), logex.Trace(err)
		}
		n := copyOut(b[sum:length], buf, off)
		sum += n
		off += n
	}
	if node.Indirect != 0 && sum < length {
		idx -= PointersPerInode
		var ptrs PointerBlock
		if err := bio.ReadBlock(f.dev, int(node.Indirect), &ptrs); err != nil {
			return int(sum), logex.Trace(err)
		}
		for ; idx < PointersPerBlock && sum < length; idx++ {
			if ptrs[idx] == 0 {
				break
			}
			if err := f.dev.ReadBlock(int(ptrs[idx]), buf); err != nil {
				return int(sum), logex.Trace(err)
			}
			n := copyOut(b[sum:length], buf, off)
			sum += n
			off += n
		}
	}
	return int(sum), nil
}

// copyOut copies from the block buffer into dst, starting at off's
// intra-block position.
func copyOut(dst []byte, blk []byte, off int64) int64 {
	return int64(copy(dst, blk[off&(disk.BlockSize-1):]))
}

// Write copies b into the file at off, allocating data blocks as needed and
// writing each one back immediately. On block exhaustion it stops early and
// returns the bytes already committed with a nil error; the caller detects
// a full volume by comparing the count against len(b). Writing past the
// current size is refused (no sparse files) and returns 0.
func (f *FileSystem) Write(ino int, b []byte, off int64) (int, error) {
	var node Inode
	if err := f.loadInode(ino, &node); err != nil {
		return 0, logex.Trace(err)
	}
	if off < 0 {
		return 0, ErrBadOffset.Trace(off)
	}
	if off > int64(node.Size) {
		return 0, nil
	}
	length := int64(len(b))
	if off+length > MaxFileSize {
		// the two-tier block map cannot address bytes past this point
		length = MaxFileSize - off
	}

	var (
		werr    error
		written int64
		buf     = make([]byte, disk.BlockSize)
		idx     = off >> disk.BlockBit
		ptrs    PointerBlock
	)
	for ; idx < PointersPerInode && written < length; idx++ {
		if node.Direct[idx] == 0 {
			blkno := f.freemap.Allocate()
			if blkno == 0 {
				goto done
			}
			node.Direct[idx] = blkno
			zeroFill(buf)
		} else if werr = f.dev.ReadBlock(int(node.Direct[idx]), buf); werr != nil {
			goto done
		}
		n := copyIn(buf, b[written:length], off)
		if werr = f.dev.WriteBlock(int(node.Direct[idx]), buf); werr != nil {
			goto done
		}
		written += n
		off += n
	}
	if written < length {
		idx -= PointersPerInode
		if node.Indirect == 0 {
			// direct capacity ran out on a block boundary
			blkno := f.freemap.Allocate()
			if blkno == 0 {
				goto done
			}
			node.Indirect = blkno
		} else if werr = bio.ReadBlock(f.dev, int(node.Indirect), &ptrs); werr != nil {
			goto done
		}
		for ; idx < PointersPerBlock && written < length; idx++ {
			if ptrs[idx] == 0 {
				blkno := f.freemap.Allocate()
				if blkno == 0 {
					break
				}
				ptrs[idx] = blkno
				zeroFill(buf)
			} else if werr = f.dev.ReadBlock(int(ptrs[idx]), buf); werr != nil {
				break
			}
			n := copyIn(buf, b[written:length], off)
			if werr = f.dev.WriteBlock(int(ptrs[idx]), buf); werr != nil {
				break
			}
			written += n
			off += n
		}
		if err := bio.WriteBlock(f.dev, int(node.Indirect), &ptrs); err != nil && werr == nil {
			werr = err
		}
	}

done:
	if off > int64(node.Size) {
		node.Size = uint32(off)
	}
	if err := f.saveInode(ino, &node); err != nil && werr == nil {
		werr = err
	}
	return int(written), logex.Trace(werr)
}

// copyIn copies from src into the block buffer at off's intra-block
// position.
func copyIn(blk []byte, src []byte, off int64) int64 {
	return int64(copy(blk[off&(disk.BlockSize-1):], src))
}

func zeroFill(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// loadInode copies the numbered record out of its home block. The record
// must be valid.
func (f *FileSystem) loadInode(ino int, node *Inode) error {
	if !f.mounted() {
		return ErrNotMounted.Trace()
	}
	if ino < 0 || ino >= int(f.super.Inodes) {
		return ErrInodeOutOfRange.Trace(ino)
	}
	var table InodeBlock
	if err := bio.ReadBlock(f.dev, 1+ino/InodesPerBlock, &table); err != nil {
		return logex.Trace(err)
	}
	if table[ino%InodesPerBlock].Valid == 0 {
		return ErrInodeNotValid.Trace(ino)
	}
	*node = table[ino%InodesPerBlock]
	return nil
}

// saveInode overwrites the numbered record in a read-modify-write of its
// home block.
func (f *FileSystem) saveInode(ino int, node *Inode) error {
	if !f.mounted() {
		return ErrNotMounted.Trace()
	}
	if ino < 0 || ino >= int(f.super.Inodes) {
		return ErrInodeOutOfRange.Trace(ino)
	}
	blk := 1 + ino/InodesPerBlock
	var table InodeBlock
	if err := bio.ReadBlock(f.dev, blk, &table); err != nil {
		return logex.Trace(err)
	}
	table[ino%InodesPerBlock] = *node
	return logex.Trace(bio.WriteBlock(f.dev, blk, &table))
}
