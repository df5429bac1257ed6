package disk

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"syscall"

	"github.com/chzyer/logex"
)

const (
	BlockBit  = 12
	BlockSize = 1 << BlockBit
)

var (
	ErrDiskClosed       = logex.Define("disk is closed")
	ErrDiskLocked       = logex.Define("disk image is locked by another process")
	ErrBlockOutOfRange  = logex.Define("block number out of range")
	ErrInvalidBlockSize = logex.Define("buffer is not exactly one block")
	ErrTooFewBlocks     = logex.Define("disk needs at least one block")
)

// Disk emulates a fixed-size block device on top of a single image file.
// All I/O goes through whole-block reads and writes. The image is held
// under an exclusive flock so two processes cannot drive the same volume.
type Disk struct {
	fd     *os.File
	blocks int

	closed int32
	reads  int64
	writes int64
}

// Open creates or reuses an image at path and sizes it to the given block
// count.
func Open(path string, blocks int) (*Disk, error) {
	if blocks < 1 {
		return nil, ErrTooFewBlocks.Trace(blocks)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0744); err != nil {
			return nil, logex.Trace(err)
		}
	}
	fd, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, logex.Trace(err)
	}
	if err := syscall.Flock(int(fd.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		fd.Close()
		return nil, ErrDiskLocked.Trace(path)
	}
	if err := fd.Truncate(int64(blocks) << BlockBit); err != nil {
		fd.Close()
		return nil, logex.Trace(err)
	}
	return &Disk{fd: fd, blocks: blocks}, nil
}

func (d *Disk) Blocks() int { return d.blocks }

func (d *Disk) BlockSize() int { return BlockSize }

func (d *Disk) sanityCheck(n int, b []byte) error {
	if atomic.LoadInt32(&d.closed) != 0 {
		return ErrDiskClosed.Trace()
	}
	if n < 0 || n >= d.blocks {
		return ErrBlockOutOfRange.Trace(n, d.blocks)
	}
	if len(b) != BlockSize {
		return ErrInvalidBlockSize.Trace(len(b))
	}
	return nil
}

func (d *Disk) ReadBlock(n int, b []byte) error {
	if err := d.sanityCheck(n, b); err != nil {
		return logex.Trace(err)
	}
	if _, err := d.fd.ReadAt(b, int64(n)<<BlockBit); err != nil {
		return logex.Trace(err)
	}
	atomic.AddInt64(&d.reads, 1)
	return nil
}

func (d *Disk) WriteBlock(n int, b []byte) error {
	if err := d.sanityCheck(n, b); err != nil {
		return logex.Trace(err)
	}
	if _, err := d.fd.WriteAt(b, int64(n)<<BlockBit); err != nil {
		return logex.Trace(err)
	}
	atomic.AddInt64(&d.writes, 1)
	return nil
}

func (d *Disk) Reads() int64 { return atomic.LoadInt64(&d.reads) }

func (d *Disk) Writes() int64 { return atomic.LoadInt64(&d.writes) }

// Close releases the image and reports the I/O counters.
func (d *Disk) Close() error {
	if !atomic.CompareAndSwapInt32(&d.closed, 0, 1) {
		return nil
	}
	logex.Info(d.reads, "disk block reads,", d.writes, "disk block writes")
	syscall.Flock(int(d.fd.Fd()), syscall.LOCK_UN|syscall.LOCK_NB)
	return logex.Trace(d.fd.Close())
}
