package disk

import (
	"path/filepath"
	"testing"

	"github.com/chzyer/test"
)

func TestDisk(t *testing.T) {
	defer test.New(t)
	test.CleanTmp()

	d, err := Open(filepath.Join(test.Root(), "disk.img"), 4)
	test.Nil(err)
	defer d.Close()

	test.Equal(d.Blocks(), 4)
	test.Equal(d.BlockSize(), BlockSize)

	buf := test.RandBytes(BlockSize)
	test.Nil(d.WriteBlock(2, buf))

	got := make([]byte, BlockSize)
	test.Nil(d.ReadBlock(2, got))
	test.Equal(got, buf)

	// a fresh image reads back as zeroes
	test.Nil(d.ReadBlock(1, got))
	test.Equal(got, make([]byte, BlockSize))

	test.Equal(d.Reads(), int64(2))
	test.Equal(d.Writes(), int64(1))
}

func TestDiskSanityCheck(t *testing.T) {
	defer test.New(t)
	test.CleanTmp()

	d, err := Open(filepath.Join(test.Root(), "sanity.img"), 2)
	test.Nil(err)
	defer d.Close()

	buf := make([]byte, BlockSize)
	test.Equal(d.ReadBlock(2, buf), ErrBlockOutOfRange)
	test.Equal(d.ReadBlock(-1, buf), ErrBlockOutOfRange)
	test.Equal(d.WriteBlock(2, buf), ErrBlockOutOfRange)
	test.Equal(d.WriteBlock(0, buf[:1]), ErrInvalidBlockSize)
	test.Equal(d.ReadBlock(0, make([]byte, BlockSize+1)), ErrInvalidBlockSize)

	_, err = Open(filepath.Join(test.Root(), "empty.img"), 0)
	test.Equal(err, ErrTooFewBlocks)
}

func TestDiskClose(t *testing.T) {
	defer test.New(t)
	test.CleanTmp()

	path := filepath.Join(test.Root(), "close.img")
	d, err := Open(path, 2)
	test.Nil(err)

	{ // the image is locked while open
		_, err := Open(path, 2)
		test.Equal(err, ErrDiskLocked)
	}

	test.Nil(d.Close())
	test.Nil(d.Close()) // idempotent

	buf := make([]byte, BlockSize)
	test.Equal(d.ReadBlock(0, buf), ErrDiskClosed)
	test.Equal(d.WriteBlock(0, buf), ErrDiskClosed)

	// the lock is released on close
	d2, err := Open(path, 2)
	test.Nil(err)
	test.Nil(d2.Close())
}
