package sfs

import (
	"encoding/binary"
	"testing"

	"github.com/Js637a68/Simple-File-System/go/disk"
	"github.com/chzyer/test"
)

func TestSuperblockLayout(t *testing.T) {
	defer test.New(t)
	test.CleanTmp()

	d := testOpenDisk("superlayout.img", 20)
	defer d.Close()
	test.Nil(New().Format(d))

	buf := make([]byte, disk.BlockSize)
	test.Nil(d.ReadBlock(0, buf))

	test.Equal(buf[:4], []byte{0xf0, 0xf0, 0x34, 0x10})
	test.Equal(binary.BigEndian.Uint32(buf[4:]), uint32(20))
	test.Equal(binary.BigEndian.Uint32(buf[8:]), uint32(2))
	test.Equal(binary.BigEndian.Uint32(buf[12:]), uint32(2*InodesPerBlock))
	test.Equal(buf[16:], make([]byte, disk.BlockSize-16))
}

func TestInodeSlotLayout(t *testing.T) {
	defer test.New(t)
	test.CleanTmp()

	fs, d := testNewFS("inodelayout.img", 20)
	defer d.Close()
	defer fs.Unmount()

	// a record in the second table block, second slot
	ino := InodesPerBlock + 1
	node := Inode{Valid: 1, Size: 7}
	node.Direct[0] = 9
	node.Indirect = 11
	test.Nil(fs.saveInode(ino, &node))

	buf := make([]byte, disk.BlockSize)
	test.Nil(d.ReadBlock(2, buf))

	slot := buf[InodeSize : 2*InodeSize]
	test.Equal(binary.BigEndian.Uint32(slot[0:]), uint32(1))
	test.Equal(binary.BigEndian.Uint32(slot[4:]), uint32(7))
	test.Equal(binary.BigEndian.Uint32(slot[8:]), uint32(9))
	test.Equal(binary.BigEndian.Uint32(slot[28:]), uint32(11))

	var got Inode
	test.Nil(fs.loadInode(ino, &got))
	test.Equal(got, node)

	// neighbours are untouched
	test.Equal(buf[:InodeSize], make([]byte, InodeSize))
	test.Equal(buf[2*InodeSize:3*InodeSize], make([]byte, InodeSize))
}

func TestBitmap(t *testing.T) {
	defer test.New(t)

	b := NewBitmap(4)
	test.Equal(b.FreeCount(), 3)

	// block 0 is never handed out
	test.Equal(b.Allocate(), uint32(1))
	test.Equal(b.Allocate(), uint32(2))
	test.Equal(b.Allocate(), uint32(3))
	test.Equal(b.Allocate(), uint32(0))

	b.Release(2)
	test.Equal(b.Allocate(), uint32(2))

	test.True(b.InUse(1))
	b.Mark(1)
	test.True(b.InUse(1))
	test.Equal(b.FreeCount(), 0)
}
