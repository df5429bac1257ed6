package sfs

import "github.com/Js637a68/Simple-File-System/go/disk"

const (
	MagicNumber = 0xf0f03410

	InodeSize        = 32
	InodesPerBlock   = disk.BlockSize / InodeSize
	PointersPerInode = 5
	PointersPerBlock = disk.BlockSize / 4

	// the block map tops out at the direct slots plus one pointer block
	MaxFileSize = (PointersPerInode + PointersPerBlock) * disk.BlockSize
)
