package sfs

// Bitmap marks which blocks are reachable from the superblock, the inode
// table, or a valid inode. It is derived state: rebuilt on every mount,
// never written to the device.
type Bitmap []bool

func NewBitmap(blocks int) Bitmap {
	return make(Bitmap, blocks)
}

func (b Bitmap) Mark(n uint32) {
	if int(n) < len(b) {
		b[n] = true
	}
}

func (b Bitmap) Release(n uint32) {
	if int(n) < len(b) {
		b[n] = false
	}
}

func (b Bitmap) InUse(n uint32) bool {
	return int(n) < len(b) && b[n]
}

// Allocate claims the first free block, scanning upward from block 1.
// It returns 0 when the volume is full.
func (b Bitmap) Allocate() uint32 {
	for i := 1; i < len(b); i++ {
		if !b[i] {
			b[i] = true
			return uint32(i)
		}
	}
	return 0
}

func (b Bitmap) FreeCount() int {
	n := 0
	for i := 1; i < len(b); i++ {
		if !b[i] {
			n++
		}
	}
	return n
}
