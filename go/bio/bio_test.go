package bio

import (
	"testing"

	"github.com/chzyer/test"
)

type testRecord struct {
	A uint32
	B uint32
}

func (*testRecord) DiskSize() int { return 8 }

func (r *testRecord) ReadDisk(rd *Reader) error {
	r.A = rd.Uint32()
	r.B = rd.Uint32()
	return nil
}

func (r *testRecord) WriteDisk(w *Writer) {
	w.Uint32(r.A)
	w.Uint32(r.B)
}

func TestReaderWriter(t *testing.T) {
	defer test.New(t)

	buf := make([]byte, 16)
	w := NewWriter(buf)
	rec := testRecord{A: 0xf0f03410, B: 42}
	test.Nil(w.WriteDisk(&rec))
	test.Equal(w.Offset(), 8)
	test.Equal(w.Available(), 8)

	// big endian, fixed width
	test.Equal(buf[:4], []byte{0xf0, 0xf0, 0x34, 0x10})

	r := NewReader(buf)
	var got testRecord
	test.Nil(r.ReadDisk(&got))
	test.Equal(got, rec)

	{ // records larger than the buffer are refused
		w := NewWriter(make([]byte, 4))
		test.Equal(w.WriteDisk(&rec), ErrWriterBufferFull)
		r := NewReader(make([]byte, 4))
		test.Equal(r.ReadDisk(&got), ErrReaderBufferFull)
	}
}

type testDevice struct {
	blocks [][]byte
}

func newTestDevice(n int) *testDevice {
	d := &testDevice{blocks: make([][]byte, n)}
	for i := range d.blocks {
		d.blocks[i] = make([]byte, 512)
	}
	return d
}

func (d *testDevice) Blocks() int    { return len(d.blocks) }
func (d *testDevice) BlockSize() int { return 512 }

func (d *testDevice) ReadBlock(n int, b []byte) error {
	copy(b, d.blocks[n])
	return nil
}

func (d *testDevice) WriteBlock(n int, b []byte) error {
	copy(d.blocks[n], b)
	return nil
}

func TestBlockRoundtrip(t *testing.T) {
	defer test.New(t)

	dev := newTestDevice(2)
	rec := testRecord{A: 7, B: 9}
	test.Nil(WriteBlock(dev, 1, &rec))

	// the rest of the block stays zero
	test.Equal(dev.blocks[1][8:], make([]byte, 512-8))

	var got testRecord
	test.Nil(ReadBlock(dev, 1, &got))
	test.Equal(got, rec)
}
