package bio

import "github.com/chzyer/logex"

var (
	ErrReaderBufferFull = logex.Define("reader buffer is full")
	ErrWriterBufferFull = logex.Define("writer buffer is full")
)

// BlockDevice is raw storage addressed in whole blocks. Buffers handed to
// ReadBlock and WriteBlock must be exactly one block long.
type BlockDevice interface {
	Blocks() int
	BlockSize() int
	ReadBlock(n int, b []byte) error
	WriteBlock(n int, b []byte) error
}

// Diskable is a fixed-size record with an on-disk encoding.
type Diskable interface {
	DiskSize() int
	ReadDisk(r *Reader) error
	WriteDisk(w *Writer)
}

// ReadBlock reads block n from dev and decodes d out of it.
func ReadBlock(dev BlockDevice, n int, d Diskable) error {
	buf := make([]byte, dev.BlockSize())
	if err := dev.ReadBlock(n, buf); err != nil {
		return logex.Trace(err)
	}
	return logex.Trace(NewReader(buf).ReadDisk(d))
}

// WriteBlock encodes d into a zeroed block buffer and writes it to block n.
// Bytes past d's encoding stay zero.
func WriteBlock(dev BlockDevice, n int, d Diskable) error {
	buf := make([]byte, dev.BlockSize())
	if err := NewWriter(buf).WriteDisk(d); err != nil {
		return logex.Trace(err)
	}
	return logex.Trace(dev.WriteBlock(n, buf))
}
