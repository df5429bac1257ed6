package bio

import "encoding/binary"

type Reader struct {
	data   []byte
	offset int
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

func (r *Reader) Offset() int {
	return r.offset
}

func (r *Reader) Available() int {
	return len(r.data) - r.offset
}

func (r *Reader) Skip(n int) {
	r.offset += n
}

func (r *Reader) Byte(n int) []byte {
	ret := r.data[r.offset : r.offset+n]
	r.offset += n
	return ret
}

func (r *Reader) Uint32() uint32 {
	ret := binary.BigEndian.Uint32(r.data[r.offset:])
	r.offset += 4
	return ret
}

func (r *Reader) ReadDisk(d Diskable) error {
	if r.Available() < d.DiskSize() {
		return ErrReaderBufferFull.Trace()
	}
	return d.ReadDisk(r)
}
