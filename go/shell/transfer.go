package shell

import (
	"fmt"
	"io"
	"os"

	"github.com/Js637a68/Simple-File-System/go/disk"
	"github.com/Js637a68/Simple-File-System/go/ptrace"
	"github.com/Js637a68/Simple-File-System/go/sfs"
	"github.com/chzyer/flagly"
	"github.com/klauspost/crc32"
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

func (cfg *Config) cat(fs *sfs.FileSystem, args []string) error {
	ino, err := inodeArg(args, "cat <ino>")
	if err != nil {
		return err
	}
	return readAll(fs, ino, os.Stdout)
}

func (cfg *Config) copyin(fs *sfs.FileSystem, args []string) error {
	if len(args) != 2 {
		return flagly.Errorf("usage: copyin <file> <ino>")
	}
	ino, err := inodeArg(args[1:], "copyin <file> <ino>")
	if err != nil {
		return err
	}
	fd, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer fd.Close()

	sum := crc32.New(castagnoli)
	buf := make([]byte, disk.BlockSize)
	var off int64
	for {
		n, rerr := fd.Read(buf)
		if n > 0 {
			w, err := fs.Write(ino, buf[:n], off)
			sum.Write(buf[:w])
			off += int64(w)
			if err != nil {
				return err
			}
			if w < n {
				fmt.Printf("volume is full, copied %v, crc32c %08x\n",
					ptrace.Unit(off), sum.Sum32())
				return nil
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return rerr
		}
	}
	fmt.Printf("copied %v, crc32c %08x\n", ptrace.Unit(off), sum.Sum32())
	return nil
}

func (cfg *Config) copyout(fs *sfs.FileSystem, args []string) error {
	if len(args) != 2 {
		return flagly.Errorf("usage: copyout <ino> <file>")
	}
	ino, err := inodeArg(args[:1], "copyout <ino> <file>")
	if err != nil {
		return err
	}
	fd, err := os.Create(args[1])
	if err != nil {
		return err
	}
	defer fd.Close()

	sum := crc32.New(castagnoli)
	if err := readAll(fs, ino, io.MultiWriter(fd, sum)); err != nil {
		return err
	}
	size, err := fs.Stat(ino)
	if err != nil {
		return err
	}
	fmt.Printf("copied %v, crc32c %08x\n", ptrace.Unit(size), sum.Sum32())
	return nil
}

func (cfg *Config) checksum(fs *sfs.FileSystem, args []string) error {
	ino, err := inodeArg(args, "checksum <ino>")
	if err != nil {
		return err
	}
	sum := crc32.New(castagnoli)
	if err := readAll(fs, ino, sum); err != nil {
		return err
	}
	size, err := fs.Stat(ino)
	if err != nil {
		return err
	}
	fmt.Printf("inode %d: %v, crc32c %08x\n", ino, ptrace.Unit(size), sum.Sum32())
	return nil
}

func readAll(fs *sfs.FileSystem, ino int, w io.Writer) error {
	buf := make([]byte, disk.BlockSize)
	var off int64
	for {
		n, err := fs.Read(ino, buf, off)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		if _, err := w.Write(buf[:n]); err != nil {
			return err
		}
		off += int64(n)
	}
}
