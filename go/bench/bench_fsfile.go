package bench

import (
	"crypto/rand"
	"path/filepath"
	"time"

	"github.com/Js637a68/Simple-File-System/go/disk"
	"github.com/Js637a68/Simple-File-System/go/ptrace"
	"github.com/Js637a68/Simple-File-System/go/sfs"
	"github.com/chzyer/flow"
)

type FsFile struct {
	Count  int    `name:"count" desc:"number of block-sized writes" default:"256"`
	Blocks int    `name:"blocks" desc:"blocks in the test volume" default:"1024"`
	Dir    string `desc:"test directory path" default:"/tmp/sfs/bench/fsfile"`
}

func (cfg *FsFile) FlaglyDesc() string {
	return "benchmark file system Read/Write"
}

func (cfg *FsFile) FlaglyHandle(f *flow.Flow) error {
	defer f.Close()

	d, err := disk.Open(filepath.Join(cfg.Dir, "image"), cfg.Blocks)
	if err != nil {
		return err
	}
	defer d.Close()

	fs := sfs.New()
	if err := fs.Format(d); err != nil {
		return err
	}
	if err := fs.Mount(d); err != nil {
		return err
	}
	defer fs.Unmount()

	ino, err := fs.Create()
	if err != nil {
		return err
	}

	buf := make([]byte, disk.BlockSize)
	rand.Read(buf)

	{
		now := time.Now()
		var size ptrace.Size
		var off int64
		for i := 0; i < cfg.Count; i++ {
			n, err := fs.Write(ino, buf, off)
			if err != nil {
				return err
			}
			off += int64(n)
			size.AddInt(n)
			if n < len(buf) { // volume is full
				break
			}
		}
		println("write performance:", size.Rate(time.Now().Sub(now)).String())
	}

	{
		now := time.Now()
		var size ptrace.Size
		var off int64
		for {
			n, err := fs.Read(ino, buf, off)
			if err != nil {
				return err
			}
			if n == 0 {
				break
			}
			off += int64(n)
			size.AddInt(n)
		}
		println("read performance:", size.Rate(time.Now().Sub(now)).String())
	}
	return nil
}
