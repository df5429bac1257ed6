package bench

import (
	"crypto/rand"
	"path/filepath"
	"time"

	"github.com/Js637a68/Simple-File-System/go/disk"
	"github.com/Js637a68/Simple-File-System/go/ptrace"
	"github.com/chzyer/flow"
)

type RawDisk struct {
	Count int    `name:"count" desc:"blocks to write and read back" default:"1024"`
	Dir   string `desc:"test directory path" default:"/tmp/sfs/bench/rawdisk"`
}

func (cfg *RawDisk) FlaglyDesc() string {
	return "benchmark raw block device throughput"
}

func (cfg *RawDisk) FlaglyHandle(f *flow.Flow) error {
	defer f.Close()

	d, err := disk.Open(filepath.Join(cfg.Dir, "image"), cfg.Count)
	if err != nil {
		return err
	}
	defer d.Close()

	buf := make([]byte, disk.BlockSize)
	rand.Read(buf)

	{
		now := time.Now()
		var size ptrace.Size
		for n := 0; n < cfg.Count; n++ {
			if err := d.WriteBlock(n, buf); err != nil {
				return err
			}
			size.AddInt(len(buf))
		}
		println("write performance:", size.Rate(time.Now().Sub(now)).String())
	}

	{
		now := time.Now()
		var size ptrace.Size
		for n := 0; n < cfg.Count; n++ {
			if err := d.ReadBlock(n, buf); err != nil {
				return err
			}
			size.AddInt(len(buf))
		}
		println("read performance:", size.Rate(time.Now().Sub(now)).String())
	}
	return nil
}
