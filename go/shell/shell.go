package shell

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Js637a68/Simple-File-System/go/bio"
	"github.com/Js637a68/Simple-File-System/go/disk"
	"github.com/Js637a68/Simple-File-System/go/sfs"
	"github.com/chzyer/flagly"
	"github.com/chzyer/flow"
	"github.com/chzyer/readline"
)

type Config struct {
	Image  string `type:"[0]" desc:"path to the disk image"`
	Blocks int    `type:"[1]" desc:"number of blocks in the image"`
}

func (cfg *Config) FlaglyDesc() string {
	return "interactive file system shell"
}

func (cfg *Config) FlaglyHandle(f *flow.Flow) error {
	defer f.Close()

	if cfg.Image == "" {
		return flagly.Errorf("image path is required")
	}
	if cfg.Blocks <= 0 {
		return flagly.Errorf("blocks must be positive")
	}

	d, err := disk.Open(cfg.Image, cfg.Blocks)
	if err != nil {
		return err
	}
	defer d.Close()

	return cfg.handle(d)
}

func (cfg *Config) handle(d *disk.Disk) error {
	rl, err := readline.New("sfs> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	fs := sfs.New()
	defer fs.Unmount()

	for {
		line := rl.Line()
		if line.CanBreak() {
			break
		} else if line.CanContinue() {
			continue
		}
		sp := strings.Fields(line.Line)
		if len(sp) == 0 {
			continue
		}
		var err error
		switch sp[0] {
		case "format":
			err = fs.Format(d)
		case "mount":
			err = fs.Mount(d)
		case "unmount":
			fs.Unmount()
		case "debug":
			err = cfg.debug(d)
		case "df":
			err = cfg.df(fs)
		case "create":
			err = cfg.create(fs)
		case "remove":
			err = cfg.remove(fs, sp[1:])
		case "stat":
			err = cfg.stat(fs, sp[1:])
		case "cat":
			err = cfg.cat(fs, sp[1:])
		case "copyin":
			err = cfg.copyin(fs, sp[1:])
		case "copyout":
			err = cfg.copyout(fs, sp[1:])
		case "checksum":
			err = cfg.checksum(fs, sp[1:])
		case "help":
			cfg.help()
		case "quit", "exit":
			return nil
		default:
			println("unknown command:", sp[0])
		}
		if err != nil {
			println(err.Error())
		}
	}
	return nil
}

func (cfg *Config) help() {
	println(strings.TrimSpace(`
format                    write a fresh file system to the image
mount                     mount the image
unmount                   unmount the image
debug                     report superblock and inode table contents
df                        report free blocks
create                    create a new inode
remove <ino>              remove an inode and its data
stat <ino>                report the size of an inode
cat <ino>                 print the content of an inode
copyin <file> <ino>       copy a local file into an inode
copyout <ino> <file>      copy an inode's content to a local file
checksum <ino>            report size and crc32c of an inode's content
quit                      leave the shell
`))
}

// debug reads the raw device, so it works on unmounted images too.
func (cfg *Config) debug(d *disk.Disk) error {
	var super sfs.Superblock
	if err := bio.ReadBlock(d, 0, &super); err != nil {
		return err
	}
	fmt.Println("SuperBlock:")
	if super.Magic == sfs.MagicNumber {
		fmt.Println("    magic number is valid")
	} else {
		fmt.Println("    magic number is not valid")
	}
	fmt.Printf("    %d blocks\n", super.Blocks)
	fmt.Printf("    %d inode blocks\n", super.InodeBlocks)
	fmt.Printf("    %d inodes\n", super.Inodes)
	if super.Inodes == 0 {
		return nil
	}

	var table sfs.InodeBlock
	for blk := uint32(0); blk < super.InodeBlocks; blk++ {
		if err := bio.ReadBlock(d, int(1+blk), &table); err != nil {
			return err
		}
		for i := range table {
			node := &table[i]
			if node.Valid == 0 {
				continue
			}
			fmt.Printf("Inode %d:\n", int(blk)*sfs.InodesPerBlock+i)
			fmt.Printf("    size: %d bytes\n", node.Size)
			fmt.Printf("    direct blocks:")
			for _, b := range node.Direct {
				if b != 0 {
					fmt.Printf(" %d", b)
				}
			}
			fmt.Println()
			if node.Indirect == 0 {
				continue
			}
			fmt.Printf("    indirect block: %d\n", node.Indirect)
			var ptrs sfs.PointerBlock
			if err := bio.ReadBlock(d, int(node.Indirect), &ptrs); err != nil {
				return err
			}
			fmt.Printf("    indirect data blocks:")
			for _, b := range ptrs {
				if b == 0 {
					break
				}
				fmt.Printf(" %d", b)
			}
			fmt.Println()
		}
	}
	return nil
}

func (cfg *Config) df(fs *sfs.FileSystem) error {
	super, err := fs.Meta()
	if err != nil {
		return err
	}
	free, err := fs.FreeBlocks()
	if err != nil {
		return err
	}
	fmt.Printf("%d/%d blocks free\n", free, super.Blocks)
	return nil
}

func (cfg *Config) create(fs *sfs.FileSystem) error {
	ino, err := fs.Create()
	if err != nil {
		return err
	}
	fmt.Printf("created inode %d\n", ino)
	return nil
}

func (cfg *Config) remove(fs *sfs.FileSystem, args []string) error {
	ino, err := inodeArg(args, "remove <ino>")
	if err != nil {
		return err
	}
	if err := fs.Remove(ino); err != nil {
		return err
	}
	fmt.Printf("removed inode %d\n", ino)
	return nil
}

func (cfg *Config) stat(fs *sfs.FileSystem, args []string) error {
	ino, err := inodeArg(args, "stat <ino>")
	if err != nil {
		return err
	}
	size, err := fs.Stat(ino)
	if err != nil {
		return err
	}
	fmt.Printf("inode %d has size %d bytes\n", ino, size)
	return nil
}

func inodeArg(args []string, usage string) (int, error) {
	if len(args) != 1 {
		return 0, flagly.Errorf("usage: %v", usage)
	}
	ino, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, flagly.Errorf("not an inode number: %v", args[0])
	}
	return ino, nil
}
