package main

import (
	"github.com/Js637a68/Simple-File-System/go/bench"
	"github.com/Js637a68/Simple-File-System/go/shell"
	"github.com/chzyer/flagly"
	"github.com/chzyer/flow"
	"github.com/chzyer/logex"
)

type SFS struct {
	Shell *shell.Config `flagly:"handler"`
	Bench *bench.Config `flagly:"handler"`
}

func main() {
	sfs := new(SFS)
	f := flow.New()

	flagly.Run(sfs, f)

	if err := f.Wait(); err != nil {
		logex.Fatal(err)
	}
}
