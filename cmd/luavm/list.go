package main

import (
	"fmt"
	"io"
	"os"

	"github.com/chazu/luavm/binchunk"
	"github.com/chazu/luavm/state"
	"github.com/chazu/luavm/vm"
)

// listChunk prints every function of the chunk at path with its
// instructions, in the spirit of luac -l.
func listChunk(out io.Writer, loader state.ProtoLoader, path string) error {
	if loader == nil {
		loader = binchunk.Undump
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	p, err := loader(data)
	if err != nil {
		return err
	}
	walkProtos(p, func(p *binchunk.Prototype, depth int) {
		listProto(out, p, depth)
	})
	return nil
}

func listProto(out io.Writer, p *binchunk.Prototype, depth int) {
	kind := "function"
	if depth == 0 {
		kind = "main"
	}
	vararg := ""
	if p.Variadic() {
		vararg = "+"
	}
	fmt.Fprintf(out, "\n%s <%s:%d,%d> (%d instructions)\n",
		kind, p.Source, p.LineDefined, p.LastLineDefined, len(p.Code))
	fmt.Fprintf(out, "%d%s params, %d slots, %d upvalues, %d constants, %d functions\n",
		p.NumParams, vararg, p.MaxStackSize, len(p.Upvalues), len(p.Constants), len(p.Protos))

	for pc, word := range p.Code {
		line := "-"
		if l := p.Line(pc); l > 0 {
			line = fmt.Sprint(l)
		}
		fmt.Fprintf(out, "\t%d\t[%s]\t%s\n", pc+1, line, vm.Instruction(word))
	}
}
