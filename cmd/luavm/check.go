package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/chazu/luavm/binchunk"
	"github.com/chazu/luavm/state"
)

type checkResult struct {
	path   string
	protos int
	instrs int
	err    error
}

// checkChunks decodes every chunk in paths concurrently and prints one
// line per chunk in argument order. It returns the number of failures.
func checkChunks(ctx context.Context, out io.Writer, loader state.ProtoLoader, paths []string) int {
	if loader == nil {
		loader = binchunk.Undump
	}

	results := make([]checkResult, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = checkChunk(loader, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintf(out, "check interrupted: %v\n", err)
		return len(paths)
	}

	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			fmt.Fprintf(out, "FAIL %s: %v\n", r.path, r.err)
			continue
		}
		fmt.Fprintf(out, "ok   %s (%d functions, %d instructions)\n", r.path, r.protos, r.instrs)
	}
	log.Info("check finished", "chunks", len(paths), "failed", failed)
	return failed
}

func checkChunk(loader state.ProtoLoader, path string) checkResult {
	r := checkResult{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		r.err = err
		return r
	}
	p, err := loader(data)
	if err != nil {
		r.err = err
		return r
	}
	walkProtos(p, func(p *binchunk.Prototype, _ int) {
		r.protos++
		r.instrs += len(p.Code)
	})
	return r
}

// walkProtos visits p and its nested prototypes depth first.
func walkProtos(p *binchunk.Prototype, visit func(p *binchunk.Prototype, depth int)) {
	var walk func(p *binchunk.Prototype, depth int)
	walk = func(p *binchunk.Prototype, depth int) {
		visit(p, depth)
		for _, sub := range p.Protos {
			walk(sub, depth+1)
		}
	}
	walk(p, 0)
}
