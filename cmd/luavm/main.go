// Command luavm runs precompiled Lua 5.3 chunks.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/chazu/luavm/api"
	"github.com/chazu/luavm/chunkcache"
	"github.com/chazu/luavm/config"
	"github.com/chazu/luavm/state"
)

var log = commonlog.GetLogger("luavm.cli")

func main() {
	verbosity := flag.Int("v", 0, "Log verbosity (1 = info, 2 = debug)")
	configDir := flag.String("config", ".", "Directory to start the luavm.toml search from")
	budget := flag.Int64("budget", 0, "Instruction budget for the main chunk (overrides config)")
	noCache := flag.Bool("no-cache", false, "Decode chunks without the prototype cache")
	check := flag.Bool("check", false, "Only decode the given chunks and report malformed ones")
	list := flag.Bool("l", false, "List the instructions of the chunk instead of running it")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: luavm [options] chunk.luac [args...]\n")
		fmt.Fprintf(os.Stderr, "       luavm -check chunk.luac...\n\n")
		fmt.Fprintf(os.Stderr, "Runs a chunk produced by luac 5.3. Extra arguments are passed to it as strings.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  luavm hello.luac            # Run hello.luac\n")
		fmt.Fprintf(os.Stderr, "  luavm -l hello.luac         # List its instructions\n")
		fmt.Fprintf(os.Stderr, "  luavm -check build/*.luac   # Validate many chunks in parallel\n")
	}
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.FindAndLoad(*configDir)
	if err != nil {
		fail(err)
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if *verbosity > 0 {
		cfg.Log.Verbosity = *verbosity
	}
	if *budget > 0 {
		cfg.VM.InstructionBudget = *budget
	}
	configureLogging(cfg)
	if cfg.File != "" {
		log.Debug("using config", "file", cfg.File)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	loader, closeCache, err := openLoader(ctx, cfg, *noCache)
	if err != nil {
		fail(err)
	}
	defer closeCache()

	switch {
	case *check:
		if failed := checkChunks(ctx, os.Stdout, loader, args); failed > 0 {
			closeCache()
			os.Exit(1)
		}
	case *list:
		if err := listChunk(os.Stdout, loader, args[0]); err != nil {
			fail(err)
		}
	default:
		if err := runChunk(ctx, cfg, loader, args[0], args[1:]); err != nil {
			closeCache()
			fail(err)
		}
	}
}

func configureLogging(cfg *config.Config) {
	if cfg.Log.File != "" {
		path := cfg.Log.File
		commonlog.Configure(cfg.Log.Verbosity, &path)
	} else {
		commonlog.Configure(cfg.Log.Verbosity, nil)
	}
}

// openLoader returns the chunk decoder to use and a func releasing it.
func openLoader(ctx context.Context, cfg *config.Config, noCache bool) (state.ProtoLoader, func(), error) {
	if noCache || !cfg.Cache.Enabled {
		return nil, func() {}, nil
	}

	var store chunkcache.Store
	if path := cfg.CachePath(); path != "" {
		s, err := chunkcache.OpenSQLite(path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening cache: %w", err)
		}
		store = s
	} else {
		store = chunkcache.NewMemoryStore()
	}

	cache := chunkcache.New(store)
	closed := false
	release := func() {
		if closed {
			return
		}
		closed = true
		hits, misses := cache.Stats()
		log.Info("cache closed", "hits", hits, "misses", misses)
		if err := cache.Close(); err != nil {
			log.Warning("closing cache", "error", err.Error())
		}
	}
	return cache.Loader(ctx), release, nil
}

// runChunk loads the chunk at path into a fresh state and calls it with
// args.
func runChunk(ctx context.Context, cfg *config.Config, loader state.ProtoLoader, path string, args []string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	ls := state.New(append(cfg.StateOptions(), state.WithProtoLoader(loader))...)
	if err := openBuiltins(ls, os.Stdout); err != nil {
		return err
	}
	log.Debug("running chunk", "path", path, "state", ls.ID())

	if err := ls.Load(data, "@"+path, "b"); err != nil {
		return err
	}
	for _, arg := range args {
		ls.PushString(arg)
	}
	return ls.CallContext(ctx, len(args), api.MultRet)
}

func fail(err error) {
	prefix := "error:"
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		prefix = "\x1b[31merror:\x1b[0m"
	}
	fmt.Fprintf(os.Stderr, "%s %v\n", prefix, err)

	var rerr *state.RuntimeError
	if errors.As(err, &rerr) && rerr.Line > 0 {
		log.Debug("runtime error", "source", rerr.Source, "line", rerr.Line)
	}
	os.Exit(1)
}
