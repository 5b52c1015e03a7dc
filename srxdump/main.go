package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/term"

	"github.com/barnettlynn/nfctools/pkg/srx"
	"github.com/barnettlynn/nfctools/srxdump/internal/config"
)

const configFileName = "srxdump.yaml"

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [-h] [-v] -r|-w|-n|-i FILE [-t x4k|512] [options]\n", filepath.Base(os.Args[0]))
	fmt.Fprintf(os.Stderr, "\nModes (FILE may be - for stdin/stdout):\n")
	fmt.Fprintf(os.Stderr, "  -r FILE    Dump tag memory to FILE\n")
	fmt.Fprintf(os.Stderr, "  -w FILE    Write FILE to the tag, only changed blocks\n")
	fmt.Fprintf(os.Stderr, "  -n FILE    Dry run: report what writing FILE would do\n")
	fmt.Fprintf(os.Stderr, "  -i FILE    Print the content of a dump file\n")
	fmt.Fprintf(os.Stderr, "\nOptions:\n")
	flag.PrintDefaults()
}

func main() {
	readPath := flag.String("r", "", "dump tag memory to `FILE`")
	writePath := flag.String("w", "", "write `FILE` to the tag")
	dryRunPath := flag.String("n", "", "dry run writing `FILE`")
	inspectPath := flag.String("i", "", "print the dump `FILE`")
	tagType := flag.String("t", "", "tag type: x4k (SRIX4K) or 512 (SRI512), default x4k")
	verbose := flag.Bool("v", false, "print transceived frames and debug logging")
	logFormat := flag.String("log-format", "", "log format: text or json")
	readerIndex := flag.Int("reader", -1, "PC/SC reader index (default from config, else 0)")
	timeout := flag.Duration("timeout", -1, "how long to wait for a tag (default from config, else 10s)")
	configPath := flag.String("config", "", "config file (.yaml or .toml)")
	emulate := flag.String("emulate", "", "use an emulated tag backed by dump `FILE` instead of a reader")
	verify := flag.Bool("verify", false, "re-read the tag after writing and compare")
	force := flag.Bool("force", false, "write even if the dry run reports irreversible changes")
	flag.Usage = usage
	flag.Parse()

	mode, path, ok := selectMode(*readPath, *writePath, *dryRunPath, *inspectPath)
	if !ok || flag.NArg() > 0 {
		usage()
		os.Exit(1)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}

	// Configure slog
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Log.Format == "json" {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, opts)))
	} else {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, opts)))
	}

	if *tagType != "" {
		cfg.Tag.Type = *tagType
	}
	geometry, err := cfg.TagGeometry()
	if err != nil {
		usage()
		log.Fatalf("%v", err)
	}
	if *readerIndex >= 0 {
		cfg.Reader.Index = *readerIndex
	}
	wait, err := cfg.ReaderTimeout()
	if err != nil {
		log.Fatalf("config invalid: %v", err)
	}
	if *timeout >= 0 {
		wait = *timeout
	}
	if *emulate != "" {
		cfg.Emulate.File = *emulate
	}

	if mode == modeRead && path == srx.StdioPath && term.IsTerminal(int(os.Stdout.Fd())) {
		log.Fatalf("refusing to write a binary dump to a terminal, redirect stdout or use -r FILE")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	o := options{
		mode:        mode,
		path:        path,
		geometry:    geometry,
		verbose:     *verbose,
		readerIndex: cfg.Reader.Index,
		timeout:     wait,
		emulate:     cfg.Emulate.File,
		verify:      *verify,
		force:       *force,
		out:         os.Stderr,
		in:          os.Stdin,
		interactive: path != srx.StdioPath && term.IsTerminal(int(os.Stdin.Fd())),
	}
	if err := run(ctx, o); err != nil {
		log.Fatalf("%s failed: %v", mode, err)
	}
}

func selectMode(readPath, writePath, dryRunPath, inspectPath string) (mode, string, bool) {
	var (
		selected mode
		path     string
		count    int
	)
	for _, m := range []struct {
		mode mode
		path string
	}{
		{modeRead, readPath},
		{modeWrite, writePath},
		{modeDryRun, dryRunPath},
		{modeInspect, inspectPath},
	} {
		if m.path != "" {
			selected, path = m.mode, m.path
			count++
		}
	}
	return selected, path, count == 1
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	defaultPath, err := defaultConfigPath()
	if err != nil || !fileExists(defaultPath) {
		return config.Default(), nil
	}
	slog.Debug("using config", "path", defaultPath)
	return config.Load(defaultPath)
}

func defaultConfigPath() (string, error) {
	exePath, err := os.Executable()
	if err != nil {
		return "", err
	}
	exeConfigPath := filepath.Join(filepath.Dir(exePath), configFileName)
	if fileExists(exeConfigPath) {
		return exeConfigPath, nil
	}

	// Fallback for `go run`, where the executable is placed in a temp directory.
	cwd, err := os.Getwd()
	if err != nil {
		return exeConfigPath, nil
	}
	cwdConfigPath := filepath.Join(cwd, configFileName)
	if fileExists(cwdConfigPath) {
		return cwdConfigPath, nil
	}
	return exeConfigPath, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
