package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/barnettlynn/nfctools/pkg/srx"
)

type mode string

const (
	modeRead    mode = "read"
	modeWrite   mode = "write"
	modeDryRun  mode = "dry-run"
	modeInspect mode = "inspect"
)

var errHazardsNotConfirmed = errors.New("dry run reported irreversible changes, rerun with -force to write anyway")

type options struct {
	mode        mode
	path        string
	geometry    srx.Geometry
	verbose     bool
	readerIndex int
	timeout     time.Duration
	emulate     string
	verify      bool
	force       bool

	out         io.Writer // progress and reports
	in          io.Reader // confirmation answers
	interactive bool
}

// run executes one tag session. The dump file is loaded before the tag is
// touched, and the reader is released by a single deferred close whatever
// the outcome.
func run(ctx context.Context, o options) error {
	var candidate *srx.Dump
	if o.mode != modeRead {
		d, err := srx.LoadFile(o.path, o.geometry)
		if err != nil {
			return fmt.Errorf("load dump: %w", err)
		}
		candidate = d
	}
	if o.mode == modeInspect {
		srx.PrintDump(o.out, candidate)
		return nil
	}

	tr, emu, closeTag, err := openTag(o)
	if err != nil {
		return err
	}
	defer closeTag()
	if o.verbose {
		tr = srx.Trace(tr, slog.Default())
	}

	fmt.Fprintln(o.out, "Waiting for tag...")
	info, err := srx.WaitForTag(ctx, tr, o.timeout, slog.Default())
	if err != nil {
		return err
	}
	fmt.Fprintf(o.out, "Found %s tag, chip ID 0x%02X, UID: %s\n", o.geometry, info.ChipID, srx.HexUpper(info.UID))

	opts := []srx.SessionOption{srx.WithLogger(slog.Default())}
	if !o.verbose {
		opts = append(opts, srx.WithProgress(progressBar(o.out)))
	}
	sess, err := srx.NewSession(tr, o.geometry, opts...)
	if err != nil {
		return err
	}

	switch o.mode {
	case modeRead:
		return readTag(o, sess)
	case modeDryRun:
		fmt.Fprintf(o.out, "Dry run: comparing %s with the tag\n", o.path)
		report, err := sess.DryRun(candidate)
		if err != nil {
			return err
		}
		srx.PrintFindings(o.out, report)
		return nil
	case modeWrite:
		if err := writeTag(o, sess, candidate); err != nil {
			return err
		}
		if emu != nil {
			return srx.SaveFile(o.emulate, emu.Contents())
		}
		return nil
	default:
		return fmt.Errorf("unknown mode %q", o.mode)
	}
}

// openTag returns the emulated tag or a reader connection, and its release.
// emu is only set for an emulated tag.
func openTag(o options) (tr srx.Transceiver, emu *srx.Emulator, release func(), err error) {
	if o.emulate != "" {
		d, err := srx.LoadFile(o.emulate, o.geometry)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("load emulated tag: %w", err)
		}
		fmt.Fprintf(o.out, "Using emulated tag: %s\n", o.emulate)
		emu = srx.NewEmulator(o.geometry, d)
		return emu, emu, func() {}, nil
	}

	conn, err := srx.Connect(o.readerIndex)
	if err != nil {
		return nil, nil, nil, err
	}
	fmt.Fprintf(o.out, "Using reader [%d]: %s\n", conn.ReaderIdx, conn.Reader)
	return conn, nil, conn.Close, nil
}

func readTag(o options, sess *srx.Session) error {
	fmt.Fprintf(o.out, "Reading %d blocks and the system block (0xFF)\n", o.geometry.EEPROMBlocks())
	d, err := sess.Read()
	if err != nil {
		return err
	}
	if err := srx.SaveFile(o.path, d); err != nil {
		return err
	}
	fmt.Fprintf(o.out, "Dump saved to %s\n", o.path)
	return nil
}

func writeTag(o options, sess *srx.Session, candidate *srx.Dump) error {
	if !o.force {
		fmt.Fprintln(o.out, "Checking the dump against the tag before writing")
		report, err := sess.DryRun(candidate)
		if err != nil {
			return err
		}
		if !report.Safe() {
			srx.PrintFindings(o.out, report)
			if !o.interactive || !confirm(o.out, o.in, "Write anyway?") {
				return errHazardsNotConfirmed
			}
		}
	}

	fmt.Fprintf(o.out, "Writing %d blocks and the system block (0xFF)\n", o.geometry.EEPROMBlocks())
	stats, err := sess.Write(candidate)
	if err != nil {
		return err
	}
	fmt.Fprintf(o.out, "%d blocks written, %d unchanged\n", stats.Writes, stats.Skipped)

	if o.verify {
		mismatched, err := sess.Verify(candidate)
		if err != nil {
			return err
		}
		if len(mismatched) > 0 {
			return fmt.Errorf("verify: %d blocks differ after write: %s", len(mismatched), srx.HexUpper(mismatched))
		}
		fmt.Fprintln(o.out, "Verify: OK")
	}
	return nil
}

func confirm(w io.Writer, r io.Reader, question string) bool {
	fmt.Fprintf(w, "%s [y/N] ", question)
	answer, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// progressBar draws |....| with one dot per block.
func progressBar(w io.Writer) srx.ProgressFunc {
	return func(p srx.Progress) {
		if p.Done == 1 {
			fmt.Fprint(w, "|")
		}
		fmt.Fprint(w, ".")
		if p.Done == p.Total {
			fmt.Fprintln(w, "|")
		}
	}
}
