package srx

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// StdioPath selects stdin or stdout instead of a file.
const StdioPath = "-"

// ReadDump loads a dump image of exactly DumpSize bytes from r.
func ReadDump(r io.Reader, g Geometry) (*Dump, error) {
	d := NewDump(g)
	n, err := io.ReadFull(r, d.raw[:])
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("%w: got %d of %d bytes", ErrTruncatedInput, n, DumpSize)
	}
	if err != nil {
		return nil, fmt.Errorf("read dump: %w", err)
	}

	var extra [1]byte
	n, err = r.Read(extra[:])
	for n == 0 && err == nil {
		n, err = r.Read(extra[:])
	}
	if n > 0 {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrOversizedInput, DumpSize)
	}
	if err != io.EOF {
		return nil, fmt.Errorf("read dump: %w", err)
	}
	return d, nil
}

// WriteDumpTo writes the DumpSize-byte image of d to w.
func WriteDumpTo(w io.Writer, d *Dump) error {
	n, err := w.Write(d.raw[:])
	if err != nil {
		return fmt.Errorf("write dump: %w", err)
	}
	if n != DumpSize {
		return fmt.Errorf("write dump: %w", io.ErrShortWrite)
	}
	return nil
}

// LoadFile reads a dump from path, or from stdin when path is "-".
func LoadFile(path string, g Geometry) (*Dump, error) {
	if path == StdioPath {
		return ReadDump(os.Stdin, g)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dump: %w", err)
	}
	defer f.Close()
	d, err := ReadDump(f, g)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// SaveFile writes d to path, or to stdout when path is "-".
// Files are written to a temporary sibling and renamed into place.
func SaveFile(path string, d *Dump) error {
	if path == StdioPath {
		return WriteDumpTo(os.Stdout, d)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create dump: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteDumpTo(tmp, d); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close dump: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename dump: %w", err)
	}
	return nil
}
