package srx

import (
	"fmt"
	"log/slog"
)

// Stage names reported to a ProgressFunc.
const (
	StageRead   = "read"
	StageWrite  = "write"
	StageVerify = "verify"
)

// Progress describes one completed block operation.
type Progress struct {
	Stage string
	Addr  byte
	Done  int // blocks completed so far in this stage
	Total int
	Wrote bool // only meaningful for StageWrite
}

// ProgressFunc is called after every block of a read, write or verify pass.
type ProgressFunc func(Progress)

// Session bundles everything one tag operation needs. It is owned by the
// caller for the lifetime of one tag session and must not be shared.
type Session struct {
	t        Transceiver
	geometry Geometry
	logger   *slog.Logger
	progress ProgressFunc
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithProgress sets a callback invoked after every block.
func WithProgress(fn ProgressFunc) SessionOption {
	return func(s *Session) {
		s.progress = fn
	}
}

// NewSession returns a Session talking to t with geometry g.
func NewSession(t Transceiver, g Geometry, opts ...SessionOption) (*Session, error) {
	if t == nil {
		return nil, fmt.Errorf("transceiver cannot be nil")
	}
	if !g.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedGeometry, g)
	}
	s := &Session{t: t, geometry: g, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s, nil
}

// Geometry returns the session's tag layout.
func (s *Session) Geometry() Geometry {
	return s.geometry
}

func (s *Session) report(p Progress) {
	if s.progress != nil {
		s.progress(p)
	}
}
