// Package logging builds the structured install logger.
package logging

import (
	"bytes"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/juju/lumberjack/v2"
)

const (
	maxSizeMB  = 10
	maxBackups = 3
)

// Options configures New.
type Options struct {
	// Path is the rotating JSON log file. Ignored when Verbose is set.
	Path string
	// Hold keeps file records in memory until Sink.Release. Nothing is
	// created on disk if the sink is closed first.
	Hold bool
	// Verbose logs human readable records at debug level to Stderr instead.
	Verbose bool
	Stderr  io.Writer
	// RunID tags every record; empty generates one.
	RunID string
}

// Sink owns the output behind a logger built by New.
type Sink struct {
	held   *heldWriter
	closer io.Closer
}

// Release writes held records to the log file and lets later records
// through. It is a no-op for a sink that holds nothing.
func (s *Sink) Release() {
	if s.held != nil {
		s.held.release()
	}
}

// Close closes the log file. Records still held are dropped.
func (s *Sink) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// New returns a logger and the sink it writes to.
// Every record carries the run_id attribute.
func New(opts Options) (*slog.Logger, *Sink, error) {
	runID := opts.RunID
	if runID == "" {
		id, err := uuid.NewRandom()
		if err != nil {
			return nil, nil, err
		}
		runID = id.String()
	}

	sink := &Sink{}
	var handler slog.Handler
	switch {
	case opts.Verbose && opts.Stderr != nil:
		handler = slog.NewTextHandler(opts.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	case opts.Path != "":
		file := &lumberjack.Logger{
			Filename:   opts.Path,
			MaxSize:    maxSizeMB, // megabytes
			MaxBackups: maxBackups,
			Compress:   true,
		}
		sink.closer = file
		var w io.Writer = file
		if opts.Hold {
			sink.held = &heldWriter{w: file}
			w = sink.held
		}
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		handler = slog.DiscardHandler
	}
	return slog.New(handler).With("run_id", runID), sink, nil
}

// heldWriter buffers writes until release, then writes through.
// lumberjack opens its file on the first write, so a writer that is never
// released leaves no file behind.
type heldWriter struct {
	mu       sync.Mutex
	w        io.Writer
	buf      bytes.Buffer
	released bool
}

func (h *heldWriter) Write(p []byte) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.released {
		return h.buf.Write(p)
	}
	return h.w.Write(p)
}

func (h *heldWriter) release() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return
	}
	h.released = true
	if h.buf.Len() > 0 {
		_, _ = h.w.Write(h.buf.Bytes())
		h.buf.Reset()
	}
}
