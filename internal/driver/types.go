// Package driver loads snapshots, rebuilds them into live IR and runs
// verification over them, one Context per file.
package driver

import (
	"time"

	"lattice/internal/observ"
)

// Stage describes a high-level pipeline phase.
type Stage string

const (
	// StageLoad is the snapshot read+decode stage.
	StageLoad Stage = "load"
	// StageBuild is the IR reconstruction stage.
	StageBuild Stage = "build"
	// StageVerify is the verification stage.
	StageVerify Stage = "verify"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the task is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the task is currently working.
	StatusWorking Status = "working"
	// StatusDone indicates the task is done.
	StatusDone Status = "done"
	// StatusCached indicates the outcome came from the disk cache.
	StatusCached Status = "cached"
	// StatusError indicates the task encountered an error.
	StatusError Status = "error"
)

// Event reports progress for a file.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// SinkFunc adapts a function to ProgressSink.
type SinkFunc func(Event)

func (f SinkFunc) OnEvent(ev Event) { f(ev) }

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(ev Event) { s.Ch <- ev }

// nopSink drops everything.
type nopSink struct{}

func (nopSink) OnEvent(Event) {}

// VerifyResult is the outcome of verifying one snapshot file.
type VerifyResult struct {
	Path   string
	Err    error
	Cached bool
	Timing *observ.Report
}
