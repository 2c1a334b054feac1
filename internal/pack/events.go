package pack

import "time"

// Stage describes a phase of pack loading.
type Stage string

const (
	// StageManifest is the manifest parse stage.
	StageManifest Stage = "manifest"
	// StageTokens is the dynamic token collection stage.
	StageTokens Stage = "tokens"
	// StagePatches is the patch validation stage.
	StagePatches Stage = "patches"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the pack is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the pack is being processed.
	StatusWorking Status = "working"
	// StatusDone indicates the pack finished.
	StatusDone Status = "done"
	// StatusError indicates the pack finished with errors.
	StatusError Status = "error"
)

// Event reports progress for a pack (or for the whole load when Pack is
// empty).
type Event struct {
	Pack    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// NopSink drops events.
type NopSink struct{}

func (NopSink) OnEvent(Event) {}
