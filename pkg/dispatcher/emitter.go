package dispatcher

import (
	"sync"

	"github.com/mohsinkhan85090/VoiceBrowse/pkg/types"
)

// Emitter delivers outbound events to the presentation surface. Emit may be
// called from several goroutines at once.
type Emitter interface {
	Emit(event *types.Event)
}

// EmitterFunc adapts a function to the Emitter interface.
type EmitterFunc func(event *types.Event)

// Emit calls f(event).
func (f EmitterFunc) Emit(event *types.Event) {
	f(event)
}

// ChannelEmitter forwards events to a channel.
type ChannelEmitter struct {
	events    chan *types.Event
	closeOnce sync.Once
}

// NewChannelEmitter creates a ChannelEmitter with the given buffer size.
func NewChannelEmitter(bufferSize int) *ChannelEmitter {
	return &ChannelEmitter{events: make(chan *types.Event, bufferSize)}
}

// Emit blocks until the event is buffered or received.
func (c *ChannelEmitter) Emit(event *types.Event) {
	c.events <- event
}

// Events returns the receive side of the channel.
func (c *ChannelEmitter) Events() <-chan *types.Event {
	return c.events
}

// Close closes the channel. Emit must not be called afterwards.
func (c *ChannelEmitter) Close() {
	c.closeOnce.Do(func() {
		close(c.events)
	})
}
