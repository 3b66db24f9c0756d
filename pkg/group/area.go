package group

import (
	"github.com/akowalsk/scopeview/pkg/draw"
	"github.com/akowalsk/scopeview/pkg/gpu"
	"github.com/akowalsk/scopeview/pkg/waveform"
)

// Area is one channel-display panel inside a group. The group owns an
// ordered list of areas and drives their rendering; areas own their
// per-channel GPU resources.
//
// Release frees those GPU resources. The group guarantees Release is
// only called after a device-wide idle barrier, so no command buffer
// recorded in an earlier frame can still reference them.
type Area interface {
	// Render draws the area into region. index and total describe the
	// area's position in the group for layout. Returning false asks the
	// group to close this area; it stays renderable for the rest of the
	// frame and is erased after the next frame's idle barrier.
	Render(index, total int, region draw.Rect) bool

	// ToneMap records this area's tone-mapping work into cb.
	ToneMap(cb gpu.CommandBuffer)

	// RenderWaveforms records waveform rasterization into cb.
	// clearPersistence discards accumulated persistence first.
	RenderWaveforms(cb gpu.CommandBuffer, clearPersistence bool)

	// StreamCount returns the number of channel streams displayed.
	StreamCount() int

	// Stream returns the i-th displayed stream.
	Stream(i int) waveform.Stream

	// ChannelBeingDragged returns the stream currently being dragged out
	// of this area, if any.
	ChannelBeingDragged() (waveform.Stream, bool)

	// ClearPersistenceOfChannel discards persistence for streams of the
	// named channel, typically after the channel is reconfigured.
	ClearPersistenceOfChannel(name string)

	// WaveformTimestamp returns the acquisition timestamp, which keys
	// the session's marker collection.
	WaveformTimestamp() int64

	// Release frees the area's GPU resources. Called exactly once, after
	// an idle barrier.
	Release()
}
