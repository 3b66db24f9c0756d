// Package gpu abstracts the command-buffer substrate the renderer records
// waveform work into.
//
// Rendering and tone-mapping record closures into a CommandBuffer which
// the Device executes asynchronously; work submitted in frame N may still
// be running when frame N+1 begins. WaitIdle is the one synchronization
// point: it blocks until every submitted buffer has fully executed, and
// the engine calls it before freeing any resource a prior frame's buffer
// may still reference. It is deliberately coarse (device-wide) and only
// sits on rare paths such as closing a display area.
package gpu

// Op is one unit of recorded GPU work.
type Op func()

// CommandBuffer collects ops for one submission.
type CommandBuffer interface {
	Record(op Op)
}

// Device issues and synchronizes command buffers.
type Device interface {
	// Begin starts recording a new command buffer.
	Begin() CommandBuffer

	// Submit queues a recorded buffer for execution. The buffer must not
	// be recorded into after submission.
	Submit(cb CommandBuffer)

	// WaitIdle blocks until all submitted work has completed.
	WaitIdle()
}

// nullBuffer collects ops for the null device.
type nullBuffer struct {
	ops []Op
}

func (b *nullBuffer) Record(op Op) { b.ops = append(b.ops, op) }

// NullDevice executes submitted work synchronously. WaitIdle returns
// immediately since Submit never leaves work outstanding. Useful for
// tests and headless operation.
type NullDevice struct{}

// NewNullDevice creates a synchronous device.
func NewNullDevice() *NullDevice { return &NullDevice{} }

// Begin starts recording a new command buffer.
func (d *NullDevice) Begin() CommandBuffer { return &nullBuffer{} }

// Submit runs the buffer's ops immediately on the calling goroutine.
func (d *NullDevice) Submit(cb CommandBuffer) {
	if b, ok := cb.(*nullBuffer); ok {
		for _, op := range b.ops {
			op()
		}
		b.ops = nil
	}
}

// WaitIdle does nothing; the null device is always idle.
func (d *NullDevice) WaitIdle() {}

// Ensure NullDevice implements Device.
var _ Device = (*NullDevice)(nil)
