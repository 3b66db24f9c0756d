// Package display hosts the viewport engine in a desktop window.
//
// It provides the concrete implementations of the engine's capability
// interfaces: an ebiten-backed draw list and input adapter, a bitmap
// font, an asynchronous GPU device, and the waveform display areas the
// group renders into. The Host type owns the ebiten game loop and wires
// all of these to a group.Group.
package display

import (
	"sync"

	"github.com/akowalsk/scopeview/pkg/gpu"
)

// commandBuffer collects recorded ops for one submission.
type commandBuffer struct {
	ops []gpu.Op
}

func (b *commandBuffer) Record(op gpu.Op) { b.ops = append(b.ops, op) }

// Device executes command buffers on a worker goroutine, so waveform
// rasterization and tone mapping run off the render goroutine. WaitIdle
// blocks until every submitted buffer has fully executed, which is what
// makes it safe to free resources an earlier frame recorded against.
//
// Submit must only be called from one goroutine (the render loop).
type Device struct {
	work    chan *commandBuffer
	pending sync.WaitGroup

	closeOnce sync.Once
}

// NewDevice starts the worker goroutine.
func NewDevice() *Device {
	d := &Device{work: make(chan *commandBuffer, 8)}
	go d.run()
	return d
}

func (d *Device) run() {
	for cb := range d.work {
		for _, op := range cb.ops {
			op()
		}
		d.pending.Done()
	}
}

// Begin starts recording a new command buffer.
func (d *Device) Begin() gpu.CommandBuffer { return &commandBuffer{} }

// Submit queues a buffer for execution on the worker.
func (d *Device) Submit(cb gpu.CommandBuffer) {
	b, ok := cb.(*commandBuffer)
	if !ok || len(b.ops) == 0 {
		return
	}
	d.pending.Add(1)
	d.work <- b
}

// WaitIdle blocks until all submitted work has completed.
func (d *Device) WaitIdle() { d.pending.Wait() }

// Close stops the worker after draining outstanding work.
func (d *Device) Close() {
	d.closeOnce.Do(func() {
		d.pending.Wait()
		close(d.work)
	})
}

var _ gpu.Device = (*Device)(nil)
