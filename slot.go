package vger

import (
	"time"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/vger/atlas"
	"github.com/gogpu/vger/scene"
)

// pollInterval is how often a busy slot re-checks the queue.
const pollInterval = 500 * time.Microsecond

// frameSlot is one entry of the frame rotation: a scene plus the GPU
// objects of its last submission, kept until the queue reports that
// submission complete.
type frameSlot struct {
	index int
	scene *scene.Scene

	inFlight   bool
	frame      uint64
	submission uint64
	cmd        hal.CommandBuffer
	staging    []hal.Buffer
}

// done reports whether the slot's last submission has completed.
func (s *frameSlot) done(queue hal.Queue) bool {
	return !s.inFlight || queue.PollCompleted() >= s.submission
}

// wait polls the queue until the slot's last submission completes or
// timeout elapses. It reports whether the slot is free; a free slot has had
// its submission resources released.
func (s *frameSlot) wait(device hal.Device, queue hal.Queue, at *atlas.Atlas, timeout time.Duration) bool {
	if !s.inFlight {
		return true
	}
	deadline := time.Now().Add(timeout)
	for !s.done(queue) {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return false
		}
		time.Sleep(min(pollInterval, remaining))
	}
	s.release(device, at)
	return true
}

// release frees the submission resources. Only call once the GPU is done
// with them.
func (s *frameSlot) release(device hal.Device, at *atlas.Atlas) {
	if len(s.staging) > 0 {
		at.DestroyStaging(s.staging)
		s.staging = nil
	}
	if s.cmd != nil {
		device.FreeCommandBuffer(s.cmd)
		s.cmd = nil
	}
	s.submission = 0
	s.inFlight = false
}
