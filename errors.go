package vger

import "errors"

// Renderer errors.
var (
	// ErrNilDevice is returned when New receives no device or queue.
	ErrNilDevice = errors.New("vger: nil device or queue")

	// ErrNoHALProvider is returned when a device provider does not expose HAL types.
	ErrNoHALProvider = errors.New("vger: provider does not expose HAL device and queue")

	// ErrClosed is returned when using a closed renderer.
	ErrClosed = errors.New("vger: renderer is closed")

	// ErrNotRecording is returned by Encode when no frame was begun.
	ErrNotRecording = errors.New("vger: no frame is being recorded")

	// ErrFrameInFlight is returned by Begin when the next frame slot is still
	// in use by the GPU after the frame timeout.
	ErrFrameInFlight = errors.New("vger: frame slot still in flight")

	// ErrTransformUnderflow is returned by PopTransform without a matching push.
	ErrTransformUnderflow = errors.New("vger: transform stack underflow")

	// ErrLayerOutOfRange is returned by SelectLayer for invalid indices.
	ErrLayerOutOfRange = errors.New("vger: layer index out of range")

	// ErrInvalidViewport is returned by Begin for non-positive sizes.
	ErrInvalidViewport = errors.New("vger: invalid viewport size")

	// ErrNilTarget is returned by Encode without a target view.
	ErrNilTarget = errors.New("vger: nil render target")

	// ErrSubmit wraps device failures while encoding or submitting a frame.
	// The frame is lost; the device may need to be recreated.
	ErrSubmit = errors.New("vger: frame submission failed")
)
