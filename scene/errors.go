package scene

import "errors"

// Scene errors.
var (
	// ErrLayerOutOfRange is returned for layer indices outside [0, MaxLayers).
	ErrLayerOutOfRange = errors.New("scene: layer index out of range")

	// ErrNilDevice is returned when New receives no device.
	ErrNilDevice = errors.New("scene: nil device")

	// ErrMissingBinding is returned when Config lacks a layout, atlas view or sampler.
	ErrMissingBinding = errors.New("scene: missing bind group resource")

	// ErrSceneClosed is returned when operating on a closed scene.
	ErrSceneClosed = errors.New("scene: scene is closed")
)
