package atlas

import "errors"

// Atlas errors.
var (
	// ErrPackingFailed is reported for a region that has no room left in the atlas.
	ErrPackingFailed = errors.New("atlas: packing failed")

	// ErrPixelSizeMismatch is returned when a pixel payload does not match width*height*4.
	ErrPixelSizeMismatch = errors.New("atlas: pixel data size mismatch")

	// ErrInvalidSize is returned for regions with non-positive dimensions.
	ErrInvalidSize = errors.New("atlas: invalid region size")

	// ErrAtlasClosed is returned when operating on a closed atlas.
	ErrAtlasClosed = errors.New("atlas: atlas is closed")

	// ErrUploadAborted is reported for placed regions whose copy was never
	// submitted.
	ErrUploadAborted = errors.New("atlas: upload aborted")

	// ErrNilDevice is returned when no device or queue is supplied.
	ErrNilDevice = errors.New("atlas: nil device or queue")
)
