// Package atlas packs raster image regions into one fixed-size GPU texture.
//
// An [Atlas] owns a single RGBA8 texture and a [Packer] sized to match.
// Regions are queued with [Atlas.AddRegion] and realized on the GPU by
// [Atlas.Flush], which packs each pending region in insertion order and
// records a buffer-to-texture copy for it into the caller's command encoder.
//
// The atlas is append-only: a placed region keeps its rectangle for the
// lifetime of the atlas. Regions that do not fit are reported per region
// through [FlushResult.Failed] with [ErrPackingFailed].
package atlas
