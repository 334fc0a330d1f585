// Package scene holds one frame slot's worth of primitives.
//
// A [Scene] keeps MaxLayers fixed-capacity layers of [Prim] records, the
// frame's paint table and viewport uniforms, and mirrors them into GPU
// buffers allocated once at creation. Each layer is exposed to the
// rasterization pipeline through its own bind group ([Scene.GPUView]).
//
// Storage is reset, never reallocated, between frames. Appending past a
// layer's capacity drops the primitive and reports false.
package scene
