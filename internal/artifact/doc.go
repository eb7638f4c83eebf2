// Package artifact converts a saved model into a compact binary format for
// deployment on constrained runtimes.
//
// The conversion is a read-only transformation of an existing model file:
// the network graph is optimized for inference by folding each batch
// normalization layer into the dense layer that follows it (both are affine
// maps, so the fold is exact up to floating-point rounding) and dropping
// dropout layers, which are identity at inference. Weights are stored as
// float32. No quantization or pruning is applied, so a converted model
// predicts within a small numeric tolerance of the original.
//
// The resulting artifact is a flat little-endian encoding of dense layers
// that can be executed with nothing but a dot-product loop.
package artifact
