// Package multipart implements an incremental, backpressure-aware parser for
// HTTP multipart/* message bodies (RFC 7578 / RFC 2046).
//
// Unlike the standard library's mime/multipart, which buffers a fixed
// lookahead per part, this package is built around three cooperating pieces:
// a ChunkBuffer that owns a sliding window over the input stream, a
// BoundaryScanner that drives the RFC 2046 state machine over that window,
// and a PartStream handle that the caller drains before the scanner is
// allowed to advance to the next part. Nothing is read from the underlying
// source until the caller asks for the next part or the next payload chunk.
package multipart
