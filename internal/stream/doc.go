// Package stream owns the cursor buffer primitive shared by the codec and
// framing packages.
//
// Ownership boundary:
// - byte storage with independent read and write cursors
// - fixed-width integer and length-prefixed blob primitives
// - cursor snapshot/restore for callers that need atomic reads
//
// A Buffer is not safe for concurrent use. Each buffer has exactly one owner.
package stream
