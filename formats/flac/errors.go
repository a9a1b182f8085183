package flac

import "errors"

var (
	// ErrNotFlacFile indicates the stream lacks the fLaC signature or a
	// readable STREAMINFO block.
	ErrNotFlacFile = errors.New("not a FLAC file")

	// ErrUnsupportedBitDepth indicates a sample size outside 4..32 bits.
	ErrUnsupportedBitDepth = errors.New("unsupported FLAC bit depth")

	// ErrChannelMismatch indicates a frame whose subframe count differs
	// from STREAMINFO.
	ErrChannelMismatch = errors.New("FLAC frame channel count mismatch")
)
