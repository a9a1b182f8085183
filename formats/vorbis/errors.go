package vorbis

import "errors"

// ErrInvalidVorbis wraps failures to read the Ogg Vorbis headers.
var ErrInvalidVorbis = errors.New("invalid Ogg Vorbis stream")
