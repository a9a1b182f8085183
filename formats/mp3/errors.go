package mp3

import "errors"

// ErrInvalidMP3 wraps failures to find a decodable MPEG audio frame.
var ErrInvalidMP3 = errors.New("invalid MP3 stream")
