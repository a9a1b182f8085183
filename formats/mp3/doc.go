// SPDX-License-Identifier: EPL-2.0

// Package mp3 provides MP3 audio file decoding.
//
// This package uses github.com/hajimehoshi/go-mp3 to decode MP3 files.
//
// # Decoding MP3 Files
//
//	file, _ := os.Open("audio.mp3")
//	source, err := mp3.Decoder{}.Decode(file)
//	if err != nil {
//	    // errors.Is(err, mp3.ErrInvalidMP3)
//	}
//
// # Output Format
//
// go-mp3 always produces 16-bit stereo, so the source reports two channels
// even for mono files. Sample rate follows the stream. Use audio.Downmix or
// the root package's WithMono option to fold it back to one channel.
//
// Reads always return whole stereo frames. A trailing half frame at the
// end of the stream is dropped.
//
// # Limitations
//
//   - Decoding only
//   - The whole stream is not seekable through the source
package mp3
