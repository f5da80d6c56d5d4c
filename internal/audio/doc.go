// Package audio classifies the stereo channel layout of a media file by
// measuring each channel with ffmpeg, and repairs files whose left or right
// channel is silent by copying the live channel onto both outputs.
//
// A channel is silent only when volumedetect reports a mean volume of -inf,
// meaning no signal energy at all. Mono is the degenerate case where both
// channels are measured silent independently; stream metadata is never
// consulted.
package audio
