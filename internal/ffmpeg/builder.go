package ffmpeg

import "fmt"

// Channel names one labelled output of the stereo channelsplit filter.
type Channel string

const (
	ChannelLeft  Channel = "L"
	ChannelRight Channel = "R"
)

// Other returns the opposite channel.
func (c Channel) Other() Channel {
	if c == ChannelLeft {
		return ChannelRight
	}
	return ChannelLeft
}

// Index is the pan filter input index for the channel (c0 = left, c1 = right).
func (c Channel) Index() int {
	if c == ChannelRight {
		return 1
	}
	return 0
}

// CopyCodec instructs ffmpeg to pass a stream through without re-encoding.
const CopyCodec = "copy"

// AnalyzeArgs builds the argument vector that measures the mean volume of a
// single channel of the first audio stream. The decoded output is discarded
// through the null muxer; the unused split output is drained by anullsink so
// the graph has no dangling pads.
func AnalyzeArgs(input string, ch Channel) []string {
	graph := fmt.Sprintf(
		"[0:a:0]channelsplit=channel_layout=stereo[%s][%s];[%s]volumedetect[out];[%s]anullsink",
		ChannelLeft, ChannelRight, ch, ch.Other(),
	)
	return []string{
		"-hide_banner", "-nostdin", "-nostats",
		"-i", input,
		"-filter_complex", graph,
		"-map", "[out]",
		"-f", "null", "-",
	}
}

// RepairSpec describes one repair attempt.
type RepairSpec struct {
	Input       string
	Output      string
	VideoCodec  string // encoder name, or CopyCodec
	AudioFilter string
	AudioCodec  string
	Format      string // output muxer; required because Output may carry a temp suffix
}

// RepairArgs builds the argument vector for a repair attempt. Video and audio
// are mapped explicitly; the audio filter is applied to every mapped audio
// stream and the audio is always re-encoded.
func RepairArgs(s RepairSpec) []string {
	args := make([]string, 0, 24)
	args = append(args, "-hide_banner", "-nostdin", "-y")
	args = append(args, "-i", s.Input)
	args = append(args, "-map", "0:v", "-map", "0:a")
	args = append(args, "-c:v", s.VideoCodec)
	if s.AudioFilter != "" {
		args = append(args, "-af", s.AudioFilter)
	}
	args = append(args, "-c:a", s.AudioCodec)
	if s.Format != "" {
		args = append(args, "-f", s.Format)
	}
	return append(args, s.Output)
}

// PanFilter returns a stereo pan filter that feeds both output channels from
// the given source channel.
func PanFilter(source Channel) string {
	i := source.Index()
	return fmt.Sprintf("pan=stereo|c0=c%d|c1=c%d", i, i)
}

// EncodersArgs lists the encoders compiled into the ffmpeg binary.
func EncodersArgs() []string {
	return []string{"-hide_banner", "-encoders"}
}
