package ffmpeg

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	result Result
	calls  [][]string
}

func (s *stubRunner) Run(_ context.Context, args []string) Result {
	s.calls = append(s.calls, args)
	return s.result
}

func TestAnalyzeArgs_SelectsRequestedChannel(t *testing.T) {
	left := AnalyzeArgs("/in/a.mp4", ChannelLeft)
	right := AnalyzeArgs("/in/a.mp4", ChannelRight)

	assert.Contains(t, left, "/in/a.mp4")
	assert.Equal(t, []string{"-f", "null", "-"}, left[len(left)-3:])

	graphL := argAfter(t, left, "-filter_complex")
	graphR := argAfter(t, right, "-filter_complex")
	assert.True(t, strings.HasPrefix(graphL, "[0:a:0]channelsplit=channel_layout=stereo[L][R]"))
	assert.Contains(t, graphL, "[L]volumedetect[out]")
	assert.Contains(t, graphL, "[R]anullsink")
	assert.Contains(t, graphR, "[R]volumedetect[out]")
	assert.Contains(t, graphR, "[L]anullsink")
	assert.Equal(t, "[out]", argAfter(t, left, "-map"))
}

func TestRepairArgs_Shape(t *testing.T) {
	args := RepairArgs(RepairSpec{
		Input:       "in.mkv",
		Output:      "in_fixed.mp4.partial",
		VideoCodec:  "h264_qsv",
		AudioFilter: PanFilter(ChannelRight),
		AudioCodec:  "aac",
		Format:      "mp4",
	})

	assert.Equal(t, "in.mkv", argAfter(t, args, "-i"))
	assert.Equal(t, "h264_qsv", argAfter(t, args, "-c:v"))
	assert.Equal(t, "pan=stereo|c0=c1|c1=c1", argAfter(t, args, "-af"))
	assert.Equal(t, "aac", argAfter(t, args, "-c:a"))
	assert.Equal(t, "mp4", argAfter(t, args, "-f"))
	assert.Equal(t, "in_fixed.mp4.partial", args[len(args)-1])
	assert.Contains(t, strings.Join(args, " "), "-map 0:v -map 0:a")
}

func TestPanFilter(t *testing.T) {
	assert.Equal(t, "pan=stereo|c0=c0|c1=c0", PanFilter(ChannelLeft))
	assert.Equal(t, "pan=stereo|c0=c1|c1=c1", PanFilter(ChannelRight))
	assert.Equal(t, ChannelRight, ChannelLeft.Other())
}

func TestMeanVolume(t *testing.T) {
	stderr := `[Parsed_volumedetect_1 @ 0x55] n_samples: 88200
[Parsed_volumedetect_1 @ 0x55] mean_volume: -inf dB
[Parsed_volumedetect_1 @ 0x55] max_volume: -inf dB`
	v, ok := MeanVolume(stderr)
	require.True(t, ok)
	assert.Equal(t, "-inf", v)
	assert.True(t, IsSilent(v))

	v, ok = MeanVolume("[Parsed_volumedetect_1 @ 0x1] mean_volume: -91.0 dB\n")
	require.True(t, ok)
	assert.Equal(t, "-91.0", v)
	assert.False(t, IsSilent(v))

	_, ok = MeanVolume("Output #0, null, to 'pipe:':\n")
	assert.False(t, ok)
}

func TestDiagnostics_KeepsTail(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 20; i++ {
		b.WriteString("line\n\n")
	}
	b.WriteString("Unknown encoder 'h264_qsv'\n")
	got := Diagnostics(b.String())
	assert.True(t, strings.HasSuffix(got, "Unknown encoder 'h264_qsv'"))
	assert.Equal(t, diagnosticLines, len(strings.Split(got, "; ")))
}

func TestCheck_WrapsFailure(t *testing.T) {
	cause := errors.New("exit status 1")
	r := &stubRunner{result: Result{Stderr: "No such file or directory\n", Err: cause}}

	_, err := Check(context.Background(), r, []string{"-i", "missing.mp4"})
	require.Error(t, err)

	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "No such file or directory")
}

func TestHasEncoder(t *testing.T) {
	r := &stubRunner{result: Result{Stdout: `Encoders:
 V..... = Video
 ------
 V....D libx264              libx264 H.264 / AVC (codec h264)
 V....D h264_qsv             H.264 / AVC (Intel Quick Sync Video acceleration) (codec h264)
 A....D aac                  AAC (Advanced Audio Coding)
`}}

	ok, err := HasEncoder(context.Background(), r, "h264_qsv")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = HasEncoder(context.Background(), r, "hevc_nvenc")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, EncodersArgs(), r.calls[0])
}

func argAfter(t *testing.T, args []string, flag string) string {
	t.Helper()
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	t.Fatalf("flag %s not found in %v", flag, args)
	return ""
}
