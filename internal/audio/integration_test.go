package audio

import (
	"context"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chanfix/internal/ffmpeg"
)

const (
	liveSource   = "sine=frequency=440:sample_rate=44100"
	silentSource = "anullsrc=channel_layout=mono:sample_rate=44100"
)

func requireFFmpeg(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("ffmpeg integration test skipped in -short mode")
	}
	bin, err := exec.LookPath("ffmpeg")
	if err != nil {
		t.Skip("ffmpeg not on PATH")
	}
	return bin
}

// synthesize writes a one second mov with a tiny test pattern and PCM stereo
// audio whose channels are either a sine tone or digital silence.
func synthesize(t *testing.T, bin, dir, name string, leftLive, rightLive bool) string {
	t.Helper()
	src := func(live bool) string {
		if live {
			return liveSource
		}
		return silentSource
	}
	out := filepath.Join(dir, name)
	cmd := exec.Command(bin,
		"-hide_banner", "-nostdin", "-y",
		"-f", "lavfi", "-i", src(leftLive),
		"-f", "lavfi", "-i", src(rightLive),
		"-f", "lavfi", "-i", "testsrc=size=64x64:rate=10",
		"-filter_complex", "[0:a][1:a]amerge=inputs=2[a]",
		"-map", "2:v", "-map", "[a]",
		"-t", "1",
		"-c:v", "mpeg4", "-c:a", "pcm_s16le",
		out,
	)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, string(output))
	return out
}

func TestIntegration_ClassifySynthetic(t *testing.T) {
	bin := requireFFmpeg(t)
	dir := t.TempDir()
	analyzer := NewAnalyzer(ffmpeg.NewExec(bin), nil)

	cases := []struct {
		name        string
		left, right bool
		want        Classification
	}{
		{"left_silent.mov", false, true, LeftSilent},
		{"right_silent.mov", true, false, RightSilent},
		{"mono.mov", false, false, Mono},
		{"stereo.mov", true, true, Stereo},
	}
	for _, tc := range cases {
		path := synthesize(t, bin, dir, tc.name, tc.left, tc.right)
		got, err := analyzer.Classify(context.Background(), path)
		require.NoError(t, err, tc.name)
		assert.Equal(t, tc.want, got, tc.name)
	}
}

func TestIntegration_RepairIsIdempotent(t *testing.T) {
	bin := requireFFmpeg(t)
	dir := t.TempDir()
	runner := ffmpeg.NewExec(bin)
	analyzer := NewAnalyzer(runner, nil)
	// The first strategy names an encoder no build ships, forcing the copy fallback.
	repairer := NewRepairer(runner, RepairOptions{
		Strategies: []Strategy{
			{Name: "hardware", VideoCodec: "chanfix_missing_encoder"},
			{Name: "copy", VideoCodec: ffmpeg.CopyCodec},
		},
	}, nil)

	src := synthesize(t, bin, dir, "clip.mov", false, true)
	c, err := analyzer.Classify(context.Background(), src)
	require.NoError(t, err)
	require.Equal(t, LeftSilent, c)

	out, err := repairer.Repair(context.Background(), src, c)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "clip_fixed.mp4"), out)
	assert.FileExists(t, out)

	again, err := analyzer.Classify(context.Background(), out)
	require.NoError(t, err)
	assert.Equal(t, Stereo, again)

	second, err := repairer.Repair(context.Background(), out, again)
	require.NoError(t, err)
	assert.Empty(t, second)
	assert.NoFileExists(t, OutputPath(out))
}
