package audio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chanfix/internal/ffmpeg"
)

const (
	silentStats = "[Parsed_volumedetect_1 @ 0x1] n_samples: 44100\n[Parsed_volumedetect_1 @ 0x1] mean_volume: -inf dB\n"
	liveStats   = "[Parsed_volumedetect_1 @ 0x1] n_samples: 44100\n[Parsed_volumedetect_1 @ 0x1] mean_volume: -21.3 dB\n"
)

// fakeRunner answers analysis runs from per-channel canned stderr and repair
// runs by failing listed video codecs or writing the output file.
type fakeRunner struct {
	mu          sync.Mutex
	left, right string
	failChannel ffmpeg.Channel
	failCodecs  map[string]bool
	calls       [][]string
}

func (f *fakeRunner) Run(_ context.Context, args []string) ffmpeg.Result {
	f.mu.Lock()
	f.calls = append(f.calls, args)
	f.mu.Unlock()

	if graph := flagValue(args, "-filter_complex"); graph != "" {
		ch := ffmpeg.ChannelRight
		if strings.Contains(graph, "[L]volumedetect") {
			ch = ffmpeg.ChannelLeft
		}
		if ch == f.failChannel {
			return ffmpeg.Result{Stderr: "Stream map '0:a:0' matches no streams.\n", Err: errors.New("exit status 1")}
		}
		if ch == ffmpeg.ChannelLeft {
			return ffmpeg.Result{Stderr: f.left}
		}
		return ffmpeg.Result{Stderr: f.right}
	}

	codec := flagValue(args, "-c:v")
	if f.failCodecs[codec] {
		out := args[len(args)-1]
		_ = os.WriteFile(out, []byte("partial"), 0o644)
		return ffmpeg.Result{Stderr: "Unknown encoder '" + codec + "'\n", Err: errors.New("exit status 8")}
	}
	if err := os.WriteFile(args[len(args)-1], []byte("repaired"), 0o644); err != nil {
		return ffmpeg.Result{Err: err}
	}
	return ffmpeg.Result{}
}

func flagValue(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

func TestDecide(t *testing.T) {
	assert.Equal(t, LeftSilent, Decide(true, false))
	assert.Equal(t, RightSilent, Decide(false, true))
	assert.Equal(t, Mono, Decide(true, true))
	assert.Equal(t, Stereo, Decide(false, false))
}

func TestClassify_FourWay(t *testing.T) {
	cases := []struct {
		name        string
		left, right string
		want        Classification
	}{
		{"silent left live right", silentStats, liveStats, LeftSilent},
		{"live left silent right", liveStats, silentStats, RightSilent},
		{"both silent", silentStats, silentStats, Mono},
		{"both live", liveStats, liveStats, Stereo},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := &fakeRunner{left: tc.left, right: tc.right}
			got, err := NewAnalyzer(r, nil).Classify(context.Background(), "/media/a.mp4")
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Len(t, r.calls, 2)
		})
	}
}

func TestClassify_QuietIsNotSilent(t *testing.T) {
	quiet := "[Parsed_volumedetect_1 @ 0x1] mean_volume: -91.0 dB\n"
	r := &fakeRunner{left: quiet, right: liveStats}
	got, err := NewAnalyzer(r, nil).Classify(context.Background(), "a.mp4")
	require.NoError(t, err)
	assert.Equal(t, Stereo, got)
}

func TestClassify_ToolFailure(t *testing.T) {
	r := &fakeRunner{left: liveStats, right: liveStats, failChannel: ffmpeg.ChannelRight}
	_, err := NewAnalyzer(r, nil).Classify(context.Background(), "/media/broken.mkv")
	require.Error(t, err)

	var aerr *AnalysisError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, ffmpeg.ChannelRight, aerr.Channel)
	assert.Contains(t, err.Error(), "matches no streams")
	assert.Contains(t, err.Error(), "broken.mkv")
}

func TestClassify_MissingStats(t *testing.T) {
	r := &fakeRunner{left: "Output #0, null\n", right: liveStats}
	_, err := NewAnalyzer(r, nil).Classify(context.Background(), "a.mp4")
	assert.ErrorIs(t, err, ErrNoVolumeStats)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("dir", "clip_fixed.mp4"), OutputPath(filepath.Join("dir", "clip.MKV")))
	assert.Equal(t, filepath.Join("dir", "a.b_fixed.mp4"), OutputPath(filepath.Join("dir", "a.b.avi")))
}

func TestRepair_NoopForStereoAndMono(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.mp4")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))

	r := &fakeRunner{}
	rep := NewRepairer(r, RepairOptions{}, nil)
	for _, c := range []Classification{Stereo, Mono} {
		out, err := rep.Repair(context.Background(), src, c)
		require.NoError(t, err)
		assert.Empty(t, out)
	}
	assert.Empty(t, r.calls)
	assert.NoFileExists(t, OutputPath(src))
}

func TestRepair_FilterPerClassification(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.mov")

	r := &fakeRunner{}
	rep := NewRepairer(r, RepairOptions{HardwareCodec: "h264_qsv"}, nil)

	out, err := rep.Repair(context.Background(), src, LeftSilent)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a_fixed.mp4"), out)
	assert.FileExists(t, out)
	assert.Equal(t, "pan=stereo|c0=c1|c1=c1", flagValue(r.calls[0], "-af"))
	assert.Equal(t, "h264_qsv", flagValue(r.calls[0], "-c:v"))
	assert.Equal(t, "aac", flagValue(r.calls[0], "-c:a"))

	_, err = rep.Repair(context.Background(), src, RightSilent)
	require.NoError(t, err)
	assert.Equal(t, "pan=stereo|c0=c0|c1=c0", flagValue(r.calls[1], "-af"))
	assert.NoFileExists(t, out+partialSuffix)
}

func TestRepair_LockedOutput(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.mov")
	out := OutputPath(src)

	held := flock.New(out + lockSuffix)
	locked, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, locked)

	rep := NewRepairer(&fakeRunner{}, RepairOptions{}, nil)
	_, err = rep.Repair(context.Background(), src, LeftSilent)
	require.ErrorIs(t, err, ErrOutputBusy)
	assert.NoFileExists(t, out)

	require.NoError(t, held.Unlock())

	// The lock file is kept between runs and stays usable.
	got, err := rep.Repair(context.Background(), src, LeftSilent)
	require.NoError(t, err)
	assert.Equal(t, out, got)
	assert.FileExists(t, out+lockSuffix)

	_, err = rep.Repair(context.Background(), src, LeftSilent)
	require.NoError(t, err)
}

func TestRepair_FallsBackToVideoCopy(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.mkv")

	r := &fakeRunner{failCodecs: map[string]bool{"h264_qsv": true}}
	out, err := NewRepairer(r, RepairOptions{}, nil).Repair(context.Background(), src, RightSilent)
	require.NoError(t, err)
	assert.FileExists(t, out)
	require.Len(t, r.calls, 2)
	assert.Equal(t, "h264_qsv", flagValue(r.calls[0], "-c:v"))
	assert.Equal(t, ffmpeg.CopyCodec, flagValue(r.calls[1], "-c:v"))
	assert.Equal(t, flagValue(r.calls[0], "-af"), flagValue(r.calls[1], "-af"))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "repaired", string(data))
}

func TestRepair_AllStrategiesFail(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.mkv")

	r := &fakeRunner{failCodecs: map[string]bool{"h264_qsv": true, ffmpeg.CopyCodec: true}}
	out, err := NewRepairer(r, RepairOptions{}, nil).Repair(context.Background(), src, LeftSilent)
	require.Error(t, err)
	assert.Empty(t, out)

	var rerr *RepairError
	require.ErrorAs(t, err, &rerr)
	assert.Len(t, rerr.Attempts, 2)
	assert.Contains(t, err.Error(), "Unknown encoder 'copy'")
	assert.NoFileExists(t, OutputPath(src))
	assert.NoFileExists(t, OutputPath(src)+partialSuffix)
}

func TestParse(t *testing.T) {
	c, err := Parse("Left_Silent")
	require.NoError(t, err)
	assert.Equal(t, LeftSilent, c)

	_, err = Parse("surround")
	assert.Error(t, err)

	list, err := ParseList([]string{"mono", "stereo", "mono"})
	require.NoError(t, err)
	assert.Equal(t, []Classification{Mono, Stereo}, list)
	assert.True(t, LeftSilent.Actionable())
	assert.False(t, Mono.Actionable())
	assert.False(t, Classification(0).Valid())
}
