// Package ffmpeg builds argument vectors for the two ffmpeg invocation shapes
// chanfix needs (per-channel volume analysis and channel-copy repair) and runs
// them as subprocesses, capturing the diagnostic stream for classification.
//
// Files:
//   - builder.go: AnalyzeArgs, RepairArgs, PanFilter.
//   - executor.go: Runner interface and the exec-backed implementation.
//   - volume.go: mean_volume extraction from volumedetect output.
//   - errors.go: ToolError and diagnostic trimming.
package ffmpeg
