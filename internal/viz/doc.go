// Package viz renders wave fields for people.
//
// Values are mapped onto a [Palette] through a [Range]. The classic palette
// blends red at the low end into blue at the high end. Three outputs share
// that mapping:
//
//   - [Heatmap]: true-color terminal cells, two samples per character
//   - [Model]: Bubble Tea live view that ticks a simulator every frame
//   - [Image], [SavePNG] and [Recorder]: PNG snapshots and animated GIFs
//
// # Key Bindings
//
//	Space - Pause/Resume
//	N     - Single tick while paused
//	R     - Reseed and restart
//	P     - Cycle palettes
//	+/-   - Double/halve steps per frame
//	G     - Toggle GIF recording
//	?     - Show help overlay
package viz
