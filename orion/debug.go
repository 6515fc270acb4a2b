package orion

import (
	"log/slog"
	"runtime"
	"time"
)

type frame struct {
	Total time.Duration

	GetCurrentTexture time.Duration
	AppUpdate         time.Duration
	AppDraw           time.Duration
}

// DebugTimings records where the time of the last frames was spent.
var DebugTimings debugTimings

type debugTimings struct {
	frameCount int
	frames     [60 * 10]frame

	timeStartFrame             time.Time
	timeStartAppDraw           time.Time
	timeStartAppUpdate         time.Time
	timeStartGetCurrentTexture time.Time
	timeEndFrame               time.Time

	mem runtime.MemStats
}

func (d *debugTimings) StartFrame() {
	now := time.Now()

	if !d.timeStartFrame.IsZero() {
		d.frames[d.frameCount%len(d.frames)] = frame{
			Total:             now.Sub(d.timeStartFrame),
			GetCurrentTexture: d.timeStartAppUpdate.Sub(d.timeStartGetCurrentTexture),
			AppUpdate:         d.timeStartAppDraw.Sub(d.timeStartAppUpdate),
			AppDraw:           d.timeEndFrame.Sub(d.timeStartAppDraw),
		}

		d.frameCount += 1
	}

	d.timeStartFrame = now
}

func (d *debugTimings) StartGetCurrentTexture() {
	d.timeStartGetCurrentTexture = time.Now()
}

func (d *debugTimings) StartAppUpdate() {
	d.timeStartAppUpdate = time.Now()
}

func (d *debugTimings) StartAppDraw() {
	d.timeStartAppDraw = time.Now()
}

func (d *debugTimings) EndFrame() {
	d.timeEndFrame = time.Now()

	if d.frameCount > 0 && d.frameCount%len(d.frames) == 0 {
		d.log()
	}
}

// average returns the mean of all recorded frames.
func (d *debugTimings) average() (avg frame, ok bool) {
	var frameCount int

	for _, frame := range d.frames {
		if frame.Total > 0 {
			frameCount += 1
			avg.Total += frame.Total
			avg.GetCurrentTexture += frame.GetCurrentTexture
			avg.AppUpdate += frame.AppUpdate
			avg.AppDraw += frame.AppDraw
		}
	}

	if frameCount == 0 {
		return frame{}, false
	}

	n := time.Duration(frameCount)

	avg.Total /= n
	avg.GetCurrentTexture /= n
	avg.AppUpdate /= n
	avg.AppDraw /= n

	return avg, true
}

func (d *debugTimings) log() {
	avg, ok := d.average()
	if !ok {
		return
	}

	runtime.ReadMemStats(&d.mem)

	slog.Debug("Frame timings",
		slog.Int("frames", d.frameCount),
		slog.Float64("fps", 1.0/avg.Total.Seconds()),
		slog.Duration("getCurrentTexture", avg.GetCurrentTexture),
		slog.Duration("update", avg.AppUpdate),
		slog.Duration("draw", avg.AppDraw),
		slog.Uint64("heapObjects", d.mem.HeapObjects),
		slog.Uint64("gcCycles", uint64(d.mem.NumGC)),
	)
}
