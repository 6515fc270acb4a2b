package orion

import (
	"testing"
	"time"
)

func TestFrameTimes(t *testing.T) {
	var times FrameTimes

	start := time.Unix(0, 0)

	for idx := range 120 {
		every60 := times.Tick(start.Add(time.Duration(idx) * 10 * time.Millisecond))

		if every60 != ((idx+1)%60 == 0) {
			t.Errorf("frame %d: unexpected tick result %v", idx, every60)
		}
	}

	if times.FrameCount != 120 {
		t.Errorf("expected 120 frames, got %d", times.FrameCount)
	}

	if times.Delta != 10*time.Millisecond || times.AverageDuration != 10*time.Millisecond {
		t.Errorf("expected 10ms frames, got delta=%s avg=%s", times.Delta, times.AverageDuration)
	}

	if fps := times.FPS(); fps < 99.9 || fps > 100.1 {
		t.Errorf("expected 100 fps, got %f", fps)
	}
}

func TestFrameTimesWithoutFrames(t *testing.T) {
	var times FrameTimes

	if times.FPS() != 0 {
		t.Errorf("expected 0 fps without frames")
	}
}

func TestDebugTimingsAverage(t *testing.T) {
	var d debugTimings

	if _, ok := d.average(); ok {
		t.Fatalf("expected no average without frames")
	}

	d.frames[0] = frame{Total: 10 * time.Millisecond, AppDraw: 4 * time.Millisecond}
	d.frames[1] = frame{Total: 20 * time.Millisecond, AppDraw: 6 * time.Millisecond}

	avg, ok := d.average()
	if !ok || avg.Total != 15*time.Millisecond || avg.AppDraw != 5*time.Millisecond {
		t.Errorf("unexpected average %+v", avg)
	}
}

func TestHandle(t *testing.T) {
	Handle(nil, "nothing to do")

	defer func() {
		if recover() == nil {
			t.Errorf("expected a panic")
		}
	}()

	Handle(errTest, "load %s", "file")
}

var errTest = testError("failed")

type testError string

func (e testError) Error() string { return string(e) }
