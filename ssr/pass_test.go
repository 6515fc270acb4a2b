package ssr

import (
	"errors"
	"testing"

	"github.com/oliverbestmann/ssr/render"
)

func testCamera(width, height uint32) *render.CameraData {
	return &render.CameraData{
		Name: "main",
		Target: render.TextureDescriptor{
			Width:       width,
			Height:      height,
			Format:      render.ColorFormatARGBHalf,
			DepthBits:   24,
			SampleCount: 1,
		},
		Available: render.InputColor | render.InputDepth | render.InputNormal,
	}
}

type testRig struct {
	renderer *render.Renderer
	loader   *render.StaticLoader
	pool     *render.RecorderPool
	feature  *Feature
}

func newTestRig(t *testing.T, settings Settings) *testRig {
	t.Helper()

	loader := &render.StaticLoader{}
	pool := &render.RecorderPool{}

	r := render.NewRenderer(render.RendererOptions{Loader: loader, Pool: pool})

	feature := NewFeature(settings)
	if err := r.AddFeature(feature); err != nil {
		t.Fatalf("add feature: %s", err)
	}

	t.Cleanup(r.Release)

	return &testRig{renderer: r, loader: loader, pool: pool, feature: feature}
}

func (rig *testRig) renderFrame(t *testing.T, cam *render.CameraData) *render.Recorder {
	t.Helper()

	rec := render.NewRecorder()
	if err := rig.renderer.RenderCamera(rec, cam); err != nil {
		t.Fatalf("render camera: %s", err)
	}

	return rec
}

// copies counts blits plus draws that write back into the camera color.
func copies(rec *render.Recorder) int {
	var count int

	for _, op := range rec.Ops {
		switch {
		case op.Kind == render.OpBlit:
			count += 1
		case op.Kind == render.OpDraw && op.Target == render.CameraColor:
			count += 1
		}
	}

	return count
}

func drawsOfPass(rec *render.Recorder, pass int) []render.Op {
	var ops []render.Op
	for _, op := range rec.Filter(render.OpDraw) {
		if op.Pass == pass {
			ops = append(ops, op)
		}
	}

	return ops
}

func TestDefaultFrame(t *testing.T) {
	rig := newTestRig(t, DefaultSettings())
	rec := rig.renderFrame(t, testCamera(1920, 1080))

	wantDesc := render.TextureDescriptor{
		Width:       1920,
		Height:      1080,
		Format:      render.ColorFormatARGB32,
		SampleCount: 1,
	}

	type step struct {
		kind   render.OpKind
		source render.TargetID
		target render.TargetID
		pass   int
		radius int32
	}

	want := []step{
		{kind: render.OpGetTemporaryRT, target: scratchA},
		{kind: render.OpGetTemporaryRT, target: scratchB},
		{kind: render.OpClear, target: scratchA},
		{kind: render.OpBeginSample},
		{kind: render.OpBlit, source: render.CameraColor, target: scratchB},
		{kind: render.OpDraw, source: scratchB, target: scratchA, pass: PassRayMarch},
	}

	for _, radius := range []int32{0, 1, 2, 2, 3} {
		want = append(want,
			step{kind: render.OpDraw, source: scratchA, target: scratchB, pass: PassBlur, radius: radius},
			step{kind: render.OpBlit, source: scratchB, target: scratchA},
		)
	}

	want = append(want,
		step{kind: render.OpDraw, source: scratchA, target: render.CameraColor, pass: PassComposite},
		step{kind: render.OpEndSample},
		step{kind: render.OpReleaseTemporaryRT, target: scratchA},
		step{kind: render.OpReleaseTemporaryRT, target: scratchB},
	)

	if len(rec.Ops) != len(want) {
		t.Fatalf("expected %d ops, got %d: %+v", len(want), len(rec.Ops), rec.Ops)
	}

	for idx, op := range rec.Ops {
		w := want[idx]

		if op.Kind != w.kind || op.Source != w.source || op.Target != w.target {
			t.Errorf("op %d: expected %s %s -> %s, got %s %s -> %s",
				idx, w.kind, w.source, w.target, op.Kind, op.Source, op.Target)
			continue
		}

		switch op.Kind {
		case render.OpGetTemporaryRT:
			if op.Descriptor != wantDesc {
				t.Errorf("op %d: expected descriptor %+v, got %+v", idx, wantDesc, op.Descriptor)
			}

			if op.Filter != render.FilterBilinear {
				t.Errorf("op %d: expected bilinear filtering", idx)
			}

		case render.OpClear:
			if op.ClearFlags != render.ClearAll || op.ClearColor != render.ColorBlack {
				t.Errorf("op %d: expected clear to black, got %v %v", idx, op.ClearFlags, op.ClearColor)
			}

		case render.OpDraw:
			if op.Pass != w.pass {
				t.Errorf("op %d: expected pass %d, got %d", idx, w.pass, op.Pass)
			}

			params := op.Uniforms.(Params)
			if params.BlurRadius != w.radius {
				t.Errorf("op %d: expected blur radius %d, got %d", idx, w.radius, params.BlurRadius)
			}

		case render.OpBeginSample, render.OpEndSample:
			if op.Name != passName {
				t.Errorf("op %d: expected sample %q, got %q", idx, passName, op.Name)
			}
		}
	}

	if draws := rec.Count(render.OpDraw); draws != 7 {
		t.Errorf("expected 7 shader draws, got %d", draws)
	}

	if n := copies(rec); n != 7 {
		t.Errorf("expected 7 copies, got %d", n)
	}

	if live := rec.Live(); len(live) != 0 {
		t.Errorf("expected all scratch buffers to be released, still live: %v", live)
	}
}

func TestEmptyBlurRadii(t *testing.T) {
	for _, radii := range [][]int{nil, {}} {
		settings := DefaultSettings()
		settings.BlurRadii = radii

		rig := newTestRig(t, settings)
		rec := rig.renderFrame(t, testCamera(800, 600))

		if n := len(drawsOfPass(rec, PassBlur)); n != 0 {
			t.Errorf("expected no blur draws, got %d", n)
		}

		if n := rec.Count(render.OpDraw); n != 2 {
			t.Errorf("expected 2 shader draws, got %d", n)
		}

		if n := copies(rec); n != 2 {
			t.Errorf("expected 2 copies, got %d", n)
		}

		draws := rec.Filter(render.OpDraw)
		if draws[0].Pass != PassRayMarch || draws[1].Pass != PassComposite {
			t.Errorf("expected ray march followed by composite, got passes %d, %d", draws[0].Pass, draws[1].Pass)
		}

		if draws[1].Source != scratchA {
			t.Errorf("expected composite to read the unblurred ray march result")
		}
	}
}

func TestBlurOrder(t *testing.T) {
	settings := DefaultSettings()
	settings.BlurRadii = []int{3, 0, 5, 1}

	rig := newTestRig(t, settings)
	rec := rig.renderFrame(t, testCamera(640, 480))

	blurs := drawsOfPass(rec, PassBlur)
	if len(blurs) != len(settings.BlurRadii) {
		t.Fatalf("expected %d blur draws, got %d", len(settings.BlurRadii), len(blurs))
	}

	for idx, op := range blurs {
		if got := op.Uniforms.(Params).BlurRadius; int(got) != settings.BlurRadii[idx] {
			t.Errorf("blur %d: expected radius %d, got %d", idx, settings.BlurRadii[idx], got)
		}
	}

	// every blur is followed by a copy back into A
	for idx, op := range rec.Ops {
		if op.Kind != render.OpDraw || op.Pass != PassBlur {
			continue
		}

		next := rec.Ops[idx+1]
		if next.Kind != render.OpBlit || next.Source != scratchB || next.Target != scratchA {
			t.Errorf("op %d: expected blit B -> A after blur, got %+v", idx, next)
		}
	}
}

func TestScratchBufferSize(t *testing.T) {
	cases := []struct {
		width, height uint32
		downsamples   int
		wantW, wantH  uint32
	}{
		{1920, 1080, 0, 1920, 1080},
		{1920, 1080, 1, 960, 540},
		{1920, 1080, 2, 480, 270},
		{1921, 1081, 1, 960, 540},
		{1280, 720, 3, 160, 90},
		{3, 3, 4, 0, 0},
	}

	for _, tc := range cases {
		settings := DefaultSettings()
		settings.Downsamples = tc.downsamples

		pass := NewPass(settings, &render.StaticLoader{}, &render.RecorderPool{})

		rec := render.NewRecorder()
		pass.Setup(rec, testCamera(tc.width, tc.height))

		for _, op := range rec.Filter(render.OpGetTemporaryRT) {
			if op.Descriptor.Width != tc.wantW || op.Descriptor.Height != tc.wantH {
				t.Errorf("%dx%d >> %d: expected %dx%d, got %dx%d",
					tc.width, tc.height, tc.downsamples,
					tc.wantW, tc.wantH,
					op.Descriptor.Width, op.Descriptor.Height)
			}

			if op.Descriptor.DepthBits != 0 {
				t.Errorf("expected no depth buffer, got %d bits", op.Descriptor.DepthBits)
			}
		}
	}
}

func TestLowerTextureTo16Bit(t *testing.T) {
	settings := DefaultSettings()
	settings.LowerTextureTo16Bit = true

	pass := NewPass(settings, &render.StaticLoader{}, &render.RecorderPool{})

	rec := render.NewRecorder()
	pass.Setup(rec, testCamera(100, 100))

	for _, op := range rec.Filter(render.OpGetTemporaryRT) {
		if op.Descriptor.Format != render.ColorFormatARGB4444 {
			t.Errorf("expected format ARGB4444, got %s", op.Descriptor.Format)
		}
	}
}

func TestSetupCreatesProgramOnce(t *testing.T) {
	loader := &render.StaticLoader{}
	pass := NewPass(DefaultSettings(), loader, &render.RecorderPool{})

	for range 3 {
		rec := render.NewRecorder()
		pass.Setup(rec, testCamera(64, 64))
		pass.Execute(rec, testCamera(64, 64))
		pass.Cleanup(rec)
	}

	if loader.Loads != 1 {
		t.Errorf("expected program to be loaded once, got %d loads", loader.Loads)
	}

	// after a release, the program is created again
	pass.Release()
	pass.Setup(render.NewRecorder(), testCamera(64, 64))

	if loader.Loads != 2 {
		t.Errorf("expected a second load after release, got %d loads", loader.Loads)
	}
}

func TestFeatureCreatesProgramUpfront(t *testing.T) {
	rig := newTestRig(t, DefaultSettings())

	if rig.loader.Loads != 1 {
		t.Fatalf("expected program to be loaded when the feature is created, got %d loads", rig.loader.Loads)
	}

	rig.renderFrame(t, testCamera(64, 64))
	rig.renderFrame(t, testCamera(128, 64))

	if rig.loader.Loads != 1 {
		t.Errorf("expected no further loads while rendering, got %d loads", rig.loader.Loads)
	}
}

func TestCleanupWithoutCommandBuffer(t *testing.T) {
	pool := &render.RecorderPool{}
	pass := NewPass(DefaultSettings(), &render.StaticLoader{}, pool)

	rec := render.NewRecorder()
	pass.Setup(rec, testCamera(320, 200))
	pass.Execute(rec, testCamera(320, 200))
	pass.Cleanup(nil)

	if len(pool.Submitted) != 1 {
		t.Fatalf("expected cleanup to submit one pooled command buffer, got %d", len(pool.Submitted))
	}

	released := pool.Submitted[0].Ops
	if len(released) != 2 {
		t.Fatalf("expected two releases, got %+v", released)
	}

	if released[0].Target != scratchA || released[1].Target != scratchB {
		t.Errorf("expected release of A and B, got %s and %s", released[0].Target, released[1].Target)
	}

	// a second cleanup has nothing left to release
	pass.Cleanup(nil)

	if len(pool.Submitted) != 1 {
		t.Errorf("expected no further command buffers, got %d", len(pool.Submitted))
	}
}

func TestCleanupWithCommandBuffer(t *testing.T) {
	pool := &render.RecorderPool{}
	pass := NewPass(DefaultSettings(), &render.StaticLoader{}, pool)

	rec := render.NewRecorder()
	pass.Setup(rec, testCamera(320, 200))
	pass.Cleanup(rec)

	if len(pool.Submitted) != 0 {
		t.Errorf("expected no pooled command buffer, got %d", len(pool.Submitted))
	}

	if n := rec.Count(render.OpReleaseTemporaryRT); n != 2 {
		t.Errorf("expected 2 releases, got %d", n)
	}

	if len(rec.Live()) != 0 {
		t.Errorf("expected no live scratch buffers, got %v", rec.Live())
	}
}

func TestKeywords(t *testing.T) {
	cases := []struct {
		mode          RenderingMode
		reflectSkybox bool
		wantDeferred  bool
	}{
		{Deferred, true, true},
		{Deferred, false, true},
		{Forward, true, false},
		{RenderingMode(7), false, false},
	}

	for _, tc := range cases {
		settings := DefaultSettings()
		settings.RenderingMode = tc.mode
		settings.ReflectSkybox = tc.reflectSkybox

		rig := newTestRig(t, settings)
		rec := rig.renderFrame(t, testCamera(64, 64))

		for _, op := range rec.Filter(render.OpDraw) {
			if got := op.Keywords.Has(DeferredGBuffersAvailable); got != tc.wantDeferred {
				t.Errorf("mode %s: expected deferred keyword %t, got %t", tc.mode, tc.wantDeferred, got)
			}

			if got := op.Keywords.Has(ReflectSkybox); got != tc.reflectSkybox {
				t.Errorf("mode %s: expected skybox keyword %t, got %t", tc.mode, tc.reflectSkybox, got)
			}
		}
	}
}

func TestParamsFromSettings(t *testing.T) {
	settings := DefaultSettings()
	settings.Downsamples = 1

	rig := newTestRig(t, settings)
	rec := rig.renderFrame(t, testCamera(200, 100))

	params := drawsOfPass(rec, PassRayMarch)[0].Uniforms.(Params)

	if params.RayStep != 0.1 || params.RayMaxSteps != 16 || params.RayMaxDistance != 100 {
		t.Errorf("unexpected ray parameters: %+v", params)
	}

	if params.BinaryHitSearchSteps != 8 || params.HitDepthDifferenceThreshold != 0.08 {
		t.Errorf("unexpected hit parameters: %+v", params)
	}

	if params.ReflectionIntensity != 0.95 || params.FresnelBias != 0.1 {
		t.Errorf("unexpected shading parameters: %+v", params)
	}

	if params.VignetteRadius != 0.15 || params.VignetteSoftness != 0.35 {
		t.Errorf("unexpected vignette parameters: %+v", params)
	}

	if params.TexelSize[0] != 1.0/100 || params.TexelSize[1] != 1.0/50 {
		t.Errorf("expected texel size of a 100x50 buffer, got %v", params.TexelSize)
	}

	if n := len(params.UniformBytes()); n%16 != 0 {
		t.Errorf("expected uniform block size to be a multiple of 16, got %d", n)
	}
}

func TestInactiveFeature(t *testing.T) {
	rig := newTestRig(t, DefaultSettings())
	rig.feature.SetActive(false)

	rec := rig.renderFrame(t, testCamera(64, 64))
	if len(rec.Ops) != 0 {
		t.Errorf("expected no commands for an inactive feature, got %+v", rec.Ops)
	}
}

type failingLoader struct{}

func (failingLoader) LoadProgram(*render.ProgramSource) (*render.Program, error) {
	return nil, errors.New("shader not found")
}

func TestMissingProgramSkipsEffect(t *testing.T) {
	pass := NewPass(DefaultSettings(), failingLoader{}, &render.RecorderPool{})

	if err := pass.CreateProgram(); err == nil {
		t.Fatal("expected an error for a missing program")
	}

	rec := render.NewRecorder()
	pass.Setup(rec, testCamera(64, 64))
	pass.Execute(rec, testCamera(64, 64))
	pass.Cleanup(rec)

	if n := rec.Count(render.OpDraw) + rec.Count(render.OpBlit); n != 0 {
		t.Errorf("expected no draws without a program, got %d", n)
	}

	if len(rec.Live()) != 0 {
		t.Errorf("expected scratch buffers to be released, got %v", rec.Live())
	}
}

func TestFeatureFailsWithoutProgram(t *testing.T) {
	r := render.NewRenderer(render.RendererOptions{Loader: failingLoader{}, Pool: &render.RecorderPool{}})

	if err := r.AddFeature(NewFeature(DefaultSettings())); err == nil {
		t.Error("expected adding the feature to fail")
	}
}
