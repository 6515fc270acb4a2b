package render

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

// tracePass records its callbacks into a shared log.
type tracePass struct {
	PassBase
	name string
	log  *[]string
}

func newTracePass(name string, event PassEvent, log *[]string) *tracePass {
	p := &tracePass{name: name, log: log}
	p.SetEvent(event)
	return p
}

func (p *tracePass) Name() string { return p.name }

func (p *tracePass) Setup(cmd CommandBuffer, cam *CameraData) {
	*p.log = append(*p.log, p.name+".setup")
}

func (p *tracePass) Execute(cmd CommandBuffer, cam *CameraData) {
	*p.log = append(*p.log, p.name+".execute")
}

func (p *tracePass) Cleanup(cmd CommandBuffer) {
	*p.log = append(*p.log, p.name+".cleanup")
}

type passesFeature struct {
	passes  []Pass
	created int
}

func (f *passesFeature) Create(r *Renderer) error {
	f.created += 1
	return nil
}

func (f *passesFeature) AddRenderPasses(r *Renderer, cam *CameraData) {
	for _, pass := range f.passes {
		r.EnqueuePass(pass)
	}
}

func (f *passesFeature) Release() {}

func newTestRenderer() *Renderer {
	return NewRenderer(RendererOptions{Loader: &StaticLoader{}, Pool: &RecorderPool{}})
}

func TestRendererOrdersPassesByEvent(t *testing.T) {
	var log []string

	feature := &passesFeature{
		passes: []Pass{
			newTracePass("post", AfterRendering, &log),
			newTracePass("first", AfterRenderingOpaques, &log),
			newTracePass("opaque", BeforeRenderingOpaques, &log),
			newTracePass("second", AfterRenderingOpaques, &log),
		},
	}

	r := newTestRenderer()
	if err := r.AddFeature(feature); err != nil {
		t.Fatalf("add feature: %s", err)
	}

	if feature.created != 1 {
		t.Errorf("expected feature to be created once, got %d", feature.created)
	}

	cam := &CameraData{Name: "main", Available: InputColor}
	if err := r.RenderCamera(NewRecorder(), cam); err != nil {
		t.Fatalf("render camera: %s", err)
	}

	want := []string{
		"opaque.setup", "opaque.execute",
		"first.setup", "first.execute",
		"second.setup", "second.execute",
		"post.setup", "post.execute",
		"opaque.cleanup", "first.cleanup", "second.cleanup", "post.cleanup",
	}

	if !slices.Equal(log, want) {
		t.Errorf("unexpected order:\n got  %v\n want %v", log, want)
	}

	// a second frame starts with an empty queue
	log = log[:0]
	if err := r.RenderCamera(NewRecorder(), cam); err != nil {
		t.Fatalf("render camera: %s", err)
	}

	if len(log) != len(want) {
		t.Errorf("expected passes to be enqueued once per frame, got %v", log)
	}
}

func TestRendererMissingInput(t *testing.T) {
	var log []string

	pass := newTracePass("reads-normals", AfterRenderingOpaques, &log)
	pass.ConfigureInput(InputColor | InputNormal)

	r := newTestRenderer()
	if err := r.AddFeature(&passesFeature{passes: []Pass{pass}}); err != nil {
		t.Fatalf("add feature: %s", err)
	}

	err := r.RenderCamera(NewRecorder(), &CameraData{Available: InputColor | InputDepth})
	if !errors.Is(err, ErrMissingInput) {
		t.Fatalf("expected ErrMissingInput, got %v", err)
	}

	if !strings.Contains(err.Error(), CameraNormals.String()) {
		t.Errorf("expected error to name the missing buffer, got %q", err)
	}

	if len(log) != 0 {
		t.Errorf("expected no pass to run, got %v", log)
	}
}

func TestRendererClearsConfiguredTarget(t *testing.T) {
	var log []string

	target := NewTargetID("test_clear_target")

	pass := newTracePass("clearing", AfterRenderingOpaques, &log)
	pass.ConfigureTarget(target)
	pass.ConfigureClear(ClearColor, ColorBlack)

	r := newTestRenderer()
	if err := r.AddFeature(&passesFeature{passes: []Pass{pass}}); err != nil {
		t.Fatalf("add feature: %s", err)
	}

	rec := NewRecorder()
	if err := r.RenderCamera(rec, &CameraData{}); err != nil {
		t.Fatalf("render camera: %s", err)
	}

	clears := rec.Filter(OpClear)
	if len(clears) != 1 || clears[0].Target != target || clears[0].ClearFlags != ClearColor {
		t.Errorf("expected one color clear of %s, got %+v", target, clears)
	}
}

func TestTargetIDs(t *testing.T) {
	a := NewTargetID("test_a")
	b := NewTargetID("test_b")

	if a == b {
		t.Fatalf("expected different ids for different names")
	}

	if NewTargetID("test_a") != a {
		t.Errorf("expected the same id for the same name")
	}

	if a.String() != "test_a" {
		t.Errorf("expected name test_a, got %q", a.String())
	}

	if CameraColor == CameraDepth || CameraDepth == CameraNormals {
		t.Errorf("expected distinct camera targets")
	}
}

func TestDownsampled(t *testing.T) {
	desc := TextureDescriptor{Width: 1920, Height: 1080, Format: ColorFormatARGB32}

	if got := desc.Downsampled(0); got != desc {
		t.Errorf("expected no change for 0, got %+v", got)
	}

	if got := desc.Downsampled(2); got.Width != 480 || got.Height != 270 || got.Format != desc.Format {
		t.Errorf("expected 480x270, got %+v", got)
	}

	if got := desc.Downsampled(-1); got != desc {
		t.Errorf("expected no change for negative values, got %+v", got)
	}
}

func TestProgramSpecialize(t *testing.T) {
	program := &Program{ProgramSource: ProgramSource{
		Name:     "test",
		Code:     "// body\n",
		Passes:   []PassSource{{Entry: "fs_main"}},
		Keywords: []string{"FEATURE_A", "FEATURE_B"},
	}}

	src := program.Specialize(Keywords(0).With(2, true))

	want := "const FEATURE_A: bool = false;\nconst FEATURE_B: bool = true;\n// body\n"
	if src != want {
		t.Errorf("unexpected source:\n%s", src)
	}
}

func TestProfilingScope(t *testing.T) {
	rec := NewRecorder()

	ProfilingScope(rec, "scope", func() {
		rec.Blit(CameraColor, CameraColor)
	})

	kinds := []OpKind{OpBeginSample, OpBlit, OpEndSample}
	if len(rec.Ops) != len(kinds) {
		t.Fatalf("expected %d ops, got %+v", len(kinds), rec.Ops)
	}

	for idx, op := range rec.Ops {
		if op.Kind != kinds[idx] {
			t.Errorf("op %d: expected %s, got %s", idx, kinds[idx], op.Kind)
		}
	}
}

func TestStaticLoader(t *testing.T) {
	loader := &StaticLoader{}

	if _, err := loader.LoadProgram(&ProgramSource{Name: "empty"}); err == nil {
		t.Errorf("expected an error for a program without passes")
	}

	program, err := loader.LoadProgram(&ProgramSource{Name: "one", Passes: []PassSource{{Entry: "fs"}}})
	if err != nil {
		t.Fatalf("load program: %s", err)
	}

	if program.PassCount() != 1 || loader.Loads != 1 {
		t.Errorf("expected one pass and one load, got %d and %d", program.PassCount(), loader.Loads)
	}
}

func TestOpKindString(t *testing.T) {
	if OpGetTemporaryRT.String() != "GetTemporaryRT" || OpEndSample.String() != "EndSample" {
		t.Errorf("unexpected names %q and %q", OpGetTemporaryRT, OpEndSample)
	}

	if OpKind(42).String() != "OpKind(42)" {
		t.Errorf("unexpected name for unknown kind: %q", OpKind(42))
	}
}
