package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/oliverbestmann/ssr/render"
	"github.com/oliverbestmann/ssr/ssr"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

func PrintPlan(ctx *cli.Context) error {
	settings, err := loadSettings(ctx)
	if err != nil {
		return err
	}

	cam := cameraData(ctx.Int("width"), ctx.Int("height"))

	rec, err := recordFrame(settings, cam)
	if err != nil {
		return err
	}

	writePlan(os.Stdout, rec)

	return nil
}

// recordFrame renders one frame with the given settings on a Recorder.
func recordFrame(settings ssr.Settings, cam *render.CameraData) (*render.Recorder, error) {
	renderer := render.NewRenderer(render.RendererOptions{
		Loader: &render.StaticLoader{},
		Pool:   &render.RecorderPool{},
	})

	defer renderer.Release()

	if err := renderer.AddFeature(ssr.NewFeature(settings)); err != nil {
		return nil, err
	}

	rec := render.NewRecorder()
	if err := renderer.RenderCamera(rec, cam); err != nil {
		return nil, fmt.Errorf("render camera: %w", err)
	}

	return rec, nil
}

func cameraData(width, height int) *render.CameraData {
	return &render.CameraData{
		Name: "Main",
		Target: render.TextureDescriptor{
			Width:       uint32(max(1, width)),
			Height:      uint32(max(1, height)),
			Format:      render.ColorFormatARGB32,
			DepthBits:   24,
			SampleCount: 1,
		},
		Available: render.InputColor | render.InputDepth | render.InputNormal,
	}
}

func writePlan(w io.Writer, rec *render.Recorder) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"#", "Command", "Source", "Target", "Details"})

	for idx, op := range rec.Ops {
		var source, target string

		if op.Kind == render.OpBlit || op.Kind == render.OpDraw {
			source = op.Source.String()
		}

		if op.Kind != render.OpBeginSample && op.Kind != render.OpEndSample {
			target = op.Target.String()
		}

		table.Append([]string{strconv.Itoa(idx), op.Kind.String(), source, target, opDetails(op)})
	}

	draws, copies := countFrame(rec)

	table.SetFooter([]string{"", "", "", "DRAWS / COPIES", fmt.Sprintf("%d / %d", draws, copies)})
	table.Render()
}

func opDetails(op render.Op) string {
	switch op.Kind {
	case render.OpGetTemporaryRT:
		d := op.Descriptor
		return fmt.Sprintf("%dx%d %s", d.Width, d.Height, d.Format)

	case render.OpClear:
		return fmt.Sprintf("flags=%d color=%v", op.ClearFlags, op.ClearColor)

	case render.OpDraw:
		details := fmt.Sprintf("%s pass %d keywords=%b", op.Program.Name, op.Pass, op.Keywords)

		if params, ok := op.Uniforms.(ssr.Params); ok && op.Pass == ssr.PassBlur {
			details += fmt.Sprintf(" radius=%d", params.BlurRadius)
		}

		return details

	case render.OpBeginSample, render.OpEndSample:
		return op.Name

	default:
		return ""
	}
}

// countFrame counts the draws of a frame and the copies, meaning every
// command that moves pixels into another target without ray marching or
// blurring them: blits and the composite onto the camera color.
func countFrame(rec *render.Recorder) (draws, copies int) {
	for _, op := range rec.Ops {
		switch op.Kind {
		case render.OpDraw:
			draws += 1

			if op.Target == render.CameraColor {
				copies += 1
			}

		case render.OpBlit:
			copies += 1
		}
	}

	return draws, copies
}
