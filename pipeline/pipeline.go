package pipeline

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"github.com/visionkit/go-annotate/detections"
	"github.com/visionkit/go-annotate/images"
	"github.com/visionkit/go-annotate/labels"
	"github.com/visionkit/go-annotate/render"
)

// Pipeline annotates images with detection results: filter by
// confidence, truncate to the configured cap, rescale each box into the
// image's coordinate space, resolve its label, and draw it. It holds no
// mutable state across invocations; the label map is read-only and safe
// to share.
type Pipeline struct {
	cfg      Config
	labelMap *labels.Map
	renderer *render.Renderer
	log      *zap.Logger
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithLogger attaches a structured logger. The default is a no-op
// logger.
func WithLogger(log *zap.Logger) Option {
	return func(p *Pipeline) { p.log = log }
}

// WithColorStrategy overrides the box color selection.
func WithColorStrategy(s render.ColorStrategy) Option {
	return func(p *Pipeline) { p.renderer = render.New(s) }
}

// New builds a Pipeline from a validated config and a label map whose
// index offset matches the detection source's convention.
//
// Arguments:
//   - cfg: Annotation settings; validated (and defaulted) here.
//   - labelMap: Class index to name lookup.
//   - opts: Optional overrides.
//
// Returns:
//   - *Pipeline: The ready pipeline.
//   - error: An error if the config is invalid or the label map is nil.
func New(cfg Config, labelMap *labels.Map, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if labelMap == nil {
		return nil, fmt.Errorf("label map is required")
	}

	p := &Pipeline{
		cfg:      cfg,
		labelMap: labelMap,
		renderer: render.New(render.ClassHash{}),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Annotate draws every retained detection of an already-decoded batch
// onto the image: Filter → Truncate → per detection Scale → label lookup
// → Draw.
//
// The batch's boxes must be in the model input coordinate space the
// pipeline was configured with; Annotate rescales them into the image's
// space. Boxes that land outside the image are rejected with a
// descriptive error instead of being drawn at the wrong place.
//
// Arguments:
//   - img: The image to annotate, same buffer the detections were
//     computed for. Mutated in place unless CopyImage is set.
//   - batch: Decoded detections in descending score order.
//
// Returns:
//   - *gocv.Mat: The annotated image (the input Mat, or a clone the
//     caller must close when CopyImage is set).
//   - error: A terminal error for this invocation; rendering is
//     deterministic, so the caller may re-invoke after fixing the input.
func (p *Pipeline) Annotate(img *gocv.Mat, batch detections.Batch) (annotated *gocv.Mat, err error) {
	start := time.Now()

	if img == nil || img.Empty() {
		return nil, fmt.Errorf("empty image buffer")
	}
	realW, realH := img.Cols(), img.Rows()

	scale, err := images.NewScale(realW, realH, p.cfg.Input.Width, p.cfg.Input.Height)
	if err != nil {
		return nil, err
	}

	threshold := *p.cfg.Threshold
	kept := detections.Filter(batch, threshold).Truncate(p.cfg.MaxDetections)

	target := img
	if p.cfg.CopyImage {
		clone := img.Clone()
		target = &clone
		// The clone wraps native OpenCV memory the GC never reclaims;
		// release it when annotation fails partway through.
		defer func() {
			if err != nil {
				clone.Close()
			}
		}()
	}

	for i, d := range kept {
		rect, err := scale.Apply(d.Box[:])
		if err != nil {
			return nil, fmt.Errorf("detection %d: %w", i, err)
		}
		if rect.X1 < 0 || rect.Y1 < 0 || rect.X2 > realW || rect.Y2 > realH || rect.X1 > rect.X2 || rect.Y1 > rect.Y2 {
			return nil, fmt.Errorf("detection %d: box %+v outside %dx%d image", i, rect, realW, realH)
		}

		name, err := p.labelMap.Lookup(d.Class)
		if err != nil {
			return nil, fmt.Errorf("detection %d: %w", i, err)
		}

		label := fmt.Sprintf("%s %.2f", name, d.Score)
		if _, err := p.renderer.Draw(target, rect, label, d.Class); err != nil {
			return nil, fmt.Errorf("detection %d: %w", i, err)
		}
	}

	p.log.Debug("annotated image",
		zap.Int("detections", len(batch)),
		zap.Int("rendered", len(kept)),
		zap.Float32("threshold", threshold),
		zap.Duration("elapsed", time.Since(start)),
	)

	return target, nil
}

// AnnotateOutput decodes a raw engine output with the pipeline's
// configured layout and input shape, then annotates.
func (p *Pipeline) AnnotateOutput(img *gocv.Mat, raw detections.RawOutput) (*gocv.Mat, error) {
	batch, err := detections.Decode(raw, p.cfg.Layout, p.cfg.Input.Width, p.cfg.Input.Height)
	if err != nil {
		return nil, err
	}
	return p.Annotate(img, batch)
}
