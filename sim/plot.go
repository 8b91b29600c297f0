package sim

import (
	"fmt"
	"image/color"

	mcl "github.com/milosgajdos/go-mcl"
	"github.com/milosgajdos/go-mcl/particle"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// NewParticlePlot creates new plot of the localization from the following data sources:
// truth:     ground truth agent trajectory
// estimates: filter pose estimates
// particles: filter particles
// m:         landmark map
// It returns error if the plot fails to be created. This can be due to either of the following conditions:
// * truth is empty
// * m is nil
// * gonum plot fails to be created
func NewParticlePlot(truth, estimates []mcl.Pose, particles []particle.Particle, m *mcl.Map) (*plot.Plot, error) {
	if len(truth) == 0 || m == nil {
		return nil, fmt.Errorf("invalid data supplied")
	}

	p := plot.New()

	p.Title.Text = "Localization"
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"

	legend := plot.NewLegend()
	legend.Top = true
	p.Legend = legend

	landmarks := make(plotter.XYs, len(m.Landmarks))
	for i, l := range m.Landmarks {
		landmarks[i].X, landmarks[i].Y = l.X, l.Y
	}
	style := draw.GlyphStyle{
		Color:  color.RGBA{B: 255, A: 255},
		Shape:  draw.BoxGlyph{},
		Radius: vg.Points(4),
	}
	if err := addScatter(p, "landmarks", landmarks, style); err != nil {
		return nil, err
	}

	pts := make(plotter.XYs, len(particles))
	for i := range particles {
		pts[i].X, pts[i].Y = particles[i].X, particles[i].Y
	}
	style = draw.GlyphStyle{
		Color:  color.RGBA{R: 169, G: 169, B: 169, A: 255},
		Shape:  draw.CrossGlyph{},
		Radius: vg.Points(2),
	}
	if err := addScatter(p, "particles", pts, style); err != nil {
		return nil, err
	}

	style = draw.GlyphStyle{
		Color:  color.RGBA{R: 255, B: 128, A: 255},
		Shape:  draw.PyramidGlyph{},
		Radius: vg.Points(3),
	}
	if err := addScatter(p, "truth", makePoints(truth), style); err != nil {
		return nil, err
	}

	style = draw.GlyphStyle{
		Color:  color.RGBA{G: 200, A: 255},
		Shape:  draw.CircleGlyph{},
		Radius: vg.Points(3),
	}
	if err := addScatter(p, "estimate", makePoints(estimates), style); err != nil {
		return nil, err
	}

	return p, nil
}

// addScatter adds a scatter of xys to p unless xys is empty
func addScatter(p *plot.Plot, name string, xys plotter.XYs, style draw.GlyphStyle) error {
	if len(xys) == 0 {
		return nil
	}

	s, err := plotter.NewScatter(xys)
	if err != nil {
		return fmt.Errorf("failed to create %s scatter: %w", name, err)
	}
	s.GlyphStyle = style

	p.Add(s)
	p.Legend.Add(name, s)

	return nil
}

func makePoints(poses []mcl.Pose) plotter.XYs {
	pts := make(plotter.XYs, len(poses))
	for i, pose := range poses {
		pts[i].X = pose.X
		pts[i].Y = pose.Y
	}

	return pts
}
