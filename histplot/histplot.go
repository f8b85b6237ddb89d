/*
 * histplot.go, part of gorestraint.
 *
 * Copyright 2026 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package histplot produces png plots of distance histograms and of the trajectory of
//the coupling constant of adaptive restraints.
package histplot

import (
	"fmt"
	"image/color"
	"math"

	"github.com/rmera/gorestraint/paramlog"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

//Series is a named grid of values. The point i is at the distance i*dx.
type Series struct {
	Name   string
	Values []float64
	//Dashed series are drawn with a dashed line, for instance, for reference data.
	Dashed bool
}

//Grids plots each of the series as a line, with the distance in the x axis,
//and saves the plot to filename. The format is given by the extension of
//filename, png if in doubt.
func Grids(filename, title string, dx float64, series ...Series) error {
	if len(series) == 0 {
		return fmt.Errorf("histplot.Grids: no data to plot")
	}
	if dx <= 0 {
		return fmt.Errorf("histplot.Grids: invalid grid spacing %g", dx)
	}
	p := basicPlot(title, "Distance", "Density")
	for key, s := range series {
		if len(s.Values) == 0 {
			return fmt.Errorf("histplot.Grids: empty series %q", s.Name)
		}
		pts := make(plotter.XYs, len(s.Values))
		for i, v := range s.Values {
			pts[i].X = float64(i) * dx
			pts[i].Y = v
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("histplot.Grids: %w", err)
		}
		r, g, b := colors(key, len(series))
		l.LineStyle.Color = color.RGBA{R: r, G: g, B: b, A: 255}
		l.LineStyle.Width = vg.Points(1.5)
		if s.Dashed {
			l.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
		}
		p.Add(l)
		p.Legend.Add(s.Name, l)
	}
	return save(p, filename)
}

//Coupling plots alpha, and the running mean distance of each window, against
//time for the records of an adaptive restraint, and saves the plot to filename.
func Coupling(filename, title string, records []paramlog.Record) error {
	if len(records) == 0 {
		return fmt.Errorf("histplot.Coupling: no records to plot")
	}
	p := basicPlot(title, "Time", "Value")
	alpha := make(plotter.XYs, len(records))
	mean := make(plotter.XYs, len(records))
	for i, r := range records {
		if math.IsNaN(r.Alpha) || math.IsInf(r.Alpha, 0) {
			return fmt.Errorf("histplot.Coupling: invalid alpha at t=%g", r.T)
		}
		alpha[i].X = r.T
		alpha[i].Y = r.Alpha
		mean[i].X = r.T
		mean[i].Y = r.Mean
	}
	for key, d := range []struct {
		name string
		pts  plotter.XYs
	}{{"alpha", alpha}, {"mean", mean}} {
		l, s, err := plotter.NewLinePoints(d.pts)
		if err != nil {
			return fmt.Errorf("histplot.Coupling: %w", err)
		}
		r, g, b := colors(key, 2)
		c := color.RGBA{R: r, G: g, B: b, A: 255}
		l.LineStyle.Color = c
		s.GlyphStyle.Color = c
		p.Add(l, s)
		p.Legend.Add(d.name, l, s)
	}
	return save(p, filename)
}

func basicPlot(title, x, y string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = x
	p.Y.Label.Text = y
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	return p
}

func save(p *plot.Plot, filename string) error {
	//here I intentionally shadow err.
	if err := p.Save(5*vg.Inch, 4*vg.Inch, filename); err != nil {
		return fmt.Errorf("histplot: can't save %s: %w", filename, err)
	}
	return nil
}

//takes hue (0-360), v and s (0-1), returns r,g,b (0-255)
func iHVS2RGB(h, v, s float64) (uint8, uint8, uint8) {
	var i, f, p, q, t float64
	var r, g, b float64
	maxcolor := 255.0
	conversion := maxcolor * v
	if s == 0.0 {
		return uint8(conversion), uint8(conversion), uint8(conversion)
	}
	h = h / 60
	i = math.Floor(h)
	f = h - i
	p = v * (1 - s)
	q = v * (1 - s*f)
	t = v * (1 - s*(1-f))
	switch int(i) {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default: //case 5
		r, g, b = v, p, q
	}
	return uint8(r * conversion), uint8(g * conversion), uint8(b * conversion)
}

//colors returns a color for the item key of steps, spreading them over the hue
//range, but skipping the yellows, which are hard to see on white.
func colors(key, steps int) (r, g, b uint8) {
	norm := 260.0 / float64(steps)
	hp := float64(key)*norm + 20.0
	var h float64
	if hp < 55 {
		h = hp - 20.0
	} else {
		h = hp + 20.0
	}
	return iHVS2RGB(h, 1.0, 1.0)
}
