/*
 * mdstring.go, part of gorestraint.
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

/*Package mdstring implements a restraint that drives the distribution of the distance
between two sites, over an ensemble of simulations, towards an experimental distribution.

The distances sampled during a window are blurred with a Gaussian kernel onto a grid,
summed over all the members of the ensemble, and the resulting histogram gives the
potential used to compute the force until the next window closes.
*/
package mdstring

import (
	"fmt"
	"math"

	restraint "github.com/rmera/gorestraint"
	"github.com/rmera/gorestraint/ensemble"
	"github.com/rmera/gorestraint/histo"
	"gonum.org/v1/gonum/spatial/r3"
)

//Params is the immutable parameter record for an MDString restraint.
type Params struct {
	NBins        int       `yaml:"nbins" json:"nbins"`
	BinWidth     float64   `yaml:"bin_width" json:"bin_width"`
	MinDist      float64   `yaml:"min_dist" json:"min_dist"`
	MaxDist      float64   `yaml:"max_dist" json:"max_dist"`
	Experimental []float64 `yaml:"experimental" json:"experimental"`
	NSamples     int       `yaml:"nsamples" json:"nsamples"`
	SamplePeriod float64   `yaml:"sample_period" json:"sample_period"`
	NWindows     int       `yaml:"nwindows" json:"nwindows"`
	K            float64   `yaml:"k" json:"k"`
	Sigma        float64   `yaml:"sigma" json:"sigma"`
}

//MDString is the histogram restraint. It is not safe for concurrent use.
type MDString struct {
	grid         *histo.Grid
	experimental *histo.Grid
	windows      *histo.Windows
	blur         *histo.Blur
	resources    *ensemble.Resources

	samples       []float64
	currentSample int

	nextSampleTime       float64
	nextWindowUpdateTime float64
	windowStartTime      float64

	p Params
}

//New returns a new restraint with parameters p, which will use res to
//combine its histograms with the rest of the ensemble.
//If res is nil, the restraint is its own ensemble.
func New(p Params, res *ensemble.Resources) (*MDString, error) {
	caller := "mdstring.New"
	switch {
	case p.NBins <= 0:
		return nil, restraint.NewError(restraint.ErrInvalidConfiguration, fmt.Sprintf("nbins must be positive, got %d", p.NBins), caller)
	case p.NSamples <= 0:
		return nil, restraint.NewError(restraint.ErrInvalidConfiguration, fmt.Sprintf("nsamples must be positive, got %d", p.NSamples), caller)
	case !(p.SamplePeriod > 0):
		return nil, restraint.NewError(restraint.ErrInvalidConfiguration, fmt.Sprintf("the sample period must be positive, got %g", p.SamplePeriod), caller)
	case p.MinDist < 0 || p.MaxDist < p.MinDist:
		return nil, restraint.NewError(restraint.ErrInvalidConfiguration, fmt.Sprintf("invalid distance range [%g, %g]", p.MinDist, p.MaxDist), caller)
	case p.Experimental != nil && len(p.Experimental) != p.NBins:
		return nil, restraint.NewError(restraint.ErrInvalidConfiguration, fmt.Sprintf("experimental histogram has %d bins, expected %d", len(p.Experimental), p.NBins), caller)
	}
	if p.NWindows <= 0 {
		p.NWindows = 1
	}
	blur, err := histo.NewBlur(0, p.BinWidth, p.Sigma)
	if err != nil {
		return nil, restraint.ErrDecorate(err, caller)
	}
	M := &MDString{blur: blur, resources: res, p: p}
	if M.grid, err = histo.NewGrid(p.NBins, 0, p.BinWidth); err != nil {
		return nil, restraint.ErrDecorate(err, caller)
	}
	M.experimental, _ = histo.NewGrid(p.NBins, 0, p.BinWidth)
	if p.Experimental != nil {
		M.experimental.Set(p.Experimental)
	}
	M.p.Experimental = M.experimental.Copy()
	if M.windows, err = histo.NewWindows(p.NWindows, p.NBins); err != nil {
		return nil, restraint.ErrDecorate(err, caller)
	}
	if M.resources == nil {
		M.resources = ensemble.Local()
	}
	M.samples = make([]float64, p.NSamples)
	M.nextSampleTime = p.SamplePeriod
	M.nextWindowUpdateTime = float64(p.NSamples) * p.SamplePeriod
	return M, nil
}

//Params returns a copy of the parameters of the restraint.
func (M *MDString) Params() Params {
	p := M.p
	p.Experimental = M.experimental.Copy()
	return p
}

//Grid returns a copy of the histogram currently used to compute forces.
func (M *MDString) Grid() *histo.Grid {
	G, _ := histo.NewGrid(M.grid.Len(), M.grid.Low(), M.grid.Dx())
	G.Set(M.grid.View())
	return G
}

//Experimental returns a copy of the reference histogram.
func (M *MDString) Experimental() *histo.Grid {
	G, _ := histo.NewGrid(M.experimental.Len(), M.experimental.Low(), M.experimental.Dx())
	G.Set(M.experimental.View())
	return G
}

//Deviation returns the difference between the current histogram and the experimental one.
func (M *MDString) Deviation() *histo.Grid {
	G, _ := histo.NewGrid(M.grid.Len(), M.grid.Low(), M.grid.Dx())
	G.Sub(M.grid, M.experimental)
	return G
}

//Evaluate returns the force on the site at v, and the energy, given the
//current histogram. The force on v0 is the opposite.
func (M *MDString) Evaluate(v, v0 r3.Vec, t float64) restraint.PotentialPointData {
	var out restraint.PotentialPointData
	//position of v relative to v0, not the vector from v to v0.
	rdiff := r3.Sub(v, v0)
	R := r3.Norm(rdiff)
	sigma := M.p.Sigma
	k := M.p.K
	norm := math.Sqrt(2*math.Pi) * sigma
	var e, fscal float64
	for n, h := range M.grid.View() {
		if h == 0 {
			continue
		}
		x := M.grid.X(n) - R
		g := h * math.Exp(-0.5*x*x/(sigma*sigma))
		e += g
		fscal += g * x
	}
	out.Energy = k * e / norm
	if R != 0 {
		f := -k * fscal / (norm * sigma * sigma)
		out.Force = r3.Scale(f/R, rdiff)
	}
	return out
}

//Update samples the distance between v and v0 at time t and, at the end of each window,
//replaces the histogram with the blurred samples of the whole ensemble. If the update
//fails, the state is not changed, so the call can be retried.
func (M *MDString) Update(v, v0 r3.Vec, t float64) error {
	R := r3.Norm(r3.Sub(v, v0))
	current := M.currentSample
	nextSample := M.nextSampleTime
	var sampled bool
	if t >= nextSample {
		if current >= M.p.NSamples {
			return restraint.NewError(restraint.ErrInternalConsistency, fmt.Sprintf("sample %d at t=%g exceeds the %d samples of the window", current+1, t, M.p.NSamples), "mdstring.Update")
		}
		sampled = true
		current++
		nextSample = float64(current+1)*M.p.SamplePeriod + M.windowStartTime
	}
	if t < M.nextWindowUpdateTime {
		if sampled {
			M.samples[current-1] = R
			M.currentSample = current
			M.nextSampleTime = nextSample
		}
		return nil
	}
	if current != M.p.NSamples {
		return restraint.NewError(restraint.ErrInternalConsistency, fmt.Sprintf("window ended at t=%g with %d of %d samples", t, current, M.p.NSamples), "mdstring.Update")
	}
	samples := M.samples
	if sampled {
		samples = make([]float64, len(M.samples))
		copy(samples, M.samples)
		samples[current-1] = R
	}
	local := make([]float64, M.p.NBins)
	if err := M.blur.Grid(samples, local); err != nil {
		return restraint.ErrDecorate(err, "mdstring.Update")
	}
	reduced, err := M.reduce(local)
	if err != nil {
		return restraint.WrapError(restraint.ErrReductionFailure, err, "mdstring.Update")
	}
	//Nothing below can fail.
	copy(M.samples, samples)
	M.windows.Push(reduced)
	M.grid.Set(M.windows.Mean(nil))
	M.windowStartTime = t
	M.nextWindowUpdateTime = float64(M.p.NSamples)*M.p.SamplePeriod + t
	M.currentSample = 0
	M.nextSampleTime = t + M.p.SamplePeriod
	return nil
}

//reduce sums local over the ensemble, using a fresh handle.
func (M *MDString) reduce(local []float64) ([]float64, error) {
	H, err := M.resources.Handle()
	if err != nil {
		return nil, err
	}
	reduced := make([]float64, len(local))
	if err := H.Reduce(local, reduced); err != nil {
		return nil, err
	}
	for _, v := range reduced {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("the reduced histogram contains %g", v)
		}
	}
	return reduced, nil
}
