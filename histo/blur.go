/*
 * blur.go, part of gorestraint.
 *
 * Copyright 2018 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
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

package histo

import (
	"fmt"
	"math"

	restraint "github.com/rmera/gorestraint"
)

//Blur discretizes a density on a grid, applying a Gaussian blur to each sample.
//The area under each sample is 1/len(samples), so the grid integrates to about 1
//if it spans the samples.
type Blur struct {
	low   float64 //coordinate of the first grid point
	dx    float64 //distance between grid points
	sigma float64 //width of the Gaussians
}

//NewBlur returns a Blur for grids starting at low with points separated by dx.
//sigma is the width of the Gaussian used for each sample.
func NewBlur(low, dx, sigma float64) (*Blur, error) {
	if dx <= 0 || math.IsNaN(dx) || math.IsInf(dx, 0) {
		return nil, restraint.NewError(restraint.ErrInvalidConfiguration, fmt.Sprintf("invalid grid spacing %g", dx), "histo.NewBlur")
	}
	if sigma <= 0 || math.IsNaN(sigma) || math.IsInf(sigma, 0) {
		return nil, restraint.NewError(restraint.ErrInvalidConfiguration, fmt.Sprintf("invalid Gaussian width %g", sigma), "histo.NewBlur")
	}
	return &Blur{low: low, dx: dx, sigma: sigma}, nil
}

//Grid overwrites each element i of grid with the blurred density of samples at low+i*dx.
//All the samples contribute to all the points, so the cost is len(grid)*len(samples).
//
//	//Acquire 3 samples to be discretized with blurring.
//	someData := []float64{3.7, 8.1, 4.2}
//	//Grid for points 0.5, 1.0, ..., 10.0, with a Gaussian width of 0.8.
//	histogram := make([]float64, 20)
//	blur, _ := histo.NewBlur(0.5, 0.5, 0.8)
//	err := blur.Grid(someData, histogram)
func (B *Blur) Grid(samples []float64, grid []float64) error {
	if len(samples) == 0 {
		return restraint.NewError(restraint.ErrInvalidArgument, "no samples to blur", "histo.Blur.Grid")
	}
	denominator := 1.0 / (2 * B.sigma * B.sigma)
	normalization := 1.0 / (float64(len(samples)) * math.Sqrt(2.0*math.Pi) * B.sigma)
	for i := range grid {
		var value float64
		x := B.low + float64(i)*B.dx
		for _, s := range samples {
			d := x - s
			value += math.Exp(-d * d * denominator)
		}
		grid[i] = value * normalization
	}
	return nil
}

//Into blurs samples into the grid G, which must have the same spacing and origin as B.
func (B *Blur) Into(samples []float64, G *Grid) error {
	if G.low != B.low || G.dx != B.dx {
		return restraint.NewError(restraint.ErrInvalidArgument, "grid and blur have different points", "histo.Blur.Into")
	}
	if err := B.Grid(samples, G.values); err != nil {
		return restraint.ErrDecorate(err, "histo.Blur.Into")
	}
	return nil
}
