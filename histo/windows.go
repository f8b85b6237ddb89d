/*
 * windows.go, part of gorestraint.
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

	restraint "github.com/rmera/gorestraint"
	"gonum.org/v1/gonum/floats"
)

//Windows keeps the last grids of a series of windows, all with the same
//number of points. When full, pushing a new grid drops the oldest one.
type Windows struct {
	size  int
	bins  int
	next  int
	count int
	d     [][]float64
}

//NewWindows returns an empty Windows that keeps up to size grids of bins points.
func NewWindows(size, bins int) (*Windows, error) {
	if size <= 0 || bins <= 0 {
		return nil, restraint.NewError(restraint.ErrInvalidConfiguration, fmt.Sprintf("can't keep %d windows of %d points", size, bins), "histo.NewWindows")
	}
	W := new(Windows)
	W.size = size
	W.bins = bins
	W.d = make([][]float64, size)
	for i := range W.d {
		W.d[i] = make([]float64, bins)
	}
	return W, nil
}

//Len returns the number of grids currently stored.
func (W *Windows) Len() int {
	return W.count
}

//Push stores a copy of values.
func (W *Windows) Push(values []float64) error {
	if len(values) != W.bins {
		return restraint.NewError(restraint.ErrInvalidArgument, fmt.Sprintf("%d values for windows of %d points", len(values), W.bins), "histo.Windows.Push")
	}
	copy(W.d[W.next], values)
	W.next = (W.next + 1) % W.size
	if W.count < W.size {
		W.count++
	}
	return nil
}

//View returns the ith stored grid, 0 being the oldest. Changes to it
//change the stored grid.
func (W *Windows) View(i int) []float64 {
	if i < 0 || i >= W.count {
		panic(fmt.Sprintf("gorestraint/histo.Windows.View: index %d out of range for %d windows", i, W.count))
	}
	start := 0
	if W.count == W.size {
		start = W.next
	}
	return W.d[(start+i)%W.size]
}

//Mean puts the element-wise average of the stored grids in dest, which is allocated
//if nil or too small, and returns it. With no grids stored, the result is all zeros.
func (W *Windows) Mean(dest []float64) []float64 {
	d := getCopySlice(W.bins, dest)
	for i := range d {
		d[i] = 0
	}
	if W.count == 0 {
		return d
	}
	for i := 0; i < W.count; i++ {
		floats.Add(d, W.View(i))
	}
	floats.Scale(1/float64(W.count), d)
	return d
}
