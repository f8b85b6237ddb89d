/*
 * histo.go, part of gorestraint.
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
	"encoding/json"
	"fmt"
	"math"
	"strings"

	restraint "github.com/rmera/gorestraint"
	"gonum.org/v1/gonum/floats"
)

//Grid is a 1D grid of magnitudes. The point i is at the
//coordinate low+i*dx.
type Grid struct {
	low    float64
	dx     float64
	values []float64
}

//NewGrid returns a zero-filled grid with n points, the first one at low,
//separated by dx.
func NewGrid(n int, low, dx float64) (*Grid, error) {
	if n <= 0 {
		return nil, restraint.NewError(restraint.ErrInvalidConfiguration, fmt.Sprintf("grids need at least one point, got %d", n), "histo.NewGrid")
	}
	if dx <= 0 || math.IsNaN(dx) || math.IsInf(dx, 0) {
		return nil, restraint.NewError(restraint.ErrInvalidConfiguration, fmt.Sprintf("invalid grid spacing %g", dx), "histo.NewGrid")
	}
	G := new(Grid)
	G.low = low
	G.dx = dx
	G.values = make([]float64, n)
	return G, nil
}

func (G *Grid) MarshalJSON() ([]byte, error) {
	j, err := json.Marshal(struct {
		Low    float64   `json:"low"`
		Dx     float64   `json:"dx"`
		Values []float64 `json:"values"`
	}{
		Low:    G.low,
		Dx:     G.dx,
		Values: G.values,
	})
	if err != nil {
		return nil, err
	}
	return j, nil
}

func (G *Grid) UnmarshalJSON(b []byte) error {
	var a struct {
		Low    float64   `json:"low"`
		Dx     float64   `json:"dx"`
		Values []float64 `json:"values"`
	}
	err := json.Unmarshal(b, &a)
	if err != nil {
		return err
	}
	if len(a.Values) == 0 || a.Dx <= 0 {
		return restraint.NewError(restraint.ErrInvalidArgument, "ill-formed grid in JSON data", "histo.Grid.UnmarshalJSON")
	}
	G.low = a.Low
	G.dx = a.Dx
	G.values = a.Values
	return nil
}

//String prints a -hopefully- pretty string representation of
//the grid, in 2 lines: the coordinates and the magnitudes.
func (G *Grid) String() string {
	d := make([]string, 0, len(G.values))
	h := make([]string, 0, len(G.values))
	for i, v := range G.values {
		d = append(d, fmt.Sprintf("%9.3f", G.X(i)))
		h = append(h, fmt.Sprintf("%9.3f", v))
	}
	return fmt.Sprintf("%s\n%s", strings.Join(d, " "), strings.Join(h, " "))
}

//Len returns the number of points in the grid.
func (G *Grid) Len() int {
	return len(G.values)
}

//Low returns the coordinate of the first point.
func (G *Grid) Low() float64 {
	return G.low
}

//Dx returns the spacing between points.
func (G *Grid) Dx() float64 {
	return G.dx
}

//X returns the coordinate of the point i.
func (G *Grid) X(i int) float64 {
	return G.low + float64(i)*G.dx
}

//At returns the magnitude at the point i.
func (G *Grid) At(i int) float64 {
	return G.values[i]
}

//View returns the slice of magnitudes. Changes to it change the grid.
func (G *Grid) View() []float64 {
	return G.values
}

//Copy returns a copy of the magnitudes. If a slice with enough capacity
//is given, it is used.
func (G *Grid) Copy(dest ...[]float64) []float64 {
	d := getCopySlice(len(G.values), dest...)
	copy(d, G.values)
	return d
}

//Set copies values into the grid. values must have as many elements as the grid.
func (G *Grid) Set(values []float64) error {
	if len(values) != len(G.values) {
		return restraint.NewError(restraint.ErrInvalidArgument, fmt.Sprintf("%d values for a grid of %d points", len(values), len(G.values)), "histo.Grid.Set")
	}
	copy(G.values, values)
	return nil
}

//Same returns true if G and a have the same points.
func (G *Grid) Same(a *Grid) bool {
	return G.low == a.low && G.dx == a.dx && len(G.values) == len(a.values)
}

//Add adds the grids a and b putting the result in the receiver.
func (G *Grid) Add(a, b *Grid) {
	if !G.Same(a) || !G.Same(b) {
		panic("gorestraint/histo.Grid.Add: Ill-formed grids for addition")
	}
	floats.AddTo(G.values, a.values, b.values)
}

//Sub substracts b from a, puting the results in the receiver.
//If abs is given and true, the absolute values of the differences are used.
func (G *Grid) Sub(a, b *Grid, abs ...bool) {
	if !G.Same(a) || !G.Same(b) {
		panic("gorestraint/histo.Grid.Sub: Ill-formed grids for substraction")
	}
	floats.SubTo(G.values, a.values, b.values)
	if len(abs) > 0 && abs[0] {
		for i, v := range G.values {
			G.values[i] = math.Abs(v)
		}
	}
}

//Scale multiplies all the magnitudes by f.
func (G *Grid) Scale(f float64) {
	floats.Scale(f, G.values)
}

//Sum returns the sum of the magnitudes.
func (G *Grid) Sum() float64 {
	return floats.Sum(G.values)
}

//Integral returns the Riemann sum of the grid with its spacing.
func (G *Grid) Integral() float64 {
	return G.dx * floats.Sum(G.values)
}

func getCopySlice(N int, dest ...[]float64) []float64 {
	var d []float64
	if len(dest) > 0 && cap(dest[0]) >= N {
		d = dest[0][:N]
	} else {
		d = make([]float64, N)
	}
	return d

}
