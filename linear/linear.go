/*
 * linear.go, part of gorestraint.
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

//Package linear implements a restraint with an energy linear in the distance between two sites.
package linear

import (
	"fmt"
	"math"

	restraint "github.com/rmera/gorestraint"
	"gonum.org/v1/gonum/spatial/r3"
)

//Params is the parameter record for a linear restraint. The energy
//is K*(R-R0), so R0 only shifts it.
type Params struct {
	K  float64 `yaml:"k" json:"k"`
	R0 float64 `yaml:"R0" json:"R0"`
}

//Linear is a restraint with a constant force. It has no state, so it is safe
//for concurrent use.
type Linear struct {
	k, r0 float64
}

//New returns a linear restraint with parameters p.
func New(p Params) (*Linear, error) {
	if math.IsNaN(p.K) || math.IsInf(p.K, 0) || math.IsNaN(p.R0) || math.IsInf(p.R0, 0) {
		return nil, restraint.NewError(restraint.ErrInvalidConfiguration, fmt.Sprintf("invalid parameters k=%g R0=%g", p.K, p.R0), "linear.New")
	}
	return &Linear{k: p.K, r0: p.R0}, nil
}

//Params returns the parameters of the restraint.
func (L *Linear) Params() Params {
	return Params{K: L.k, R0: L.r0}
}

//Evaluate returns the force on the site at v and the energy.
func (L *Linear) Evaluate(v, v0 r3.Vec, t float64) restraint.PotentialPointData {
	var out restraint.PotentialPointData
	rdiff := r3.Sub(v0, v)
	R := r3.Norm(rdiff)
	out.Energy = L.k * (R - L.r0)
	if R != 0 {
		out.Force = r3.Scale(L.k/R, rdiff)
	}
	return out
}

//Update does nothing.
func (L *Linear) Update(v, v0 r3.Vec, t float64) error {
	return nil
}
