/*
 * handy.go, part of gorestraint.
 *
 * Copyright 2012 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
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

package restraint

import (
	"fmt"
	"math"

	v3 "github.com/rmera/gorestraint/v3"
)

//maxDyadicExp is the largest k for which a period m/2^k is accepted by DyadicPeriod.
const maxDyadicExp = 24

//Apply evaluates the restraint r on the coordinates of its sites, at time t.
//The force is added to the first site in forces, and the opposite force to the
//second. It returns the energy of the restraint.
func Apply(r Restraint, coords, forces *v3.Matrix, t float64) (float64, error) {
	s := r.Sites()
	if err := checkSites(s, coords); err != nil {
		return 0, ErrDecorate(err, "Apply")
	}
	if forces != nil && forces.NVecs() != coords.NVecs() {
		return 0, NewError(ErrInvalidArgument, fmt.Sprintf("%d forces for %d coordinates", forces.NVecs(), coords.NVecs()), "Apply")
	}
	out := r.Evaluate(coords.Vec(s[0]), coords.Vec(s[1]), t)
	if forces != nil {
		forces.AddToVec(s[0], out.Force)
		forces.SubFromVec(s[1], out.Force)
	}
	return out.Energy, nil
}

//UpdateFrom calls the Update method of the restraint r with the coordinates of its sites.
func UpdateFrom(r Restraint, coords *v3.Matrix, t float64) error {
	s := r.Sites()
	if err := checkSites(s, coords); err != nil {
		return ErrDecorate(err, "UpdateFrom")
	}
	if err := r.Update(coords.Vec(s[0]), coords.Vec(s[1]), t); err != nil {
		return ErrDecorate(err, "UpdateFrom")
	}
	return nil
}

func checkSites(s []int, coords *v3.Matrix) error {
	if coords == nil {
		return NewError(ErrInvalidArgument, "nil coordinates", "checkSites")
	}
	n := coords.NVecs()
	if len(s) != 2 {
		return NewError(ErrInvalidArgument, fmt.Sprintf("restraint with %d sites", len(s)), "checkSites")
	}
	for _, v := range s {
		if v < 0 || v >= n {
			return NewError(ErrInvalidArgument, fmt.Sprintf("site %d out of range for %d coordinates", v, n), "checkSites")
		}
	}
	return nil
}

//DyadicPeriod returns true if p is a positive number of the form m/2^k, with k no larger than 24.
//Restraint updates are scheduled with the simulation time, not with step numbers, so
//periods that are not exactly representable in binary accumulate rounding errors
//over long simulations.
func DyadicPeriod(p float64) bool {
	if p <= 0 || math.IsInf(p, 0) || math.IsNaN(p) {
		return false
	}
	for k := 0; k <= maxDyadicExp; k++ {
		s := math.Ldexp(p, k)
		if s == math.Trunc(s) {
			return true
		}
	}
	return false
}
