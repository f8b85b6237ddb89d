/*
 * interfaces.go, part of gorestraint.
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

import "gonum.org/v1/gonum/spatial/r3"

//PotentialPointData is the contribution of a restraint at one point: the
//force on the first site and the energy of the pair. The second site gets the
//opposite force.
type PotentialPointData struct {
	Force  r3.Vec
	Energy float64
}

//Potential is the interface for the pair potentials in the library.
type Potential interface {

	//Evaluate returns the force on the site at r1 and the energy of the
	//pair at time t. It does not change the state of the potential.
	Evaluate(r1, r2 r3.Vec, t float64) PotentialPointData

	//Update lets the potential advance its internal state at time t.
	//Calling it again with the same t does nothing. If an error is returned
	//the state is the same as before the call.
	Update(r1, r2 r3.Vec, t float64) error
}

//Restraint is a Potential bound to the indexes of the two sites it acts on.
type Restraint interface {
	Potential

	//Sites returns the indexes of the 2 sites.
	Sites() []int
}

//Errors

//DecoratedError is the interface for errors that the packages in this library implement. The Decorate method allows to add and retrieve info from the
//error, without changing it's type or wrapping it around something else.
type DecoratedError interface {
	Error() string
	Decorate(string) []string
	Critical() bool
}
