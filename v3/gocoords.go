/*
 * gocoords.go, part of gorestraint.
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

package v3

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

//Vec returns a copy of the ith vector of F as an r3.Vec
func (F *Matrix) Vec(i int) r3.Vec {
	F.check(i)
	return r3.Vec{X: F.At(i, 0), Y: F.At(i, 1), Z: F.At(i, 2)}
}

//SetVec sets the ith vector of F to v.
func (F *Matrix) SetVec(i int, v r3.Vec) {
	F.check(i)
	F.Set(i, 0, v.X)
	F.Set(i, 1, v.Y)
	F.Set(i, 2, v.Z)
}

//AddToVec adds v to the ith vector of F, in place.
func (F *Matrix) AddToVec(i int, v r3.Vec) {
	F.SetVec(i, r3.Add(F.Vec(i), v))
}

//SubFromVec subtracts v from the ith vector of F, in place.
func (F *Matrix) SubFromVec(i int, v r3.Vec) {
	F.SetVec(i, r3.Sub(F.Vec(i), v))
}

//Distance returns the euclidean distance between the vectors i and j of F.
func (F *Matrix) Distance(i, j int) float64 {
	return r3.Norm(r3.Sub(F.Vec(i), F.Vec(j)))
}

func (F *Matrix) check(i int) {
	if i < 0 || i >= F.NVecs() {
		panic(ErrIndexOutOfRange)
	}
}

//Returns a neat string representation of a Matrix
func (F *Matrix) String() string {
	r, c := F.Dims()
	v := make([]string, r+2)
	v[0] = "\n["
	v[len(v)-1] = " ]"
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(row, i, F.Dense)
		if i == 0 {
			v[i+1] = fmt.Sprintf("%6.2f %6.2f %6.2f\n", row[0], row[1], row[2])
			continue
		} else if i == r-1 {
			v[i+1] = fmt.Sprintf(" %6.2f %6.2f %6.2f", row[0], row[1], row[2])
			continue
		} else {
			v[i+1] = fmt.Sprintf(" %6.2f %6.2f %6.2f\n", row[0], row[1], row[2])
		}
	}
	v[len(v)-2] = strings.Replace(v[len(v)-2], "\n", "", 1)
	return strings.Join(v, "")
}
