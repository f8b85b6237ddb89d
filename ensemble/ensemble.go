/*
 * ensemble.go, part of gorestraint.
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

//Package ensemble provides the resources a restraint uses to combine its data with
//the other members of an ensemble of simulations. The only operation is a reduction,
//an all-to-all sum of slices of float64.
package ensemble

import (
	"fmt"
)

//ReduceFunc sums send over all the members of the ensemble, putting the result in recv.
//It blocks until all members have contributed.
type ReduceFunc func(send, recv []float64) error

//Resources gives access to the ensemble. Restraints ask for a Handle each time they need
//to use the ensemble, and don't keep it afterwards.
type Resources struct {
	reduce ReduceFunc
	name   string
}

//NewResources returns resources that reduce with f. name is used only in error messages.
func NewResources(name string, f ReduceFunc) *Resources {
	return &Resources{reduce: f, name: name}
}

//Handle returns a handle to the ensemble resources.
func (R *Resources) Handle() (*Handle, error) {
	if R == nil || R.reduce == nil {
		return nil, Error{message: "no reduce function available", deco: []string{"Resources.Handle"}}
	}
	return &Handle{reduce: R.reduce, name: R.name}, nil
}

//Handle is an active handle to the ensemble resources. It should be held as briefly as possible.
type Handle struct {
	reduce ReduceFunc
	name   string
}

//Reduce sums send across the ensemble and puts the result in recv. On error,
//recv may contain garbage.
func (H *Handle) Reduce(send, recv []float64) error {
	if len(send) != len(recv) {
		return Error{message: fmt.Sprintf("%s: can't reduce %d values into %d", H.name, len(send), len(recv)), deco: []string{"Handle.Reduce"}}
	}
	if err := H.reduce(send, recv); err != nil {
		return Error{message: fmt.Sprintf("%s: %s", H.name, err.Error()), deco: []string{"Handle.Reduce"}, cause: err}
	}
	return nil
}

//Local returns resources for an ensemble of one member. The reduction just copies the data.
func Local() *Resources {
	return NewResources("local", func(send, recv []float64) error {
		copy(recv, send)
		return nil
	})
}

//Error is the error type of the package.
type Error struct {
	message string
	deco    []string
	cause   error
}

func (err Error) Error() string {
	return fmt.Sprintf("gorestraint/ensemble: %s", err.message)
}

//Decorate will add the dec string to the decoration slice of strings of the error,
//and return the resulting slice.
func (err Error) Decorate(dec string) []string {
	if dec == "" {
		return err.deco
	}
	err.deco = append(err.deco, dec)
	return err.deco
}

//Critical returns false, as failures of the ensemble leave the restraints in a
//consistent state.
func (err Error) Critical() bool { return false }

func (err Error) Unwrap() error { return err.cause }
