/*
 * module.go, part of gorestraint.
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

package restraint

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

//Bound is a Potential of type P bound to two sites. It implements Restraint.
type Bound[P Potential] struct {
	potential P
	sites     []int
}

//Bind returns a restraint acting with p between the 2 given sites.
func Bind[P Potential](p P, sites []int) (*Bound[P], error) {
	if len(sites) != 2 {
		return nil, NewError(ErrInvalidConfiguration, fmt.Sprintf("a pair restraint needs 2 sites, got %d", len(sites)), "Bind")
	}
	if sites[0] == sites[1] || sites[0] < 0 || sites[1] < 0 {
		return nil, NewError(ErrInvalidConfiguration, fmt.Sprintf("invalid sites %v", sites), "Bind")
	}
	s := make([]int, 2)
	copy(s, sites)
	return &Bound[P]{potential: p, sites: s}, nil
}

//Potential returns the potential, so the caller can access the methods
//specific to its type.
func (B *Bound[P]) Potential() P {
	return B.potential
}

func (B *Bound[P]) Sites() []int {
	return []int{B.sites[0], B.sites[1]}
}

func (B *Bound[P]) Evaluate(r1, r2 r3.Vec, t float64) PotentialPointData {
	return B.potential.Evaluate(r1, r2, t)
}

func (B *Bound[P]) Update(r1, r2 r3.Vec, t float64) error {
	err := B.potential.Update(r1, r2, t)
	if err != nil {
		return ErrDecorate(err, "Bound.Update")
	}
	return nil
}

//Factory builds a potential of type P from a parameter record of type T.
type Factory[T any, P Potential] func(params T) (P, error)

//Module keeps what is needed to create restraints of type P: a name, the sites
//and an immutable parameter record. The host asks the module for a new
//restraint each time it sets up a simulation.
type Module[T any, P Potential] struct {
	name    string
	sites   []int
	params  T
	factory Factory[T, P]
}

//NewModule returns a module that will use factory to build restraints from params.
func NewModule[T any, P Potential](name string, sites []int, params T, factory Factory[T, P]) (*Module[T, P], error) {
	if name == "" {
		return nil, NewError(ErrInvalidConfiguration, "modules need a name", "NewModule")
	}
	if factory == nil {
		return nil, NewError(ErrInvalidConfiguration, "nil factory", "NewModule")
	}
	if len(sites) != 2 {
		return nil, NewError(ErrInvalidConfiguration, fmt.Sprintf("module %s: a pair restraint needs 2 sites, got %d", name, len(sites)), "NewModule")
	}
	s := make([]int, len(sites))
	copy(s, sites)
	return &Module[T, P]{name: name, sites: s, params: params, factory: factory}, nil
}

func (M *Module[T, P]) Name() string {
	return M.name
}

//Params returns the parameter record of the module.
func (M *Module[T, P]) Params() T {
	return M.params
}

//New builds a new restraint from the parameters of the module, and returns it
//with its concrete type.
func (M *Module[T, P]) New() (*Bound[P], error) {
	p, err := M.factory(M.params)
	if err != nil {
		return nil, ErrDecorate(err, fmt.Sprintf("Module.New: %s", M.name))
	}
	return Bind(p, M.sites)
}

//Restraint builds a new restraint from the parameters of the module.
func (M *Module[T, P]) Restraint() (Restraint, error) {
	b, err := M.New()
	if err != nil {
		return nil, err
	}
	return b, nil
}
