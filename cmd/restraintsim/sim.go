/*
 * sim.go, part of gorestraint.
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

package main

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"strconv"

	restraint "github.com/rmera/gorestraint"
	"github.com/rmera/gorestraint/config"
	v3 "github.com/rmera/gorestraint/v3"
)

//Options contains the parameters of the integration.
type Options struct {
	Steps       int
	Dt          float64
	Temperature float64
	Friction    float64
	Seed        uint64
}

//DefaultOptions returns options for a short, cold run.
func DefaultOptions() *Options {
	o := new(Options)
	o.Steps = 1000
	o.Dt = 0.001953125
	o.Temperature = 0
	o.Friction = 1
	o.Seed = 1
	return o
}

//WorkflowOptions returns the integration options of the workflow w.
func WorkflowOptions(w *config.Workflow) *Options {
	o := DefaultOptions()
	o.Steps = w.Steps
	o.Dt = w.Dt
	o.Temperature = w.Temperature
	o.Friction = w.Friction
	o.Seed = w.Seed
	return o
}

//System is a set of particles moving under the forces of the restraints and
//random kicks, with overdamped Langevin dynamics.
type System struct {
	coords *v3.Matrix
	forces *v3.Matrix
	set    *config.Set
	rng    *rand.Rand
	o      *Options
	t      float64
	steps  int
	member string
	//optional
	metrics *Metrics
	//energy of each restraint at the last step
	energies []float64
}

//NewSystem returns a system with the particles at positions, under the restraints
//in set. member is used, along with the seed, to give each replica its own noise.
func NewSystem(positions [][]float64, set *config.Set, member int, o *Options) (*System, error) {
	data := make([]float64, 0, 3*len(positions))
	for _, p := range positions {
		data = append(data, p...)
	}
	coords, err := v3.NewMatrix(data)
	if err != nil {
		return nil, fmt.Errorf("NewSystem: %w", err)
	}
	S := &System{coords: coords, set: set, o: o, member: strconv.Itoa(member)}
	S.forces = v3.Zeros(coords.NVecs())
	S.rng = rand.New(rand.NewPCG(o.Seed, uint64(member)))
	S.energies = make([]float64, len(set.Restraints))
	return S, nil
}

//SetMetrics makes the system count its steps and failed updates in M.
func (S *System) SetMetrics(M *Metrics) {
	S.metrics = M
}

//Time returns the current simulation time.
func (S *System) Time() float64 {
	return S.t
}

//Coords returns the current positions. They should not be modified.
func (S *System) Coords() *v3.Matrix {
	return S.coords
}

//Energies returns the energy of each restraint at the last step.
func (S *System) Energies() []float64 {
	return S.energies
}

//Step lets the restraints update their state, and moves the particles one time step.
//Critical errors from the restraints are returned, other errors are only logged, as
//the restraints will retry the update on the next step.
func (S *System) Step() error {
	for i, r := range S.set.Restraints {
		if err := restraint.UpdateFrom(r, S.coords, S.t); err != nil {
			if restraint.IsCritical(err) {
				return fmt.Errorf("restraint %s at t=%g: %w", S.set.Names[i], S.t, err)
			}
			log.Printf("restraint %s at t=%g: %v", S.set.Names[i], S.t, err)
			if S.metrics != nil {
				S.metrics.UpdateErrors.WithLabelValues(S.set.Names[i], S.member).Inc()
			}
		}
	}
	S.forces.Zero()
	for i, r := range S.set.Restraints {
		E, err := restraint.Apply(r, S.coords, S.forces, S.t)
		if err != nil {
			return fmt.Errorf("restraint %s at t=%g: %w", S.set.Names[i], S.t, err)
		}
		S.energies[i] = E
	}
	drift := S.o.Dt / S.o.Friction
	noise := math.Sqrt(2 * S.o.Temperature * S.o.Dt / S.o.Friction)
	n := S.coords.NVecs()
	for i := 0; i < n; i++ {
		for j := 0; j < 3; j++ {
			d := drift*S.forces.At(i, j) + noise*S.rng.NormFloat64()
			S.coords.Set(i, j, S.coords.At(i, j)+d)
		}
	}
	S.steps++
	if S.metrics != nil {
		S.metrics.Steps.WithLabelValues(S.member).Inc()
	}
	//time from the step count, so it doesn't accumulate rounding errors.
	S.t = float64(S.steps) * S.o.Dt
	return nil
}

//Run does o.Steps steps, stopping early if ctx is done.
func (S *System) Run(ctx context.Context) error {
	for i := 0; i < S.o.Steps; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := S.Step(); err != nil {
			return err
		}
	}
	return nil
}
