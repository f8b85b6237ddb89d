/*
 * brmc.go, part of gorestraint.
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

/*Package brmc implements an adaptive coupling restraint. The energy of the restraint is
linear in the distance R between the two sites, E = alpha*R/target, and the coupling
constant alpha is learned during the simulation, so that the mean distance approaches
the target. The distance is sampled with a fixed period, and the mean and variance of
each window of samples are used to take an Adagrad gradient step on alpha.
*/
package brmc

import (
	"fmt"
	"log"
	"math"

	restraint "github.com/rmera/gorestraint"
	"github.com/rmera/gorestraint/paramlog"
	"gonum.org/v1/gonum/spatial/r3"
)

//Params is the immutable parameter record for a BRMC restraint.
type Params struct {
	//learned coupling constant
	Alpha     float64 `yaml:"alpha" json:"alpha"`
	AlphaPrev float64 `yaml:"alpha_prev" json:"alpha_prev"`

	//initial mean and variance
	Mean     float64 `yaml:"mean" json:"mean"`
	Variance float64 `yaml:"variance" json:"variance"`

	//parameters for training the coupling constant (Adagrad)
	A         float64 `yaml:"A" json:"A"`
	Tau       float64 `yaml:"tau" json:"tau"`
	G         float64 `yaml:"g" json:"g"`
	GSqrSum   float64 `yaml:"gsqrsum" json:"gsqrsum"`
	Eta       float64 `yaml:"eta" json:"eta"`
	Converged bool    `yaml:"converged" json:"converged"`
	//Relative deviation of the window mean from the target below which
	//the coupling is considered converged. Zero means never.
	Tolerance float64 `yaml:"tolerance" json:"tolerance"`

	//target distance
	Target float64 `yaml:"target" json:"target"`

	//Number of samples in each window and time between samples.
	//If SamplePeriod is zero, it is Tau/NSamples.
	NSamples     int     `yaml:"nsamples" json:"nsamples"`
	SamplePeriod float64 `yaml:"sample_period" json:"sample_period"`
}

//NewParams returns parameters with the given Adagrad constant A, window length tau,
//target distance and number of samples per window. The rest of the parameters are zero.
func NewParams(A, tau, target float64, nSamples int) Params {
	return Params{A: A, Tau: tau, Target: target, NSamples: nSamples}
}

//State is the learning state of a BRMC restraint.
type State struct {
	Alpha, AlphaPrev float64
	Mean, Variance   float64

	A, Tau, G, GSqrSum, Eta float64
	Converged               bool
	Tolerance               float64

	Target float64

	NSamples        int
	CurrentSample   int
	SamplePeriod    float64
	NextSampleTime  float64
	NextUpdateTime  float64
	WindowStartTime float64
}

//BRMC is the adaptive coupling restraint. It is not safe for concurrent use.
type BRMC struct {
	state       State
	initialized bool
	log         paramlog.RecordWriter
}

//New returns a restraint with the parameters p.
func New(p Params) (*BRMC, error) {
	if p.NSamples <= 0 {
		return nil, restraint.NewError(restraint.ErrInvalidConfiguration, fmt.Sprintf("nsamples must be positive, got %d", p.NSamples), "brmc.New")
	}
	period := p.SamplePeriod
	if period == 0 && p.Tau > 0 {
		period = p.Tau / float64(p.NSamples)
	}
	if !(period > 0) || math.IsInf(period, 0) {
		return nil, restraint.NewError(restraint.ErrInvalidConfiguration, fmt.Sprintf("the sample period must be positive, got %g", period), "brmc.New")
	}
	window := float64(p.NSamples) * period
	tau := p.Tau
	if tau == 0 {
		tau = window
	} else if math.Abs(tau-window) > 1e-9*window {
		return nil, restraint.NewError(restraint.ErrInvalidConfiguration, fmt.Sprintf("tau %g does not match %d samples every %g", tau, p.NSamples, period), "brmc.New")
	}
	if !(p.Target > 0) || math.IsInf(p.Target, 0) {
		return nil, restraint.NewError(restraint.ErrInvalidConfiguration, fmt.Sprintf("the target distance must be positive, got %g", p.Target), "brmc.New")
	}
	if p.A < 0 || p.GSqrSum < 0 || p.Tolerance < 0 || p.Variance < 0 {
		return nil, restraint.NewError(restraint.ErrInvalidConfiguration, "A, gsqrsum, tolerance and variance can't be negative", "brmc.New")
	}
	B := new(BRMC)
	B.state = State{
		Alpha:          p.Alpha,
		AlphaPrev:      p.AlphaPrev,
		Mean:           p.Mean,
		Variance:       p.Variance,
		A:              p.A,
		Tau:            tau,
		G:              p.G,
		GSqrSum:        p.GSqrSum,
		Eta:            p.Eta,
		Converged:      p.Converged,
		Tolerance:      p.Tolerance,
		Target:         p.Target,
		NSamples:       p.NSamples,
		SamplePeriod:   period,
		NextSampleTime: period,
		NextUpdateTime: window,
	}
	return B, nil
}

//SetLog makes the restraint write a record to w after each update window.
//A nil w stops the logging.
func (B *BRMC) SetLog(w paramlog.RecordWriter) {
	B.log = w
}

//State returns a copy of the learning state.
func (B *BRMC) State() State {
	return B.state
}

//Alpha returns the current coupling constant.
func (B *BRMC) Alpha() float64 {
	return B.state.Alpha
}

//Converged returns true if the coupling constant is not updated anymore.
func (B *BRMC) Converged() bool {
	return B.state.Converged
}

//Evaluate returns the force on the site at v and the energy. The force on v0
//is the opposite. The direction of the force is not defined when v==v0, so
//a zero force is returned in that case.
func (B *BRMC) Evaluate(v, v0 r3.Vec, t float64) restraint.PotentialPointData {
	var out restraint.PotentialPointData
	rdiff := r3.Sub(v0, v)
	R := r3.Norm(rdiff)
	alpha := B.state.Alpha
	target := B.state.Target
	out.Energy = alpha * R / target
	if R != 0 {
		out.Force = r3.Scale(alpha/target/R, rdiff)
	}
	return out
}

//Update samples the distance between v and v0 at time t, and, at the end of each
//window, takes a gradient step on the coupling constant. Repeated calls with the
//same t don't change the state. On error, the state is left as it was.
func (B *BRMC) Update(v, v0 r3.Vec, t float64) error {
	R := r3.Norm(r3.Sub(v0, v))
	s := B.state
	if !B.initialized {
		s.Mean = R
	}
	var rec *paramlog.Record
	if !s.Converged && t >= s.NextSampleTime {
		if s.CurrentSample >= s.NSamples {
			return restraint.NewError(restraint.ErrInternalConsistency, fmt.Sprintf("sample %d at t=%g exceeds the %d samples of the window", s.CurrentSample+1, t, s.NSamples), "brmc.Update")
		}
		//Welford's online mean and variance
		j := float64(s.CurrentSample + 1)
		diff := R - s.Mean
		s.Variance += (j - 1) * diff * diff / j
		s.Mean += diff / j
		s.CurrentSample++
		s.NextSampleTime = float64(s.CurrentSample+1)*s.SamplePeriod + s.WindowStartTime
	}
	if !s.Converged && t >= s.NextUpdateTime {
		if s.CurrentSample != s.NSamples {
			return restraint.NewError(restraint.ErrInternalConsistency, fmt.Sprintf("window ended at t=%g with %d of %d samples", t, s.CurrentSample, s.NSamples), "brmc.Update")
		}
		s.G = (1 - s.Mean/s.Target) * s.Variance
		s.GSqrSum += s.G * s.G
		s.Eta = 0
		if s.GSqrSum > 0 {
			s.Eta = s.A / math.Sqrt(s.GSqrSum)
		}
		s.AlphaPrev = s.Alpha
		s.Alpha = s.AlphaPrev - s.Eta*s.G
		if s.Tolerance > 0 && math.Abs(1-s.Mean/s.Target) < s.Tolerance {
			s.Converged = true
		}
		rec = &paramlog.Record{
			T:         t,
			Alpha:     s.Alpha,
			AlphaPrev: s.AlphaPrev,
			Mean:      s.Mean,
			Variance:  s.Variance,
			G:         s.G,
			Eta:       s.Eta,
			GSqrSum:   s.GSqrSum,
			Converged: s.Converged,
		}
		s.Mean = R
		s.Variance = 0
		s.WindowStartTime = t
		s.NextUpdateTime = float64(s.NSamples)*s.SamplePeriod + t
		s.CurrentSample = 0
		s.NextSampleTime = t + s.SamplePeriod
	}
	B.state = s
	B.initialized = true
	if rec != nil && B.log != nil {
		if err := B.log.Write(*rec); err != nil {
			log.Printf("gorestraint/brmc: can't write the parameter log at t=%g: %v", t, err)
		}
	}
	return nil
}
