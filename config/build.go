/*
 * build.go, part of gorestraint.
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

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	restraint "github.com/rmera/gorestraint"
	"github.com/rmera/gorestraint/brmc"
	"github.com/rmera/gorestraint/ensemble"
	"github.com/rmera/gorestraint/linear"
	"github.com/rmera/gorestraint/mdstring"
	"github.com/rmera/gorestraint/paramlog"
)

//Set contains the restraints of one member of the ensemble, in the order of the workflow.
type Set struct {
	Names      []string
	Restraints []restraint.Restraint
	logs       []*paramlog.Writer
}

//Close closes the parameter logs of the set.
func (S *Set) Close() error {
	var errs []error
	for _, l := range S.logs {
		if err := l.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	S.logs = nil
	return errors.Join(errs...)
}

//BRMC returns the adaptive restraint with the given name, or nil if there isn't one.
func (S *Set) BRMC(name string) *brmc.BRMC {
	for i, n := range S.Names {
		if b, ok := S.Restraints[i].(*restraint.Bound[*brmc.BRMC]); ok && n == name {
			return b.Potential()
		}
	}
	return nil
}

//MDString returns the histogram restraint with the given name, or nil if there isn't one.
func (S *Set) MDString(name string) *mdstring.MDString {
	for i, n := range S.Names {
		if m, ok := S.Restraints[i].(*restraint.Bound[*mdstring.MDString]); ok && n == name {
			return m.Potential()
		}
	}
	return nil
}

//Build creates the restraints for the given member of the ensemble. res is used by
//the restraints that combine data over the ensemble, and can be nil for a single
//replica. The parameter logs are opened, so the Set must be closed after use.
func (w *Workflow) Build(member int, res *ensemble.Resources) (*Set, error) {
	if member < 0 || member >= w.Replicas {
		return nil, restraint.NewError(restraint.ErrInvalidArgument, fmt.Sprintf("member %d out of range for %d replicas", member, w.Replicas), "Workflow.Build")
	}
	S := new(Set)
	for _, e := range w.Restraints {
		r, l, err := e.build(member, w.Replicas, w.RunID, res)
		if err != nil {
			S.Close()
			return nil, restraint.ErrDecorate(err, "Workflow.Build")
		}
		S.Names = append(S.Names, e.Name)
		S.Restraints = append(S.Restraints, r)
		if l != nil {
			S.logs = append(S.logs, l)
		}
	}
	return S, nil
}

func (e Entry) build(member, replicas int, runID string, res *ensemble.Resources) (restraint.Restraint, *paramlog.Writer, error) {
	switch e.Kind {
	case KindBRMC:
		if e.BRMC == nil {
			break
		}
		m, err := restraint.NewModule(e.Name, e.Sites, *e.BRMC, brmc.New)
		if err != nil {
			return nil, nil, err
		}
		r, err := m.New()
		if err != nil {
			return nil, nil, err
		}
		if e.Log == "" {
			return r, nil, nil
		}
		w, err := paramlog.NewWriter(LogName(e.Log, member, replicas), logHeader(e.Name, member, runID, r.Potential().State()))
		if err != nil {
			return nil, nil, restraint.WrapError(restraint.ErrInvalidConfiguration, err, "Entry.build")
		}
		r.Potential().SetLog(w)
		return r, w, nil
	case KindMDString:
		if e.MDString == nil {
			break
		}
		factory := func(p mdstring.Params) (*mdstring.MDString, error) {
			return mdstring.New(p, res)
		}
		m, err := restraint.NewModule(e.Name, e.Sites, *e.MDString, factory)
		if err != nil {
			return nil, nil, err
		}
		r, err := m.Restraint()
		return r, nil, err
	case KindLinear:
		if e.Linear == nil {
			break
		}
		m, err := restraint.NewModule(e.Name, e.Sites, *e.Linear, linear.New)
		if err != nil {
			return nil, nil, err
		}
		r, err := m.Restraint()
		return r, nil, err
	}
	return nil, nil, restraint.NewError(restraint.ErrInvalidConfiguration, fmt.Sprintf("restraint %s: unknown kind %q or missing parameters", e.Name, e.Kind), "Entry.build")
}

//LogName returns the name of the parameter log of the given member. With more than one
//replica, the member number is prepended to the file name.
func LogName(name string, member, replicas int) string {
	if replicas <= 1 {
		return name
	}
	dir, file := filepath.Split(name)
	return filepath.Join(dir, fmt.Sprintf("m%d_%s", member, file))
}

func logHeader(name string, member int, runID string, s brmc.State) map[string]string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	h := map[string]string{
		"restraint":     name,
		"member":        strconv.Itoa(member),
		"target":        f(s.Target),
		"A":             f(s.A),
		"tau":           f(s.Tau),
		"tolerance":     f(s.Tolerance),
		"nsamples":      strconv.Itoa(s.NSamples),
		"sample_period": f(s.SamplePeriod),
	}
	if runID != "" {
		h["run"] = runID
	}
	return h
}
