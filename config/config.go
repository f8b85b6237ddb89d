/*
 * config.go, part of gorestraint.
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

//Package config reads the description of a set of restraints, and of the toy simulation
//that drives them, from YAML or JSON files, and builds the restraints.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	restraint "github.com/rmera/gorestraint"
	"github.com/rmera/gorestraint/brmc"
	"github.com/rmera/gorestraint/linear"
	"github.com/rmera/gorestraint/mdstring"
	"gopkg.in/yaml.v3"
)

//Kinds of restraints.
const (
	KindBRMC     = "brmc"
	KindMDString = "mdstring"
	KindLinear   = "linear"
)

//Workflow describes an ensemble of toy simulations and the restraints applied to
//each of them.
type Workflow struct {
	Replicas    int     `yaml:"replicas" json:"replicas" validate:"gte=1"`
	Steps       int     `yaml:"steps" json:"steps" validate:"gte=0"`
	Dt          float64 `yaml:"dt" json:"dt" validate:"gt=0"`
	Temperature float64 `yaml:"temperature" json:"temperature" validate:"gte=0"` //in energy units (kT)
	Friction    float64 `yaml:"friction" json:"friction" validate:"gt=0"`
	Seed        uint64  `yaml:"seed" json:"seed"`
	//Identifies the run in the parameter logs. Set by the caller, usually.
	RunID string `yaml:"run_id,omitempty" json:"run_id,omitempty"`
	//Initial positions of the particles. Restraint sites are indexes in this list.
	Positions  [][]float64 `yaml:"positions" json:"positions" validate:"dive,len=3"`
	Restraints []Entry     `yaml:"restraints" json:"restraints" validate:"unique=Name,dive"`
}

//Entry is one restraint. Only the parameter block matching Kind is used.
type Entry struct {
	Name     string           `yaml:"name" json:"name" validate:"required"`
	Kind     string           `yaml:"kind" json:"kind" validate:"oneof=brmc mdstring linear"`
	Sites    []int            `yaml:"sites" json:"sites" validate:"len=2,dive,gte=0"`
	BRMC     *brmc.Params     `yaml:"brmc,omitempty" json:"brmc,omitempty"`
	MDString *mdstring.Params `yaml:"mdstring,omitempty" json:"mdstring,omitempty"`
	Linear   *linear.Params   `yaml:"linear,omitempty" json:"linear,omitempty"`
	//File for the parameter log of brmc restraints. Empty means no log.
	Log string `yaml:"log,omitempty" json:"log,omitempty"`
}

var validate = validator.New()

//Default returns a workflow with one replica and no restraints.
func Default() *Workflow {
	w := new(Workflow)
	w.Replicas = 1
	w.Steps = 1000
	w.Dt = 0.001953125 //2^-9
	w.Temperature = 1
	w.Friction = 1
	w.Seed = 1
	return w
}

//Load reads a workflow from the file name. Files ending in .json are read as JSON
//and everything else as YAML. Fields missing in the file keep the values from Default.
//The workflow is validated before returning.
func Load(name string) (*Workflow, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, restraint.WrapError(restraint.ErrInvalidConfiguration, err, "config.Load")
	}
	format := "yaml"
	if strings.EqualFold(filepath.Ext(name), ".json") {
		format = "json"
	}
	w, err := Parse(data, format)
	if err != nil {
		return nil, restraint.ErrDecorate(err, fmt.Sprintf("config.Load: %s", name))
	}
	return w, nil
}

//Parse decodes and validates a workflow in the given format, "yaml" or "json".
//Unknown fields are an error.
func Parse(data []byte, format string) (*Workflow, error) {
	w := Default()
	switch strings.ToLower(format) {
	case "yaml", "yml":
		d := yaml.NewDecoder(bytes.NewReader(data))
		d.KnownFields(true)
		if err := d.Decode(w); err != nil {
			return nil, restraint.WrapError(restraint.ErrInvalidConfiguration, err, "config.Parse")
		}
	case "json":
		d := json.NewDecoder(bytes.NewReader(data))
		d.DisallowUnknownFields()
		if err := d.Decode(w); err != nil {
			return nil, restraint.WrapError(restraint.ErrInvalidConfiguration, err, "config.Parse")
		}
	default:
		return nil, restraint.NewError(restraint.ErrInvalidConfiguration, fmt.Sprintf("unknown format %q", format), "config.Parse")
	}
	if err := w.Validate(); err != nil {
		return nil, restraint.ErrDecorate(err, "config.Parse")
	}
	return w, nil
}

//Validate checks the workflow, building each restraint once so wrong parameters are
//found before any simulation starts. Time steps and sample periods that are not an
//exact binary fraction only produce a warning.
func (w *Workflow) Validate() error {
	invalid := func(format string, a ...any) error {
		return restraint.NewError(restraint.ErrInvalidConfiguration, fmt.Sprintf(format, a...), "Workflow.Validate")
	}
	if err := validate.Struct(w); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) || len(verrs) == 0 {
			return restraint.WrapError(restraint.ErrInvalidConfiguration, err, "Workflow.Validate")
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fieldMessage(fe))
		}
		return invalid("%s", strings.Join(msgs, "; "))
	}
	if !restraint.DyadicPeriod(w.Dt) {
		log.Printf("gorestraint/config: the time step %g is not exactly representable in binary, restraint updates may drift", w.Dt)
	}
	for _, e := range w.Restraints {
		for _, s := range e.Sites {
			if s < 0 || s >= len(w.Positions) {
				return invalid("restraint %s: site %d out of range for %d particles", e.Name, s, len(w.Positions))
			}
		}
		if err := e.check(); err != nil {
			return restraint.ErrDecorate(err, "Workflow.Validate")
		}
		//A throw-away copy of each restraint, without logs or ensemble.
		probe := e
		probe.Log = ""
		if _, _, err := probe.build(0, 1, "", nil); err != nil {
			return restraint.ErrDecorate(err, "Workflow.Validate")
		}
	}
	return nil
}

//fieldMessage describes a failed validation of a workflow field.
func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Namespace())
	case "unique":
		return fmt.Sprintf("%s must have unique %s values", fe.Namespace(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s is %v, must be one of %s", fe.Namespace(), fe.Value(), fe.Param())
	case "len":
		return fmt.Sprintf("%s has the wrong length, must be %s", fe.Namespace(), fe.Param())
	default:
		return fmt.Sprintf("%s is %v, must be %s %s", fe.Namespace(), fe.Value(), fe.Tag(), fe.Param())
	}
}

//check verifies that the entry has exactly the parameters of its kind.
func (e Entry) check() error {
	var given []string
	if e.BRMC != nil {
		given = append(given, KindBRMC)
	}
	if e.MDString != nil {
		given = append(given, KindMDString)
	}
	if e.Linear != nil {
		given = append(given, KindLinear)
	}
	if len(given) != 1 || given[0] != e.Kind {
		return restraint.NewError(restraint.ErrInvalidConfiguration, fmt.Sprintf("restraint %s of kind %q has parameters for %v", e.Name, e.Kind, given), "Entry.check")
	}
	if e.Log != "" && e.Kind != KindBRMC {
		return restraint.NewError(restraint.ErrInvalidConfiguration, fmt.Sprintf("restraint %s: only brmc restraints write a parameter log", e.Name), "Entry.check")
	}
	var period float64
	switch e.Kind {
	case KindBRMC:
		period = e.BRMC.SamplePeriod
		if period == 0 && e.BRMC.NSamples > 0 {
			period = e.BRMC.Tau / float64(e.BRMC.NSamples)
		}
	case KindMDString:
		period = e.MDString.SamplePeriod
	}
	if period > 0 && !restraint.DyadicPeriod(period) {
		log.Printf("gorestraint/config: restraint %s: the sample period %g is not exactly representable in binary", e.Name, period)
	}
	return nil
}
