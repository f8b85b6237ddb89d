/*
 * config_test.go, part of gorestraint.
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
	"os"
	"path/filepath"
	"testing"

	restraint "github.com/rmera/gorestraint"
	"github.com/rmera/gorestraint/paramlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

const workflowYAML = `
replicas: 2
steps: 64
dt: 0.0078125
positions:
  - [0, 0, 0]
  - [3, 0, 0]
  - [0, 4, 0]
restraints:
  - name: brmc_1
    kind: brmc
    sites: [0, 1]
    log: params.log
    brmc:
      alpha: 1
      A: 20
      tau: 0.5
      tolerance: 0.05
      target: 5
      nsamples: 4
  - name: string_1
    kind: mdstring
    sites: [0, 2]
    mdstring:
      nbins: 10
      bin_width: 1
      max_dist: 10
      experimental: [0, 0, 0, 0, 1, 0, 0, 0, 0, 0]
      nsamples: 2
      sample_period: 0.25
      k: 10
      sigma: 1
  - name: linear_1
    kind: linear
    sites: [1, 2]
    linear:
      k: 1.5
      R0: 2
`

func TestParseYAML(t *testing.T) {
	w, err := Parse([]byte(workflowYAML), "yaml")
	require.NoError(t, err)
	assert.Equal(t, 2, w.Replicas)
	assert.Equal(t, 64, w.Steps)
	//not in the file
	assert.Equal(t, 1.0, w.Friction)
	require.Len(t, w.Restraints, 3)
	b := w.Restraints[0]
	require.NotNil(t, b.BRMC)
	assert.Equal(t, 5.0, b.BRMC.Target)
	assert.Equal(t, 20.0, b.BRMC.A)
	assert.Equal(t, 0.05, b.BRMC.Tolerance)
	assert.Equal(t, []float64{0, 0, 0, 0, 1, 0, 0, 0, 0, 0}, w.Restraints[1].MDString.Experimental)
	assert.Equal(t, 1.5, w.Restraints[2].Linear.K)
}

func TestParseJSON(t *testing.T) {
	data := `{"replicas": 1, "dt": 0.5, "positions": [[0,0,0],[1,1,1]],
	"restraints": [{"name": "l", "kind": "linear", "sites": [0, 1], "linear": {"k": 2, "R0": 0}}]}`
	w, err := Parse([]byte(data), "json")
	require.NoError(t, err)
	assert.Equal(t, 0.5, w.Dt)
	assert.Equal(t, "l", w.Restraints[0].Name)

	_, err = Parse([]byte(`{"replicas": 1, "bogus": 3}`), "json")
	assert.ErrorIs(t, err, restraint.ErrInvalidConfiguration)
	_, err = Parse([]byte(data), "toml")
	assert.ErrorIs(t, err, restraint.ErrInvalidConfiguration)
}

func TestValidate(t *testing.T) {
	cases := map[string]string{
		"unknown field":   "replicas: 1\nsprings: 3\n",
		"no replicas":     "replicas: 0\n",
		"bad dt":          "dt: -1\n",
		"bad position":    "positions: [[0, 0]]\n",
		"wrong kind":      "positions: [[0,0,0],[1,1,1]]\nrestraints:\n  - {name: a, kind: brmc, sites: [0, 1], linear: {k: 1}}\n",
		"two blocks":      "positions: [[0,0,0],[1,1,1]]\nrestraints:\n  - {name: a, kind: linear, sites: [0, 1], linear: {k: 1}, brmc: {target: 1}}\n",
		"site range":      "positions: [[0,0,0],[1,1,1]]\nrestraints:\n  - {name: a, kind: linear, sites: [0, 2], linear: {k: 1}}\n",
		"repeated name":   "positions: [[0,0,0],[1,1,1]]\nrestraints:\n  - {name: a, kind: linear, sites: [0, 1], linear: {k: 1}}\n  - {name: a, kind: linear, sites: [0, 1], linear: {k: 1}}\n",
		"bad brmc":        "positions: [[0,0,0],[1,1,1]]\nrestraints:\n  - {name: a, kind: brmc, sites: [0, 1], brmc: {target: 0, nsamples: 2, sample_period: 1}}\n",
		"bad mdstring":    "positions: [[0,0,0],[1,1,1]]\nrestraints:\n  - {name: a, kind: mdstring, sites: [0, 1], mdstring: {nbins: 0, bin_width: 1, nsamples: 1, sample_period: 1, sigma: 1}}\n",
		"log on linear":   "positions: [[0,0,0],[1,1,1]]\nrestraints:\n  - {name: a, kind: linear, sites: [0, 1], log: x.log, linear: {k: 1}}\n",
		"three sites":     "positions: [[0,0,0],[1,1,1],[2,2,2]]\nrestraints:\n  - {name: a, kind: linear, sites: [0, 1, 2], linear: {k: 1}}\n",
		"negative steps":  "steps: -3\n",
		"no friction":     "friction: 0\n",
		"unnamed":         "positions: [[0,0,0],[1,1,1]]\nrestraints:\n  - {kind: linear, sites: [0, 1], linear: {k: 1}}\n",
		"negative temper": "temperature: -1\n",
	}
	for name, data := range cases {
		_, err := Parse([]byte(data), "yaml")
		assert.ErrorIs(t, err, restraint.ErrInvalidConfiguration, name)
	}
	_, err := Parse([]byte(cases["repeated name"]), "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unique Name")
	_, err = Parse([]byte("dt: 0\n"), "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Workflow.Dt")
}

func TestLoadAndBuild(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "workflow.yaml")
	require.NoError(t, os.WriteFile(name, []byte(workflowYAML), 0o644))
	w, err := Load(name)
	require.NoError(t, err)
	//logs go to the temporary directory
	w.Restraints[0].Log = filepath.Join(dir, "params.log")
	w.RunID = "0f8fad5b-d9cb-469f-a165-70867728950e"

	S, err := w.Build(1, nil)
	require.NoError(t, err)
	require.Len(t, S.Restraints, 3)
	assert.Equal(t, []string{"brmc_1", "string_1", "linear_1"}, S.Names)
	assert.Equal(t, []int{0, 2}, S.Restraints[1].Sites())

	B := S.BRMC("brmc_1")
	require.NotNil(t, B)
	assert.Equal(t, 0.125, B.State().SamplePeriod)
	assert.Nil(t, S.BRMC("string_1"))
	assert.NotNil(t, S.MDString("string_1"))
	assert.Nil(t, S.MDString("nothing"))

	//run a window so a record is written
	for i := 0; i <= 4; i++ {
		require.NoError(t, S.Restraints[0].Update(r3.Vec{}, r3.Vec{X: 4}, float64(i)*0.125))
	}
	require.NoError(t, S.Close())
	header, recs, err := paramlog.ReadAll(filepath.Join(dir, "m1_params.log"))
	require.NoError(t, err)
	assert.Equal(t, "brmc_1", header["restraint"])
	assert.Equal(t, "1", header["member"])
	assert.Equal(t, "5", header["target"])
	assert.Equal(t, w.RunID, header["run"])
	require.Len(t, recs, 1)
	assert.Equal(t, 4.0, recs[0].Mean)

	_, err = w.Build(2, nil)
	assert.ErrorIs(t, err, restraint.ErrInvalidArgument)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nothing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, restraint.ErrInvalidConfiguration))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLogName(t *testing.T) {
	assert.Equal(t, "params.log.zst", LogName("params.log.zst", 0, 1))
	assert.Equal(t, filepath.Join("out", "m3_params.log.zst"), LogName(filepath.Join("out", "params.log.zst"), 3, 4))
}

func TestDefault(t *testing.T) {
	w := Default()
	assert.NoError(t, w.Validate())
	assert.True(t, restraint.DyadicPeriod(w.Dt))
}
