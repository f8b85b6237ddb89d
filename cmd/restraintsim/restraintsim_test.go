/*
 * restraintsim_test.go, part of gorestraint.
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
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rmera/gorestraint/config"
	"github.com/rmera/gorestraint/paramlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWorkflow = `
replicas: 2
steps: 64
dt: 0.0078125
temperature: 0
positions:
  - [0, 0, 0]
  - [3, 0, 0]
  - [0, 3, 0]
restraints:
  - name: brmc_1
    kind: brmc
    sites: [0, 1]
    log: %q
    brmc:
      alpha: 1
      A: 0.5
      target: 3
      nsamples: 4
      sample_period: 0.03125
  - name: string_1
    kind: mdstring
    sites: [0, 2]
    mdstring:
      nbins: 40
      bin_width: 0.25
      max_dist: 10
      nsamples: 4
      sample_period: 0.03125
      k: 1
      sigma: 0.5
`

func TestRunWorkflow(t *testing.T) {
	dir := t.TempDir()
	w, err := config.Parse([]byte(fmt.Sprintf(testWorkflow, filepath.Join(dir, "params.log"))), "yaml")
	require.NoError(t, err)
	M := NewMetrics("test")
	results, err := RunWorkflow(context.Background(), w, M)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, 0.5, r.Time)
		assert.Contains(t, r.Alphas, "brmc_1")
		assert.False(t, math.IsNaN(r.Alphas["brmc_1"]))
		require.Contains(t, r.Grids, "string_1")
		assert.Len(t, r.Grids["string_1"], 40)
	}
	//without noise, all replicas are the same, and the histograms are always
	//shared by the ensemble.
	assert.Equal(t, results[0].Grids["string_1"], results[1].Grids["string_1"])
	assert.Equal(t, results[0].Distances, results[1].Distances)

	//windows of 0.125 close at 0.125, 0.25 and 0.375. The last step is at 0.4921875.
	_, recs, err := paramlog.ReadAll(filepath.Join(dir, "m1_params.log"))
	require.NoError(t, err)
	assert.Len(t, recs, 3)

	var out bytes.Buffer
	Summary(&out, w, results)
	assert.Contains(t, out.String(), "alpha=")
	assert.Contains(t, out.String(), "distance over the ensemble")

	assert.Equal(t, 64.0, testutil.ToFloat64(M.Steps.WithLabelValues("1")))
	assert.Equal(t, results[0].Alphas["brmc_1"], testutil.ToFloat64(M.Alpha.WithLabelValues("brmc_1", "0")))
	assert.Equal(t, 0.0, testutil.ToFloat64(M.UpdateErrors.WithLabelValues("string_1", "0")))
	mfile := filepath.Join(dir, "restraintsim.prom")
	require.NoError(t, M.WriteTextfile(mfile))
	prom, err := os.ReadFile(mfile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `restraintsim_steps_total{member="0",run="test"} 64`)

	plots := filepath.Join(dir, "plots")
	require.NoError(t, Plots(plots, w, results))
	for _, name := range []string{"string_1.png", "brmc_1_m0.png", "brmc_1_m1.png"} {
		_, err := os.Stat(filepath.Join(plots, name))
		assert.NoError(t, err, name)
	}
}

func TestRunCanceled(t *testing.T) {
	w, err := config.Parse([]byte(fmt.Sprintf(testWorkflow, filepath.Join(t.TempDir(), "params.log"))), "yaml")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = RunWorkflow(ctx, w, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSystemRelaxes(t *testing.T) {
	data := `
steps: 64
dt: 0.015625
temperature: 0
positions: [[0, 0, 0], [0, 0, 3]]
restraints:
  - {name: l, kind: linear, sites: [0, 1], linear: {k: 1, R0: 0}}
`
	w, err := config.Parse([]byte(data), "yaml")
	require.NoError(t, err)
	set, err := w.Build(0, nil)
	require.NoError(t, err)
	defer set.Close()
	S, err := NewSystem(w.Positions, set, 0, WorkflowOptions(w))
	require.NoError(t, err)
	require.NoError(t, S.Run(context.Background()))
	//each particle moves towards the other at k/friction
	assert.InDelta(t, 1.0, S.Coords().Distance(0, 1), 1e-9)
	assert.InDelta(t, 1.0+1.0/32, S.Energies()[0], 1e-9)
	assert.InDelta(t, 1.0, S.Time(), 1e-12)
}

func TestLogCommand(t *testing.T) {
	name := filepath.Join(t.TempDir(), "params.log.zst")
	W, err := paramlog.NewWriter(name, map[string]string{"restraint": "brmc_1", "target": "5"})
	require.NoError(t, err)
	require.NoError(t, W.Write(paramlog.Record{T: 0.5, Alpha: -19, AlphaPrev: 1, Mean: 4.1, Variance: 0.2, G: 0.04, Eta: 500, GSqrSum: 0.0016}))
	require.NoError(t, W.Close())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"log", name})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "# restraint = brmc_1")
	assert.Contains(t, out.String(), "-19")
	assert.Contains(t, out.String(), "converged")
}

//A non-dyadic time step makes config.Load warn. With --quiet, nothing reaches the log.
const quietWorkflow = `
replicas: 1
steps: 4
dt: 0.01
temperature: 0
positions:
  - [0, 0, 0]
  - [2, 0, 0]
restraints:
  - name: linear_1
    kind: linear
    sites: [0, 1]
    linear: {k: 1, R0: 0}
`

func TestQuiet(t *testing.T) {
	prev := log.Writer()
	t.Cleanup(func() {
		log.SetOutput(prev)
		quiet = false
		workflowFile = "workflow.yaml"
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	name := filepath.Join(t.TempDir(), "workflow.yaml")
	require.NoError(t, os.WriteFile(name, []byte(quietWorkflow), 0644))

	var logged, out, errout bytes.Buffer
	log.SetOutput(&logged)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errout)
	rootCmd.SetArgs([]string{"run", "-q", "-c", name})
	require.NoError(t, rootCmd.Execute())
	assert.Empty(t, logged.String())
	assert.Equal(t, io.Discard, log.Writer())
	assert.Contains(t, out.String(), "linear_1 (linear, sites [0 1])")

	//errors are left for main to print, once.
	rootCmd.SetArgs([]string{"log", filepath.Join(t.TempDir(), "missing.log")})
	assert.Error(t, rootCmd.Execute())
	assert.Empty(t, errout.String())
}
