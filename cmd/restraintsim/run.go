/*
 * run.go, part of gorestraint.
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
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	restraint "github.com/rmera/gorestraint"
	"github.com/rmera/gorestraint/config"
	"github.com/rmera/gorestraint/ensemble"
	"github.com/rmera/gorestraint/histplot"
	"github.com/rmera/gorestraint/paramlog"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"
)

//MemberResult is what is left of a replica after a run.
type MemberResult struct {
	Member    int
	Time      float64
	Energies  []float64
	Distances []float64
	//coupling constants of the brmc restraints, by name
	Alphas map[string]float64
	//current and reference histograms of the mdstring restraints, by name
	Grids        map[string][]float64
	Experimental map[string][]float64
	Dx           map[string]float64
}

func runRun(cmd *cobra.Command, args []string) error {
	w, err := config.Load(workflowFile)
	if err != nil {
		return err
	}
	if w.RunID == "" {
		w.RunID = uuid.NewString()
	}
	log.Printf("run %s: %d replicas for %d steps", w.RunID, w.Replicas, w.Steps)
	M := NewMetrics(w.RunID)
	results, err := RunWorkflow(cmd.Context(), w, M)
	if metricsFile != "" {
		//written even if the run failed, the counters tell how far it got.
		if merr := M.WriteTextfile(metricsFile); merr != nil {
			log.Printf("can't write the metrics: %v", merr)
		}
	}
	if err != nil {
		return err
	}
	Summary(cmd.OutOrStdout(), w, results)
	if plotDir != "" {
		return Plots(plotDir, w, results)
	}
	return nil
}

//RunWorkflow runs all the replicas of w concurrently, each with its own set of
//restraints, and returns the state of each replica at the end. M can be nil.
func RunWorkflow(ctx context.Context, w *config.Workflow, M *Metrics) ([]MemberResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	o := WorkflowOptions(w)
	results := make([]MemberResult, w.Replicas)
	err := ensemble.Run(ctx, w.Replicas, func(ctx context.Context, member int, res *ensemble.Resources) error {
		set, err := w.Build(member, res)
		if err != nil {
			return err
		}
		S, err := NewSystem(w.Positions, set, member, o)
		if err != nil {
			set.Close()
			return err
		}
		S.SetMetrics(M)
		runErr := S.Run(ctx)
		//the logs must be closed even if the run failed.
		if err := set.Close(); err != nil && runErr == nil {
			runErr = err
		}
		if runErr != nil {
			return runErr
		}
		results[member] = collect(member, S, set)
		if M != nil {
			M.Record(results[member], set.Names)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func collect(member int, S *System, set *config.Set) MemberResult {
	r := MemberResult{
		Member:       member,
		Time:         S.Time(),
		Energies:     append([]float64(nil), S.Energies()...),
		Alphas:       make(map[string]float64),
		Grids:        make(map[string][]float64),
		Experimental: make(map[string][]float64),
		Dx:           make(map[string]float64),
	}
	for i, name := range set.Names {
		s := set.Restraints[i].Sites()
		r.Distances = append(r.Distances, S.Coords().Distance(s[0], s[1]))
		if b := set.BRMC(name); b != nil {
			r.Alphas[name] = b.Alpha()
		}
		if m := set.MDString(name); m != nil {
			g := m.Grid()
			r.Grids[name] = g.Copy()
			r.Experimental[name] = m.Experimental().Copy()
			r.Dx[name] = g.Dx()
		}
	}
	return r
}

//Summary prints, for each restraint, the energy, distance and coupling constant
//(if any) of each replica, and the mean and standard deviation of the distance
//over the ensemble.
func Summary(out io.Writer, w *config.Workflow, results []MemberResult) {
	for i, e := range w.Restraints {
		fmt.Fprintf(out, "%s (%s, sites %v)\n", e.Name, e.Kind, e.Sites)
		dists := make([]float64, 0, len(results))
		for _, r := range results {
			fmt.Fprintf(out, "  member %d t=%g energy=%.6g distance=%.6g", r.Member, r.Time, r.Energies[i], r.Distances[i])
			if a, ok := r.Alphas[e.Name]; ok {
				fmt.Fprintf(out, " alpha=%.6g", a)
			}
			fmt.Fprintln(out)
			dists = append(dists, r.Distances[i])
		}
		if len(dists) > 1 {
			mean, std := stat.MeanStdDev(dists, nil)
			fmt.Fprintf(out, "  distance over the ensemble: %.6g +/- %.6g\n", mean, std)
		}
	}
}

//Plots writes, to dir, the histograms of the mdstring restraints of the first member
//(all members share them) and the coupling trajectories of the logged brmc restraints.
func Plots(dir string, w *config.Workflow, results []MemberResult) error {
	if len(results) == 0 {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	first := results[0]
	for _, e := range w.Restraints {
		switch e.Kind {
		case config.KindMDString:
			name := filepath.Join(dir, e.Name+".png")
			err := histplot.Grids(name, e.Name, first.Dx[e.Name],
				histplot.Series{Name: "ensemble", Values: first.Grids[e.Name]},
				histplot.Series{Name: "experimental", Values: first.Experimental[e.Name], Dashed: true})
			if err != nil {
				return err
			}
		case config.KindBRMC:
			if e.Log == "" {
				continue
			}
			for _, r := range results {
				_, recs, err := paramlog.ReadAll(config.LogName(e.Log, r.Member, w.Replicas))
				if err != nil {
					return restraint.ErrDecorate(err, "Plots")
				}
				if len(recs) == 0 {
					log.Printf("restraint %s, member %d: no windows completed, nothing to plot", e.Name, r.Member)
					continue
				}
				name := filepath.Join(dir, fmt.Sprintf("%s_m%d.png", e.Name, r.Member))
				if err := histplot.Coupling(name, e.Name, recs); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
