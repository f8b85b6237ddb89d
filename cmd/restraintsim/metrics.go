/*
 * metrics.go, part of gorestraint.
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
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "restraintsim"

//Metrics collects counters and gauges of a run, which can be written
//to a file for the node exporter's textfile collector.
type Metrics struct {
	reg *prometheus.Registry

	Steps        *prometheus.CounterVec
	UpdateErrors *prometheus.CounterVec
	Energy       *prometheus.GaugeVec
	Alpha        *prometheus.GaugeVec
}

//NewMetrics returns metrics registered in their own registry, labeled with the run ID.
func NewMetrics(runID string) *Metrics {
	M := new(Metrics)
	M.reg = prometheus.NewRegistry()
	labels := prometheus.Labels{"run": runID}
	M.Steps = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   metricsNamespace,
		Name:        "steps_total",
		Help:        "Integration steps done by each member of the ensemble.",
		ConstLabels: labels,
	}, []string{"member"})
	M.UpdateErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   metricsNamespace,
		Name:        "update_errors_total",
		Help:        "Restraint updates that failed and were retried on the next step.",
		ConstLabels: labels,
	}, []string{"restraint", "member"})
	M.Energy = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   metricsNamespace,
		Name:        "restraint_energy",
		Help:        "Energy of each restraint at the last step.",
		ConstLabels: labels,
	}, []string{"restraint", "member"})
	M.Alpha = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   metricsNamespace,
		Name:        "brmc_alpha",
		Help:        "Coupling constant of the adaptive restraints.",
		ConstLabels: labels,
	}, []string{"restraint", "member"})
	M.reg.MustRegister(M.Steps, M.UpdateErrors, M.Energy, M.Alpha)
	return M
}

//WriteTextfile writes the current values of the metrics to filename, in the text format.
func (M *Metrics) WriteTextfile(filename string) error {
	return prometheus.WriteToTextfile(filename, M.reg)
}

//Record sets the gauges from the final state of a member.
func (M *Metrics) Record(r MemberResult, names []string) {
	member := strconv.Itoa(r.Member)
	for i, name := range names {
		if i < len(r.Energies) {
			M.Energy.WithLabelValues(name, member).Set(r.Energies[i])
		}
		if a, ok := r.Alphas[name]; ok {
			M.Alpha.WithLabelValues(name, member).Set(a)
		}
	}
}
