/*
 * doc.go, part of gorestraint.
 *
 * Copyright 2012 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
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

/*Package restraint is the main package of the goRestraint library. It provides the interfaces
shared by the pairwise restraint potentials that a molecular dynamics engine can apply
between two particle sites, the generic module used to create restraints from their
parameters, and helpers to apply restraints on coordinate matrices.



	**goRestraint Capabilities**


    Adaptive coupling (BRMC) restraint, package brmc. The coupling strength is learned
	online from the observed distance between the sites, using windowed mean/variance
	estimates and an Adagrad gradient step.

    Histogram (MD string) restraint, package mdstring. Distance samples collected over a
	window are blurred with Gaussian kernels onto a grid, summed over the ensemble of
	replicas, and the smoothed histogram defines the restoring force.

    Linear restraint, package linear.

    Gaussian blur of samples onto 1D grids, package histo.

    Ensemble reductions, in-process for concurrent replicas, package ensemble.

    Compressed logs of the learned parameters, package paramlog, and plots
	of histograms and coupling constants, package histplot.

    Workflows read from YAML or JSON files, package config, and a small driver
	program, cmd/restraintsim.


Restraints are not safe for concurrent use. The host calls Update and Evaluate
sequentially, from a single goroutine, once per step.

*/
package restraint
