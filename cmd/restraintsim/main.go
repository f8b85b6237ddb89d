/*
 * main.go, part of gorestraint.
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

//restraintsim runs ensembles of toy simulations with the restraints of a workflow
//file, and dumps the parameter logs of adaptive restraints.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	workflowFile string
	plotDir      string
	metricsFile  string
	quiet        bool

	rootCmd = &cobra.Command{
		Use:   "restraintsim",
		Short: "Drives pair restraints with a toy ensemble simulation",
		Long: `restraintsim integrates an ensemble of small overdamped Langevin systems,
applying the restraints described in a workflow file to each of them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if quiet {
				log.SetOutput(io.Discard)
			}
		},
	}

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Runs the ensemble described in a workflow file",
		Args:  cobra.NoArgs,
		RunE:  runRun, // Defined in run.go
	}

	logCmd = &cobra.Command{
		Use:   "log [parameter log]",
		Short: "Prints the header and records of a parameter log",
		Args:  cobra.ExactArgs(1),
		RunE:  runLog, // Defined in logcmd.go
	}
)

func init() {
	runCmd.Flags().StringVarP(&workflowFile, "config", "c", "workflow.yaml", "workflow file, YAML or JSON")
	runCmd.Flags().StringVar(&plotDir, "plot", "", "directory for png plots of histograms and coupling constants")
	runCmd.Flags().StringVar(&metricsFile, "metrics", "", "file for run metrics in the prometheus text format")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only print errors")
	rootCmd.AddCommand(runCmd, logCmd)
}

func main() {
	log.SetPrefix("restraintsim: ")
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
