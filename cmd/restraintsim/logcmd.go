/*
 * logcmd.go, part of gorestraint.
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
	"fmt"
	"io"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/rmera/gorestraint/paramlog"
	"github.com/spf13/cobra"
)

func runLog(cmd *cobra.Command, args []string) error {
	header, recs, err := paramlog.ReadAll(args[0])
	if err != nil {
		return err
	}
	return PrintLog(cmd.OutOrStdout(), header, recs)
}

//PrintLog writes the header and the records of a parameter log to out as a table.
func PrintLog(out io.Writer, header map[string]string, recs []paramlog.Record) error {
	for _, k := range slices.Sorted(maps.Keys(header)) {
		fmt.Fprintf(out, "# %s = %s\n", k, header[k])
	}
	tw := tabwriter.NewWriter(out, 0, 8, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "t\talpha\talpha_prev\tmean\tvariance\tg\teta\tgsqrsum\tconverged\t")
	for _, r := range recs {
		fmt.Fprintf(tw, "%g\t%.6g\t%.6g\t%.6g\t%.6g\t%.6g\t%.6g\t%.6g\t%t\t\n", r.T, r.Alpha, r.AlphaPrev, r.Mean, r.Variance, r.G, r.Eta, r.GSqrSum, r.Converged)
	}
	return tw.Flush()
}
