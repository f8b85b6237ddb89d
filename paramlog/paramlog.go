/*
 * paramlog.go, part of gorestraint.
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

/*Package paramlog writes and reads logs of the parameters learned by the adaptive
restraints. A log is a text file, optionally compressed, with a header of key=value
lines, a "** N" line giving the number of fields per record, and one record per line.

The compression is chosen from the file name: ".zst" uses zstd, ".gz" gzip, ".fl"
raw deflate. Any other name gives a plain text log.
*/
package paramlog

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

//Record is the state of an adaptive restraint after one update window.
type Record struct {
	T         float64 //simulation time of the update
	Alpha     float64
	AlphaPrev float64
	Mean      float64
	Variance  float64
	G         float64 //gradient
	Eta       float64 //step size
	GSqrSum   float64
	Converged bool
}

//RecordWriter is implemented by anything that can store records.
type RecordWriter interface {
	Write(r Record) error
}

const nfields int = 9

func (r Record) encode() string {
	conv := 0.0
	if r.Converged {
		conv = 1
	}
	f := [nfields]float64{r.T, r.Alpha, r.AlphaPrev, r.Mean, r.Variance, r.G, r.Eta, r.GSqrSum, conv}
	s := make([]string, nfields)
	for i, v := range f {
		s[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(s, " ") + "\n"
}

func decode(str string) (Record, error) {
	var r Record
	s := strings.Fields(str)
	if len(s) != nfields {
		return r, fmt.Errorf("Ill formated record: %d fields instead of %d: %s", len(s), nfields, str)
	}
	var f [nfields]float64
	for i, v := range s {
		var err error
		f[i], err = strconv.ParseFloat(v, 64)
		if err != nil {
			return r, fmt.Errorf("Can't parse field %d (%s). Error: %s", i, v, err.Error())
		}
	}
	r = Record{T: f[0], Alpha: f[1], AlphaPrev: f[2], Mean: f[3], Variance: f[4], G: f[5], Eta: f[6], GSqrSum: f[7], Converged: f[8] != 0}
	return r, nil
}

func encodeHeader(header map[string]string) (string, error) {
	var b strings.Builder
	for _, k := range slices.Sorted(maps.Keys(header)) {
		v := header[k]
		if k == "" || strings.ContainsAny(k, "=\n") || strings.Contains(v, "\n") || strings.HasPrefix(k, "**") {
			return "", fmt.Errorf("Invalid header entry %q=%q", k, v)
		}
		fmt.Fprintf(&b, "%s=%s\n", k, v)
	}
	fmt.Fprintf(&b, "** %d\n", nfields)
	return b.String(), nil
}

//Error is the error type for the package.
type Error struct {
	message  string
	filename string //the file that has problems, or empty string if none.
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("parameter log %s error: %s", err.filename, err.message)
}

//Decorate will add the dec string to the decoration slice of strings of the error,
//and return the resulting slice.
func (err Error) Decorate(dec string) []string {
	if dec == "" {
		return err.deco
	}
	err.deco = append(err.deco, dec)
	return err.deco
}

//FileName returns the name of the file associated to the error.
func (err Error) FileName() string { return err.filename }

//Critical returns true if the error is critical, false otherwise
func (err Error) Critical() bool { return err.critical }

const (
	UnIniWrite  = "Log uninitialized to write"
	UnIniRead   = "Log uninitialized to read"
	WrongFormat = "Wrong format in the log header or record"
)
