/*
 * paramlog_test.go, part of gorestraint.
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

package paramlog

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func testRecords() []Record {
	return []Record{
		{T: 0.5, Alpha: 1, AlphaPrev: 0, Mean: 4.2, Variance: 0.01, G: 0.3, Eta: 20, GSqrSum: 0.09},
		{T: 1.0, Alpha: -5, AlphaPrev: 1, Mean: 4.9, Variance: 1.0 / 3, G: math.Pi, Eta: 6.3, GSqrSum: 9.96, Converged: true},
	}
}

func TestRoundTrip(Te *testing.T) {
	dir := Te.TempDir()
	for _, name := range []string{"params.log", "params.log.zst", "params.log.gz", "params.log.fl"} {
		fname := filepath.Join(dir, name)
		W, err := NewWriter(fname, map[string]string{"restraint": "brmc_restraint_1", "target": "5"})
		if err != nil {
			Te.Fatal(err)
		}
		for _, r := range testRecords() {
			if err := W.Write(r); err != nil {
				Te.Fatal(err)
			}
		}
		if W.Len() != 2 {
			Te.Errorf("%s: expected 2 records written, got %d", name, W.Len())
		}
		if err := W.Close(); err != nil {
			Te.Fatal(err)
		}
		header, recs, err := ReadAll(fname)
		if err != nil {
			Te.Fatalf("%s: %v", name, err)
		}
		if header["restraint"] != "brmc_restraint_1" || header["target"] != "5" {
			Te.Errorf("%s: wrong header %v", name, header)
		}
		want := testRecords()
		if len(recs) != len(want) {
			Te.Fatalf("%s: read %d records, expected %d", name, len(recs), len(want))
		}
		for i := range want {
			if recs[i] != want[i] {
				Te.Errorf("%s: record %d is %+v, expected %+v", name, i, recs[i], want[i])
			}
		}
	}
}

func TestCompressed(Te *testing.T) {
	dir := Te.TempDir()
	fname := filepath.Join(dir, "params.log.zst")
	W, err := NewWriter(fname, nil)
	if err != nil {
		Te.Fatal(err)
	}
	W.Write(testRecords()[0])
	W.Close()
	raw, err := os.ReadFile(fname)
	if err != nil {
		Te.Fatal(err)
	}
	//zstd frame magic number
	if len(raw) < 4 || raw[0] != 0x28 || raw[1] != 0xb5 || raw[2] != 0x2f || raw[3] != 0xfd {
		Te.Errorf("The log was not compressed with zstd")
	}
	if err := W.Write(testRecords()[1]); err == nil {
		Te.Errorf("Writing to a closed log should fail")
	}
}

func TestMalformed(Te *testing.T) {
	dir := Te.TempDir()
	fname := filepath.Join(dir, "bad.log")
	os.WriteFile(fname, []byte("restraint=x\n** 9\n1 2 3\n"), 0644)
	if _, _, err := ReadAll(fname); err == nil {
		Te.Errorf("A record with too few fields should not be read")
	}
	os.WriteFile(fname, []byte("no header here\n"), 0644)
	if _, err := Open(fname); err == nil {
		Te.Errorf("A log without a proper header should not be opened")
	}
	if _, err := NewWriter(filepath.Join(dir, "h.log"), map[string]string{"a=b": "c"}); err == nil {
		Te.Errorf("Header keys with '=' should be rejected")
	}
}
