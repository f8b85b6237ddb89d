/*
 * histplot_test.go, part of gorestraint.
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

package histplot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rmera/gorestraint/histo"
	"github.com/rmera/gorestraint/paramlog"
)

func TestGrids(Te *testing.T) {
	blur, err := histo.NewBlur(0, 0.1, 0.3)
	if err != nil {
		Te.Fatal(err)
	}
	sim := make([]float64, 60)
	ref := make([]float64, 60)
	blur.Grid([]float64{2.1, 2.4, 2.2, 3.3}, sim)
	blur.Grid([]float64{2.5}, ref)
	name := filepath.Join(Te.TempDir(), "grids.png")
	err = Grids(name, "Distance distribution", 0.1, Series{Name: "simulated", Values: sim}, Series{Name: "experimental", Values: ref, Dashed: true})
	if err != nil {
		Te.Fatal(err)
	}
	if fi, err := os.Stat(name); err != nil || fi.Size() == 0 {
		Te.Errorf("plot not written: %v", err)
	}
	if err := Grids(name, "nothing", 0.1); err == nil {
		Te.Errorf("expected an error with no series")
	}
	if err := Grids(name, "bad", 0, Series{Name: "a", Values: sim}); err == nil {
		Te.Errorf("expected an error with a zero spacing")
	}
}

func TestCoupling(Te *testing.T) {
	recs := []paramlog.Record{
		{T: 0.5, Alpha: 1, Mean: 3.2},
		{T: 1.0, Alpha: -19, AlphaPrev: 1, Mean: 3.9},
		{T: 1.5, Alpha: -25, AlphaPrev: -19, Mean: 4.8},
	}
	name := filepath.Join(Te.TempDir(), "alpha.png")
	if err := Coupling(name, "brmc_1", recs); err != nil {
		Te.Fatal(err)
	}
	if fi, err := os.Stat(name); err != nil || fi.Size() == 0 {
		Te.Errorf("plot not written: %v", err)
	}
	if err := Coupling(name, "empty", nil); err == nil {
		Te.Errorf("expected an error with no records")
	}
}

func TestColors(Te *testing.T) {
	if r, g, b := iHVS2RGB(0, 1, 1); r != 255 || g != 0 || b != 0 {
		Te.Errorf("hue 0 should be red, got %d %d %d", r, g, b)
	}
	if r, g, b := iHVS2RGB(120, 1, 1); r != 0 || g != 255 || b != 0 {
		Te.Errorf("hue 120 should be green, got %d %d %d", r, g, b)
	}
	r0, g0, b0 := colors(0, 2)
	r1, g1, b1 := colors(1, 2)
	if r0 == r1 && g0 == g1 && b0 == b1 {
		Te.Errorf("two series got the same color")
	}
}
