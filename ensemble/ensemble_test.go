/*
 * ensemble_test.go, part of gorestraint.
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

package ensemble

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal(t *testing.T) {
	h, err := Local().Handle()
	require.NoError(t, err)
	recv := make([]float64, 3)
	require.NoError(t, h.Reduce([]float64{1, 2, 3}, recv))
	assert.Equal(t, []float64{1, 2, 3}, recv)

	err = h.Reduce([]float64{1, 2}, recv)
	assert.Error(t, err)
}

func TestHandleWithoutReduce(t *testing.T) {
	var r *Resources
	_, err := r.Handle()
	assert.Error(t, err)
}

func TestReduceFailure(t *testing.T) {
	boom := errors.New("boom")
	r := NewResources("failing", func(send, recv []float64) error { return boom })
	h, err := r.Handle()
	require.NoError(t, err)
	err = h.Reduce([]float64{1}, make([]float64, 1))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failing")
}

func TestGroupSum(t *testing.T) {
	const members = 4
	results := make([][]float64, members)
	err := Run(context.Background(), members, func(ctx context.Context, member int, res *Resources) error {
		for round := 0; round < 3; round++ {
			h, err := res.Handle()
			if err != nil {
				return err
			}
			send := []float64{float64(member), 1, float64(round)}
			recv := make([]float64, 3)
			if err := h.Reduce(send, recv); err != nil {
				return err
			}
			results[member] = recv
		}
		return nil
	})
	require.NoError(t, err)
	for _, r := range results {
		assert.Equal(t, []float64{6, 4, 8}, r)
	}
}

func TestGroupMismatch(t *testing.T) {
	err := Run(context.Background(), 2, func(ctx context.Context, member int, res *Resources) error {
		h, err := res.Handle()
		if err != nil {
			return err
		}
		send := make([]float64, 2+member)
		return h.Reduce(send, make([]float64, len(send)))
	})
	assert.Error(t, err)
}

func TestRunAbortsOnFailure(t *testing.T) {
	boom := errors.New("boom")
	done := make(chan error, 1)
	go func() {
		done <- Run(context.Background(), 3, func(ctx context.Context, member int, res *Resources) error {
			if member == 0 {
				return boom
			}
			h, err := res.Handle()
			if err != nil {
				return err
			}
			return h.Reduce([]float64{1}, make([]float64, 1))
		})
	}()
	select {
	case err := <-done:
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
	case <-time.After(5 * time.Second):
		t.Fatal("members waiting for a failed member were not released")
	}
}

func TestAbort(t *testing.T) {
	g, err := NewGroup(2)
	require.NoError(t, err)
	g.Abort(nil)
	err = g.Reduce([]float64{1}, make([]float64, 1))
	assert.ErrorIs(t, err, ErrAborted)

	_, err = NewGroup(0)
	assert.Error(t, err)
}
