/*
 * group.go, part of gorestraint.
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
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

//ErrAborted is returned by the reductions of a Group after Abort is called.
var ErrAborted = errors.New("ensemble aborted")

//Group is an in-process ensemble of size members, each of which runs in its own
//goroutine. Each reduction is a barrier: it returns when all the members
//have called Reduce. It is safe for concurrent use.
type Group struct {
	mu         sync.Mutex
	cond       *sync.Cond
	size       int
	arrived    int
	generation uint64
	acc        []float64
	accErr     error
	result     []float64
	resultErr  error
	aborted    error
}

//NewGroup returns a group for an ensemble of size members.
func NewGroup(size int) (*Group, error) {
	if size <= 0 {
		return nil, Error{message: fmt.Sprintf("invalid ensemble size %d", size), deco: []string{"NewGroup"}}
	}
	G := &Group{size: size}
	G.cond = sync.NewCond(&G.mu)
	return G, nil
}

//Size returns the number of members of the ensemble.
func (G *Group) Size() int {
	return G.size
}

//Reduce adds send to the sums of the current reduction, waits for all the members
//and puts the sum in recv. If the members give slices of different lengths,
//the reduction fails for all of them.
func (G *Group) Reduce(send, recv []float64) error {
	G.mu.Lock()
	defer G.mu.Unlock()
	if G.aborted != nil {
		return G.aborted
	}
	if G.arrived == 0 {
		G.acc = make([]float64, len(send))
		G.accErr = nil
	}
	if len(send) != len(G.acc) {
		G.accErr = fmt.Errorf("members reduced %d and %d values", len(G.acc), len(send))
	} else if G.accErr == nil {
		floats.Add(G.acc, send)
	}
	G.arrived++
	gen := G.generation
	if G.arrived == G.size {
		G.result, G.resultErr = G.acc, G.accErr
		G.acc = nil
		G.arrived = 0
		G.generation++
		G.cond.Broadcast()
	} else {
		for gen == G.generation && G.aborted == nil {
			G.cond.Wait()
		}
		if gen == G.generation {
			return G.aborted
		}
	}
	//the result can't be replaced before every member of this generation
	//is back, as all of them are needed to complete the next one.
	if G.resultErr != nil {
		return G.resultErr
	}
	if len(recv) != len(G.result) {
		return fmt.Errorf("can't put %d reduced values in %d", len(G.result), len(recv))
	}
	copy(recv, G.result)
	return nil
}

//Abort makes all the pending and future reductions fail with an error wrapping err.
func (G *Group) Abort(err error) {
	G.mu.Lock()
	defer G.mu.Unlock()
	if G.aborted != nil {
		return
	}
	if err == nil {
		err = context.Canceled
	}
	G.aborted = fmt.Errorf("%w: %w", ErrAborted, err)
	G.cond.Broadcast()
}

//Resources returns ensemble resources that reduce over the group.
func (G *Group) Resources(name string) *Resources {
	return NewResources(name, G.Reduce)
}

//MemberFunc is the work of one member of an ensemble.
type MemberFunc func(ctx context.Context, member int, res *Resources) error

//Run runs size members concurrently, each with resources that reduce over a common
//Group. If a member fails or ctx is done, the group is aborted so the other members
//don't wait forever. It returns the first error.
func Run(ctx context.Context, size int, f MemberFunc) error {
	G, err := NewGroup(size)
	if err != nil {
		return err
	}
	eg, ectx := errgroup.WithContext(ctx)
	go func() {
		<-ectx.Done()
		G.Abort(context.Cause(ectx))
	}()
	for i := 0; i < size; i++ {
		member := i
		eg.Go(func() error {
			err := f(ectx, member, G.Resources(fmt.Sprintf("member %d", member)))
			if err != nil {
				return fmt.Errorf("member %d: %w", member, err)
			}
			return nil
		})
	}
	return eg.Wait()
}
