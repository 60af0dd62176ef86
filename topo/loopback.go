// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package topo

// Loopback is an in-process stand-in for Grid used by tests that want to
// exercise the real multi-rank exchange patterns (C4/C5/C6) without an
// actual MPI launch (spec.md §8's scenario 3 calls for 4 ranks arranged as
// 2x2; go test drives a single OS process, so each virtual rank instead runs
// on its own goroutine, trading channels). Point-to-point exchange uses one
// buffered inbox channel per rank.
type Loopback struct {
	p, q, thetaCoord, phiCoord, rank int
	inboxesF                         []chan []float64
}

// NewLoopbackSet returns one Loopback per rank of a p-by-q process grid,
// sharing the channels needed to exchange with each other. Callers run each
// entry's workload on its own goroutine.
func NewLoopbackSet(p, q int) []*Loopback {
	n := p * q
	inboxesF := make([]chan []float64, n)
	for i := range inboxesF {
		inboxesF[i] = make(chan []float64, 1)
	}
	set := make([]*Loopback, n)
	for t := 0; t < p; t++ {
		for ph := 0; ph < q; ph++ {
			r := t*q + ph
			set[r] = &Loopback{p: p, q: q, thetaCoord: t, phiCoord: ph, rank: r, inboxesF: inboxesF}
		}
	}
	return set
}

func (l *Loopback) P() int          { return l.p }
func (l *Loopback) Q() int          { return l.q }
func (l *Loopback) ThetaCoord() int { return l.thetaCoord }
func (l *Loopback) PhiCoord() int   { return l.phiCoord }
func (l *Loopback) Rank() int       { return l.rank }
func (l *Loopback) Size() int       { return l.p * l.q }

func (l *Loopback) flatRank(thetaCoord, phiCoord int) int { return thetaCoord*l.q + phiCoord }
func (l *Loopback) ThetaPartner(other int) int            { return l.flatRank(other, l.phiCoord) }
func (l *Loopback) PhiPartner(other int) int              { return l.flatRank(l.thetaCoord, other) }

func (l *Loopback) SendRecvFloat(partner int, send, recv []float64, sendFirst bool) {
	buf := append([]float64(nil), send...)
	if sendFirst {
		l.inboxesF[partner] <- buf
		got := <-l.inboxesF[l.rank]
		copy(recv, got)
	} else {
		got := <-l.inboxesF[l.rank]
		copy(recv, got)
		l.inboxesF[partner] <- buf
	}
}

func (l *Loopback) SendRecvComplex(partner int, send, recv []complex128, sendFirst bool) {
	sf := flattenComplex(send)
	rf := make([]float64, 2*len(recv))
	l.SendRecvFloat(partner, sf, rf, sendFirst)
	unflattenComplex(recv, rf)
}
