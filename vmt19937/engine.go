// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vmt19937

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/vrandgen/vrandgen/binmatrix"
	"github.com/vrandgen/vrandgen/lanes"
	"github.com/vrandgen/vrandgen/mt19937"
)

const stateLen = mt19937.StateWords // 624

// Engine is an N-parallel vectorized MT19937 generator. It holds
// n_streams = Config.Width/32 independent sub-streams in lockstep, one
// lane per sub-stream, and emits output per Config.Mode.
type Engine struct {
	cfg      Config
	nStreams int
	state    [stateLen]lanes.Vec[uint32]
	pos      int // next unconsumed position in state, 0..stateLen
	lane     int // next unconsumed lane within state[pos], 0..nStreams-1
}

// New constructs an Engine per the seeding and jump-apply layer:
//  1. seed sub-state 0 with the canonical key-array algorithm;
//  2. if commonJumpRepeat > 0, apply commonJump that many times to sub-state 0;
//  3. derive sub-states 1..n_streams-1 by repeatedly applying sequenceJump
//     (or, if nil, the cheap scalar unit step) to the previous sub-state;
//  4. assemble the interleaved lane state and perform the initial refill.
//
// Precondition: (commonJumpRepeat > 0) iff (commonJump != nil); violating
// it returns ErrInvalidArguments, as does an empty seed key or an invalid
// Config.
func New(cfg Config, key []uint32, commonJumpRepeat int, commonJump, sequenceJump *binmatrix.Square) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(key) == 0 {
		return nil, fmt.Errorf("%w: seed key must have length >= 1", ErrInvalidArguments)
	}
	if (commonJumpRepeat > 0) != (commonJump != nil) {
		return nil, fmt.Errorf("%w: commonJumpRepeat>0 iff commonJump present", ErrInvalidArguments)
	}

	ref := mt19937.NewReference(key)
	state0, _ := ref.RawState()
	state0[0] &= 0x80000000

	for i := 0; i < commonJumpRepeat; i++ {
		state0 = mt19937.ApplyToState(commonJump, state0)
	}

	nStreams := cfg.NStreams()
	subStates := make([][stateLen]uint32, nStreams)
	subStates[0] = state0
	for k := 1; k < nStreams; k++ {
		if sequenceJump != nil {
			subStates[k] = mt19937.ApplyToState(sequenceJump, subStates[k-1])
		} else {
			subStates[k] = mt19937.StepOnce(subStates[k-1])
		}
	}

	e := &Engine{cfg: cfg, nStreams: nStreams}
	for i := 0; i < stateLen; i++ {
		lane := lo.Map(lo.Range(nStreams), func(k, _ int) uint32 { return subStates[k][i] })
		e.state[i] = lanes.FromSlice(lane)
	}
	e.refill()
	return e, nil
}

// refill performs the vectorized MT19937 twist across all lanes
// simultaneously, mutating e.state in place in the same sequential order
// (and over the same three index ranges, split at n-m) as the classical
// scalar refill: later entries in the [n-m, n-1) and final-element ranges
// deliberately read already-updated entries from earlier in this same
// pass, exactly mirroring the circular in-place update mt19937ar.c uses.
func (e *Engine) refill() {
	ns := e.nStreams
	upper := lanes.Set[uint32](mt19937.UpperMask, ns)
	lower := lanes.Set[uint32](mt19937.LowerMask, ns)
	magA := lanes.Set[uint32](mt19937.MatrixA, ns)
	mag0 := lanes.Set[uint32](0, ns)
	one := lanes.Set[uint32](1, ns)

	twist := func(cur, next, far lanes.Vec[uint32]) lanes.Vec[uint32] {
		y := lanes.Or(lanes.And(cur, upper), lanes.And(next, lower))
		lsb := lanes.And(y, one)
		sel := lanes.Blend(lsb, mag0, magA)
		return lanes.Xor(far, lanes.Xor(lanes.Shr(y, 1), sel))
	}

	const n = stateLen
	const m = mt19937.M
	var kk int
	for kk = 0; kk < n-m; kk++ {
		e.state[kk] = twist(e.state[kk], e.state[kk+1], e.state[kk+m])
	}
	for ; kk < n-1; kk++ {
		e.state[kk] = twist(e.state[kk], e.state[kk+1], e.state[kk+(m-n)])
	}
	e.state[n-1] = twist(e.state[n-1], e.state[0], e.state[m-1])
	e.pos = 0
	e.lane = 0
}

func (e *Engine) advance() {
	e.lane++
	if e.lane >= e.nStreams {
		e.lane = 0
		e.pos++
	}
}

func (e *Engine) nextRaw() uint32 {
	if e.pos >= stateLen {
		e.refill()
	}
	v := mt19937.Temper(e.state[e.pos].Lane(e.lane))
	e.advance()
	return v
}

// NextUint32 emits the next 32-bit word. Valid only in Scalar mode.
func (e *Engine) NextUint32() (uint32, error) {
	if e.cfg.Mode != Scalar {
		return 0, ErrUnsupported
	}
	return e.nextRaw(), nil
}

// NextBlock16 fills out with the next 16 consecutive 32-bit words in the
// engine's interleaving order. Valid only in Block16 mode.
func (e *Engine) NextBlock16(out *[16]uint32) error {
	if e.cfg.Mode != Block16 {
		return ErrUnsupported
	}
	for i := range out {
		out[i] = e.nextRaw()
	}
	return nil
}

// NextStateBlock drains one full refill's worth of words (624*n_streams)
// into out, in the engine's interleaving order, then triggers a refill.
// Valid only in StateSize mode. len(out) must equal 624*n_streams.
func (e *Engine) NextStateBlock(out []uint32) error {
	if e.cfg.Mode != StateSize {
		return ErrUnsupported
	}
	want := stateLen * e.nStreams
	if len(out) != want {
		return fmt.Errorf("vmt19937: NextStateBlock: out has length %d, want %d", len(out), want)
	}
	for seqIndex := 0; seqIndex < stateLen; seqIndex++ {
		for genIndex := 0; genIndex < e.nStreams; genIndex++ {
			out[seqIndex*e.nStreams+genIndex] = mt19937.Temper(e.state[seqIndex].Lane(genIndex))
		}
	}
	e.refill()
	return nil
}

// Config returns the engine's static configuration.
func (e *Engine) Config() Config { return e.cfg }
