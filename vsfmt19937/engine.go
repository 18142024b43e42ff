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

package vsfmt19937

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/vrandgen/vrandgen/binmatrix"
	"github.com/vrandgen/vrandgen/lanes"
	"github.com/vrandgen/vrandgen/sfmt19937"
)

const stateLen = sfmt19937.N        // 156 128-bit words
const wordsPerState = sfmt19937.N32 // 624 32-bit sub-words

// word128Vec is one 128-bit SFMT state element, vectorized: each of its
// four 32-bit sub-words holds n_streams independent lanes, one per
// sub-stream.
type word128Vec struct {
	u [4]lanes.Vec[uint32]
}

// Engine is an N-parallel vectorized SFMT19937 generator. It holds
// n_streams = Config.Width/128 independent sub-streams in lockstep, one
// lane per sub-stream, and emits output per Config.Mode.
type Engine struct {
	cfg       Config
	nStreams  int
	state     [stateLen]word128Vec
	pos       int // next unconsumed 128-bit position, 0..stateLen
	streamIdx int // next unconsumed stream, 0..nStreams-1
	subIdx    int // next unconsumed 32-bit sub-word within that stream's 128-bit word, 0..3
}

// New constructs an Engine per the seeding and jump-apply layer:
//  1. seed sub-state 0 with the canonical key-array algorithm and period
//     certification;
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

	ref := sfmt19937.NewReference(key)
	state0, _ := ref.RawState()

	for i := 0; i < commonJumpRepeat; i++ {
		state0 = sfmt19937.ApplyToState(commonJump, state0)
	}

	nStreams := cfg.NStreams()
	subStates := make([][wordsPerState]uint32, nStreams)
	subStates[0] = state0
	for k := 1; k < nStreams; k++ {
		if sequenceJump != nil {
			subStates[k] = sfmt19937.ApplyToState(sequenceJump, subStates[k-1])
		} else {
			subStates[k] = sfmt19937.StepOnce(subStates[k-1])
		}
	}

	e := &Engine{cfg: cfg, nStreams: nStreams}
	for i := 0; i < stateLen; i++ {
		var wv word128Vec
		for h := 0; h < 4; h++ {
			lane := lo.Map(lo.Range(nStreams), func(k, _ int) uint32 { return subStates[k][i*4+h] })
			wv.u[h] = lanes.FromSlice(lane)
		}
		e.state[i] = wv
	}
	e.refill()
	return e, nil
}

// rshift128Vec and lshift128Vec implement the SFMT128-bit byte shift,
// lane-wise, hardcoded to the one-byte shift SFMT19937 always uses
// (SL2 = SR2 = 1): each lane's 128-bit value is treated independently, so
// the cross-sub-word carry stays confined to its own stream.
func rshift128Vec(in word128Vec) word128Vec {
	var out word128Vec
	out.u[0] = lanes.Or(lanes.Shr(in.u[0], 8), lanes.Shl(in.u[1], 24))
	out.u[1] = lanes.Or(lanes.Shr(in.u[1], 8), lanes.Shl(in.u[2], 24))
	out.u[2] = lanes.Or(lanes.Shr(in.u[2], 8), lanes.Shl(in.u[3], 24))
	out.u[3] = lanes.Shr(in.u[3], 8)
	return out
}

func lshift128Vec(in word128Vec) word128Vec {
	var out word128Vec
	out.u[0] = lanes.Shl(in.u[0], 8)
	out.u[1] = lanes.Or(lanes.Shl(in.u[1], 8), lanes.Shr(in.u[0], 24))
	out.u[2] = lanes.Or(lanes.Shl(in.u[2], 8), lanes.Shr(in.u[1], 24))
	out.u[3] = lanes.Or(lanes.Shl(in.u[3], 8), lanes.Shr(in.u[2], 24))
	return out
}

// doRecursionVec is the canonical SFMT recurrence lifted lane-wise across
// n_streams independent sub-streams at once.
func doRecursionVec(a, b, c, d word128Vec, msk [4]lanes.Vec[uint32]) word128Vec {
	x := lshift128Vec(a)
	y := rshift128Vec(c)
	var r word128Vec
	for h := 0; h < 4; h++ {
		r.u[h] = lanes.Xor(a.u[h], lanes.Xor(x.u[h],
			lanes.Xor(lanes.And(lanes.Shr(b.u[h], sfmt19937.Sr1), msk[h]),
				lanes.Xor(y.u[h], lanes.Shl(d.u[h], sfmt19937.Sl1)))))
	}
	return r
}

// refill performs the vectorized SFMT19937 recurrence across all lanes
// simultaneously, mutating e.state in place in the same rolling order as
// the classical scalar genRandAll (later entries in [N-POS1, N) read
// already-updated entries from earlier in this same pass).
func (e *Engine) refill() {
	ns := e.nStreams
	msk := [4]lanes.Vec[uint32]{
		lanes.Set[uint32](sfmt19937.Msk1, ns),
		lanes.Set[uint32](sfmt19937.Msk2, ns),
		lanes.Set[uint32](sfmt19937.Msk3, ns),
		lanes.Set[uint32](sfmt19937.Msk4, ns),
	}

	const n = stateLen
	const pos1 = sfmt19937.Pos1
	r1 := e.state[n-2]
	r2 := e.state[n-1]
	i := 0
	for ; i < n-pos1; i++ {
		nv := doRecursionVec(e.state[i], e.state[i+pos1], r1, r2, msk)
		e.state[i] = nv
		r1 = r2
		r2 = nv
	}
	for ; i < n; i++ {
		nv := doRecursionVec(e.state[i], e.state[i+pos1-n], r1, r2, msk)
		e.state[i] = nv
		r1 = r2
		r2 = nv
	}
	e.pos = 0
	e.streamIdx = 0
	e.subIdx = 0
}

func (e *Engine) advance() {
	e.subIdx++
	if e.subIdx >= 4 {
		e.subIdx = 0
		e.streamIdx++
		if e.streamIdx >= e.nStreams {
			e.streamIdx = 0
			e.pos++
		}
	}
}

func (e *Engine) nextRaw() uint32 {
	if e.pos >= stateLen {
		e.refill()
	}
	v := e.state[e.pos].u[e.subIdx].Lane(e.streamIdx)
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
	want := wordsPerState * e.nStreams
	if len(out) != want {
		return fmt.Errorf("vsfmt19937: NextStateBlock: out has length %d, want %d", len(out), want)
	}
	for pos := 0; pos < stateLen; pos++ {
		for g := 0; g < e.nStreams; g++ {
			for h := 0; h < 4; h++ {
				out[pos*4*e.nStreams+g*4+h] = e.state[pos].u[h].Lane(g)
			}
		}
	}
	e.refill()
	return nil
}

// Config returns the engine's static configuration.
func (e *Engine) Config() Config { return e.cfg }
