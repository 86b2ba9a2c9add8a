// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"sync"
	"time"
)

type commandKind uint8

const (
	cmdPlay commandKind = iota
	cmdStop
	cmdSetVolume
	cmdFadeTo
	cmdFadeOut
	cmdSetPan
	cmdSetSpeed
	cmdSetMute
	cmdSetGroupVolume
	cmdSetGroupMute
	cmdSetMasterVolume
	cmdStopAll
)

// command is one control request. Only the fields its kind needs are set.
type command struct {
	kind     commandKind
	handle   Handle
	group    GroupID
	value    float32
	flag     bool
	duration time.Duration

	asset  Asset
	params PlayParams
}

// commandQueue carries commands from the control side to the render side
// in arrival order. Producers append under the mutex; the render side swaps
// the pending slice for a spare one, so neither side ever waits on the
// other for longer than an append.
type commandQueue struct {
	pending []command
	spare   []command

	mtx sync.Mutex
}

func newCommandQueue(capacity int) *commandQueue {
	return &commandQueue{
		pending: make([]command, 0, capacity),
		spare:   make([]command, 0, capacity),
	}
}

func (q *commandQueue) push(c command) {
	q.mtx.Lock()
	q.pending = append(q.pending, c)
	q.mtx.Unlock()
}

// drain returns every queued command. The slice stays valid until the
// next drain, which must come from the same goroutine.
func (q *commandQueue) drain() []command {
	q.mtx.Lock()
	batch := q.pending
	clear(q.spare)
	q.pending = q.spare[:0]
	q.spare = batch
	q.mtx.Unlock()

	return batch
}
