package mcts

import (
	"context"
	"math"
	"time"
)

type StopReason int

const (
	StopNone      StopReason = iota
	StopInterrupt            = 1  // Stopped by user, by calling .SetStop(true) or context cancellation
	StopMovetime             = 2  // Time limit reached
	StopMemory               = 4  // Memory limit reached
	StopDepth                = 8  // Depth limit reached
	StopCycles               = 16 // Cycle limit reached
)

func (sr StopReason) String() string {
	if sr == StopNone {
		return "None"
	}

	reasons := []struct {
		flag StopReason
		name string
	}{
		{StopInterrupt, "Interrupt"},
		{StopMovetime, "Movetime"},
		{StopMemory, "Memory"},
		{StopDepth, "Depth"},
		{StopCycles, "Cycles"},
	}

	var result string
	for _, r := range reasons {
		if sr&r.flag == r.flag {
			if result != "" {
				result += "|"
			}
			result += r.name
		}
	}

	return result
}

const (
	stopMask   int = StopInterrupt
	timeMask   int = StopMovetime
	memoryMask int = StopMemory
	depthMask  int = StopDepth
	cyclesMask int = StopCycles
)

// Limiter decides between iterations whether a Search may run another
// cycle. Deadline misses mid-cycle cannot happen: a cycle runs to
// completion and the in-flight work of a would-be overrun is simply the
// cycle that never starts.
type Limiter struct {
	limits     *Limits
	clock      deadline
	nodeSize   uint32
	maxSize    uint32
	expand     bool
	stop       bool
	areSetMask int
	reason     StopReason
	ctx        context.Context
}

func NewLimiter(nodesize uint32) *Limiter {
	limiter := &Limiter{
		limits:   DefaultLimits(),
		clock:    deadline{start: time.Now()},
		nodeSize: nodesize,
		expand:   true,
		ctx:      context.Background(),
	}
	return limiter
}

func (l *Limiter) Reset() {
	l.clock.set(l.limits.Movetime)
	l.clock.restart()
	l.stop = false
	l.expand = true
	l.reason = StopNone

	// Calculate the size bound in nodes, memory expressed as node count.
	// Byte budgets beyond the uint32 range clamp instead of wrapping.
	l.maxSize = l.limits.Nodes
	if l.limits.ByteSize != DefaultByteSizeLimit {
		byteSize := min(l.limits.ByteSize, int64(math.MaxUint32))
		l.maxSize = min(l.maxSize, uint32(byteSize)/l.nodeSize)
	}

	// Pre-calculate 'are set' limit mask, see 'Ok' method for more explanation
	l.areSetMask = toMask(l.clock.bounded(), 1) |
		toMask(l.maxSize != math.MaxUint32, 2) |
		toMask(l.limits.Depth != DefaultDepthLimit, 3) |
		toMask(l.limits.Cycles != DefaultCyclesLimit, 4)
}

func (l *Limiter) EvaluateStopReason(size, depth, cycles uint32) {
	okMask := l.OkMask(size, depth, cycles)
	reason := StopNone

	if okMask&stopMask == stopMask {
		reason |= StopInterrupt
	}

	if okMask&timeMask == timeMask {
		reason |= StopMovetime
	}

	if okMask&memoryMask == memoryMask {
		reason |= StopMemory
	}

	if okMask&depthMask == depthMask {
		reason |= StopDepth
	}

	if okMask&cyclesMask == cyclesMask {
		reason |= StopCycles
	}

	l.reason = reason
}

func (l *Limiter) StopReason() StopReason {
	return l.reason
}

// Adds custom context to the limiter, enabling cancellation through it
func (l *Limiter) SetContext(ctx context.Context) {
	l.ctx = ctx
}

func (l *Limiter) SetStop(v bool) {
	l.stop = v
}

func (l *Limiter) Stop() bool {
	select {
	case <-l.ctx.Done():
		l.stop = true
	default:
	}
	return l.stop
}

func (l *Limiter) SetLimits(limits *Limits) {
	l.limits = limits
}

func (l *Limiter) Limits() *Limits {
	return l.limits
}

// Elapsed time in ms since the last Reset
func (l *Limiter) Elapsed() uint32 {
	return uint32(l.clock.elapsed())
}

// Whether the tree may still grow
func (l *Limiter) Expand() bool {
	return l.expand
}

func toMask(val bool, offset int) int {
	if val {
		return 1 << offset
	}
	return 0
}

func (l *Limiter) LimitMask(size, depth, cycles uint32) int {
	stop := l.Stop()
	// If infinite, always return 0 (no limits reached)
	if l.limits.Infinite {
		return toMask(stop, 0)
	}

	limitMask := 0

	limitMask |= toMask(stop, 0)
	limitMask |= toMask(l.clock.exceeded(), 1)
	limitMask |= toMask(l.maxSize <= size, 2)
	limitMask |= toMask(l.limits.Depth <= int(depth), 3)
	limitMask |= toMask(l.limits.Cycles <= cycles, 4)

	return limitMask
}

func (l *Limiter) OkMask(size, depth, cycles uint32) int {
	limitMask := l.LimitMask(size, depth, cycles)

	// Hierachy of stop signals
	// 1. stop
	// 2. Movetime
	// 3. Memory
	// 4. Depth

	// Check the combos:
	// (time/nodes/cycles or any combination of them) AND memory limit ->
	// if memory is exhausted, disable expanding of the tree and wait for the other limitation/s
	if (l.areSetMask&memoryMask) == memoryMask && (l.areSetMask&(timeMask|cyclesMask)) != 0 {
		// Memory exhausted
		if limitMask&memoryMask == memoryMask {
			l.expand = false
			limitMask ^= memoryMask // remove memory limitation
		}
	}

	return limitMask
}

// Whether the search may run another cycle
func (l *Limiter) Ok(size, depth, cycles uint32) bool {
	return l.OkMask(size, depth, cycles) == 0
}
