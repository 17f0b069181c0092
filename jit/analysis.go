package jit

import "github.com/tapehead/bf"

// BoundsAnalysis answers whether a head movement or offset access can be
// proven safe ahead of time, so Compile can elide the runtime check. The
// same interface backs both the checked abstract interpreter and the
// always-false NoAnalysis used in unchecked mode.
type BoundsAnalysis interface {
	MoveRight(n bf.Count) bool
	MoveLeft(n bf.Count) bool
	CheckRight(k bf.Count) bool
	CheckLeft(k bf.Count) bool
	ResetRight()
	ResetLeft()
	EnterLoop()
	LeaveLoop()
}

// noAnalysis answers false for every predicate. Selected when the JIT is
// compiled unchecked, where the emitter skips checks unconditionally
// regardless of what this reports.
type noAnalysis struct{}

func (noAnalysis) MoveRight(bf.Count) bool  { return false }
func (noAnalysis) MoveLeft(bf.Count) bool   { return false }
func (noAnalysis) CheckRight(bf.Count) bool { return false }
func (noAnalysis) CheckLeft(bf.Count) bool  { return false }
func (noAnalysis) ResetRight()              {}
func (noAnalysis) ResetLeft()               {}
func (noAnalysis) EnterLoop()               {}
func (noAnalysis) LeaveLoop()               {}

// abstractInterpreter tracks, for each side of the head, the minimum
// number of cells known to remain before that side's tape edge. A slack
// of 0 means "unknown, must check". Movements that are proved consume
// slack; movements that aren't proved drive slack to 0. Once unknown, a
// side stays unknown: nothing here re-derives slack from a successful
// runtime check.
type abstractInterpreter struct {
	rightSlack bf.Count
	leftSlack  bf.Count

	// snapshots mirrors the loop-entry stack; dirtyRight/dirtyLeft mirror
	// it one-for-one, recording whether the corresponding loop body
	// contained any unresolved movement or reset on that side.
	snapshots  []snapshot
	dirtyRight []bool
	dirtyLeft  []bool
}

type snapshot struct {
	rightSlack bf.Count
	leftSlack  bf.Count
}

// newAbstractInterpreter starts with both sides unknown: nothing is known
// about the caller's tape capacity at compile time.
func newAbstractInterpreter() *abstractInterpreter {
	return &abstractInterpreter{}
}

func (a *abstractInterpreter) MoveRight(n bf.Count) bool {
	if a.rightSlack >= n {
		a.rightSlack -= n
		return true
	}
	a.rightSlack = 0
	a.markDirty(true)
	return false
}

func (a *abstractInterpreter) MoveLeft(n bf.Count) bool {
	if a.leftSlack >= n {
		a.leftSlack -= n
		return true
	}
	a.leftSlack = 0
	a.markDirty(false)
	return false
}

func (a *abstractInterpreter) CheckRight(k bf.Count) bool {
	return a.rightSlack >= k
}

func (a *abstractInterpreter) CheckLeft(k bf.Count) bool {
	return a.leftSlack >= k
}

func (a *abstractInterpreter) ResetRight() {
	a.rightSlack = 0
	a.markDirty(true)
}

func (a *abstractInterpreter) ResetLeft() {
	a.leftSlack = 0
	a.markDirty(false)
}

func (a *abstractInterpreter) markDirty(right bool) {
	if len(a.snapshots) == 0 {
		return
	}
	top := len(a.snapshots) - 1
	if right {
		a.dirtyRight[top] = true
	} else {
		a.dirtyLeft[top] = true
	}
}

// EnterLoop snapshots both sides' slack before the loop body is emitted.
func (a *abstractInterpreter) EnterLoop() {
	a.snapshots = append(a.snapshots, snapshot{rightSlack: a.rightSlack, leftSlack: a.leftSlack})
	a.dirtyRight = append(a.dirtyRight, false)
	a.dirtyLeft = append(a.dirtyLeft, false)
}

// LeaveLoop restores the entry snapshot, then invalidates any side the
// body touched with an unresolved movement or reset — a loop may run zero
// or many times, so a side only proved safe for one textual pass through
// the body cannot be trusted beyond it.
func (a *abstractInterpreter) LeaveLoop() {
	top := len(a.snapshots) - 1
	snap := a.snapshots[top]
	dirtyR := a.dirtyRight[top]
	dirtyL := a.dirtyLeft[top]
	a.snapshots = a.snapshots[:top]
	a.dirtyRight = a.dirtyRight[:top]
	a.dirtyLeft = a.dirtyLeft[:top]

	a.rightSlack = snap.rightSlack
	a.leftSlack = snap.leftSlack
	if dirtyR {
		a.rightSlack = 0
	}
	if dirtyL {
		a.leftSlack = 0
	}
}
