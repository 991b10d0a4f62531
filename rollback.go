package dhparser

import "github.com/emirpasic/gods/stacks/arraystack"

// undoEntry is one reversible side effect performed by a context-sensitive
// parser (§3(f), §4.2). It records the call location it was made at;
// rollbackTo finds the entries to undo by watermark (see mark), not by
// location, and replays them in reverse order.
type undoEntry struct {
	loc  int
	undo func()
}

// rollbackLog is the append-only-during-forward-progress log of undo
// entries described in §3(f) and §5. It is backed by gods' array stack,
// the same structure the rest of the engine uses for the call stack, so
// that "stack of X" in the spec maps onto one concrete data structure
// throughout.
type rollbackLog struct {
	entries *arraystack.Stack
}

func newRollbackLog() *rollbackLog {
	return &rollbackLog{entries: arraystack.New()}
}

// mark returns a watermark that rollbackTo can later rewind to.
func (rl *rollbackLog) mark() int {
	return rl.entries.Size()
}

// push records a new reversible mutation.
func (rl *rollbackLog) push(loc int, undo func()) {
	rl.entries.Push(undoEntry{loc: loc, undo: undo})
}

// rollbackTo invokes every undo entry recorded since mark, in reverse
// (LIFO) order, then truncates the log back to mark. This is invoked
// whenever a containing Alternative chooses a different branch or a
// containing repetition discards a failed iteration (§4.2).
func (rl *rollbackLog) rollbackTo(mark int) {
	for rl.entries.Size() > mark {
		v, _ := rl.entries.Pop()
		v.(undoEntry).undo()
	}
}

// size reports how many undo entries are currently recorded.
func (rl *rollbackLog) size() int {
	return rl.entries.Size()
}
