package state

// ---------------------------------------------------------------------------
// Basic stack manipulation
// ---------------------------------------------------------------------------

// GetTop returns the index of the top value of the current frame.
func (ls *LuaState) GetTop() int {
	return ls.stack.top()
}

// AbsIndex converts idx into an absolute index.
func (ls *LuaState) AbsIndex(idx int) int {
	return ls.stack.absIndex(idx)
}

// CheckStack reports whether n more values can be pushed and reserves
// room for them.
func (ls *LuaState) CheckStack(n int) bool {
	return ls.stack.check(n)
}

// Pop removes the top n values.
func (ls *LuaState) Pop(n int) {
	for i := 0; i < n; i++ {
		ls.stack.pop()
	}
}

// Copy copies the value at fromIdx into toIdx.
func (ls *LuaState) Copy(fromIdx, toIdx int) error {
	return ls.stack.set(toIdx, ls.stack.get(fromIdx))
}

// PushValue pushes a copy of the value at idx.
func (ls *LuaState) PushValue(idx int) {
	ls.stack.push(ls.stack.get(idx))
}

// Replace pops the top value and stores it at idx.
func (ls *LuaState) Replace(idx int) error {
	if ls.stack.top() == 0 {
		return newError(ErrInvalidIndex, "replace on an empty stack")
	}
	if err := ls.stack.set(idx, ls.stack.get(-1)); err != nil {
		return err
	}
	ls.stack.pop()
	return nil
}

// Insert moves the top value into idx, shifting the values above it up.
func (ls *LuaState) Insert(idx int) error {
	return ls.Rotate(idx, 1)
}

// Remove deletes the value at idx, shifting the values above it down.
func (ls *LuaState) Remove(idx int) error {
	if err := ls.Rotate(idx, -1); err != nil {
		return err
	}
	ls.stack.pop()
	return nil
}

// Rotate rotates the values between idx and the top n positions toward
// the top (or -n positions toward idx when n is negative).
func (ls *LuaState) Rotate(idx, n int) error {
	t := ls.stack.top() - 1         // end of the segment
	p := ls.stack.absIndex(idx) - 1 // start of the segment
	if p < 0 || p > t+1 || abs(n) > t-p+1 {
		return newError(ErrInvalidIndex, "cannot rotate %d by %d (top %d)", idx, n, t+1)
	}

	var m int // end of the prefix
	if n >= 0 {
		m = t - n
	} else {
		m = p - n - 1
	}
	ls.stack.reverse(p, m)
	ls.stack.reverse(m+1, t)
	ls.stack.reverse(p, t)
	return nil
}

// SetTop sets the top of the current frame to idx, dropping values or
// filling with nil as needed.
func (ls *LuaState) SetTop(idx int) error {
	newTop := ls.stack.absIndex(idx)
	if newTop < 0 {
		return newError(ErrInvalidIndex, "stack underflow setting top to %d", idx)
	}
	if newTop > ls.maxSlots {
		return newError(ErrStackOverflow, "more than %d slots in one frame", ls.maxSlots)
	}

	n := ls.stack.top() - newTop
	switch {
	case n > 0:
		ls.Pop(n)
	case n < 0:
		ls.stack.check(-n)
		for ; n < 0; n++ {
			ls.stack.push(Nil)
		}
	}
	return nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
