package command

import (
	"errors"
	"fmt"
)

var (
	ErrUndoEmpty = errors.New("undo stack is empty")
	ErrRedoEmpty = errors.New("redo stack is empty")
)

// Invoker runs commands and keeps them for undo and redo.
type Invoker struct {
	undo []Command
	redo []Command
}

// Execute runs cmd. Successful commands go on the undo stack and clear the
// redo stack.
func (i *Invoker) Execute(h Host, cmd Command) error {
	if err := cmd.Execute(h); err != nil {
		return err
	}
	i.undo = append(i.undo, cmd)
	i.redo = nil
	return nil
}

// Undo reverts the most recent command. A command that fails stays on the
// undo stack.
func (i *Invoker) Undo(h Host) (Command, error) {
	if len(i.undo) == 0 {
		return nil, ErrUndoEmpty
	}
	cmd := i.undo[len(i.undo)-1]
	if err := cmd.Undo(h); err != nil {
		return cmd, fmt.Errorf("undo %s: %w", cmd.Name(), err)
	}
	i.undo = i.undo[:len(i.undo)-1]
	i.redo = append(i.redo, cmd)
	return cmd, nil
}

// Redo re-executes the most recently undone command. A command that fails
// stays on the redo stack.
func (i *Invoker) Redo(h Host) (Command, error) {
	if len(i.redo) == 0 {
		return nil, ErrRedoEmpty
	}
	cmd := i.redo[len(i.redo)-1]
	if err := cmd.Execute(h); err != nil {
		return cmd, fmt.Errorf("redo %s: %w", cmd.Name(), err)
	}
	i.redo = i.redo[:len(i.redo)-1]
	i.undo = append(i.undo, cmd)
	return cmd, nil
}

// CanUndo reports whether Undo has work.
func (i *Invoker) CanUndo() bool { return len(i.undo) > 0 }

// CanRedo reports whether Redo has work.
func (i *Invoker) CanRedo() bool { return len(i.redo) > 0 }

// Forget drops every command targeting id from both stacks. It returns
// how many were dropped.
func (i *Invoker) Forget(id string) int {
	var n, m int
	i.undo, n = without(i.undo, id)
	i.redo, m = without(i.redo, id)
	return n + m
}

func without(cmds []Command, id string) ([]Command, int) {
	kept := cmds[:0]
	for _, c := range cmds {
		if t, ok := c.(Targeted); ok && t.TargetID() == id {
			continue
		}
		kept = append(kept, c)
	}
	dropped := len(cmds) - len(kept)
	clear(cmds[len(kept):])
	return kept, dropped
}

// Clear drops both stacks.
func (i *Invoker) Clear() {
	i.undo = nil
	i.redo = nil
}
