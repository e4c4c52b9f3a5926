package command

import (
	"fmt"

	"github.com/example/polyshot/internal/canvas"
	"github.com/example/polyshot/internal/component"
)

// NameChangePolygonColor is the registry name of ChangePolygonColor.
const NameChangePolygonColor = "changePolygonColor"

func init() {
	Register(NameChangePolygonColor, func(args ...any) (Command, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("%s: want (id, color), got %d args", NameChangePolygonColor, len(args))
		}
		id, ok := args[0].(string)
		if !ok {
			return nil, fmt.Errorf("%s: id must be a string, got %T", NameChangePolygonColor, args[0])
		}
		color, ok := args[1].(string)
		if !ok {
			return nil, fmt.Errorf("%s: color must be a string, got %T", NameChangePolygonColor, args[1])
		}
		return NewChangePolygonColor(id, color), nil
	})
}

type colorRecord struct {
	object canvas.Object
	color  string
}

// ChangePolygonColor recolors one polygon.
type ChangePolygonColor struct {
	ID    string
	Color string

	undo *colorRecord
}

// NewChangePolygonColor returns a command setting the fill of id to color.
func NewChangePolygonColor(id, color string) *ChangePolygonColor {
	return &ChangePolygonColor{ID: id, Color: color}
}

// Name implements Command.
func (c *ChangePolygonColor) Name() string { return NameChangePolygonColor }

// TargetID returns the id of the polygon the command edits.
func (c *ChangePolygonColor) TargetID() string { return c.ID }

// Execute records the current fill of the target and applies Color. A
// missing target returns ErrNoObject and changes nothing.
func (c *ChangePolygonColor) Execute(h Host) error {
	comp, err := colorer(h, component.NamePolygon)
	if err != nil {
		return err
	}
	obj, ok := h.Object(c.ID)
	if !ok {
		return fmt.Errorf("%s %s: %w", NameChangePolygonColor, c.ID, ErrNoObject)
	}
	prior := comp.Color(obj)
	if err := comp.SetColor(c.Color, obj); err != nil {
		return fmt.Errorf("%s %s: %w", NameChangePolygonColor, c.ID, err)
	}
	c.undo = &colorRecord{object: obj, color: prior}
	return nil
}

// Undo restores the recorded fill and consumes the record.
func (c *ChangePolygonColor) Undo(h Host) error {
	if c.undo == nil {
		return fmt.Errorf("%s %s: %w", NameChangePolygonColor, c.ID, ErrNoUndoRecord)
	}
	comp, err := colorer(h, component.NamePolygon)
	if err != nil {
		return err
	}
	rec := c.undo
	c.undo = nil
	return comp.RestoreColor(rec.color, rec.object)
}
