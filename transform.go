package wadc

import (
	"fmt"
	"strings"
)

// StepKind selects the statement appended by AddStep
type StepKind int

const (
	StepLine  StepKind = iota // draw(f, s)
	StepCurve                 // curve(f, s, n)
	StepJump                  // step(f, s)
)

func (k StepKind) String() string {
	switch k {
	case StepCurve:
		return "curve"
	case StepJump:
		return "jump"
	default:
		return "line"
	}
}

// ParseStepKind accepts line, curve and jump
func ParseStepKind(s string) (StepKind, error) {
	switch strings.ToLower(s) {
	case "line", "l":
		return StepLine, nil
	case "curve", "c":
		return StepCurve, nil
	case "jump", "j":
		return StepJump, nil
	}
	return StepLine, fmt.Errorf("unknown step kind %q", s)
}

// curveSubdiv is the subdivision written for interactive curves
const curveSubdiv = 8

// ProgramTransform is a rewritten source buffer. InsertPos is where the
// next statement goes.
type ProgramTransform struct {
	Source    string
	InsertPos int
	Statement string
}

// StepStatement renders the statement that moves cursor to target
func StepStatement(cursor Turtle, target Point, kind StepKind) string {
	f, s := cursor.Local(target)
	switch kind {
	case StepCurve:
		return fmt.Sprintf("curve(%d, %d, %d)", f, s, curveSubdiv)
	case StepJump:
		return fmt.Sprintf("step(%d, %d)", f, s)
	default:
		return fmt.Sprintf("draw(%d, %d)", f, s)
	}
}

// AddStep inserts a drawing statement moving cursor to target into src at
// insertPos. src itself is never modified.
func AddStep(src string, insertPos int, cursor Turtle, target Point, kind StepKind) (ProgramTransform, error) {
	if insertPos < 0 || insertPos > len(src) {
		return ProgramTransform{}, fmt.Errorf("no insertion point: the program has no main")
	}
	stmt := "  " + StepStatement(cursor, target, kind) + "\n"
	return ProgramTransform{
		Source:    src[:insertPos] + stmt + src[insertPos:],
		InsertPos: insertPos + len(stmt),
		Statement: strings.TrimSpace(stmt),
	}, nil
}

// advance moves the cursor as the inserted statement will when run
func advance(cursor Turtle, target Point, kind StepKind) Turtle {
	_, s := cursor.Local(target)
	cursor.X, cursor.Y = target.X, target.Y
	if kind == StepCurve {
		switch {
		case s > 0:
			cursor.Turn(90)
		case s < 0:
			cursor.Turn(-90)
		}
	}
	return cursor
}
