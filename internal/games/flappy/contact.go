package flappy

import (
	"github.com/vovakirdan/tui-flappy/internal/physics"
)

// ContactKind is the outcome of classifying a contact with the actor.
type ContactKind int

const (
	ContactIgnored ContactKind = iota
	ContactScore
	ContactCollision
)

// Cause records what ended a life.
type Cause int

const (
	CauseNone Cause = iota
	CauseGround
	CauseObstacle
)

// String returns the cause name stored in the run journal.
func (c Cause) String() string {
	switch c {
	case CauseGround:
		return "ground"
	case CauseObstacle:
		return "obstacle"
	default:
		return "none"
	}
}

// Outcome is a classified contact.
type Outcome struct {
	Kind  ContactKind
	Cause Cause
}

// Classify decides what a contact means for the actor. Score triggers win
// over everything else; ground and obstacle contacts are collisions.
func Classify(c physics.Contact, actor physics.BodyID) Outcome {
	if !c.Involves(actor) {
		return Outcome{}
	}
	switch c.Other(actor).Category {
	case physics.CategoryScoreTrigger:
		return Outcome{Kind: ContactScore}
	case physics.CategoryWorld:
		return Outcome{Kind: ContactCollision, Cause: CauseGround}
	case physics.CategoryObstacle:
		return Outcome{Kind: ContactCollision, Cause: CauseObstacle}
	default:
		return Outcome{}
	}
}
