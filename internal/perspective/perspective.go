// Package perspective classifies battle sides from the local observer's
// viewpoint. Classification happens once per battle, at initialization.
package perspective

import (
	"fmt"

	"github.com/sveniik/battletrack/internal/model"
)

// Info is the per-battle side classification. NearSide indexes into
// BattleStart.Sides; when the observer is a spectator, side 0 is treated as
// near by convention so observation UIs keep a consistent left/right framing.
type Info struct {
	Spectating bool
	NearSide   int
	// Representative display names per side, used to disambiguate mirror
	// matchups. Empty when no actor on the side has a name (e.g. wild
	// battles); consumers skip name disambiguation for that side.
	NearName string
	FarName  string
}

// Label returns the near/far classification for a side index.
func (i Info) Label(sideIndex int) model.SideLabel {
	if sideIndex == i.NearSide {
		return model.SideNear
	}
	return model.SideFar
}

// firstActorName returns the first non-empty actor display name on a side.
func firstActorName(s model.Side) string {
	for _, a := range s.Actors {
		if a.DisplayName != "" {
			return a.DisplayName
		}
	}
	return ""
}

// sideHasActor reports whether the actor identity appears on the side.
func sideHasActor(s model.Side, actorID string) bool {
	for _, a := range s.Actors {
		if a.ID == actorID {
			return true
		}
	}
	return false
}

// Classify determines whether the observer is a participant or spectator and
// which side is near. An observer identity appearing on both sides is
// ambiguous and rejected; an empty observer identity means the session
// identity was never established, which is equally unresolvable.
func Classify(bs *model.BattleStart) (Info, error) {
	if bs == nil {
		return Info{}, fmt.Errorf("no battle start event")
	}
	if bs.ObserverID == "" {
		return Info{}, fmt.Errorf("observer identity is not set")
	}

	inA := sideHasActor(bs.Sides[0], bs.ObserverID)
	inB := sideHasActor(bs.Sides[1], bs.ObserverID)

	info := Info{}
	switch {
	case inA && inB:
		return Info{}, fmt.Errorf("observer %q appears on both sides", bs.ObserverID)
	case inA:
		info.NearSide = 0
	case inB:
		info.NearSide = 1
	default:
		info.Spectating = true
		info.NearSide = 0
	}

	info.NearName = firstActorName(bs.Sides[info.NearSide])
	info.FarName = firstActorName(bs.Sides[1-info.NearSide])

	return info, nil
}
