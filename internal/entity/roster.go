package entity

import (
	"sort"

	"chosenoffset.com/christmasbits/internal/quest"
)

// Roster is the NPC population of the active map.
type Roster []*NPC

// OccupiedBy returns the NPC blocking p, ignoring ignore.
func (r Roster) OccupiedBy(p Position, ignore *NPC) *NPC {
	for _, n := range r {
		if n == ignore {
			continue
		}
		if n.Blocks(p) {
			return n
		}
	}
	return nil
}

// Occupied reports whether any NPC other than ignore blocks p.
func (r Roster) Occupied(p Position, ignore *NPC) bool {
	return r.OccupiedBy(p, ignore) != nil
}

// Nearby returns the first NPC the player at p can interact with.
func (r Roster) Nearby(p Position) *NPC {
	for _, n := range r {
		if n.CanInteractFrom(p) {
			return n
		}
	}
	return nil
}

// FindRole returns the first NPC with role.
func (r Roster) FindRole(role Role) *NPC {
	for _, n := range r {
		if n.Role() == role {
			return n
		}
	}
	return nil
}

// FindTask returns the task giver for t.
func (r Roster) FindTask(t quest.Task) *NPC {
	for _, n := range r {
		if n.Role() == RoleTaskGiver && n.Profile.Task == t {
			return n
		}
	}
	return nil
}

// FindType returns the first NPC with the given canonical type.
func (r Roster) FindType(typeTag string) *NPC {
	t := CanonicalType(typeTag)
	for _, n := range r {
		if n.Type == t {
			return n
		}
	}
	return nil
}

// Merge appends the NPCs in extra whose type is not already present.
func (r Roster) Merge(extra Roster) Roster {
	seen := make(map[string]bool, len(r))
	for _, n := range r {
		seen[n.Type] = true
	}
	for _, n := range extra {
		if seen[n.Type] {
			continue
		}
		seen[n.Type] = true
		r = append(r, n)
	}
	return r
}

// Smooth advances every NPC's visual position.
func (r Roster) Smooth(factor float64) {
	for _, n := range r {
		n.Smooth(factor)
	}
}

// ByVisualY returns the roster sorted for painter's-order drawing.
func (r Roster) ByVisualY() Roster {
	out := make(Roster, len(r))
	copy(out, r)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Visual.Y < out[j].Visual.Y
	})
	return out
}
