package entity

import (
	"strings"
	"time"

	"chosenoffset.com/christmasbits/internal/quest"
)

// Role is the closed set of NPC behaviours.
type Role int

const (
	// RoleTalker plays a scripted dialog looked up by name or type.
	RoleTalker Role = iota
	// RoleQuestGiver hands out the quest and escorts the player at the end.
	RoleQuestGiver
	// RoleTaskGiver owns one quest task and its minigame.
	RoleTaskGiver
	// RoleEpilogue runs the gift ceremony in the venue.
	RoleEpilogue
)

func (r Role) String() string {
	switch r {
	case RoleTalker:
		return "talker"
	case RoleQuestGiver:
		return "quest_giver"
	case RoleTaskGiver:
		return "task_giver"
	case RoleEpilogue:
		return "epilogue"
	}
	return "unknown"
}

// Canonical type tags.
const (
	TypeQuestGiver   = "aa"
	TypeEpilogue     = "npc5"
	TypeDefaultExtra = "extra_1"
)

// Profile is what an NPC's type tag resolves to.
type Profile struct {
	Role Role
	// Task is set for task givers.
	Task quest.Task
	// SpriteSet names the sprite sheet family.
	SpriteSet string
	// Label is the overhead name shown from a distance; empty for none.
	Label     string
	Oversized bool
}

var typeAliases = map[string]string{
	"roki":   string(quest.TaskDecorator),
	"santa":  TypeEpilogue,
	"talker": TypeDefaultExtra,
	"man":    TypeDefaultExtra,
	"woman":  "extra_3",
}

var profiles = map[string]Profile{
	TypeQuestGiver: {
		Role: RoleQuestGiver, SpriteSet: TypeQuestGiver, Label: "Alice",
	},
	string(quest.TaskDecorator): {
		Role: RoleTaskGiver, Task: quest.TaskDecorator, SpriteSet: "decorator", Label: "Roki",
	},
	string(quest.TaskPhotographer): {
		Role: RoleTaskGiver, Task: quest.TaskPhotographer, SpriteSet: "photographer", Label: "Bob",
	},
	string(quest.TaskBartender): {
		Role: RoleTaskGiver, Task: quest.TaskBartender, SpriteSet: "bartender", Label: "Samuel",
	},
	TypeEpilogue: {
		Role: RoleEpilogue, SpriteSet: TypeEpilogue, Oversized: true,
	},
}

// CanonicalType lower-cases a type tag and folds its aliases.
func CanonicalType(typeTag string) string {
	t := strings.ToLower(strings.TrimSpace(typeTag))
	if alias, ok := typeAliases[t]; ok {
		return alias
	}
	return t
}

// ResolveProfile maps a type tag to its role. Unknown tags are talkers
// drawn with the default extra sprite set.
func ResolveProfile(typeTag string) Profile {
	t := CanonicalType(typeTag)
	if p, ok := profiles[t]; ok {
		return p
	}
	if strings.HasPrefix(t, "extra_") {
		return Profile{Role: RoleTalker, SpriteSet: t}
	}
	return Profile{Role: RoleTalker, SpriteSet: TypeDefaultExtra}
}

// NPC is a non-player character.
type NPC struct {
	Actor
	// Type is the canonical type tag.
	Type string
	// Tag is the type tag as authored, before aliases are folded.
	Tag     string
	Name    string
	Profile Profile

	GiftAnimating bool
	GiftStart     time.Time
}

// NewNPC creates an NPC at p from a type tag and optional name.
func NewNPC(typeTag, name string, p Position) *NPC {
	return &NPC{
		Actor:   NewActor(p),
		Type:    CanonicalType(typeTag),
		Tag:     strings.ToLower(strings.TrimSpace(typeTag)),
		Name:    name,
		Profile: ResolveProfile(typeTag),
	}
}

// Role returns the NPC's behaviour.
func (n *NPC) Role() Role {
	return n.Profile.Role
}

// Blocks reports whether the NPC occupies p. Oversized NPCs leave their
// anchor row open and block the three cells of the row above it.
func (n *NPC) Blocks(p Position) bool {
	if n.Profile.Oversized {
		return p.Y == n.Pos.Y-1 && p.X >= n.Pos.X-1 && p.X <= n.Pos.X+1
	}
	return p == n.Pos
}

// CanInteractFrom reports whether a player standing at p may talk to n.
func (n *NPC) CanInteractFrom(p Position) bool {
	if n.Profile.Oversized {
		return n.Pos.Chebyshev(p) <= 2
	}
	return n.Pos.Manhattan(p) == 1
}

// StartGift begins the one-shot gift animation.
func (n *NPC) StartGift(now time.Time) {
	n.GiftAnimating = true
	n.GiftStart = now
}

// DisplayName returns the dialog speaker name for n.
func (n *NPC) DisplayName() string {
	if n.Name != "" {
		return n.Name
	}
	if n.Profile.Label != "" {
		return n.Profile.Label
	}
	return "NPC"
}
