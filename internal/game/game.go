// Package game ties the map, actors, scripted sequences and UI into one
// playable session.
package game

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"chosenoffset.com/christmasbits/internal/camera"
	"chosenoffset.com/christmasbits/internal/clock"
	"chosenoffset.com/christmasbits/internal/config"
	"chosenoffset.com/christmasbits/internal/cutscene"
	"chosenoffset.com/christmasbits/internal/dialog"
	"chosenoffset.com/christmasbits/internal/entity"
	"chosenoffset.com/christmasbits/internal/logging"
	"chosenoffset.com/christmasbits/internal/minigame"
	"chosenoffset.com/christmasbits/internal/movement"
	"chosenoffset.com/christmasbits/internal/quest"
	"chosenoffset.com/christmasbits/internal/render"
	"chosenoffset.com/christmasbits/internal/sprite"
	"chosenoffset.com/christmasbits/internal/ui/hud"
	"chosenoffset.com/christmasbits/internal/world/collision"
	"chosenoffset.com/christmasbits/internal/world/tilemap"
)

// Game holds all state of one session. It is mutated only from Update.
type Game struct {
	ScreenWidth  int
	ScreenHeight int

	Config   *config.Config
	Clock    clock.Clock
	Renderer render.Renderer
	Input    render.InputManager
	Logger   *slog.Logger

	// World
	Map      *tilemap.Map
	Resolver *collision.Resolver
	Player   entity.Actor
	NPCs     entity.Roster
	Camera   *camera.Camera

	// Story
	Quest   *quest.State
	Dialog  *dialog.Sequencer
	Scripts *dialog.Library
	Runner  *cutscene.Runner

	// Presentation
	Sprites *sprite.Library
	HUD     *hud.HUD

	// Collaborators
	Minigames map[quest.Task]minigame.Game
	Gifts     minigame.GiftPicker
	Overlays  []minigame.Overlay

	// Paused suspends movement and interaction while a collaborator runs.
	Paused   bool
	InVenue  bool
	Finished bool

	maps   MapLoader
	direct movement.Direct
}

type stubMaps struct{}

func (stubMaps) LoadOrStub(string) *tilemap.Map { return tilemap.Stub() }

// New builds a session on the overworld map. Background work started by
// the session is bound to ctx.
func New(ctx context.Context, d Deps) *Game {
	cfg := d.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clk := d.Clock
	if clk == nil {
		clk = clock.System{}
	}
	maps := d.Maps
	if maps == nil {
		maps = stubMaps{}
	}
	scripts := d.Scripts
	if scripts == nil {
		scripts = dialog.DefaultLibrary()
	}
	sprites := d.Sprites
	if sprites == nil {
		sprites = sprite.Empty()
	}
	sprites.SetRunThresholds(cfg.Movement.RunThreshold, cfg.Movement.NPCRunThreshold)

	classifier, err := collision.NewClassifier(cfg.Collision)
	if err != nil {
		logging.LogWarn(logger, "Warning: collision patterns rejected, using defaults", err)
		classifier = collision.DefaultClassifier()
	}

	g := &Game{
		ScreenWidth:  cfg.Window.Width,
		ScreenHeight: cfg.Window.Height,
		Config:       cfg,
		Clock:        clk,
		Renderer:     d.Renderer,
		Input:        d.Input,
		Logger:       logger,
		Resolver:     collision.NewResolver(classifier, logger),
		Camera:       camera.New(float64(cfg.Camera.PadX), float64(cfg.Camera.PadY)),
		Quest:        quest.NewState(),
		Dialog:       &dialog.Sequencer{},
		Scripts:      scripts,
		Runner:       cutscene.NewRunner(ctx, clk, logger),
		Sprites:      sprites,
		HUD:          hud.New(d.Renderer, cfg.Window.Width, cfg.Window.Height),
		Minigames:    d.Minigames,
		Gifts:        d.Gifts,
		Overlays:     d.Overlays,
		maps:         maps,
		direct:       movement.Direct{Repeat: cfg.Movement.KeyRepeat},
	}
	g.HUD.Debug = cfg.Debug
	g.loadOverworld()
	return g
}

// Close stops every running sequence and any collaborator it launched.
func (g *Game) Close() {
	g.Runner.Close()
}

// castMember is an NPC the story needs regardless of the map's spawns.
type castMember struct {
	Type string
	Name string
	Pos  entity.Position
}

func (c castMember) npc() *entity.NPC {
	return entity.NewNPC(c.Type, c.Name, c.Pos)
}

var overworldCast = []castMember{
	{entity.TypeQuestGiver, "Alice", entity.Position{X: 44, Y: 55}},
	{string(quest.TaskDecorator), "Roki", entity.Position{X: 17, Y: 40}},
	{string(quest.TaskPhotographer), "Bob", entity.Position{X: 16, Y: 25}},
	{string(quest.TaskBartender), "Samuel", entity.Position{X: 38, Y: 16}},
	{"extra_1", "Anna", entity.Position{X: 16, Y: 12}},
	{"extra_2", "Mike", entity.Position{X: 22, Y: 28}},
	{"extra_3", "Sarah", entity.Position{X: 34, Y: 12}},
	{"extra_4", "John", entity.Position{X: 53, Y: 52}},
	{"extra_5", "Emily", entity.Position{X: 66, Y: 37}},
	{"extra_6", "David", entity.Position{X: 77, Y: 12}},
}

func venueCast(anchor entity.Position) []castMember {
	return []castMember{
		{entity.TypeEpilogue, santaName, anchor},
		{"extra_1", "Kevin", entity.Position{X: 5, Y: 8}},
		{string(quest.TaskBartender), "Samuel", entity.Position{X: 6, Y: 12}},
		{string(quest.TaskPhotographer), "Bob", entity.Position{X: 8, Y: 11}},
		{"extra_3", "Sarah", entity.Position{X: 12, Y: 10}},
		{"extra_4", "John", entity.Position{X: 15, Y: 11}},
		{"extra_2", "Mike", entity.Position{X: 14, Y: 8}},
		{"extra_6", "Jessica", entity.Position{X: 17, Y: 7}},
		{"extra_5", "Jason", entity.Position{X: 18, Y: 9}},
		{string(quest.TaskDecorator), "Roki", entity.Position{X: 8, Y: 8}},
	}
}

func isPlayerSpawn(s tilemap.Spawn) bool {
	return strings.EqualFold(s.Type, "player")
}

func (g *Game) loadOverworld() {
	m := g.maps.LoadOrStub(g.Config.Maps.Overworld)
	start := g.Config.Story.PlayerStart

	var (
		npcs     entity.Roster
		spawn    entity.Position
		hasSpawn bool
	)
	for _, s := range m.Spawns {
		p := entity.Position{X: s.X, Y: s.Y}
		if isPlayerSpawn(s) {
			if !hasSpawn {
				spawn, hasSpawn = p, true
			}
			continue
		}
		if p == start {
			p = p.Add(spawnNudge, 0)
		}
		npcs = append(npcs, entity.NewNPC(s.Type, s.Name, p))
	}

	fill := make(entity.Roster, 0, len(overworldCast))
	for _, c := range overworldCast {
		fill = append(fill, c.npc())
	}
	npcs = npcs.Merge(fill)

	player := entity.Position{X: 1, Y: 1}
	switch {
	case m.InBounds(start.X, start.Y):
		player = start
	case hasSpawn:
		player = spawn
	}
	g.setWorld(m, player, npcs)
	g.InVenue = false
	g.Logger.Info("map loaded", "map", "overworld", "width", m.Width, "height", m.Height,
		"npcs", len(npcs), "player_x", player.X, "player_y", player.Y)
}

func (g *Game) loadVenue() {
	m := g.maps.LoadOrStub(g.Config.Maps.Venue)

	var npcs entity.Roster
	for _, s := range m.Spawns {
		if isPlayerSpawn(s) {
			continue
		}
		npcs = append(npcs, entity.NewNPC(s.Type, s.Name, entity.Position{X: s.X, Y: s.Y}))
	}
	for _, c := range venueCast(g.Config.Story.EpilogueAnchor) {
		n := npcs.FindType(c.Type)
		if n == nil {
			npcs = append(npcs, c.npc())
			continue
		}
		n.Teleport(c.Pos)
		if n.Name == "" {
			n.Name = c.Name
		}
	}

	start := g.Config.Story.VenueStart
	g.setWorld(m, start, npcs)
	g.InVenue = true
	g.Logger.Info("map loaded", "map", "venue", "width", m.Width, "height", m.Height,
		"npcs", len(npcs), "player_x", start.X, "player_y", start.Y)
}

// setWorld replaces the map and every actor on it.
func (g *Game) setWorld(m *tilemap.Map, player entity.Position, npcs entity.Roster) {
	g.Map = m
	g.NPCs = npcs
	g.Player = entity.NewActor(player)
	g.Camera.Reset()
	g.direct.Reset()
}

func (g *Game) walkable(x, y int) bool {
	return g.Resolver.IsWalkable(g.Map, x, y)
}

// actorRules are the rules for the player and cutscene walks.
func (g *Game) actorRules() movement.Rules {
	return movement.Rules{
		Walkable: g.walkable,
		Blocked:  func(p entity.Position) bool { return g.NPCs.Occupied(p, nil) },
	}
}

var directionKeys = []struct {
	dir  entity.Direction
	keys [2]render.Key
}{
	{entity.DirUp, [2]render.Key{render.KeyUp, render.KeyW}},
	{entity.DirDown, [2]render.Key{render.KeyDown, render.KeyS}},
	{entity.DirLeft, [2]render.Key{render.KeyLeft, render.KeyA}},
	{entity.DirRight, [2]render.Key{render.KeyRight, render.KeyD}},
}

// directionInput returns the requested direction and whether its key went
// down this tick.
func (g *Game) directionInput() (dir entity.Direction, fresh, ok bool) {
	for _, dk := range directionKeys {
		for _, k := range dk.keys {
			if g.Input.IsKeyJustPressed(k) {
				return dk.dir, true, true
			}
		}
	}
	for _, dk := range directionKeys {
		for _, k := range dk.keys {
			if g.Input.IsKeyPressed(k) {
				return dk.dir, false, true
			}
		}
	}
	return 0, false, false
}

func (g *Game) actionPressed() bool {
	return g.Input.IsKeyJustPressed(render.KeyEnter) || g.Input.IsKeyJustPressed(render.KeySpace)
}

func (g *Game) dialogClicked() bool {
	if !g.Input.IsMouseButtonJustPressed(render.MouseButtonLeft) {
		return false
	}
	x, y := g.Input.GetCursorPosition()
	return g.HUD.DialogPanel().Contains(x, y)
}

// Update runs one tick: input, collaborator overlays, scripted sequences,
// then NPC smoothing.
func (g *Game) Update() error {
	now := g.Clock.Now()

	if g.Input.IsKeyJustPressed(render.KeyF3) {
		g.HUD.Debug = !g.HUD.Debug
	}
	if g.HUD.Debug && g.Input.IsKeyJustPressed(render.KeyF9) {
		g.FinishAllTasks()
	}
	g.handleInput(now)

	for _, o := range g.Overlays {
		if o.Active() {
			o.Update(g.Input, now)
		}
	}
	g.Runner.Update()
	g.NPCs.Smooth(npcSmoothing)
	return nil
}

func (g *Game) handleInput(now time.Time) {
	if g.Paused {
		return
	}
	if g.Dialog.IsOpen() {
		switch {
		case g.Input.IsKeyJustPressed(render.KeyEscape):
			g.Dialog.Close()
		case g.actionPressed() || g.dialogClicked():
			g.Dialog.Advance()
		}
		return
	}
	if g.Runner.Blocking() {
		return
	}
	if dir, fresh, ok := g.directionInput(); ok {
		g.direct.Step(&g.Player, dir, fresh, g.actorRules(), now)
		return
	}
	if g.actionPressed() {
		g.HandleAction()
	}
}

// Layout returns the fixed logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.ScreenWidth, g.ScreenHeight
}

// HandleAction interacts with the NPC next to the player, if any.
func (g *Game) HandleAction() bool {
	n := g.NPCs.Nearby(g.Player.Pos)
	if n == nil {
		return false
	}
	g.Interact(n)
	return true
}

// Interact dispatches on the NPC's role.
func (g *Game) Interact(n *entity.NPC) {
	g.Logger.Debug("interact", "npc", n.DisplayName(), "type", n.Type, "role", n.Role().String())
	switch n.Role() {
	case entity.RoleQuestGiver:
		g.Quest.Start()
		g.talk(n)
	case entity.RoleTaskGiver:
		g.interactTask(n)
	case entity.RoleEpilogue:
		g.interactEpilogue(n)
	default:
		g.talk(n)
	}
}

// talk plays the script found under the NPC's name, then its authored tag,
// then its canonical type.
func (g *Game) talk(n *entity.NPC) {
	frames, ok := g.Scripts.Resolve(n.Name, n.Tag, n.Type)
	if !ok {
		frames = dialog.Lines(n.DisplayName(), fallbackLines...)
	}
	g.Dialog.Start(frames)
}

func (g *Game) interactTask(n *entity.NPC) {
	task := n.Profile.Task
	script, ok := taskScripts[task]
	if !ok {
		g.talk(n)
		return
	}
	name := taskSequence(task)
	if g.Runner.Running(name) {
		return
	}
	if g.InVenue || g.Quest.IsCompleted(task) {
		g.Dialog.Start([]dialog.Frame{script.Done})
		return
	}

	steps := cutscene.Say(g.Dialog, script.Intro...)
	mg, ok := g.Minigames[task]
	if !ok {
		g.Logger.Debug("no minigame registered", "task", string(task))
		g.Runner.Play(cutscene.Sequence{Name: name, Blocking: true, Steps: steps})
		return
	}

	var (
		call    cutscene.MinigameCall
		success bool
	)
	steps = append(steps,
		cutscene.LaunchMinigame(g.Runner, string(task), mg.Play, &call, func() { g.Paused = true }),
		cutscene.AwaitMinigame(&call, func(ok bool, err error) {
			g.Paused = false
			if err != nil {
				logging.LogWarn(g.Logger, "minigame ended with an error", err)
			}
			success = ok && err == nil
			g.Logger.Info("minigame finished", "task", string(task), "success", success)
		}),
		cutscene.Branch(g.Runner, "ShowResult", func() []cutscene.Step {
			if !success {
				return cutscene.Say(g.Dialog, script.Failure)
			}
			g.Quest.MarkCompleted(task)
			return cutscene.Say(g.Dialog, script.Success)
		}),
		cutscene.Do("CheckCompletion", g.checkCompletion),
	)
	g.Runner.Play(cutscene.Sequence{Name: name, Blocking: true, Steps: steps})
}

func (g *Game) checkCompletion() {
	if g.InVenue || !g.Quest.AllCompleted() || g.Runner.Running(SeqEscort) {
		return
	}
	g.CompleteAllTasks()
}

func (g *Game) interactEpilogue(n *entity.NPC) {
	if g.Finished || g.Runner.Running(SeqEpilogue) {
		return
	}

	steps := cutscene.Say(g.Dialog, santaGreeting...)
	steps = append(steps,
		cutscene.Do("GiftAnimation", func() { n.StartGift(g.Clock.Now()) }),
		cutscene.Wait(giftDelay),
	)
	if g.Gifts != nil {
		var (
			call   cutscene.MinigameCall
			picked minigame.Gift
		)
		pick := func(ctx context.Context) (bool, error) {
			gift, err := g.Gifts.Pick(ctx)
			if err != nil {
				return false, err
			}
			picked = gift
			return true, nil
		}
		steps = append(steps,
			cutscene.LaunchMinigame(g.Runner, "gift", pick, &call, func() { g.Paused = true }),
			cutscene.AwaitMinigame(&call, func(ok bool, err error) {
				g.Paused = false
				if err != nil {
					logging.LogWarn(g.Logger, "gift picker ended with an error", err)
					return
				}
				g.Logger.Info("gift picked", "gift", picked.ID)
			}),
			cutscene.Wait(revealDelay),
		)
	}
	steps = append(steps, cutscene.Say(g.Dialog, santaClosing...)...)
	steps = append(steps, cutscene.Do("Finish", func() {
		g.Finished = true
		g.Paused = true
	}))
	g.Runner.Play(cutscene.Sequence{Name: SeqEpilogue, Blocking: true, Steps: steps})
}

// walkPlayer builds a cutscene walk of the player to target. Targets off
// the map produce no walk.
func (g *Game) walkPlayer(name string, target entity.Position) func() *movement.PathWalk {
	return func() *movement.PathWalk {
		if !g.Map.InBounds(target.X, target.Y) {
			g.Logger.Warn("cutscene target outside map", "walk", name, "x", target.X, "y", target.Y)
			return nil
		}
		w := movement.WalkTo(name, &g.Player, target, movement.XFirst, g.actorRules(), g.Config.Movement.CutsceneMaxSteps)
		w.Logger = g.Logger
		return w
	}
}

// StartIntro plays the opening walk and monologue.
func (g *Game) StartIntro() {
	steps := []cutscene.Step{
		cutscene.Wait(introDelay),
		cutscene.Do("LockCamera", func() { g.Camera.Locked = true }),
		cutscene.Walk("WalkIn", g.walkPlayer("intro", g.Config.Story.IntroTarget), g.Config.Movement.CutsceneInterval),
	}
	steps = append(steps, cutscene.Say(g.Dialog, introMonologue)...)
	steps = append(steps, cutscene.Do("UnlockCamera", func() { g.Camera.Locked = false }))
	g.Runner.Play(cutscene.Sequence{Name: SeqIntro, Blocking: true, Steps: steps})
}

// CompleteAllTasks brings the quest giver to the player and moves the
// session to the venue.
func (g *Game) CompleteAllTasks() {
	mv := g.Config.Movement
	var steps []cutscene.Step
	if giver := g.NPCs.FindRole(entity.RoleQuestGiver); giver != nil {
		steps = append(steps,
			cutscene.Do("Relocate", func() { g.relocateNear(giver) }),
			cutscene.Walk("Escort", func() *movement.PathWalk {
				return &movement.PathWalk{
					Name:    "escort",
					Actor:   &giver.Actor,
					Target:  func() entity.Position { return g.Player.Pos },
					Arrived: movement.Adjacent,
					Order:   movement.YFirst,
					Rules: movement.Rules{
						Walkable: g.walkable,
						Blocked:  func(p entity.Position) bool { return p == g.Player.Pos },
					},
					MaxSteps: mv.EscortMaxSteps,
					Logger:   g.Logger,
				}
			}, mv.EscortInterval),
		)
	}
	steps = append(steps, cutscene.Say(g.Dialog, escortLine)...)
	steps = append(steps, cutscene.Do("EnterVenue", g.EnterVenue))
	g.Runner.Play(cutscene.Sequence{Name: SeqEscort, Blocking: true, Steps: steps})
}

// FinishAllTasks is the debug shortcut: it starts the quest, marks every
// task completed and runs the escort to the venue.
func (g *Game) FinishAllTasks() {
	if g.InVenue || g.Runner.Running(SeqEscort) {
		return
	}
	g.Quest.Start()
	for _, t := range quest.Tasks {
		if !g.Quest.IsCompleted(t) {
			g.Quest.MarkCompleted(t)
		}
	}
	g.Logger.Debug("debug: all tasks completed")
	g.CompleteAllTasks()
}

// ringOffsets lists the cells at radius r in search order.
func ringOffsets(r int) [8][2]int {
	return [8][2]int{{0, r}, {0, -r}, {r, 0}, {-r, 0}, {r, r}, {-r, -r}, {r, -r}, {-r, r}}
}

// relocateNear moves a far away NPC to the first open cell on a ring
// around the player.
func (g *Game) relocateNear(n *entity.NPC) bool {
	p := g.Player.Pos
	if n.Pos.Manhattan(p) <= escortTeleportDistance {
		return false
	}
	for r := escortMinRadius; r <= escortMaxRadius; r++ {
		for _, d := range ringOffsets(r) {
			c := p.Add(d[0], d[1])
			if !g.Map.InBounds(c.X, c.Y) || !g.Resolver.HasSurface(g.Map, c.X, c.Y) {
				continue
			}
			if !g.walkable(c.X, c.Y) || g.NPCs.Occupied(c, n) {
				continue
			}
			g.Logger.Debug("npc relocated", "npc", n.DisplayName(),
				"from_x", n.Pos.X, "from_y", n.Pos.Y, "x", c.X, "y", c.Y)
			n.Teleport(c)
			return true
		}
	}
	g.Logger.Warn("no relocation cell found", "npc", n.DisplayName(), "x", n.Pos.X, "y", n.Pos.Y)
	return false
}

// EnterVenue switches to the venue map and walks the player in.
func (g *Game) EnterVenue() {
	g.loadVenue()
	g.Runner.Play(cutscene.Sequence{
		Name:     SeqVenue,
		Blocking: true,
		Steps: []cutscene.Step{
			cutscene.Wait(venueDelay),
			cutscene.Walk("WalkIn", g.walkPlayer("venue", g.Config.Story.VenueTarget), g.Config.Movement.CutsceneInterval),
		},
	})
}
