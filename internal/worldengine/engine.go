// Package worldengine implements the per-tick scheduler: round-robin
// command execution across players, the persistent used-tile set, deferred
// end-of-round destructions, and the full action dispatch table described
// for Build/Move/Attack/Use/Remove/Claim.
package worldengine

import (
	"evilcadastre/internal/command"
	"evilcadastre/internal/entity"
	"evilcadastre/internal/field"
	"evilcadastre/internal/geometry"
	"evilcadastre/internal/resource"
	"evilcadastre/internal/rules"
)

// ActionPointBudget is the fixed per-player per-tick command budget. The
// reference treats this as a compile-time constant, not configuration.
const ActionPointBudget = 10

// World wraps the Field the engine mutates in place. It owns no other
// state: every tick is a single call to Update.
type World struct {
	Field *field.Field
}

// New wraps an existing Field in a World.
func New(f *field.Field) *World {
	return &World{Field: f}
}

// PlayerCommands pairs a player id with their submitted command list for
// one tick, in the order the external collaborator discovered players.
type PlayerCommands struct {
	PlayerID string
	Commands []command.Command
}

// Update advances the world by exactly one tick: each player's command
// list is truncated to ActionPointBudget, then executed in round-robin
// rounds (every player's k-th command runs before any player's (k+1)-th),
// with attack destructions deferred to the end of each round.
func (w *World) Update(playerCommands []PlayerCommands) {
	truncated := make([][]command.Command, len(playerCommands))
	maxLen := 0
	for i, pc := range playerCommands {
		cmds := pc.Commands
		if len(cmds) > ActionPointBudget {
			cmds = cmds[:ActionPointBudget]
		}
		truncated[i] = cmds
		if len(cmds) > maxLen {
			maxLen = len(cmds)
		}
	}

	used := make(map[geometry.Pos]bool)
	for k := 0; k < maxLen; k++ {
		var destroyed []geometry.Pos
		for i, pc := range playerCommands {
			if k >= len(truncated[i]) {
				continue
			}
			w.runCommand(pc.PlayerID, truncated[i][k], used, &destroyed)
		}
		for _, pos := range destroyed {
			w.Field.Clear(pos)
		}
	}
}

func (w *World) hasCapital(user string) bool {
	for _, e := range w.Field.Tiles {
		if e.Kind == entity.Capital && e.Owner == user {
			return true
		}
	}
	return false
}

func (w *World) runCommand(user string, cmd command.Command, used map[geometry.Pos]bool, destroyed *[]geometry.Pos) {
	if used[cmd.Pos] {
		return
	}

	if cmd.Action == command.Claim {
		if w.hasCapital(user) {
			return
		}
		keep, ok := rules.ClaimFirstKeep(w.Field, cmd.Pos, user)
		if ok {
			used[keep] = true
		}
		return
	}

	owner, ok := w.Field.PlotOwner(cmd.Pos)
	if !ok || owner != user {
		return
	}

	switch cmd.Action {
	case command.Build:
		w.runBuild(user, cmd, used)
	case command.Move:
		w.runMove(user, cmd, used)
	case command.Attack:
		w.runAttack(user, cmd, destroyed)
	case command.Use:
		w.runUse(user, cmd, used)
	case command.Remove:
		w.runRemove(cmd)
	}
}

func (w *World) runBuild(user string, cmd command.Command, used map[geometry.Pos]bool) {
	if !w.Field.Get(cmd.Pos).IsEmpty() {
		return
	}
	switch cmd.Building {
	case entity.BuildingRoad, entity.BuildingTradepost, entity.BuildingScoutpost:
		if _, ok := w.Field.AcrossBorder(cmd.Pos); !ok {
			return
		}
	case entity.BuildingWoodcutter:
		if !hasOrthogonalNeighbourOfKind(w.Field, cmd.Pos, entity.Forest) {
			return
		}
	case entity.BuildingQuarry:
		if !hasOrthogonalNeighbourOfKind(w.Field, cmd.Pos, entity.Rock) {
			return
		}
	}
	if !rules.Pay(w.Field, cmd.Pos, cmd.Building.Cost()) {
		return
	}
	w.Field.Set(cmd.Pos, cmd.Building.Result())
	used[cmd.Pos] = true
}

func hasOrthogonalNeighbourOfKind(f *field.Field, pos geometry.Pos, kind entity.Kind) bool {
	for _, d := range geometry.AllDirections {
		if f.Get(pos.Add(d.Delta())).Kind == kind {
			return true
		}
	}
	return false
}

func (w *World) runMove(user string, cmd command.Command, used map[geometry.Pos]bool) {
	e := w.Field.Get(cmd.Pos)
	switch {
	case e.Properties().Movable:
		if used[cmd.Target] {
			return
		}
		dest, ok := rules.MoveUnitDestination(w.Field, cmd.Pos, cmd.Target)
		if !ok {
			return
		}
		w.Field.Clear(cmd.Pos)
		w.Field.Set(dest, e)
		used[cmd.Target] = true
	case e.Kind == entity.Stockpile && e.HasResource:
		if used[cmd.Target] {
			return
		}
		dest, ok := rules.MoveResourceDestination(w.Field, cmd.Pos, cmd.Target)
		if !ok {
			return
		}
		w.Field.Set(cmd.Pos, entity.Entity{Kind: entity.Stockpile})
		w.Field.Set(dest, entity.Entity{Kind: entity.Stockpile, Resource: e.Resource, HasResource: true})
		used[cmd.Target] = true
	case e.Kind == entity.Capital:
		target := w.Field.Get(cmd.Target)
		if target.Kind != entity.Keep || target.Owner != user || used[cmd.Target] {
			return
		}
		w.Field.Set(cmd.Pos, entity.Entity{Kind: entity.Keep, Owner: user})
		w.Field.Set(cmd.Target, entity.Entity{Kind: entity.Capital, Owner: user})
		used[cmd.Target] = true
	}
}

func (w *World) runAttack(user string, cmd command.Command, destroyed *[]geometry.Pos) {
	e := w.Field.Get(cmd.Pos)
	lane := w.Field.NeighbourLane(cmd.Pos, cmd.Direction)
	if len(lane) == 0 {
		return
	}
	if owner, ok := w.Field.PlotOwner(lane[0]); ok && owner == user {
		return
	}

	switch e.Kind {
	case entity.Raider:
		for _, t := range lane {
			occ := w.Field.Get(t)
			if occ.Properties().Destructible && !occ.Properties().Strong {
				*destroyed = append(*destroyed, t)
			}
			if occ.Properties().Stopping {
				return
			}
		}
	case entity.Warrior:
		for _, t := range lane {
			occ := w.Field.Get(t)
			if occ.Properties().Mortal {
				*destroyed = append(*destroyed, t)
				return
			}
			if occ.Properties().Destructible && !occ.Properties().Strong {
				*destroyed = append(*destroyed, t)
			}
			if occ.Properties().Stopping {
				return
			}
		}
	case entity.Ram:
		for _, t := range lane {
			occ := w.Field.Get(t)
			if occ.Properties().Destructible {
				*destroyed = append(*destroyed, t)
			}
			if occ.Properties().Stopping {
				return
			}
		}
	}
}

func (w *World) runUse(user string, cmd command.Command, used map[geometry.Pos]bool) {
	e := w.Field.Get(cmd.Pos)
	switch e.Kind {
	case entity.Woodcutter, entity.Quarry:
		// Quarry's Use also yields Wood, matching the reference
		// implementation's behavior rather than the more obvious Stone.
		w.depositToNearestEmptyStockpile(cmd.Pos, resource.Wood)
	case entity.Farm:
		w.depositToNearestEmptyStockpile(cmd.Pos, resource.Food)
	case entity.Lair:
		if rules.Pay(w.Field, cmd.Pos, resource.New(resource.Food, 3)) {
			w.spawnUnitAtNearestEmptyTile(cmd.Pos, entity.Raider, used)
		}
	case entity.Barracks:
		cost := resource.New(resource.Food, 5, resource.Wood, 1, resource.Stone, 1)
		if rules.Pay(w.Field, cmd.Pos, cost) {
			w.spawnUnitAtNearestEmptyTile(cmd.Pos, entity.Warrior, used)
		}
	case entity.Scoutpost:
		w.runScoutpostUse(user, cmd.Pos, used)
	}
}

func (w *World) depositToNearestEmptyStockpile(pos geometry.Pos, r resource.Resource) {
	for _, t := range w.Field.TilesInPlot(pos) {
		target := w.Field.Get(t)
		if target.Kind == entity.Stockpile && !target.HasResource {
			w.Field.Set(t, entity.Entity{Kind: entity.Stockpile, Resource: r, HasResource: true})
			return
		}
	}
}

func (w *World) spawnUnitAtNearestEmptyTile(pos geometry.Pos, kind entity.Kind, used map[geometry.Pos]bool) {
	for _, t := range w.Field.TilesInPlot(pos) {
		if w.Field.Get(t).IsEmpty() {
			w.Field.Set(t, entity.Entity{Kind: kind})
			used[t] = true
			return
		}
	}
}

func (w *World) runScoutpostUse(user string, pos geometry.Pos, used map[geometry.Pos]bool) {
	target, ok := w.Field.AcrossBorder(pos)
	if !ok {
		return
	}
	if owner, ok := w.Field.PlotOwner(target); ok && owner == user {
		return
	}
	for _, t := range w.Field.TilesInPlot(target) {
		if w.Field.Get(t).Properties().Defender {
			return
		}
	}
	cost := resource.New(resource.Wood, 10, resource.Food, 5, resource.Stone, 5)
	if !rules.Pay(w.Field, pos, cost) {
		return
	}
	targetKeep := w.Field.KeepLocation(target)
	rules.DestroyKeep(w.Field, targetKeep)
	w.Field.Set(targetKeep, entity.Entity{Kind: entity.Keep, Owner: user})
	used[targetKeep] = true
}

func (w *World) runRemove(cmd command.Command) {
	e := w.Field.Get(cmd.Pos)
	if e.Properties().Removable {
		w.Field.Clear(cmd.Pos)
	}
}
