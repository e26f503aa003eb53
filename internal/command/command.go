// Package command parses the per-line textual command grammar into typed
// Commands, collecting one ParseError per malformed line rather than
// aborting the batch.
package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gookit/goutil/arrutil"

	"evilcadastre/internal/entity"
	"evilcadastre/internal/geometry"
)

// ActionKind is the closed set of command actions.
type ActionKind int

const (
	Build ActionKind = iota
	Move
	Attack
	Remove
	Use
	Claim
)

var actionNames = []string{"build", "move", "attack", "remove", "use", "claim"}

// Command is a single parsed `pos SP action` line.
type Command struct {
	Pos       geometry.Pos
	Action    ActionKind
	Building  entity.BuildingType // valid when Action == Build
	Target    geometry.Pos        // valid when Action == Move
	Direction geometry.Direction  // valid when Action == Attack
}

// ParseError is a single-field structured message produced for a malformed
// command line; equality is by string value. Only this package produces it:
// the entity and field decoders return plain errors instead.
type ParseError struct {
	Message string
}

func (e ParseError) Error() string { return e.Message }

func errf(format string, args ...interface{}) ParseError {
	return ParseError{Message: fmt.Sprintf(format, args...)}
}

// Result pairs a successfully parsed Command with the line's failure, never
// both: exactly one of Err or a well-formed Command is meaningful at a
// time. Modeled as two fields rather than an interface so callers can test
// Err directly, matching the "ParseError vs no-op" error design.
type Result struct {
	Command Command
	Err     error
}

// ParseLines parses a newline-separated command blob into one Result per
// non-blank, non-comment line. A malformed line yields a Result carrying a
// ParseError; it never stops the remaining lines from being parsed.
func ParseLines(blob string) []Result {
	var results []Result
	for _, line := range strings.Split(blob, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		cmd, err := parseLine(trimmed)
		results = append(results, Result{Command: cmd, Err: err})
	}
	return results
}

func parseLine(line string) (Command, error) {
	posTok, rest, ok := cutSpace(line)
	if !ok {
		return Command{}, errf("missing action after position: %q", line)
	}
	pos, err := parsePos(posTok)
	if err != nil {
		return Command{}, errf("invalid position %q: %v", posTok, err)
	}

	actionTok, argTok, _ := cutSpace(rest)
	actionTok = strings.ToLower(actionTok)
	if !arrutil.Contains(actionNames, actionTok) {
		return Command{}, errf("unknown action %q", actionTok)
	}
	switch actionTok {
	case "build":
		if argTok == "" {
			return Command{}, errf("build requires a building argument: %q", line)
		}
		b, ok := entity.ParseBuilding(argTok)
		if !ok {
			return Command{}, errf("unknown building %q", argTok)
		}
		return Command{Pos: pos, Action: Build, Building: b}, nil
	case "move":
		if argTok == "" {
			return Command{}, errf("move requires a destination argument: %q", line)
		}
		target, err := parsePos(argTok)
		if err != nil {
			return Command{}, errf("invalid move destination %q: %v", argTok, err)
		}
		return Command{Pos: pos, Action: Move, Target: target}, nil
	case "attack":
		if argTok == "" {
			return Command{}, errf("attack requires a direction argument: %q", line)
		}
		dir, ok := geometry.ParseDirection(argTok)
		if !ok {
			return Command{}, errf("unknown direction %q", argTok)
		}
		return Command{Pos: pos, Action: Attack, Direction: dir}, nil
	case "remove":
		return Command{Pos: pos, Action: Remove}, nil
	case "use":
		return Command{Pos: pos, Action: Use}, nil
	case "claim":
		return Command{Pos: pos, Action: Claim}, nil
	default:
		return Command{}, errf("unknown action %q", actionTok)
	}
}

// cutSpace splits s on the first space, trimming the remainder's leading
// whitespace; ok is false if there is no space to split on.
func cutSpace(s string) (head, tail string, ok bool) {
	i := strings.IndexByte(s, ' ')
	if i < 0 {
		return s, "", false
	}
	return s[:i], strings.TrimSpace(s[i+1:]), true
}

func parsePos(s string) (geometry.Pos, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return geometry.Pos{}, fmt.Errorf("expected \"x,y\"")
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return geometry.Pos{}, err
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return geometry.Pos{}, err
	}
	return geometry.New(x, y), nil
}
