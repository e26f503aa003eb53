// Package players is the external collaborator that discovers per-player
// home directories, reads each player's submitted command blob, and
// appends parse-error diagnostics to that player's log file. It is the
// only package in the module that touches the filesystem on the engine's
// behalf; the engine itself never does I/O.
package players

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/time/rate"
)

// Discover returns, in sorted order, the ids of every immediate
// subdirectory of homeDirs whose "<sub>/<gameDir>/" exists. The directory
// name itself is the player id.
func Discover(homeDirs, gameDir string) ([]string, error) {
	entries, err := os.ReadDir(homeDirs)
	if err != nil {
		return nil, fmt.Errorf("players: reading home dirs %q: %w", homeDirs, err)
	}
	var ids []string
	for _, ent := range entries {
		if !ent.IsDir() {
			continue
		}
		candidate := filepath.Join(homeDirs, ent.Name(), gameDir)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			ids = append(ids, ent.Name())
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// ReadCommands tries each world name in order under
// "<homeDirs>/<playerID>/<gameDir>/<worldName>" and returns the contents of
// the first one that can be read, along with that world name. It returns
// ok=false if none of the candidate files are readable.
func ReadCommands(homeDirs, gameDir, playerID string, worldNames []string) (blob string, usedWorldName string, ok bool) {
	for _, name := range worldNames {
		path := filepath.Join(homeDirs, playerID, gameDir, name)
		data, err := os.ReadFile(path)
		if err == nil {
			return string(data), name, true
		}
	}
	return "", "", false
}

// Logger appends rate-limited diagnostic lines to a player's log file,
// guarding against a malformed input directory producing unbounded log
// growth within a single invocation. Burst and refill match the teacher's
// per-peer rate limiter shape, scaled down for a single-process CLI run.
type Logger struct {
	homeDirs, gameDir, logFileName string
	limiters                       map[string]*rate.Limiter
	now                            func() time.Time
}

// NewLogger builds a Logger that writes to
// "<homeDirs>/<playerID>/<gameDir>/<logFileName>".
func NewLogger(homeDirs, gameDir, logFileName string) *Logger {
	return &Logger{
		homeDirs:    homeDirs,
		gameDir:     gameDir,
		logFileName: logFileName,
		limiters:    make(map[string]*rate.Limiter),
		now:         time.Now,
	}
}

func (l *Logger) limiterFor(playerID string) *rate.Limiter {
	lim, ok := l.limiters[playerID]
	if !ok {
		lim = rate.NewLimiter(5, 20)
		l.limiters[playerID] = lim
	}
	return lim
}

// Append writes message to playerID's log file as
// "<RFC-3339 UTC timestamp>  <message>", newline-terminated, unless that
// player's log rate budget for this invocation is exhausted, in which case
// the line is silently dropped.
func (l *Logger) Append(playerID, message string) error {
	if !l.limiterFor(playerID).Allow() {
		return nil
	}
	dir := filepath.Join(l.homeDirs, playerID, l.gameDir)
	path := filepath.Join(dir, l.logFileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("players: opening log for %q: %w", playerID, err)
	}
	defer f.Close()
	line := fmt.Sprintf("%s  %s\n", l.now().UTC().Format(time.RFC3339), message)
	_, err = f.WriteString(line)
	return err
}
