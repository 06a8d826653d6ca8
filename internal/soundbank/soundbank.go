// Package soundbank locates and plays letter cue audio files.
package soundbank

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// MinCoverage is the fraction of the active alphabet that must have a
// cue file for a sound-enabled session to start.
const MinCoverage = 0.5

var cueExtensions = []string{".wav", ".ogg", ".mp3", ".aiff"}

var knownPlayers = []string{"paplay", "aplay", "afplay", "ffplay"}

// Bank maps symbols to cue files and plays them through an external
// player. Playback is best-effort: a spawn failure disables the bank
// for the rest of the session instead of interrupting it.
type Bank struct {
	files    map[rune]string
	player   string
	disabled bool
}

// Load scans dir for cue files named <symbol>.<ext> covering the given
// symbols. It fails when fewer than half the symbols have a cue; a
// partially covered alphabet loads with the missing symbols silent.
func Load(dir string, symbols []rune) (*Bank, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("no symbols to load cues for")
	}
	files := map[rune]string{}
	for _, symbol := range symbols {
		for _, ext := range cueExtensions {
			path := filepath.Join(dir, string(symbol)+ext)
			if _, err := os.Stat(path); err == nil {
				files[symbol] = path
				break
			}
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no cue files found in %s", dir)
	}
	coverage := float64(len(files)) / float64(len(symbols))
	if coverage < MinCoverage {
		return nil, fmt.Errorf("only %d of %d symbols have cue files in %s (need at least half)", len(files), len(symbols), dir)
	}
	return &Bank{files: files}, nil
}

// ResolvePlayer locates the playback command. An explicit command is
// looked up as-is; otherwise the first known player on PATH wins.
func (b *Bank) ResolvePlayer(override string) error {
	if override != "" {
		path, err := exec.LookPath(override)
		if err != nil {
			return fmt.Errorf("player %q not found: %w", override, err)
		}
		b.player = path
		return nil
	}
	for _, candidate := range knownPlayers {
		if path, err := exec.LookPath(candidate); err == nil {
			b.player = path
			return nil
		}
	}
	return fmt.Errorf("no audio player found (tried %s)", strings.Join(knownPlayers, ", "))
}

// Missing lists symbols without a cue file, sorted.
func (b *Bank) Missing(symbols []rune) []rune {
	var missing []rune
	for _, symbol := range symbols {
		if _, ok := b.files[symbol]; !ok {
			missing = append(missing, symbol)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing
}

// Play spawns the player for a symbol's cue without waiting for it.
// Symbols without a cue are silent. After a spawn failure the bank
// stays silent for the rest of the session.
func (b *Bank) Play(symbol rune) {
	if b.disabled || b.player == "" {
		return
	}
	path, ok := b.files[symbol]
	if !ok {
		return
	}
	cmd := exec.Command(b.player, playerArgs(b.player, path)...)
	if err := cmd.Start(); err != nil {
		logErrf("failed to play cue, disabling sound: %v\n", err)
		b.disabled = true
		return
	}
	go func() {
		// Reap the player process.
		_ = cmd.Wait()
	}()
}

func playerArgs(player, path string) []string {
	if filepath.Base(player) == "ffplay" {
		return []string{"-nodisp", "-autoexit", "-loglevel", "quiet", path}
	}
	return []string{path}
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
