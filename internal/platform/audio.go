package platform

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/rs/zerolog"
)

// ErrNoAudioPlayer indicates no playback command is installed.
var ErrNoAudioPlayer = errors.New("no audio player found")

var audioPlayers = []struct {
	name string
	args []string
}{
	{"paplay", nil},
	{"aplay", nil},
	{"afplay", nil},
	{"mpv", []string{"--no-video", "--really-quiet"}},
	{"ffplay", []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}},
}

// AudioPlayer plays jingle files through whichever command-line player
// is installed.
type AudioPlayer struct {
	playerPath string
	playerArgs []string
	log        zerolog.Logger
}

// NewAudioPlayer probes for a playback command. A player-less system
// still gets a valid AudioPlayer whose Play reports ErrNoAudioPlayer.
func NewAudioPlayer(logger zerolog.Logger) *AudioPlayer {
	player := &AudioPlayer{log: logger.With().Str("component", "audio").Logger()}
	for _, candidate := range audioPlayers {
		path, err := exec.LookPath(candidate.name)
		if err != nil {
			continue
		}
		player.playerPath = path
		player.playerArgs = candidate.args
		break
	}
	return player
}

// Play starts playback of the file and returns without waiting for it
// to finish.
func (player *AudioPlayer) Play(path string) error {
	if player.playerPath == "" {
		return ErrNoAudioPlayer
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("audio file: %w", err)
	}

	args := append(append([]string(nil), player.playerArgs...), path)
	cmd := exec.Command(player.playerPath, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start player: %w", err)
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			player.log.Debug().Err(err).Str("file", path).Msg("player exited with error")
		}
	}()
	return nil
}
