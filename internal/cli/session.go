package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/MRamiBalles/PocketPet/internal/domain/pet"
	"github.com/MRamiBalles/PocketPet/internal/engine"
	"github.com/MRamiBalles/PocketPet/internal/events"
	"github.com/MRamiBalles/PocketPet/internal/render"
)

// NamePrompt is asked when adopt is typed without a name.
const NamePrompt = "Name your pet 💗"

// maxWait caps a single wait command.
const maxWait = 500

// Game is the part of the engine a terminal session drives.
type Game interface {
	View() render.View
	Adopt(ctx context.Context, species pet.Species, name string) (render.View, error)
	Feed(ctx context.Context) (render.View, error)
	Pet(ctx context.Context) (render.View, error)
	Sleep(ctx context.Context) (render.View, error)
	Tick(ctx context.Context) (render.View, error)
	Reset(ctx context.Context, c engine.Confirmer) (render.View, bool, error)
	GetEventLog() *events.EventLog
}

// Session reads commands line by line and runs them against a Game.
type Session struct {
	game     Game
	registry *Registry
	in       *bufio.Scanner
	out      io.Writer
}

// NewSession reads from in and writes prompts and replies to out.
func NewSession(game Game, in io.Reader, out io.Writer) *Session {
	return &Session{
		game:     game,
		registry: DefaultRegistry(),
		in:       bufio.NewScanner(in),
		out:      out,
	}
}

// Run processes input until quit, end of input or ctx cancellation.
func (s *Session) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "Type help for commands.")
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fmt.Fprint(s.out, "> ")
		line, ok := s.readLine()
		if !ok {
			return s.in.Err()
		}
		quit, err := s.Exec(ctx, line)
		if err != nil {
			fmt.Fprintln(s.out, "error: "+err.Error())
		}
		if quit {
			return nil
		}
	}
}

// Exec runs one command line. It reports whether the session should end.
func (s *Session) Exec(ctx context.Context, line string) (bool, error) {
	cmd := s.registry.Parse(line)
	if cmd.Verb == "" {
		if strings.TrimSpace(line) == "" {
			return false, nil
		}
		if len(cmd.Suggest) > 0 {
			fmt.Fprintf(s.out, "Did you mean: %s?\n", strings.Join(cmd.Suggest, ", "))
		} else {
			fmt.Fprintln(s.out, "Unknown command. Type help.")
		}
		return false, nil
	}

	var err error
	switch cmd.Verb {
	case VerbAdopt:
		err = s.adopt(ctx, cmd.Args)
	case VerbFeed:
		_, err = s.game.Feed(ctx)
	case VerbPet:
		_, err = s.game.Pet(ctx)
	case VerbSleep:
		_, err = s.game.Sleep(ctx)
	case VerbStatus:
		fmt.Fprint(s.out, render.Text(s.game.View()))
	case VerbWait:
		err = s.wait(ctx, cmd.Args)
	case VerbReset:
		err = s.reset(ctx)
	case VerbSpecies:
		for _, o := range pet.Options() {
			fmt.Fprintf(s.out, "  %s %s\n", o.Glyph, o.Species)
		}
	case VerbHistory:
		for _, e := range s.game.GetEventLog().Replay() {
			fmt.Fprintf(s.out, "  [%d] %s %s\n", e.Tick, e.Type, e.PetName)
		}
	case VerbHelp:
		for _, c := range s.registry.Commands() {
			fmt.Fprintf(s.out, "  %-24s %s\n", c.Usage, strings.Join(c.Aliases, ", "))
		}
	case VerbQuit:
		fmt.Fprintln(s.out, "Bye!")
		return true, nil
	}
	return false, err
}

func (s *Session) adopt(ctx context.Context, args []string) error {
	if s.game.View().Adopted {
		fmt.Fprintln(s.out, "You already have a pet.")
		return nil
	}
	if len(args) == 0 {
		fmt.Fprintln(s.out, "Adopt which species? Type species for the list.")
		return nil
	}
	species, ok := MatchSpecies(args[0])
	if !ok {
		return fmt.Errorf("%w: %s", engine.ErrUnknownSpecies, args[0])
	}

	name := strings.Join(args[1:], " ")
	if strings.TrimSpace(name) == "" {
		fmt.Fprint(s.out, NamePrompt+" ")
		name, _ = s.readLine()
	}
	_, err := s.game.Adopt(ctx, species, name)
	return err
}

func (s *Session) wait(ctx context.Context, args []string) error {
	n := 1
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 1 {
			return errors.New("wait needs a positive number of ticks")
		}
		n = v
	}
	if n > maxWait {
		n = maxWait
	}
	for i := 0; i < n; i++ {
		if _, err := s.game.Tick(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) reset(ctx context.Context) error {
	_, done, err := s.game.Reset(ctx, s)
	if err != nil {
		return err
	}
	if done {
		fmt.Fprintln(s.out, "Goodbye, little friend.")
	}
	return nil
}

// Confirm implements engine.Confirmer by asking on the terminal.
func (s *Session) Confirm(prompt string) bool {
	fmt.Fprint(s.out, prompt+" [y/N] ")
	line, _ := s.readLine()
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func (s *Session) readLine() (string, bool) {
	if !s.in.Scan() {
		return "", false
	}
	return s.in.Text(), true
}
