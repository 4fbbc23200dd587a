package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/beka-birhanu/vinom-sweeper/game"
	"github.com/beka-birhanu/vinom-sweeper/game/board"
	logger "github.com/beka-birhanu/vinom-sweeper/infrastruture/log"
	"github.com/beka-birhanu/vinom-sweeper/infrastruture/solver"
	"github.com/beka-birhanu/vinom-sweeper/service/i"
	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"
)

const playHelp = `commands:
  u, uncover CELL...    open cells
  c, chord CELL         open the neighbours of a satisfied number
  f, flag CELL [set|clear]
  b, board              show the board
  r, rules [everything] show the solver constraint set
  s, solve              ask the solver for mine probabilities
  p, prob CELL          show the mine probability of a cell
  h, hint               flag proven mines and open proven safe cells
  q, quit`

var errQuit = errors.New("quit")

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game in the terminal",
	Long: `Play starts an interactive game. Cells are named as on the wire, for
example 3-4 on grids or f2-0-1 on cube surfaces. With --solver-url the
solve, prob and hint commands consult an HTTP solver.

Example:
  sweepctl play --preset torus
  SWEEP_SOLVER_URL=http://localhost:8080/solve sweepctl play --preset hex`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	addGameFlags(playCmd)
	playCmd.Flags().String(keySolverURL, "", "HTTP solver endpoint")
}

// repl interprets play commands against one session.
type repl struct {
	session *game.Session
	solver  i.Solver
	out     io.Writer
}

func runPlay(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	r := &repl{session: s, out: cmd.OutOrStdout()}

	if url := cfg.GetString(keySolverURL); url != "" {
		l, err := logger.New("SOLVER", "", os.Stderr)
		if err != nil {
			return err
		}
		r.solver, err = solver.NewHTTPClient(url, l)
		if err != nil {
			return err
		}
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "sweep> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	r.show()
	fmt.Fprintln(r.out, `type "help" for commands`)
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := r.exec(line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			fmt.Fprintln(r.out, "error:", err)
		}
	}
}

func (r *repl) exec(line string) error {
	words, err := shellquote.Split(line)
	if err != nil {
		return err
	}
	if len(words) == 0 {
		return nil
	}
	verb, args := words[0], words[1:]

	switch verb {
	case "q", "quit", "exit":
		return errQuit
	case "help", "?":
		fmt.Fprintln(r.out, playHelp)
	case "b", "board":
		r.show()
	case "u", "uncover":
		if len(args) == 0 {
			return errors.New("uncover needs a cell")
		}
		for _, cell := range args {
			res, err := r.session.Uncover(cell)
			if err != nil {
				return err
			}
			if res.Finished {
				break
			}
		}
		r.show()
	case "c", "chord":
		if len(args) != 1 {
			return errors.New("chord needs one cell")
		}
		if _, err := r.session.Chord(args[0]); err != nil {
			return err
		}
		r.show()
	case "f", "flag":
		if len(args) == 0 || len(args) > 2 {
			return errors.New("flag needs a cell and an optional set or clear")
		}
		action := board.FlagToggle
		if len(args) == 2 {
			switch args[1] {
			case "set":
				action = board.FlagSet
			case "clear":
				action = board.FlagClear
			default:
				return fmt.Errorf("unknown flag action %q", args[1])
			}
		}
		if _, err := r.session.Flag(args[0], action); err != nil {
			return err
		}
		r.show()
	case "r", "rules":
		cs := r.session.Rules(len(args) > 0 && args[0] == "everything")
		for _, rule := range cs.Rules {
			fmt.Fprintf(r.out, "%d in %s\n", rule.NumMines, strings.Join(rule.Cells, " "))
		}
		fmt.Fprintf(r.out, "total cells %d", cs.TotalCells)
		if cs.TotalMines != nil {
			fmt.Fprintf(r.out, ", total mines %d", *cs.TotalMines)
		}
		if cs.MineProb != nil {
			fmt.Fprintf(r.out, ", mine probability %.3f", *cs.MineProb)
		}
		fmt.Fprintln(r.out)
	case "s", "solve":
		return r.solve()
	case "p", "prob":
		if len(args) != 1 {
			return errors.New("prob needs one cell")
		}
		snap := r.session.Snapshot()
		if snap.Solution != game.SolutionReady {
			return game.ErrNoSolution
		}
		sol := board.Solution{Probabilities: snap.Probabilities}
		p, ok := sol.Probability(args[0])
		if !ok {
			return fmt.Errorf("no probability for %s", args[0])
		}
		fmt.Fprintf(r.out, "%s: %.3f\n", args[0], p)
	case "h", "hint":
		if _, err := r.session.ApplyHints(); err != nil {
			return err
		}
		r.show()
	default:
		return fmt.Errorf("unknown command %q, try help", verb)
	}
	return nil
}

func (r *repl) solve() error {
	if r.solver == nil {
		return errors.New("no solver configured, pass --solver-url")
	}
	version, cs, err := r.session.SolveRequest()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sol, err := r.solver.Solve(ctx, cs)
	r.session.ApplySolution(version, sol, err)
	if err != nil {
		return err
	}

	mines, safe := sol.CertainMines(), sol.CertainSafe()
	sort.Strings(mines)
	sort.Strings(safe)
	fmt.Fprintf(r.out, "solved in %.3fs\n", sol.ProcessingTime)
	fmt.Fprintf(r.out, "certain mines: %s\n", strings.Join(mines, " "))
	fmt.Fprintf(r.out, "certain safe:  %s\n", strings.Join(safe, " "))
	return nil
}

func (r *repl) show() {
	snap := r.session.Snapshot()
	fmt.Fprintln(r.out, snap.Board)
	status := fmt.Sprintf("%s, %d flags, move %d", snap.Status, snap.Flags, snap.Moves)
	if snap.Mines > 0 {
		status = fmt.Sprintf("%s, %d mines", status, snap.Mines)
	}
	if snap.EndedAt.IsZero() {
		fmt.Fprintln(r.out, status)
		return
	}
	fmt.Fprintf(r.out, "%s, %s\n", status, snap.Duration().Round(time.Millisecond))
}
