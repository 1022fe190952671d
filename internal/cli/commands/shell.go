package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/octofit/octofit/internal/cli/output"
	"github.com/octofit/octofit/internal/listview"
	"github.com/octofit/octofit/internal/resource"
)

// NewShellCommand creates the shell command.
func NewShellCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shell [kind]",
		Short: "Browse the lists in an interactive shell",
		Long: `Start a line-oriented shell over the leaderboard, teams and workouts lists.

Each list keeps its own filter and last loaded entries for the whole session.
Type .help inside the shell for the available commands.`,
		Example: `  # Start on the leaderboard
  octofit shell

  # Start on teams
  octofit shell teams`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: resource.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := resource.Leaderboard.Name
			if len(args) == 1 {
				start = args[0]
			}
			return runShell(cmd, start)
		},
	}
}

// shell holds the state of one interactive session.
type shell struct {
	set     *resource.Set
	current *resource.Panel
	r       *output.Renderer
	errOut  io.Writer
}

func newShell(set *resource.Set, r *output.Renderer, start string) (*shell, error) {
	p, ok := set.Get(start)
	if !ok {
		return nil, fmt.Errorf("unknown kind %q (want one of %s)", start, strings.Join(resource.Names(), ", "))
	}
	return &shell{set: set, current: p, r: r, errOut: r.ErrWriter()}, nil
}

func (s *shell) prompt() string {
	return fmt.Sprintf("octofit(%s)> ", s.current.Kind.Name)
}

func runShell(cmd *cobra.Command, start string) error {
	ctx := cmd.Context()
	cmdCtx := NewCommandContext(cmd)

	set := resource.NewSet(cmdCtx.PanelOptions())
	defer set.Dispose()

	sh, err := newShell(set, cmdCtx.Renderer, start)
	if err != nil {
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          sh.prompt(),
		HistoryFile:     historyFile(),
		AutoComplete:    newShellCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize shell: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "OctoFit shell")
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		if quit := sh.exec(ctx, line); quit {
			break
		}
		rl.SetPrompt(sh.prompt())
	}

	return nil
}

// historyFile returns the shell history path under the user config dir, or
// "" to disable history.
func historyFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	dir = filepath.Join(dir, "octofit")
	if err := os.MkdirAll(dir, 0750); err != nil {
		return ""
	}
	return filepath.Join(dir, "shell_history")
}

// exec runs one line of input and reports whether the session should end.
// Input that is not a dot-command sets the filter.
func (s *shell) exec(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if !strings.HasPrefix(line, ".") {
		s.setFilter(line)
		return false
	}

	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])
	arg := strings.TrimSpace(strings.TrimPrefix(line, parts[0]))

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printShellHelp(s.r.Writer())

	case ".kinds":
		for _, k := range resource.Kinds() {
			marker := "  "
			if k.Name == s.current.Kind.Name {
				marker = "* "
			}
			s.r.Printf("%s%-12s %s\n", marker, k.Name, k.Subtitle)
		}

	case ".use":
		p, ok := s.set.Get(arg)
		if !ok {
			s.errorf("Usage: .use <%s>", strings.Join(resource.Names(), "|"))
			return false
		}
		s.current = p

	case ".filter":
		s.setFilter(arg)

	case ".refresh":
		if err := refreshAndWait(ctx, s.current); err != nil {
			s.errorf("Error: %v", err)
			return false
		}
		s.show()

	case ".show":
		s.show()

	case ".state":
		s.printState()

	default:
		s.errorf("Unknown command: %s (type .help for commands)", command)
	}

	return false
}

func (s *shell) setFilter(q string) {
	s.current.SetFilter(q)
	if s.current.State().Phase == listview.PhaseLoaded {
		s.show()
	}
}

func (s *shell) show() {
	state := s.current.State()
	switch state.Phase {
	case listview.PhaseIdle:
		s.r.Println("Not loaded yet. Type .refresh to fetch.")
		return
	case listview.PhaseLoading:
		s.r.Println(s.current.Kind.LoadingMessage)
		return
	}
	if err := renderPanel(s.r, s.current); err != nil {
		s.errorf("Error: %v", err)
	}
}

func (s *shell) printState() {
	state := s.current.State()
	s.r.Printf("kind:     %s\n", s.current.Kind.Name)
	s.r.Printf("endpoint: %s\n", s.current.Endpoint())
	s.r.Printf("state:    %s\n", state.Phase)
	s.r.Printf("filter:   %q\n", s.current.Filter())
	if state.Phase == listview.PhaseLoaded {
		s.r.Printf("entries:  %d (%d shown)\n", len(state.Items), len(s.current.View()))
	}
	if state.Err != nil {
		s.r.Printf("error:    %s: %s\n", state.Kind(), s.current.ErrorMessage())
	}
}

func (s *shell) errorf(format string, a ...any) {
	_, _ = fmt.Fprintf(s.errOut, format+"\n", a...)
}

func printShellHelp(w io.Writer) {
	help := `
Commands:
  .use <kind>     Switch to leaderboard, teams or workouts
  .refresh        Fetch the current list again
  .filter [text]  Set the filter (empty clears it)
  .show           Print the current list
  .state          Show the current state and endpoint
  .kinds          List the kinds
  .help           Show this help message
  .quit / .exit   Exit the shell

Tips:
  - Any other input is used as the filter
  - Filtering is case-insensitive and never fetches
  - Tab completion works for commands and kinds
`
	_, _ = fmt.Fprintln(w, help)
}

// newShellCompleter creates a readline completer for dot-commands and kinds.
func newShellCompleter() *readline.PrefixCompleter {
	kinds := make([]readline.PrefixCompleterInterface, 0, len(resource.Names()))
	for _, name := range resource.Names() {
		kinds = append(kinds, readline.PcItem(name))
	}

	return readline.NewPrefixCompleter(
		readline.PcItem(".use", kinds...),
		readline.PcItem(".refresh"),
		readline.PcItem(".filter"),
		readline.PcItem(".show"),
		readline.PcItem(".state"),
		readline.PcItem(".kinds"),
		readline.PcItem(".help"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}
