package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theaarondumas/unitflow/internal/app"
	"github.com/theaarondumas/unitflow/internal/export"
	"github.com/theaarondumas/unitflow/internal/record"
	"github.com/theaarondumas/unitflow/internal/selection"
)

const shellHelp = `Commands:
  list <scope>                      show a list (supply-today, supply-week, crash-today, crash-week)
  begin <scope>                     start selecting from a list
  toggle <id>...                    select or unselect entries of the selected list
  state                             show the selection
  cancel                            end the selection
  nav                               leave the screen (ends the selection)
  export [selected|all] [mode] [--xlsx]
  print [selected|all] [mode]
  view                              write the selection as a table document
  alerts                            show crash cart alerts
  carts                             show every crash cart
  supply key=value...               log a supply entry (author, shift, unit, type, severity, qty, notes)
  crash key=value...                log a crash cart check (cart_type, location, cart, reason, central_old,
                                    central_new, med_old, med_new, checked_by, seal, notes)
  help
  quit`

// errQuit ends the shell loop.
var errQuit = errors.New("quit")

// NewShellCommand creates the shell command.
func NewShellCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive session with a selection that spans commands",
		Long: `Read commands from standard input, one per line, against one open
database. The selection started with "begin" lives until "cancel", "nav",
a new "begin", or the end of input. Arguments may be quoted.

` + shellHelp,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closeFn, err := rootOpts.openApp(cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			sh := &shell{
				app:       a,
				out:       rootOpts.formatter(cmd),
				exportDir: rootOpts.cfg.ExportDir,
			}
			return sh.run(cmd)
		},
	}
}

type shell struct {
	app       *app.App
	out       *OutputFormatter
	exportDir string
}

func (s *shell) run(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	prompt := cmd.ErrOrStderr()

	scanner := bufio.NewScanner(cmd.InOrStdin())
	fmt.Fprint(prompt, "unitflow> ")
	for scanner.Scan() {
		args, err := splitArgs(scanner.Text())
		switch {
		case err != nil:
			s.report(WrapExitError(ExitCommandError, "parse command", err))
		case len(args) > 0:
			err = s.exec(ctx, args)
			if errors.Is(err, errQuit) {
				return nil
			}
			if err != nil {
				s.report(err)
			}
		}
		fmt.Fprint(prompt, "unitflow> ")
	}
	fmt.Fprintln(prompt)
	return scanner.Err()
}

// report prints a command failure and keeps the shell running.
func (s *shell) report(err error) {
	code, _ := classify(err)
	_ = s.out.Error(code, err.Error(), nil)
}

func usage(format string, args ...any) error {
	return NewExitError(ExitCommandError, fmt.Sprintf(format, args...))
}

func (s *shell) exec(ctx context.Context, args []string) error {
	name, rest := strings.ToLower(args[0]), args[1:]

	switch name {
	case "quit", "exit":
		return errQuit

	case "help":
		return s.out.Success(shellHelp)

	case "list":
		if len(rest) != 1 {
			return usage("usage: list <scope>")
		}
		scope, err := selection.ParseScope(rest[0])
		if err != nil {
			return usage("%v", err)
		}
		board, err := s.app.Rendered(ctx, scope.Mode())
		if err != nil {
			return err
		}
		l := board.List(scope.Window())
		if s.out.JSON() {
			return s.out.Success(l)
		}
		writeList(s.out.Writer, l)
		return nil

	case "begin":
		if len(rest) != 1 {
			return usage("usage: begin <scope>")
		}
		scope, err := selection.ParseScope(rest[0])
		if err != nil {
			return usage("%v", err)
		}
		s.app.BeginSelection(scope)
		return s.state(ctx)

	case "toggle":
		if len(rest) == 0 {
			return usage("usage: toggle <id>...")
		}
		return s.toggle(ctx, rest)

	case "state":
		return s.state(ctx)

	case "cancel":
		s.app.CancelSelection()
		return s.state(ctx)

	case "nav":
		s.app.NavigateAway()
		return s.state(ctx)

	case "export":
		return s.export(ctx, rest)

	case "print":
		target, mode, _, err := handoffArgs(rest, false)
		if err != nil {
			return err
		}
		art, delivered, err := s.app.RequestPrint(ctx, target, mode)
		if err != nil {
			return err
		}
		return s.handedOff(art, delivered)

	case "view":
		if len(rest) != 0 {
			return usage("usage: view")
		}
		art, delivered, err := s.app.RequestTableView(ctx)
		if err != nil {
			return err
		}
		return s.handedOff(art, delivered)

	case "alerts":
		alerts, err := s.app.CurrentAlerts(ctx)
		if err != nil {
			return err
		}
		if s.out.JSON() {
			return s.out.Success(map[string]any{"alerts": alerts})
		}
		writeAlerts(s.out.Writer, alerts)
		return nil

	case "carts":
		carts, err := s.app.Carts(ctx)
		if err != nil {
			return err
		}
		if s.out.JSON() {
			return s.out.Success(carts)
		}
		writeCarts(s.out.Writer, carts)
		return nil

	case "supply":
		f := record.SupplyFields{Type: record.DefaultSupplyType, Severity: string(record.DefaultSeverity)}
		if err := assignFields(supplyFieldRefs(&f), rest); err != nil {
			return usage("%v", err)
		}
		sub, err := s.app.SubmitSupply(ctx, f)
		if err != nil {
			return err
		}
		if s.out.JSON() {
			return s.out.Success(sub)
		}
		return s.out.Success(supplyText(sub))

	case "crash":
		f := record.CrashFields{CartType: record.DefaultCartType, Reason: record.DefaultReason}
		if err := assignFields(crashFieldRefs(&f), rest); err != nil {
			return usage("%v", err)
		}
		r, err := s.app.SubmitCrash(ctx, f)
		if err != nil {
			return err
		}
		if s.out.JSON() {
			return s.out.Success(r)
		}
		return s.out.Success(crashText(r))
	}

	return usage("unknown command %q (try help)", name)
}

func (s *shell) state(ctx context.Context) error {
	st, err := s.app.SelectionState(ctx)
	if err != nil {
		return err
	}
	if s.out.JSON() {
		return s.out.Success(st)
	}
	ids, err := s.app.Selected(ctx)
	if err != nil {
		return err
	}
	writeState(s.out.Writer, st, ids)
	return nil
}

func (s *shell) toggle(ctx context.Context, ids []string) error {
	st, err := s.app.SelectionState(ctx)
	if err != nil {
		return err
	}
	if !st.Active {
		return usage("not selecting: run begin <scope> first")
	}
	for _, id := range ids {
		ok, err := s.app.ToggleSelection(ctx, st.Scope, id)
		if err != nil {
			return err
		}
		if !ok {
			if err := s.out.Error(CodeUsage, fmt.Sprintf("%s is not in %s", id, st.Scope), nil); err != nil {
				return err
			}
		}
	}
	return s.state(ctx)
}

func (s *shell) export(ctx context.Context, args []string) error {
	target, mode, xlsx, err := handoffArgs(args, true)
	if err != nil {
		return err
	}
	format := app.FormatCSV
	if xlsx {
		format = app.FormatXLSX
	}
	art, delivered, err := s.app.RequestExport(ctx, target, mode, format)
	if err != nil {
		return err
	}
	return s.handedOff(art, delivered)
}

func (s *shell) handedOff(art export.Artifact, delivered bool) error {
	if s.out.JSON() {
		return s.out.Success(newHandoffResult(art, delivered, s.exportDir))
	}
	return s.out.Success(handoffText(art, delivered, s.exportDir))
}

// handoffArgs parses "[selected|all] [mode] [--xlsx]". The target
// defaults to selected; all needs a mode.
func handoffArgs(args []string, allowXLSX bool) (target app.Target, mode record.Mode, xlsx bool, err error) {
	target = app.TargetSelected
	var positional []string
	for _, a := range args {
		if a == "--xlsx" && allowXLSX {
			xlsx = true
			continue
		}
		positional = append(positional, a)
	}
	if len(positional) > 2 {
		return "", "", false, usage("too many arguments")
	}
	if len(positional) >= 1 {
		if target, err = app.ParseTarget(positional[0]); err != nil {
			return "", "", false, usage("%v", err)
		}
	}
	if len(positional) == 2 {
		if mode, err = parseMode(positional[1]); err != nil {
			return "", "", false, err
		}
	}
	if target == app.TargetAll && mode == "" {
		return "", "", false, usage("all needs a mode: supply or crash")
	}
	return target, mode, xlsx, nil
}

// splitArgs splits a command line on whitespace. Single and double quotes
// group words; a backslash escapes the next character outside single
// quotes.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			inWord = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inWord = true
		case r == ' ' || r == '\t':
			if inWord {
				args = append(args, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteRune(r)
			inWord = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if escaped {
		return nil, errors.New("trailing backslash")
	}
	if inWord {
		args = append(args, cur.String())
	}
	return args, nil
}
