// Command focusbuddy is a pomodoro timer with a task list and focus
// statistics. Run without arguments it opens the terminal UI; the
// subcommands script the same state from a shell.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/sadopc/focusbuddy/internal/app"
	"github.com/sadopc/focusbuddy/internal/config"
	"github.com/sadopc/focusbuddy/internal/daterange"
	"github.com/sadopc/focusbuddy/internal/notify"
	"github.com/sadopc/focusbuddy/internal/store"
	"github.com/sadopc/focusbuddy/internal/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

var rootCmd = &cobra.Command{
	Use:   "focusbuddy",
	Short: "Pomodoro timer, task list and focus statistics",
	Long: `focusbuddy runs a pomodoro timer in the terminal.

Without a subcommand it opens the interactive UI. When stdout is not a
terminal it prints a short status summary instead.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runRoot,
}

var (
	flagDB     string
	flagConfig string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database file (overrides db_path and $"+config.EnvDB+")")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default $"+config.EnvConfig+" or <config dir>/focusbuddy/config.toml)")
}

// loadConfig reads the config file and applies the --db flag.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagDB != "" {
		cfg.DBPath = flagDB
	}
	if cfg.DBPath == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, err
		}
		cfg.DBPath = p
	}
	return cfg, nil
}

func newNotifier(cfg *config.Config) notify.Notifier {
	var n notify.Multi
	if cfg.Bell {
		n = append(n, notify.NewBell(os.Stderr))
	}
	if c := notify.NewCommand(cfg.NotifyCommand); c != nil {
		n = append(n, c)
	}
	if len(n) == 0 {
		return notify.Nop{}
	}
	return n
}

// session is an opened database plus the controller restored from it.
type session struct {
	store *store.Store
	ctl   *app.Controller
}

func (s *session) Close() error {
	return s.store.Close()
}

// openSession opens the database and restores the saved state. Problems
// decoding the saved document are logged to logOut and do not fail.
func openSession(cfg *config.Config, logOut io.Writer) (*session, error) {
	logger := log.New(logOut, "focusbuddy: ", log.LstdFlags)

	s, err := store.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	snap, err := s.Load()
	if err != nil {
		logger.Printf("load state: %v", err)
	}

	ctl := app.New(snap, s,
		app.WithNotifier(newNotifier(cfg)),
		app.WithLogger(logger),
	)
	return &session{store: s, ctl: ctl}, nil
}

// withSession is the common prologue of every subcommand.
func withSession(fn func(cmd *cobra.Command, args []string, s *session) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		s, err := openSession(cfg, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer s.Close()
		return fn(cmd, args, s)
	}
}

func runRoot(cmd *cobra.Command, _ []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return withSession(func(cmd *cobra.Command, _ []string, s *session) error {
			return printStatus(cmd.OutOrStdout(), s)
		})(cmd, nil)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logPath, err := cfg.LogPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	f, err := tea.LogToFile(logPath, "focusbuddy")
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	s, err := openSession(cfg, f)
	if err != nil {
		return err
	}
	defer s.Close()

	p := tea.NewProgram(tui.NewApp(s.ctl, ""), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

func printStatus(w io.Writer, s *session) error {
	c := s.ctl
	tm := c.Timer()
	today := c.StatsForPeriod(daterange.Daily)
	done, total, pct := c.TaskProgress()

	saved := "never"
	at, ok, err := lastSaved(s.store)
	if err != nil {
		return err
	}
	if ok {
		saved = humanize.Time(at)
	}

	fmt.Fprintf(w, "Timer:     %s %02d:%02d (%s), session %d of %d\n",
		tm.Mode.Label(), tm.TimeLeft/60, tm.TimeLeft%60, tm.Status, tm.CurrentSession, tm.TotalSessions)
	fmt.Fprintf(w, "Today:     %d pomodoros, %s focus, %d tasks completed\n",
		today.Pomodoros, formatMinutes(today.FocusMinutes), today.TasksCompleted)
	fmt.Fprintf(w, "Tasks:     %d/%d done (%d%%)\n", done, total, pct)
	fmt.Fprintf(w, "All time:  %d pomodoros\n", c.PomodorosCompleted())
	fmt.Fprintf(w, "Saved:     %s\n", saved)
	return nil
}

// lastSaved is when the state document was last written.
func lastSaved(st *store.Store) (time.Time, bool, error) {
	entries, err := st.Entries()
	if err != nil {
		return time.Time{}, false, err
	}
	for _, e := range entries {
		if e.Key == store.StorageKey {
			return e.UpdatedAt, true, nil
		}
	}
	return time.Time{}, false, nil
}

// formatMinutes renders minutes as "1h 05m" or "25m".
func formatMinutes(mins int) string {
	if mins < 60 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%dh %02dm", mins/60, mins%60)
}
