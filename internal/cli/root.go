// Package cli implements the dateplan command line.
//
// Running dateplan without a subcommand starts the interactive session.
// The subcommands perform a single plan operation and exit, which makes
// dateplan usable from scripts.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/danieljhkim/dateplan/internal/clock"
	"github.com/danieljhkim/dateplan/internal/config"
	"github.com/danieljhkim/dateplan/internal/engine"
	"github.com/danieljhkim/dateplan/internal/fsops"
	"github.com/danieljhkim/dateplan/internal/session"
	"github.com/danieljhkim/dateplan/internal/stores"
)

var (
	version = "dev"

	// clk resolves the "today" date argument. Tests replace it.
	clk clock.Clock = &clock.RealClock{}

	// Colors for help output sections
	groupTitleColor   = color.New(color.FgCyan, color.Bold)
	sectionTitleColor = color.New(color.FgBlue, color.Bold)
)

// app carries the global flags shared by every command.
type app struct {
	cfgFlags   *config.Flags
	jsonOutput bool
	verbose    bool
}

// SetVersion sets the version reported by --version and the version command.
func SetVersion(v string) {
	if v == "" {
		return
	}
	version = v
}

// newRootCmd builds the full command tree.
func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "dateplan",
		Version: version,
		Short:   "Date-based to-do lists kept in plain text files",
		Long: `dateplan organizes your to-do items by calendar date.

Each date's plan is stored in its own text file (DD_MM_YYYY_tasks.txt), one task
per line. Run without a command for the interactive menu.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.newStore(cmd)
			if err != nil {
				return err
			}
			in := cmd.InOrStdin()
			out := cmd.OutOrStdout()
			return session.New(store, newPrompter(in, out), out, clk).Run()
		},
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.SetHelpFunc(customHelpFunc)

	a.cfgFlags = config.RegisterFlags(rootCmd.PersistentFlags())
	rootCmd.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log storage activity to stderr")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "plan-tasks",
		Title: "Plan Tasks:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "plan-management",
		Title: "Plan Management:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "cli-tooling",
		Title: "CLI & Tooling:",
	})

	for _, c := range []*cobra.Command{
		newAddCmd(a),
		newViewCmd(a),
		newRemoveCmd(a),
		newUpdateCmd(a),
		newMoveCmd(a),
	} {
		c.GroupID = "plan-tasks"
		rootCmd.AddCommand(c)
	}

	for _, c := range []*cobra.Command{
		newRedateCmd(a),
		newPlansCmd(a),
	} {
		c.GroupID = "plan-management"
		rootCmd.AddCommand(c)
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:     "version",
		Short:   "Print the dateplan CLI version",
		Args:    cobra.NoArgs,
		GroupID: "cli-tooling",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	})

	rootCmd.SetHelpCommand(&cobra.Command{
		Use:     "help [command]",
		Short:   "Help about any command",
		GroupID: "cli-tooling",
		RunE: func(cmd *cobra.Command, args []string) error {
			target, _, err := cmd.Root().Find(args)
			if err != nil || target == nil {
				target = cmd.Root()
			}
			return target.Help()
		},
	})

	rootCmd.AddCommand(newCompletionCmd(rootCmd))
	return rootCmd
}

func newCompletionCmd(rootCmd *cobra.Command) *cobra.Command {
	completionCmd := &cobra.Command{
		Use:     "completion",
		Short:   "Generate the autocompletion script for the specified shell",
		GroupID: "cli-tooling",
		Long: `Generate the autocompletion script for dateplan for the specified shell.
See each sub-command's help for details on how to use the generated script.`,
	}
	completionCmd.AddCommand(&cobra.Command{
		Use:                   "bash",
		Short:                 "Generate the autocompletion script for bash",
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootCmd.GenBashCompletion(cmd.OutOrStdout())
		},
	})
	completionCmd.AddCommand(&cobra.Command{
		Use:                   "zsh",
		Short:                 "Generate the autocompletion script for zsh",
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootCmd.GenZshCompletion(cmd.OutOrStdout())
		},
	})
	completionCmd.AddCommand(&cobra.Command{
		Use:                   "fish",
		Short:                 "Generate the autocompletion script for fish",
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
		},
	})
	completionCmd.AddCommand(&cobra.Command{
		Use:                   "powershell",
		Short:                 "Generate the autocompletion script for powershell",
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootCmd.GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
		},
	})
	return completionCmd
}

// customHelpFunc colors group titles and lists grouped commands.
func customHelpFunc(cmd *cobra.Command, args []string) {
	var help strings.Builder

	if cmd.Long != "" {
		help.WriteString(cmd.Long)
		help.WriteString("\n\n")
	} else if cmd.Short != "" {
		help.WriteString(cmd.Short)
		help.WriteString("\n\n")
	}

	help.WriteString(sectionTitleColor.Sprint("Usage:"))
	help.WriteString("\n")
	fmt.Fprintf(&help, "  %s\n\n", cmd.UseLine())

	for _, group := range cmd.Groups() {
		help.WriteString(groupTitleColor.Sprint(group.Title))
		help.WriteString("\n")

		for _, c := range cmd.Commands() {
			if c.GroupID == group.ID && !c.Hidden {
				fmt.Fprintf(&help, "  %-11s %s\n", c.Name(), c.Short)
			}
		}
		help.WriteString("\n")
	}

	hasUngrouped := false
	for _, c := range cmd.Commands() {
		if c.GroupID == "" && !c.Hidden && c.IsAvailableCommand() {
			if !hasUngrouped {
				help.WriteString(sectionTitleColor.Sprint("Additional Commands:"))
				help.WriteString("\n")
				hasUngrouped = true
			}
			fmt.Fprintf(&help, "  %-11s %s\n", c.Name(), c.Short)
		}
	}
	if hasUngrouped {
		help.WriteString("\n")
	}

	if cmd.HasAvailableLocalFlags() || cmd.HasAvailablePersistentFlags() {
		help.WriteString(sectionTitleColor.Sprint("Flags:"))
		help.WriteString("\n")
		help.WriteString(cmd.LocalFlags().FlagUsages())
		help.WriteString(cmd.InheritedFlags().FlagUsages())
		help.WriteString("\n")
	}

	fmt.Fprintf(&help, "Use \"%s [command] --help\" for more information about a command.\n", cmd.Root().CommandPath())

	fmt.Fprint(cmd.OutOrStdout(), help.String())
}

// newStore wires a Store to the plan files selected by the configuration.
func (a *app) newStore(cmd *cobra.Command) (*engine.Store, error) {
	cfg, err := config.Load(a.cfgFlags)
	if err != nil {
		return nil, err
	}

	logger := newLogger(cmd.ErrOrStderr(), a.verbose)
	repo := stores.NewFilePlanRepo(fsops.NewRealFS(), cfg.Dir, cfg.Base, cfg.Atomic)
	logger.WithFields(logrus.Fields{
		"dir":    cfg.Dir,
		"base":   cfg.Base,
		"atomic": cfg.Atomic,
	}).Debug("Opened plan directory")

	return engine.New(repo, logger), nil
}

func newLogger(w io.Writer, verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logger.SetLevel(logrus.WarnLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

// newPrompter uses huh forms on a terminal and plain line input otherwise.
func newPrompter(in io.Reader, out io.Writer) session.Prompter {
	if f, ok := in.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return session.NewFormPrompter(os.Getenv("ACCESSIBLE") != "")
	}
	return session.NewLinePrompter(in, out)
}

// Execute executes the root command.
func Execute() error {
	return newRootCmd().Execute()
}
