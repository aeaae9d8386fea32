package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/gastroflow/gastroflow-cli/internal/cmd"
	"github.com/gastroflow/gastroflow-cli/internal/ui"
)

var errNotInteractive = errors.New("the dashboard needs an interactive terminal; see 'gastroflow --help' for commands")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Force truecolor so hex colors render correctly
	// Must be set before any lipgloss style initialization
	os.Setenv("COLORTERM", "truecolor")
}

func newRootCmd() *cobra.Command {
	var apiURL string
	envFn := func() (*cmd.Env, error) {
		return cmd.Setup(apiURL, os.Stdin, os.Stdout)
	}

	root := &cobra.Command{
		Use:   "gastroflow",
		Short: "GastroFlow - kitchen stock and class planning",
		Long:  "GastroFlow CLI: manage stock, recipes, classes, suppliers and purchases of a teaching kitchen.",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTUI(envFn)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&apiURL, "api-url", "", "backend base URL (overrides GASTROFLOW_API_URL and the config file)")

	root.AddCommand(cmd.LoginCmd(envFn))
	root.AddCommand(cmd.RegisterCmd(envFn))
	root.AddCommand(cmd.LogoutCmd(envFn))
	root.AddCommand(cmd.WhoamiCmd(envFn))
	root.AddCommand(cmd.ProductsCmd(envFn))
	root.AddCommand(cmd.SuppliersCmd(envFn))
	return root
}

func runTUI(envFn cmd.EnvFunc) error {
	if !isInteractiveTerminal(os.Stdin) || !isInteractiveTerminal(os.Stdout) {
		return errNotInteractive
	}
	env, err := envFn()
	if err != nil {
		return err
	}
	defer env.Close()

	if u := env.Session.User(); u != nil && u.Expired(time.Now()) {
		fmt.Fprintln(os.Stderr, "stored session has expired; log in again")
	}

	p := tea.NewProgram(ui.NewApp(env.Client, env.Config), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func isInteractiveTerminal(file *os.File) bool {
	if file == nil {
		return false
	}
	info, err := file.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
