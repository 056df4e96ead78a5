package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/example/mytype/services/practice/internal/apiclient"
	"github.com/example/mytype/services/practice/internal/history"
	"github.com/example/mytype/services/practice/internal/tui"
)

var (
	apiURL      string
	historyFile string
)

var rootCmd = &cobra.Command{
	Use:   "practice",
	Short: "Typing practice on song lyrics",
	Long:  "practice resolves song lyrics through the lyrics service and runs a line-by-line typing session in the terminal.",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		model := tui.NewModel(newClient(), newHistoryStore())
		_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "lyrics service base URL (default $MYTYPE_API_URL or http://localhost:8080)")
	rootCmd.PersistentFlags().StringVar(&historyFile, "history-file", "", "path to the practice history file (default under $XDG_STATE_HOME)")
	rootCmd.AddCommand(newHistoryCmd())
}

func newClient() *apiclient.Client {
	base := apiURL
	if base == "" {
		base = os.Getenv("MYTYPE_API_URL")
	}
	return apiclient.New(base)
}

func newHistoryStore() *history.Store {
	if historyFile != "" {
		return history.NewAt(historyFile)
	}
	return history.New()
}
