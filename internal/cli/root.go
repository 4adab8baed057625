package cli

import (
	"time"

	"github.com/alexanderramin/ganttfold/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Snapshots service.SnapshotService
	Trees     service.TreeService

	// IsInteractive reports whether prompts and the viewer may take over
	// the terminal. Nil means never.
	IsInteractive func() bool
	// Confirm asks a yes/no question. Nil uses a huh confirm form.
	Confirm func(title, description string) (bool, error)
	// Now is the clock used for relative timestamps. Nil means time.Now.
	Now func() time.Time
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) confirm(title, description string) (bool, error) {
	if a.Confirm != nil {
		return a.Confirm(title, description)
	}
	return huhConfirm(title, description)
}

// NewRootCmd creates the top-level "ganttfold" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "ganttfold",
		Short:         "Folder hierarchy for flat tracker snapshots",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newImportCmd(app),
		newSnapshotsCmd(app),
		newTreeCmd(app),
		newStripCmd(app),
		newCheckCmd(app),
		newViewCmd(app),
		newWatchCmd(app),
	)

	return root
}
