package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/ganttfold/internal/cli/formatter"
	"github.com/alexanderramin/ganttfold/internal/domain"
	"github.com/alexanderramin/ganttfold/internal/hierarchy"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newViewCmd(app *App) *cobra.Command {
	var snapshot string

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Browse a snapshot, toggling between the folder tree and the synced layout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return errors.New("view needs an interactive terminal; use 'ganttfold tree' instead")
			}
			ctx := cmd.Context()
			id, err := resolveSnapshotID(ctx, app, snapshot)
			if err != nil {
				return err
			}
			view, err := app.Trees.Build(ctx, id)
			if err != nil {
				return err
			}
			synced, err := app.Trees.Strip(ctx, view.Result.All())
			if err != nil {
				return err
			}

			m := newViewerModel(view.Snapshot.Source, view.Result, synced, app.Trees.Options())
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
			return err
		},
	}

	cmd.Flags().StringVar(&snapshot, "snapshot", "", "Snapshot ID or prefix (default: latest)")

	return cmd
}

type viewerMode int

const (
	modeBuilt viewerMode = iota
	modeSynced
)

func (m viewerMode) String() string {
	if m == modeSynced {
		return "synced"
	}
	return "folders"
}

type viewerKeyMap struct {
	Toggle key.Binding
	Quit   key.Binding
}

func defaultViewerKeyMap() viewerKeyMap {
	return viewerKeyMap{
		Toggle: key.NewBinding(key.WithKeys("tab", "f"), key.WithHelp("tab", "toggle folders")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// viewerModel shows one snapshot either with its folder tree or in the
// layout the tracker synced.
type viewerModel struct {
	title  string
	result hierarchy.BuildResult
	synced []domain.WorkItem
	opts   hierarchy.Options

	mode  viewerMode
	keys  viewerKeyMap
	vp    viewport.Model
	width int
	ready bool
}

func newViewerModel(title string, result hierarchy.BuildResult, synced []domain.WorkItem, opts hierarchy.Options) viewerModel {
	return viewerModel{
		title:  title,
		result: result,
		synced: synced,
		opts:   opts,
		keys:   defaultViewerKeyMap(),
	}
}

func (m viewerModel) Init() tea.Cmd { return nil }

func (m viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		height := max(msg.Height-2, 1)
		if !m.ready {
			m.vp = viewport.New(msg.Width, height)
			m.vp.MouseWheelEnabled = true
			m.ready = true
		} else {
			m.vp.Width = msg.Width
			m.vp.Height = height
		}
		m.vp.SetContent(m.content())
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Toggle):
			if m.mode == modeBuilt {
				m.mode = modeSynced
			} else {
				m.mode = modeBuilt
			}
			if m.ready {
				m.vp.SetContent(m.content())
				m.vp.GotoTop()
			}
			return m, nil
		}
	}

	if !m.ready {
		return m, nil
	}
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m viewerModel) content() string {
	items := m.result.All()
	if m.mode == modeSynced {
		items = m.synced
	}
	return strings.TrimRight(formatter.RenderTree(formatter.TreeItems(items, m.opts), m.width), "\n")
}

func (m viewerModel) View() string {
	if !m.ready {
		return "loading…"
	}
	header := formatter.StyleHeader.Render(m.title) + formatter.Dim(" · "+m.mode.String())
	footer := formatter.Dim(fmt.Sprintf("%s  %s: %s  %s: %s",
		scrollIndicator(m.vp),
		m.keys.Toggle.Help().Key, m.keys.Toggle.Help().Desc,
		m.keys.Quit.Help().Key, m.keys.Quit.Help().Desc))
	return header + "\n" + m.vp.View() + "\n" + footer
}

// scrollIndicator returns a scroll position string for the footer.
func scrollIndicator(vp viewport.Model) string {
	if vp.AtTop() {
		return "[TOP]"
	}
	if vp.AtBottom() {
		return "[END]"
	}
	return fmt.Sprintf("[%d%%]", int(vp.ScrollPercent()*100))
}
