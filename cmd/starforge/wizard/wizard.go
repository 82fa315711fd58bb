// Package wizard provides an interactive TUI for configuring star-field
// generation.
package wizard

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mrsinham/starforge/cmd/starforge/wizard/components"
	"github.com/mrsinham/starforge/cmd/starforge/wizard/screens"
	"github.com/mrsinham/starforge/internal/config"
	"github.com/mrsinham/starforge/internal/generate"
)

// Phase represents the current phase/screen of the wizard.
type Phase int

const (
	PhaseOutput Phase = iota
	PhaseScene
	PhaseSummary
	PhaseSaveConfig
	PhaseProgress
	PhaseComplete
	PhaseError
)

// Wizard is the main orchestrator for the wizard interface.
type Wizard struct {
	config *config.Config

	phase Phase

	outputScreen     *screens.OutputScreen
	sceneScreen      *screens.SceneScreen
	summaryScreen    *screens.SummaryScreen
	progressScreen   *screens.ProgressScreen
	completionScreen *screens.CompletionScreen
	errorScreen      *screens.ErrorScreen

	// Save config form
	saveConfigForm *huh.Form
	configPath     string

	// Generation in flight
	progress <-chan tea.Msg
	cancel   context.CancelFunc

	width  int
	height int

	cancelled bool
	finished  bool
	err       error
}

// NewWizard creates a new wizard editing cfg, or the defaults if cfg is nil.
func NewWizard(cfg *config.Config) *Wizard {
	if cfg == nil {
		cfg = config.Default()
	}

	w := &Wizard{
		config:     cfg,
		phase:      PhaseOutput,
		configPath: "starforge.yaml",
	}
	w.outputScreen = screens.NewOutputScreen(w.config)

	return w
}

// Config returns the configuration being edited.
func (w *Wizard) Config() *config.Config {
	return w.config
}

// Phase returns the current phase.
func (w *Wizard) Phase() Phase {
	return w.phase
}

// Init implements tea.Model.
func (w *Wizard) Init() tea.Cmd {
	return w.outputScreen.Init()
}

// Update implements tea.Model.
func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		w.width = wsm.Width
		w.height = wsm.Height
	}

	switch w.phase {
	case PhaseOutput:
		return w.updateOutput(msg)
	case PhaseScene:
		return w.updateScene(msg)
	case PhaseSummary:
		return w.updateSummary(msg)
	case PhaseSaveConfig:
		return w.updateSaveConfig(msg)
	case PhaseProgress:
		return w.updateProgress(msg)
	case PhaseComplete:
		return w.updateComplete(msg)
	case PhaseError:
		return w.updateError(msg)
	}

	return w, nil
}

// View implements tea.Model.
func (w *Wizard) View() string {
	switch w.phase {
	case PhaseOutput:
		return w.outputScreen.View()
	case PhaseScene:
		return w.sceneScreen.View()
	case PhaseSummary:
		return w.summaryScreen.View()
	case PhaseSaveConfig:
		return w.viewSaveConfig()
	case PhaseProgress:
		return w.progressScreen.View()
	case PhaseComplete:
		return w.completionScreen.View()
	case PhaseError:
		return w.errorScreen.View()
	}

	return ""
}

// transitionToOutput restarts editing from the first screen.
func (w *Wizard) transitionToOutput() (tea.Model, tea.Cmd) {
	w.phase = PhaseOutput
	w.outputScreen = screens.NewOutputScreen(w.config)
	return w, w.outputScreen.Init()
}

// updateOutput handles updates in the frame and output phase.
func (w *Wizard) updateOutput(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.outputScreen.Update(msg)
	if s, ok := model.(*screens.OutputScreen); ok {
		w.outputScreen = s
	}

	if w.outputScreen.Cancelled() {
		w.cancelled = true
		return w, tea.Quit
	}

	if w.outputScreen.Done() {
		w.phase = PhaseScene
		w.sceneScreen = screens.NewSceneScreen(w.config)
		return w, w.sceneScreen.Init()
	}

	return w, cmd
}

// updateScene handles updates in the scene phase.
func (w *Wizard) updateScene(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.sceneScreen.Update(msg)
	if s, ok := model.(*screens.SceneScreen); ok {
		w.sceneScreen = s
	}

	if w.sceneScreen.Cancelled() {
		w.cancelled = true
		return w, tea.Quit
	}

	if w.sceneScreen.Done() {
		if err := w.config.Validate(); err != nil {
			return w.showError(err)
		}
		return w.transitionToSummary("")
	}

	return w, cmd
}

// transitionToSummary moves to the summary screen.
func (w *Wizard) transitionToSummary(notice string) (tea.Model, tea.Cmd) {
	w.phase = PhaseSummary
	w.summaryScreen = screens.NewSummaryScreen(w.config, notice)
	return w, w.summaryScreen.Init()
}

// updateSummary handles updates in the summary phase.
func (w *Wizard) updateSummary(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.summaryScreen.Update(msg)
	if s, ok := model.(*screens.SummaryScreen); ok {
		w.summaryScreen = s
	}

	if w.summaryScreen.Cancelled() {
		w.cancelled = true
		return w, tea.Quit
	}

	if w.summaryScreen.Done() {
		switch w.summaryScreen.Action() {
		case screens.SummaryActionBack:
			return w.transitionToOutput()
		case screens.SummaryActionGenerate:
			return w.startGeneration()
		case screens.SummaryActionSaveConfig:
			return w.transitionToSaveConfig()
		case screens.SummaryActionCancel:
			w.cancelled = true
			return w, tea.Quit
		}
	}

	return w, cmd
}

// transitionToSaveConfig shows the save config dialog.
func (w *Wizard) transitionToSaveConfig() (tea.Model, tea.Cmd) {
	w.phase = PhaseSaveConfig

	w.saveConfigForm = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("config_path").
				Title("Save configuration to").
				Description("Enter the path for the YAML config file").
				Value(&w.configPath).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("path is required")
					}
					return nil
				}),
		),
	).WithShowHelp(false)

	return w, w.saveConfigForm.Init()
}

// updateSaveConfig handles updates in the save config phase.
func (w *Wizard) updateSaveConfig(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "esc":
			return w.transitionToSummary("")
		case "ctrl+c":
			w.cancelled = true
			return w, tea.Quit
		}
	}

	form, cmd := w.saveConfigForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		w.saveConfigForm = f
	}

	if w.saveConfigForm.State == huh.StateCompleted {
		return w.saveConfig()
	}

	return w, cmd
}

// saveConfig writes the configuration to w.configPath.
func (w *Wizard) saveConfig() (tea.Model, tea.Cmd) {
	if err := config.Save(w.config, w.configPath); err != nil {
		return w.showError(err)
	}
	return w.transitionToSummary(fmt.Sprintf("Configuration saved to %s", w.configPath))
}

// viewSaveConfig renders the save config dialog.
func (w *Wizard) viewSaveConfig() string {
	title := components.TitleStyle.Render("Save Configuration")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		w.saveConfigForm.View(),
		"",
		"Enter: Save | Esc: Back",
	)
}

// startGeneration begins rendering in the background.
func (w *Wizard) startGeneration() (tea.Model, tea.Cmd) {
	w.phase = PhaseProgress
	w.progressScreen = screens.NewProgressScreen(w.config.Output.Frames)

	ctx, cancel := context.WithCancel(context.Background())
	progress := make(chan tea.Msg, w.config.Output.Frames)
	w.progress = progress
	w.cancel = cancel

	return w, tea.Batch(generateCmd(ctx, w.config, progress), waitForProgress(progress))
}

// generateCmd runs the generator quietly, forwarding progress to the
// channel, and reports completion or failure as a message. It closes
// progress when done.
func generateCmd(ctx context.Context, cfg *config.Config, progress chan<- tea.Msg) tea.Cmd {
	return func() tea.Msg {
		defer close(progress)
		startTime := time.Now()

		res, err := generate.Run(ctx, generate.Options{
			Config: cfg,
			Quiet:  true, // Suppress output for TUI integration
			ProgressCallback: func(current, total int) {
				select {
				case progress <- screens.ProgressMsg{Current: current, Total: total}:
				default:
				}
			},
		})
		if err != nil {
			return screens.ErrorMsg{Error: err}
		}

		msg := screens.CompletionMsg{
			TotalFiles: len(res.Files),
			Duration:   time.Since(startTime),
			Seed:       res.Seed,
		}
		for _, f := range res.Files {
			msg.TotalSize += f.Bytes
			if f.Kind == generate.KindRaw && msg.Raw == "" {
				msg.Raw = f.Path
			}
		}
		return msg
	}
}

// waitForProgress delivers the next progress message, or nothing once the
// channel is closed.
func waitForProgress(progress <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-progress
		if !ok {
			return nil
		}
		return msg
	}
}

// updateProgress handles updates in the progress phase.
func (w *Wizard) updateProgress(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case screens.ProgressMsg:
		w.progressScreen.SetProgress(msg.Current, msg.Total)
		return w, waitForProgress(w.progress)

	case screens.CompletionMsg:
		w.phase = PhaseComplete
		w.completionScreen = screens.NewCompletionScreen(msg)
		return w, nil

	case screens.ErrorMsg:
		return w.showError(msg.Error)
	}

	model, cmd := w.progressScreen.Update(msg)
	if s, ok := model.(*screens.ProgressScreen); ok {
		w.progressScreen = s
	}

	if w.progressScreen.Cancelled() {
		if w.cancel != nil {
			w.cancel()
		}
		w.cancelled = true
		return w, tea.Quit
	}

	return w, cmd
}

// showError moves to the error screen.
func (w *Wizard) showError(err error) (tea.Model, tea.Cmd) {
	w.err = err
	w.phase = PhaseError
	w.errorScreen = screens.NewErrorScreen(err)
	return w, nil
}

// updateComplete handles updates in the completion phase.
func (w *Wizard) updateComplete(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.completionScreen.Update(msg)
	if s, ok := model.(*screens.CompletionScreen); ok {
		w.completionScreen = s
	}

	if w.completionScreen.Done() {
		w.finished = true
		return w, tea.Quit
	}

	return w, cmd
}

// updateError handles updates in the error phase.
func (w *Wizard) updateError(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.errorScreen.Update(msg)
	if s, ok := model.(*screens.ErrorScreen); ok {
		w.errorScreen = s
	}

	if w.errorScreen.Done() {
		w.finished = true
		return w, tea.Quit
	}

	return w, cmd
}

// Run starts the interactive wizard. If fromConfig is provided, it loads
// the configuration from that YAML file.
func Run(fromConfig string) error {
	var cfg *config.Config

	if fromConfig != "" {
		absPath, err := filepath.Abs(fromConfig)
		if err != nil {
			return fmt.Errorf("resolving config path: %w", err)
		}

		loaded, err := config.Load(absPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	wizard := NewWizard(cfg)
	p := tea.NewProgram(wizard, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("running wizard: %w", err)
	}

	if w, ok := finalModel.(*Wizard); ok {
		if w.cancelled {
			return nil // User cancelled, not an error
		}
		if w.err != nil {
			return w.err
		}
	}

	return nil
}
