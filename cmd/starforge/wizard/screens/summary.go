package screens

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mrsinham/starforge/cmd/starforge/wizard/components"
	"github.com/mrsinham/starforge/internal/config"
	"github.com/mrsinham/starforge/internal/generate"
)

// SummaryAction represents the action selected on the summary screen
type SummaryAction int

const (
	// SummaryActionBack returns to the first screen
	SummaryActionBack SummaryAction = iota
	// SummaryActionGenerate starts generation
	SummaryActionGenerate
	// SummaryActionSaveConfig saves configuration to YAML file
	SummaryActionSaveConfig
	// SummaryActionCancel exits the wizard
	SummaryActionCancel
)

const (
	actionBack       = "back"
	actionGenerate   = "generate"
	actionSaveConfig = "save_config"
	actionCancel     = "cancel"
)

var (
	summaryPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("63")).
				Padding(1, 2)

	summaryTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("63")).
				Bold(true).
				MarginBottom(1)

	summaryLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("244"))

	summaryValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Bold(true)

	fileStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	fileKindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33"))
)

// SummaryScreen displays a summary of the configuration before generation
type SummaryScreen struct {
	form      *huh.Form
	config    *config.Config
	notice    string
	action    string
	done      bool
	cancelled bool
	width     int
	height    int
}

// NewSummaryScreen creates a new summary screen. notice, if not empty, is
// shown above the panels (e.g. after saving the configuration).
func NewSummaryScreen(cfg *config.Config, notice string) *SummaryScreen {
	s := &SummaryScreen{
		config: cfg,
		notice: notice,
		action: actionGenerate,
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("action").
				Title("Select an action").
				Options(
					huh.NewOption("Generate frames", actionGenerate),
					huh.NewOption("Save configuration to YAML", actionSaveConfig),
					huh.NewOption("Back to edit", actionBack),
					huh.NewOption("Cancel and exit", actionCancel),
				).
				Value(&s.action),
		),
	).WithShowHelp(false)

	return s
}

// Init implements tea.Model
func (s *SummaryScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *SummaryScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			s.cancelled = true
			return s, tea.Quit
		case "esc":
			// Esc goes back instead of cancelling
			s.action = actionBack
			s.done = true
			return s, nil
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.done = true
	}

	return s, cmd
}

// View implements tea.Model
func (s *SummaryScreen) View() string {
	if s.cancelled {
		return "Cancelled.\n"
	}

	title := components.TitleStyle.Render("SUMMARY - Review Configuration")

	panelWidth := 45
	left := summaryPanelStyle.Width(panelWidth).Render(s.buildParameterSummary())
	right := summaryPanelStyle.Width(panelWidth).Render(s.buildFileList())
	panels := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)

	parts := []string{title}
	if s.notice != "" {
		parts = append(parts, completionSuccessStyle.Render(s.notice))
	}
	parts = append(parts,
		"",
		panels,
		"",
		summaryTitleStyle.Render("Equivalent CLI Command"),
		components.CommandStyle.Render(CLICommand(s.config)),
		"",
		s.form.View(),
		"",
		"Enter: Select action | Esc: Back",
	)

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// buildParameterSummary builds the left panel
func (s *SummaryScreen) buildParameterSummary() string {
	var sb strings.Builder

	sb.WriteString(summaryTitleStyle.Render("Configuration Summary"))
	sb.WriteString("\n\n")

	cfg := s.config
	seed, derived := generate.ResolveSeed(cfg)
	seedStr := fmt.Sprintf("%d", seed)
	if derived {
		seedStr += " (derived)"
	}
	frameBytes := uint64(cfg.Canvas.Width) * uint64(cfg.Canvas.Height)

	params := []struct {
		label string
		value string
	}{
		{"Frame", fmt.Sprintf("%dx%d", cfg.Canvas.Width, cfg.Canvas.Height)},
		{"Frames", fmt.Sprintf("%d", cfg.Output.Frames)},
		{"Seed", seedStr},
		{"Noise", fmt.Sprintf("[0, %d)", cfg.Scene.NoiseLevel)},
		{"Stars", humanize.Comma(int64(cfg.Scene.Stars.Count))},
		{"Streaks", humanize.Comma(int64(cfg.Scene.Streaks.Count))},
		{"Diffuse spots", humanize.Comma(int64(cfg.Scene.Blobs.Count))},
		{"Raw size", humanize.Bytes(frameBytes * uint64(cfg.Output.Frames))},
	}

	for _, p := range params {
		sb.WriteString(summaryLabelStyle.Render(p.label + ": "))
		sb.WriteString(summaryValueStyle.Render(p.value))
		sb.WriteString("\n")
	}

	return sb.String()
}

// buildFileList builds the right panel listing the files to be written
func (s *SummaryScreen) buildFileList() string {
	var sb strings.Builder

	sb.WriteString(summaryTitleStyle.Render("Output Files"))
	sb.WriteString("\n\n")

	cfg := s.config
	frames := cfg.Output.Frames
	shown := min(frames, 3)

	kinds := []struct {
		kind string
		path string
	}{
		{generate.KindPreview, cfg.Files.Preview},
		{generate.KindRaw, cfg.Files.Raw},
		{generate.KindDICOM, cfg.Files.DICOM},
	}
	for _, k := range kinds {
		if k.path == "" {
			continue
		}
		for i := 0; i < shown; i++ {
			sb.WriteString(fileKindStyle.Render(fmt.Sprintf("[%-5s]", k.kind)))
			sb.WriteString(" ")
			sb.WriteString(fileStyle.Render(generate.FramePath(k.path, i, frames)))
			sb.WriteString("\n")
		}
		if frames > shown {
			sb.WriteString(summaryLabelStyle.Render(fmt.Sprintf("        ... and %d more", frames-shown)))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// CLICommand returns the starforge invocation equivalent to cfg for the
// options the command line exposes.
func CLICommand(cfg *config.Config) string {
	parts := []string{"starforge"}

	if cfg.Scene.Seed != 0 {
		parts = append(parts, fmt.Sprintf("--seed %d", cfg.Scene.Seed))
	}
	if cfg.Output.Frames > 1 {
		parts = append(parts, fmt.Sprintf("--frames %d", cfg.Output.Frames))
	}
	if cfg.Output.Workers > 0 {
		parts = append(parts, fmt.Sprintf("--workers %d", cfg.Output.Workers))
	}
	if cfg.Files.DICOM != "" {
		parts = append(parts, fmt.Sprintf("--dicom %s", cfg.Files.DICOM))
	}
	if cfg.Output.Label {
		parts = append(parts, "--label")
	}
	if cfg.Files.DICOM != "" {
		names := make([]string, 0, len(cfg.Output.DICOMTags))
		for name := range cfg.Output.DICOMTags {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			tag := name + "=" + cfg.Output.DICOMTags[name]
			if strings.ContainsAny(tag, " \t") {
				tag = fmt.Sprintf("%q", tag)
			}
			parts = append(parts, "--tag "+tag)
		}
	}

	def := config.Default()
	if cfg.Canvas != def.Canvas || cfg.Files.Preview != def.Files.Preview || cfg.Files.Raw != def.Files.Raw ||
		cfg.Output.JPEGQuality != def.Output.JPEGQuality || !sceneEqual(cfg.Scene, def.Scene) {
		parts = append(parts, "--config <saved.yaml>")
	}

	return strings.Join(parts, " ")
}

// sceneEqual compares the fields the wizard can edit; the seed has its own flag.
func sceneEqual(a, b config.SceneConfig) bool {
	return a.NoiseLevel == b.NoiseLevel &&
		a.Stars.Count == b.Stars.Count &&
		a.Stars.Brightness == b.Stars.Brightness &&
		a.Streaks.Count == b.Streaks.Count &&
		a.Blobs.Count == b.Blobs.Count
}

// Done returns true if the form was completed
func (s *SummaryScreen) Done() bool {
	return s.done
}

// Cancelled returns true if the user cancelled
func (s *SummaryScreen) Cancelled() bool {
	return s.cancelled
}

// Action returns the selected action
func (s *SummaryScreen) Action() SummaryAction {
	switch s.action {
	case actionBack:
		return SummaryActionBack
	case actionGenerate:
		return SummaryActionGenerate
	case actionSaveConfig:
		return SummaryActionSaveConfig
	case actionCancel:
		return SummaryActionCancel
	default:
		return SummaryActionGenerate
	}
}
