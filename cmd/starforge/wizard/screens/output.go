package screens

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mrsinham/starforge/cmd/starforge/wizard/components"
	"github.com/mrsinham/starforge/internal/config"
)

// OutputScreen is the first wizard screen: frame size, seed and output files
type OutputScreen struct {
	form      *huh.Form
	helpPanel *components.HelpPanel
	config    *config.Config
	width     int
	height    int
	done      bool
	cancelled bool

	// String versions for form binding (huh binds to strings)
	widthStr   string
	heightStr  string
	seedStr    string
	framesStr  string
	workersStr string
	qualityStr string
}

// NewOutputScreen creates the output configuration screen
func NewOutputScreen(cfg *config.Config) *OutputScreen {
	s := &OutputScreen{
		helpPanel:  components.NewHelpPanel(),
		config:     cfg,
		widthStr:   strconv.Itoa(cfg.Canvas.Width),
		heightStr:  strconv.Itoa(cfg.Canvas.Height),
		framesStr:  strconv.Itoa(cfg.Output.Frames),
		workersStr: strconv.Itoa(cfg.Output.Workers),
		qualityStr: strconv.Itoa(cfg.Output.JPEGQuality),
	}
	if cfg.Scene.Seed != 0 {
		s.seedStr = strconv.FormatUint(cfg.Scene.Seed, 10)
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("width").
				Title("Frame Width").
				Value(&s.widthStr).
				Validate(validatePositiveInt),

			huh.NewInput().
				Key("height").
				Title("Frame Height").
				Value(&s.heightStr).
				Validate(validatePositiveInt),

			huh.NewInput().
				Key("seed").
				Title("Seed").
				Placeholder("derived from raw filename").
				Value(&s.seedStr).
				Validate(validateSeed),

			huh.NewInput().
				Key("frames").
				Title("Frames").
				Value(&s.framesStr).
				Validate(validatePositiveInt),

			huh.NewInput().
				Key("workers").
				Title("Workers").
				Value(&s.workersStr).
				Validate(validateNonNegativeInt),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("preview").
				Title("JPEG Preview").
				Value(&cfg.Files.Preview),

			huh.NewInput().
				Key("raw").
				Title("Raw Buffer").
				Value(&cfg.Files.Raw).
				Validate(validateRequired("raw buffer path")),

			huh.NewInput().
				Key("dicom").
				Title("DICOM Export").
				Placeholder("skip").
				Value(&cfg.Files.DICOM),

			huh.NewConfirm().
				Key("label").
				Title("Label the preview?").
				Value(&cfg.Output.Label),

			huh.NewInput().
				Key("jpeg_quality").
				Title("JPEG Quality").
				Value(&s.qualityStr).
				Validate(validateQuality),
		),
	).WithShowHelp(false).WithShowErrors(true)

	return s
}

// Init implements tea.Model
func (s *OutputScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *OutputScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			s.cancelled = true
			return s, tea.Quit
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.helpPanel.SetSize(msg.Width/3, msg.Height/2)
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if focused := s.form.GetFocusedField(); focused != nil {
		s.helpPanel.SetField(focused.GetKey())
	}

	if s.form.State == huh.StateCompleted {
		s.done = true
		s.syncConfigFromForm()
	}

	return s, cmd
}

// syncConfigFromForm parses form values back to config
func (s *OutputScreen) syncConfigFromForm() {
	s.config.Canvas.Width = atoi(s.widthStr, s.config.Canvas.Width)
	s.config.Canvas.Height = atoi(s.heightStr, s.config.Canvas.Height)
	s.config.Output.Frames = atoi(s.framesStr, s.config.Output.Frames)
	s.config.Output.Workers = atoi(s.workersStr, s.config.Output.Workers)
	s.config.Output.JPEGQuality = atoi(s.qualityStr, s.config.Output.JPEGQuality)

	s.config.Scene.Seed = 0
	if seed, err := strconv.ParseUint(s.seedStr, 10, 64); err == nil {
		s.config.Scene.Seed = seed
	}
}

// View implements tea.Model
func (s *OutputScreen) View() string {
	if s.cancelled {
		return "Cancelled.\n"
	}

	title := components.TitleStyle.Render("STARFORGE WIZARD - Frame & Output")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		s.form.View(),
		"",
		s.helpPanel.View(),
		"",
		"Tab: Next field | Enter: Submit | Esc: Cancel",
	)
}

// Done returns true if the form was completed
func (s *OutputScreen) Done() bool {
	return s.done
}

// Cancelled returns true if the user cancelled
func (s *OutputScreen) Cancelled() bool {
	return s.cancelled
}
