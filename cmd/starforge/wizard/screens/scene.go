package screens

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mrsinham/starforge/cmd/starforge/wizard/components"
	"github.com/mrsinham/starforge/internal/config"
)

// SceneScreen configures what is painted on the frame
type SceneScreen struct {
	form      *huh.Form
	helpPanel *components.HelpPanel
	config    *config.Config
	width     int
	height    int
	done      bool
	cancelled bool

	noiseStr   string
	starsStr   string
	starMinStr string
	starMaxStr string
	streaksStr string
	blobsStr   string
}

// NewSceneScreen creates the scene configuration screen
func NewSceneScreen(cfg *config.Config) *SceneScreen {
	sc := cfg.Scene
	s := &SceneScreen{
		helpPanel:  components.NewHelpPanel(),
		config:     cfg,
		noiseStr:   strconv.Itoa(sc.NoiseLevel),
		starsStr:   strconv.Itoa(sc.Stars.Count),
		starMinStr: strconv.Itoa(sc.Stars.Brightness.Min),
		starMaxStr: strconv.Itoa(sc.Stars.Brightness.Max),
		streaksStr: strconv.Itoa(sc.Streaks.Count),
		blobsStr:   strconv.Itoa(sc.Blobs.Count),
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("noise_level").
				Title("Noise Level").
				Value(&s.noiseStr).
				Validate(validateSample),

			huh.NewInput().
				Key("stars").
				Title("Stars").
				Value(&s.starsStr).
				Validate(validateNonNegativeInt),

			huh.NewInput().
				Key("star_brightness_min").
				Title("Star Brightness (min)").
				Value(&s.starMinStr).
				Validate(validateSample),

			huh.NewInput().
				Key("star_brightness_max").
				Title("Star Brightness (max)").
				Value(&s.starMaxStr).
				Validate(func(v string) error {
					if err := validateSample(v); err != nil {
						return err
					}
					if atoi(v, 0) <= atoi(s.starMinStr, 0) {
						return fmt.Errorf("must be greater than the minimum")
					}
					return nil
				}),

			huh.NewInput().
				Key("streaks").
				Title("Satellite Streaks").
				Value(&s.streaksStr).
				Validate(validateNonNegativeInt),

			huh.NewInput().
				Key("blobs").
				Title("Diffuse Spots").
				Value(&s.blobsStr).
				Validate(validateNonNegativeInt),
		),
	).WithShowHelp(false).WithShowErrors(true)

	return s
}

// Init implements tea.Model
func (s *SceneScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *SceneScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
func (s *SceneScreen) syncConfigFromForm() {
	sc := &s.config.Scene
	sc.NoiseLevel = atoi(s.noiseStr, sc.NoiseLevel)
	sc.Stars.Count = atoi(s.starsStr, sc.Stars.Count)
	sc.Stars.Brightness.Min = atoi(s.starMinStr, sc.Stars.Brightness.Min)
	sc.Stars.Brightness.Max = atoi(s.starMaxStr, sc.Stars.Brightness.Max)
	sc.Streaks.Count = atoi(s.streaksStr, sc.Streaks.Count)
	sc.Blobs.Count = atoi(s.blobsStr, sc.Blobs.Count)
}

// View implements tea.Model
func (s *SceneScreen) View() string {
	if s.cancelled {
		return "Cancelled.\n"
	}

	title := components.TitleStyle.Render("STARFORGE WIZARD - Scene")
	subtitle := components.SubtitleStyle.Render(
		fmt.Sprintf("%dx%d frame", s.config.Canvas.Width, s.config.Canvas.Height))

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		subtitle,
		s.form.View(),
		"",
		s.helpPanel.View(),
		"",
		"Tab: Next field | Enter: Submit | Esc: Cancel",
	)
}

// Done returns true if the form was completed
func (s *SceneScreen) Done() bool {
	return s.done
}

// Cancelled returns true if the user cancelled
func (s *SceneScreen) Cancelled() bool {
	return s.cancelled
}
