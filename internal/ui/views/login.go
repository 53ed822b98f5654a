package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskboard/internal/store"
	"taskboard/internal/ui/keys"
	"taskboard/internal/ui/styles"
)

// LoggedIn signals a successful login or registration
type LoggedIn struct{}

// LoginView asks for an email and logs the matching user in. Filling
// in a name as well registers a new account when the email is
// unknown. No password is involved anywhere.
type LoginView struct {
	store  *store.Store
	styles *styles.Styles
	keys   keys.KeyMap
	width  int
	height int

	email    textinput.Model
	name     textinput.Model
	focusIdx int // 0=email, 1=name, 2=submit
	errMsg   string
}

// NewLoginView creates the login view
func NewLoginView(st *store.Store) *LoginView {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 100
	email.Focus()

	name := textinput.New()
	name.Placeholder = "name (only to register)"
	name.CharLimit = 100

	return &LoginView{
		store:  st,
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
		email:  email,
		name:   name,
	}
}

// Init implements tea.Model
func (v *LoginView) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (v *LoginView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case tea.KeyMsg:
		switch {
		case msg.String() == "ctrl+c":
			return v, tea.Quit

		case key.Matches(msg, v.keys.Tab):
			v.focusIdx = (v.focusIdx + 1) % 3
			v.updateFocus()
			return v, nil

		case key.Matches(msg, v.keys.Enter):
			if v.focusIdx < 2 {
				v.focusIdx++
				v.updateFocus()
				return v, nil
			}
			return v.submit()
		}

		var cmd tea.Cmd
		switch v.focusIdx {
		case 0:
			v.email, cmd = v.email.Update(msg)
		case 1:
			v.name, cmd = v.name.Update(msg)
		}
		return v, cmd
	}

	return v, nil
}

func (v *LoginView) submit() (tea.Model, tea.Cmd) {
	email := strings.TrimSpace(v.email.Value())
	if email == "" {
		v.errMsg = "email is required"
		return v, nil
	}

	ok, err := v.store.Login(email)
	if err != nil {
		v.errMsg = err.Error()
		return v, nil
	}
	if ok {
		return v, func() tea.Msg { return LoggedIn{} }
	}

	name := strings.TrimSpace(v.name.Value())
	if name == "" {
		v.errMsg = "no account with this email; fill in a name to register"
		return v, nil
	}

	ok, err = v.store.Register(email, name)
	if err != nil {
		v.errMsg = err.Error()
		return v, nil
	}
	if !ok {
		v.errMsg = "this email is already registered"
		return v, nil
	}
	return v, func() tea.Msg { return LoggedIn{} }
}

func (v *LoginView) updateFocus() {
	v.email.Blur()
	v.name.Blur()
	switch v.focusIdx {
	case 0:
		v.email.Focus()
	case 1:
		v.name.Focus()
	}
}

// View renders the view
func (v *LoginView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	emailStyle := s.Input
	nameStyle := s.Input
	btnStyle := s.Button
	switch v.focusIdx {
	case 0:
		emailStyle = s.InputFocused
	case 1:
		nameStyle = s.InputFocused
	case 2:
		btnStyle = s.ButtonFocused
	}

	inputWidth := clamp(contentWidth-6, 20, 40)

	rows := []string{
		s.Title.Render("Task Board"),
		"",
		"Email:",
		emailStyle.Width(inputWidth).Render(v.email.View()),
		"",
		"Name:",
		nameStyle.Width(inputWidth).Render(v.name.View()),
		"",
		btnStyle.Render(" Sign in "),
	}
	if v.errMsg != "" {
		rows = append(rows, "", s.TitleMuted.Foreground(styles.Current.Error).Render(v.errMsg))
	}

	form := lipgloss.JoinVertical(lipgloss.Left, rows...)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}
