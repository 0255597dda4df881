// internal/tui/model.go
// Package tui provides the interactive Bubble Tea surface: a repository URL
// and model form, and a chat view over the session transcript.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/repochat/internal/appconfig"
	"github.com/mwiater/repochat/internal/chat"
	"github.com/mwiater/repochat/internal/ingest"
	"github.com/mwiater/repochat/internal/providerfactory"
	"github.com/mwiater/repochat/internal/rag"
	"github.com/mwiater/repochat/internal/util"
)

// viewState represents the current view or screen of the application.
type viewState int

const (
	// viewSetup is the state where the user enters a repository URL and model.
	viewSetup viewState = iota
	// viewChat is the state where the user asks questions.
	viewChat
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true)
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	chatBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

type loadDoneMsg struct {
	repoURL string
	err     error
}

type askDoneMsg struct {
	display string
}

// model is the main application model for the Bubble Tea UI.
type model struct {
	ctx           context.Context
	cfg           *appconfig.Config
	session       *chat.Session
	state         viewState
	isLoading     bool
	urlInput      textinput.Model
	modelInput    textinput.Model
	questionInput textinput.Model
	viewport      viewport.Model
	spinner       spinner.Model
	status        string
	statusIsError bool
	width, height int
	focusOnModel  bool
}

// initialModel creates and initializes a new model with default values.
func initialModel(ctx context.Context, cfg *appconfig.Config, session *chat.Session) *model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	urlInput := textinput.New()
	urlInput.Prompt = "GitHub URL: "
	urlInput.Placeholder = "https://github.com/user/repo"
	urlInput.Focus()

	modelInput := textinput.New()
	modelInput.Prompt = "Model: "
	modelInput.SetValue(cfg.GenerationModel)

	questionInput := textinput.New()
	questionInput.Prompt = "Ask anything: "
	questionInput.CharLimit = 0

	return &model{
		ctx:           ctx,
		cfg:           cfg,
		session:       session,
		state:         viewSetup,
		urlInput:      urlInput,
		modelInput:    modelInput,
		questionInput: questionInput,
		viewport:      viewport.New(80, 10),
		spinner:       s,
	}
}

// Init initializes the model.
func (m *model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window, and completion events.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = util.Max(20, msg.Width-4)
		m.viewport.Height = util.Max(3, msg.Height-8)
		m.refreshTranscript()
		return m, nil

	case spinner.TickMsg:
		if !m.isLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadDoneMsg:
		m.isLoading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Load failed: %v", msg.err)
			m.statusIsError = true
			return m, nil
		}
		m.state = viewChat
		m.status = fmt.Sprintf("Indexed %s — ready to chat.", ingest.RepoName(msg.repoURL))
		m.statusIsError = false
		m.urlInput.Blur()
		m.modelInput.Blur()
		m.questionInput.Focus()
		m.refreshTranscript()
		return m, textinput.Blink

	case askDoneMsg:
		m.isLoading = false
		m.refreshTranscript()
		if msg.display == chat.NoticeNotIndexed || msg.display == chat.NoticeFailure {
			m.status = msg.display
			m.statusIsError = true
		} else {
			m.status = ""
			m.statusIsError = false
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.isLoading {
			return m, nil
		}
		switch m.state {
		case viewSetup:
			return m.updateSetup(msg)
		case viewChat:
			return m.updateChat(msg)
		}
	}

	return m, m.updateFocusedInput(msg)
}

func (m *model) updateSetup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab":
		m.focusOnModel = !m.focusOnModel
		if m.focusOnModel {
			m.urlInput.Blur()
			m.modelInput.Focus()
		} else {
			m.modelInput.Blur()
			m.urlInput.Focus()
		}
		return m, textinput.Blink
	case "enter":
		repoURL := strings.TrimSpace(m.urlInput.Value())
		modelName := strings.TrimSpace(m.modelInput.Value())
		if !ingest.ValidURL(repoURL) {
			m.status = "Invalid GitHub URL"
			m.statusIsError = true
			return m, nil
		}
		m.isLoading = true
		m.status = "Ingesting and indexing…"
		m.statusIsError = false
		return m, tea.Batch(m.spinner.Tick, m.loadCmd(repoURL, modelName))
	}
	return m, m.updateFocusedInput(msg)
}

func (m *model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+l":
		m.session.ClearTranscript()
		m.refreshTranscript()
		m.status = "Transcript cleared."
		m.statusIsError = false
		return m, nil
	case "ctrl+r":
		m.state = viewSetup
		m.questionInput.Blur()
		m.urlInput.Focus()
		m.focusOnModel = false
		m.status = ""
		return m, textinput.Blink
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case "enter":
		question := strings.TrimSpace(m.questionInput.Value())
		if question == "" {
			return m, nil
		}
		m.questionInput.Reset()
		m.isLoading = true
		return m, tea.Batch(m.spinner.Tick, m.askCmd(question))
	}
	return m, m.updateFocusedInput(msg)
}

func (m *model) updateFocusedInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch {
	case m.state == viewChat:
		m.questionInput, cmd = m.questionInput.Update(msg)
	case m.focusOnModel:
		m.modelInput, cmd = m.modelInput.Update(msg)
	default:
		m.urlInput, cmd = m.urlInput.Update(msg)
	}
	return cmd
}

func (m *model) loadCmd(repoURL, modelName string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(m.ctx, m.cfg.RequestTimeout())
		defer cancel()
		err := m.session.Load(ctx, repoURL, modelName)
		return loadDoneMsg{repoURL: repoURL, err: err}
	}
}

func (m *model) askCmd(question string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(m.ctx, m.cfg.RequestTimeout())
		defer cancel()
		return askDoneMsg{display: m.session.Ask(ctx, question)}
	}
}

func (m *model) refreshTranscript() {
	width := util.Max(20, m.viewport.Width-2)
	var b strings.Builder
	for _, message := range m.session.Transcript() {
		switch message.Role {
		case chat.RoleUser:
			b.WriteString(userStyle.Render("You") + "\n")
		case chat.RoleAssistant:
			b.WriteString(assistantStyle.Render("Assistant") + "\n")
		}
		b.WriteString(util.WrapToWidth(message.Content, width))
		b.WriteString("\n\n")
	}
	if b.Len() == 0 {
		b.WriteString("No messages yet. Ask anything about the loaded repository.")
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

// View renders the current view.
func (m *model) View() string {
	header := headerStyle.Render("repochat — chat with a GitHub repository")

	status := m.status
	if m.width > 0 {
		status = util.TruncateRunes(status, util.Max(20, m.width-2))
	}
	if m.isLoading {
		status = m.spinner.View() + " " + status
	}
	styledStatus := statusStyle.Render(status)
	if m.statusIsError {
		styledStatus = errorStyle.Render(status)
	}

	switch m.state {
	case viewSetup:
		help := helpStyle.Render("tab: switch field • enter: load / re-index • ctrl+c: quit")
		return strings.Join([]string{
			header,
			"",
			m.urlInput.View(),
			m.modelInput.View(),
			"",
			styledStatus,
			help,
		}, "\n")
	default:
		help := helpStyle.Render("enter: ask • ctrl+l: clear chat • ctrl+r: re-index • ctrl+c: quit")
		return strings.Join([]string{
			header,
			chatBoxStyle.Render(m.viewport.View()),
			m.questionInput.View(),
			styledStatus,
			help,
		}, "\n")
	}
}

// Run wires the providers, fetcher, and registry into a session and starts
// the interactive program.
func Run(cfg *appconfig.Config) error {
	embedder, err := providerfactory.NewEmbedder(cfg)
	if err != nil {
		return fmt.Errorf("embedding provider: %w", err)
	}
	generator, err := providerfactory.NewGenerator(cfg)
	if err != nil {
		return fmt.Errorf("generation provider: %w", err)
	}

	fetcher := ingest.NewGitHubFetcher(cfg.RequestTimeout())
	session := chat.NewSession(cfg, fetcher, embedder, generator, rag.NewRegistry())
	defer session.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	program := tea.NewProgram(initialModel(ctx, cfg, session), tea.WithAltScreen())
	_, err = program.Run()
	return err
}
