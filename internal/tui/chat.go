package tui

import (
	"context"
	"strings"

	"runcoach/internal/coach"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// chatMessage is one entry in the conversation transcript
type chatMessage struct {
	fromCoach bool
	text      string
}

// ChatModel is the coach conversation screen model
type ChatModel struct {
	session  *coach.Session
	input    textinput.Model
	viewport viewport.Model
	messages []chatMessage
	waiting  bool
	width    int
	height   int
	ready    bool
}

// NewChatModel creates a new chat model
func NewChatModel(session *coach.Session) ChatModel {
	input := textinput.New()
	input.Placeholder = "Ask your coach..."
	input.CharLimit = 500
	input.Focus()

	return ChatModel{
		session: session,
		input:   input,
	}
}

// Init initializes the chat screen
func (m ChatModel) Init() tea.Cmd {
	return textinput.Blink
}

// Focused reports whether the text input is capturing keystrokes
func (m ChatModel) Focused() bool {
	return m.input.Focused()
}

type coachReplyMsg struct {
	reply string
}

func (m ChatModel) askCoach(message string) tea.Cmd {
	session := m.session
	return func() tea.Msg {
		// Ask never fails; protocol and network errors come back as
		// fixed fallback replies.
		reply := session.Ask(context.Background(), message)
		return coachReplyMsg{reply: reply}
	}
}

// Update handles messages
func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case coachReplyMsg:
		m.waiting = false
		m.messages = append(m.messages, chatMessage{fromCoach: true, text: msg.reply})
		m.refreshTranscript()
		m.input.Focus()
		return m, textinput.Blink

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-8)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 8
		}
		m.refreshTranscript()

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			text := strings.TrimSpace(m.input.Value())
			if text == "" || m.waiting {
				return m, nil
			}
			m.messages = append(m.messages, chatMessage{text: text})
			m.input.Reset()
			m.input.Blur()
			m.waiting = true
			m.refreshTranscript()
			return m, m.askCoach(text)
		case "esc":
			if m.input.Focused() {
				m.input.Blur()
			} else {
				m.input.Focus()
				return m, textinput.Blink
			}
			return m, nil
		case "i":
			if !m.input.Focused() && !m.waiting {
				m.input.Focus()
				return m, textinput.Blink
			}
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *ChatModel) refreshTranscript() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m ChatModel) renderTranscript() string {
	if len(m.messages) == 0 {
		return statusStyle.Render("\n  Ask about your training. The coach sees your current week\n  and will request more history when it needs it.")
	}

	width := m.width - 4
	if width < 20 {
		width = 20
	}

	var lines []string
	for _, msg := range m.messages {
		var label, body string
		if msg.fromCoach {
			label = coachLabelStyle.Render("Coach")
			body = coachTextStyle.Width(width).Render(msg.text)
		} else {
			label = userLabelStyle.Render("You")
			body = userTextStyle.Width(width).Render(msg.text)
		}
		lines = append(lines, label, body, "")
	}

	if m.waiting {
		lines = append(lines, statusStyle.Render("Coach is thinking..."))
	}

	return strings.Join(lines, "\n")
}

// View renders the chat screen
func (m ChatModel) View() string {
	if !m.ready {
		return "\n  Loading..."
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewport.View(),
		inputStyle.Render(m.input.View()),
	)
}
