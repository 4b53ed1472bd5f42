package bubbletea

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/relay"
	"github.com/fwojciec/relay/goldmark"
)

var _ tea.Model = Model{}

const (
	inputHeight  = 1
	statusHeight = 1
	borderHeight = 2 // newlines between sections
)

// Model is the Bubble Tea model for the relay TUI.
type Model struct {
	// Input is the text input component. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable output area. Exported for test access.
	Viewport viewport.Model

	predict  PredictFunc
	history  HistoryFunc
	session  *relay.Session
	styles   Styles
	renderer *goldmark.Renderer

	blocks []MessageBlock
	answer *AnswerBlock // answer of the running prediction
	asked  bool         // a question was sent; late history is ignored

	running bool
	cancel  context.CancelFunc
	snapCh  chan relay.Snapshot
	doneCh  chan error
	err     error
	notice  string
	ready   bool
}

// Option configures a Model.
type Option func(*Model)

// WithHistory loads the upstream conversation of the session on startup.
// It replaces the locally stored messages unless a question is asked first.
func WithHistory(fn HistoryFunc) Option {
	return func(m *Model) { m.history = fn }
}

// New creates a new TUI Model with the given predict function, session, and theme.
func New(predict PredictFunc, session *relay.Session, theme relay.Theme, opts ...Option) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask a question..."
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 0

	m := Model{
		Input:    ti,
		predict:  predict,
		session:  session,
		styles:   NewStyles(theme),
		renderer: goldmark.NewRenderer(theme),
	}
	for _, o := range opts {
		o(&m)
	}
	return m
}

// Running returns whether a prediction is in progress.
func (m Model) Running() bool { return m.running }

// Err returns the last error, if any.
func (m Model) Err() error { return m.err }

// SetRunningWithCancel is a test helper that puts the model in a running state
// with a cancel function.
func SetRunningWithCancel(m Model, cancel func()) (Model, tea.Cmd) {
	m.running = true
	m.cancel = cancel
	return m, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.history == nil || m.session.ID == "" {
		return textinput.Blink
	}
	return tea.Batch(textinput.Blink, loadHistory(m.history, m.session.ID))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.handleWindowSize(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case HistoryMsg:
		return m.handleHistory(msg), nil

	case SnapshotMsg:
		if m.answer != nil {
			m.answer.SetText(msg.Snapshot.Text)
			if msg.Snapshot.Final {
				m.answer.Finish()
			}
		}
		m = m.refresh()
		if m.snapCh != nil {
			return m, listenForSnapshot(m.snapCh, m.doneCh)
		}
		return m, nil

	case PredictDoneMsg:
		m = m.finishPrediction(msg.Err)
		cmd := m.Input.Focus()
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}

	// Viewport always receives messages for scrolling (keyboard and mouse).
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)

	if !m.running {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	vpHeight := max(msg.Height-inputHeight-statusHeight-borderHeight, 1)

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m.blocks = m.sessionBlocks()
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
	}
	m.Input.Width = msg.Width
	return m.refresh()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.running {
			if m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyEnter:
		if m.running {
			return m, nil
		}
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			return m, nil
		}
		return m.submit(text)
	}

	// When idle, pass keys to both input (for typing) and viewport
	// (for scrolling). Only forward non-character keys to viewport to avoid
	// conflicts (e.g. 'j'/'k' are viewport scroll AND text characters).
	if !m.running {
		var cmd tea.Cmd
		var cmds []tea.Cmd

		if msg.Type != tea.KeyRunes {
			m.Viewport, cmd = m.Viewport.Update(msg)
			cmds = append(cmds, cmd)
		}

		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)

		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m Model) submit(question string) (tea.Model, tea.Cmd) {
	m.Input.SetValue("")
	m.err = nil
	m.notice = ""
	m.asked = true

	m.answer = NewAnswerBlock(m.renderer, m.styles)
	m.blocks = append(m.blocks, NewQuestionBlock(question, m.questionCount()+1, m.styles), m.answer)
	m = m.refresh()

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.snapCh = make(chan relay.Snapshot, 256)
	m.doneCh = make(chan error, 1)
	m.running = true

	m.Input.Blur()

	return m, tea.Batch(
		startPredict(m.predict, ctx, m.session, question, m.snapCh, m.doneCh),
		listenForSnapshot(m.snapCh, m.doneCh),
	)
}

// finishPrediction settles the answer block. An answer without text is
// dropped; a failure other than cancellation is shown below the answer.
func (m Model) finishPrediction(err error) Model {
	if m.cancel != nil {
		m.cancel()
	}
	m.running = false
	m.cancel = nil
	m.snapCh = nil
	m.doneCh = nil

	if m.answer != nil {
		m.answer.Finish()
		if strings.TrimSpace(m.answer.Text()) == "" && len(m.blocks) > 0 && m.blocks[len(m.blocks)-1] == m.answer {
			m.blocks = m.blocks[:len(m.blocks)-1]
		}
		m.answer = nil
	}

	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		m.notice = "Cancelled"
	default:
		m.err = err
		m.blocks = append(m.blocks, NewErrorBlock(err, m.styles))
	}
	return m.refresh()
}

func (m Model) handleHistory(msg HistoryMsg) Model {
	if m.asked {
		return m
	}
	if msg.Err != nil {
		m.notice = "History unavailable"
		return m
	}
	if len(msg.Messages) == 0 {
		return m
	}
	m.session.Messages = msg.Messages
	if m.ready {
		m.blocks = m.sessionBlocks()
		m = m.refresh()
	}
	return m
}

// sessionBlocks creates blocks from the session's messages.
func (m Model) sessionBlocks() []MessageBlock {
	var blocks []MessageBlock
	turn := 0
	for _, msg := range m.session.Messages {
		switch msg.Role {
		case relay.RoleUser:
			turn++
			blocks = append(blocks, NewQuestionBlock(msg.Text, turn, m.styles))
		default:
			b := NewAnswerBlock(m.renderer, m.styles)
			b.SetText(msg.Text)
			b.Finish()
			blocks = append(blocks, b)
		}
	}
	return blocks
}

// questionCount returns the number of questions shown so far.
func (m Model) questionCount() int {
	n := 0
	for _, b := range m.blocks {
		if _, ok := b.(*QuestionBlock); ok {
			n++
		}
	}
	return n
}

func (m Model) refresh() Model {
	if !m.ready {
		return m
	}
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()
	return m
}

func (m Model) renderContent() string {
	var views []string
	for _, block := range m.blocks {
		if v := block.View(m.Viewport.Width); v != "" {
			views = append(views, v)
		}
	}
	return strings.Join(views, "\n\n")
}

// startPredict runs the prediction in a goroutine and signals completion.
func startPredict(predict PredictFunc, ctx context.Context, session *relay.Session, question string, snapCh chan<- relay.Snapshot, doneCh chan<- error) tea.Cmd {
	return func() tea.Msg {
		err := predict(ctx, session, question, func(s relay.Snapshot) {
			select {
			case snapCh <- s:
			case <-ctx.Done():
			}
		})
		close(snapCh)
		doneCh <- err
		return nil
	}
}

// listenForSnapshot waits for the next snapshot from the channel.
// When the channel closes, it reads the error from doneCh and returns PredictDoneMsg.
func listenForSnapshot(ch <-chan relay.Snapshot, doneCh <-chan error) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			err := <-doneCh
			return PredictDoneMsg{Err: err}
		}
		return SnapshotMsg{Snapshot: snap}
	}
}

func loadHistory(fn HistoryFunc, sessionID string) tea.Cmd {
	return func() tea.Msg {
		msgs, err := fn(context.Background(), sessionID)
		return HistoryMsg{Messages: msgs, Err: err}
	}
}
