package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/game"
	"github.com/vovakirdan/tui-snake/internal/registry"
	"github.com/vovakirdan/tui-snake/internal/render"
	"github.com/vovakirdan/tui-snake/internal/replay"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

// footerRows is the space below the board for the name prompt and help.
const footerRows = 2

// ConfigReloadedMsg delivers a config that changed on disk.
type ConfigReloadedMsg struct {
	Config config.SnakeConfig
}

// ConfigErrorMsg reports a config file that could not be reloaded.
type ConfigErrorMsg struct {
	Err error
}

// ReplaySavedMsg reports the outcome of writing a finished game's replay.
type ReplaySavedMsg struct {
	Path string
	Err  error
}

// Options wires a Model to its collaborators. Everything except Config
// and Ledger is optional.
type Options struct {
	Config        config.SnakeConfig
	Ledger        *game.Ledger
	Persister     *storage.Persister
	Registry      *registry.Registry
	Recorder      *replay.Recorder
	Logger        *log.Logger
	Runtime       core.RuntimeConfig
	SessionID     string
	Player        string
	Origin        string
	ScreenshotDir string
	SkipWelcome   bool

	// Difficulty is applied to the initial config and to every reload.
	Difficulty config.DifficultyPreset
	// Fit sizes the board to the terminal instead of the configured grid.
	Fit bool
}

type view int

const (
	viewWelcome view = iota
	viewGame
	viewScores
)

// Model is the Bubble Tea model for one player: welcome screen, game,
// high-score entry and the scoreboard.
type Model struct {
	opts       Options
	logger     *log.Logger
	flow       *game.Flow
	screen     *core.Screen
	keyMapper  *KeyMapper
	keys       GameKeyMap
	help       help.Model
	nameInput  textinput.Model
	scoreboard ScoreboardModel
	view       view
	paused     bool
	chain      uint64
	startedAt  time.Time
	status     string
	quitting   bool
}

// NewModel creates the model and registers its session.
func NewModel(opts Options) (Model, error) {
	if opts.Ledger == nil {
		opts.Ledger = game.NewLedger(opts.Config.Scores.Capacity)
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Runtime.ScreenW == 0 || opts.Runtime.ScreenH == 0 {
		def := core.DefaultConfig()
		opts.Runtime.ScreenW, opts.Runtime.ScreenH = def.ScreenW, def.ScreenH
	}
	if opts.Runtime.Seed == 0 {
		opts.Runtime.Seed = time.Now().UnixNano()
	}
	if opts.SessionID == "" {
		opts.SessionID = registry.NewID()
	}
	if opts.Player == "" {
		opts.Player = game.DefaultPlayerName
	}
	if opts.Origin == "" {
		opts.Origin = "local"
	}

	config.ApplyPreset(&opts.Config, opts.Difficulty)
	if opts.Fit {
		opts.Config = fitGrid(opts.Config, opts.Runtime, opts.Logger)
	}

	rng := rand.New(rand.NewSource(opts.Runtime.Seed))
	flow, err := game.NewFlow(opts.Config.SessionConfig(), opts.Ledger, rng)
	if err != nil {
		return Model{}, fmt.Errorf("tui: %w", err)
	}
	if opts.Persister != nil {
		flow.OnLedgerChange(opts.Persister.Save)
	}

	input := textinput.New()
	input.Placeholder = game.DefaultPlayerName
	input.CharLimit = game.MaxNameLength
	input.Width = game.MaxNameLength + 1

	m := Model{
		opts:       opts,
		logger:     opts.Logger,
		flow:       flow,
		screen:     core.NewScreen(opts.Runtime.ScreenW, max(opts.Runtime.ScreenH-footerRows, 1)),
		keyMapper:  NewKeyMapper(),
		keys:       DefaultGameKeyMap(),
		help:       help.New(),
		nameInput:  input,
		scoreboard: NewScoreboardModel(opts.Ledger, opts.Runtime.ScreenW, opts.Runtime.ScreenH),
	}

	if opts.Registry != nil {
		if err := opts.Registry.Register(opts.SessionID, opts.Player, opts.Origin); err != nil {
			return Model{}, fmt.Errorf("tui: %w", err)
		}
		opts.Registry.Publish(opts.SessionID, flow.Session().Snapshot())
	}

	if opts.SkipWelcome {
		m.view = viewGame
		m.beginSession()
	}
	return m, nil
}

// fitGrid applies FitGrid, keeping cfg when the terminal is too small.
func fitGrid(cfg config.SnakeConfig, rt core.RuntimeConfig, logger *log.Logger) config.SnakeConfig {
	fitted, ok := FitGrid(cfg, rt.ScreenW, rt.ScreenH)
	if !ok {
		logger.Warn("terminal too small to fit the board", "width", rt.ScreenW, "height", rt.ScreenH)
		return cfg
	}
	return fitted
}

// Init starts ticking when the game is shown right away.
func (m Model) Init() tea.Cmd {
	if m.view == viewGame {
		return m.scheduleTick()
	}
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.opts.Runtime.ScreenW = msg.Width
		m.opts.Runtime.ScreenH = msg.Height
		m.screen.Resize(msg.Width, max(msg.Height-footerRows, 1))
		m.help.Width = msg.Width
		next, _ := m.scoreboard.Update(msg)
		m.scoreboard = next.(ScoreboardModel)
		if m.opts.Fit {
			fitted := fitGrid(m.opts.Config, m.opts.Runtime, m.logger)
			if err := m.flow.SetConfig(fitted.SessionConfig()); err == nil {
				m.opts.Config = fitted
			}
		}
		return m, nil

	case TickMsg:
		return m.handleTick(msg)

	case ConfigReloadedMsg:
		config.ApplyPreset(&msg.Config, m.opts.Difficulty)
		if m.opts.Fit {
			msg.Config = fitGrid(msg.Config, m.opts.Runtime, m.logger)
		}
		if err := m.flow.SetConfig(msg.Config.SessionConfig()); err != nil {
			m.status = "Config rejected: " + err.Error()
			m.logger.Warn("reloaded config rejected", "err", err)
			return m, nil
		}
		m.opts.Config = msg.Config
		m.status = "Config reloaded; it applies to the next game"
		m.logger.Info("config reloaded")
		return m, nil

	case ConfigErrorMsg:
		m.status = "Config error: " + msg.Err.Error()
		m.logger.Warn("config reload failed", "err", msg.Err)
		return m, nil

	case ReplaySavedMsg:
		if msg.Err != nil {
			m.logger.Warn("failed to save replay", "err", msg.Err)
		} else {
			m.logger.Info("replay saved", "path", msg.Path)
		}
		return m, nil
	}

	if m.flow.Stage() == game.StageAwaitingName && m.view == viewGame {
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.view {
	case viewWelcome:
		return m.handleWelcomeKey(msg)
	case viewScores:
		return m.handleScoresKey(msg)
	}
	if m.flow.Stage() == game.StageAwaitingName {
		return m.handleNameKey(msg)
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		return m.quit()
	}
	if action == core.ActionScreenshot {
		m.status = m.saveScreenshot()
		return m, nil
	}

	if m.flow.Stage() == game.StageGameOver {
		switch action {
		case core.ActionConfirm, core.ActionRestart:
			return m, m.startGame()
		case core.ActionBack:
			m.view = viewWelcome
		case core.ActionScores:
			m.showScores(-1)
		}
		return m, nil
	}

	if d, ok := action.Direction(); ok {
		if !m.paused {
			m.flow.SetDirection(d)
		}
		return m, nil
	}

	switch action {
	case core.ActionPause:
		m.paused = !m.paused
		if !m.paused {
			m.chain++
			return m, m.scheduleTick()
		}
	case core.ActionRestart:
		return m, m.startGame()
	case core.ActionBack:
		// Abandon the running game; its pending tick is dropped.
		m.chain++
		m.paused = false
		m.view = viewWelcome
	}
	return m, nil
}

func (m Model) handleWelcomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		return m.quit()
	}
	switch action {
	case core.ActionConfirm, core.ActionRestart:
		return m, m.startGame()
	case core.ActionScores:
		m.showScores(-1)
	}
	return m, nil
}

func (m Model) handleScoresKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	next, cmd := m.scoreboard.Update(msg)
	m.scoreboard = next.(ScoreboardModel)
	if m.scoreboard.IsQuitting() {
		return m.quit()
	}
	if m.scoreboard.IsGoingBack() {
		m.scoreboard.goingBack = false
		m.view = viewWelcome
		return m, nil
	}
	return m, cmd
}

func (m Model) handleNameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m.quit()
	case "esc":
		// Skip the entry; the score is not recorded.
		m.nameInput.Blur()
		if err := m.flow.Restart(); err != nil {
			m.logger.Error("failed to start session", "err", err)
		}
		m.view = viewWelcome
		return m, nil
	case "enter":
		return m.submitName()
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m Model) submitName() (tea.Model, tea.Cmd) {
	name := game.NormalizeName(m.nameInput.Value())
	score := m.flow.Session().Score()
	m.nameInput.Blur()

	rank, err := m.flow.SubmitName(name)
	switch {
	case errors.Is(err, game.ErrNotAwaitingName):
		return m, nil
	case errors.Is(err, game.ErrNoLongerQualifies):
		m.status = fmt.Sprintf("%d no longer makes the table; other players got there first", score)
		m.logger.Info("high score dropped", "player", name, "score", score)
		m.showScores(-1)
		return m, nil
	case err != nil:
		m.status = "High score kept for this run only: " + err.Error()
	default:
		m.status = fmt.Sprintf("%s placed #%d with %d", name, rank+1, score)
	}
	m.logger.Info("high score", "player", name, "score", score, "rank", rank+1)
	m.showScores(rank)
	return m, nil
}

func (m *Model) showScores(rank int) {
	m.scoreboard.Highlight(rank)
	m.scoreboard.Refresh()
	m.view = viewScores
}

// startGame replaces the session and starts a new tick chain.
func (m *Model) startGame() tea.Cmd {
	if err := m.flow.Restart(); err != nil {
		m.status = "Cannot start: " + err.Error()
		m.logger.Error("failed to start session", "err", err)
		return nil
	}
	m.view = viewGame
	m.beginSession()
	return m.scheduleTick()
}

func (m *Model) beginSession() {
	m.chain++
	m.paused = false
	m.startedAt = time.Now()
	snap := m.flow.Session().Snapshot()
	if m.opts.Recorder != nil {
		m.opts.Recorder.Begin(m.opts.SessionID, snap)
	}
	m.publish(snap)
	m.logger.Debug("session started", "id", m.opts.SessionID, "generation", m.flow.Generation())
}

func (m Model) scheduleTick() tea.Cmd {
	return tickCmd(m.flow.Generation(), m.chain, m.flow.Session().TickInterval())
}

func (m Model) handleTick(msg TickMsg) (tea.Model, tea.Cmd) {
	if msg.Generation != m.flow.Generation() || msg.Chain != m.chain {
		return m, nil
	}
	if m.view != viewGame || m.paused || m.flow.Stage() != game.StagePlaying {
		return m, nil
	}

	res := m.flow.Tick()
	snap := m.flow.Session().Snapshot()
	if m.opts.Recorder != nil {
		m.opts.Recorder.Record(snap)
	}
	m.publish(snap)

	if res.Phase != game.PhasePlaying {
		return m, m.sessionEnded(res, snap)
	}
	return m, m.scheduleTick()
}

func (m *Model) sessionEnded(res game.TickResult, snap game.Snapshot) tea.Cmd {
	outcome := res.Outcome.String()
	if res.Phase == game.PhaseWon {
		outcome = "won"
	}
	m.logger.Info("game over", "player", m.opts.Player, "score", snap.Score, "outcome", outcome, "ticks", snap.Tick)

	if m.opts.Persister != nil {
		m.opts.Persister.Record(storage.GameRecord{
			Score:    snap.Score,
			Length:   len(snap.Body),
			Ticks:    snap.Tick,
			Outcome:  outcome,
			Duration: time.Since(m.startedAt),
			EndedAt:  time.Now(),
		})
	}
	var cmds []tea.Cmd
	if m.opts.Recorder != nil {
		// Frames are detached here so the next Begin cannot race the write.
		if rec := m.opts.Recorder.Take(); rec.Len() > 0 {
			cmds = append(cmds, saveReplay(rec))
		}
	}

	if m.flow.Stage() == game.StageAwaitingName {
		m.nameInput.Reset()
		if m.opts.Player != game.DefaultPlayerName {
			m.nameInput.SetValue(m.opts.Player)
		}
		cmds = append(cmds, m.nameInput.Focus())
	}
	return tea.Batch(cmds...)
}

func saveReplay(rec replay.Recording) tea.Cmd {
	return func() tea.Msg {
		path, err := rec.Save()
		return ReplaySavedMsg{Path: path, Err: err}
	}
}

func (m *Model) publish(snap game.Snapshot) {
	if m.opts.Registry != nil {
		m.opts.Registry.Publish(m.opts.SessionID, snap)
	}
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

// Close unregisters the session. Safe to call more than once.
func (m Model) Close() {
	if m.opts.Registry != nil {
		m.opts.Registry.Unregister(m.opts.SessionID)
	}
}

// saveScreenshot writes the board as text and PNG and returns a status line.
func (m *Model) saveScreenshot() string {
	dir := m.opts.ScreenshotDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "Screenshot failed: " + err.Error()
		}
		dir = filepath.Join(home, ".snake", "screenshots")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "Screenshot failed: " + err.Error()
	}

	snap := m.flow.Session().Snapshot()
	m.screen.Clear()
	DrawBoard(m.screen, snap, m.flow.Ledger().Best())

	base := filepath.Join(dir, "snake_"+time.Now().Format("20060102_150405"))
	if err := os.WriteFile(base+".txt", []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("screenshot failed", "err", err)
		return "Screenshot failed: " + err.Error()
	}
	opts := render.Options{CellSize: m.opts.Config.Grid.CellSize, HUD: true}
	if err := render.SavePNG(base+".png", snap, opts); err != nil {
		m.logger.Warn("screenshot failed", "err", err)
		return "Screenshot failed: " + err.Error()
	}
	return "Screenshot saved to " + base + ".png"
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.view {
	case viewWelcome:
		return m.welcomeView()
	case viewScores:
		return m.scoreboard.View() + "\n" + m.statusLine()
	}

	m.screen.Clear()
	snap := m.flow.Session().Snapshot()
	if DrawBoard(m.screen, snap, m.flow.Ledger().Best()) {
		switch {
		case m.paused:
			DrawBanner(m.screen, "PAUSED", "p to resume")
		case m.flow.Stage() == game.StageGameOver:
			title := "GAME OVER"
			if snap.Phase == game.PhaseWon {
				title = "BOARD CLEARED"
			}
			DrawBanner(m.screen, title, fmt.Sprintf("Score: %d", snap.Score), "r: again  esc: menu  q: quit")
		case m.flow.Stage() == game.StageAwaitingName:
			DrawBanner(m.screen, "NEW HIGH SCORE!", fmt.Sprintf("Score: %d", snap.Score))
		}
	}

	var b strings.Builder
	b.WriteString(RenderScreen(m.screen))
	b.WriteString("\n")
	if m.flow.Stage() == game.StageAwaitingName {
		b.WriteString(centerText("Your name: "+m.nameInput.View(), m.screen.Width()))
		b.WriteString("\n")
		b.WriteString(centerText(helpStyle.Render("enter: save  esc: skip"), m.screen.Width()))
		return b.String()
	}
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(centerText(m.help.View(m.keys), m.screen.Width()))
	return b.String()
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
)

func (m Model) statusLine() string {
	if m.status == "" {
		return ""
	}
	return centerText(statStyle.Render(m.status), m.opts.Runtime.ScreenW)
}

func (m Model) welcomeView() string {
	w := m.opts.Runtime.ScreenW
	lines := []string{
		"",
		titleStyle.Render("S N A K E"),
		"",
		"Eat the food, grow longer, don't hit the walls or yourself.",
		"Every bite makes the game faster.",
		"",
		fmt.Sprintf("Board %dx%d   Best score: %d", m.opts.Config.Grid.Width, m.opts.Config.Grid.Height, m.flow.Ledger().Best()),
		"",
		helpStyle.Render("enter: play   tab: high scores   q: quit"),
		"",
		m.statusLine(),
	}

	var b strings.Builder
	top := max((m.opts.Runtime.ScreenH-len(lines))/2, 0)
	b.WriteString(strings.Repeat("\n", top))
	for _, line := range lines {
		b.WriteString(centerText(line, w))
		b.WriteString("\n")
	}
	return b.String()
}

// Run starts a Bubble Tea program for opts and blocks until it exits.
// When configPath is set, changes to that file are delivered to the
// running program.
func Run(ctx context.Context, opts Options, configPath string) error {
	m, err := NewModel(opts)
	if err != nil {
		return err
	}
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if configPath != "" {
		w, err := config.NewWatcher(configPath)
		if err != nil {
			m.logger.Warn("config hot reload disabled", "err", err)
		} else {
			wctx, cancel := context.WithCancel(ctx)
			defer cancel()
			go w.Run(wctx, func(cfg config.SnakeConfig, err error) {
				if err != nil {
					p.Send(ConfigErrorMsg{Err: err})
					return
				}
				p.Send(ConfigReloadedMsg{Config: cfg})
			})
		}
	}

	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
