// Package app contains the root application model. It wires the registration
// source, the lifecycle coordinator, the badge overlay, and the activity bar
// widget into one Bubble Tea program.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"go.opentelemetry.io/otel/trace"

	"github.com/rcalder/wharf/internal/bar"
	"github.com/rcalder/wharf/internal/composite"
	"github.com/rcalder/wharf/internal/config"
	"github.com/rcalder/wharf/internal/extensions"
	"github.com/rcalder/wharf/internal/log"
	"github.com/rcalder/wharf/internal/pubsub"
	"github.com/rcalder/wharf/internal/store"
	"github.com/rcalder/wharf/internal/tracing"
	"github.com/rcalder/wharf/internal/ui/activitybar"
	"github.com/rcalder/wharf/internal/ui/styles"
)

// repaintHandler forwards every event to the coordinator, then publishes a
// bar-changed notification so the program loop repaints. Events may arrive
// from the manifest watcher goroutine.
type repaintHandler struct {
	next   composite.Handler
	broker *pubsub.Broker[string]
}

func (h *repaintHandler) HandleRegister(d composite.Descriptor) {
	h.next.HandleRegister(d)
	h.broker.Publish(pubsub.BarChangedEvent, d.ID)
}

func (h *repaintHandler) HandleOpen(id string) {
	h.next.HandleOpen(id)
	h.broker.Publish(pubsub.BarChangedEvent, id)
}

func (h *repaintHandler) HandleClose(id string) {
	h.next.HandleClose(id)
	h.broker.Publish(pubsub.BarChangedEvent, id)
}

func (h *repaintHandler) HandleEnablement(id string, enabled bool) {
	h.next.HandleEnablement(id, enabled)
	h.broker.Publish(pubsub.BarChangedEvent, id)
}

func (h *repaintHandler) HandleExtensionsReady() {
	h.next.HandleExtensionsReady()
	h.broker.Publish(pubsub.BarChangedEvent, "")
}

var _ composite.Handler = (*repaintHandler)(nil)

// Model is the root application state.
type Model struct {
	cfg config.Config

	service     *extensions.Service
	loader      *extensions.Loader
	coordinator *bar.Coordinator
	overlay     *bar.Overlay
	widget      *activitybar.Model
	globalNames map[string]string

	provider *tracing.Provider

	changeBroker   *pubsub.Broker[string]
	changeListener *pubsub.ContinuousListener[string]
	ctx            context.Context
	cancel         context.CancelFunc

	keys   appKeyMap
	width  int
	height int
	ready  bool
}

type appKeyMap struct {
	Quit key.Binding
}

func defaultAppKeyMap() appKeyMap {
	return appKeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// New builds the fully wired application model. The store is chosen from
// config: SQLite at cfg.StatePath, or in-memory when cfg.Ephemeral is set.
func New(cfg config.Config, provider *tracing.Provider) (*Model, error) {
	var st store.Store
	if cfg.Ephemeral {
		st = store.NewMemStore()
	} else {
		sqlStore, err := store.NewSQLiteStore(cfg.StatePath)
		if err != nil {
			return nil, fmt.Errorf("opening placeholder store: %w", err)
		}
		st = sqlStore
	}

	widget := activitybar.New(activitybar.Config{
		LegacyPinned: cfg.Bar.LegacyPinned,
	})
	if cfg.Bar.Width > 0 {
		widget.SetSize(cfg.Bar.Width, 0)
	}

	service := extensions.NewService()

	var tracer trace.Tracer
	if provider != nil {
		tracer = provider.Tracer()
	}
	coordinator := bar.NewCoordinator(widget, service, st, tracer)
	overlay := bar.NewOverlay(widget, coordinator, composite.DefaultGlobalActivities())

	globalNames := make(map[string]string)
	for _, g := range composite.DefaultGlobalActivities() {
		globalNames[g.ID] = g.Name
	}

	ctx, cancel := context.WithCancel(context.Background())
	changeBroker := pubsub.NewBroker[string]()

	service.AddHandler(&repaintHandler{next: coordinator, broker: changeBroker})

	m := &Model{
		cfg:            cfg,
		service:        service,
		loader:         extensions.NewLoader(service, cfg.ManifestDir),
		coordinator:    coordinator,
		overlay:        overlay,
		widget:         widget,
		globalNames:    globalNames,
		provider:       provider,
		changeBroker:   changeBroker,
		changeListener: pubsub.NewContinuousListener(ctx, changeBroker),
		ctx:            ctx,
		cancel:         cancel,
		keys:           defaultAppKeyMap(),
	}
	return m, nil
}

// scanDoneMsg signals that the initial manifest scan finished.
type scanDoneMsg struct{ err error }

// Init starts the manifest scan off the program loop and arms the repaint
// listener.
func (m *Model) Init() tea.Cmd {
	scan := func() tea.Msg {
		err := m.loader.Scan()
		if err == nil {
			err = m.loader.Watch(m.ctx)
		}
		return scanDoneMsg{err: err}
	}
	return tea.Batch(scan, m.changeListener.Listen())
}

// Update handles program-level messages and delegates input to the widget.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		width := m.cfg.Bar.Width
		if width <= 0 || width > msg.Width {
			width = msg.Width
		}
		m.widget.SetSize(width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}

	case scanDoneMsg:
		m.ready = true
		if msg.err != nil {
			log.ErrorErr(log.CatExt, "manifest scan failed", msg.err)
		}
		return m, nil

	case pubsub.Event[string]:
		// Bar changed off the program loop; repaint and re-arm.
		return m, m.changeListener.Listen()

	case activitybar.EntryActivatedMsg:
		return m, m.activateEntry(msg.ID)

	case activitybar.PinToggledMsg:
		return m, m.togglePin(msg.ID)
	}

	return m, m.widget.Update(msg)
}

func (m *Model) activateEntry(id string) tea.Cmd {
	pair, err := m.coordinator.ControlPair(id)
	if err != nil {
		log.ErrorErr(log.CatBar, "activate failed", err, "id", id)
		return nil
	}
	pair.Activity().Invoke()
	m.service.Open(id)
	return nil
}

func (m *Model) togglePin(id string) tea.Cmd {
	pair, err := m.coordinator.ControlPair(id)
	if err != nil {
		log.ErrorErr(log.CatBar, "pin toggle failed", err, "id", id)
		return nil
	}
	pair.Pin().Toggle()
	return nil
}

// View renders the bar beside the active panel placeholder.
func (m *Model) View() string {
	barView := m.widget.View(m.overlay, m.globalNames)

	panel := m.renderPanel()
	return zone.Scan(lipgloss.JoinHorizontal(lipgloss.Top, barView, panel))
}

func (m *Model) renderPanel() string {
	activeID, ok := m.widget.ActiveID()
	if !ok {
		hint := "no panel open"
		if !m.ready {
			hint = "scanning extensions..."
		}
		return lipgloss.NewStyle().Foreground(styles.TextMutedColor).Padding(1, 2).Render(hint)
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(activeID))
	b.WriteString("\n\n")
	b.WriteString("pinned: " + strings.Join(m.coordinator.PinnedIDs(), ", "))
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// Close shuts the application down: the coordinator persists its snapshot and
// tears the widget down, then tracing flushes.
func (m *Model) Close() error {
	m.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := m.coordinator.Shutdown(ctx)

	if m.provider != nil {
		if shutdownErr := m.provider.Shutdown(ctx); shutdownErr != nil && err == nil {
			err = shutdownErr
		}
	}
	return err
}

// Coordinator exposes the lifecycle coordinator, primarily for tests.
func (m *Model) Coordinator() *bar.Coordinator { return m.coordinator }

// Overlay exposes the badge overlay for external badge callers.
func (m *Model) Overlay() *bar.Overlay { return m.overlay }
