package store

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/naveenspark/mbadmin/internal/notify"
	"github.com/naveenspark/mbadmin/internal/storage"
	"github.com/naveenspark/mbadmin/pkg/client"
)

// Theme selects the color palette.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// PreferencesState is a point-in-time copy of the display preferences.
type PreferencesState struct {
	Theme       Theme
	SidebarOpen bool
	Loading     bool
}

type persistedPreferences struct {
	Theme       Theme `json:"theme"`
	SidebarOpen bool  `json:"sidebarOpen"`
}

// Preferences is the cross-cutting display state. Only the theme and sidebar
// visibility survive a restart; notifications never do.
type Preferences struct {
	mu      sync.RWMutex
	state   PreferencesState
	queue   *notify.Queue
	kv      storage.Storage
	log     zerolog.Logger
	changes client.Signal
}

// NewPreferences restores theme and sidebar visibility from kv. A nil queue
// gets a fresh one.
func NewPreferences(kv storage.Storage, queue *notify.Queue, log zerolog.Logger) *Preferences {
	if queue == nil {
		queue = notify.New()
	}
	p := &Preferences{
		state: PreferencesState{Theme: ThemeLight, SidebarOpen: true},
		queue: queue,
		kv:    kv,
		log:   log.With().Str("component", "preferences").Logger(),
	}
	saved, ok, err := load[persistedPreferences](kv, PreferencesKey)
	switch {
	case err != nil:
		p.log.Warn().Err(err).Msg("discarding persisted preferences")
	case ok:
		if saved.Theme == ThemeDark {
			p.state.Theme = ThemeDark
		}
		p.state.SidebarOpen = saved.SidebarOpen
	}
	return p
}

// State returns a copy of the current preferences.
func (p *Preferences) State() PreferencesState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// OnChange registers fn to run after every preference mutation.
func (p *Preferences) OnChange(fn func()) (unsubscribe func()) {
	return p.changes.Subscribe(fn)
}

func (p *Preferences) update(fn func(st *PreferencesState)) PreferencesState {
	p.mu.Lock()
	fn(&p.state)
	st := p.state
	save(p.kv, PreferencesKey, persistedPreferences{Theme: st.Theme, SidebarOpen: st.SidebarOpen}, p.log)
	p.mu.Unlock()
	p.changes.Emit()
	return st
}

// ToggleTheme flips between light and dark and returns the new theme.
func (p *Preferences) ToggleTheme() Theme {
	return p.update(func(st *PreferencesState) {
		if st.Theme == ThemeDark {
			st.Theme = ThemeLight
		} else {
			st.Theme = ThemeDark
		}
	}).Theme
}

// SetTheme selects a theme explicitly.
func (p *Preferences) SetTheme(t Theme) error {
	if t != ThemeLight && t != ThemeDark {
		return fmt.Errorf("unknown theme %q", t)
	}
	p.update(func(st *PreferencesState) { st.Theme = t })
	return nil
}

// ToggleSidebar flips sidebar visibility and returns the new value.
func (p *Preferences) ToggleSidebar() bool {
	return p.update(func(st *PreferencesState) { st.SidebarOpen = !st.SidebarOpen }).SidebarOpen
}

func (p *Preferences) SetSidebarOpen(open bool) {
	p.update(func(st *PreferencesState) { st.SidebarOpen = open })
}

func (p *Preferences) SetLoading(loading bool) {
	p.update(func(st *PreferencesState) { st.Loading = loading })
}

// Notifier exposes the notification queue for controllers.
func (p *Preferences) Notifier() *notify.Queue {
	return p.queue
}

// AddNotification enqueues n and returns its id.
func (p *Preferences) AddNotification(n notify.Notification) string {
	return p.queue.Add(n)
}

func (p *Preferences) RemoveNotification(id string) bool {
	return p.queue.Remove(id)
}

func (p *Preferences) ClearNotifications() {
	p.queue.Clear()
}

// Notifications lists active notifications, oldest first.
func (p *Preferences) Notifications() []notify.Notification {
	return p.queue.List()
}
