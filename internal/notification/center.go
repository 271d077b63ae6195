package notification

import (
	"fmt"
	"sync"
	"time"
)

// Notification is one active admin alert.
type Notification struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type UpdateKind string

const (
	UpdateAdded     UpdateKind = "added"
	UpdateDismissed UpdateKind = "dismissed"
)

type Update struct {
	Kind         UpdateKind   `json:"kind"`
	Notification Notification `json:"notification"`
}

// Center holds one admin session's notification state: the active
// list, dedup by entity id, per-notification dismissal timers, the
// mute flag, and the session's sound player. It replaces what the
// storefront kept in module-level globals; each session owns its own.
type Center struct {
	ttl    time.Duration
	player *Player

	mu      sync.Mutex
	active  map[string]Notification
	order   []string
	timers  map[string]*time.Timer
	playing string
	muted   bool
	closed  bool

	updates chan Update
	now     func() time.Time
}

func NewCenter(ttl time.Duration, player *Player) *Center {
	return &Center{
		ttl:     ttl,
		player:  player,
		active:  make(map[string]Notification),
		timers:  make(map[string]*time.Timer),
		updates: make(chan Update, 64),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Notify adds an alert for a change event. Returns false when an
// alert for the same entity is already active: duplicate deliveries
// are dropped, not doubled.
func (c *Center) Notify(evt Event) bool {
	id := fmt.Sprintf("%s-%s", evt.Type, evt.EntityID)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	if _, exists := c.active[id]; exists {
		c.mu.Unlock()
		return false
	}

	n := Notification{
		ID:        id,
		Type:      evt.Type,
		Title:     evt.Title,
		Body:      evt.Body,
		CreatedAt: c.now(),
	}
	c.active[id] = n
	c.order = append([]string{id}, c.order...)
	c.timers[id] = time.AfterFunc(c.ttl, func() { c.Dismiss(id) })

	muted := c.muted
	if !muted {
		c.playing = id
	}
	c.mu.Unlock()

	if !muted && c.player != nil {
		c.player.Play()
	}

	c.push(Update{Kind: UpdateAdded, Notification: n})
	return true
}

// Dismiss removes an alert and stops its timer. If the alert owns the
// in-progress sound, playback stops with it.
func (c *Center) Dismiss(id string) {
	c.mu.Lock()
	n, exists := c.active[id]
	if !exists {
		c.mu.Unlock()
		return
	}

	delete(c.active, id)
	for i, activeID := range c.order {
		if activeID == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	if timer := c.timers[id]; timer != nil {
		timer.Stop()
		delete(c.timers, id)
	}

	stopSound := c.playing == id
	if stopSound {
		c.playing = ""
	}
	c.mu.Unlock()

	if stopSound && c.player != nil {
		c.player.Stop()
	}

	c.push(Update{Kind: UpdateDismissed, Notification: n})
}

// Active returns the current alerts, newest first.
func (c *Center) Active() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Notification, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.active[id])
	}
	return out
}

// SetMuted toggles sound playback for this session. Visual alerts
// still fire; muting mid-playback stops the current sound.
func (c *Center) SetMuted(muted bool) {
	c.mu.Lock()
	c.muted = muted
	stopSound := muted && c.playing != ""
	if stopSound {
		c.playing = ""
	}
	c.mu.Unlock()

	if stopSound && c.player != nil {
		c.player.Stop()
	}
}

func (c *Center) Muted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.muted
}

// Updates streams add/dismiss changes to the session's transport. The
// channel is buffered and lossy: a stalled consumer misses updates
// rather than blocking the fan-out.
func (c *Center) Updates() <-chan Update {
	return c.updates
}

func (c *Center) push(u Update) {
	select {
	case c.updates <- u:
	default:
	}
}

// Close stops all timers. The center accepts no further events.
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true

	for id, timer := range c.timers {
		timer.Stop()
		delete(c.timers, id)
	}
}
