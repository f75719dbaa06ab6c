// Package slideshow drives which photo is on screen: timed and manual
// advancing, the exit/enter animation sequence, play order, and photo drops.
package slideshow

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/aouyang1/photoslideshow/store"
)

// PhaseDelay is how long each animation phase lasts. The CSS transitions run
// for 500ms; the phase ends slightly earlier so the class swap never lags it.
const PhaseDelay = 490 * time.Millisecond

var (
	ErrTransitionInFlight = errors.New("photo transition already in progress")
	ErrPhotoNotInShow     = errors.New("photo is not in the slideshow")
)

type Direction int

const (
	Next Direction = iota
	Prev
)

// State is a snapshot handed to observers.
type State struct {
	Photo          *store.Photo
	Index          int
	Count          int
	Phase          Phase
	AnimationClass string
	Settings       store.Settings
}

type Option func(*Controller)

func WithClock(clock Clock) Option {
	return func(c *Controller) { c.clock = clock }
}

func WithRand(rng *rand.Rand) Option {
	return func(c *Controller) { c.rng = rng }
}

// WithObserver registers f to receive every state change. f runs with the
// controller locked and must not call back into it.
func WithObserver(f func(State)) Option {
	return func(c *Controller) { c.observer = f }
}

// Controller owns the current position in the slideshow. Photos are shown in
// playOrder; cursor is the position within it.
type Controller struct {
	mu sync.Mutex

	clock    Clock
	rng      *rand.Rand
	observer func(State)

	photos   []store.Photo
	order    []int
	cursor   int
	settings store.Settings
	nextID   int

	phase         Phase
	transitionGen uint64
	phaseTimer    Timer

	playing  bool
	timer    Timer
	timerGen uint64
}

func NewController(photos []store.Photo, settings store.Settings, opts ...Option) *Controller {
	c := &Controller{
		clock:    realClock{},
		photos:   slices.Clone(photos),
		settings: settings,
		nextID:   1,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	for _, p := range c.photos {
		c.nextID = max(c.nextID, p.ID+1)
	}

	c.order = identityOrder(len(c.photos))
	if c.settings.PlayMode == store.PlayModeRandom {
		c.shuffleOrderLocked()
	}
	return c
}

func identityOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

// Advance moves one photo forward or back, wrapping at either end. With
// animate the swap runs through the exit and enter phases; an animated call
// while a swap is running is rejected. A non-animated call cancels any
// running swap and commits at once. resetTimer cancels the pending autoplay
// tick; autoplay re-arms when the new position is committed.
func (c *Controller) Advance(dir Direction, animate, resetTimer bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.advanceLocked(dir, animate, resetTimer)
}

func (c *Controller) advanceLocked(dir Direction, animate, resetTimer bool) error {
	if len(c.photos) == 0 {
		return nil
	}
	if animate && c.phase != PhaseNone {
		return ErrTransitionInFlight
	}

	if resetTimer {
		c.cancelTimerLocked()
	}

	if !animate {
		c.cancelTransitionLocked()
		c.stepLocked(dir)
		c.notifyLocked()
		return nil
	}

	c.transitionGen++
	gen := c.transitionGen
	c.phase = PhaseExiting
	c.notifyLocked()
	c.phaseTimer = c.clock.AfterFunc(PhaseDelay, func() { c.finishExit(gen, dir) })
	return nil
}

func (c *Controller) finishExit(gen uint64, dir Direction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.transitionGen {
		return
	}

	c.stepLocked(dir)
	c.phase = PhaseEntering
	c.notifyLocked()
	c.phaseTimer = c.clock.AfterFunc(PhaseDelay, func() { c.finishEnter(gen) })
}

func (c *Controller) finishEnter(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.transitionGen {
		return
	}

	c.phase = PhaseNone
	c.phaseTimer = nil
	c.notifyLocked()
}

func (c *Controller) cancelTransitionLocked() {
	c.transitionGen++
	if c.phaseTimer != nil {
		c.phaseTimer.Stop()
		c.phaseTimer = nil
	}
	c.phase = PhaseNone
}

// stepLocked commits the next cursor. In random mode the order is
// reshuffled before wrapping from the last position back to the first.
func (c *Controller) stepLocked(dir Direction) {
	n := len(c.photos)
	if n == 0 {
		return
	}

	switch dir {
	case Next:
		if c.settings.PlayMode == store.PlayModeRandom && c.cursor == n-1 {
			c.shuffleOrderLocked()
		}
		c.cursor = (c.cursor + 1) % n
	case Prev:
		c.cursor = (c.cursor - 1 + n) % n
	}
	c.rearmLocked()
}

func (c *Controller) shuffleOrderLocked() {
	c.rng.Shuffle(len(c.order), func(i, j int) {
		c.order[i], c.order[j] = c.order[j], c.order[i]
	})
}

// keepPhotoLocked moves the cursor to wherever photo index idx now sits in
// the order.
func (c *Controller) keepPhotoLocked(idx int) {
	if pos := slices.Index(c.order, idx); pos >= 0 {
		c.cursor = pos
	}
}

func (c *Controller) currentPhotoIndexLocked() int {
	if len(c.order) == 0 {
		return -1
	}
	return c.order[c.cursor]
}

// Arm starts autoplay, replacing any pending tick.
func (c *Controller) Arm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playing = true
	c.rearmLocked()
}

// Stop cancels autoplay and any running swap.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playing = false
	c.cancelTimerLocked()
	if c.phase != PhaseNone {
		c.cancelTransitionLocked()
		c.notifyLocked()
	}
}

func (c *Controller) cancelTimerLocked() {
	c.timerGen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// rearmLocked cancels the current tick and, while playing, schedules a new
// one. A tick from an older arming is ignored even if its Stop lost the race.
func (c *Controller) rearmLocked() {
	c.cancelTimerLocked()
	if !c.playing || len(c.photos) == 0 {
		return
	}

	interval := time.Duration(c.settings.SlideInterval) * time.Millisecond
	if interval <= 0 {
		interval = time.Duration(store.DefaultSettings().SlideInterval) * time.Millisecond
		slog.Warn("non-positive slide interval, using default", "slide_interval", c.settings.SlideInterval, "default", interval)
	}

	gen := c.timerGen
	c.timer = c.clock.AfterFunc(interval, func() { c.tick(gen) })
}

func (c *Controller) tick(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.timerGen || !c.playing {
		return
	}

	c.rearmLocked()
	if err := c.advanceLocked(Next, true, false); err != nil {
		slog.Debug("skipping autoplay tick", "error", err)
	}
}

// ApplySettings swaps in new settings. A play mode change rebuilds the order
// while keeping the current photo on screen; interval and mode changes re-arm
// autoplay.
func (c *Controller) ApplySettings(s store.Settings) {
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.settings
	c.settings = s

	if old.PlayMode != s.PlayMode && len(c.photos) > 0 {
		current := c.currentPhotoIndexLocked()
		c.order = identityOrder(len(c.photos))
		if s.PlayMode == store.PlayModeRandom {
			c.shuffleOrderLocked()
		}
		c.keepPhotoLocked(current)
	}
	if old.PlayMode != s.PlayMode || old.SlideInterval != s.SlideInterval {
		c.rearmLocked()
	}
	c.notifyLocked()
}

// Reshuffle randomizes the play order regardless of play mode, keeping the
// current photo on screen.
func (c *Controller) Reshuffle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.photos) == 0 {
		return
	}

	current := c.currentPhotoIndexLocked()
	c.shuffleOrderLocked()
	c.keepPhotoLocked(current)
	c.rearmLocked()
	c.notifyLocked()
}

// PlayFrom moves the show to the photo with the given id.
func (c *Controller) PlayFrom(photoID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := slices.IndexFunc(c.photos, func(p store.Photo) bool { return p.ID == photoID })
	if idx < 0 {
		return fmt.Errorf("%w: %d", ErrPhotoNotInShow, photoID)
	}

	c.cancelTransitionLocked()
	c.keepPhotoLocked(idx)
	c.rearmLocked()
	c.notifyLocked()
	return nil
}

// addPhotoLocked appends p with a freshly allocated id. Ids are never reused.
func (c *Controller) addPhotoLocked(p store.Photo) store.Photo {
	p.ID = c.nextID
	c.nextID++

	current := c.currentPhotoIndexLocked()
	c.photos = append(c.photos, p)
	c.order = append(c.order, len(c.photos)-1)
	if c.settings.PlayMode == store.PlayModeRandom {
		c.shuffleOrderLocked()
	}
	if current >= 0 {
		c.keepPhotoLocked(current)
	}

	c.rearmLocked()
	c.notifyLocked()
	return p
}

// PhotoClick returns the id of the photo on screen for the detail view.
func (c *Controller) PhotoClick() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.photos) == 0 {
		return 0, false
	}
	return c.photos[c.currentPhotoIndexLocked()].ID, true
}

// HandleKey maps arrow keys to immediate navigation that restarts the
// autoplay countdown. Keys typed into a text field are ignored.
func (c *Controller) HandleKey(key string, inTextEntry bool) bool {
	if inTextEntry {
		return false
	}
	var dir Direction
	switch key {
	case "ArrowLeft":
		dir = Prev
	case "ArrowRight":
		dir = Next
	default:
		return false
	}

	if err := c.Advance(dir, false, true); err != nil {
		slog.Warn("key navigation failed", "key", key, "error", err)
	}
	return true
}

// CurrentIndex is the cursor into the play order.
func (c *Controller) CurrentIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Controller) stateLocked() State {
	s := State{
		Index:          c.cursor,
		Count:          len(c.photos),
		Phase:          c.phase,
		AnimationClass: AnimationClass(c.settings.ThemeID, c.phase),
		Settings:       c.settings,
	}
	if len(c.photos) > 0 {
		p := c.photos[c.currentPhotoIndexLocked()]
		s.Photo = &p
	}
	return s
}

func (c *Controller) notifyLocked() {
	if c.observer != nil {
		c.observer(c.stateLocked())
	}
}
