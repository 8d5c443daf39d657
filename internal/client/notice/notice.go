// Package notice keeps the banners shown above the prompt. Transient banners
// expire on their own; persistent ones stay until dismissed.
package notice

import (
	"sort"
	"time"

	"github.com/patrickmn/go-cache"
)

// Kind distinguishes success and error banners.
type Kind int

const (
	KindSuccess Kind = iota
	KindError
)

// Slots used by the client. A new banner in a slot replaces the old one.
const (
	SlotUpload = "upload"
	SlotRoster = "roster"
	SlotChat   = "chat"
)

type Banner struct {
	Slot       string
	Kind       Kind
	Text       string
	Persistent bool
}

// Board stores banners with per-kind lifetimes.
type Board struct {
	items      *cache.Cache
	successTTL time.Duration
	errorTTL   time.Duration
}

func NewBoard(successTTL, errorTTL time.Duration) *Board {
	return &Board{
		items:      cache.New(cache.NoExpiration, time.Second),
		successTTL: successTTL,
		errorTTL:   errorTTL,
	}
}

// Success shows a banner that expires after the success lifetime.
func (b *Board) Success(slot, text string) {
	b.items.Set(slot, Banner{Slot: slot, Kind: KindSuccess, Text: text}, b.successTTL)
}

// Error shows a banner that expires after the error lifetime.
func (b *Board) Error(slot, text string) {
	b.items.Set(slot, Banner{Slot: slot, Kind: KindError, Text: text}, b.errorTTL)
}

// Persist shows an error banner that stays until Dismiss.
func (b *Board) Persist(slot, text string) {
	b.items.Set(slot, Banner{Slot: slot, Kind: KindError, Text: text, Persistent: true}, cache.NoExpiration)
}

func (b *Board) Dismiss(slot string) {
	b.items.Delete(slot)
}

// Get returns the live banner in slot.
func (b *Board) Get(slot string) (Banner, bool) {
	v, ok := b.items.Get(slot)
	if !ok {
		return Banner{}, false
	}
	return v.(Banner), true
}

// Active returns the live banners ordered by slot.
func (b *Board) Active() []Banner {
	items := b.items.Items()
	out := make([]Banner, 0, len(items))
	for _, it := range items {
		out = append(out, it.Object.(Banner))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out
}
