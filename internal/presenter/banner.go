package presenter

import "sync"

// BannerTracker records banner requests per tab.
//
// The zero value is ready to use.
type BannerTracker struct {
	mu    sync.Mutex
	shown map[int]uint64
}

// NewBannerTracker returns an empty tracker.
func NewBannerTracker() *BannerTracker {
	return &BannerTracker{shown: make(map[int]uint64)}
}

// EnsurePresented reports whether the banner for (tabID, epoch) still has
// to be shown, and marks it shown. Later calls with the same pair, or with
// an older epoch, return false.
func (b *BannerTracker) EnsurePresented(tabID int, epoch uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.shown == nil {
		b.shown = make(map[int]uint64)
	}
	if last, ok := b.shown[tabID]; ok && epoch <= last {
		return false
	}
	b.shown[tabID] = epoch
	return true
}

// Revoke undoes EnsurePresented for (tabID, epoch) when the banner could
// not be delivered, so a retry for the same epoch is allowed.
func (b *BannerTracker) Revoke(tabID int, epoch uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if last, ok := b.shown[tabID]; ok && last == epoch {
		delete(b.shown, tabID)
	}
}

// Clear forgets the tab. Call it when the tab closes.
func (b *BannerTracker) Clear(tabID int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.shown, tabID)
}

// Len returns the number of tabs with a banner on record.
func (b *BannerTracker) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.shown)
}
