package monitor

import "context"

// Notification is a desktop notification raised for a tab.
type Notification struct {
	TabID   int    `json:"tabId"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Presenter is the host capability surface the monitor pushes results to.
type Presenter interface {
	// Notify shows a user notification.
	Notify(ctx context.Context, n Notification) error

	// ShowWarning asks the page in tabID to display the warning banner for
	// the given navigation epoch. Implementations must tolerate repeated
	// requests for the same (tabID, epoch) without showing a second banner.
	ShowWarning(ctx context.Context, tabID int, epoch uint64) error
}

// TabCloser is implemented by presenters that keep per-tab state.
type TabCloser interface {
	TabClosed(tabID int)
}

type nopPresenter struct{}

func (nopPresenter) Notify(context.Context, Notification) error { return nil }

func (nopPresenter) ShowWarning(context.Context, int, uint64) error { return nil }
