// Package api is the localhost transport between the browser extension and
// the daemon.
//
// The extension reports tab events over plain HTTP and keeps a WebSocket
// open on /api/v1/events. The daemon pushes notifications and banner
// requests over that socket; Hub implements monitor.Presenter for this.
package api
