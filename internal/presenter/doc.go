// Package presenter turns stored tab records into what the user sees.
//
// PopupFor renders the extension popup for a tab. BannerTracker remembers
// which (tab, navigation epoch) pairs already had the in-page warning
// banner requested, so that asking twice shows it once.
package presenter
