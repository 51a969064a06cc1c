// Package config provides configuration structures and utilities for phishguard.
// It defines where the classifier lives, how the daemon listens for the
// browser extension, which domains are trusted and the word lists used by
// the feature extractor.
package config
