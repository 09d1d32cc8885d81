// Package cache is the durable local copy of each player's state.
//
// The controller saves its whole snapshot after every mutation, before any
// remote write, so a restart always resumes from the last local state even
// when the hosted store rejected the change.
package cache
