// Package session hosts many concurrent Klondike games. A Registry maps
// opaque ids to active sessions; each session serializes the actions applied
// to its game and fans every successful one out to its watchers.
package session
