// Package klondike implements the rules of single-deck Klondike solitaire.
//
// The main type is Game, which owns the draw pile, the waste, the four
// foundations and the seven tableaus of one deal. All mutation goes through
// Game.Apply, which either commits a legal move in full or leaves the game
// exactly as it was.
//
// # Basic Usage
//
//	g := klondike.New(randutil.New(42))
//	outcome := g.Apply(klondike.Draw())
//	if outcome.Failed() {
//	    fmt.Println(outcome.Reason)
//	}
//	snap := g.Snapshot()
//
// # Deterministic Testing
//
// New takes a cards.Source, so a fixed-seed generator always produces the
// same deal:
//
//	g := klondike.New(randutil.New(7))
//
// # Tables
//
// Table is the capability shared by a game hosted in this process
// (LocalTable) and a proxy to a game hosted by a server
// (client.RemoteTable). Front ends are written against Table and pick the
// variant once at construction.
package klondike
