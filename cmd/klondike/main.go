package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command
type Globals struct {
	LogLevel string `help:"Log level (debug, info, warn, error)"`
	LogJSON  bool   `name:"log-json" help:"Write logs as JSON"`
}

type CLI struct {
	Globals

	Version kong.VersionFlag `short:"v" help:"Show version"`
	Server  ServerCmd        `cmd:"" help:"Run the game server"`
	Play    PlayCmd          `cmd:"" help:"Play a game in the terminal"`
	Watch   WatchCmd         `cmd:"" help:"Follow a game hosted on a server"`
	Games   GamesCmd         `cmd:"" help:"List the games hosted on a server"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("klondike"),
		kong.Description("Klondike solitaire engine, server and terminal client"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
