package main

import (
	"github.com/alecthomas/kong"

	"cellaret.dev/Cellaret/cmd"
)

func main() {
	ctx := kong.Parse(&cmd.CLI, kong.Name("Cellaret"), kong.Description("Cellaret is a wine cellar management tool."))
	err := ctx.Run(&cmd.Context{Debug: cmd.CLI.Debug})
	ctx.FatalIfErrorf(err)
}
