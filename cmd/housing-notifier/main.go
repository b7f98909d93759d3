package main

import (
	"housing-notifier/cmd/housing-notifier/commands"
	"housing-notifier/lib/serviceutil"
)

func main() {
	ctx, cancel := serviceutil.SignalContext()
	defer cancel()
	commands.ExecuteContext(ctx)
}
