package main

import (
	"trackwrestling-backend/cmd/tw-cli/commands"
	"trackwrestling-backend/lib/util/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
