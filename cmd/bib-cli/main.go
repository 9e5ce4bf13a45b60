package main

import (
	"os"

	"bibassist-backend/cmd/bib-cli/commands"
	"bibassist-backend/lib/serviceutil"
	"bibassist-backend/lib/telemetry"
)

func main() {
	// Ctrl+C cancels the command context, which stops a running search at
	// its next between-pages checkpoint
	ctx := serviceutil.SignalContext()

	err := telemetry.SetupFromEnv(ctx, "bib-cli")
	if err != nil && !os.IsNotExist(err) {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	telemetry.InstrumentPerfStats(ctx)
	telemetry.InitSlog(true)

	commands.ExecuteContext(ctx)
}
