package cli

var (
	Version   = ""
	CommitSHA = ""
)

// Globals defines global flags available to all commands.
type Globals struct {
	Config    string `help:"Path to the YAML config file." type:"existingfile" optional:""`
	Verbose   bool   `help:"Enable verbose logging." short:"v"`
	Telemetry bool   `help:"Show timing telemetry for operations."`
}

type Commands struct {
	Globals

	Report ReportCmd `cmd:"" help:"Generate the period-end trial balance and tax report."`
	Check  CheckCmd  `cmd:"" help:"Parse a statement, run the books and verify they tally."`
	Rates  RatesCmd  `cmd:"" help:"Print one month's exchange-rate table."`
	Watch  WatchCmd  `cmd:"" help:"Watch a statement file and regenerate the report on change."`
}
