package main

// Flag names for Viper binding
const (
	// Global flags
	FlagVerbose   = "verbose"
	FlagConfig    = "config"
	FlagLogFile   = "log-file"
	FlagStorage   = "backend"
	FlagStatsPath = "stats-path"

	// Play command flags
	FlagTUI       = "tui"
	FlagDisks     = "disks"
	FlagTheme     = "theme"
	FlagEphemeral = "ephemeral"

	// Events command flags
	FlagFollow = "follow"
	FlagCount  = "count"

	// Output format flags
	FlagJSON = "json"
)
