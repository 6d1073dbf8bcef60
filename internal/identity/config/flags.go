package config

import (
	"flag"
	"io"
	"slices"

	"github.com/rswauth/authcore/internal/flagx"
)

var valueFlags = []string{"-d", "-p", "-x", "-r", "-e", "-k", "-m", "-b", "-f", "-l"}

// Flags lists every configuration flag, including the JSON file flags.
// Commands strip these before reading their own arguments.
var Flags = slices.Concat(valueFlags, flagx.ConfigFileFlags)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-d string   PostgreSQL DSN
//	-p string   password pattern
//	-x int      password expiry, days
//	-r int      password recycle span
//	-e string   password encoder (bcrypt, argon2id)
//	-k int      bcrypt cost
//	-m string   role mode (groups, authorities)
//	-b string   log backend (slog, zap)
//	-f string   log format (json, text)
//	-l string   log level
//
// Only the flags above are taken from args, so unrelated arguments such as
// a subcommand and its operands are ignored.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, valueFlags)

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.PasswordPattern, "p", config.PasswordPattern, "password pattern")
	fs.IntVar(&config.PasswordExpiryDays, "x", config.PasswordExpiryDays, "password expiry (in days)")
	fs.IntVar(&config.PasswordRecycleSpan, "r", config.PasswordRecycleSpan, "password recycle span")
	fs.StringVar(&config.PasswordEncoder, "e", config.PasswordEncoder, "password encoder")
	fs.IntVar(&config.BCryptCost, "k", config.BCryptCost, "bcrypt cost")
	fs.StringVar(&config.RoleMode, "m", config.RoleMode, "role mode")
	fs.StringVar(&config.LogBackend, "b", config.LogBackend, "log backend")
	fs.StringVar(&config.LogFormat, "f", config.LogFormat, "log format")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	return fs.Parse(args)
}
