// ABOUTME: CLI flag parsing using stdlib flag package
// ABOUTME: Supports --timeout, --protocol, --log-level, --log-file, --version

package main

import "flag"

type cliArgs struct {
	timeoutMS int
	protocol  string
	logLevel  string
	logFile   string
	version   bool
}

func parseFlags() cliArgs {
	var args cliArgs

	flag.IntVar(&args.timeoutMS, "timeout", 0, "Probe timeout in milliseconds (0 waits indefinitely)")
	flag.StringVar(&args.protocol, "protocol", "", "Force image protocol (kitty, iterm2, halfblock)")
	flag.StringVar(&args.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&args.logFile, "log-file", "", "Write logs to file instead of stderr")
	flag.BoolVar(&args.version, "version", false, "Show version and exit")

	flag.Parse()
	return args
}

// remaining returns the non-flag command-line arguments.
func (a cliArgs) remaining() []string {
	return flag.Args()
}
