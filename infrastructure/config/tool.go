package config

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/kaspanet/parcelsdk/version"
)

// ToolFlags holds the flags shared by every command line tool.
type ToolFlags struct {
	ShowVersion bool `short:"V" long:"version" description:"Display version information and exit"`
	NetworkFlags
	LogFlags
}

// Resolve finishes the configuration of appName once parser has parsed the
// command line: it prints the version and exits when asked to, selects the
// network and starts logging.
func (toolFlags *ToolFlags) Resolve(appName string, parser *flags.Parser) error {
	// Show the version and exit if the version flag was specified.
	if toolFlags.ShowVersion {
		fmt.Println(appName, "version", version.Version())
		os.Exit(0)
	}

	err := toolFlags.ResolveNetwork(parser)
	if err != nil {
		return err
	}
	return toolFlags.InitLog(appName)
}
