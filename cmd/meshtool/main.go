// Command meshtool compresses raw vertex and index buffers into a mesh
// stream, expands streams back into buffers, and prints stream contents.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/oy3o/meshcodec/internal/config"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type command struct {
	name    string
	summary string
	run     func(args []string, stdout io.Writer) error
}

var commands = []command{
	{"encode", "compress raw attribute and index buffers", runEncode},
	{"decode", "expand a stream into one .bin per attribute plus indices.bin", runDecode},
	{"info", "print stream header, attributes and optionally values", runInfo},
}

func run(args []string, stdout io.Writer) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printUsage(stdout)
		return nil
	}
	for _, c := range commands {
		if c.name == args[0] {
			return c.run(args[1:], stdout)
		}
	}
	printUsage(os.Stderr)
	return fmt.Errorf("unknown command %q", args[0])
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: meshtool <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", c.name, c.summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'meshtool <command> --help' for command flags.")
}

// session is the shared state every command sets up from its flags.
type session struct {
	flags   *pflag.FlagSet
	options config.Flags
	cfg     *config.Config
	log     *zap.Logger
}

func newSession(name string) *session {
	s := &session{flags: pflag.NewFlagSet(name, pflag.ContinueOnError)}
	s.options.AddFlags(s.flags)
	return s
}

// parse parses args and loads the configuration. It reports false when
// help was requested.
func (s *session) parse(args []string, stdout io.Writer) (bool, error) {
	s.flags.SetOutput(stdout)
	if err := s.flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return false, nil
		}
		return false, err
	}
	cfg, err := s.options.Load()
	if err != nil {
		return false, err
	}
	s.cfg = cfg
	s.log = cfg.Logger()
	return true, nil
}

func (s *session) close() {
	if s.log != nil {
		_ = s.log.Sync()
	}
}
