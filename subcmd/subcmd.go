// Package subcmd wraps flag.FlagSet with the usage text of an artists
// subcommand.
package subcmd

import (
	"flag"
	"fmt"
)

func New(name, doc string) *Subcommand {
	sc := &Subcommand{
		FlagSet: flag.NewFlagSet(name, flag.ContinueOnError),
	}
	sc.FlagSet.Usage = func() {
		out := sc.FlagSet.Output()
		argSuffix := ""
		if sc.arg != nil {
			argSuffix = fmt.Sprintf(" <%s>", sc.arg.name)
		}
		fmt.Fprintf(out, "\n%s\n\n", doc)
		fmt.Fprintf(out, "  artists %s [flags]%s\n\n", name, argSuffix)
		fmt.Fprintf(out, "flags:\n")
		sc.FlagSet.PrintDefaults()
		if sc.arg != nil {
			fmt.Fprintf(out, "  <%s> %s\n", sc.arg.name, sc.arg.typename)
			fmt.Fprintf(out, "  \t%s\n", sc.arg.usage)
		}
	}
	return sc
}

type Subcommand struct {
	*flag.FlagSet
	arg *arg
}

type arg struct {
	name     string
	typename string
	usage    string
}

// SetArg documents the positional arguments following the flags.
func (sc *Subcommand) SetArg(name, typname, usage string) *Subcommand {
	sc.arg = &arg{name, typname, usage}
	return sc
}

// Provided reports whether the flag called name was set on the command line.
func (sc *Subcommand) Provided(name string) bool {
	found := false
	sc.FlagSet.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
