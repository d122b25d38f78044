// Command svt tracks small everyday savings and turns them into a habit.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/savetrack/cmd"
	"github.com/etnz/savetrack/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	commander.Register(commander.CommandsCommand(), "help")
	cmd.Register(commander)

	// Shell completion, when invoked by the shell through COMP_LINE.
	completion(commander).Complete("svt")

	flag.Parse()
	cmd.SetupLogging()

	if flag.NArg() > 0 && !registered(commander, flag.Arg(0)) {
		if found, code := cmd.RunExtension(flag.Arg(0), flag.Args()[1:]); found {
			os.Exit(code)
		}
	}
	os.Exit(int(commander.Execute(context.Background())))
}

func registered(commander *subcommands.Commander, name string) (found bool) {
	commander.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		found = found || c.Name() == name
	})
	return found
}

// completion describes the commands and their flags for the shell.
func completion(commander *subcommands.Commander) *complete.Command {
	root := &complete.Command{
		Sub: map[string]*complete.Command{},
		Flags: map[string]complete.Predictor{
			"data":    predict.Dirs("*"),
			"backend": predict.Set{"folder", "sqlite"},
			"v":       predict.Nothing,
		},
	}
	commander.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		sub := &complete.Command{Flags: map[string]complete.Predictor{}}
		fs.VisitAll(func(f *flag.Flag) {
			if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
				sub.Flags[f.Name] = predict.Nothing
				return
			}
			sub.Flags[f.Name] = predictFlag(c.Name(), f.Name)
		})
		if c.Name() == "topic" {
			sub.Args = topicNames()
		}
		root.Sub[c.Name()] = sub
	})
	return root
}

func topicNames() complete.Predictor {
	index, err := docs.Index()
	if err != nil {
		return predict.Nothing
	}
	names := predict.Set{docs.All}
	for _, t := range index {
		names = append(names, t.Name)
	}
	return names
}

func predictFlag(command, name string) complete.Predictor {
	switch {
	case name == "o" || command == "import":
		return predict.Files("*")
	case name == "f" && command == "export":
		return predict.Set{"json", "csv", "xlsx"}
	case name == "w":
		return predict.Set{"week", "month", "year"}
	case name == "p":
		return predict.Set{"daily", "weekly", "monthly", "yearly"}
	case name == "sort":
		return predict.Set{"date-desc", "date-asc", "amount-desc", "amount-asc"}
	case name == "d" || name == "s" || name == "end":
		return predict.Set{"today", "yesterday", "-1d", "-1w", "-1m"}
	default:
		return predict.Something
	}
}
