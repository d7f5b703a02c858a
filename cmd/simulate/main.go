package main

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/urfave/cli.v2"

	"simproc/internal/machine"
	"simproc/internal/sim"
)

func main() {
	log.SetFlags(0)
	app := &cli.App{
		Name:  "simulate",
		Usage: "run a simulator program image",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "machine-code image to run",
				Required: true,
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "start in interactive debug mode",
			},
			&cli.StringFlag{
				Name:  "dump",
				Usage: "write a post-run memory image to this path",
			},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	m, err := machine.ReadImage(c.String("file"))
	if err != nil {
		return cli.Exit(err, 1)
	}

	logger := sim.NewLogger(os.Stdout)
	opts := sim.Options{
		Debug:  c.Bool("debug"),
		Logger: logger,
	}
	if opts.Debug {
		opts.Debugger = sim.NewDebugger(os.Stdin, os.Stdout)
	}

	runErr := sim.Run(m, opts)

	if dump := c.String("dump"); dump != "" {
		if err := machine.DumpMemory(dump, os.Stdout, m); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}

	if runErr != nil {
		return cli.Exit("", 1)
	}
	return nil
}
