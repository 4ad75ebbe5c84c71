// Command coreboy is a CLI front end for the core: it loads a ROM and
// either drives it headlessly for a fixed number of frames or opens an
// interactive terminal view.
//
package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/adtennant/gameboy"
	"github.com/adtennant/gameboy/cmd/coreboy/terminalview"
	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "coreboy"
	app.Usage = "coreboy [options] <ROM file>"
	app.Description = "An 8-bit handheld console emulator core"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "headless",
			Usage: "run without a terminal view",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "number of frames to run in headless mode",
			Value: 60,
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("coreboy exited with an error", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.NArg() == 0 {
		cli.ShowAppHelp(c)
		return errors.New("no ROM path provided")
	}
	romPath := c.Args().Get(0)

	rom, err := os.ReadFile(romPath)
	if err != nil {
		return err
	}

	handle := gameboy.Create(nil)
	title, err := handle.LoadROM(rom)
	if err != nil {
		return err
	}
	slog.Info("loaded cartridge", "title", title)

	if c.Bool("headless") {
		frames := c.Int("frames")
		for i := 0; i < frames; i++ {
			if err := handle.RunFrame(); err != nil {
				return err
			}
		}
		slog.Info("headless run completed", "frames", frames)
		return nil
	}

	view, err := terminalview.New(handle)
	if err != nil {
		return err
	}
	return view.Run()
}
