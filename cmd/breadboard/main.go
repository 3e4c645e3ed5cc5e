// Command breadboard emulates the 65C02 single-board computer and drops
// into the debugger REPL. The positional board selection mirrors the two
// system variants: the full breadboard (default) and the CPU functional
// test harness.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"breadboard/dbg"
	"breadboard/sys"
)

var (
	flagTrace   bool
	flagROM     string
	flagSymbols string
	flagEntry   string
)

func main() {
	root := &cobra.Command{
		Use:   "breadboard",
		Short: "cycle-stepped 65C02 breadboard computer emulator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBreadboard()
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVar(&flagTrace, "trace", false, "log bus and device traffic")
	root.Flags().StringVar(&flagROM, "rom", "rom.bin", "ROM image")
	root.Flags().StringVar(&flagSymbols, "symbols", "", "symbol file for breakpoints and disassembly")

	cputest := &cobra.Command{
		Use:   "cputest <image>",
		Short: "run a CPU functional test image on the RAM-only harness",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCPUTest(args[0])
		},
	}
	cputest.Flags().StringVar(&flagEntry, "entry", "0x0400", "entry address patched into the reset vector")
	root.AddCommand(cputest)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging() {
	if flagTrace {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}
}

func runBreadboard() error {
	setupLogging()

	board, err := sys.NewBreadboard(flagROM)
	if err != nil {
		return err
	}

	d := dbg.New(board)
	if flagSymbols != "" {
		if err := d.LoadSymbols(flagSymbols); err != nil {
			return err
		}
	}

	return d.REPL(os.Stdin, os.Stdout)
}

func runCPUTest(image string) error {
	setupLogging()

	entry, err := parseAddr(flagEntry)
	if err != nil {
		return fmt.Errorf("entry address: %w", err)
	}

	board, err := sys.NewCPUTest(image, entry)
	if err != nil {
		return err
	}

	return dbg.New(board).REPL(os.Stdin, os.Stdout)
}

func parseAddr(s string) (uint16, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "$")
	v, err := strconv.ParseUint(s, 16, 16)
	return uint16(v), err
}
