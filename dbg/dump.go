package dbg

import (
	"fmt"
	"io"
)

// dumpBytes writes a hexdump with ascii gutter, eliding runs of all-zero
// rows the way the memory views want.
func dumpBytes(out io.Writer, source []byte, offset int) {
	eliding := false

	for base := 0; base < len(source); base += 16 {
		end := base + 16
		if end > len(source) {
			end = len(source)
		}
		row := source[base:end]

		if allZero(row) {
			if !eliding {
				fmt.Fprintln(out, "*")
				eliding = true
			}
			continue
		}
		eliding = false

		fmt.Fprintf(out, "%04x:   ", base+offset)

		for i, x := range row {
			sep := " "
			switch {
			case i+1 == len(row):
				sep = ""
			case (i+1)%4 == 0:
				sep = "  "
			}
			fmt.Fprintf(out, "%02x%s", x, sep)
		}

		pad := 16 - len(row)
		for i := 0; i < pad*3+pad/4; i++ {
			fmt.Fprint(out, " ")
		}
		fmt.Fprint(out, "   ")

		for _, x := range row {
			if x >= 0x20 && x < 0x7f {
				fmt.Fprintf(out, "%c", x)
			} else {
				fmt.Fprint(out, ".")
			}
		}
		fmt.Fprintln(out)
	}
}

func allZero(row []byte) bool {
	for _, x := range row {
		if x != 0 {
			return false
		}
	}
	return true
}
