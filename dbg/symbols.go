package dbg

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadSymbols reads a linker symbol file: one `<token> <hexaddr> .<symbol>`
// line per symbol. Lines that don't parse are skipped; assemblers pad these
// files with all sorts of bookkeeping.
func (d *Debugger) LoadSymbols(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("load symbols: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		words := strings.Fields(scanner.Text())
		if len(words) < 3 {
			continue
		}
		addr, err := strconv.ParseUint(words[1], 16, 16)
		if err != nil {
			continue
		}
		sym := strings.TrimPrefix(words[2], ".")
		d.sym2addr[sym] = uint16(addr)
		d.addr2sym[uint16(addr)] = sym
	}
	return scanner.Err()
}
