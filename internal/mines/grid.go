package mines

import (
	"fmt"
	"strconv"
	"strings"
)

// Cell is either [Mine] or the number of mines around it, 0 to 8.
type Cell int8

const Mine Cell = -1

func (c Cell) IsMine() bool {
	return c == Mine
}

type Symbol int8

const (
	Blank    Symbol = -2
	MineMark Symbol = -1
)

// Digit is an open square showing its surrounding mine count, 0 to 8.
func Digit(n int) Symbol {
	return Symbol(n)
}

func (s Symbol) String() string {
	switch {
	case s == Blank:
		return " "
	case s == MineMark:
		return "*"
	case 0 <= s && s <= 8:
		return strconv.Itoa(int(s))
	default:
		return "!"
	}
}

// [Symbol] implements [encoding.TextMarshaler]
func (s Symbol) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Symbol) UnmarshalText(text []byte) error {
	switch t := string(text); t {
	case " ":
		*s = Blank
	case "*":
		*s = MineMark
	default:
		n, err := strconv.Atoi(t)
		if err != nil || n < 0 || n > 8 {
			return fmt.Errorf("invalid symbol %q", t)
		}
		*s = Digit(n)
	}
	return nil
}

func symbolOf(c Cell) Symbol {
	if c.IsMine() {
		return MineMark
	}
	return Digit(int(c))
}

// VisibleGrid is what the player sees, indexed [row][col].
type VisibleGrid [][]Symbol

func (g VisibleGrid) String() string {
	var b strings.Builder
	for _, row := range g {
		for col, s := range row {
			if col > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(s.String())
		}
		b.WriteByte('\n')
	}
	return b.String()
}
