package datastructure

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/lintang-b-s/gridnav/pkg/util"
)

const (
	FREE_CHAR   = '.'
	WALL_CHAR   = '#'
	START_CHAR  = 'S'
	TARGET_CHAR = 'T'
	PATH_CHAR   = '*'
)

// GridLayout is a grid together with the optional start/target markers found in a layout file.
type GridLayout struct {
	Grid   *Grid
	Start  *Position
	Target *Position
}

func fields(s string) []string {
	return strings.Fields(s)
}

// ParseGrid reads "<rows> <cols>" followed by rows lines of '.', '#', 'S', 'T'.
func ParseGrid(r io.Reader) (*GridLayout, error) {
	br := bufio.NewReader(r)

	line, err := util.ReadLine(br)
	if err != nil {
		return nil, fmt.Errorf("%w: missing header: %v", ErrMalformedGrid, err)
	}

	tokens := fields(line)
	if len(tokens) != 2 {
		return nil, fmt.Errorf("%w: header must be '<rows> <cols>', got %q", ErrMalformedGrid, line)
	}
	rows, err := strconv.Atoi(tokens[0])
	if err != nil {
		return nil, fmt.Errorf("%w: rows: %v", ErrMalformedGrid, err)
	}
	cols, err := strconv.Atoi(tokens[1])
	if err != nil {
		return nil, fmt.Errorf("%w: cols: %v", ErrMalformedGrid, err)
	}
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: header needs positive rows and cols, got %d %d", ErrMalformedGrid, rows, cols)
	}

	// the header is untrusted, grow as rows are actually read
	lines := make([]string, 0)
	for i := 0; i < rows; i++ {
		line, err = util.ReadLine(br)
		if err != nil {
			return nil, fmt.Errorf("%w: expected %d rows, read %d", ErrMalformedGrid, rows, i)
		}
		lines = append(lines, line)
	}

	layout, err := ParseGridLines(lines)
	if err != nil {
		return nil, err
	}
	if layout.Grid.NumberOfCols() != cols {
		return nil, fmt.Errorf("%w: header says %d cols, rows have %d", ErrMalformedGrid, cols, layout.Grid.NumberOfCols())
	}
	return layout, nil
}

// ParseGridLines builds a layout from equally long rows of '.', '#', 'S', 'T'. A '*' path mark reads as free.
func ParseGridLines(lines []string) (*GridLayout, error) {
	if len(lines) == 0 || len(lines[0]) == 0 {
		return nil, ErrEmptyGrid
	}
	cols := len(lines[0])
	for i, line := range lines {
		if len(line) != cols {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrMalformedGrid, i, len(line), cols)
		}
	}

	g, err := NewGrid(len(lines), cols)
	if err != nil {
		return nil, err
	}
	layout := &GridLayout{Grid: g}

	for i, line := range lines {
		for j := 0; j < cols; j++ {
			c := g.cellAt(i, j)
			switch line[j] {
			case FREE_CHAR, PATH_CHAR:
			case WALL_CHAR:
				c.SetWall(true)
			case START_CHAR:
				if layout.Start != nil {
					return nil, fmt.Errorf("%w: more than one start", ErrMalformedGrid)
				}
				p := NewPosition(i, j)
				layout.Start = &p
			case TARGET_CHAR:
				if layout.Target != nil {
					return nil, fmt.Errorf("%w: more than one target", ErrMalformedGrid)
				}
				p := NewPosition(i, j)
				layout.Target = &p
				c.SetTarget(true)
			default:
				return nil, fmt.Errorf("%w: unknown cell %q at (%d,%d)", ErrMalformedGrid, line[j], i, j)
			}
		}
	}
	return layout, nil
}

// Render draws the grid as text rows. overlay chars replace the base char of a cell; walls are '#'.
func (g *Grid) Render(overlay map[Index]byte) []string {
	lines := make([]string, g.rows)
	buf := make([]byte, g.cols)
	for i := 0; i < g.rows; i++ {
		for j := 0; j < g.cols; j++ {
			c := g.cellAt(i, j)
			ch := byte(FREE_CHAR)
			if c.IsWall() {
				ch = WALL_CHAR
			}
			if o, ok := overlay[c.id]; ok {
				ch = o
			}
			buf[j] = ch
		}
		lines[i] = string(buf)
	}
	return lines
}

func (l *GridLayout) markers() map[Index]byte {
	overlay := make(map[Index]byte, 2)
	if l.Start != nil {
		if c, err := l.Grid.GetCellAt(*l.Start); err == nil {
			overlay[c.id] = START_CHAR
		}
	}
	if l.Target != nil {
		if c, err := l.Grid.GetCellAt(*l.Target); err == nil {
			overlay[c.id] = TARGET_CHAR
		}
	}
	return overlay
}

func (l *GridLayout) Lines() []string {
	return l.Grid.Render(l.markers())
}

func (l *GridLayout) Write(w io.Writer) error {
	return writeLines(w, l.Grid.NumberOfRows(), l.Grid.NumberOfCols(), l.Lines())
}

func writeLines(w io.Writer, rows, cols int, lines []string) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d\n", rows, cols)
	for _, line := range lines {
		fmt.Fprintf(bw, "%s\n", line)
	}
	return bw.Flush()
}

func isCompressed(filename string) bool {
	return strings.HasSuffix(filename, ".bz2")
}

// ReadGridFile reads a layout file, bzip2 compressed when the name ends in .bz2.
func ReadGridFile(filename string) (*GridLayout, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if !isCompressed(filename) {
		return ParseGrid(f)
	}

	bz, err := bzip2.NewReader(f, nil)
	if err != nil {
		return nil, err
	}
	defer bz.Close()

	return ParseGrid(bz)
}

func writeFile(filename string, write func(w io.Writer) error) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	if !isCompressed(filename) {
		return write(f)
	}

	bz, err := bzip2.NewWriter(f, &bzip2.WriterConfig{})
	if err != nil {
		return err
	}
	if err := write(bz); err != nil {
		bz.Close()
		return err
	}
	return bz.Close()
}

func WriteGridFile(filename string, layout *GridLayout) error {
	return writeFile(filename, layout.Write)
}

// WriteRenderedGridFile writes already rendered rows, e.g. with the path drawn in, under a grid header.
func WriteRenderedGridFile(filename string, lines []string) error {
	if len(lines) == 0 {
		return ErrEmptyGrid
	}
	return writeFile(filename, func(w io.Writer) error {
		return writeLines(w, len(lines), len(lines[0]), lines)
	})
}
