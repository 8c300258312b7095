// Package dfnfile reads and writes DFN region files and renders region
// overviews.
//
// A DFN file is a sequence of blocks:
//
//	[REGION 1]
//	{
//	NAME=Britain
//	GUARDED=1
//	X1=100
//	Y1=200
//	X2=300
//	Y2=400
//	}
//
// Keys are case-insensitive. Each X1,Y1,X2,Y2 quad adds one rectangle.
// Blocks with a non-zero WORLD are not part of this map and are dropped.
package dfnfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ha1tch/atlas-toolkit/pkg/region"
)

// blockPrefix opens a new block. Anything after it on the line is ignored.
const blockPrefix = "[REGION"

// maxLineSize bounds a single line; DFN lines are short but files may carry
// long free-text tags.
const maxLineSize = 1024 * 1024

// FormatError reports a coordinate value that is not an integer.
// It aborts the whole parse.
type FormatError struct {
	Line  int
	Key   string
	Value string
	Err   error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("line %d: invalid %s value %q: %v", e.Line, e.Key, e.Value, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Dropped records a block excluded by the WORLD filter.
type Dropped struct {
	Line  int    // line of the block's [REGION header
	World int    // the block's WORLD value
	Name  string // the block's NAME, if any
}

// Result is the outcome of a successful parse.
type Result struct {
	Regions []*region.Region // accepted blocks, in file order
	Dropped []Dropped        // blocks excluded by the WORLD filter
	Blocks  int              // number of [REGION headers seen
}

// block is the parser state for the currently open block.
type block struct {
	line     int
	region   *region.Region
	world    int
	hasWorld bool

	x1, y1, x2 int
}

// accepted reports whether the block passes the WORLD filter.
func (b *block) accepted() bool {
	return !b.hasWorld || b.world == 0
}

// Parse reads DFN text and returns the regions of world 0.
// A coordinate that is not an integer fails the whole parse with a
// *FormatError; no partial result is returned.
func Parse(r io.Reader) (*Result, error) {
	res := &Result{Regions: make([]*region.Region, 0)}
	var cur *block

	closeBlock := func() {
		if cur == nil {
			return
		}
		if cur.accepted() {
			res.Regions = append(res.Regions, cur.region)
		} else {
			name, _ := cur.region.Tag("NAME")
			res.Dropped = append(res.Dropped, Dropped{Line: cur.line, World: cur.world, Name: name})
		}
		cur = nil
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, blockPrefix) {
			closeBlock()
			res.Blocks++
			cur = &block{line: lineNo, region: region.New("")}
			continue
		}

		if cur == nil || strings.Count(line, "=") != 1 {
			continue
		}

		eq := strings.IndexByte(line, '=')
		key := strings.ToUpper(strings.TrimSpace(line[:eq]))
		value := strings.TrimSpace(line[eq+1:])

		switch key {
		case "NAME":
			cur.region.Name = value
			cur.region.SetTag(key, value)
		case "X1", "Y1", "X2", "Y2":
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, &FormatError{Line: lineNo, Key: key, Value: value, Err: err}
			}
			switch key {
			case "X1":
				cur.x1 = n
			case "Y1":
				cur.y1 = n
			case "X2":
				cur.x2 = n
			case "Y2":
				cur.region.AddRect(region.NewRect(cur.x1, cur.y1, cur.x2, n))
			}
		case "WORLD":
			if n, err := strconv.Atoi(value); err == nil {
				cur.world = n
				cur.hasWorld = true
			}
			cur.region.SetTag(key, value)
		default:
			cur.region.SetTag(key, value)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("line %d: %w", lineNo+1, err)
	}
	closeBlock()

	return res, nil
}

// ParseString parses DFN text held in a string.
func ParseString(text string) (*Result, error) {
	return Parse(strings.NewReader(text))
}

// ReadFile parses the DFN file at path.
func ReadFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	defer f.Close()

	res, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return res, nil
}
