package state

import (
	"fmt"
	"strconv"
	"strings"

	parsestrconv "github.com/tdewolff/parse/v2/strconv"
)

// Path is an ordered point sequence for one continuous pointer trace. The
// first point is the moveto, every following point a lineto.
type Path []Point

// MalformedPathError is returned when path text cannot be decoded.
type MalformedPathError struct {
	Input  string
	Offset int
	Reason string
}

func (e *MalformedPathError) Error() string {
	return fmt.Sprintf("malformed path at offset %d: %s", e.Offset, e.Reason)
}

// String encodes p as "M x y L x y ...". An empty path encodes to "".
func (p Path) String() string {
	if len(p) == 0 {
		return ""
	}
	var sb strings.Builder
	buf := make([]byte, 0, 32)
	for i, pt := range p {
		if i == 0 {
			sb.WriteString("M ")
		} else {
			sb.WriteString(" L ")
		}
		buf = strconv.AppendFloat(buf[:0], pt.X, 'g', -1, 64)
		sb.Write(buf)
		sb.WriteByte(' ')
		buf = strconv.AppendFloat(buf[:0], pt.Y, 'g', -1, 64)
		sb.Write(buf)
	}
	return sb.String()
}

// Bounds returns the smallest rectangle containing every point of p.
func (p Path) Bounds() Rect {
	return boundsOf(p)
}

// Clone returns a copy that shares no memory with p.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// ParsePath decodes the text form produced by Path.String. It accepts exactly
// one leading M command followed by any number of L commands, each with two
// coordinates separated by whitespace or commas.
func ParsePath(s string) (Path, error) {
	b := []byte(s)
	i := skipSeparators(b, 0)
	if i == len(b) {
		return nil, &MalformedPathError{Input: s, Offset: i, Reason: "empty path"}
	}
	if b[i] != 'M' {
		return nil, &MalformedPathError{Input: s, Offset: i, Reason: "path must start with M"}
	}

	var p Path
	for i < len(b) {
		cmd := b[i]
		switch {
		case cmd == 'M' && len(p) > 0:
			return nil, &MalformedPathError{Input: s, Offset: i, Reason: "only one M command is allowed"}
		case cmd != 'M' && cmd != 'L':
			return nil, &MalformedPathError{Input: s, Offset: i, Reason: fmt.Sprintf("unknown command %q", cmd)}
		}
		i++

		var coords [2]float64
		for j := range coords {
			i = skipSeparators(b, i)
			v, n, err := scanNumber(b[i:])
			if err != nil {
				return nil, &MalformedPathError{Input: s, Offset: i, Reason: fmt.Sprintf("command %c needs two coordinates: %v", cmd, err)}
			}
			coords[j] = v
			i += n
		}
		p = append(p, Point{X: coords[0], Y: coords[1]})
		i = skipSeparators(b, i)
	}
	return p, nil
}

// scanNumber finds the extent of the number at the start of b and converts
// it exactly, so ParsePath(p.String()) reproduces every coordinate.
func scanNumber(b []byte) (float64, int, error) {
	_, n := parsestrconv.ParseFloat(b)
	if n == 0 {
		if len(b) == 0 {
			return 0, 0, fmt.Errorf("unexpected end of input")
		}
		return 0, 0, fmt.Errorf("unexpected %q", b[0])
	}
	v, err := strconv.ParseFloat(string(b[:n]), 64)
	if err != nil {
		return 0, 0, err
	}
	return v, n, nil
}

func skipSeparators(b []byte, i int) int {
	for i < len(b) && (b[i] == ' ' || b[i] == ',' || b[i] == '\n' || b[i] == '\r' || b[i] == '\t') {
		i++
	}
	return i
}
