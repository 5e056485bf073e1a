package storageset

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kasanryukin/nesiadmud/engine/consts"
	"github.com/pkg/errors"
)

const (
	endMarker  = "~end"
	itemMarker = "item"
)

// ParseError is returned when encoded storage data is structurally malformed
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("storageset: line %d: %s", e.Line, e.Msg)
}

// Encode writes s to w in the line-oriented storage format
func Encode(w io.Writer, s *Set) error {
	bw := bufio.NewWriter(w)
	writeSetBody(bw, s)
	return errors.Wrap(bw.Flush(), "storageset: encode")
}

// Marshal encodes s into bytes
func Marshal(s *Set) []byte {
	var buf bytes.Buffer
	_ = Encode(&buf, s) // writes into bytes.Buffer never fail
	return buf.Bytes()
}

func writeSetBody(w *bufio.Writer, s *Set) {
	s.ForEach(func(key string, val Value) {
		w.WriteString(val.Kind().String())
		w.WriteByte(' ')
		w.WriteString(escape(key))
		w.WriteByte('\n')

		switch v := val.(type) {
		case *Set:
			writeSetBody(w, v)
		case *List:
			for _, item := range v.sets {
				w.WriteString(itemMarker)
				w.WriteByte('\n')
				writeSetBody(w, item)
			}
			w.WriteString(endMarker)
			w.WriteByte('\n')
		case String:
			w.WriteString(escape(string(v)))
			w.WriteByte('\n')
		case Int:
			w.WriteString(strconv.FormatInt(int64(v), 10))
			w.WriteByte('\n')
		case Double:
			w.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 64))
			w.WriteByte('\n')
		case Bool:
			w.WriteString(strconv.FormatBool(bool(v)))
			w.WriteByte('\n')
		}
	})
	w.WriteString(endMarker)
	w.WriteByte('\n')
}

// escape makes s safe to be written as a single line that never reads as a marker
func escape(s string) string {
	if !strings.ContainsAny(s, "\\\n\r") && !strings.HasPrefix(s, "~") {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\':
			sb.WriteString(`\\`)
		case c == '\n':
			sb.WriteString(`\n`)
		case c == '\r':
			sb.WriteString(`\r`)
		case c == '~' && i == 0:
			sb.WriteString(`\~`)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func unescape(s string) (string, bool) {
	if strings.IndexByte(s, '\\') < 0 {
		return s, true
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			return "", false
		}
		switch s[i] {
		case '\\':
			sb.WriteByte('\\')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case '~':
			sb.WriteByte('~')
		default:
			return "", false
		}
	}
	return sb.String(), true
}

type decoder struct {
	r    *bufio.Reader
	line int
}

// readLine returns the next line without its terminator. Lines have no length limit.
func (d *decoder) readLine() (string, bool, error) {
	line, err := d.r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", false, errors.Wrap(err, "storageset: decode")
	}
	if err == io.EOF && line == "" {
		return "", false, nil
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, true, nil
}

// Decode parses a Set from r.
//
// Empty input decodes to an empty Set. Structurally malformed input returns a *ParseError.
func Decode(r io.Reader) (*Set, error) {
	d := &decoder{r: bufio.NewReaderSize(r, consts.STORAGE_READ_BUFFSIZE)}

	first, ok, err := d.readLine()
	if err != nil {
		return nil, err
	}
	if !ok {
		return New(), nil
	}
	d.line = 1

	s, err := d.readSetBody(first)
	if err != nil {
		return nil, err
	}

	for {
		line, ok, err := d.readLine()
		if err != nil {
			s.Close()
			return nil, err
		}
		if !ok {
			return s, nil
		}
		d.line++
		if strings.TrimSpace(line) != "" {
			s.Close()
			return nil, d.errorf("unexpected data after final %s", endMarker)
		}
	}
}

// Unmarshal parses a Set from data
func Unmarshal(data []byte) (*Set, error) {
	return Decode(bytes.NewReader(data))
}

func (d *decoder) errorf(format string, args ...interface{}) error {
	return &ParseError{Line: d.line, Msg: fmt.Sprintf(format, args...)}
}

func (d *decoder) next() (string, error) {
	line, ok, err := d.readLine()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", d.errorf("unexpected end of input")
	}
	d.line++
	return line, nil
}

// readSetBody parses set entries starting at the already read line first
func (d *decoder) readSetBody(first string) (*Set, error) {
	s := New()
	line := first
	for {
		if line == endMarker {
			return s, nil
		}
		if err := d.readEntry(s, line); err != nil {
			s.Close()
			return nil, err
		}

		var err error
		if line, err = d.next(); err != nil {
			s.Close()
			return nil, err
		}
	}
}

func (d *decoder) readEntry(s *Set, header string) error {
	kindName, rawKey, ok := strings.Cut(header, " ")
	if !ok {
		return d.errorf("malformed entry header %q", header)
	}
	kind, ok := parseValueKind(kindName)
	if !ok {
		return d.errorf("unknown value type %q", kindName)
	}
	key, ok := unescape(rawKey)
	if !ok || key == "" {
		return d.errorf("invalid key %q", rawKey)
	}

	switch kind {
	case KindSet:
		first, err := d.next()
		if err != nil {
			return err
		}
		nested, err := d.readSetBody(first)
		if err != nil {
			return err
		}
		s.Store(key, nested)
		return nil
	case KindList:
		list, err := d.readList()
		if err != nil {
			return err
		}
		s.Store(key, list)
		return nil
	}

	raw, err := d.next()
	if err != nil {
		return err
	}
	switch kind {
	case KindString:
		v, ok := unescape(raw)
		if !ok {
			return d.errorf("invalid escape in value of %s", key)
		}
		s.StoreString(key, v)
	case KindInt:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return d.errorf("invalid int value %q for %s", raw, key)
		}
		s.StoreInt(key, v)
	case KindDouble:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return d.errorf("invalid double value %q for %s", raw, key)
		}
		s.StoreDouble(key, v)
	case KindBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return d.errorf("invalid bool value %q for %s", raw, key)
		}
		s.StoreBool(key, v)
	}
	return nil
}

func (d *decoder) readList() (*List, error) {
	list := NewList()
	for {
		line, err := d.next()
		if err != nil {
			list.Close()
			return nil, err
		}
		if line == endMarker {
			return list, nil
		}
		if line != itemMarker {
			list.Close()
			return nil, d.errorf("expected %s or %s in list, got %q", itemMarker, endMarker, line)
		}

		first, err := d.next()
		if err != nil {
			list.Close()
			return nil, err
		}
		item, err := d.readSetBody(first)
		if err != nil {
			list.Close()
			return nil, err
		}
		list.Add(item)
	}
}
