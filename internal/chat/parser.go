package chat

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// Element names used by the remote messages.xml document. They are a contract
// with the server; override them with ElementNames when it changes.
const (
	DefaultRecordElement   = "message"
	DefaultUsernameElement = "username"
	DefaultTextElement     = "text"
	DefaultOriginElement   = "ip"
	DefaultPasswordElement = "password"
)

// ElementNames maps chat document element names to Message fields.
type ElementNames struct {
	Record   string
	Username string
	Text     string
	Origin   string
	Password string
}

// DefaultElementNames returns the element names served by the chat endpoint.
func DefaultElementNames() ElementNames {
	return ElementNames{
		Record:   DefaultRecordElement,
		Username: DefaultUsernameElement,
		Text:     DefaultTextElement,
		Origin:   DefaultOriginElement,
		Password: DefaultPasswordElement,
	}
}

func (n ElementNames) withDefaults() ElementNames {
	def := DefaultElementNames()
	if strings.TrimSpace(n.Record) == "" {
		n.Record = def.Record
	}
	if strings.TrimSpace(n.Username) == "" {
		n.Username = def.Username
	}
	if strings.TrimSpace(n.Text) == "" {
		n.Text = def.Text
	}
	if strings.TrimSpace(n.Origin) == "" {
		n.Origin = def.Origin
	}
	if strings.TrimSpace(n.Password) == "" {
		n.Password = def.Password
	}
	return n
}

func (n ElementNames) fieldFor(name string) field {
	switch name {
	case n.Username:
		return fieldUsername
	case n.Text:
		return fieldText
	case n.Origin:
		return fieldOrigin
	case n.Password:
		return fieldPassword
	default:
		return fieldNone
	}
}

type field int

const (
	fieldNone field = iota
	fieldUsername
	fieldText
	fieldOrigin
	fieldPassword
)

type parseState int

const (
	stateIdle parseState = iota
	stateInsideRecord
	stateInsideField
)

func (s parseState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateInsideRecord:
		return "insideRecord"
	case stateInsideField:
		return "insideField"
	default:
		return fmt.Sprintf("parseState(%d)", int(s))
	}
}

// recordBuilder is the accumulator threaded through the start/text/end
// handlers. A field that appears twice in one record keeps the later value.
type recordBuilder struct {
	names    ElementNames
	state    parseState
	field    field
	depth    int // elements opened inside the current field
	buf      strings.Builder
	current  Message
	messages []Message
}

func newRecordBuilder(names ElementNames) *recordBuilder {
	return &recordBuilder{names: names, messages: []Message{}}
}

func (b *recordBuilder) start(name string) {
	switch b.state {
	case stateIdle:
		if name == b.names.Record {
			b.current = Message{}
			b.state = stateInsideRecord
		}
	case stateInsideRecord:
		if f := b.names.fieldFor(name); f != fieldNone {
			b.field = f
			b.depth = 0
			b.buf.Reset()
			b.state = stateInsideField
		}
	case stateInsideField:
		// Markup nested in a field (e.g. <b> in a username) is not structure;
		// only its character data counts.
		b.depth++
	}
}

func (b *recordBuilder) text(data []byte) {
	if b.state == stateInsideField {
		b.buf.Write(data)
	}
}

func (b *recordBuilder) end(name string) {
	switch b.state {
	case stateInsideField:
		if b.depth > 0 {
			b.depth--
			return
		}
		b.assign(b.field, b.buf.String())
		b.buf.Reset()
		b.field = fieldNone
		b.state = stateInsideRecord
	case stateInsideRecord:
		if name == b.names.Record {
			b.messages = append(b.messages, b.current)
			b.current = Message{}
			b.state = stateIdle
		}
	}
}

func (b *recordBuilder) assign(f field, value string) {
	switch f {
	case fieldUsername:
		b.current.Username = value
	case fieldText:
		b.current.Text = value
	case fieldOrigin:
		b.current.OriginHash = value
	case fieldPassword:
		b.current.IsPrivate = parseFlag(value)
	}
}

func parseFlag(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

// Parser turns a chat markup document into messages in document order.
// Fields are matched by element name at any depth inside a record, so a field
// element nested in an unknown wrapper still sets that field, last write
// winning. A Parser holds no per-document state and is safe for concurrent use.
type Parser struct {
	names ElementNames
}

// NewParser returns a Parser for the given element names. Empty names fall
// back to the defaults.
func NewParser(names ElementNames) *Parser {
	return &Parser{names: names.withDefaults()}
}

// Names returns the element names the parser recognizes.
func (p *Parser) Names() ElementNames {
	return p.names
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parse reads the whole document from r and parses it.
//
// A *ParserInitializationError with an empty result means the document could
// not be opened. A *MalformedDocumentError stops the parse at the first
// syntax error and comes with the messages completed before it.
func (p *Parser) Parse(r io.Reader) ([]Message, error) {
	if r == nil {
		return []Message{}, &ParserInitializationError{Err: errors.New("nil input")}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return []Message{}, &ParserInitializationError{Err: fmt.Errorf("read input: %w", err)}
	}
	return p.ParseBytes(data)
}

// ParseBytes parses a complete in-memory document.
func (p *Parser) ParseBytes(data []byte) ([]Message, error) {
	trimmed := bytes.TrimSpace(bytes.TrimPrefix(data, utf8BOM))
	if len(trimmed) == 0 {
		return []Message{}, &ParserInitializationError{Err: errors.New("empty document")}
	}
	if trimmed[0] != '<' {
		return []Message{}, &ParserInitializationError{Err: errors.New("input is not a markup document")}
	}

	var charsetErr error
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = xml.HTMLEntity
	dec.CharsetReader = func(label string, input io.Reader) (io.Reader, error) {
		rd, err := charset.NewReaderLabel(label, input)
		if err != nil {
			charsetErr = err
		}
		return rd, err
	}

	b := newRecordBuilder(p.names)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if charsetErr != nil {
				return []Message{}, &ParserInitializationError{Err: fmt.Errorf("decode charset: %w", charsetErr)}
			}
			line, _ := dec.InputPos()
			return b.messages, &MalformedDocumentError{Line: line, Err: err}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			b.start(t.Name.Local)
		case xml.EndElement:
			b.end(t.Name.Local)
		case xml.CharData:
			b.text(t)
		}
	}
	return b.messages, nil
}
