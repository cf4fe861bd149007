package ast

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Dialect identifies the SQL flavor a Visitor renders.
type Dialect string

const (
	PostgreSQL Dialect = "postgresql"
	MySQL      Dialect = "mysql"
	SQLite     Dialect = "sqlite"
)

var (
	// ErrNoRenderer is returned when a node reaches a Visitor that has no rule
	// registered for its type.
	ErrNoRenderer = errors.New("no renderer for node type")

	// ErrUnsupportedLiteral is returned for literal values the dialect cannot
	// quote.
	ErrUnsupportedLiteral = errors.New("unsupported literal type")
)

// RenderFunc writes the SQL for a single node. Children are rendered through
// Collector.Visit so they dispatch through the same rule table.
type RenderFunc func(collector *Collector, node Node) error

// Visitor maps node types to render rules for one dialect. Rules are meant to
// be registered once at startup; after that a Visitor may be shared by any
// number of goroutines calling Render.
type Visitor struct {
	dialect Dialect
	lock    sync.RWMutex
	rules   map[string]RenderFunc
}

// NewVisitor creates a Visitor with the rules for every generic node in this
// package.
func NewVisitor(dialect Dialect) *Visitor {
	visitor := &Visitor{
		dialect: dialect,
		rules:   make(map[string]RenderFunc, len(baseRules)),
	}

	for nodeType, render := range baseRules {
		visitor.rules[nodeType] = render
	}

	return visitor
}

func (s *Visitor) Dialect() Dialect {
	return s.dialect
}

// Register installs or replaces the rule for nodeType.
func (s *Visitor) Register(nodeType string, render RenderFunc) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.rules[nodeType] = render
}

// Registered reports whether a rule exists for nodeType.
func (s *Visitor) Registered(nodeType string) bool {
	_, found := s.lookup(nodeType)
	return found
}

func (s *Visitor) lookup(nodeType string) (RenderFunc, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	render, found := s.rules[nodeType]
	return render, found
}

// Render converts node to SQL text.
func (s *Visitor) Render(node Node) (string, error) {
	collector := &Collector{
		visitor: s,
	}

	if err := collector.Visit(node); err != nil {
		return "", err
	}

	return collector.builder.String(), nil
}

// Collector accumulates SQL text for a single Render call.
type Collector struct {
	visitor *Visitor
	builder strings.Builder
}

func (s *Collector) Dialect() Dialect {
	return s.visitor.dialect
}

func (s *Collector) Write(values ...string) {
	for _, value := range values {
		s.builder.WriteString(value)
	}
}

// Visit dispatches node to its registered rule.
func (s *Collector) Visit(node Node) error {
	if node == nil {
		return errors.New("cannot render a nil node")
	}

	render, found := s.visitor.lookup(node.NodeType())
	if !found {
		return fmt.Errorf("%w %q (%T) in dialect %s", ErrNoRenderer, node.NodeType(), node, s.visitor.dialect)
	}

	return render(s, node)
}

// QuoteIdentifier quotes a table, column or alias name for the dialect.
func (s *Collector) QuoteIdentifier(name string) string {
	quote := `"`

	if s.visitor.dialect == MySQL {
		quote = "`"
	}

	return quote + strings.ReplaceAll(name, quote, quote+quote) + quote
}
