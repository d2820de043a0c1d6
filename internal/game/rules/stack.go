package rules

import "errors"

// ErrStackEmpty is returned by Pop on an empty stack.
var ErrStackEmpty = errors.New("stack empty")

// StackItemKind describes the type of object on the stack.
type StackItemKind string

const (
	// StackItemKindSpell represents a spell cast by a player.
	StackItemKindSpell StackItemKind = "SPELL"
	// StackItemKindAbility represents an activated ability.
	StackItemKindAbility StackItemKind = "ABILITY"
)

// StackItem is a single object awaiting resolution. Resolve is a closure built
// when the item is pushed; it captures everything the effect needs at that
// moment, so an ability still resolves from last known information after its
// source leaves the battlefield.
type StackItem struct {
	ID           string
	Kind         StackItemKind
	ControllerID string
	CardID       string
	SourceID     string
	Description  string
	Targets      []string
	Resolve      func() error
}

// Stack is the LIFO zone holding spells and abilities. The aggregate that owns
// it is single-threaded by contract, so the stack does no locking of its own.
type Stack struct {
	items []StackItem
}

// NewStack returns an empty stack.
func NewStack() *Stack {
	return &Stack{items: make([]StackItem, 0, 8)}
}

// Push adds an item to the top of the stack.
func (s *Stack) Push(item StackItem) {
	s.items = append(s.items, item)
}

// Pop removes and returns the top item.
func (s *Stack) Pop() (StackItem, error) {
	if len(s.items) == 0 {
		return StackItem{}, ErrStackEmpty
	}
	idx := len(s.items) - 1
	item := s.items[idx]
	s.items = s.items[:idx]
	return item, nil
}

// Peek returns the top item without removing it.
func (s *Stack) Peek() (StackItem, bool) {
	if len(s.items) == 0 {
		return StackItem{}, false
	}
	return s.items[len(s.items)-1], true
}

// Items returns a copy of all stack items, bottom first.
func (s *Stack) Items() []StackItem {
	cpy := make([]StackItem, len(s.items))
	copy(cpy, s.items)
	return cpy
}

// Len returns the number of items on the stack.
func (s *Stack) Len() int {
	return len(s.items)
}

// IsEmpty reports whether the stack holds no items.
func (s *Stack) IsEmpty() bool {
	return len(s.items) == 0
}
