package cart

import (
	"math"

	"github.com/shopspring/decimal"
)

// Line is one row of the cart, keyed by product name.
type Line struct {
	Name     string
	Price    decimal.Decimal
	Image    string
	Quantity int
}

// Subtotal is price × quantity, unrounded.
func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Change describes the effect a mutation had on the store.
type Change int

const (
	ChangeNone Change = iota
	ChangeAdded
	ChangeQuantityUpdated
	ChangeAdjusted
	ChangeRemoved
	ChangeCleared
)

func (c Change) String() string {
	switch c {
	case ChangeAdded:
		return "added"
	case ChangeQuantityUpdated:
		return "quantity_updated"
	case ChangeAdjusted:
		return "adjusted"
	case ChangeRemoved:
		return "removed"
	case ChangeCleared:
		return "cleared"
	default:
		return "none"
	}
}

// Store holds the ordered cart lines. A name appears at most once and every
// quantity is at least 1. Store is not safe for concurrent use; callers serialize.
type Store struct {
	lines []Line
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) indexOf(name string) int {
	for i := range s.lines {
		if s.lines[i].Name == name {
			return i
		}
	}
	return -1
}

// Add increments an existing line by one, or appends a new line with quantity 1.
// Price and image are snapshotted on first add only.
func (s *Store) Add(name string, price decimal.Decimal, image string) Change {
	if idx := s.indexOf(name); idx >= 0 {
		s.lines[idx].Quantity++
		return ChangeQuantityUpdated
	}
	s.lines = append(s.lines, Line{
		Name:     name,
		Price:    price,
		Image:    image,
		Quantity: 1,
	})
	return ChangeAdded
}

// Remove deletes the line for name. Removing an absent name is a no-op.
func (s *Store) Remove(name string) Change {
	idx := s.indexOf(name)
	if idx < 0 {
		return ChangeNone
	}
	s.lines = append(s.lines[:idx], s.lines[idx+1:]...)
	return ChangeRemoved
}

// Adjust applies delta to the line's quantity. A result of zero or less removes the line;
// a positive delta saturates at math.MaxInt.
func (s *Store) Adjust(name string, delta int) Change {
	idx := s.indexOf(name)
	if idx < 0 {
		return ChangeNone
	}
	current := s.lines[idx].Quantity
	next := current + delta
	if delta > 0 && next < current {
		next = math.MaxInt
	}
	if next <= 0 {
		return s.Remove(name)
	}
	s.lines[idx].Quantity = next
	return ChangeAdjusted
}

func (s *Store) Clear() Change {
	if len(s.lines) == 0 {
		return ChangeNone
	}
	s.lines = nil
	return ChangeCleared
}

func (s *Store) Len() int {
	return len(s.lines)
}

func (s *Store) IsEmpty() bool {
	return len(s.lines) == 0
}

// Lines returns a snapshot in insertion order.
func (s *Store) Lines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *Store) TotalItemCount() int {
	total := 0
	for _, l := range s.lines {
		total += l.Quantity
	}
	return total
}

func (s *Store) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}
