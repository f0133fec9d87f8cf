package alethe

import (
	"fmt"
	"strings"
)

// SortKind enumerates the shapes a Sort can take. A sort is not interned:
// it is a small, cheaply-copied value computed on demand by the pool and
// cached on the Term it describes (see Pool.SortOf).
type SortKind uint8

const (
	SortBool SortKind = iota
	SortInt
	SortReal
	SortString
	SortAtom    // a named uninterpreted sort
	SortFun     // function sort: Args -> Result
	SortArray   // array sort: Index -> Elem
	SortBitVec  // bit-vector sort of fixed Width
)

// Sort is the semantic type of a term. Two sorts are equal iff structurally
// equal (§3): same kind, same name/width, and recursively equal components.
type Sort struct {
	Kind SortKind

	Name string // SortAtom

	Args   []*Sort // SortFun: argument sorts
	Result *Sort   // SortFun: result sort

	Index *Sort // SortArray
	Elem  *Sort // SortArray

	Width int // SortBitVec
}

var (
	sortBoolV   = &Sort{Kind: SortBool}
	sortIntV    = &Sort{Kind: SortInt}
	sortRealV   = &Sort{Kind: SortReal}
	sortStringV = &Sort{Kind: SortString}
)

// BoolSort, IntSort, RealSort and StringSort return the shared singleton
// value for each primitive sort. Since Sort is never mutated after
// construction, it is safe to share a single instance for these.
func BoolSort() *Sort   { return sortBoolV }
func IntSort() *Sort    { return sortIntV }
func RealSort() *Sort   { return sortRealV }
func StringSort() *Sort { return sortStringV }

// AtomSort returns a named uninterpreted sort.
func AtomSort(name string) *Sort { return &Sort{Kind: SortAtom, Name: name} }

// FunSort returns the sort of a function from args to result.
func FunSort(args []*Sort, result *Sort) *Sort {
	return &Sort{Kind: SortFun, Args: args, Result: result}
}

// ArraySort returns the sort of an array indexed by index and holding elem.
func ArraySort(index, elem *Sort) *Sort {
	return &Sort{Kind: SortArray, Index: index, Elem: elem}
}

// BitVecSort returns the sort of a bit-vector of the given width.
func BitVecSort(width int) *Sort { return &Sort{Kind: SortBitVec, Width: width} }

// Equal reports whether two sorts are structurally identical.
func (s *Sort) Equal(o *Sort) bool {
	if s == o {
		return true
	}
	if s == nil || o == nil || s.Kind != o.Kind {
		return false
	}
	switch s.Kind {
	case SortBool, SortInt, SortReal, SortString:
		return true
	case SortAtom:
		return s.Name == o.Name
	case SortBitVec:
		return s.Width == o.Width
	case SortArray:
		return s.Index.Equal(o.Index) && s.Elem.Equal(o.Elem)
	case SortFun:
		if len(s.Args) != len(o.Args) || !s.Result.Equal(o.Result) {
			return false
		}
		for i := range s.Args {
			if !s.Args[i].Equal(o.Args[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// IsNumeric reports whether the sort admits the arithmetic operators.
func (s *Sort) IsNumeric() bool {
	return s.Kind == SortInt || s.Kind == SortReal
}

func (s *Sort) String() string {
	switch s.Kind {
	case SortBool:
		return "Bool"
	case SortInt:
		return "Int"
	case SortReal:
		return "Real"
	case SortString:
		return "String"
	case SortAtom:
		return s.Name
	case SortBitVec:
		return fmt.Sprintf("(_ BitVec %d)", s.Width)
	case SortArray:
		return fmt.Sprintf("(Array %s %s)", s.Index, s.Elem)
	case SortFun:
		parts := make([]string, len(s.Args))
		for i, a := range s.Args {
			parts[i] = a.String()
		}
		return fmt.Sprintf("(%s) %s", strings.Join(parts, " "), s.Result)
	default:
		return "<bad-sort>"
	}
}
