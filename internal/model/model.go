// Package model holds the semantic data model shared by every stage of the
// pipeline after parsing: function names, the four-variant expression tree,
// and function signatures (SPEC_FULL.md §3).
package model

import "fmt"

// FuncName is a distinguished identifier used as a map key throughout the
// pipeline. It compares by string value; Less below fixes a single, forward
// alphabetical ordering for every place the spec requires a deterministic
// sort (SPEC_FULL.md §4.E), rather than the original prototype's reversed
// ordering plus prepend-while-writing trick that nets out to the same order.
type FuncName string

func Less(a, b FuncName) bool { return a < b }

// Expression is a tagged variant: Constant, FunctionArgument, FunctionCall,
// or SubExpression (SPEC_FULL.md §3). Modelled as a closed interface with a
// private marker method, in the style of the teacher's ast.Node/Expression
// hierarchy, rather than a single struct with an enum discriminant.
type Expression interface {
	isExpression()
	String() string
}

// Constant is an integer literal; its value is carried as text because the
// core never evaluates it, only hashes and displays it.
type Constant struct {
	Value string
}

func (Constant) isExpression()    {}
func (c Constant) String() string { return c.Value }

// FunctionArgument references an argument of the enclosing function by name.
type FunctionArgument struct {
	Name string
}

func (FunctionArgument) isExpression()    {}
func (a FunctionArgument) String() string { return a.Name }

// FunctionCall is a saturated call: Name's arity (known from the signature
// table) determined how many Args were consumed while parsing.
type FunctionCall struct {
	Name string
	Args []Expression
}

func (FunctionCall) isExpression() {}
func (c FunctionCall) String() string {
	s := c.Name
	for _, a := range c.Args {
		s += " " + a.String()
	}
	return s
}

// SubExpression is a sequence whose value is its last element's value; used
// to compose side effects positionally.
type SubExpression struct {
	Elements []Expression
}

func (SubExpression) isExpression() {}
func (s SubExpression) String() string {
	out := "("
	for i, e := range s.Elements {
		if i > 0 {
			out += " "
		}
		out += e.String()
	}
	return out + ")"
}

// Function is a fully resolved morphism declaration.
type Function struct {
	Name FuncName
	Args []string // order significant, names unique
	Body Expression
}

// Signature is a Function without a body: shared, immutable once built.
// Per SPEC_FULL.md §9 "Per-function shared signatures" it is cloned freely
// rather than reference-counted.
type Signature struct {
	Name FuncName
	Args []string
}

func (f *Function) Signature() Signature {
	return Signature{Name: f.Name, Args: append([]string(nil), f.Args...)}
}

func (s Signature) Arity() int { return len(s.Args) }

// ArgPosition returns the zero-based position of name in s.Args, or -1.
func (s Signature) ArgPosition(name string) int {
	for i, a := range s.Args {
		if a == name {
			return i
		}
	}
	return -1
}

func (s Signature) String() string {
	str := string(s.Name)
	for _, a := range s.Args {
		str += " " + a
	}
	return str
}

func (s Signature) GoString() string {
	return fmt.Sprintf("Signature(%s)", s.String())
}
