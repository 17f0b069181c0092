// Package ast holds the canonical abstract tree IR: a direct encoding of
// the source program as atomic commands plus nested loop sub-trees.
package ast

import "github.com/tapehead/bf"

// Node is one element of a Program: either an atomic command (never Begin
// or End) or a Loop wrapping a nested sequence.
type Node struct {
	// Cmd is meaningful when Body is nil.
	Cmd bf.Command
	// Delta carries the wrapping 8-bit value for Cmd == bf.Add.
	Delta int8
	// Body is non-nil for a loop node; Cmd is then ignored.
	Body Program
}

// Program is a sequence of Nodes, typically the whole parsed source or one
// loop's body.
type Program []Node

// IsLoop reports whether n is a Loop node.
func (n Node) IsLoop() bool {
	return n.Body != nil
}

// Loop builds a loop node wrapping body.
func Loop(body Program) Node {
	return Node{Body: body}
}

// Atom builds a non-Add atomic node (Left, Right, In, Out).
func Atom(cmd bf.Command) Node {
	return Node{Cmd: cmd}
}

// AddNode builds an Add(delta) node.
func AddNode(delta int8) Node {
	return Node{Cmd: bf.Add, Delta: delta}
}
