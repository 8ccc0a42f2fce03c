// Package resolve implements the identity-resolution pass (spec.md §4.3):
// every Variable's source name is rewritten to the decimal text of a
// 32-bit fingerprint, derived from the variable's name and its enclosing
// scope path. Because the fingerprint is a pure function of (name, scope),
// every occurrence of the same variable converges on the same identifier
// without a symbol table, mirroring the original compiler's
// hash_variables/variable_hasher pass (original_source/compiler/src/compiler/parser.rs).
package resolve

import (
	"fmt"
	"hash/fnv"
	"strconv"

	"github.com/an0nymoos3/nid-compiler/internal/compiler/ast"
)

// Resolve rewrites every Variable.Identifier in prog in place.
func Resolve(prog *ast.Program) error {
	for i, n := range prog.Body {
		switch node := n.(type) {
		case *ast.Function:
			for _, p := range node.Params {
				if err := resolveNode(p, node.Identifier); err != nil {
					return err
				}
			}
		case *ast.Block:
			scope := ""
			if i > 0 {
				if fn, ok := prog.Body[i-1].(*ast.Function); ok {
					scope = fn.Identifier
				}
			}
			if err := resolveNode(node, scope); err != nil {
				return err
			}
		default:
			if err := resolveNode(n, ""); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolveNode walks node, rewriting every Variable it reaches. scope is
// the enclosing function's identifier; blocks do not add a new scope
// segment (spec.md §4.3).
func resolveNode(n ast.Node, scope string) error {
	if n == nil {
		return nil
	}

	switch node := n.(type) {
	case *ast.Block:
		for _, c := range node.Body {
			if err := resolveNode(c, scope); err != nil {
				return err
			}
		}

	case *ast.Assignment:
		if err := resolveNode(node.Target, scope); err != nil {
			return err
		}
		return resolveNode(node.Expression, scope)

	case *ast.BinaryExpression:
		if err := resolveNode(node.Left, scope); err != nil {
			return err
		}
		return resolveNode(node.Right, scope)

	case *ast.Condition:
		if node.Left != nil {
			if err := resolveNode(node.Left, scope); err != nil {
				return err
			}
		}
		return resolveNode(node.Right, scope)

	case *ast.Branch:
		if err := resolveNode(node.Condition, scope); err != nil {
			return err
		}
		if err := resolveNode(node.TrueBody, scope); err != nil {
			return err
		}
		if node.FalseBody != nil {
			return resolveNode(node.FalseBody, scope)
		}
		return nil

	case *ast.Loop:
		if err := resolveNode(node.Condition, scope); err != nil {
			return err
		}
		return resolveNode(node.Body, scope)

	case *ast.Return:
		if node.Value != nil {
			return resolveNode(node.Value, scope)
		}
		return nil

	case *ast.Builtin:
		for _, p := range node.Params {
			if err := resolveNode(p, scope); err != nil {
				return err
			}
		}

	case *ast.Variable:
		node.Identifier = fingerprint(node.Identifier, scope)

	case *ast.Function:
		inner := node.Identifier
		if scope != "" {
			inner = scope + "::" + node.Identifier
		}
		for _, p := range node.Params {
			if err := resolveNode(p, inner); err != nil {
				return err
			}
		}

	case *ast.Value, *ast.Type, *ast.Asm, *ast.Macro:
		// no variables to resolve

	default:
		return fmt.Errorf("resolve: unhandled node kind %T", n)
	}

	return nil
}

// fingerprint computes truncate64→32(hash(name) ⊕ hash(scope)) and
// formats it as decimal text, the form codegen and the assembler treat
// addresses and register slots as carrying (spec.md §4.3).
func fingerprint(name, scope string) string {
	nameHash := fnv.New64a()
	nameHash.Write([]byte(name))

	scopeHash := fnv.New64a()
	scopeHash.Write([]byte(scope))

	id := uint32(nameHash.Sum64() ^ scopeHash.Sum64())
	return strconv.FormatUint(uint64(id), 10)
}
