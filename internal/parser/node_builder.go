package parser

import (
	"github.com/klauskaan/cal-langserver/internal/ast"
	"github.com/klauskaan/cal-langserver/internal/lexer"
)

// NodeBuilder captures a node's start token and stamps its end token once
// parsing the node completes, so individual parse functions never have to
// thread EndTok assignments through every return path by hand.
type NodeBuilder struct {
	p     *Parser
	start lexer.Token
}

// StartNode begins tracking a new node at the cursor's current token.
func (p *Parser) StartNode() *NodeBuilder {
	return &NodeBuilder{p: p, start: p.cursor.Current()}
}

// Finish stamps node's start/end tokens from the builder's start and the
// parser's last-consumed token, then returns node for chaining.
func (nb *NodeBuilder) Finish(node ast.Ranged) ast.Ranged {
	node.SetStart(nb.start)
	node.SetEnd(nb.p.lastConsumed)
	return node
}

// FinishAt stamps node's end token from an explicit token rather than the
// parser's last-consumed token (used when the end token was saved earlier).
func (nb *NodeBuilder) FinishAt(node ast.Ranged, end lexer.Token) ast.Ranged {
	node.SetStart(nb.start)
	node.SetEnd(end)
	return node
}

// StartToken returns the token that was current when StartNode was called.
func (nb *NodeBuilder) StartToken() lexer.Token { return nb.start }
