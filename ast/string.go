package ast

import (
	"fmt"
	"strings"
)

const (
	treeLevelEmpty   = "        "
	treeLevelOngoing = "  |     "
	treeLevelPrefix  = "  |--: "
	treeLevelLast    = `  \--: `
)

// String returns a prettified, indented representation of the tree,
// suitable for diffing two trees line by line in a test failure message.
func (a *Ast) String() string {
	return nodeLeveledStr(a.Root, "", "")
}

// nodeLeveledStr renders just n and its descendants.
func nodeLeveledStr(n Node, firstPrefix, contPrefix string) string {
	var sb strings.Builder
	sb.WriteString(firstPrefix)
	sb.WriteString(label(n))

	children := childrenOf(n)
	for i, c := range children {
		sb.WriteRune('\n')
		var nextFirst, nextCont string
		if i+1 < len(children) {
			nextFirst = contPrefix + treeLevelPrefix
			nextCont = contPrefix + treeLevelOngoing
		} else {
			nextFirst = contPrefix + treeLevelLast
			nextCont = contPrefix + treeLevelEmpty
		}
		sb.WriteString(nodeLeveledStr(c, nextFirst, nextCont))
	}
	return sb.String()
}

func label(n Node) string {
	switch v := n.(type) {
	case Terminal:
		return fmt.Sprintf("(TERM %q)", v.Value)
	case Sequence:
		return "( SEQ )"
	case Alternation:
		return "( ALT )"
	case Repetition:
		return "( REP )"
	case Rule:
		return fmt.Sprintf("( RULE %s )", v.Name)
	}
	return "( ? )"
}

func childrenOf(n Node) []Node {
	switch v := n.(type) {
	case Sequence:
		return v.Nodes
	case Alternation:
		return v.Nodes
	case Repetition:
		return v.Nodes
	case Rule:
		return []Node{v.Node}
	}
	return nil
}
