package config

import (
	"fmt"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

// NodeKind discriminates the three shapes a files-tree node can take.
type NodeKind int

const (
	// NodeFragment references a single fragment file by path.
	NodeFragment NodeKind = iota
	// NodeSeq is an ordered list of nodes sharing one target level.
	NodeSeq
	// NodeNested maps explicit integer levels to sub-trees.
	NodeNested
)

// FileNode is one node of the recursive files tree declared in targets.yaml.
// A node is exactly one of: a fragment path, an ordered list of nodes, or a
// mapping from title level to node.
type FileNode struct {
	kind     NodeKind
	fragment string
	seq      []FileNode
	nested   map[int]FileNode
}

// FragmentNode builds a fragment-reference node.
func FragmentNode(path string) FileNode {
	return FileNode{kind: NodeFragment, fragment: path}
}

// SeqNode builds an ordered-list node.
func SeqNode(children ...FileNode) FileNode {
	return FileNode{kind: NodeSeq, seq: children}
}

// NestedNode builds a level-keyed mapping node.
func NestedNode(children map[int]FileNode) FileNode {
	return FileNode{kind: NodeNested, nested: children}
}

// Kind returns the node's shape.
func (n FileNode) Kind() NodeKind { return n.kind }

// Fragment returns the referenced fragment path (valid for NodeFragment).
func (n FileNode) Fragment() string { return n.fragment }

// Seq returns the ordered children (valid for NodeSeq).
func (n FileNode) Seq() []FileNode { return n.seq }

// Nested returns the level-keyed children (valid for NodeNested).
func (n FileNode) Nested() map[int]FileNode { return n.nested }

// Levels returns the nested node's levels in ascending order.
func (n FileNode) Levels() []int {
	levels := make([]int, 0, len(n.nested))
	for l := range n.nested {
		levels = append(levels, l)
	}
	sort.Ints(levels)
	return levels
}

// UnmarshalYAML decodes the three permitted node shapes. Anything else is a
// configuration error naming the offending entry.
func (n *FileNode) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("files entry at line %d: scalar %q is not a file path", value.Line, value.Value)
		}
		n.kind = NodeFragment
		n.fragment = value.Value
		return nil

	case yaml.SequenceNode:
		var children []FileNode
		if err := value.Decode(&children); err != nil {
			return err
		}
		n.kind = NodeSeq
		n.seq = children
		return nil

	case yaml.MappingNode:
		nested := make(map[int]FileNode, len(value.Content)/2)
		for i := 0; i+1 < len(value.Content); i += 2 {
			keyNode, valNode := value.Content[i], value.Content[i+1]
			level, err := strconv.Atoi(keyNode.Value)
			if err != nil {
				return fmt.Errorf("files entry at line %d: map key %q is not an integer title level", keyNode.Line, keyNode.Value)
			}
			if level < 0 {
				return fmt.Errorf("files entry at line %d: title level %d is negative", keyNode.Line, level)
			}
			var child FileNode
			if err := valNode.Decode(&child); err != nil {
				return err
			}
			nested[level] = child
		}
		n.kind = NodeNested
		n.nested = nested
		return nil
	}

	return fmt.Errorf("files entry at line %d is not a file path, list or level map", value.Line)
}
