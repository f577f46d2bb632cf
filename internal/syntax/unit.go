package syntax

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_csharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"
)

// Unit is an immutable parsed view of a single C# source file: the syntax
// tree plus the source bytes it was produced from. Units are read-only once
// built; Close releases the tree-sitter allocations.
type Unit struct {
	Path   string
	Source []byte
	tree   *sitter.Tree
}

// Span is an exact source range in byte offsets, with the 1-based line and
// column of its start.
type Span struct {
	Start  int `json:"start"`
	End    int `json:"end"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

func csharpLanguage() *sitter.Language {
	return sitter.NewLanguage(tree_sitter_csharp.Language())
}

// Parse parses C# source into a Unit. A syntactically broken file still
// parses (tree-sitter produces error nodes); only a failure to run the
// parser at all is reported as an error.
func Parse(path string, source []byte) (*Unit, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(csharpLanguage()); err != nil {
		return nil, fmt.Errorf("failed to load C# grammar: %w", err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse %s", path)
	}

	return &Unit{Path: path, Source: source, tree: tree}, nil
}

func (u *Unit) Root() *sitter.Node {
	return u.tree.RootNode()
}

func (u *Unit) Close() {
	if u.tree != nil {
		u.tree.Close()
		u.tree = nil
	}
}

// Text returns the source text covered by node.
func (u *Unit) Text(node *sitter.Node) string {
	return string(u.Source[node.StartByte():node.EndByte()])
}

// SpanOf returns the exact source span of node.
func (u *Unit) SpanOf(node *sitter.Node) Span {
	point := node.StartPosition()
	return Span{
		Start:  int(node.StartByte()),
		End:    int(node.EndByte()),
		Line:   int(point.Row) + 1,
		Column: int(point.Column) + 1,
	}
}
