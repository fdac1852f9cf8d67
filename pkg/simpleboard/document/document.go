// Package document models the rich-document format posts and content pages
// are authored in, and converts it to and from the serialized markup string
// the persistence API stores.
//
// A Document is an arena of nodes addressed by stable integer indices.
// Inline image nodes reference uploaded resources by plain URL string, never
// by pointer, so the node graph stays acyclic. Documents are immutable
// snapshots: every mutation returns a new Document and the conversion
// functions stay pure.
package document

import "strings"

// Kind identifies a node's role in the document tree.
type Kind int

const (
	KindParagraph Kind = iota
	KindHeading
	KindBulletList
	KindNumberList
	KindListItem
	KindText
	KindLink
	KindImage
)

// Style is a bit set of inline text styles.
type Style uint8

const (
	StyleBold Style = 1 << iota
	StyleItalic
	StyleUnderline
	StyleCode
)

// Node is one element of the document arena. Children holds arena indices;
// which fields are meaningful depends on Kind.
type Node struct {
	Kind     Kind
	Level    int    // heading level, 1-6
	Text     string // text runs
	Style    Style  // text runs
	Href     string // links
	Src      string // inline images: uploaded resource URL
	Alt      string // inline images
	Children []int
}

// Document is an immutable snapshot of a parsed or authored document.
// Block-level nodes are listed in roots, in display order.
type Document struct {
	nodes []Node
	roots []int
}

// New returns an empty document.
func New() *Document {
	return &Document{}
}

// BlockCount returns the number of block-level nodes.
func (d *Document) BlockCount() int {
	return len(d.roots)
}

// Blocks returns the arena indices of the block-level nodes in order.
func (d *Document) Blocks() []int {
	out := make([]int, len(d.roots))
	copy(out, d.roots)
	return out
}

// Node returns the node at the given arena index.
func (d *Document) Node(i int) Node {
	return d.nodes[i]
}

// IsEmpty reports whether the document has no blocks.
func (d *Document) IsEmpty() bool {
	return len(d.roots) == 0
}

// PlainText returns the concatenated text content of the document, blocks
// separated by newlines.
func (d *Document) PlainText() string {
	var parts []string
	for _, r := range d.roots {
		parts = append(parts, d.textOf(r))
	}
	return strings.Join(parts, "\n")
}

func (d *Document) textOf(i int) string {
	n := d.nodes[i]
	if n.Kind == KindText {
		return n.Text
	}
	var b strings.Builder
	for _, c := range n.Children {
		b.WriteString(d.textOf(c))
	}
	return b.String()
}

// clone copies the arena so appends never touch a handed-out snapshot.
// Children slices are shared; they are never mutated after a node is added.
func (d *Document) clone() *Document {
	nd := &Document{
		nodes: make([]Node, len(d.nodes), len(d.nodes)+4),
		roots: make([]int, len(d.roots), len(d.roots)+1),
	}
	copy(nd.nodes, d.nodes)
	copy(nd.roots, d.roots)
	return nd
}

func (d *Document) add(n Node) int {
	d.nodes = append(d.nodes, n)
	return len(d.nodes) - 1
}

func (d *Document) insertRoot(pos, idx int) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(d.roots) {
		pos = len(d.roots)
	}
	d.roots = append(d.roots, 0)
	copy(d.roots[pos+1:], d.roots[pos:])
	d.roots[pos] = idx
}

// InsertParagraph returns a new snapshot with a text paragraph inserted at
// block position pos (clamped to the valid range).
func (d *Document) InsertParagraph(pos int, text string) *Document {
	nd := d.clone()
	var children []int
	if text != "" {
		children = []int{nd.add(Node{Kind: KindText, Text: text})}
	}
	p := nd.add(Node{Kind: KindParagraph, Children: children})
	nd.insertRoot(pos, p)
	return nd
}

// InsertHeading returns a new snapshot with a heading inserted at block
// position pos. Levels outside 1-6 are clamped.
func (d *Document) InsertHeading(pos, level int, text string) *Document {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	nd := d.clone()
	var children []int
	if text != "" {
		children = []int{nd.add(Node{Kind: KindText, Text: text})}
	}
	h := nd.add(Node{Kind: KindHeading, Level: level, Children: children})
	nd.insertRoot(pos, h)
	return nd
}

// InsertImage returns a new snapshot with an image block inserted at block
// position pos. The image node stores the uploaded resource URL as an
// opaque string.
func (d *Document) InsertImage(pos int, src, alt string) *Document {
	nd := d.clone()
	img := nd.add(Node{Kind: KindImage, Src: src, Alt: alt})
	p := nd.add(Node{Kind: KindParagraph, Children: []int{img}})
	nd.insertRoot(pos, p)
	return nd
}

// RemoveBlock returns a new snapshot with the block at position pos removed.
// Out-of-range positions return the document unchanged. The removed node
// stays in the arena; only the root list changes.
func (d *Document) RemoveBlock(pos int) *Document {
	if pos < 0 || pos >= len(d.roots) {
		return d
	}
	nd := d.clone()
	nd.roots = append(nd.roots[:pos], nd.roots[pos+1:]...)
	return nd
}
