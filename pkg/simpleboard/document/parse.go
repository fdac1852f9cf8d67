package document

import (
	"strings"

	"golang.org/x/net/html"
)

// Parse converts a stored markup string into a Document. Parsing is
// tolerant by construction: the html package repairs missing close tags,
// unknown tags degrade to their text content, and empty input yields an
// empty document. Parse never fails for well-formed Unicode text.
//
// Fidelity is only guaranteed for markup this package's serializer
// produced; arbitrary external markup is normalized into the subset the
// model can represent.
func Parse(markup string) *Document {
	d := New()
	if strings.TrimSpace(markup) == "" {
		return d
	}

	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		// html.Parse only fails on reader errors, which a strings.Reader
		// never produces. Degrade to a single plain-text paragraph.
		return d.InsertParagraph(0, markup)
	}

	body := findBody(root)
	if body == nil {
		return d
	}

	p := &parser{doc: d}
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		p.block(c)
	}
	return p.doc
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

type parser struct {
	doc *Document
}

var headingLevels = map[string]int{
	"h1": 1, "h2": 2, "h3": 3, "h4": 4, "h5": 5, "h6": 6,
}

// block converts one block-level HTML node, appending any resulting blocks
// to the document root list.
func (p *parser) block(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if strings.TrimSpace(n.Data) == "" {
			return
		}
		p.appendBlock(Node{Kind: KindParagraph}, p.inlineChildrenOf(nil, n))
	case html.ElementNode:
		switch {
		case n.Data == "p":
			p.appendBlock(Node{Kind: KindParagraph}, p.inlineChildren(n))
		case headingLevels[n.Data] != 0:
			p.appendBlock(Node{Kind: KindHeading, Level: headingLevels[n.Data]}, p.inlineChildren(n))
		case n.Data == "ul":
			p.appendBlock(Node{Kind: KindBulletList}, p.listItems(n))
		case n.Data == "ol":
			p.appendBlock(Node{Kind: KindNumberList}, p.listItems(n))
		case containsBlock(n):
			// Unknown container with block children: flatten it and keep
			// converting the blocks inside.
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				p.block(c)
			}
		default:
			// Unknown leaf-ish element: degrade to its inline content in a
			// paragraph.
			children := p.inlineChildren(n)
			if len(children) > 0 {
				p.appendBlock(Node{Kind: KindParagraph}, children)
			}
		}
	}
}

func (p *parser) appendBlock(n Node, children []int) {
	n.Children = children
	idx := p.doc.add(n)
	p.doc.roots = append(p.doc.roots, idx)
}

var blockTags = map[string]bool{
	"p": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true,
	"h6": true, "ul": true, "ol": true, "li": true, "div": true,
	"section": true, "article": true, "blockquote": true, "table": true,
}

func containsBlock(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && blockTags[c.Data] {
			return true
		}
	}
	return false
}

func (p *parser) listItems(n *html.Node) []int {
	var items []int
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "li" {
			items = append(items, p.listItem(c))
			continue
		}
		// Anything else inside a list body degrades to an item.
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) == "" {
			continue
		}
		children := p.inlineChildrenOf(nil, c)
		if len(children) > 0 {
			items = append(items, p.doc.add(Node{Kind: KindListItem, Children: children}))
		}
	}
	return items
}

// listItem converts an li element, whose children can mix inline runs with
// nested lists.
func (p *parser) listItem(n *html.Node) int {
	var children []int
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "ul" || c.Data == "ol") {
			kind := KindBulletList
			if c.Data == "ol" {
				kind = KindNumberList
			}
			children = append(children, p.doc.add(Node{Kind: kind, Children: p.listItems(c)}))
			continue
		}
		children = p.inline(c, 0, children)
	}
	return p.doc.add(Node{Kind: KindListItem, Children: children})
}

func (p *parser) inlineChildren(n *html.Node) []int {
	var out []int
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = p.inline(c, 0, out)
	}
	return out
}

func (p *parser) inlineChildrenOf(out []int, nodes ...*html.Node) []int {
	for _, n := range nodes {
		out = p.inline(n, 0, out)
	}
	return out
}

var styleTags = map[string]Style{
	"strong": StyleBold,
	"b":      StyleBold,
	"em":     StyleItalic,
	"i":      StyleItalic,
	"u":      StyleUnderline,
	"code":   StyleCode,
}

// inline converts one inline HTML node under the given accumulated style,
// appending run indices to out. Adjacent text runs with identical style are
// merged so parsing is canonical.
func (p *parser) inline(n *html.Node, style Style, out []int) []int {
	switch n.Type {
	case html.TextNode:
		return p.appendText(out, n.Data, style)
	case html.ElementNode:
		if s, ok := styleTags[n.Data]; ok {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				out = p.inline(c, style|s, out)
			}
			return out
		}
		switch n.Data {
		case "a":
			var runs []int
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				runs = p.inline(c, style, runs)
			}
			return append(out, p.doc.add(Node{Kind: KindLink, Href: attr(n, "href"), Children: runs}))
		case "img":
			return append(out, p.doc.add(Node{Kind: KindImage, Src: attr(n, "src"), Alt: attr(n, "alt")}))
		case "br":
			return p.appendText(out, "\n", style)
		default:
			// Unknown inline tag: drop the tag, keep the content.
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				out = p.inline(c, style, out)
			}
			return out
		}
	}
	return out
}

func (p *parser) appendText(out []int, text string, style Style) []int {
	if text == "" {
		return out
	}
	if len(out) > 0 {
		last := out[len(out)-1]
		if p.doc.nodes[last].Kind == KindText && p.doc.nodes[last].Style == style {
			p.doc.nodes[last].Text += text
			return out
		}
	}
	return append(out, p.doc.add(Node{Kind: KindText, Text: text, Style: style}))
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
