package document

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Serialize converts the document back into its canonical markup string.
// Serialization is deterministic: tags are emitted in a fixed nesting order
// and adjacent same-style runs are coalesced, so the same document always
// yields the identical string, and re-parsing the output re-serializes to
// the same string (round-trip stability).
func (d *Document) Serialize() string {
	var b strings.Builder
	for _, r := range d.roots {
		d.writeBlock(&b, r)
	}
	return b.String()
}

func (d *Document) writeBlock(b *strings.Builder, i int) {
	n := d.nodes[i]
	switch n.Kind {
	case KindParagraph:
		b.WriteString("<p>")
		d.writeInline(b, n.Children)
		b.WriteString("</p>")
	case KindHeading:
		fmt.Fprintf(b, "<h%d>", n.Level)
		d.writeInline(b, n.Children)
		fmt.Fprintf(b, "</h%d>", n.Level)
	case KindBulletList:
		b.WriteString("<ul>")
		for _, c := range n.Children {
			d.writeBlock(b, c)
		}
		b.WriteString("</ul>")
	case KindNumberList:
		b.WriteString("<ol>")
		for _, c := range n.Children {
			d.writeBlock(b, c)
		}
		b.WriteString("</ol>")
	case KindListItem:
		b.WriteString("<li>")
		for _, c := range n.Children {
			cn := d.nodes[c]
			if cn.Kind == KindBulletList || cn.Kind == KindNumberList {
				d.writeBlock(b, c)
			} else {
				d.writeInline(b, []int{c})
			}
		}
		b.WriteString("</li>")
	default:
		// An inline node promoted to block position serializes inside a
		// paragraph so the output stays well-formed.
		b.WriteString("<p>")
		d.writeInline(b, []int{i})
		b.WriteString("</p>")
	}
}

func (d *Document) writeInline(b *strings.Builder, children []int) {
	// Coalesce adjacent text runs with identical style so the emitted
	// string is canonical regardless of how runs were split.
	for k := 0; k < len(children); {
		n := d.nodes[children[k]]
		if n.Kind == KindText {
			text := n.Text
			j := k + 1
			for j < len(children) {
				next := d.nodes[children[j]]
				if next.Kind != KindText || next.Style != n.Style {
					break
				}
				text += next.Text
				j++
			}
			d.writeStyled(b, text, n.Style)
			k = j
			continue
		}
		d.writeInlineNode(b, children[k])
		k++
	}
}

func (d *Document) writeInlineNode(b *strings.Builder, i int) {
	n := d.nodes[i]
	switch n.Kind {
	case KindLink:
		fmt.Fprintf(b, `<a href="%s">`, html.EscapeString(n.Href))
		d.writeInline(b, n.Children)
		b.WriteString("</a>")
	case KindImage:
		if n.Alt != "" {
			fmt.Fprintf(b, `<img src="%s" alt="%s"/>`, html.EscapeString(n.Src), html.EscapeString(n.Alt))
		} else {
			fmt.Fprintf(b, `<img src="%s"/>`, html.EscapeString(n.Src))
		}
	default:
		d.writeStyled(b, n.Text, n.Style)
	}
}

// writeStyled wraps escaped text in style tags using a fixed outermost-to-
// innermost order. The fixed order is what makes serialization canonical.
func (d *Document) writeStyled(b *strings.Builder, text string, style Style) {
	type wrap struct {
		flag Style
		tag  string
	}
	order := [...]wrap{
		{StyleBold, "strong"},
		{StyleItalic, "em"},
		{StyleUnderline, "u"},
		{StyleCode, "code"},
	}
	for _, w := range order {
		if style&w.flag != 0 {
			b.WriteString("<" + w.tag + ">")
		}
	}
	b.WriteString(html.EscapeString(text))
	for i := len(order) - 1; i >= 0; i-- {
		if style&order[i].flag != 0 {
			b.WriteString("</" + order[i].tag + ">")
		}
	}
}
