package descriptor

import (
	"encoding/xml"
	"strings"
)

// Node is a generic element tree used for free-form plugin configuration.
type Node struct {
	Name     string
	Text     string
	Children []*Node
}

// UnmarshalXML captures an element and all of its descendants.
func (n *Node) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	n.Name = start.Name.Local
	var text strings.Builder
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child := &Node{}
			if err := child.UnmarshalXML(d, t); err != nil {
				return err
			}
			n.Children = append(n.Children, child)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			n.Text = strings.TrimSpace(text.String())
			return nil
		}
	}
}

// Child returns the first direct child with the given name.
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Values returns the text of every node reached by following path from n.
// Repeated elements along the path fan out.
func (n *Node) Values(path ...string) []string {
	if n == nil {
		return nil
	}
	if len(path) == 0 {
		return []string{n.Text}
	}
	var out []string
	for _, c := range n.Children {
		if c.Name == path[0] {
			out = append(out, c.Values(path[1:]...)...)
		}
	}
	return out
}

// Value returns the first value at path, or "".
func (n *Node) Value(path ...string) string {
	if v := n.Values(path...); len(v) > 0 {
		return v[0]
	}
	return ""
}

// String renders the tree as indented XML-like text.
func (n *Node) String() string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	n.write(&sb, 0)
	return sb.String()
}

func (n *Node) write(sb *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)
	sb.WriteString(indent + "<" + n.Name + ">")
	if len(n.Children) == 0 {
		sb.WriteString(n.Text + "</" + n.Name + ">\n")
		return
	}
	sb.WriteString("\n")
	for _, c := range n.Children {
		c.write(sb, depth+1)
	}
	sb.WriteString(indent + "</" + n.Name + ">\n")
}
