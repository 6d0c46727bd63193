package restclient

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gonvenience/ytbx"
	yamlv3 "gopkg.in/yaml.v3"
)

// Document is a parsed JSON response navigable by field path. It backs the
// parsed output mode, typed endpoints decode into their own structs
// instead.
type Document struct {
	root *yamlv3.Node
}

// ParseJSON parses a JSON response into a navigable document. Malformed
// content surfaces as a parse error, there is no schema validation.
func ParseJSON(data []byte) (*Document, error) {
	docs, err := ytbx.LoadDocuments(data)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse document")
	}
	if len(docs) == 0 {
		return nil, errors.New("empty document")
	}
	return &Document{root: docs[0]}, nil
}

// Grab returns the value at the field path, e.g. /product_version or
// /results/0/display_name
func (d *Document) Grab(path string) (interface{}, error) {
	node, err := ytbx.Grab(d.root, path)
	if err != nil {
		return nil, err
	}

	var out interface{}
	if err := node.Decode(&out); err != nil {
		return nil, errors.Wrap(err, "could not decode value at "+path)
	}
	return out, nil
}

// GrabString returns the scalar at the field path as a string
func (d *Document) GrabString(path string) (string, error) {
	node, err := ytbx.Grab(d.root, path)
	if err != nil {
		return "", err
	}
	if node.Kind != yamlv3.ScalarNode {
		return "", errors.New("value at " + path + " is not a scalar")
	}
	return node.Value, nil
}

// Value returns the whole document as a plain Go value
func (d *Document) Value() (interface{}, error) {
	var out interface{}
	if err := d.root.Decode(&out); err != nil {
		return nil, errors.Wrap(err, "could not decode document")
	}
	return out, nil
}

// XMLNode is one element of a parsed XML response. Paths navigate the
// children of a node, the root element name is not part of the path.
type XMLNode struct {
	Name     string
	Attrs    map[string]string
	Text     string
	Children []*XMLNode
}

// ParseXML parses an XML response into a navigable node tree and returns
// the root element
func ParseXML(data []byte) (*XMLNode, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var root *XMLNode
	var stack []*XMLNode
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "could not parse xml document")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &XMLNode{
				Name:  t.Name.Local,
				Attrs: map[string]string{},
			}
			for _, a := range t.Attr {
				n.Attrs[a.Name.Local] = a.Value
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New("could not parse xml document: multiple root elements")
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			n := stack[len(stack)-1]
			n.Text = strings.TrimSpace(n.Text)
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}

	if root == nil {
		return nil, errors.New("could not parse xml document: no root element")
	}
	return root, nil
}

// Grab returns the first node at the field path, e.g. /edgeSummary/id
func (n *XMLNode) Grab(path string) (*XMLNode, error) {
	cur := n
	for _, seg := range strings.Split(path, "/") {
		if seg == "" {
			continue
		}

		var next *XMLNode
		for i := range cur.Children {
			if cur.Children[i].Name == seg {
				next = cur.Children[i]
				break
			}
		}
		if next == nil {
			return nil, errors.Newf("no element %s below %s", seg, cur.Name)
		}
		cur = next
	}
	return cur, nil
}

// GrabString returns the text of the first node at the field path
func (n *XMLNode) GrabString(path string) (string, error) {
	node, err := n.Grab(path)
	if err != nil {
		return "", err
	}
	return node.Text, nil
}

// All returns the direct children with the given element name
func (n *XMLNode) All(name string) []*XMLNode {
	res := []*XMLNode{}
	for i := range n.Children {
		if n.Children[i].Name == name {
			res = append(res, n.Children[i])
		}
	}
	return res
}
