// Package goquery implements product and search page parsing using CSS
// selectors.
package goquery

import (
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// SelectorChain is an ordered list of CSS selectors for one field.
// Later entries cover template variants of the same page section.
type SelectorChain []string

// Select evaluates the chain against root and returns the first non-empty
// match. The result is an empty selection when nothing matches.
func (c SelectorChain) Select(root *goquery.Selection) *goquery.Selection {
	for _, selector := range c {
		if sel := root.Find(selector); sel.Length() > 0 {
			return sel
		}
	}
	return root.Slice(0, 0)
}

// firstText returns the first text node that is a direct child of any
// node in sel, in document order.
func firstText(sel *goquery.Selection) (string, bool) {
	for _, n := range sel.Nodes {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				return c.Data, true
			}
		}
	}
	return "", false
}

// directTexts returns every text node that is a direct child of a node in
// sel, in document order.
func directTexts(sel *goquery.Selection) []string {
	var texts []string
	for _, n := range sel.Nodes {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				texts = append(texts, c.Data)
			}
		}
	}
	return texts
}

// firstAttr returns the first value of the named attribute carried by any
// node in sel.
func firstAttr(sel *goquery.Selection, name string) string {
	for _, n := range sel.Nodes {
		for _, a := range n.Attr {
			if a.Key == name {
				return a.Val
			}
		}
	}
	return ""
}
