// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package draw

import (
	"encoding/xml"
	"fmt"
	"image/color"
	"io"
	"strconv"

	"github.com/js-arias/phylofunk/colorkey"
	"github.com/js-arias/phylofunk/tree"
)

const yStep = 12

type node struct {
	x     float64
	y     int
	topY  int
	botY  int
	color color.Color

	tax  string
	anc  int
	term bool
}

// An svgTree stores the nodes of a tree
// indexed by node ID,
// with the nodes in pre-order.
type svgTree struct {
	y     int
	x     float64
	taxSz int
	nodes []node
	order []int
}

func copyTree(t *tree.Tree, xStep float64, cladogram bool) svgTree {
	dist := t.RootDistance()
	hasLen := false
	for _, id := range t.Nodes() {
		if _, ok := t.Length(id); ok && !t.IsRoot(id) {
			hasLen = true
			break
		}
	}
	if cladogram || !hasLen {
		for _, id := range t.PreOrder(t.Root()) {
			if p := t.Parent(id); p >= 0 {
				dist[id] = dist[p] + 1
			}
		}
		// in a cladogram terminals are aligned
		maxD := 0.0
		for _, d := range dist {
			if d > maxD {
				maxD = d
			}
		}
		for _, id := range t.Nodes() {
			if t.IsTerm(id) {
				dist[id] = maxD
			}
		}
		xStep = 20
	}

	s := svgTree{
		nodes: make([]node, t.Len()),
		order: t.PreOrder(t.Root()),
	}
	for _, id := range t.Nodes() {
		n := &s.nodes[id]
		n.x = dist[id]*xStep + 10
		n.anc = t.Parent(id)
		n.term = t.IsTerm(id)
		n.color = color.Black
		if n.term {
			n.tax = t.Taxon(id)
			if len(n.tax) > s.taxSz {
				s.taxSz = len(n.tax)
			}
		}
		if s.x < n.x {
			s.x = n.x
		}
	}

	for _, id := range t.PostOrder(t.Root()) {
		n := &s.nodes[id]
		if n.term {
			n.y = s.y*yStep + 5
			s.y++
			continue
		}
		children := t.Children(id)
		n.topY = s.nodes[children[0]].y
		n.botY = s.nodes[children[len(children)-1]].y
		n.y = n.topY + (n.botY-n.topY)/2
	}
	s.y = s.y * yStep

	return s
}

func (s *svgTree) setColor(t *tree.Tree, attr string, keys *colorkey.Key) {
	for _, id := range t.Nodes() {
		v, ok := t.Attr(id, attr)
		if !ok {
			continue
		}
		s.nodes[id].color = keys.Color(v.String())
	}
}

func (s *svgTree) draw(w io.Writer) error {
	fmt.Fprintf(w, "%s", xml.Header)
	e := xml.NewEncoder(w)
	svg := xml.StartElement{
		Name: xml.Name{Local: "svg"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "height"}, Value: strconv.Itoa(s.y + 5)},
			// assume that each character has 6 pixels wide
			{Name: xml.Name{Local: "width"}, Value: strconv.Itoa(int(s.x) + s.taxSz*6 + 10)},
			{Name: xml.Name{Local: "xmlns"}, Value: "http://www.w3.org/2000/svg"},
		},
	}
	e.EncodeToken(svg)

	g := xml.StartElement{
		Name: xml.Name{Local: "g"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "stroke-width"}, Value: "2"},
			{Name: xml.Name{Local: "stroke"}, Value: "black"},
			{Name: xml.Name{Local: "stroke-linecap"}, Value: "round"},
			{Name: xml.Name{Local: "font-family"}, Value: "Verdana"},
			{Name: xml.Name{Local: "font-size"}, Value: "10"},
		},
	}
	e.EncodeToken(g)

	for _, id := range s.order {
		s.drawNode(e, id)
	}
	for _, id := range s.order {
		s.label(e, id)
	}

	e.EncodeToken(g.End())
	e.EncodeToken(svg.End())
	if err := e.Flush(); err != nil {
		return err
	}
	return nil
}

func (s *svgTree) drawNode(e *xml.Encoder, id int) {
	n := s.nodes[id]
	r, g, b, _ := n.color.RGBA()
	rgb := fmt.Sprintf("rgb(%d,%d,%d)", r>>8, g>>8, b>>8)

	// horizontal line
	ln := xml.StartElement{
		Name: xml.Name{Local: "line"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "x1"}, Value: strconv.Itoa(int(n.x - 5))},
			{Name: xml.Name{Local: "y1"}, Value: strconv.Itoa(n.y)},
			{Name: xml.Name{Local: "x2"}, Value: strconv.Itoa(int(n.x))},
			{Name: xml.Name{Local: "y2"}, Value: strconv.Itoa(n.y)},
			{Name: xml.Name{Local: "stroke"}, Value: rgb},
		},
	}
	if n.anc >= 0 {
		ln.Attr[0].Value = strconv.Itoa(int(s.nodes[n.anc].x))
	}
	e.EncodeToken(ln)
	e.EncodeToken(ln.End())

	if n.term {
		return
	}

	// vertical line
	ln.Attr[0].Value = ln.Attr[2].Value
	ln.Attr[1].Value = strconv.Itoa(n.topY)
	ln.Attr[3].Value = strconv.Itoa(n.botY)
	e.EncodeToken(ln)
	e.EncodeToken(ln.End())
}

func (s *svgTree) label(e *xml.Encoder, id int) {
	n := s.nodes[id]
	if !n.term {
		return
	}
	tx := xml.StartElement{
		Name: xml.Name{Local: "text"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "x"}, Value: strconv.Itoa(int(n.x + 10))},
			{Name: xml.Name{Local: "y"}, Value: strconv.Itoa(n.y + 5)},
			{Name: xml.Name{Local: "stroke-width"}, Value: "0"},
			{Name: xml.Name{Local: "font-style"}, Value: "italic"},
		},
	}
	e.EncodeToken(tx)
	e.EncodeToken(xml.CharData(n.tax))
	e.EncodeToken(tx.End())
}
