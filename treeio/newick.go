// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package treeio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/evolbioinfo/gotree/io/newick"
	gotree "github.com/evolbioinfo/gotree/tree"
	"github.com/js-arias/phylofunk/errkind"
	"github.com/js-arias/phylofunk/tree"
)

// ReadNewick reads all the trees in a newick file.
func readNewick(data string) ([]*tree.Tree, error) {
	var ts []*tree.Tree
	for _, st := range statements(data) {
		if strings.TrimSpace(st) == "" {
			continue
		}
		name := fmt.Sprintf("tree_%d", len(ts)+1)
		t, err := parseNewick(st, name)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", len(ts)+1, err)
		}
		ts = append(ts, t)
	}
	if len(ts) == 0 {
		return nil, errkind.Format("no trees found")
	}
	return ts, nil
}

// Statements splits a text into statements
// delimited by semicolons,
// ignoring semicolons inside quotes
// or comments.
func statements(data string) []string {
	var sts []string
	var quote byte
	depth := 0
	start := 0
	for i := 0; i < len(data); i++ {
		c := data[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '[':
			depth++
		case c == ']':
			if depth > 0 {
				depth--
			}
		case depth > 0:
		case c == '\'' || c == '"':
			quote = c
		case c == ';':
			sts = append(sts, data[start:i])
			start = i + 1
		}
	}
	if rest := strings.TrimSpace(data[start:]); rest != "" {
		sts = append(sts, rest)
	}
	return sts
}

// ParseNewick parses a single newick tree
// (without the final semicolon).
func parseNewick(s, name string) (*tree.Tree, error) {
	bare, quoted, err := protectQuoted(s)
	if err != nil {
		return nil, fmt.Errorf("tree %q: %w", name, err)
	}
	gt, err := newick.NewParser(strings.NewReader(bare + ";")).Parse()
	if err != nil {
		return nil, errkind.Format("tree %q: %v", name, err)
	}
	t, err := fromGoTree(gt, name, quoted)
	if err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, errkind.Format("%v", err)
	}
	return t, nil
}

// FromGoTree copies a gotree tree into a new tree,
// in pre-order,
// so node IDs follow the order of the newick string.
func fromGoTree(gt *gotree.Tree, name string, quoted map[string]string) (*tree.Tree, error) {
	t := tree.New(name)

	type frame struct {
		src    *gotree.Node
		prev   *gotree.Node
		edge   *gotree.Edge
		parent int
	}
	stack := []frame{{src: gt.Root(), parent: -1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		id := t.Root()
		if f.parent >= 0 {
			id, _ = t.Add(f.parent, "")
		}
		t.SetLabel(id, nodeLabel(f.src, f.edge, quoted))
		if f.edge != nil {
			if l := f.edge.Length(); l != gotree.NIL_LENGTH {
				t.SetLength(id, l)
			}
		}
		for _, cm := range f.src.Comments() {
			cm = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(cm), "["), "]"))
			if !strings.HasPrefix(cm, "&") || isRootComment(cm) {
				continue
			}
			if err := annotate(t, id, cm[1:]); err != nil {
				return nil, errkind.Format("tree %q: node %d: %v", name, id, err)
			}
		}

		neigh := f.src.Neigh()
		edges := f.src.Edges()
		for i := len(neigh) - 1; i >= 0; i-- {
			if neigh[i] == f.prev {
				continue
			}
			stack = append(stack, frame{
				src:    neigh[i],
				prev:   f.src,
				edge:   edges[i],
				parent: id,
			})
		}
	}
	return t, nil
}

// NodeLabel returns the label of a node.
// Numeric labels of internal nodes
// are read by gotree as branch supports.
func nodeLabel(n *gotree.Node, e *gotree.Edge, quoted map[string]string) string {
	lab := n.Name()
	if q, ok := quoted[lab]; ok {
		return q
	}
	if lab != "" || n.Tip() || e == nil {
		return lab
	}
	if s := e.Support(); s != gotree.NIL_SUPPORT {
		return strconv.FormatFloat(s, 'f', -1, 64)
	}
	return ""
}

func isRootComment(cm string) bool {
	cm = strings.ToUpper(cm)
	return cm == "&R" || cm == "&U"
}

// ProtectQuoted replaces quoted labels
// with bare tokens,
// so quoted labels keep their spaces
// and delimiter characters.
// It returns the new string
// and the label of each token.
//
// It also checks that parenthesis are balanced.
func protectQuoted(s string) (string, map[string]string, error) {
	prefix := "phylofunkq"
	for strings.Contains(s, prefix) {
		prefix += "x"
	}

	var b strings.Builder
	quoted := make(map[string]string)
	depth := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '[':
			end, err := commentEnd(s, i)
			if err != nil {
				return "", nil, err
			}
			b.WriteString(s[i:end])
			i = end - 1
			continue
		case '\'', '"':
			lab, end, err := quotedLabel(s, i)
			if err != nil {
				return "", nil, err
			}
			tok := prefix + strconv.Itoa(len(quoted))
			quoted[tok] = lab
			b.WriteString(tok)
			i = end - 1
			continue
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return "", nil, errkind.Format("at position %d: unexpected close parenthesis", i)
			}
		}
		b.WriteByte(c)
	}
	if depth != 0 {
		return "", nil, errkind.Format("unbalanced parenthesis")
	}
	return b.String(), quoted, nil
}

// CommentEnd returns the position
// after the end of the comment
// that starts at pos.
func commentEnd(s string, pos int) (int, error) {
	depth := 0
	var quote byte
	for i := pos; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"':
			quote = c
		case c == '[':
			depth++
		case c == ']':
			depth--
			if depth == 0 {
				return i + 1, nil
			}
		}
	}
	return 0, errkind.Format("at position %d: unterminated comment", pos)
}

// QuotedLabel reads a quoted label that starts at pos,
// in which a doubled quote is a literal quote.
// It returns the label,
// and the position after the closing quote.
func quotedLabel(s string, pos int) (string, int, error) {
	q := s[pos]
	var b strings.Builder
	for i := pos + 1; i < len(s); i++ {
		c := s[i]
		if c != q {
			b.WriteByte(c)
			continue
		}
		if i+1 < len(s) && s[i+1] == q {
			b.WriteByte(q)
			i++
			continue
		}
		return b.String(), i + 1, nil
	}
	return "", 0, errkind.Format("at position %d: unterminated quote", pos)
}

// NextToken returns the first token of a string,
// either a quoted label or a bare word,
// and the rest of the string.
func nextToken(s string) (string, string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", "", nil
	}
	if s[0] == '\'' || s[0] == '"' {
		lab, end, err := quotedLabel(s, 0)
		if err != nil {
			return "", "", err
		}
		return lab, s[end:], nil
	}
	i := strings.IndexAny(s, " \t\n\r")
	if i < 0 {
		return s, "", nil
	}
	return s[:i], s[i:], nil
}

// Annotate sets the attributes
// of an annotation comment
// in the form name=value,name=value.
func annotate(t *tree.Tree, id int, cm string) error {
	for _, f := range splitTop(cm, ',') {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		name, val, ok := strings.Cut(f, "=")
		name = strings.Trim(strings.TrimSpace(name), `'"`)
		if name == "" {
			return fmt.Errorf("invalid annotation %q", f)
		}
		if !ok {
			t.SetAttr(id, name, tree.BoolValue(true))
			continue
		}
		t.SetAttr(id, name, parseAnnotation(val))
	}
	return nil
}

func parseAnnotation(val string) tree.Value {
	val = strings.TrimSpace(val)
	if len(val) > 1 && (val[0] == '"' || val[0] == '\'') && val[len(val)-1] == val[0] {
		return tree.StringValue(val[1 : len(val)-1])
	}
	return tree.ParseValue(val)
}

// SplitTop splits a string by a separator
// that is outside quotes or braces.
func splitTop(s string, sep byte) []string {
	var fields []string
	var quote byte
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '{':
			depth++
		case c == '}':
			depth--
		case c == sep && depth == 0:
			fields = append(fields, s[start:i])
			start = i + 1
		}
	}
	return append(fields, s[start:])
}

func writeNewick(w io.Writer, ts []*tree.Tree) error {
	bw := bufio.NewWriter(w)
	for _, t := range ts {
		newickString(bw, t, false)
		fmt.Fprintf(bw, ";\n")
	}
	return bw.Flush()
}

// NewickString writes a tree in parenthetical format,
// without the final semicolon.
func newickString(w *bufio.Writer, t *tree.Tree, annotations bool) {
	type frame struct {
		id       int
		children []int
		next     int
	}
	stack := []frame{{id: t.Root(), children: t.Children(t.Root())}}
	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		if f.next < len(f.children) {
			if f.next == 0 {
				w.WriteByte('(')
			} else {
				w.WriteByte(',')
			}
			c := f.children[f.next]
			f.next++
			stack = append(stack, frame{id: c, children: t.Children(c)})
			continue
		}
		if len(f.children) > 0 {
			w.WriteByte(')')
		}
		writeNode(w, t, f.id, annotations)
		stack = stack[:len(stack)-1]
	}
}

func writeNode(w *bufio.Writer, t *tree.Tree, id int, annotations bool) {
	if lab := t.Label(id); lab != "" {
		w.WriteString(quoteLabel(lab))
	}
	if annotations {
		if names := t.AttrNames(id); len(names) > 0 {
			w.WriteString("[&")
			for i, n := range names {
				if i > 0 {
					w.WriteByte(',')
				}
				v, _ := t.Attr(id, n)
				w.WriteString(quoteLabel(n))
				w.WriteByte('=')
				w.WriteString(formatAnnotation(v))
			}
			w.WriteByte(']')
		}
	}
	if l, ok := t.Length(id); ok {
		w.WriteByte(':')
		w.WriteString(strconv.FormatFloat(l, 'g', -1, 64))
	}
}

// QuoteLabel returns a label
// enclosed in single quotes
// if it has any character that is a newick delimiter.
func quoteLabel(lab string) string {
	if !strings.ContainsAny(lab, "()[]{}',:;=\" \t\n\r") {
		return lab
	}
	return "'" + strings.ReplaceAll(lab, "'", "''") + "'"
}

func formatAnnotation(v tree.Value) string {
	switch v.Kind() {
	case tree.String:
		s, _ := v.Str()
		return `"` + strings.ReplaceAll(s, `"`, "'") + `"`
	case tree.Set:
		set, _ := v.Set()
		for i, e := range set {
			set[i] = `"` + strings.ReplaceAll(e, `"`, "'") + `"`
		}
		return "{" + strings.Join(set, ",") + "}"
	}
	return v.String()
}
