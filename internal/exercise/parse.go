// Package exercise finds exercise rows in a rendered workout plan and tracks
// which one the user has selected.
package exercise

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// nameColumn is the zero-based cell holding the exercise name.
const nameColumn = 1

// Row is one data row of a plan table.
type Row struct {
	Table int      // index of the table in the document
	Index int      // index of the row within the table body
	Name  string   // exercise name
	Cells []string // plain text of every cell
}

var parser = goldmark.New(goldmark.WithExtensions(extension.Table)).Parser()

// Parse returns every table body row in markdown that names an exercise.
// Header rows and rows without a non-empty second cell are skipped.
func Parse(markdown string) []Row {
	src := []byte(markdown)
	doc := parser.Parse(text.NewReader(src))

	var (
		rows     []Row
		tableIdx = -1
		rowIdx   int
	)
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *east.Table:
			tableIdx++
			rowIdx = 0
		case *east.TableHeader:
			return ast.WalkSkipChildren, nil
		case *east.TableRow:
			cells := rowCells(n, src)
			idx := rowIdx
			rowIdx++
			if len(cells) <= nameColumn || cells[nameColumn] == "" {
				return ast.WalkSkipChildren, nil
			}
			rows = append(rows, Row{
				Table: tableIdx,
				Index: idx,
				Name:  cells[nameColumn],
				Cells: cells,
			})
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return rows
}

func rowCells(row *east.TableRow, src []byte) []string {
	var cells []string
	for c := row.FirstChild(); c != nil; c = c.NextSibling() {
		if _, ok := c.(*east.TableCell); ok {
			cells = append(cells, plainText(c, src))
		}
	}
	return cells
}

// plainText concatenates the text under n, dropping inline markup.
func plainText(n ast.Node, src []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.Join(strings.Fields(sb.String()), " ")
}
