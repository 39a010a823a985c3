// Package htmltable rewrites individual table rows and cells of rendered
// contract HTML while keeping every other byte of the document untouched.
//
// The markup is indexed with the x/net/html tokenizer, which accepts any input,
// and offsets into the original string are recorded per row and cell. Edits
// are spliced into the original text; the tokenizer output is never
// re-serialized.
package htmltable

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// Cell locates a <td> or <th> element. Inner spans the cell body.
type Cell struct {
	Start      int
	InnerStart int
	InnerEnd   int
	End        int
}

// Row locates a <tr> element and its own cells (cells of nested tables are
// indexed as separate rows).
type Row struct {
	Start int
	End   int
	Cells []Cell
}

// Fragment is an HTML string with its row/cell index.
type Fragment struct {
	src  string
	rows []Row
}

// Parse indexes src. It never fails; unclosed rows and cells end where their
// parent ends.
func Parse(src string) *Fragment {
	return &Fragment{src: src, rows: indexRows(src)}
}

// String returns the underlying HTML.
func (f *Fragment) String() string {
	return f.src
}

// Rows returns the rows in document order.
func (f *Fragment) Rows() []Row {
	return f.rows
}

// Outer returns the full HTML of r.
func (f *Fragment) Outer(r Row) string {
	return f.src[r.Start:r.End]
}

// Inner returns the body of cell c.
func (f *Fragment) Inner(c Cell) string {
	return f.src[c.InnerStart:c.InnerEnd]
}

// RowMatch selects a row by its label text.
type RowMatch struct {
	Label string
	// FirstCellOnly restricts the label match to the row's first cell.
	FirstCellOnly bool
	// MinCells skips rows with fewer cells, such as caption rows.
	MinCells int
}

// FindRow returns the first row satisfying m.
func (f *Fragment) FindRow(m RowMatch) (Row, bool) {
	re := LabelPattern(m.Label)
	if re == nil {
		return Row{}, false
	}
	for _, row := range f.rows {
		if len(row.Cells) < m.MinCells {
			continue
		}
		var text string
		if m.FirstCellOnly {
			if len(row.Cells) == 0 {
				continue
			}
			text = f.Inner(row.Cells[0])
		} else {
			text = f.Outer(row)
		}
		if re.MatchString(visibleText(text)) {
			return row, true
		}
	}
	return Row{}, false
}

// visibleText blanks out tags so attribute values never satisfy a label.
func visibleText(s string) string {
	return tagRE.ReplaceAllString(s, " ")
}

// CellFunc transforms the body of cell index out of count cells.
type CellFunc func(index, count int, inner string) string

// MapCells rebuilds r applying fn to each cell body. Markup between and around
// cells is copied verbatim.
func (f *Fragment) MapCells(r Row, fn CellFunc) string {
	var b strings.Builder
	b.Grow(r.End - r.Start + 64)
	pos := r.Start
	for i, c := range r.Cells {
		b.WriteString(f.src[pos:c.InnerStart])
		b.WriteString(fn(i, len(r.Cells), f.src[c.InnerStart:c.InnerEnd]))
		pos = c.InnerEnd
	}
	b.WriteString(f.src[pos:r.End])
	return b.String()
}

// ReplaceRow finds the row matching m and returns the document with that row's
// cells mapped through fn. ok is false when no row matched; the input is then
// returned unchanged.
func ReplaceRow(src string, m RowMatch, fn CellFunc) (string, bool) {
	f := Parse(src)
	row, ok := f.FindRow(m)
	if !ok {
		return src, false
	}
	return src[:row.Start] + f.MapCells(row, fn) + src[row.End:], true
}

const labelGap = `(?:\s|&nbsp;|&#160;|&#xa0;|&[a-zA-Z]+;|<[^>]*>)+`

// LabelPattern matches the words of label in order, tolerating whitespace,
// entities and tags between them. Matching is case-insensitive.
func LabelPattern(label string) *regexp.Regexp {
	words := strings.Fields(label)
	if len(words) == 0 {
		return nil
	}
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)` + strings.Join(quoted, labelGap))
}

type openRow struct {
	row   Row
	depth int
	cell  *Cell
}

func (o *openRow) closeCell(at, end int) {
	if o.cell == nil {
		return
	}
	o.cell.InnerEnd = at
	o.cell.End = end
	o.row.Cells = append(o.row.Cells, *o.cell)
	o.cell = nil
}

func indexRows(src string) []Row {
	z := html.NewTokenizer(strings.NewReader(src))

	var (
		rows   []Row
		stack  []*openRow
		depth  int
		offset int
	)

	top := func() *openRow {
		if len(stack) == 0 || stack[len(stack)-1].depth != depth {
			return nil
		}
		return stack[len(stack)-1]
	}
	closeTop := func(at, end int) {
		o := stack[len(stack)-1]
		o.closeCell(at, at)
		o.row.End = end
		rows = append(rows, o.row)
		stack = stack[:len(stack)-1]
	}

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		// Raw must be measured before TagName, which lower-cases in place.
		start := offset
		end := offset + len(z.Raw())
		offset = end

		if tt != html.StartTagToken && tt != html.EndTagToken {
			continue
		}
		name, _ := z.TagName()

		switch {
		case tt == html.StartTagToken && string(name) == "table":
			depth++
		case tt == html.StartTagToken && string(name) == "tr":
			if top() != nil {
				closeTop(start, start)
			}
			stack = append(stack, &openRow{row: Row{Start: start}, depth: depth})
		case tt == html.StartTagToken && (string(name) == "td" || string(name) == "th"):
			if o := top(); o != nil {
				o.closeCell(start, start)
				o.cell = &Cell{Start: start, InnerStart: end}
			}
		case tt == html.EndTagToken && (string(name) == "td" || string(name) == "th"):
			if o := top(); o != nil {
				o.closeCell(start, end)
			}
		case tt == html.EndTagToken && string(name) == "tr":
			if top() != nil {
				closeTop(start, end)
			}
		case tt == html.EndTagToken && string(name) == "table":
			for top() != nil {
				closeTop(start, start)
			}
			if depth > 0 {
				depth--
			}
		}
	}

	for len(stack) > 0 {
		closeTop(offset, offset)
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Start < rows[j].Start })
	return rows
}
