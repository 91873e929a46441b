// Package importer reads polygon outlines from CSV, Excel and DXF files.
// Tabular sources list one vertex per row; rows sharing a polygon key form
// one outline, in row order unless an index column is present.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/piwi3910/polyboard/internal/model"
	"github.com/xuri/excelize/v2"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Outlines []model.Outline
	Labels   []string // Source key of each outline, parallel to Outlines
	Errors   []string
	Warnings []string
}

func (r *ImportResult) errorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ImportResult) warnf(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *ImportResult) add(label string, o model.Outline) {
	r.Outlines = append(r.Outlines, o)
	r.Labels = append(r.Labels, label)
}

// ColumnMapping holds the column index of each vertex field, -1 when absent.
type ColumnMapping struct {
	Polygon int
	Index   int
	X       int
	Y       int
}

// positional is the mapping assumed for files without a header row.
var positional = ColumnMapping{Polygon: 0, Index: -1, X: 1, Y: 2}

// columnAliases maps a lowercase header cell to the field it names.
var columnAliases = map[string]string{
	"polygon": "polygon", "polygon id": "polygon", "poly": "polygon", "shape": "polygon",
	"id": "polygon", "part": "polygon", "name": "polygon", "label": "polygon",
	"index": "index", "idx": "index", "vertex": "index", "order": "index",
	"seq": "index", "point": "index",
	"x": "x", "vx": "x", "x coord": "x", "pos x": "x",
	"y": "y", "vy": "y", "y coord": "y", "pos y": "y",
}

// VertexSheet is the sheet name preferred when reading workbooks.
const VertexSheet = "Vertices"

var delimiterNames = map[rune]string{',': "comma", ';': "semicolon", '\t': "tab", '|': "pipe"}

func newCSVReader(r io.Reader, delim rune) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	return cr
}

// DetectCSVDelimiter picks the delimiter among comma, semicolon, tab and pipe
// whose split gives the most lines with the first line's column count.
func DetectCSVDelimiter(data []byte) rune {
	best, bestScore := ',', 0
	for _, d := range []rune{',', ';', '\t', '|'} {
		records, err := newCSVReader(bytes.NewReader(data), d).ReadAll()
		if err != nil || len(records) == 0 || len(records[0]) < 2 {
			continue
		}
		width := len(records[0])
		consistent := 0
		for _, rec := range records {
			if len(rec) == width {
				consistent++
			}
		}
		if score := consistent*10 + width; score > bestScore {
			best, bestScore = d, score
		}
	}
	return best
}

// DetectColumns maps a header row to vertex fields, matching aliases
// case-insensitively. When no cell is a known alias the positional mapping
// (polygon, x, y) is returned with false.
func DetectColumns(row []string) (ColumnMapping, bool) {
	m := ColumnMapping{Polygon: -1, Index: -1, X: -1, Y: -1}
	found := false
	for i, c := range row {
		field, ok := columnAliases[strings.ToLower(strings.TrimSpace(c))]
		if !ok {
			continue
		}
		found = true
		var slot *int
		switch field {
		case "polygon":
			slot = &m.Polygon
		case "index":
			slot = &m.Index
		case "x":
			slot = &m.X
		case "y":
			slot = &m.Y
		}
		if *slot == -1 {
			*slot = i
		}
	}
	if !found {
		return positional, false
	}
	return m, true
}

// missing lists the required fields the mapping lacks.
func (m ColumnMapping) missing() []string {
	var names []string
	if m.Polygon < 0 {
		names = append(names, "Polygon")
	}
	if m.X < 0 {
		names = append(names, "X")
	}
	if m.Y < 0 {
		names = append(names, "Y")
	}
	return names
}

// ImportCSV reads a CSV vertex table, detecting the delimiter and the header.
func ImportCSV(path string) ImportResult {
	data, err := os.ReadFile(path)
	if err != nil {
		var result ImportResult
		result.errorf("Cannot open file: %v", err)
		return result
	}

	delim := DetectCSVDelimiter(data)
	result := ImportCSVFromReader(bytes.NewReader(data), delim)
	if delim != ',' {
		result.Warnings = append([]string{fmt.Sprintf("Detected %s delimiter", delimiterNames[delim])}, result.Warnings...)
	}
	return result
}

// ImportCSVFromReader reads a CSV vertex table with a known delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	records, err := newCSVReader(reader, delimiter).ReadAll()
	if err != nil {
		var result ImportResult
		result.errorf("Cannot read CSV: %v", err)
		return result
	}
	return table{rows: records, rowWord: "Line"}.outlines()
}

// ImportExcel reads a vertex table from a workbook: the Vertices sheet when
// there is one, otherwise the first sheet.
func ImportExcel(path string) ImportResult {
	var result ImportResult

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.errorf("Cannot open Excel file: %v", err)
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.errorf("Excel file has no sheets")
		return result
	}
	sheet := sheets[0]
	for _, name := range sheets {
		if strings.EqualFold(name, VertexSheet) {
			sheet = name
			break
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		result.errorf("Cannot read sheet %s: %v", sheet, err)
		return result
	}
	return table{rows: rows, rowWord: "Row"}.outlines()
}

// table is a vertex table read from CSV or a workbook sheet. rowWord names
// rows in messages.
type table struct {
	rows    [][]string
	rowWord string
}

type vertex struct {
	order float64
	p     model.Point2D
}

type vertexGroup struct {
	key   string
	verts []vertex
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// header resolves the column mapping and the first data row. An unknown
// header whose second cell is not numeric is skipped with the positional
// mapping.
func (t table) header(result *ImportResult) (ColumnMapping, int, bool) {
	first := t.rows[0]
	m, ok := DetectColumns(first)
	if ok {
		result.warnf("Detected header row, skipping")
		if names := m.missing(); len(names) > 0 {
			result.errorf("Required columns not found in header: %s", strings.Join(names, ", "))
			return m, 0, false
		}
		return m, 1, true
	}
	if len(first) >= 3 {
		if _, err := strconv.ParseFloat(cell(first, 1), 64); err != nil {
			result.warnf("Detected header row, skipping")
			return m, 1, true
		}
	}
	return m, 0, true
}

// parse reads one data row. The vertex order defaults to its sequence number.
func (t table) parse(row []string, m ColumnMapping, line, seq int) (string, vertex, error) {
	key := cell(row, m.Polygon)
	if key == "" {
		return "", vertex{}, fmt.Errorf("%s %d: Missing polygon key", t.rowWord, line)
	}
	coord := func(i int, name string) (float64, error) {
		s := cell(row, i)
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%s %d: Invalid %s '%s'", t.rowWord, line, name, s)
		}
		return v, nil
	}

	v := vertex{order: float64(seq)}
	var err error
	if v.p.X, err = coord(m.X, "x"); err != nil {
		return "", vertex{}, err
	}
	if v.p.Y, err = coord(m.Y, "y"); err != nil {
		return "", vertex{}, err
	}
	if m.Index >= 0 {
		if v.order, err = coord(m.Index, "vertex index"); err != nil {
			return "", vertex{}, err
		}
	}
	return key, v, nil
}

// outlines groups the table's vertices by polygon key in first-seen order
// and turns every group of three or more into a normalized outline.
func (t table) outlines() ImportResult {
	var result ImportResult
	if len(t.rows) == 0 {
		result.errorf("File is empty")
		return result
	}
	m, start, ok := t.header(&result)
	if !ok {
		return result
	}

	var groups []*vertexGroup
	byKey := map[string]*vertexGroup{}
	seq := 0
	for i := start; i < len(t.rows); i++ {
		if blank(t.rows[i]) {
			continue
		}
		key, v, err := t.parse(t.rows[i], m, i+1, seq)
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		seq++
		g := byKey[key]
		if g == nil {
			g = &vertexGroup{key: key}
			byKey[key] = g
			groups = append(groups, g)
		}
		g.verts = append(g.verts, v)
	}

	for _, g := range groups {
		if len(g.verts) < 3 {
			result.warnf("Skipped polygon %s with %d vertices", g.key, len(g.verts))
			continue
		}
		sort.SliceStable(g.verts, func(a, b int) bool { return g.verts[a].order < g.verts[b].order })
		o := make(model.Outline, len(g.verts))
		for j, v := range g.verts {
			o[j] = v.p
		}
		result.add(g.key, o.Normalize())
	}

	if len(result.Outlines) == 0 && len(result.Errors) == 0 {
		result.errorf("No polygons found")
	}
	return result
}
