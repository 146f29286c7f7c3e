// Package diff implements the line-oriented diff engine used by the pull
// request panel. The comparison is index-aligned rather than minimal: both
// files are walked in lock-step and a differing index yields a delete+add
// pair. Content that shifts by an inserted or removed earlier line re-diffs
// as delete+add from that point on. This is a known limitation; downstream
// line-number bookkeeping assumes positional alignment, so the semantics
// must not be replaced with an LCS-based minimal diff.
package diff

import "strings"

// LineType classifies a diff line.
type LineType string

const (
	Added     LineType = "added"
	Deleted   LineType = "deleted"
	Unchanged LineType = "unchanged"
)

// Line is one rendered diff line. Unchanged lines carry both numbers; added
// lines carry only the modified number; deleted lines carry only the
// original number. A zero number means absent.
type Line struct {
	Text         string
	Type         LineType
	OriginalLine int
	ModifiedLine int
}

// contextWindow is the number of leading and trailing walk indices whose
// identical lines are materialized. Identical runs in the interior are
// omitted from the emitted sequence; full fidelity of the unchanged interior
// is not required for rendering.
const contextWindow = 3

// Lines diffs two whole-file contents into an ordered line sequence. It is a
// pure function of its inputs and always returns a (possibly empty) slice;
// empty input text is treated as having zero lines.
func Lines(base, modified string) []Line {
	baseLines := splitLines(base)
	modLines := splitLines(modified)

	walk := len(baseLines)
	if len(modLines) > walk {
		walk = len(modLines)
	}

	var out []Line
	for i := 0; i < walk; i++ {
		hasBase := i < len(baseLines)
		hasMod := i < len(modLines)

		if hasBase && hasMod && baseLines[i] == modLines[i] {
			if i < contextWindow || i >= walk-contextWindow {
				out = append(out, Line{
					Text:         baseLines[i],
					Type:         Unchanged,
					OriginalLine: i + 1,
					ModifiedLine: i + 1,
				})
			}
			continue
		}

		if hasBase {
			out = append(out, Line{
				Text:         baseLines[i],
				Type:         Deleted,
				OriginalLine: i + 1,
			})
		}
		if hasMod {
			out = append(out, Line{
				Text:         modLines[i],
				Type:         Added,
				ModifiedLine: i + 1,
			})
		}
	}

	return out
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// Cell is one side of a side-by-side row. A placeholder cell (no line on
// this side of the pairing) has Empty set and zero values elsewhere.
type Cell struct {
	Text   string
	Number int
	Type   LineType
	Empty  bool
}

// Row pairs the left (original) and right (modified) cells of one rendered
// side-by-side line.
type Row struct {
	Left  Cell
	Right Cell
}

// SideBySide lays diff lines out as side-by-side rows. Unchanged lines
// produce one row with both sides populated identically. Runs of deleted and
// added lines between unchanged lines are zipped row-by-row; when the run
// lengths differ the shorter side is padded with placeholder cells, so the
// row count equals the longer run. This pairing is a rendering heuristic,
// independent of the diff classification itself.
func SideBySide(lines []Line) []Row {
	var rows []Row
	var deleted, added []Line

	flush := func() {
		n := len(deleted)
		if len(added) > n {
			n = len(added)
		}
		for i := 0; i < n; i++ {
			var row Row
			if i < len(deleted) {
				row.Left = Cell{Text: deleted[i].Text, Number: deleted[i].OriginalLine, Type: Deleted}
			} else {
				row.Left = Cell{Empty: true}
			}
			if i < len(added) {
				row.Right = Cell{Text: added[i].Text, Number: added[i].ModifiedLine, Type: Added}
			} else {
				row.Right = Cell{Empty: true}
			}
			rows = append(rows, row)
		}
		deleted = deleted[:0]
		added = added[:0]
	}

	for _, l := range lines {
		switch l.Type {
		case Deleted:
			deleted = append(deleted, l)
		case Added:
			added = append(added, l)
		case Unchanged:
			flush()
			cell := Cell{Text: l.Text, Type: Unchanged}
			left, right := cell, cell
			left.Number = l.OriginalLine
			right.Number = l.ModifiedLine
			rows = append(rows, Row{Left: left, Right: right})
		}
	}
	flush()

	return rows
}
