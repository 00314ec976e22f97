package pipeline

import (
	"fmt"
	"strconv"
	"strings"
)

// RawEntry is the canonical shape of one spreadsheet row after normalization.
// Downstream code (score interpretation, position assignment) works only with
// this — all the header-spelling guesswork is over by the time one exists.
type RawEntry struct {
	// PlayerToken is the opaque identifier the sheet used for this player.
	// Never empty: if no name could be detected, a "Player {n}" placeholder
	// is synthesized from the row ordinal.
	PlayerToken string

	// RawScore is the numeric score cell, whose meaning depends on the
	// tournament's scoring format. ScoreFound distinguishes a genuine 0
	// from "no parseable score anywhere" — the interpreter treats the
	// latter as fatal for scored formats.
	RawScore   float64
	ScoreFound bool

	// RawPosition is the position cell, defaulting to the row's 1-based
	// ordinal when absent or unparseable.
	RawPosition int

	// RawHandicap comes from an explicit handicap column when the sheet has
	// one (the structured/legacy path); the flexible path leaves it 0.
	RawHandicap float64

	// GrossPoints/NetPoints are season points supplied directly by the
	// source (Points-format sheets). Nil when the sheet didn't carry them.
	GrossPoints *float64
	NetPoints   *float64
}

// Words stripped off detected names. Sheets like "Player Tom Anderson" or
// "Tom Anderson Score" embed the column's role into the cell value; the role
// words carry no identity and would fragment player matching.
var (
	nameRolePrefixes  = []string{"player", "participant", "golfer", "member"}
	nameScoreSuffixes = []string{"score", "points", "total", "league"}
)

// RowNormalizer converts raw rows into RawEntries. It is built once per upload
// from the (possibly absent) header row: the semantic tags come from the
// Header Classifier, while the format-specific columns — handicap and direct
// gross/net points — are located here directly, since they only exist on the
// structured upload path and never participate in the flexible heuristics.
type RowNormalizer struct {
	tags        ColumnTags
	handicapCol int // -1 when absent
	grossPtsCol int
	netPtsCol   int
}

// NewRowNormalizer builds a normalizer from a header row.
func NewRowNormalizer(headers []string) *RowNormalizer {
	n := &RowNormalizer{
		tags:        ClassifyHeaders(headers),
		handicapCol: -1,
		grossPtsCol: -1,
		netPtsCol:   -1,
	}

	for i, raw := range headers {
		h := strings.ToLower(strings.TrimSpace(raw))
		switch {
		case n.handicapCol < 0 && containsAny(h, "handicap", "hcp", "hdcp"):
			n.handicapCol = i
		case n.grossPtsCol < 0 && strings.Contains(h, "gross") && containsAny(h, "points", "pts"):
			n.grossPtsCol = i
		case n.netPtsCol < 0 && strings.Contains(h, "net") && containsAny(h, "points", "pts"):
			n.netPtsCol = i
		}
	}

	return n
}

// NewHeaderlessNormalizer builds a normalizer for input with no header row.
// Every field falls back to its heuristic.
func NewHeaderlessNormalizer() *RowNormalizer {
	return &RowNormalizer{tags: NoTags(), handicapCol: -1, grossPtsCol: -1, netPtsCol: -1}
}

// Tags exposes the classification this normalizer was built from.
func (n *RowNormalizer) Tags() ColumnTags { return n.tags }

// Normalize produces the canonical entry for one row. ordinal is the row's
// 1-based position among the data rows. Fully blank rows yield nil and are
// skipped silently by the caller.
//
// The contract is identical whether the source was CSV text or a workbook —
// both are flattened to rows of strings before reaching this method.
func (n *RowNormalizer) Normalize(values []string, ordinal int) *RawEntry {
	if isBlankRow(values) {
		return nil
	}

	entry := &RawEntry{RawPosition: ordinal}

	// --- Player name ---
	nameCol := -1
	if n.tags.Name >= 0 && n.tags.Name < len(values) {
		nameCol = n.tags.Name
	} else {
		// No tagged name column: scan left to right for the first value that
		// plausibly is a name — non-numeric, not pure digits, and of a
		// human-name length (more than 1, fewer than 50 characters).
		for i, v := range values {
			v = strings.TrimSpace(v)
			if v == "" || isNumeric(v) || isPureDigits(v) {
				continue
			}
			if len(v) > 1 && len(v) < 50 {
				nameCol = i
				break
			}
		}
	}
	if nameCol >= 0 && nameCol < len(values) {
		entry.PlayerToken = cleanName(values[nameCol])
	}
	if entry.PlayerToken == "" {
		// Nothing name-like anywhere on the row. The entry still has to carry
		// a non-empty token, so synthesize a stable placeholder.
		entry.PlayerToken = fmt.Sprintf("Player %d", ordinal)
	}

	// --- Score ---
	// Of all the score-tagged columns, the last one with a parseable value
	// wins: flexible sheets often lead with intermediate columns ("Gross",
	// "Net", "Total") and the rightmost is the final figure.
	for _, col := range n.tags.Scores {
		if col >= len(values) {
			continue
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(values[col]), 64); err == nil {
			entry.RawScore = f
			entry.ScoreFound = true
		}
	}
	if !entry.ScoreFound && len(n.tags.Scores) == 0 {
		// No score column was tagged at all (headerless input, or a header
		// row that named nothing score-like): take the first numeric value
		// on the row that isn't the name cell.
		for i, v := range values {
			if i == nameCol {
				continue
			}
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				entry.RawScore = f
				entry.ScoreFound = true
				break
			}
		}
	}

	// --- Position ---
	// First tagged position column with a parseable integer; otherwise the
	// ordinal default stands.
	for _, col := range n.tags.Positions {
		if col >= len(values) {
			continue
		}
		if p, err := strconv.Atoi(strings.TrimSpace(values[col])); err == nil {
			entry.RawPosition = p
			break
		}
	}

	// --- Format-specific columns (structured path only) ---
	if f, ok := n.floatAt(values, n.handicapCol); ok {
		entry.RawHandicap = f
	}
	if f, ok := n.floatAt(values, n.grossPtsCol); ok {
		entry.GrossPoints = &f
	}
	if f, ok := n.floatAt(values, n.netPtsCol); ok {
		entry.NetPoints = &f
	}

	return entry
}

// floatAt parses the cell at col, tolerating missing/short rows.
func (n *RowNormalizer) floatAt(values []string, col int) (float64, bool) {
	if col < 0 || col >= len(values) {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(values[col]), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// cleanName strips role-word prefixes and score-word suffixes from a detected
// name. "Player Tom Anderson" → "Tom Anderson"; "Tom Anderson Score" →
// "Tom Anderson". Stripping repeats until stable so "Player Golfer Tom" also
// comes out clean.
func cleanName(raw string) string {
	name := strings.TrimSpace(raw)

	for {
		before := name
		lower := strings.ToLower(name)
		for _, prefix := range nameRolePrefixes {
			if strings.HasPrefix(lower, prefix+" ") {
				name = strings.TrimSpace(name[len(prefix):])
				lower = strings.ToLower(name)
			}
		}
		for _, suffix := range nameScoreSuffixes {
			if strings.HasSuffix(lower, " "+suffix) {
				name = strings.TrimSpace(name[:len(name)-len(suffix)])
				lower = strings.ToLower(name)
			}
		}
		if name == before {
			return name
		}
	}
}

func isBlankRow(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func isPureDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
