package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkExtinction BookmarkType = "extinction"
	BookmarkExplosion  BookmarkType = "explosion"
	BookmarkMassCrash  BookmarkType = "mass_crash"
	BookmarkStable     BookmarkType = "stable"
)

// Bookmark marks an interesting moment in a run.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int64        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

const (
	explosionFrac   = 0.5  // alive fraction that counts as filling the grid
	crashDrop       = 0.30 // relative mass drop from the recent peak
	stableCV        = 0.05 // mass coefficient of variation for a stable run
	stableWindows   = 5    // consecutive stable windows before the bookmark fires
	stableLookback  = 4
	minHistorySize  = stableWindows
	extinctionMass  = 1.0
	crashMinHistory = 2
)

// BookmarkDetector watches WindowStats for extinction, takeover, crashes and
// stable runs. Each condition fires once per episode.
type BookmarkDetector struct {
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	peakMass      float64
	extinct       bool
	exploded      bool
	stableWindows int
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < minHistorySize {
		historySize = minHistorySize
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Reset forgets history, e.g. after a reseed changes the run.
func (bd *BookmarkDetector) Reset() {
	*bd = BookmarkDetector{
		history:     make([]WindowStats, bd.historySize),
		historySize: bd.historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark
	for _, check := range []func(WindowStats) *Bookmark{
		bd.checkExtinction,
		bd.checkExplosion,
		bd.checkMassCrash,
		bd.checkStable,
	} {
		if b := check(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)
	bd.peakMass = max(bd.peakMass, stats.Mass)
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// recent returns up to n of the latest windows, oldest first.
func (bd *BookmarkDetector) recent(n int) []WindowStats {
	count := bd.historyIdx
	if bd.historyFull {
		count = bd.historySize
	}
	n = min(n, count)
	out := make([]WindowStats, 0, n)
	for i := n; i > 0; i-- {
		idx := (bd.historyIdx - i + bd.historySize) % bd.historySize
		out = append(out, bd.history[idx])
	}
	return out
}

func (bd *BookmarkDetector) checkExtinction(stats WindowStats) *Bookmark {
	if stats.Mass >= extinctionMass {
		bd.extinct = false
		return nil
	}
	if bd.extinct {
		return nil
	}
	bd.extinct = true
	return &Bookmark{
		Type:        BookmarkExtinction,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Mass fell to %.3f", stats.Mass),
	}
}

func (bd *BookmarkDetector) checkExplosion(stats WindowStats) *Bookmark {
	if stats.AliveFrac <= explosionFrac {
		bd.exploded = false
		return nil
	}
	if bd.exploded {
		return nil
	}
	bd.exploded = true
	return &Bookmark{
		Type:        BookmarkExplosion,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%.0f%% of cells alive", stats.AliveFrac*100),
	}
}

func (bd *BookmarkDetector) checkMassCrash(stats WindowStats) *Bookmark {
	if bd.peakMass <= extinctionMass || len(bd.recent(crashMinHistory)) < crashMinHistory {
		return nil
	}
	drop := 1 - stats.Mass/bd.peakMass
	if drop <= crashDrop {
		return nil
	}
	oldPeak := bd.peakMass
	bd.peakMass = stats.Mass
	return &Bookmark{
		Type:        BookmarkMassCrash,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Mass crashed %.0f%% from peak %.1f to %.1f", drop*100, oldPeak, stats.Mass),
	}
}

func (bd *BookmarkDetector) checkStable(stats WindowStats) *Bookmark {
	if stats.Mass < extinctionMass {
		bd.stableWindows = 0
		return nil
	}
	history := bd.recent(stableLookback)
	if len(history) < stableLookback {
		return nil
	}

	masses := make([]float64, len(history))
	for i, h := range history {
		masses[i] = h.Mass
	}
	mean, std := stat.MeanStdDev(masses, nil)
	if mean > 0 && std/mean < stableCV {
		bd.stableWindows++
	} else {
		bd.stableWindows = 0
	}

	if bd.stableWindows == stableWindows {
		return &Bookmark{
			Type:        BookmarkStable,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Mass steady near %.1f for %d windows", mean, stableWindows),
		}
	}
	return nil
}
