package telemetry

import "testing"

func hasBookmark(bms []Bookmark, typ BookmarkType) bool {
	for _, b := range bms {
		if b.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_Extinction(t *testing.T) {
	bd := NewBookmarkDetector(10)
	bd.Check(WindowStats{WindowEndTick: 60, Mass: 40})

	bms := bd.Check(WindowStats{WindowEndTick: 120, Mass: 0.2})
	if !hasBookmark(bms, BookmarkExtinction) {
		t.Error("expected extinction bookmark")
	}

	// Still extinct: no repeat
	if hasBookmark(bd.Check(WindowStats{WindowEndTick: 180, Mass: 0}), BookmarkExtinction) {
		t.Error("extinction bookmark repeated")
	}
}

func TestBookmarkDetector_Explosion(t *testing.T) {
	bd := NewBookmarkDetector(10)
	if !hasBookmark(bd.Check(WindowStats{Mass: 900, AliveFrac: 0.7}), BookmarkExplosion) {
		t.Error("expected explosion bookmark")
	}
	if hasBookmark(bd.Check(WindowStats{Mass: 950, AliveFrac: 0.8}), BookmarkExplosion) {
		t.Error("explosion bookmark repeated")
	}
}

func TestBookmarkDetector_MassCrash(t *testing.T) {
	bd := NewBookmarkDetector(10)
	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int64(i * 60), Mass: 100})
	}

	bms := bd.Check(WindowStats{WindowEndTick: 300, Mass: 50})
	if !hasBookmark(bms, BookmarkMassCrash) {
		t.Error("expected mass_crash bookmark")
	}
	if hasBookmark(bd.Check(WindowStats{WindowEndTick: 360, Mass: 48}), BookmarkMassCrash) {
		t.Error("crash bookmark repeated without a new peak")
	}
}

func TestBookmarkDetector_Stable(t *testing.T) {
	bd := NewBookmarkDetector(10)
	fired := 0
	for i := 0; i < 20; i++ {
		mass := 50.0
		if i%2 == 1 {
			mass = 50.5
		}
		if hasBookmark(bd.Check(WindowStats{WindowEndTick: int64(i * 60), Mass: mass}), BookmarkStable) {
			fired++
		}
	}
	if fired != 1 {
		t.Errorf("stable bookmark fired %d times, want 1", fired)
	}
}

func TestBookmarkDetector_Reset(t *testing.T) {
	bd := NewBookmarkDetector(3)
	bd.Check(WindowStats{Mass: 0})
	bd.Reset()
	if !hasBookmark(bd.Check(WindowStats{Mass: 0}), BookmarkExtinction) {
		t.Error("reset detector should report extinction again")
	}
}
