package game

import (
	"errors"
	"log/slog"

	"github.com/ncruces/zenity"
)

var (
	profileFilter = zenity.FileFilters{{
		Name:     "Settings profile",
		Patterns: []string{"*.yaml", "*.yml"},
		CaseFold: true,
	}}
	snapshotFilter = zenity.FileFilters{{
		Name:     "Snapshot",
		Patterns: []string{"*.json"},
		CaseFold: true,
	}}
)

// exportProfile asks for a file and writes the current parameters to it.
func (g *Game) exportProfile() {
	path, err := zenity.SelectFileSave(
		zenity.Title("Export Settings Profile"),
		zenity.Filename("lenia-profile.yaml"),
		zenity.ConfirmOverwrite(),
		profileFilter,
	)
	if err != nil {
		g.dialogFailed("export", err)
		return
	}
	if err := g.sess.Store().ExportProfile(path); err != nil {
		slog.Error("profile export failed", "path", path, "error", err)
		g.notify("export failed: " + err.Error())
		return
	}
	slog.Info("profile exported", "path", path)
	g.notify("exported " + path)
}

// importProfile asks for a profile and applies its known keys.
func (g *Game) importProfile() {
	path, err := zenity.SelectFile(
		zenity.Title("Import Settings Profile"),
		profileFilter,
	)
	if err != nil {
		g.dialogFailed("import", err)
		return
	}
	if err := g.sess.Store().ImportProfile(path); err != nil {
		slog.Error("profile import failed", "path", path, "error", err)
		g.notify("import failed: " + err.Error())
		return
	}
	slog.Info("profile imported", "path", path)
	g.notify("imported " + path)
}

func (g *Game) saveSnapshot() {
	path, err := g.sess.SaveSnapshot()
	if err != nil {
		g.notify("snapshot: " + err.Error())
		return
	}
	slog.Info("snapshot saved", "path", path)
	g.notify("saved " + path)
}

func (g *Game) loadSnapshot() {
	path, err := zenity.SelectFile(
		zenity.Title("Load Snapshot"),
		snapshotFilter,
	)
	if err != nil {
		g.dialogFailed("load snapshot", err)
		return
	}
	if err := g.sess.LoadSnapshot(path); err != nil {
		slog.Error("snapshot load failed", "path", path, "error", err)
		g.notify("load failed: " + err.Error())
		return
	}
	g.notify("loaded " + path)
}

func (g *Game) dialogFailed(action string, err error) {
	if errors.Is(err, zenity.ErrCanceled) {
		return
	}
	slog.Warn("file dialog failed", "action", action, "error", err)
	g.notify(action + " dialog failed")
}
