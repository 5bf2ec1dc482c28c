package viewer

import (
	"errors"
	"strings"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/stlview/internal/logger"
)

// pickFileNative shows the platform's open-file dialog.
func pickFileNative() (string, error) {
	return dialog.File().
		Filter("STL Models", "stl").
		Filter("Images", "jpg", "jpeg", "png", "bmp", "tga", "tif", "tiff", "webp").
		Filter("All Files", "*").
		Title("Open Model or Texture").
		Load()
}

// openFileDialog runs the file picker on its own goroutine so the loop keeps
// drawing. The chosen path is queued back to the interactive goroutine;
// at most one dialog is open at a time.
func (v *Viewer) openFileDialog() {
	if !v.dialogOpen.CompareAndSwap(false, true) {
		return
	}

	go func() {
		defer v.dialogOpen.Store(false)

		path, err := v.pickFile()
		if err != nil {
			if !errors.Is(err, dialog.ErrCancelled) {
				logger.Error("file dialog failed", zap.Error(err))
			}
			return
		}
		if strings.TrimSpace(path) == "" {
			return
		}

		logger.Info("file selected from dialog", zap.String("path", path))
		v.enqueue(queued{kind: queuedPick, path: path})
	}()
}
