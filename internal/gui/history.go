package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"codeberg.org/snonux/vjtalk/internal/session"
)

// HistoryView lists the turns of a conversation, newest first.
type HistoryView struct {
	widget.BaseWidget

	box    *fyne.Container
	scroll *container.Scroll
}

// NewHistoryView creates an empty history list.
func NewHistoryView() *HistoryView {
	h := &HistoryView{box: container.NewVBox()}
	h.scroll = container.NewVScroll(h.box)
	h.scroll.SetMinSize(fyne.NewSize(0, 200))
	h.ExtendBaseWidget(h)
	return h
}

// CreateRenderer implements fyne.Widget
func (h *HistoryView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(h.scroll)
}

// Show replaces the list with the session's turns. Must run on the UI goroutine.
func (h *HistoryView) Show(sess *session.Session) {
	turns := sess.Reversed()
	objects := make([]fyne.CanvasObject, 0, len(turns))
	for _, t := range turns {
		title := widget.NewLabelWithStyle(TurnTitle(t), fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
		body := widget.NewLabel(TurnBody(t))
		body.Wrapping = fyne.TextWrapWord
		if t.Failed {
			body.Importance = widget.DangerImportance
		}
		objects = append(objects, container.NewVBox(title, body, widget.NewSeparator()))
	}
	h.box.Objects = objects
	h.box.Refresh()
	h.scroll.ScrollToTop()
}
