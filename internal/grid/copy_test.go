package grid

import (
	"errors"
	"testing"

	"github.com/golang/mock/gomock"

	"dgrid/internal/selection"
)

func newCopyGrid(t *testing.T) (*testGrid, *MockClipboard, *MockDialogs) {
	t.Helper()
	ctrl := gomock.NewController(t)
	clipboard := NewMockClipboard(ctrl)
	dialogs := NewMockDialogs(ctrl)
	g := newTestGrid(t, 5, func(o *Options) {
		o.Clipboard = clipboard
		o.Dialogs = dialogs
	})
	return g, clipboard, dialogs
}

func TestCopyToClipboard(t *testing.T) {
	tests := []struct {
		name    string
		headers CopyHeaders
		want    string
	}{
		{"none", CopyHeadersNone, "n00\tOslo\nn01\tLima"},
		{"row", CopyHeadersRow, "1\tn00\tOslo\n2\tn01\tLima"},
		{"column", CopyHeadersColumn, "name\tcity\nn00\tOslo\nn01\tLima"},
		{"all", CopyHeadersAll, "id\tname\tcity\n1\tn00\tOslo\n2\tn01\tLima"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, clipboard, _ := newCopyGrid(t)
			config := DefaultCopyConfig()
			config.Headers = tt.headers
			g.SetCopyConfig(config)
			g.selectCells(1, 1, 0, 0)

			clipboard.EXPECT().Copy(tt.want).Return(nil)
			if err := g.CopyToClipboard(); err != nil {
				t.Errorf("CopyToClipboard() error = %v", err)
			}
		})
	}
}

func TestCopyKeyBinding(t *testing.T) {
	g, clipboard, _ := newCopyGrid(t)
	g.SetKeyHandler(NewBasicKeyHandler())
	g.selectCells(2, 1, 2, 1)

	clipboard.EXPECT().Copy("Kyiv").Return(nil)
	if !g.HandleKeyDown(KeyEvent{Rune: 'c', Ctrl: true}) {
		t.Errorf("HandleKeyDown(ctrl+c) = false, want true")
	}
}

func TestCopyClipboardError(t *testing.T) {
	g, clipboard, _ := newCopyGrid(t)
	var reported []error
	g.onError = func(err error) { reported = append(reported, err) }
	g.SetKeyHandler(NewBasicKeyHandler())
	g.selectCells(0, 0, 0, 0)

	failure := errors.New("no display")
	clipboard.EXPECT().Copy("n00").Return(failure)
	g.HandleKeyDown(KeyEvent{Rune: 'c', Meta: true})
	if len(reported) != 1 || !errors.Is(reported[0], failure) {
		t.Errorf("reported = %v, want [%v]", reported, failure)
	}
}

func TestCopyMultipleSelections(t *testing.T) {
	g, _, dialogs := newCopyGrid(t)
	model := g.selectCells(0, 0, 0, 0)
	model.Select(selection.Args{R1: 2, C1: 2, R2: 3, C2: 2, Clear: selection.ClearNone})

	dialogs.EXPECT().Alert("Cannot copy multiple grid selections.")
	if err := g.CopyToClipboard(); err != nil {
		t.Errorf("CopyToClipboard() error = %v", err)
	}
}

func TestCopyWarningThreshold(t *testing.T) {
	g, clipboard, dialogs := newCopyGrid(t)
	config := DefaultCopyConfig()
	config.WarningThreshold = 3
	g.SetCopyConfig(config)
	g.selectCells(0, 0, 1, 1)

	gomock.InOrder(
		dialogs.EXPECT().Confirm("Copying 4 cells may take a while. Continue?").Return(false),
		dialogs.EXPECT().Confirm("Copying 4 cells may take a while. Continue?").Return(true),
		clipboard.EXPECT().Copy("n00\tOslo\nn01\tLima").Return(nil),
	)
	if err := g.CopyToClipboard(); err != nil {
		t.Errorf("CopyToClipboard() error = %v", err)
	}
	if err := g.CopyToClipboard(); err != nil {
		t.Errorf("CopyToClipboard() error = %v", err)
	}
}

func TestCopyWithoutSelection(t *testing.T) {
	g, _, _ := newCopyGrid(t)
	if err := g.CopyToClipboard(); err != nil {
		t.Errorf("CopyToClipboard() error = %v", err)
	}
}
