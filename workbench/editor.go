package workbench

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// EditorView is the editor area with its tabs.
type EditorView struct {
	wb *Workbench
}

func (e *EditorView) tabs() playwright.Locator {
	return e.wb.page.Locator(".part.editor .tabs-container .tab")
}

// Titles returns titles of the open editor tabs.
func (e *EditorView) Titles() ([]string, error) {
	titles, err := e.tabs().Locator(".label-name").AllTextContents()
	if err != nil {
		return nil, fmt.Errorf("editor titles: %w", err)
	}
	for i := range titles {
		titles[i] = strings.TrimSpace(titles[i])
	}
	return titles, nil
}

// OpenEditor waits for the tab with the given title and activates it.
func (e *EditorView) OpenEditor(title string) error {
	tab := e.wb.page.Locator(fmt.Sprintf(".part.editor .tabs-container .tab:has(.label-name:text-is(%q))", title)).First()
	if err := e.wb.waitVisible(tab); err != nil {
		return fmt.Errorf("editor %q: %w", title, err)
	}
	if err := tab.Click(); err != nil {
		return fmt.Errorf("failed to activate editor %q: %w", title, err)
	}
	return nil
}

// ActiveTitle returns the title of the active tab, empty if no editor is open.
func (e *EditorView) ActiveTitle() (string, error) {
	active := e.wb.page.Locator(".part.editor .tabs-container .tab.active .label-name")
	n, err := active.Count()
	if err != nil || n == 0 {
		return "", err
	}
	return text(active.First())
}

// CloseAllEditors closes every editor and waits for the tabs to go away.
func (e *EditorView) CloseAllEditors() error {
	n, err := e.tabs().Count()
	if err != nil {
		return fmt.Errorf("editor tabs: %w", err)
	}
	if n == 0 {
		return nil
	}
	if err := e.wb.ExecuteCommand("View: Close All Editors"); err != nil {
		return err
	}
	return Poll(context.Background(), e.wb.timeout, 100*time.Millisecond, func() (bool, error) {
		n, err := e.tabs().Count()
		return n == 0, err
	})
}
