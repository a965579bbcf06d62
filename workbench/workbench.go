// Package workbench provides page objects for the IDE shell, driven through playwright over the
// remote debugging protocol. Objects are thin wrappers over locators, every lookup waits for the
// element instead of sleeping for a fixed time.
package workbench

import (
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

const defaultTimeout = 10 * time.Second

// Workbench is the IDE window.
type Workbench struct {
	page    playwright.Page
	timeout time.Duration
}

// Option customizes Workbench.
type Option func(w *Workbench)

// WithTimeout sets how long element lookups wait.
func WithTimeout(d time.Duration) Option {
	return func(w *Workbench) {
		if d > 0 {
			w.timeout = d
		}
	}
}

// New makes a Workbench for the given IDE window page.
func New(page playwright.Page, opts ...Option) *Workbench {
	w := &Workbench{page: page, timeout: defaultTimeout}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Page returns the underlying playwright page.
func (w *Workbench) Page() playwright.Page { return w.page }

// Timeout returns the lookup timeout.
func (w *Workbench) Timeout() time.Duration { return w.timeout }

// ViewControl returns the activity bar entry with the given title.
func (w *Workbench) ViewControl(title string) *ViewControl {
	return &ViewControl{wb: w, title: title}
}

// OpenView opens the side bar view by its activity bar title.
func (w *Workbench) OpenView(title string) (*SideBar, error) {
	return w.ViewControl(title).Open()
}

// EditorView returns the editor area.
func (w *Workbench) EditorView() *EditorView { return &EditorView{wb: w} }

// Notifications returns notification toasts and center.
func (w *Workbench) Notifications() *Notifications { return &Notifications{wb: w} }

// InputBox returns the quick input widget.
func (w *Workbench) InputBox() *InputBox { return &InputBox{wb: w} }

// Webview returns the webview of the active editor.
func (w *Workbench) Webview() *Webview { return &Webview{wb: w} }

// ExecuteCommand runs a command through the command palette, i.e. "View: Close All Editors".
func (w *Workbench) ExecuteCommand(command string) error {
	if err := w.page.Keyboard().Press("F1"); err != nil {
		return fmt.Errorf("failed to open command palette: %w", err)
	}
	input := w.page.Locator(".quick-input-widget .quick-input-box input")
	if err := w.waitVisible(input); err != nil {
		return fmt.Errorf("command palette not shown: %w", err)
	}
	if err := input.Fill(">" + command); err != nil {
		return fmt.Errorf("failed to type command %q: %w", command, err)
	}
	row := w.page.Locator(fmt.Sprintf(".quick-input-list .monaco-list-row:has(.label-name:text-is(%q))", command))
	if err := w.waitVisible(row.First()); err != nil {
		return fmt.Errorf("command %q not found: %w", command, err)
	}
	if err := input.Press("Enter"); err != nil {
		return fmt.Errorf("failed to run command %q: %w", command, err)
	}
	return nil
}

func (w *Workbench) waitVisible(loc playwright.Locator) error {
	return loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: w.ms(),
	})
}

func (w *Workbench) waitHidden(loc playwright.Locator) error {
	return loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateHidden,
		Timeout: w.ms(),
	})
}

func (w *Workbench) ms() *float64 {
	return playwright.Float(float64(w.timeout.Milliseconds()))
}

// text returns trimmed text content, falling back to the title attribute for icon-only elements
func text(loc playwright.Locator) (string, error) {
	txt, err := loc.TextContent()
	if err != nil {
		return "", err
	}
	if txt = strings.TrimSpace(txt); txt != "" {
		return txt, nil
	}
	title, err := loc.GetAttribute("title")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(title), nil
}
