package workbench

import (
	"errors"
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// errFrameReleased is returned when a Frame is used after its Within call returned
var errFrameReleased = errors.New("webview frame used outside of Within")

// Webview is the sandboxed content of the active editor. The IDE hosts it in an outer iframe with the
// actual page in a nested "active-frame" iframe; hidden editors keep their webviews but not visible.
type Webview struct {
	wb *Workbench
}

func (v *Webview) frame() playwright.FrameLocator {
	return v.wb.page.FrameLocator("iframe.webview.ready:visible").FrameLocator("iframe#active-frame")
}

// Within runs fn with access to the webview content. The frame handed to fn is valid only for the
// duration of the call, outer shell interactions belong after Within returns.
func (v *Webview) Within(fn func(f *Frame) error) error {
	f := &Frame{wb: v.wb, fl: v.frame()}
	defer f.release()

	if err := v.wb.waitVisible(f.fl.Locator("body")); err != nil {
		return fmt.Errorf("webview not ready: %w", err)
	}
	return fn(f)
}

// Frame gives access to the webview content inside Within.
type Frame struct {
	wb       *Workbench
	fl       playwright.FrameLocator
	released bool
}

func (f *Frame) release() { f.released = true }

// locator resolves a CSS, text or xpath (prefixed with "xpath=") selector. Locators never leave
// the Frame methods, so nothing outlives Within.
func (f *Frame) locator(selector string) (playwright.Locator, error) {
	if f.released {
		return nil, errFrameReleased
	}
	return f.fl.Locator(selector), nil
}

// visible waits for the first element matching selector.
func (f *Frame) visible(selector string) (playwright.Locator, error) {
	loc, err := f.locator(selector)
	if err != nil {
		return nil, err
	}
	loc = loc.First()
	if err := f.wb.waitVisible(loc); err != nil {
		return nil, fmt.Errorf("webview element %s: %w", selector, err)
	}
	return loc, nil
}

// WaitVisible waits for the first element matching selector to show up.
func (f *Frame) WaitVisible(selector string) error {
	_, err := f.visible(selector)
	return err
}

// Fill types text into the first element matching selector.
func (f *Frame) Fill(selector, text string) error {
	loc, err := f.visible(selector)
	if err != nil {
		return err
	}
	if err := loc.Fill(text); err != nil {
		return fmt.Errorf("failed to fill %s: %w", selector, err)
	}
	return nil
}

// Click clicks the first element matching selector once it is visible and enabled.
func (f *Frame) Click(selector string) error {
	loc, err := f.visible(selector)
	if err != nil {
		return err
	}
	if err := loc.Click(playwright.LocatorClickOptions{Timeout: f.wb.ms()}); err != nil {
		return fmt.Errorf("failed to click %s: %w", selector, err)
	}
	return nil
}

// Count returns the number of elements matching selector right now, without waiting.
func (f *Frame) Count(selector string) (int, error) {
	loc, err := f.locator(selector)
	if err != nil {
		return 0, err
	}
	return loc.Count()
}

// Enabled reports whether the first element matching selector is enabled.
func (f *Frame) Enabled(selector string) (bool, error) {
	loc, err := f.visible(selector)
	if err != nil {
		return false, err
	}
	return loc.IsEnabled()
}
