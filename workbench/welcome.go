package workbench

import (
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"
)

// WelcomeContent is the placeholder shown by an empty section: text paragraphs and action buttons.
type WelcomeContent struct {
	wb  *Workbench
	loc playwright.Locator
}

// TextSections returns non-empty paragraphs of the welcome text.
func (c *WelcomeContent) TextSections() ([]string, error) {
	texts, err := c.loc.Locator("p").AllTextContents()
	if err != nil {
		return nil, fmt.Errorf("welcome text: %w", err)
	}
	res := make([]string, 0, len(texts))
	for _, t := range texts {
		if t = strings.TrimSpace(t); t != "" {
			res = append(res, t)
		}
	}
	return res, nil
}

// Buttons returns the welcome buttons in display order.
func (c *WelcomeContent) Buttons() ([]*Button, error) {
	locs, err := c.loc.Locator(".monaco-button").All()
	if err != nil {
		return nil, fmt.Errorf("welcome buttons: %w", err)
	}
	res := make([]*Button, 0, len(locs))
	for _, loc := range locs {
		res = append(res, &Button{loc: loc})
	}
	return res, nil
}

// Button returns the welcome button with exactly the given title.
func (c *WelcomeContent) Button(title string) (*Button, error) {
	buttons, err := c.Buttons()
	if err != nil {
		return nil, err
	}
	return FindByTitle(buttons, title)
}

// Button is a welcome content button.
type Button struct {
	loc playwright.Locator
}

// Title returns the button label.
func (b *Button) Title() (string, error) { return text(b.loc) }

// Click presses the button.
func (b *Button) Click() error { return b.loc.Click() }
