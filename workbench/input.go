package workbench

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// InputBox is the quick input widget used for prompts and file dialogs in simple dialog mode.
type InputBox struct {
	wb *Workbench
}

func (b *InputBox) input() playwright.Locator {
	return b.wb.page.Locator(".quick-input-widget .quick-input-box input").First()
}

// Wait waits for the input box to show up.
func (b *InputBox) Wait() error {
	if err := b.wb.waitVisible(b.input()); err != nil {
		return fmt.Errorf("input box: %w", err)
	}
	return nil
}

// SetText replaces the input text.
func (b *InputBox) SetText(text string) error {
	if err := b.Wait(); err != nil {
		return err
	}
	if err := b.input().Fill(text); err != nil {
		return fmt.Errorf("failed to set input text: %w", err)
	}
	return nil
}

// Text returns the current input text.
func (b *InputBox) Text() (string, error) {
	return b.input().InputValue()
}

// Confirm accepts the input and waits for the widget to close.
func (b *InputBox) Confirm() error {
	if err := b.input().Press("Enter"); err != nil {
		return fmt.Errorf("failed to confirm input: %w", err)
	}
	if err := b.wb.waitHidden(b.wb.page.Locator(".quick-input-widget").First()); err != nil {
		return fmt.Errorf("input box still shown: %w", err)
	}
	return nil
}
