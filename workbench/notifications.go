package workbench

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Notifications gives access to notification toasts and the notification center.
type Notifications struct {
	wb *Workbench
}

// Messages returns texts of all notifications currently rendered, toasts and center both.
func (n *Notifications) Messages() ([]string, error) {
	texts, err := n.wb.page.Locator(".notification-list-item .notification-list-item-message").AllTextContents()
	if err != nil {
		return nil, fmt.Errorf("notification messages: %w", err)
	}
	for i := range texts {
		texts[i] = strings.TrimSpace(texts[i])
	}
	return texts, nil
}

// Wait polls for a notification with exactly the given message.
func (n *Notifications) Wait(ctx context.Context, message string, timeout time.Duration) error {
	err := Poll(ctx, timeout, 200*time.Millisecond, func() (bool, error) {
		msgs, err := n.Messages()
		if err != nil {
			return false, err
		}
		for _, m := range msgs {
			if m == message {
				return true, nil
			}
		}
		return false, nil
	})
	if err != nil {
		return fmt.Errorf("notification %q: %w", message, err)
	}
	return nil
}

// ClearAll dismisses all notifications.
func (n *Notifications) ClearAll() error {
	if err := n.wb.ExecuteCommand("Notifications: Clear All Notifications"); err != nil {
		return err
	}
	return Poll(context.Background(), n.wb.timeout, 100*time.Millisecond, func() (bool, error) {
		msgs, err := n.Messages()
		return len(msgs) == 0, err
	})
}
