package workbench

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// ViewControl is an activity bar entry opening a side bar view.
type ViewControl struct {
	wb    *Workbench
	title string
}

func (v *ViewControl) locator() playwright.Locator {
	return v.wb.page.Locator(fmt.Sprintf(".part.activitybar .action-item:has(a.action-label[aria-label^=%q])", v.title))
}

// Open shows the view in the side bar. Already opened view is left as is, clicking it again would hide it.
func (v *ViewControl) Open() (*SideBar, error) {
	item := v.locator().First()
	if err := v.wb.waitVisible(item); err != nil {
		return nil, fmt.Errorf("view control %q: %w", v.title, err)
	}
	class, err := item.GetAttribute("class")
	if err != nil {
		return nil, fmt.Errorf("view control %q state: %w", v.title, err)
	}
	if !hasClass(class, "checked") {
		if err := item.Locator("a.action-label").Click(); err != nil {
			return nil, fmt.Errorf("failed to open view %q: %w", v.title, err)
		}
	}
	sb := &SideBar{wb: v.wb, title: v.title}
	if err := v.wb.waitVisible(sb.locator().Locator(".pane").First()); err != nil {
		return nil, fmt.Errorf("view %q not shown: %w", v.title, err)
	}
	return sb, nil
}

// SideBar is an opened side bar view made of collapsible sections.
type SideBar struct {
	wb    *Workbench
	title string
}

func (s *SideBar) locator() playwright.Locator {
	return s.wb.page.Locator(".part.sidebar")
}

// Title returns the title of the view the side bar was opened for.
func (s *SideBar) Title() string { return s.title }

// Section returns the section with exactly the given title, waiting for it to appear.
func (s *SideBar) Section(title string) (*Section, error) {
	loc := s.locator().Locator(fmt.Sprintf(".pane:has(.pane-header h3.title:text-is(%q))", title)).First()
	if err := s.wb.waitVisible(loc); err != nil {
		return nil, fmt.Errorf("section %q: %w", title, err)
	}
	return &Section{wb: s.wb, loc: loc, title: title}, nil
}

// SectionTitles returns titles of all sections in display order.
func (s *SideBar) SectionTitles() ([]string, error) {
	titles, err := s.locator().Locator(".pane .pane-header h3.title").AllTextContents()
	if err != nil {
		return nil, fmt.Errorf("section titles: %w", err)
	}
	for i := range titles {
		titles[i] = strings.TrimSpace(titles[i])
	}
	return titles, nil
}

// Section is a collapsible part of a side bar view, a tree with optional welcome content.
type Section struct {
	wb    *Workbench
	loc   playwright.Locator
	title string
}

// Title returns the displayed section title.
func (s *Section) Title() (string, error) {
	return text(s.header().Locator("h3.title"))
}

func (s *Section) header() playwright.Locator { return s.loc.Locator(".pane-header").First() }

// IsExpanded reports whether the section body is shown.
func (s *Section) IsExpanded() (bool, error) {
	v, err := s.header().GetAttribute("aria-expanded")
	if err != nil {
		return false, fmt.Errorf("section %q state: %w", s.title, err)
	}
	return v == "true", nil
}

// Expand opens the section, no-op if already expanded.
func (s *Section) Expand() error { return s.toggle(true) }

// Collapse closes the section, no-op if already collapsed.
func (s *Section) Collapse() error { return s.toggle(false) }

func (s *Section) toggle(expand bool) error {
	expanded, err := s.IsExpanded()
	if err != nil {
		return err
	}
	if expanded == expand {
		return nil
	}
	if err := s.header().Click(); err != nil {
		return fmt.Errorf("failed to toggle section %q: %w", s.title, err)
	}
	want := s.loc.Locator(fmt.Sprintf(`.pane-header[aria-expanded="%t"]`, expand))
	if err := s.wb.waitVisible(want.First()); err != nil {
		return fmt.Errorf("section %q expanded=%v: %w", s.title, expand, err)
	}
	return nil
}

// WelcomeContent returns the welcome content of the section, or ErrNotFound if the section has none.
// The section is expanded first.
func (s *Section) WelcomeContent() (*WelcomeContent, error) {
	if err := s.Expand(); err != nil {
		return nil, err
	}
	loc := s.loc.Locator(".pane-body .welcome-view-content").First()
	if err := s.wb.waitVisible(loc); err != nil {
		return nil, fmt.Errorf("welcome content of %q: %w: %w", s.title, ErrNotFound, err)
	}
	return &WelcomeContent{wb: s.wb, loc: loc}, nil
}

// Actions returns the header actions. They are shown on hover only, so the header is hovered first.
func (s *Section) Actions() ([]*Action, error) {
	if err := s.header().Hover(); err != nil {
		return nil, fmt.Errorf("failed to hover section %q: %w", s.title, err)
	}
	locs, err := s.header().Locator(".actions .action-item a.action-label").All()
	if err != nil {
		return nil, fmt.Errorf("actions of %q: %w", s.title, err)
	}
	res := make([]*Action, 0, len(locs))
	for _, loc := range locs {
		res = append(res, &Action{loc: loc})
	}
	return res, nil
}

// Action returns the header action with the given label.
func (s *Section) Action(label string) (*Action, error) {
	actions, err := s.Actions()
	if err != nil {
		return nil, err
	}
	action, err := FindByTitle(actions, label)
	if err != nil {
		return nil, fmt.Errorf("action of %q: %w", s.title, err)
	}
	return action, nil
}

func (s *Section) item(label string) playwright.Locator {
	return s.loc.Locator(fmt.Sprintf(".pane-body .monaco-list-row:has(.label-name:text-is(%q))", label)).First()
}

// FindItem returns the tree item with the given label, nil if there is no such item.
func (s *Section) FindItem(label string) (*TreeItem, error) {
	if err := s.Expand(); err != nil {
		return nil, err
	}
	loc := s.item(label)
	n, err := loc.Count()
	if err != nil {
		return nil, fmt.Errorf("item %q in %q: %w", label, s.title, err)
	}
	if n == 0 {
		return nil, nil
	}
	return &TreeItem{loc: loc, label: label}, nil
}

// WaitItem polls until the tree item with the given label shows up.
func (s *Section) WaitItem(ctx context.Context, label string, timeout time.Duration) (*TreeItem, error) {
	var item *TreeItem
	err := Poll(ctx, timeout, 250*time.Millisecond, func() (bool, error) {
		var err error
		item, err = s.FindItem(label)
		return item != nil, err
	})
	if err != nil {
		return nil, fmt.Errorf("item %q in %q: %w", label, s.title, err)
	}
	return item, nil
}

// WaitNoItem polls until the tree item with the given label is gone.
func (s *Section) WaitNoItem(ctx context.Context, label string, timeout time.Duration) error {
	err := Poll(ctx, timeout, 250*time.Millisecond, func() (bool, error) {
		item, err := s.FindItem(label)
		return item == nil, err
	})
	if err != nil {
		return fmt.Errorf("item %q still in %q: %w", label, s.title, err)
	}
	return nil
}

// TreeItem is a row of a section tree.
type TreeItem struct {
	loc   playwright.Locator
	label string
}

// Label returns the item label.
func (t *TreeItem) Label() string { return t.label }

// Click selects the item.
func (t *TreeItem) Click() error { return t.loc.Click() }

// Action is a clickable icon in a section header.
type Action struct {
	loc playwright.Locator
}

// Title returns the action label.
func (a *Action) Title() (string, error) {
	label, err := a.loc.GetAttribute("aria-label")
	if err != nil {
		return "", err
	}
	if label != "" {
		return strings.TrimSpace(label), nil
	}
	return text(a.loc)
}

// Click triggers the action.
func (a *Action) Click() error { return a.loc.Click() }

func hasClass(class, name string) bool {
	for _, c := range strings.Fields(class) {
		if c == name {
			return true
		}
	}
	return false
}
