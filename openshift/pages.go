package openshift

import (
	"fmt"

	"github.com/umputun/openshift-uitest/workbench"
)

// selectors of the extension webviews, the forms are rendered by MUI so ids are not stable and
// elements are located by their visible text
const (
	selFromGit         = `xpath=//button[contains(., "Import from Git")]`
	selFromTemplate    = `xpath=//button[contains(., "Create From Template")]`
	selRepoInput       = `xpath=//input[@id="bootstrap-input"]`
	selNext            = `xpath=//button[contains(text(), "Next")]`
	selContinue        = `xpath=//button[contains(text(), "Continue with this devfile")]`
	selAnalyze         = `xpath=//button[contains(text(), "Analyze")]`
	selRecommendation  = `xpath=//p[contains(text(), "Here is the recommended devfile")]`
	selCreateComponent = `xpath=//button[contains(text(), "Create Component")]`
	selComponentName   = `xpath=//label[contains(text(), "Component Name")]/following::input[1]`
	selParentFolder    = `xpath=//label[contains(text(), "Parent Folder")]/following::input[1]`
	selUseDevfile      = `xpath=//button[contains(text(), "Use Devfile")]`
)

// editorPage is a webview hosted in the named editor
type editorPage struct {
	wb     *workbench.Workbench
	editor string
}

// within activates the editor and runs fn inside its webview
func (p editorPage) within(fn func(f *workbench.Frame) error) error {
	if err := p.wb.EditorView().OpenEditor(p.editor); err != nil {
		return err
	}
	if err := p.wb.Webview().Within(fn); err != nil {
		return fmt.Errorf("%s: %w", p.editor, err)
	}
	return nil
}

func (p editorPage) click(selector string) error {
	return p.within(func(f *workbench.Frame) error { return f.Click(selector) })
}

// CreateComponentPage is the first page of the create component wizard, choosing where the component comes from.
type CreateComponentPage struct{ editorPage }

// NewCreateComponentPage makes the page object for the "Create Component" editor.
func NewCreateComponentPage(wb *workbench.Workbench) *CreateComponentPage {
	return &CreateComponentPage{editorPage{wb: wb, editor: EditorCreateComponent}}
}

// Editor returns the title of the editor hosting the wizard.
func (p *CreateComponentPage) Editor() string { return p.editor }

// FromGit picks the "Import from Git" way.
func (p *CreateComponentPage) FromGit() error { return p.click(selFromGit) }

// FromTemplate picks the devfile template way.
func (p *CreateComponentPage) FromTemplate() error { return p.click(selFromTemplate) }

// GitProjectPage asks for the repository and shows the detected devfile.
type GitProjectPage struct{ editorPage }

// NewGitProjectPage makes the git page of the wizard hosted in the given editor.
func NewGitProjectPage(wb *workbench.Workbench, editor string) *GitProjectPage {
	return &GitProjectPage{editorPage{wb: wb, editor: editor}}
}

// InsertGitLink types the repository url.
func (p *GitProjectPage) InsertGitLink(url string) error {
	return p.within(func(f *workbench.Frame) error { return f.Fill(selRepoInput, url) })
}

// Next submits the repository for analysis.
func (p *GitProjectPage) Next() error { return p.click(selNext) }

// Continue accepts the recommended devfile. The button shows up once analysis is done.
func (p *GitProjectPage) Continue() error { return p.click(selContinue) }

// NameAndFolderPage is the last page of the wizard.
type NameAndFolderPage struct{ editorPage }

// NewNameAndFolderPage makes the name and folder page hosted in the given editor.
func NewNameAndFolderPage(wb *workbench.Workbench, editor string) *NameAndFolderPage {
	return &NameAndFolderPage{editorPage{wb: wb, editor: editor}}
}

// SetName replaces the proposed component name.
func (p *NameAndFolderPage) SetName(name string) error {
	return p.within(func(f *workbench.Frame) error { return f.Fill(selComponentName, name) })
}

// SetProjectFolder sets the parent folder the component is created in.
func (p *NameAndFolderPage) SetProjectFolder(path string) error {
	return p.within(func(f *workbench.Frame) error { return f.Fill(selParentFolder, path) })
}

// Create presses "Create Component".
func (p *NameAndFolderPage) Create() error { return p.click(selCreateComponent) }

// RegistryStackPage lists devfile stacks of the registries.
type RegistryStackPage struct{ editorPage }

// NewRegistryStackPage makes the stack list page hosted in the given editor.
func NewRegistryStackPage(wb *workbench.Workbench, editor string) *RegistryStackPage {
	return &RegistryStackPage{editorPage{wb: wb, editor: editor}}
}

// SelectStack opens the stack with the given display name.
func (p *RegistryStackPage) SelectStack(name string) error {
	return p.click(fmt.Sprintf(`xpath=//p[text()="%s"]`, name))
}

// DevfilePage is the stack details window.
type DevfilePage struct{ editorPage }

// NewDevfilePage makes the stack details page hosted in the given editor.
func NewDevfilePage(wb *workbench.Workbench, editor string) *DevfilePage {
	return &DevfilePage{editorPage{wb: wb, editor: editor}}
}

// UseDevfile accepts the stack.
func (p *DevfilePage) UseDevfile() error { return p.click(selUseDevfile) }

// GitImportPage is the "Git Import" editor opened from the Application Explorer.
type GitImportPage struct{ editorPage }

// NewGitImportPage makes the page object for the "Git Import" editor.
func NewGitImportPage(wb *workbench.Workbench) *GitImportPage {
	return &GitImportPage{editorPage{wb: wb, editor: EditorGitImport}}
}

// SetRepository types the repository url.
func (p *GitImportPage) SetRepository(url string) error {
	return p.within(func(f *workbench.Frame) error { return f.Fill(selRepoInput, url) })
}

// Analyze starts the analysis. The IDE asks for a clone folder right after.
func (p *GitImportPage) Analyze() error { return p.click(selAnalyze) }

// HasRecommendation waits for the recommended devfile text.
func (p *GitImportPage) HasRecommendation() error {
	return p.within(func(f *workbench.Frame) error {
		return f.WaitVisible(selRecommendation)
	})
}

// HasDevfileCard waits for the card of the given stack, i.e. "java-maven".
func (p *GitImportPage) HasDevfileCard(stack string) error {
	return p.within(func(f *workbench.Frame) error {
		return f.WaitVisible(fmt.Sprintf(`xpath=//div[@data-testid = "card-%s"]`, stack))
	})
}

// CreateComponent checks the create button is enabled and presses it.
func (p *GitImportPage) CreateComponent() error {
	return p.within(func(f *workbench.Frame) error {
		enabled, err := f.Enabled(selCreateComponent)
		if err != nil {
			return err
		}
		if !enabled {
			return fmt.Errorf("create component button is disabled")
		}
		return f.Click(selCreateComponent)
	})
}
