//go:build e2e

package e2e

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/umputun/openshift-uitest/openshift"
	"github.com/umputun/openshift-uitest/workbench"
)

// createComponentSuite walks the create component wizard from the Components welcome button.
// Every test leaves the Components section empty, the created component directory is removed
// through the control server.
type createComponentSuite struct {
	suite.Suite
	sb            *workbench.SideBar
	components    *workbench.Section
	button        *workbench.Button // nil if the welcome content has no create button
	componentName string
}

func TestCreateComponent(t *testing.T) {
	suite.Run(t, new(createComponentSuite))
}

func (s *createComponentSuite) SetupSuite() {
	s.sb = openView(s.T())
	s.Require().NoError(openshift.CollapseSections(s.sb, openshift.SectionAppExplorer, openshift.SectionRegistries,
		openshift.SectionServerless, openshift.SectionDebugSessions))
}

func (s *createComponentSuite) SetupTest() {
	s.componentName = ""
	s.components = section(s.T(), s.sb, openshift.SectionComponents)
	s.Require().NoError(s.components.Expand())
	s.Require().NoError(wb.EditorView().CloseAllEditors())

	s.button = nil
	welcome, err := s.components.WelcomeContent()
	if err != nil {
		return
	}
	if b, err := welcome.Button(openshift.ButtonNewComponent); err == nil {
		s.button = b
	}
}

func (s *createComponentSuite) TearDownTest() {
	if s.componentName == "" {
		return
	}
	removeComponent(s.T(), s.componentName)

	// collapse and expand to make the section re-read the workspace
	s.Require().NoError(s.components.Collapse())
	s.Require().NoError(s.components.Expand())
	refresh, err := s.components.Action(openshift.ActionRefreshComponents)
	s.Require().NoError(err)
	s.Require().NoError(refresh.Click())

	err = s.components.WaitNoItem(context.Background(), s.componentName, 10*time.Second)
	s.Require().NoError(err)
}

func (s *createComponentSuite) TestDefaultActions() {
	if s.button == nil {
		s.FailNow("No Create Component button found")
	}
}

func (s *createComponentSuite) TestFromGit() {
	s.startWizard()
	s.Require().NoError(openshift.NewCreateComponentPage(wb).FromGit())

	git := openshift.NewGitProjectPage(wb, openshift.EditorCreateComponent)
	s.Require().NoError(git.InsertGitLink("https://github.com/odo-devfiles/nodejs-ex"))
	s.Require().NoError(git.Next())
	s.continueSlow()

	s.createIn(workspaceDir, "node-js-runtime")
	s.waitComponent()
}

func (s *createComponentSuite) TestFromTemplate() {
	s.startWizard()
	s.Require().NoError(openshift.NewCreateComponentPage(wb).FromTemplate())

	s.Require().NoError(openshift.NewRegistryStackPage(wb, openshift.EditorCreateComponent).SelectStack("Node.js Runtime"))
	s.Require().NoError(openshift.NewDevfilePage(wb, openshift.EditorCreateComponent).UseDevfile())

	s.createIn(workspaceDir, "nodejs-starter")
	s.waitComponent()
}

func (s *createComponentSuite) TestFromLocalFolder() {
	s.T().Skip("local codebase flow needs a prepared project folder")
}

func (s *createComponentSuite) startWizard() {
	if s.button == nil {
		s.FailNow("No Create Component button found")
	}
	s.Require().NoError(s.button.Click())
	s.Require().NoError(wb.EditorView().OpenEditor(openshift.EditorCreateComponent))
}

// continueSlow accepts the detected devfile, analysis of the repository can take a while
func (s *createComponentSuite) continueSlow() {
	slow := workbench.New(wb.Page(), workbench.WithTimeout(60*time.Second))
	s.Require().NoError(openshift.NewGitProjectPage(slow, openshift.EditorCreateComponent).Continue())
}

// createIn names the component and creates it under dir, TearDownTest removes it afterwards
func (s *createComponentSuite) createIn(dir, name string) {
	page := openshift.NewNameAndFolderPage(wb, openshift.EditorCreateComponent)
	s.Require().NoError(page.SetName(name))
	s.componentName = name
	s.Require().NoError(page.SetProjectFolder(dir))
	s.Require().NoError(page.Create())
}

func (s *createComponentSuite) waitComponent() {
	_, err := s.components.WaitItem(context.Background(), s.componentName, 25*time.Second)
	s.Require().NoError(err)
}
