// Package openshift describes the UI surface of the OpenShift extension: view and button titles,
// literal messages and page objects for its webviews.
package openshift

import (
	"fmt"
	"log"
	"slices"

	"github.com/umputun/openshift-uitest/workbench"
)

// side bar view and its sections
const (
	ViewOpenShift          = "OpenShift"
	SectionAppExplorer     = "Application Explorer"
	SectionComponents      = "Components"
	SectionRegistries      = "Devfile Registries"
	SectionServerless      = "Serverless Functions"
	SectionDebugSessions   = "Debug Sessions"
	DefaultDevfileRegistry = "DefaultDevfileRegistry"
)

// welcome content buttons
const (
	ButtonLogin         = "Login to Cluster"
	ButtonKubeContext   = "Change Current Context"
	ButtonAddCluster    = "Add OpenShift Cluster"
	ButtonNewComponent  = "Create Component"
	ButtonImportFromGit = "Import from Git"
)

// section actions and editor titles
const (
	ActionRefreshComponents = "Refresh Components View"
	EditorCreateComponent   = "Create Component"
	EditorGitImport         = "Git Import"
)

// ComponentCreatedMessage is the notification shown once a component is created from git.
func ComponentCreatedMessage(name string) string {
	return fmt.Sprintf("Component '%s' successfully created. Perform actions on it from Components View.", name)
}

// CollapseSections collapses the named sections of the side bar. Sections missing in the current
// extension build are skipped.
func CollapseSections(sb *workbench.SideBar, titles ...string) error {
	present, err := sb.SectionTitles()
	if err != nil {
		return err
	}
	for _, title := range titles {
		if !slices.Contains(present, title) {
			log.Printf("[DEBUG] section %q not shown, skip collapsing", title)
			continue
		}
		section, err := sb.Section(title)
		if err != nil {
			return err
		}
		if err := section.Collapse(); err != nil {
			return fmt.Errorf("failed to collapse %q: %w", title, err)
		}
	}
	return nil
}
