package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/kitreg/kitreg/internal/domain"
	"github.com/kitreg/kitreg/internal/resolve"
)

var (
	groupStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1adf9a"))
	ownerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#1ac5ff"))
	versionStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#d4d4d4"))
	installedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cc6a"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#737373"))
)

// RenderGroups renders grouped catalog records as a package tree, newest
// version first, marking versions present in the installed set.
func RenderGroups(groups []resolve.KitGroup, installed []domain.InstalledKit) string {
	if len(groups) == 0 {
		return dimStyle.Render("No kits in the catalog.") + "\n"
	}

	var b strings.Builder
	for _, g := range groups {
		fmt.Fprintf(&b, "%s %s\n",
			groupStyle.Render(g.KitID),
			ownerStyle.Render("("+g.Owner+")"))
		if desc := g.Newest().Manifest.Description; desc != "" {
			fmt.Fprintf(&b, "  %s\n", dimStyle.Render(desc))
		}

		seen := make(map[string]bool)
		for _, r := range g.Records {
			v := r.Manifest.Version
			if seen[v] {
				// Repeated publishes of a version show up once.
				continue
			}
			seen[v] = true

			line := "  " + versionStyle.Render(v)
			if resolve.IsInstalled(installed, g.Owner, g.KitID, v) {
				line += " " + installedStyle.Render("✓ installed")
			}
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}

// RenderInstalled renders the local installed set.
func RenderInstalled(kits []domain.InstalledKit) string {
	if len(kits) == 0 {
		return dimStyle.Render("Nothing installed.") + "\n"
	}

	var b strings.Builder
	for _, k := range kits {
		fmt.Fprintf(&b, "%s %s %s\n",
			groupStyle.Render(k.KitID),
			ownerStyle.Render("("+k.Owner+")"),
			versionStyle.Render(k.Version))
	}
	return b.String()
}
