package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"promoreel/internal/timeline"
	"promoreel/pkg/projectfile"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <project.yaml>",
		Short: "Check a project file without rendering",
		Args:  cobra.ExactArgs(1),
		RunE:  runValidate,
	}
}

type validateReport struct {
	Project  string   `json:"project"`
	Valid    bool     `json:"valid"`
	Problems []string `json:"problems,omitempty"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	report := validateReport{Valid: true}

	project, err := projectfile.Load(args[0])
	report.Project = project.ID

	var fileErrs projectfile.ValidationErrors
	switch {
	case errors.As(err, &fileErrs):
		report.Valid = false
		for _, issue := range fileErrs.Issues() {
			report.Problems = append(report.Problems, issue.Error())
		}
	case err != nil:
		return err
	}

	result := timeline.Validate(project.Slides)
	if !result.Valid() {
		report.Valid = false
		for _, finding := range result.Findings {
			report.Problems = append(report.Problems, finding.String())
		}
	}

	out := cmd.OutOrStdout()
	if outputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else if report.Valid {
		fmt.Fprintf(out, "%s %s: timeline is valid (%d slides, %.1fs)\n",
			okStyle.Render("ok"), report.Project, len(project.Slides), timeline.TotalDuration(project.Slides))
	} else {
		fmt.Fprintf(out, "%s %s: %d problem(s)\n", errStyle.Render("invalid"), report.Project, len(report.Problems))
		for _, p := range report.Problems {
			fmt.Fprintf(out, "  - %s\n", p)
		}
	}

	if !report.Valid {
		return fmt.Errorf("project %q failed validation", report.Project)
	}
	return nil
}
