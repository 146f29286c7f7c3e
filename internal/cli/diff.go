package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/azdopanel/azdopanel/internal/application"
	"github.com/azdopanel/azdopanel/internal/diff"
)

var (
	diffHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	diffAddStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	diffRemoveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	diffNumberStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

var prDiffFile string

var prDiffCmd = &cobra.Command{
	Use:   "diff <id>",
	Short: "Show the diff of a pull request in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid pull request id %q", args[0])
		}

		client, _, err := newRemoteClient(cmd.Context())
		if err != nil {
			return err
		}

		provider := application.NewRemoteClientProvider(client)
		changes := application.NewChangeService(provider)

		list, err := changes.ListChangedFiles(cmd.Context(), id)
		if err != nil {
			return err
		}
		if len(list.Files) == 0 {
			fmt.Println(dimStyle.Render("no changed files"))
			return nil
		}

		for _, fc := range list.Files {
			if prDiffFile != "" && fc.Path != prDiffFile {
				continue
			}

			fd, err := changes.FetchFileDiff(cmd.Context(), fc, list.SourceRef, list.TargetRef)
			if err != nil {
				return fmt.Errorf("diffing %s: %w", fc.Path, err)
			}
			renderFileDiff(fd)
		}
		return nil
	},
}

func renderFileDiff(fd *application.FileDiff) {
	fmt.Println(diffHeaderStyle.Render(fmt.Sprintf("%s (%s)", fd.Path, fd.ChangeType)))

	for _, line := range fd.Lines {
		switch line.Type {
		case diff.Added:
			fmt.Printf("%s %s\n",
				diffNumberStyle.Render(fmt.Sprintf("     %4d", line.ModifiedLine)),
				diffAddStyle.Render("+ "+line.Text))
		case diff.Deleted:
			fmt.Printf("%s %s\n",
				diffNumberStyle.Render(fmt.Sprintf("%4d     ", line.OriginalLine)),
				diffRemoveStyle.Render("- "+line.Text))
		default:
			fmt.Printf("%s   %s\n",
				diffNumberStyle.Render(fmt.Sprintf("%4d %4d", line.OriginalLine, line.ModifiedLine)),
				line.Text)
		}
	}
	fmt.Println()
}

func init() {
	prDiffCmd.Flags().StringVar(&prDiffFile, "file", "", "Limit the diff to one file path")
}
