package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/azdopanel/azdopanel/internal/domain/model"
)

var (
	statusStyles = map[model.PRStatus]lipgloss.Style{
		model.PRStatusActive:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")), // green
		model.PRStatusCompleted: lipgloss.NewStyle().Foreground(lipgloss.Color("4")), // blue
		model.PRStatusAbandoned: lipgloss.NewStyle().Foreground(lipgloss.Color("8")), // gray
	}

	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

var prCmd = &cobra.Command{
	Use:   "pr",
	Short: "Browse and act on pull requests",
}

var prListStatus string

var prListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pull requests",
	RunE: func(cmd *cobra.Command, _ []string) error {
		status := model.PRStatus(prListStatus)
		switch status {
		case model.PRStatusActive, model.PRStatusCompleted, model.PRStatusAbandoned,
			model.PRStatusNotSet, model.PRStatusAll:
		default:
			return fmt.Errorf("invalid status %q", prListStatus)
		}

		client, _, err := newRemoteClient(cmd.Context())
		if err != nil {
			return err
		}

		prs, err := client.GetPullRequests(cmd.Context(), status)
		if err != nil {
			return err
		}
		if len(prs) == 0 {
			fmt.Println(dimStyle.Render("no pull requests"))
			return nil
		}

		for _, pr := range prs {
			renderPRLine(pr)
		}
		return nil
	},
}

var (
	prCreateSource      string
	prCreateTarget      string
	prCreateTitle       string
	prCreateDescription string
)

var prCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a pull request",
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, _, err := newRemoteClient(cmd.Context())
		if err != nil {
			return err
		}

		pr, err := client.CreatePullRequest(cmd.Context(), model.CreatePROptions{
			SourceBranch: prCreateSource,
			TargetBranch: prCreateTarget,
			Title:        prCreateTitle,
			Description:  prCreateDescription,
		})
		if err != nil {
			return err
		}

		fmt.Printf("created pull request !%d\n", pr.ID)
		renderPRLine(*pr)
		return nil
	},
}

var prVoteCmd = &cobra.Command{
	Use:   "vote <id> <vote>",
	Short: "Cast a vote on a pull request (-10, -5, 0, 5, 10)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid pull request id %q", args[0])
		}
		raw, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid vote %q", args[1])
		}
		vote := model.Vote(raw)
		if !vote.Valid() {
			return fmt.Errorf("vote must be one of -10, -5, 0, 5, 10")
		}

		client, _, err := newRemoteClient(cmd.Context())
		if err != nil {
			return err
		}

		reviewer, err := client.VotePullRequest(cmd.Context(), id, vote)
		if err != nil {
			return err
		}

		fmt.Printf("!%d: %s (%s)\n", id, reviewer.Vote.String(), reviewer.Identity.DisplayName)
		return nil
	},
}

var (
	prCompleteStrategy     string
	prCompleteDeleteSource bool
	prCompleteMessage      string
)

var prCompleteCmd = &cobra.Command{
	Use:   "complete <id>",
	Short: "Complete (merge) a pull request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid pull request id %q", args[0])
		}

		strategy := model.MergeStrategy(prCompleteStrategy)
		switch strategy {
		case model.MergeNoFastForward, model.MergeSquash, model.MergeRebase, model.MergeRebaseMerge:
		default:
			return fmt.Errorf("invalid merge strategy %q", prCompleteStrategy)
		}

		client, _, err := newRemoteClient(cmd.Context())
		if err != nil {
			return err
		}

		pr, err := client.CompletePullRequest(cmd.Context(), id, model.CompletionOptions{
			MergeStrategy:      strategy,
			DeleteSourceBranch: prCompleteDeleteSource,
			MergeCommitMessage: prCompleteMessage,
		})
		if err != nil {
			return err
		}

		fmt.Printf("completed pull request !%d (%s)\n", pr.ID, strategy)
		return nil
	},
}

func renderPRLine(pr model.PullRequest) {
	style, ok := statusStyles[pr.Status]
	if !ok {
		style = dimStyle
	}

	fmt.Printf("!%-5d %s  %s\n", pr.ID, style.Render(string(pr.Status)), titleStyle.Render(pr.Title))
	fmt.Printf("       %s\n", dimStyle.Render(fmt.Sprintf("%s -> %s  by %s", pr.SourceBranch(), pr.TargetBranch(), pr.CreatedBy.DisplayName)))
}

func init() {
	prListCmd.Flags().StringVar(&prListStatus, "status", string(model.PRStatusActive), "Filter by status (active, completed, abandoned, notSet, all)")

	prCreateCmd.Flags().StringVar(&prCreateSource, "source", "", "Source branch (required)")
	prCreateCmd.Flags().StringVar(&prCreateTarget, "target", "", "Target branch (required)")
	prCreateCmd.Flags().StringVar(&prCreateTitle, "title", "", "Pull request title (required)")
	prCreateCmd.Flags().StringVar(&prCreateDescription, "description", "", "Pull request description")
	_ = prCreateCmd.MarkFlagRequired("source")
	_ = prCreateCmd.MarkFlagRequired("target")
	_ = prCreateCmd.MarkFlagRequired("title")

	prCompleteCmd.Flags().StringVar(&prCompleteStrategy, "strategy", string(model.MergeNoFastForward), "Merge strategy (noFastForward, squash, rebase, rebaseMerge)")
	prCompleteCmd.Flags().BoolVar(&prCompleteDeleteSource, "delete-source", false, "Delete the source branch after merge")
	prCompleteCmd.Flags().StringVar(&prCompleteMessage, "message", "", "Merge commit message")

	prCmd.AddCommand(prListCmd)
	prCmd.AddCommand(prCreateCmd)
	prCmd.AddCommand(prVoteCmd)
	prCmd.AddCommand(prCompleteCmd)
	prCmd.AddCommand(prDiffCmd)
}
