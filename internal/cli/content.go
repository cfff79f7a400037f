package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/nkosarev/vidgen/internal/models"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available content",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := a.cont.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No content yet.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tTYPE\tUPLOADED\tVIEWS")
			for _, c := range items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
					c.ContentID, c.Title, c.ContentType, uploadedAgo(c), c.Views)
			}
			return w.Flush()
		},
	}
}

func uploadedAgo(c models.Content) string {
	if c.UploadedAt == 0 {
		return "-"
	}
	return humanize.Time(time.Unix(int64(c.UploadedAt), 0))
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <content-id>",
		Short: "Show metadata for one content item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.cont.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:          %s\n", c.ContentID)
			fmt.Fprintf(out, "Title:       %s\n", c.Title)
			if c.Description != "" {
				fmt.Fprintf(out, "Description: %s\n", c.Description)
			}
			fmt.Fprintf(out, "Type:        %s\n", c.ContentType)
			if c.DurationMS > 0 {
				fmt.Fprintf(out, "Duration:    %s\n", (time.Duration(c.DurationMS) * time.Millisecond).Round(time.Second))
			}
			fmt.Fprintf(out, "Uploaded:    %s\n", uploadedAgo(*c))
			if len(c.Tags) > 0 {
				fmt.Fprintf(out, "Tags:        %v\n", c.Tags)
			}
			fmt.Fprintf(out, "Views:       %d  Likes: %d  Shares: %d\n", c.Views, c.Likes, c.Shares)
			if c.AuthenticityScore > 0 {
				fmt.Fprintf(out, "Authenticity: %.2f\n", c.AuthenticityScore)
			}
			return nil
		},
	}
}

func newDownloadCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "download <content-id>",
		Short: "Download a content item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if output == "" {
				output = id
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			defer f.Close()

			n, err := a.cont.Download(cmd.Context(), id, f)
			if err != nil {
				os.Remove(output)
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s to %s\n", humanize.Bytes(uint64(n)), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (defaults to the content id)")
	return cmd
}

func newStreamURLCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stream-url <content-id>",
		Short: "Print the playback URL for a content item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), a.cont.StreamURL(args[0]))
			return nil
		},
	}
}
