package cli

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nkosarev/vidgen/internal/models"
	"github.com/nkosarev/vidgen/internal/tui"
	"github.com/nkosarev/vidgen/internal/upload"
)

func newUploadCmd(a *app) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a file; text scripts also get a video generated",
		Long: `Upload a file to the platform. Files up to 50 MiB are accepted.

Text files (media type text/* or a .txt name) additionally trigger video
generation, titled after the file name. When generation is unavailable the
uploaded content is kept as-is.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := models.FileFromPath(args[0])
			if err != nil {
				return err
			}

			var job upload.Job
			if !plain && term.IsTerminal(int(os.Stdout.Fd())) {
				job, err = tui.Run(cmd.Context(), a.orch, f)
			} else {
				job, err = runPlainUpload(cmd, a, f)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch job.Phase {
			case upload.PhaseCompleted:
				fmt.Fprintf(out, "Uploaded %s (%s)\n", f.Name, humanize.Bytes(uint64(f.Size)))
				fmt.Fprintf(out, "Content ID: %s\n", job.ContentID)
				return nil
			case upload.PhaseError:
				return fmt.Errorf("%s", job.Err)
			default:
				return fmt.Errorf("upload interrupted")
			}
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "line-based output instead of the interactive view")
	return cmd
}

// runPlainUpload drives the workflow with line-based progress, for pipes
// and --plain.
func runPlainUpload(cmd *cobra.Command, a *app, f models.FileRef) (upload.Job, error) {
	out := cmd.OutOrStdout()

	err := a.orch.Start(cmd.Context(), f, upload.Sinks{
		OnProgress: func(percent int) {
			fmt.Fprintf(out, "uploading... %d%%\n", percent)
		},
		OnPhase: func(j upload.Job) {
			if j.Phase == upload.PhaseGenerating {
				fmt.Fprintln(out, "generating video...")
			}
		},
	})
	if err != nil {
		return upload.Job{}, err
	}
	return a.orch.Job(), nil
}
