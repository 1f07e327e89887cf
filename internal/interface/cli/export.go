package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/neilberkman/quickchat/internal/core/export"
	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <session-id>",
	Short: "Export a session to markdown",
	Long: `Export a chat session to a markdown file.

By default exports to current directory as session-<id>.md.
Use --output to specify a custom path.

Examples:
  quickchat export 0ccfddc4-00e7-443a-bb82-58ede5936619
  quickchat export 0ccfddc4 --output ~/exported-session.md
  quickchat export 0ccfddc4 -o session.md`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path (default: session-<id>.md in current directory)")
}

func runExport(cmd *cobra.Command, args []string) error {
	store := openStore(loadConfig())

	s, err := resolveSession(store, args[0])
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	outputPath := exportOutput
	if outputPath == "" {
		outputPath = filepath.Join(cwd, export.FileName(s.ID))
	} else if !filepath.IsAbs(outputPath) {
		outputPath = filepath.Join(cwd, outputPath)
	}

	if err := os.WriteFile(outputPath, []byte(export.Markdown(s)), 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	fmt.Printf("Exported session to: %s\n", outputPath)
	return nil
}
