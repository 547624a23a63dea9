package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Net-Advantage/ai-showcase/rental/internal/app"
	"github.com/Net-Advantage/ai-showcase/rental/internal/diagnostics"
	"github.com/Net-Advantage/ai-showcase/rental/internal/models"
)

// Export formats
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// WorkpaperExport is a workpaper with its findings and audit trail.
type WorkpaperExport struct {
	ExportedAt time.Time             `json:"exportedAt"`
	Workpaper  *models.Workpaper     `json:"workpaper"`
	Evidence   []models.Evidence     `json:"evidence"`
	Findings   []diagnostics.Finding `json:"findings"`
	Activities []models.Activity     `json:"activities"`
}

func NewExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <workpaperID>",
		Short: "Export a workpaper with its findings and activities",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			if format != FormatYAML && format != FormatJSON {
				return fmt.Errorf("unsupported format %q (use %s or %s)", format, FormatYAML, FormatJSON)
			}

			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				doc, err := buildExport(ctx, a, args[0])
				if err != nil {
					return err
				}
				return writeExport(cmd.OutOrStdout(), doc, format)
			})
		},
	}

	cmd.Flags().String("format", FormatYAML, "output format (yaml, json)")

	return cmd
}

func buildExport(ctx context.Context, a *app.App, workpaperID string) (*WorkpaperExport, error) {
	wp, err := a.Workpapers.Get(ctx, workpaperID)
	if err != nil {
		return nil, err
	}
	evidence, err := a.Workpapers.ListEvidence(ctx, workpaperID)
	if err != nil {
		return nil, err
	}
	findings, err := a.Workpapers.Diagnose(ctx, workpaperID)
	if err != nil {
		return nil, err
	}
	activities, err := a.Workpapers.ListActivities(ctx, workpaperID)
	if err != nil {
		return nil, err
	}

	return &WorkpaperExport{
		ExportedAt: time.Now().UTC(),
		Workpaper:  wp,
		Evidence:   evidence,
		Findings:   findings,
		Activities: activities,
	}, nil
}

func writeExport(out io.Writer, doc *WorkpaperExport, format string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal export: %w", err)
	}
	if format == FormatJSON {
		_, err = fmt.Fprintln(out, string(data))
		return err
	}

	// JSON is valid YAML; re-encoding the node tree keeps the JSON field
	// names and order.
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return fmt.Errorf("failed to convert export to yaml: %w", err)
	}
	blockStyle(&node)

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return fmt.Errorf("failed to write yaml export: %w", err)
	}
	return enc.Close()
}

// blockStyle clears the flow and quoting styles the JSON source implies.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, child := range n.Content {
		blockStyle(child)
	}
}
