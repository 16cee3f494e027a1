package cli

import (
	"context"
	"encoding/json"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"promoreel/internal/config"
	"promoreel/internal/job"
	"promoreel/internal/paths"
	"promoreel/internal/render"
	"promoreel/internal/tui"
	"promoreel/pkg/projectfile"
)

var (
	renderOutput     string
	renderProfile    string
	renderNoProgress bool
)

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <project.yaml>",
		Short: "Render a project file into a finished video",
		Args:  cobra.ExactArgs(1),
		RunE:  runRender,
	}

	cmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Output video path (defaults into the job directory)")
	cmd.Flags().StringVar(&renderProfile, "profile", "", "Encoding profile name (preview, final)")
	cmd.Flags().BoolVar(&renderNoProgress, "no-progress", false, "Disable interactive progress output")

	return cmd
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ws, err := paths.Resolve(workDir, cfg.Render.WorkDir)
	if err != nil {
		return err
	}

	project, err := projectfile.Load(args[0])
	if err != nil {
		return err
	}

	engine, err := render.NewEngine(cfg, ws, job.NewStore(), nil)
	if err != nil {
		return err
	}
	defer engine.Cleaner.Close()

	profile := renderProfile
	if profile == "" {
		profile = cfg.Render.DefaultProfile
	}

	request := render.Request{
		Project:     project,
		ProfileName: profile,
		OutputPath:  renderOutput,
	}

	out := cmd.OutOrStdout()
	mode := tui.DetectMode(out, renderNoProgress || outputJSON)

	var result render.Result
	switch mode {
	case tui.ModeTUI:
		model := tui.NewRenderModel(project.ID)
		err = tui.RunWithWork(ctx, out, model, func(ctx context.Context, send func(tea.Msg)) {
			engine.Sink = tui.Sink(send)
			res, renderErr := engine.Render(ctx, request)
			if renderErr != nil {
				send(tui.ErrorMsg{Err: renderErr})
				return
			}
			result = res
		})
	default:
		if !outputJSON {
			engine.Sink = tui.PlainSink(out)
		}
		result, err = engine.Render(ctx, request)
	}
	if err != nil {
		return err
	}

	if outputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Fprintf(out, "Rendered %s (%.1fs) -> %s\n", project.ID, result.DurationSec, result.OutputPath)
	return nil
}
