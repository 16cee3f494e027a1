package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/spf13/cobra"

	"promoreel/internal/config"
	"promoreel/internal/paths"
	"promoreel/internal/tools"
)

// Encoding stalls badly below these; doctor flags them before a render does.
const (
	minFreeDiskBytes = 2 << 30   // 2 GiB
	minAvailMemBytes = 512 << 20 // 512 MiB
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that the host can run renders",
		RunE:  runDoctor,
	}
}

type healthCheck struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "ok", "warning", "error"
	Summary string `json:"summary"`
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	cfg, cfgErr := config.Load(configPath)
	if cfgErr != nil {
		cfg = config.Default()
	}

	var checks []healthCheck
	checks = append(checks, checkConfig(cfgErr))
	checks = append(checks, checkEncoder(cmd, cfg))
	checks = append(checks, checkProber(cmd, cfg))

	ws, wsErr := paths.Resolve(workDir, cfg.Render.WorkDir)
	checks = append(checks, checkWorkspace(ws, wsErr))
	if wsErr == nil {
		checks = append(checks, checkDisk(ws.Root))
	}
	checks = append(checks, checkMemory())
	checks = append(checks, checkCPU())

	return writeDoctorResult(cmd, checks)
}

func checkConfig(cfgErr error) healthCheck {
	if cfgErr != nil {
		return healthCheck{Name: "Config", Status: "error", Summary: cfgErr.Error()}
	}
	return healthCheck{Name: "Config", Status: "ok", Summary: "configuration loaded"}
}

func checkEncoder(cmd *cobra.Command, cfg config.Config) healthCheck {
	status := tools.FindFFmpeg(cmd.Context(), cfg.Encoder.FFmpegPath)
	if !status.Found() {
		return healthCheck{Name: "ffmpeg", Status: "error", Summary: "not found on PATH; install ffmpeg or set encoder.ffmpeg_path"}
	}
	summary := status.Path
	if status.Version != "" {
		summary = fmt.Sprintf("%s (%s)", status.Path, status.Version)
	}
	return healthCheck{Name: "ffmpeg", Status: "ok", Summary: summary}
}

func checkProber(cmd *cobra.Command, cfg config.Config) healthCheck {
	status := tools.FindFFprobe(cmd.Context(), cfg.Encoder.FFprobePath)
	if !status.Found() {
		// Renders work without it; duration probing of audio does not.
		return healthCheck{Name: "ffprobe", Status: "warning", Summary: "not found; audio duration probing unavailable"}
	}
	return healthCheck{Name: "ffprobe", Status: "ok", Summary: status.Path}
}

func checkWorkspace(ws paths.Workspace, wsErr error) healthCheck {
	if wsErr != nil {
		return healthCheck{Name: "Workspace", Status: "error", Summary: wsErr.Error()}
	}
	probe := filepath.Join(ws.Root, ".doctor-probe")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return healthCheck{Name: "Workspace", Status: "error", Summary: fmt.Sprintf("%s not writable: %v", ws.Root, err)}
	}
	os.Remove(probe)
	return healthCheck{Name: "Workspace", Status: "ok", Summary: ws.Root}
}

func checkDisk(root string) healthCheck {
	usage, err := disk.Usage(root)
	if err != nil {
		return healthCheck{Name: "Disk", Status: "warning", Summary: fmt.Sprintf("could not stat %s: %v", root, err)}
	}
	summary := fmt.Sprintf("%.1f GiB free of %.1f GiB", gib(usage.Free), gib(usage.Total))
	if usage.Free < minFreeDiskBytes {
		return healthCheck{Name: "Disk", Status: "warning", Summary: summary + " (renders need headroom for intermediates)"}
	}
	return healthCheck{Name: "Disk", Status: "ok", Summary: summary}
}

func checkMemory() healthCheck {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return healthCheck{Name: "Memory", Status: "warning", Summary: err.Error()}
	}
	summary := fmt.Sprintf("%.1f GiB available of %.1f GiB", gib(vm.Available), gib(vm.Total))
	if vm.Available < minAvailMemBytes {
		return healthCheck{Name: "Memory", Status: "warning", Summary: summary}
	}
	return healthCheck{Name: "Memory", Status: "ok", Summary: summary}
}

func checkCPU() healthCheck {
	count, err := cpu.Counts(true)
	if err != nil {
		return healthCheck{Name: "CPU", Status: "warning", Summary: err.Error()}
	}
	status := "ok"
	if count < 2 {
		status = "warning"
	}
	return healthCheck{Name: "CPU", Status: status, Summary: fmt.Sprintf("%d logical cores", count)}
}

func gib(bytes uint64) float64 {
	return float64(bytes) / (1 << 30)
}

func writeDoctorResult(cmd *cobra.Command, checks []healthCheck) error {
	out := cmd.OutOrStdout()

	failed := false
	for _, c := range checks {
		if c.Status == "error" {
			failed = true
		}
	}

	if outputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(checks); err != nil {
			return err
		}
	} else {
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		for _, c := range checks {
			label := c.Status
			switch c.Status {
			case "ok":
				label = okStyle.Render(label)
			case "warning":
				label = warnStyle.Render(label)
			case "error":
				label = errStyle.Render(label)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", c.Name, label, c.Summary)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	if failed {
		return fmt.Errorf("doctor found problems")
	}
	return nil
}
