package assets

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"promoreel/internal/cache"
	"promoreel/internal/logx"
	"promoreel/internal/paths"
	"promoreel/internal/timeline"
)

// NotFoundError reports a referenced asset that could not be resolved to a
// local file.
type NotFoundError struct {
	Ref  string
	Kind string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s asset %q not found", e.Kind, e.Ref)
}

// Resolved holds the local file paths the graph builders consume. SlideImages
// is parallel to the project's slide list; optional paths are empty when the
// corresponding track or asset is absent.
type Resolved struct {
	SlideImages []string
	MusicPath   string
	VoicePath   string
	BannerLogo  string
	QRImage     string
	EndLogo     string
}

// Resolver turns project asset references (remote URLs, local uploads, blank
// sentinels) into local files inside a job's working directory. Missing slide
// imagery degrades to a generated placeholder; missing audio degrades to no
// track. Both are logged, neither aborts the render.
type Resolver struct {
	Client      *http.Client
	Paths       paths.JobPaths
	Logger      *log.Logger
	Timeout     time.Duration
	Concurrency int

	// Cache, when set, serves repeat downloads of the same URL across
	// jobs.
	Cache *cache.Store

	// OnProgress, when set, receives (resolved, total) counts as slide
	// imagery completes.
	OnProgress func(done, total int)
}

// NewResolver builds a resolver bound to one job's working directory.
func NewResolver(p paths.JobPaths, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = logx.Discard()
	}
	return &Resolver{
		Client:      &http.Client{},
		Paths:       p,
		Logger:      logger,
		Timeout:     30 * time.Second,
		Concurrency: 4,
	}
}

// ResolveProject resolves every asset the project references. Slide images
// are fetched concurrently with a bounded worker count and a per-asset
// timeout; audio, logos, and the QR image follow sequentially.
func (r *Resolver) ResolveProject(ctx context.Context, project timeline.Project, width, height int) (Resolved, error) {
	if err := r.Paths.EnsureDirs(); err != nil {
		return Resolved{}, err
	}

	resolved := Resolved{SlideImages: make([]string, len(project.Slides))}

	g, gctx := errgroup.WithContext(ctx)
	limit := r.Concurrency
	if limit <= 0 {
		limit = 1
	}
	g.SetLimit(limit)

	var done atomic.Int64
	total := len(project.Slides)

	for i, slide := range project.Slides {
		i, slide := i, slide
		g.Go(func() error {
			local, err := r.resolveSlideImage(gctx, project, slide, i, width, height)
			if err != nil {
				return err
			}
			resolved.SlideImages[i] = local
			if r.OnProgress != nil {
				r.OnProgress(int(done.Add(1)), total)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Resolved{}, err
	}

	if project.Music.Enabled {
		resolved.MusicPath = r.resolveAudio(ctx, project.Music.FilePath, "music")
	}
	if project.Voice.Enabled {
		resolved.VoicePath = r.resolveAudio(ctx, project.Voice.AudioPath, "voice")
	}
	if project.Banner.Enabled && project.Banner.LogoPath != "" {
		resolved.BannerLogo = r.resolveImageOrDrop(ctx, project.Banner.LogoPath, "banner logo", "banner_logo")
	}
	if project.EndScreen.Enabled && project.EndScreen.LogoPath != "" {
		resolved.EndLogo = r.resolveImageOrDrop(ctx, project.EndScreen.LogoPath, "end-screen logo", "end_logo")
	}
	if project.QR.Enabled {
		qrPath, err := GenerateQR(project.QR.TargetURL, project.QR.SizePixels, filepath.Join(r.Paths.ImagesDir, "qr.png"))
		if err != nil {
			r.Logger.Printf("qr generation failed, dropping overlay: %v", err)
		} else {
			resolved.QRImage = qrPath
		}
	}

	return resolved, nil
}

// resolveSlideImage produces a local path for one slide, substituting a
// generated placeholder when the reference is blank or unavailable.
func (r *Resolver) resolveSlideImage(ctx context.Context, project timeline.Project, slide timeline.Slide, index, width, height int) (string, error) {
	ref := strings.TrimSpace(slide.ImageSource)

	if ref == "" {
		background := ""
		if slide.IsEndScreen {
			background = project.EndScreen.BackgroundColor
		}
		dest := filepath.Join(r.Paths.ImagesDir, fmt.Sprintf("slide_%03d.png", index))
		if err := WritePlaceholder(dest, width, height, background, ""); err != nil {
			return "", fmt.Errorf("generate blank slide %d: %w", index, err)
		}
		return dest, nil
	}

	local, err := r.resolveFile(ctx, ref, r.Paths.ImagesDir, fmt.Sprintf("slide_%03d", index), "image")
	if err == nil {
		return local, nil
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	r.Logger.Printf("slide %d image %q unavailable, substituting placeholder: %v", index, ref, err)
	dest := filepath.Join(r.Paths.ImagesDir, fmt.Sprintf("slide_%03d.png", index))
	if perr := WritePlaceholder(dest, width, height, "", slide.ID); perr != nil {
		return "", fmt.Errorf("generate placeholder for slide %d: %w", index, perr)
	}
	return dest, nil
}

// resolveAudio degrades a missing audio asset to the empty path; the audio
// graph then simply omits the track.
func (r *Resolver) resolveAudio(ctx context.Context, ref, kind string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	local, err := r.resolveFile(ctx, ref, r.Paths.AudioDir, kind, kind)
	if err != nil {
		r.Logger.Printf("%s track %q unavailable, dropping track: %v", kind, ref, err)
		return ""
	}
	return local
}

func (r *Resolver) resolveImageOrDrop(ctx context.Context, ref, label, base string) string {
	local, err := r.resolveFile(ctx, ref, r.Paths.ImagesDir, base, "image")
	if err != nil {
		r.Logger.Printf("%s %q unavailable, dropping overlay: %v", label, ref, err)
		return ""
	}
	return local
}

// resolveFile turns a single reference into a local path: remote URLs are
// downloaded into destDir, local paths are verified. A missing or failed
// reference yields a *NotFoundError.
func (r *Resolver) resolveFile(ctx context.Context, ref, destDir, baseName, kind string) (string, error) {
	if isRemote(ref) {
		if r.Cache != nil {
			if cached, ok := r.Cache.Lookup(ref); ok {
				r.Logger.Printf("cache hit for %s", ref)
				return cached, nil
			}
		}

		dest := filepath.Join(destDir, baseName+remoteExt(ref))
		if err := r.download(ctx, ref, dest); err != nil {
			return "", err
		}
		if r.Cache != nil {
			if _, err := r.Cache.Put(ref, dest); err != nil {
				r.Logger.Printf("could not cache %s: %v", ref, err)
			}
		}
		return dest, nil
	}

	exists, err := paths.FileExists(ref)
	if err != nil {
		return "", fmt.Errorf("stat %s asset: %w", kind, err)
	}
	if !exists {
		return "", &NotFoundError{Ref: ref, Kind: kind}
	}
	return ref, nil
}

// download fetches a remote asset with the resolver's per-asset timeout and
// writes it atomically into the working directory.
func (r *Resolver) download(ctx context.Context, rawURL, dest string) error {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", rawURL, err)
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &NotFoundError{Ref: rawURL, Kind: "remote"}
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: unexpected status %s", rawURL, resp.Status)
	}

	tmp := dest + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create download target: %w", err)
	}

	if _, err := io.Copy(file, resp.Body); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("download %s: %w", rawURL, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close download target: %w", err)
	}

	if err := os.Rename(tmp, dest); err != nil {
		return fmt.Errorf("finalize download: %w", err)
	}
	r.Logger.Printf("downloaded %s -> %s", rawURL, filepath.Base(dest))
	return nil
}

func isRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// remoteExt keeps a recognizable image/audio extension from the URL path,
// defaulting to .bin when the URL gives nothing usable.
func remoteExt(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ".bin"
	}
	ext := strings.ToLower(path.Ext(u.Path))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp",
		".mp3", ".wav", ".m4a", ".aac", ".ogg", ".flac":
		return ext
	}
	return ".bin"
}
