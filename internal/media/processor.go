package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"mime"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	_ "golang.org/x/image/webp"
)

const (
	DefaultMaxDimension       = 3840
	DefaultThumbnailDimension = 320
	defaultJPEGQuality        = 3
	defaultPNGLevel           = 4
	defaultWebPQuality        = 85
)

var ErrUnsupportedType = errors.New("media: unsupported content type")

type Upload struct {
	Reader      io.Reader
	Size        int64
	FileName    string
	ContentType string
}

// Rendition is one encoded size of an uploaded photo.
type Rendition struct {
	Bytes       []byte
	ContentType string
	Width       int
	Height      int
	Resized     bool
}

type Variants struct {
	Full      Rendition
	Thumbnail Rendition
}

type Options struct {
	MaxDimension       int
	ThumbnailDimension int
}

type Processor interface {
	Render(ctx context.Context, upload Upload, opts Options) (*Variants, error)
}

// FFMPEGProcessor shells out to ffmpeg for every rendition that has to shrink.
// Images that already fit are passed through untouched.
type FFMPEGProcessor struct {
	path        string
	defaults    Options
	jpegQuality int
	pngLevel    int
	webpQuality int
}

func NewFFMPEGProcessor(binaryPath string, defaults Options) *FFMPEGProcessor {
	path := strings.TrimSpace(binaryPath)
	if path == "" {
		path = "ffmpeg"
	}
	if defaults.MaxDimension <= 0 {
		defaults.MaxDimension = DefaultMaxDimension
	}
	if defaults.ThumbnailDimension <= 0 {
		defaults.ThumbnailDimension = DefaultThumbnailDimension
	}
	return &FFMPEGProcessor{
		path:        path,
		defaults:    defaults,
		jpegQuality: defaultJPEGQuality,
		pngLevel:    defaultPNGLevel,
		webpQuality: defaultWebPQuality,
	}
}

func (p *FFMPEGProcessor) Render(ctx context.Context, upload Upload, opts Options) (*Variants, error) {
	if upload.Reader == nil {
		return nil, fmt.Errorf("media: empty reader")
	}
	data, err := io.ReadAll(upload.Reader)
	if err != nil {
		return nil, fmt.Errorf("media: read image: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("media: empty image data")
	}

	contentType := NormalizeContentType(upload.ContentType, upload.FileName)
	if _, _, err := p.codecArgs(contentType); err != nil {
		return nil, err
	}

	width, height, err := decodeDimensions(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("media: decode dimensions: %w", err)
	}

	if opts.MaxDimension <= 0 {
		opts.MaxDimension = p.defaults.MaxDimension
	}
	if opts.ThumbnailDimension <= 0 {
		opts.ThumbnailDimension = p.defaults.ThumbnailDimension
	}

	full, err := p.fit(ctx, data, contentType, width, height, opts.MaxDimension)
	if err != nil {
		return nil, err
	}
	thumb, err := p.fit(ctx, data, contentType, width, height, opts.ThumbnailDimension)
	if err != nil {
		return nil, err
	}
	return &Variants{Full: *full, Thumbnail: *thumb}, nil
}

func (p *FFMPEGProcessor) fit(ctx context.Context, data []byte, contentType string, width, height, maxDim int) (*Rendition, error) {
	if width <= maxDim && height <= maxDim {
		return &Rendition{Bytes: data, ContentType: contentType, Width: width, Height: height}, nil
	}
	targetW, targetH := scaleToFit(width, height, maxDim)
	out, err := p.transcode(ctx, data, contentType, targetW, targetH)
	if err != nil {
		return nil, err
	}
	return &Rendition{Bytes: out, ContentType: contentType, Width: targetW, Height: targetH, Resized: true}, nil
}

func decodeDimensions(r io.Reader) (int, int, error) {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return 0, 0, err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, fmt.Errorf("invalid dimensions %dx%d", cfg.Width, cfg.Height)
	}
	return cfg.Width, cfg.Height, nil
}

func scaleToFit(width, height, maxDim int) (int, int) {
	if width >= height {
		newH := int(math.Round(float64(height) * float64(maxDim) / float64(width)))
		return atLeastTwo(maxDim), atLeastTwo(newH)
	}
	newW := int(math.Round(float64(width) * float64(maxDim) / float64(height)))
	return atLeastTwo(newW), atLeastTwo(maxDim)
}

func atLeastTwo(v int) int {
	if v < 2 {
		return 2
	}
	return v
}

func (p *FFMPEGProcessor) transcode(ctx context.Context, data []byte, contentType string, width, height int) ([]byte, error) {
	codec, args, err := p.codecArgs(contentType)
	if err != nil {
		return nil, err
	}

	cmdArgs := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-i", "pipe:0",
		"-vf", fmt.Sprintf("scale=%d:%d:flags=lanczos", width, height),
		"-frames:v", "1",
		"-f", "image2",
		"-c:v", codec,
	}
	cmdArgs = append(cmdArgs, args...)
	cmdArgs = append(cmdArgs, "pipe:1")

	cmd := exec.CommandContext(ctx, p.path, cmdArgs...)
	cmd.Stdin = bytes.NewReader(data)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("ffmpeg: %v: %s", err, msg)
		}
		return nil, fmt.Errorf("ffmpeg: %w", err)
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg: produced empty output")
	}
	return stdout.Bytes(), nil
}

func (p *FFMPEGProcessor) codecArgs(contentType string) (string, []string, error) {
	switch contentType {
	case "image/jpeg":
		return "mjpeg", []string{"-q:v", strconv.Itoa(p.jpegQuality)}, nil
	case "image/png":
		return "png", []string{"-compression_level", strconv.Itoa(p.pngLevel)}, nil
	case "image/webp":
		return "libwebp", []string{"-quality", strconv.Itoa(p.webpQuality)}, nil
	default:
		return "", nil, fmt.Errorf("%w %s", ErrUnsupportedType, contentType)
	}
}

// NormalizeContentType prefers the declared type and falls back to the file
// extension.
func NormalizeContentType(value, fileName string) string {
	ct := strings.ToLower(strings.TrimSpace(value))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct != "" && ct != "application/octet-stream" {
		if ct == "image/jpg" {
			return "image/jpeg"
		}
		return ct
	}
	ext := strings.ToLower(strings.TrimSpace(filepath.Ext(fileName)))
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	}
	if ext != "" {
		if mt := mime.TypeByExtension(ext); mt != "" {
			return strings.ToLower(mt)
		}
	}
	return "image/jpeg"
}

// Extension returns the file extension used for objects of contentType.
func Extension(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
