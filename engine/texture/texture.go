// Package texture creates GPU textures from RGBA staging data. Staging data comes from decoded
// image files (PNG, JPEG, BMP) or from text rasterized with a fixed bitmap font.
package texture

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/safehouse/common"
	"github.com/Carmen-Shannon/safehouse/engine/logger"
	"github.com/Carmen-Shannon/safehouse/engine/renderer"
	"github.com/cogentcore/webgpu/wgpu"
	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
)

var log = logger.New("texture")

// Texture is an uploaded 2D RGBA texture. It satisfies binding.TextureResource.
type Texture interface {
	// Label returns the GPU label the texture was created with.
	Label() string

	// Width returns the texture width in pixels.
	Width() uint32

	// Height returns the texture height in pixels.
	Height() uint32

	// TextureView returns the view bound to shaders, or nil before upload.
	TextureView() *wgpu.TextureView
}

type texture struct {
	label  string
	width  uint32
	height uint32
	view   *wgpu.TextureView
}

var _ Texture = &texture{}

// New uploads staging data as a texture.
//
// Parameters:
//   - ctx: the GPU context
//   - label: the GPU label
//   - staging: the RGBA pixels and their size
//
// Returns:
//   - Texture: the uploaded texture
//   - error: an error if the pixel data does not match the size or the upload fails
func New(ctx renderer.GPUContext, label string, staging common.TextureStagingData) (Texture, error) {
	if staging.Width == 0 || staging.Height == 0 {
		return nil, fmt.Errorf("texture %q has zero size", label)
	}
	if want := int(staging.Width) * int(staging.Height) * 4; len(staging.Pixels) != want {
		return nil, fmt.Errorf("texture %q has %d bytes of pixel data, want %d", label, len(staging.Pixels), want)
	}
	view, err := ctx.CreateTexture(label, staging)
	if err != nil {
		return nil, fmt.Errorf("failed to create texture %q: %w", label, err)
	}
	return &texture{label: label, width: staging.Width, height: staging.Height, view: view}, nil
}

func (t *texture) Label() string {
	return t.label
}

func (t *texture) Width() uint32 {
	return t.width
}

func (t *texture) Height() uint32 {
	return t.height
}

func (t *texture) TextureView() *wgpu.TextureView {
	return t.view
}

// Decode decodes a PNG, JPEG or BMP image into RGBA staging data.
//
// Parameters:
//   - r: the encoded image
//
// Returns:
//   - common.TextureStagingData: the decoded pixels
//   - error: an error if the format is unknown or the data is corrupt
func Decode(r io.Reader) (common.TextureStagingData, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return common.TextureStagingData{}, err
	}
	return FromImage(img), nil
}

// FromImage converts any image to RGBA staging data.
func FromImage(img image.Image) common.TextureStagingData {
	b := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != b.Dx()*4 || b.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		xdraw.Draw(rgba, rgba.Bounds(), img, b.Min, xdraw.Src)
	}
	return common.TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(b.Dx()),
		Height: uint32(b.Dy()),
	}
}

// Load decodes the image file at path.
//
// Parameters:
//   - path: the image file path
//
// Returns:
//   - common.TextureStagingData: the decoded pixels
//   - error: an error if the file cannot be read or decoded
func Load(path string) (common.TextureStagingData, error) {
	f, err := os.Open(path)
	if err != nil {
		return common.TextureStagingData{}, fmt.Errorf("failed to open texture %q: %w", path, err)
	}
	defer f.Close()

	staging, err := Decode(f)
	if err != nil {
		return common.TextureStagingData{}, fmt.Errorf("failed to decode texture %q: %w", path, err)
	}
	return staging, nil
}

// DecodeAll decodes every image file in paths on a pool of up to workers goroutines. Results
// are returned in the order of paths. Uploading is left to the caller, which must own the GPU
// context.
//
// Parameters:
//   - paths: the image file paths
//   - workers: the maximum number of concurrent decoders
//
// Returns:
//   - []common.TextureStagingData: the decoded images, indexed like paths
//   - error: the first decode error in path order, if any
func DecodeAll(paths []string, workers int) ([]common.TextureStagingData, error) {
	out := make([]common.TextureStagingData, len(paths))
	if len(paths) == 0 {
		return out, nil
	}
	errs := make([]error, len(paths))

	pool := worker.NewDynamicWorkerPool(workers, len(paths), 1*time.Second)
	defer pool.Stop()

	// pool.Wait waits on idle workers, not on this batch
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID:      i,
			Payload: path,
			Do: func() (any, error) {
				defer wg.Done()
				out[i], errs[i] = Load(path)
				return nil, errs[i]
			},
		})
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	log.Debugf("decoded %d textures", len(paths))
	return out, nil
}
