// Package images keeps the RGBA textures used by the vector renderer, addressed by integer ids.
package images

import (
	"errors"
	"fmt"
	"image"
	"runtime"

	"github.com/bloeys/vgfb/gpu"
	"github.com/bloeys/vgfb/logging"
	"github.com/mandykoh/prism"
	"golang.org/x/image/draw"
)

type ImageFlags uint32

const (
	ImageFlags_None            ImageFlags = iota
	ImageFlags_GenerateMipmaps ImageFlags = 1 << (iota - 1)
	ImageFlags_RepeatX
	ImageFlags_RepeatY
	// FlipY marks images whose rows are stored bottom-up, as rendered by GL
	ImageFlags_FlipY
	// Premultiplied marks images whose color is already multiplied by alpha
	ImageFlags_Premultiplied
	ImageFlags_Nearest
	// Multisample allocates a multisampled texture. Such images can be rendered to and resolved, but not uploaded to.
	ImageFlags_Multisample
)

func (f *ImageFlags) Set(flags ImageFlags) {
	*f |= flags
}

func (f *ImageFlags) Remove(flags ImageFlags) {
	*f &= ^flags
}

func (f *ImageFlags) Has(flags ImageFlags) bool {
	return *f&flags == flags
}

var (
	ErrUnknownImage     = errors.New("unknown image id")
	ErrInvalidSize      = errors.New("invalid image size")
	ErrMultisampleWrite = errors.New("multisampled images can't be written from the cpu")
)

type Image struct {
	Id      int
	TexId   uint32
	Target  gpu.Enum
	Width   int32
	Height  int32
	Flags   ImageFlags
	Samples int32
}

// Store owns every image texture it creates. Ids are never reused within a store.
type Store struct {
	funcs       gpu.Functions
	multisample bool
	samples     int32
	images      map[int]*Image
	lastId      int
}

// NewStore creates an image store. Multisample images are only created when multisample is true,
// otherwise the flag is ignored and a regular texture is used.
func NewStore(funcs gpu.Functions, multisample bool, samples int32) *Store {
	return &Store{
		funcs:       funcs,
		multisample: multisample,
		samples:     samples,
		images:      make(map[int]*Image),
	}
}

// Count returns the number of live images
func (s *Store) Count() int {
	return len(s.images)
}

func (s *Store) Image(id int) (*Image, bool) {
	img, ok := s.images[id]
	return img, ok
}

// ImageHandle returns the GL texture of the image, or 0 if the id is unknown
func (s *Store) ImageHandle(id int) uint32 {

	img, ok := s.images[id]
	if !ok {
		return 0
	}

	return img.TexId
}

// ImageTarget returns the texture target of the image, or 0 if the id is unknown
func (s *Store) ImageTarget(id int) gpu.Enum {

	img, ok := s.images[id]
	if !ok {
		return 0
	}

	return img.Target
}

func (s *Store) ImageSize(id int) (width, height int32, ok bool) {

	img, ok := s.images[id]
	if !ok {
		return 0, 0, false
	}

	return img.Width, img.Height, true
}

// CreateImageRGBA creates a width*height RGBA8 texture. Data may be nil, otherwise it must hold width*height*4 bytes.
// On failure the id is -1 and no texture is left behind.
func (s *Store) CreateImageRGBA(width, height int32, flags ImageFlags, data []byte) (int, error) {

	if width <= 0 || height <= 0 {
		return -1, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}

	if data != nil && len(data) != int(width)*int(height)*4 {
		return -1, fmt.Errorf("%w: got %d bytes for a %dx%d rgba image", ErrInvalidSize, len(data), width, height)
	}

	img := &Image{
		Target: gpu.TEXTURE_2D,
		Width:  width,
		Height: height,
		Flags:  flags,
	}

	if flags.Has(ImageFlags_Multisample) {

		if s.multisample {
			if data != nil {
				return -1, ErrMultisampleWrite
			}
			img.Target = gpu.TEXTURE_2D_MULTISAMPLE
			img.Samples = s.samples
		} else {
			img.Flags.Remove(ImageFlags_Multisample)
		}
	}

	f := s.funcs

	// Start from a clean error flag so errors below belong to this call
	gpu.GLErr(f)

	img.TexId = f.GenTexture()
	if img.TexId == 0 {
		return -1, fmt.Errorf("failed to generate texture for image. GlError=%v", gpu.GLErr(f))
	}

	bindingQuery := gpu.TEXTURE_BINDING_2D
	if img.Target == gpu.TEXTURE_2D_MULTISAMPLE {
		bindingQuery = gpu.TEXTURE_BINDING_2D_MULTISAMPLE
	}
	prevTex := uint32(f.GetInteger(bindingQuery))

	f.BindTexture(img.Target, img.TexId)
	if img.Target == gpu.TEXTURE_2D_MULTISAMPLE {
		f.TexImage2DMultisample(img.Target, img.Samples, gpu.RGBA8, width, height, true)
	} else {
		f.PixelStorei(gpu.UNPACK_ALIGNMENT, 1)
		f.TexImage2D(img.Target, 0, gpu.RGBA8, width, height, gpu.RGBA, gpu.UNSIGNED_BYTE, data)
		s.setSampling(img)
		f.PixelStorei(gpu.UNPACK_ALIGNMENT, 4)
	}

	err := gpu.GLErr(f)
	f.BindTexture(img.Target, prevTex)

	if err != nil {
		f.DeleteTexture(img.TexId)
		return -1, fmt.Errorf("failed to allocate %dx%d image: %w", width, height, err)
	}

	s.lastId++
	img.Id = s.lastId
	s.images[img.Id] = img
	return img.Id, nil
}

func (s *Store) setSampling(img *Image) {

	f := s.funcs
	hasMipmaps := img.Flags.Has(ImageFlags_GenerateMipmaps)

	minFilter := gpu.LINEAR
	magFilter := gpu.LINEAR
	if img.Flags.Has(ImageFlags_Nearest) {
		minFilter = gpu.NEAREST
		magFilter = gpu.NEAREST
	}

	if hasMipmaps {
		if img.Flags.Has(ImageFlags_Nearest) {
			minFilter = gpu.NEAREST_MIPMAP_NEAREST
		} else {
			minFilter = gpu.LINEAR_MIPMAP_LINEAR
		}
	}

	f.TexParameteri(gpu.TEXTURE_2D, gpu.TEXTURE_MIN_FILTER, int32(minFilter))
	f.TexParameteri(gpu.TEXTURE_2D, gpu.TEXTURE_MAG_FILTER, int32(magFilter))

	wrapS := gpu.CLAMP_TO_EDGE
	if img.Flags.Has(ImageFlags_RepeatX) {
		wrapS = gpu.REPEAT
	}

	wrapT := gpu.CLAMP_TO_EDGE
	if img.Flags.Has(ImageFlags_RepeatY) {
		wrapT = gpu.REPEAT
	}

	f.TexParameteri(gpu.TEXTURE_2D, gpu.TEXTURE_WRAP_S, int32(wrapS))
	f.TexParameteri(gpu.TEXTURE_2D, gpu.TEXTURE_WRAP_T, int32(wrapT))

	if hasMipmaps {
		f.GenerateMipmap(gpu.TEXTURE_2D)
	}
}

// CreateImageFromImage uploads any image.Image. Colors are premultiplied only when flags has ImageFlags_Premultiplied,
// otherwise they are stored as straight (non-premultiplied) alpha.
func (s *Store) CreateImageFromImage(src image.Image, flags ImageFlags) (int, error) {

	b := src.Bounds()
	return s.CreateImageRGBA(int32(b.Dx()), int32(b.Dy()), flags, rgbaBytes(src, flags))
}

// UpdateImage replaces all the pixels of the image
func (s *Store) UpdateImage(id int, data []byte) error {

	img, ok := s.images[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownImage, id)
	}

	if img.Target == gpu.TEXTURE_2D_MULTISAMPLE {
		return ErrMultisampleWrite
	}

	if len(data) != int(img.Width)*int(img.Height)*4 {
		return fmt.Errorf("%w: got %d bytes for a %dx%d rgba image", ErrInvalidSize, len(data), img.Width, img.Height)
	}

	f := s.funcs
	gpu.GLErr(f)

	prevTex := uint32(f.GetInteger(gpu.TEXTURE_BINDING_2D))
	f.BindTexture(gpu.TEXTURE_2D, img.TexId)
	f.PixelStorei(gpu.UNPACK_ALIGNMENT, 1)
	f.TexSubImage2D(gpu.TEXTURE_2D, 0, 0, 0, img.Width, img.Height, gpu.RGBA, gpu.UNSIGNED_BYTE, data)
	f.PixelStorei(gpu.UNPACK_ALIGNMENT, 4)

	if img.Flags.Has(ImageFlags_GenerateMipmaps) {
		f.GenerateMipmap(gpu.TEXTURE_2D)
	}

	f.BindTexture(gpu.TEXTURE_2D, prevTex)
	return gpu.GLErr(f)
}

// DeleteImage releases the texture of the image. Unknown ids are ignored.
func (s *Store) DeleteImage(id int) {

	img, ok := s.images[id]
	if !ok {
		logging.WarnLog.Printf("DeleteImage called with unknown image id. Id=%d\n", id)
		return
	}

	s.funcs.DeleteTexture(img.TexId)
	delete(s.images, id)
}

// Release deletes all remaining images
func (s *Store) Release() {

	for id, img := range s.images {
		s.funcs.DeleteTexture(img.TexId)
		delete(s.images, id)
	}
}

func rgbaBytes(src image.Image, flags ImageFlags) []byte {

	b := src.Bounds()
	if flags.Has(ImageFlags_Premultiplied) {

		// image.RGBA is premultiplied
		if rgba, ok := src.(*image.RGBA); ok && rgba.Stride == b.Dx()*4 && b.Min == rgba.Rect.Min {
			return rgba.Pix[:b.Dx()*b.Dy()*4]
		}

		dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Copy(dst, image.Point{}, src, b, draw.Src, nil)
		return dst.Pix
	}

	if nrgba, ok := src.(*image.NRGBA); ok && nrgba.Stride == b.Dx()*4 && b.Min == nrgba.Rect.Min {
		return nrgba.Pix[:b.Dx()*b.Dy()*4]
	}

	return prism.ConvertImageToNRGBA(src, runtime.NumCPU()).Pix
}
