package loader

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/h2non/filetype"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

// decodeCube fetches and decodes the six faces of an environment map concurrently. The first failure cancels the
// remaining faces. Every face must be square and share one size.
func decodeCube(ctx context.Context, store fs.FS, faces [common.CubeFaceCount]string, cs common.ColorSpace) (*common.CubeTexture, error) {
	cube := &common.CubeTexture{ColorSpace: cs}

	g, ctx := errgroup.WithContext(ctx)
	for i, uri := range faces {
		g.Go(func() error {
			img, err := decodeFace(ctx, store, uri)
			if err != nil {
				return err
			}
			cube.Faces[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	size := cube.Faces[0].Bounds().Dx()
	for i, face := range cube.Faces {
		b := face.Bounds()
		if b.Dx() != b.Dy() || b.Dx() != size {
			return nil, decodeError(faces[i], fmt.Errorf("%w: face %d is %dx%d, want %dx%d", ErrFaceSize, i, b.Dx(), b.Dy(), size, size))
		}
	}
	cube.Size = size
	return cube, nil
}

func decodeFace(ctx context.Context, store fs.FS, uri string) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, networkError(uri, err)
	}

	f, err := store.Open(uri)
	if err != nil {
		return nil, networkError(uri, err)
	}
	data, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		return nil, networkError(uri, err)
	}

	kind, err := filetype.Match(data)
	if err != nil || !filetype.IsImage(data) {
		return nil, decodeError(uri, fmt.Errorf("%w: %s", ErrUnsupportedFormat, kind.MIME.Value))
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, decodeError(uri, fmt.Errorf("%s: %w", kind.MIME.Value, err))
	}

	if rgba, ok := src.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba, nil
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst, nil
}
