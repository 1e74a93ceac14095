// Package paginate slices a tall report raster into fixed-size output pages.
//
// The transform is purely geometric: no branch depends on report content,
// only on pixel dimensions. The source image is scaled to the output page
// width preserving aspect ratio, then consumed top to bottom one page height
// at a time. A final short band is kept with trailing blank space rather
// than cropped.
package paginate

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
)

// PageSize is the output page geometry in display units (points).
type PageSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// A4 is the default output page size in points.
var A4 = PageSize{Width: 595.28, Height: 841.89}

// DefaultPixelWidth is the raster width pages are rendered at when the
// caller does not specify one (roughly A4 at 150 DPI).
const DefaultPixelWidth = 1240

// PageSlice describes one output page's vertical extent within the source
// raster. Offsets and heights are in source pixels. Slices are ephemeral,
// computed fresh per export.
type PageSlice struct {
	SourceYOffset int `json:"sourceYOffset"`
	Height        int `json:"height"`
	PageIndex     int `json:"pageIndex"`
}

// heightEpsilon absorbs float error so an exact multiple of the page height
// never yields a zero-height trailing page.
const heightEpsilon = 1e-6

// Slices computes the page bands for a source raster of srcWidth x srcHeight
// pixels on pages of the given size. The source is scaled to the page width,
// so one page consumes srcWidth*page.Height/page.Width source pixels of
// height. Pages are emitted while unconsumed height remains strictly
// positive; a source no taller than one page yields exactly one slice.
func Slices(srcWidth, srcHeight int, page PageSize) []PageSlice {
	if srcWidth <= 0 || srcHeight <= 0 || page.Width <= 0 || page.Height <= 0 {
		return nil
	}

	pageSpan := float64(srcWidth) * page.Height / page.Width

	count := int(math.Ceil(float64(srcHeight)/pageSpan - heightEpsilon))
	if count < 1 {
		count = 1
	}

	// Band boundaries are rounded page-span multiples so consecutive slices
	// stay contiguous; the final slice absorbs any rounding remainder.
	slices := make([]PageSlice, 0, count)
	for i := 0; i < count; i++ {
		start := int(math.Round(float64(i) * pageSpan))
		end := int(math.Round(float64(i+1) * pageSpan))
		if i == count-1 {
			end = srcHeight
		}
		slices = append(slices, PageSlice{
			SourceYOffset: start,
			Height:        end - start,
			PageIndex:     i,
		})
	}
	return slices
}

// RenderPages rasterizes the source into one image per output page. The
// source is resampled to pixelWidth (DefaultPixelWidth when <= 0), then each
// page redraws the scaled image at a negative vertical offset equal to the
// cumulative consumed height, onto a white page canvas. The last page may
// carry trailing blank space.
func RenderPages(src image.Image, page PageSize, pixelWidth int) []*image.RGBA {
	if pixelWidth <= 0 {
		pixelWidth = DefaultPixelWidth
	}
	bounds := src.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil
	}

	scaledHeight := int(math.Round(float64(bounds.Dy()) * float64(pixelWidth) / float64(bounds.Dx())))
	if scaledHeight < 1 {
		scaledHeight = 1
	}
	scaled := image.NewRGBA(image.Rect(0, 0, pixelWidth, scaledHeight))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), src, bounds, xdraw.Over, nil)

	pagePixelHeight := int(math.Round(float64(pixelWidth) * page.Height / page.Width))
	if pagePixelHeight < 1 {
		return nil
	}

	slices := Slices(pixelWidth, scaledHeight, page)
	pages := make([]*image.RGBA, 0, len(slices))
	for _, slice := range slices {
		canvas := image.NewRGBA(image.Rect(0, 0, pixelWidth, pagePixelHeight))
		draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
		band := image.Rect(0, 0, pixelWidth, slice.Height)
		draw.Draw(canvas, band, scaled, image.Pt(0, slice.SourceYOffset), draw.Src)
		pages = append(pages, canvas)
	}
	return pages
}
