package paginate

import (
	"image"
	"image/color"
	"testing"
)

func TestSlices_ExactMultiple(t *testing.T) {
	page := PageSize{Width: 100, Height: 200}

	// Source width equals page width, so one page consumes 200 source px.
	for k := 1; k <= 5; k++ {
		slices := Slices(100, k*200, page)
		if len(slices) != k {
			t.Errorf("height %d: got %d pages, want %d", k*200, len(slices), k)
		}
	}
}

func TestSlices_OneExtraUnit(t *testing.T) {
	page := PageSize{Width: 100, Height: 200}

	for k := 1; k <= 5; k++ {
		slices := Slices(100, k*200+1, page)
		if len(slices) != k+1 {
			t.Fatalf("height %d: got %d pages, want %d", k*200+1, len(slices), k+1)
		}
		last := slices[len(slices)-1]
		if last.Height != 1 {
			t.Errorf("last page height = %d, want 1", last.Height)
		}
		if last.SourceYOffset != k*200 {
			t.Errorf("last page offset = %d, want %d", last.SourceYOffset, k*200)
		}
	}
}

func TestSlices_ShortSourceSinglePage(t *testing.T) {
	page := PageSize{Width: 100, Height: 200}

	for _, h := range []int{1, 50, 199, 200} {
		slices := Slices(100, h, page)
		if len(slices) != 1 {
			t.Errorf("height %d: got %d pages, want 1", h, len(slices))
			continue
		}
		if slices[0].SourceYOffset != 0 || slices[0].Height != h {
			t.Errorf("height %d: slice = %+v", h, slices[0])
		}
	}
}

func TestSlices_ScaledWidth(t *testing.T) {
	// Source twice as wide as the page: one page consumes twice the page
	// height in source pixels.
	page := PageSize{Width: 100, Height: 200}
	slices := Slices(200, 800, page)
	if len(slices) != 2 {
		t.Fatalf("got %d pages, want 2", len(slices))
	}
	if slices[1].SourceYOffset != 400 {
		t.Errorf("second page offset = %d, want 400", slices[1].SourceYOffset)
	}
}

func TestSlices_ContiguousCoverage(t *testing.T) {
	page := PageSize{Width: 612, Height: 792}
	slices := Slices(1240, 5000, page)
	if len(slices) == 0 {
		t.Fatal("no slices")
	}

	covered := 0
	for i, s := range slices {
		if s.PageIndex != i {
			t.Errorf("slice %d has PageIndex %d", i, s.PageIndex)
		}
		if i > 0 {
			prev := slices[i-1]
			if s.SourceYOffset != prev.SourceYOffset+prev.Height {
				t.Errorf("gap between slice %d and %d: %d != %d+%d",
					i-1, i, s.SourceYOffset, prev.SourceYOffset, prev.Height)
			}
		}
		covered += s.Height
	}
	if covered != 5000 {
		t.Errorf("covered %d source px, want 5000", covered)
	}
}

func TestSlices_DegenerateInputs(t *testing.T) {
	if got := Slices(0, 100, A4); got != nil {
		t.Errorf("zero width: got %v", got)
	}
	if got := Slices(100, 0, A4); got != nil {
		t.Errorf("zero height: got %v", got)
	}
	if got := Slices(100, 100, PageSize{}); got != nil {
		t.Errorf("zero page: got %v", got)
	}
}

func TestRenderPages_Geometry(t *testing.T) {
	page := PageSize{Width: 100, Height: 200}
	pixelWidth := 100

	// Source already at target width, 450 px tall: 3 pages of 200 px.
	src := image.NewRGBA(image.Rect(0, 0, 100, 450))
	pages := RenderPages(src, page, pixelWidth)
	if len(pages) != 3 {
		t.Fatalf("got %d pages, want 3", len(pages))
	}
	for i, p := range pages {
		b := p.Bounds()
		if b.Dx() != 100 || b.Dy() != 200 {
			t.Errorf("page %d is %dx%d, want 100x200", i, b.Dx(), b.Dy())
		}
	}
}

func TestRenderPages_BandsShowSuccessiveContent(t *testing.T) {
	page := PageSize{Width: 100, Height: 100}

	// Top half red, bottom half blue. Two pages: first red, second blue.
	src := image.NewRGBA(image.Rect(0, 0, 100, 200))
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	for y := 0; y < 200; y++ {
		for x := 0; x < 100; x++ {
			if y < 100 {
				src.Set(x, y, red)
			} else {
				src.Set(x, y, blue)
			}
		}
	}

	pages := RenderPages(src, page, 100)
	if len(pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(pages))
	}

	r0, _, b0, _ := pages[0].At(50, 50).RGBA()
	if r0 < b0 {
		t.Errorf("first page center not red: r=%d b=%d", r0, b0)
	}
	r1, _, b1, _ := pages[1].At(50, 50).RGBA()
	if b1 < r1 {
		t.Errorf("second page center not blue: r=%d b=%d", r1, b1)
	}
}

func TestRenderPages_TrailingBlankSpaceIsWhite(t *testing.T) {
	page := PageSize{Width: 100, Height: 200}

	// 250 px tall: second page has 50 px of content, then white.
	src := image.NewRGBA(image.Rect(0, 0, 100, 250))
	black := color.RGBA{A: 255}
	for y := 0; y < 250; y++ {
		for x := 0; x < 100; x++ {
			src.Set(x, y, black)
		}
	}

	pages := RenderPages(src, page, 100)
	if len(pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(pages))
	}

	r, g, b, _ := pages[1].At(50, 150).RGBA()
	if r != 0xffff || g != 0xffff || b != 0xffff {
		t.Errorf("trailing area not white: %d %d %d", r, g, b)
	}
}

func TestRenderPages_DefaultPixelWidth(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 620, 500))
	pages := RenderPages(src, A4, 0)
	if len(pages) == 0 {
		t.Fatal("no pages rendered")
	}
	if pages[0].Bounds().Dx() != DefaultPixelWidth {
		t.Errorf("page width = %d, want %d", pages[0].Bounds().Dx(), DefaultPixelWidth)
	}
}
