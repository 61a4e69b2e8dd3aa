package genesis

// CacheKey identifies one rasterization: a glyph of one rune from one
// face at one pixel size.
type CacheKey struct {
	Face int
	Size int
	Ch   rune
}

// CacheEntry is the cached product of rasterizing a glyph: its
// uploaded texture plus the metrics the layout pass needs.
type CacheEntry struct {
	Texture Texture

	// Width and Height are the bitmap dimensions in pixels.
	Width  int
	Height int

	// Left and Top are the bearings from RasterGlyph, in pixels.
	Left int
	Top  int

	// AdvanceX and AdvanceY are the pen advance in 1/65536 pixel
	// units.
	AdvanceX int32
	AdvanceY int32

	// Index is the glyph index within its face, zero for
	// placeholder entries.
	Index GlyphIndex
}

// CacheStats counts cache outcomes since construction.
type CacheStats struct {
	Hits   uint64
	Misses uint64
}

// GlyphCache memoizes rasterized glyphs keyed by (face, size, rune).
// Entries live for the life of the cache; there is no eviction, the
// working set of a session's faces, sizes and runes is assumed to fit.
//
// The cache is used from the rendering thread only and is not safe
// for concurrent use.
type GlyphCache struct {
	backend Backend
	faces   *FaceRegistry
	entries map[CacheKey]*CacheEntry
	stats   CacheStats
}

// NewGlyphCache creates an empty cache that rasterizes through the
// given face registry and uploads through the given backend.
func NewGlyphCache(backend Backend, faces *FaceRegistry) *GlyphCache {
	return &GlyphCache{
		backend: backend,
		faces:   faces,
		entries: make(map[CacheKey]*CacheEntry),
	}
}

// GetOrRasterize returns the cached entry for key, rasterizing and
// uploading it on first use. A rune the face cannot map, or a bitmap
// the texture conversion cannot handle, is replaced by a placeholder
// box and logged once; only backend failures surface as errors.
//
// Passing a key whose Face index was never registered panics, same as
// FaceRegistry.At.
func (c *GlyphCache) GetOrRasterize(key CacheKey) (*CacheEntry, error) {
	if entry, ok := c.entries[key]; ok {
		c.stats.Hits++
		return entry, nil
	}
	c.stats.Misses++

	face := c.faces.At(key.Face)
	glyph, err := face.Glyph(key.Ch, key.Size)
	if err != nil {
		Logger().Warn("substituting placeholder glyph",
			"ch", string(key.Ch), "face", key.Face, "size", key.Size, "err", err)
		glyph = placeholderGlyph(key.Size)
	}

	pix, err := glyph.Bitmap.GrayPixels()
	if err != nil {
		Logger().Warn("substituting placeholder glyph",
			"ch", string(key.Ch), "face", key.Face, "size", key.Size, "err", err)
		glyph = placeholderGlyph(key.Size)
		if pix, err = glyph.Bitmap.GrayPixels(); err != nil {
			return nil, err
		}
	}

	tex, err := c.backend.NewGrayTexture(glyph.Bitmap.Width, glyph.Bitmap.Height, pix)
	if err != nil {
		return nil, err
	}

	entry := &CacheEntry{
		Texture:  tex,
		Width:    glyph.Bitmap.Width,
		Height:   glyph.Bitmap.Height,
		Left:     glyph.Left,
		Top:      glyph.Top,
		AdvanceX: glyph.AdvanceX,
		AdvanceY: glyph.AdvanceY,
		Index:    glyph.Index,
	}
	c.entries[key] = entry
	return entry, nil
}

// Len reports the number of cached entries.
func (c *GlyphCache) Len() int {
	return len(c.entries)
}

// Stats returns hit and miss counts since construction.
func (c *GlyphCache) Stats() CacheStats {
	return c.stats
}

// placeholderGlyph builds the hollow box substituted for glyphs that
// cannot be rasterized. Its advance leaves a pixel of air on each
// side.
func placeholderGlyph(size int) *RasterGlyph {
	w := max(2, size/2)
	h := max(2, size*3/4)
	pix := make([]byte, w*h)
	for x := 0; x < w; x++ {
		pix[x] = 0xff
		pix[(h-1)*w+x] = 0xff
	}
	for y := 0; y < h; y++ {
		pix[y*w] = 0xff
		pix[y*w+w-1] = 0xff
	}
	return &RasterGlyph{
		Bitmap:   Bitmap{Width: w, Height: h, Pitch: w, Mode: PixelModeGray, Pix: pix},
		Left:     0,
		Top:      h,
		AdvanceX: int32(w+2) << 16,
		Index:    0,
	}
}
