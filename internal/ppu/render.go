package ppu

// renderLine composites one scanline (background, window, sprites)
// and hands the 160 final (post-palette) shades to the Display sink,
// per spec.md §4.6's three-pass algorithm. It runs once per line, at
// the pixel-transfer -> H-blank transition.
func (p *PPU) renderLine() {
	var bgIndex [ScreenWidth]uint8
	if p.lcdc.backgroundEnabled {
		p.renderBackground(&bgIndex)
		p.renderWindow(&bgIndex)
	}

	var spriteIndex [ScreenWidth]uint8
	var spritePriority [ScreenWidth]bool
	var spriteDrawn [ScreenWidth]bool
	if p.lcdc.spriteEnabled {
		p.renderSprites(&spriteIndex, &spritePriority, &spriteDrawn)
	}

	for x := 0; x < ScreenWidth; x++ {
		if spriteDrawn[x] && !(spritePriority[x] && bgIndex[x] != 0) {
			p.line[x] = applyPalette(p.obpFor(x, spriteIndex[x]), spriteIndex[x])
		} else {
			p.line[x] = applyPalette(p.bgp, bgIndex[x])
		}
	}
	p.display.DrawLine(int(p.ly), p.line)
}

// tilePixel returns the 2-bit raw color index of pixel (col,row)
// within the BG/Window tile whose ID byte is tileID, honoring lcdc's
// signed/unsigned tile-data addressing.
func (p *PPU) tilePixel(tileID uint8, col, row int) uint8 {
	var base uint16
	if p.lcdc.tileData == 0x8000 {
		base = p.lcdc.tileData + uint16(tileID)*16
	} else {
		base = uint16(int32(p.lcdc.tileData) + int32(int8(tileID))*16)
	}
	return p.tileRowPixel(base, col, row)
}

// spriteTilePixel is tilePixel for objects: sprite tiles are always
// addressed unsigned from 0x8000, independent of lcdc's BG/Window
// data-select bit.
func (p *PPU) spriteTilePixel(tileID uint8, col, row int) uint8 {
	return p.tileRowPixel(0x8000+uint16(tileID)*16, col, row)
}

func (p *PPU) tileRowPixel(base uint16, col, row int) uint8 {
	rowAddr := base + uint16(row)*2
	lo := p.vram[rowAddr-0x8000]
	hi := p.vram[rowAddr+1-0x8000]
	bit := uint(7 - col)
	return (hi>>bit&1)<<1 | (lo >> bit & 1)
}

// renderBackground samples the background tile map at
// (x+SCX, LY+SCY) mod 256 for each of the 160 columns.
func (p *PPU) renderBackground(out *[ScreenWidth]uint8) {
	bgY := int(p.ly) + int(p.scy)
	tileRow := (bgY / 8) % 32
	fineY := bgY % 8
	for x := 0; x < ScreenWidth; x++ {
		bgX := (x + int(p.scx)) & 0xFF
		tileCol := (bgX / 8) % 32
		tileID := p.vram[p.lcdc.bgTileMap-0x8000+uint16(tileRow*32+tileCol)]
		out[x] = p.tilePixel(tileID, bgX%8, fineY)
	}
}

// renderWindow overlays the window tile map wherever it covers the
// current line and has been reached horizontally, per spec.md §4.6.
func (p *PPU) renderWindow(out *[ScreenWidth]uint8) {
	if !p.lcdc.windowEnabled || p.ly < p.wy {
		return
	}
	winY := int(p.ly) - int(p.wy)
	tileRow := (winY / 8) % 32
	fineY := winY % 8
	wx := int(p.wx) - 7
	for x := 0; x < ScreenWidth; x++ {
		winX := x - wx
		if winX < 0 {
			continue
		}
		tileCol := (winX / 8) % 32
		tileID := p.vram[p.lcdc.windowTileMap-0x8000+uint16(tileRow*32+tileCol)]
		out[x] = p.tilePixel(tileID, winX%8, fineY)
	}
}

// visibleSprite is one OAM entry selected for the current scanline.
type visibleSprite struct {
	x, y     uint8
	tile     uint8
	flags    uint8
	oamIndex int
}

// scanOAM finds up to 10 sprites covering the current line, in OAM
// order (spec.md §4.6: "stopping at 10").
func (p *PPU) scanOAM() []visibleSprite {
	height := int(p.lcdc.spriteHeight)
	var found []visibleSprite
	for i := 0; i < 40 && len(found) < 10; i++ {
		base := i * 4
		y := p.oam[base]
		top := int(y)
		if int(p.ly)+16 >= top && int(p.ly)+16 < top+height {
			found = append(found, visibleSprite{
				y:        y,
				x:        p.oam[base+1],
				tile:     p.oam[base+2],
				flags:    p.oam[base+3],
				oamIndex: i,
			})
		}
	}
	return found
}

// renderSprites decodes each visible sprite's row (honoring X/Y flip
// and 8x16 tile-pair addressing) and composites it, highest priority
// (lowest X, ties by OAM order) first.
func (p *PPU) renderSprites(index *[ScreenWidth]uint8, priority *[ScreenWidth]bool, drawn *[ScreenWidth]bool) {
	sprites := p.scanOAM()
	// stable sort ascending by X; ties keep OAM order (stable + input
	// already in OAM order satisfies this).
	for i := 1; i < len(sprites); i++ {
		for j := i; j > 0 && sprites[j].x < sprites[j-1].x; j-- {
			sprites[j], sprites[j-1] = sprites[j-1], sprites[j]
		}
	}

	height := int(p.lcdc.spriteHeight)
	for _, s := range sprites {
		flipY := s.flags&0x40 != 0
		flipX := s.flags&0x20 != 0
		behindBG := s.flags&0x80 != 0
		useOBP1 := s.flags&0x10 != 0

		row := int(p.ly) + 16 - int(s.y)
		if flipY {
			row = height - 1 - row
		}
		tile := s.tile
		if height == 16 {
			tile &^= 1 // the top/bottom 8x16 tile pair ignores bit 0
			if row >= 8 {
				tile |= 1
				row -= 8
			}
		}

		screenX := int(s.x) - 8
		for col := 0; col < 8; col++ {
			x := screenX + col
			if x < 0 || x >= ScreenWidth || drawn[x] {
				continue
			}
			srcCol := col
			if flipX {
				srcCol = 7 - col
			}
			c := p.spriteTilePixel(tile, srcCol, row)
			if c == 0 {
				continue // color 0 is always transparent
			}
			index[x] = c
			priority[x] = behindBG
			drawn[x] = true
			if useOBP1 {
				index[x] |= 0x04 // tag so obpFor knows which palette; stripped by applyPalette mask
			}
		}
	}
}

// obpFor returns the OBP register governing the sprite pixel at x;
// renderSprites tags the palette choice into bit 2 of the stored index.
func (p *PPU) obpFor(x int, taggedIndex uint8) uint8 {
	if taggedIndex&0x04 != 0 {
		return p.obp1
	}
	return p.obp0
}

// applyPalette maps a raw 2-bit color index through a BGP/OBPx-style
// palette register (bits [2n+1:2n] select the shade for index n).
func applyPalette(palette, index uint8) uint8 {
	index &= 0x03 // strip renderSprites' OBP1 tag bit before lookup
	return (palette >> (index * 2)) & 0x03
}
