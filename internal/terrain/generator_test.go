package terrain

import (
	"sync"
	"testing"

	"blockworld/internal/block"
	"blockworld/internal/chunk"
	"blockworld/internal/config"
)

const testSize = 16

func testTerrain() config.Terrain {
	return config.Default().Terrain
}

func populated(p Populator, pos chunk.Coord) *chunk.Chunk {
	c := chunk.New(pos, testSize)
	p.Populate(c)
	return c
}

func TestGenerationDeterministic(t *testing.T) {
	a := NewGenerator(42, testTerrain())
	b := NewGenerator(42, testTerrain())
	for _, pos := range []chunk.Coord{{0, 0, 0}, {1, 1, 2}, {3, 0, 1}} {
		ca, cb := populated(a, pos), populated(b, pos)
		sa, sb := ca.Snapshot(), cb.Snapshot()
		for y := range testSize {
			for z := range testSize {
				for x := range testSize {
					if sa.Block(x, y, z) != sb.Block(x, y, z) {
						t.Fatalf("chunk %v differs at (%d,%d,%d)", pos, x, y, z)
					}
				}
			}
		}
	}
}

func TestBedrockLayer(t *testing.T) {
	c := populated(NewGenerator(7, testTerrain()), chunk.Coord{X: 2, Z: 5})
	for x := range testSize {
		for z := range testSize {
			if got := c.Block(x, 0, z); got != block.Bedrock {
				t.Fatalf("(%d,0,%d) = %v, want bedrock", x, z, got)
			}
		}
	}
	upper := populated(NewGenerator(7, testTerrain()), chunk.Coord{X: 2, Y: 1, Z: 5})
	for x := range testSize {
		for z := range testSize {
			if upper.Block(x, 0, z) == block.Bedrock {
				t.Fatalf("bedrock outside slot 0 at (%d,0,%d)", x, z)
			}
		}
	}
}

func TestOnlyKnownBlocks(t *testing.T) {
	g := NewGenerator(3, testTerrain())
	for slot := range 4 {
		c := populated(g, chunk.Coord{X: 1, Y: slot, Z: -2})
		s := c.Snapshot()
		for y := range testSize {
			for z := range testSize {
				for x := range testSize {
					if b := s.Block(x, y, z); b > block.Dirt {
						t.Fatalf("unexpected id %d at (%d,%d,%d)", b, x, y, z)
					}
				}
			}
		}
	}
}

func TestColumnMatchesSurfaceHeight(t *testing.T) {
	cfg := testTerrain()
	cfg.Caves = false
	g := NewGenerator(11, cfg)
	col := make([]block.Type, testSize)
	for gx := -20; gx < 20; gx += 3 {
		for gz := -20; gz < 20; gz += 5 {
			h := g.SurfaceHeight(gx, gz)
			slot := (h - 1) / testSize
			if h <= 1 {
				continue
			}
			g.Column(col, gx, gz, slot, testSize)
			top := h - 1 - slot*testSize
			if col[top] != block.Grass {
				t.Fatalf("column (%d,%d) h=%d: top %v, want grass", gx, gz, h, col[top])
			}
			if top+1 < testSize && col[top+1] != block.Air {
				t.Fatalf("column (%d,%d): block above surface", gx, gz)
			}
		}
	}
}

func TestColumnDepthBands(t *testing.T) {
	cfg := testTerrain()
	cfg.Caves = false
	g := NewGenerator(23, cfg)
	const size = 256
	col := make([]block.Type, size)
	sawDirt, sawStone := false, false
	for gx := -40; gx < 40; gx += 7 {
		for gz := -40; gz < 40; gz += 3 {
			h := g.SurfaceHeight(gx, gz)
			if h < 2 || h > size {
				t.Fatalf("column (%d,%d): height %d out of test range", gx, gz, h)
			}
			g.Column(col, gx, gz, 0, size)
			white := g.src.White2(int64(gx), int64(gz))
			stoneBelow := float64(h) - float64(cfg.DirtDepth) - white*cfg.DirtJitter
			for y := 1; y < h-1; y++ {
				want := block.Dirt
				if float64(y) < stoneBelow {
					want = block.Stone
				}
				if col[y] != want {
					t.Fatalf("column (%d,%d) h=%d y=%d: got %v, want %v (stone below %.2f)", gx, gz, h, y, col[y], want, stoneBelow)
				}
				// Stone never reaches within DirtDepth-DirtJitter of the surface.
				if col[y] == block.Stone && float64(y) >= float64(h)-float64(cfg.DirtDepth)+cfg.DirtJitter {
					t.Fatalf("column (%d,%d): stone at y=%d too close to surface %d", gx, gz, y, h)
				}
				// Dirt never reaches deeper than DirtDepth+DirtJitter.
				if col[y] == block.Dirt && float64(y) < float64(h)-float64(cfg.DirtDepth)-cfg.DirtJitter {
					t.Fatalf("column (%d,%d): dirt at y=%d too deep under %d", gx, gz, y, h)
				}
				sawDirt = sawDirt || col[y] == block.Dirt
				sawStone = sawStone || col[y] == block.Stone
			}
			if col[h-1] != block.Grass {
				t.Fatalf("column (%d,%d): surface %v, want grass", gx, gz, col[h-1])
			}
		}
	}
	if !sawDirt || !sawStone {
		t.Fatalf("bands not exercised: dirt=%v stone=%v", sawDirt, sawStone)
	}
}

func TestClampedColumnHasNoGrass(t *testing.T) {
	cfg := testTerrain()
	cfg.Caves = false
	cfg.BaseHeight = 500
	g := NewGenerator(3, cfg)
	col := make([]block.Type, testSize)
	for slot := range 3 {
		for gx := range 8 {
			g.Column(col, gx, 4, slot, testSize)
			for y, b := range col {
				if b == block.Grass {
					t.Fatalf("slot %d column %d: grass at y=%d below the surface", slot, gx, y)
				}
				if b == block.Air {
					t.Fatalf("slot %d column %d: air at y=%d below the surface", slot, gx, y)
				}
			}
			if col[testSize-1] != block.Stone {
				t.Fatalf("slot %d column %d: top cell %v, want stone", slot, gx, col[testSize-1])
			}
		}
	}
}

func TestSurfaceHeightWithoutBiomes(t *testing.T) {
	cfg := testTerrain()
	cfg.Biomes = false
	g := NewGenerator(17, cfg)
	for gx := -30; gx < 30; gx += 4 {
		for gz := -30; gz < 30; gz += 6 {
			x, z := float64(gx)*cfg.Frequency, float64(gz)*cfg.Frequency
			want := int(48*g.src.Unit2(x, z)) + cfg.BaseHeight
			got := g.SurfaceHeight(gx, gz)
			if got != want {
				t.Fatalf("(%d,%d): height %d, want %d", gx, gz, got, want)
			}
			if got < cfg.BaseHeight || got > cfg.BaseHeight+48 {
				t.Fatalf("(%d,%d): height %d outside [%d,%d]", gx, gz, got, cfg.BaseHeight, cfg.BaseHeight+48)
			}
		}
	}
}

func TestCavesOnlyRemoveBlocks(t *testing.T) {
	solid := testTerrain()
	solid.Caves = false
	carved := testTerrain()
	ga, gb := NewGenerator(5, solid), NewGenerator(5, carved)
	a := make([]block.Type, testSize)
	b := make([]block.Type, testSize)
	for gx := range 32 {
		for slot := range 4 {
			ga.Column(a, gx, 9, slot, testSize)
			gb.Column(b, gx, 9, slot, testSize)
			for y := range testSize {
				if b[y] != block.Air && b[y] != a[y] {
					t.Fatalf("cave pass changed (%d,%d) from %v to %v", gx, y, a[y], b[y])
				}
			}
		}
	}
}

func TestConcurrentPopulate(t *testing.T) {
	g := NewGenerator(99, testTerrain())
	want := populated(g, chunk.Coord{X: 1, Z: 1}).Snapshot()

	var wg sync.WaitGroup
	got := make([]*chunk.Snapshot, 8)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = populated(g, chunk.Coord{X: 1, Z: 1}).Snapshot()
		}(i)
	}
	wg.Wait()
	for i, s := range got {
		for y := range testSize {
			for z := range testSize {
				for x := range testSize {
					if s.Block(x, y, z) != want.Block(x, y, z) {
						t.Fatalf("goroutine %d differs at (%d,%d,%d)", i, x, y, z)
					}
				}
			}
		}
	}
}

func TestFlatLayers(t *testing.T) {
	f := Flat{Height: 4}
	c := populated(f, chunk.Coord{})
	want := []block.Type{block.Bedrock, block.Dirt, block.Dirt, block.Grass, block.Air}
	for y, b := range want {
		if got := c.Block(3, y, 7); got != b {
			t.Errorf("y=%d: got %v, want %v", y, got, b)
		}
	}
	if n := c.Count(); n != 4*testSize*testSize {
		t.Errorf("Count = %d, want %d", n, 4*testSize*testSize)
	}
}

func TestFromConfig(t *testing.T) {
	cfg := testTerrain()
	cfg.Generator = config.GeneratorFlat
	p, err := FromConfig(1, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.(Flat); !ok {
		t.Fatalf("FromConfig(flat) = %T", p)
	}
	cfg.Generator = "lava"
	if _, err := FromConfig(1, cfg); err == nil {
		t.Fatalf("unknown generator accepted")
	}
}

func BenchmarkPopulate(b *testing.B) {
	g := NewGenerator(1, testTerrain())
	for i := 0; i < b.N; i++ {
		c := chunk.New(chunk.Coord{X: i % 8, Z: i / 8 % 8}, chunk.DefaultSize)
		g.Populate(c)
	}
}
