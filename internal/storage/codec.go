package storage

import (
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/annel0/tilemap-engine/internal/atlas"
	"github.com/annel0/tilemap-engine/internal/tile"
	"github.com/annel0/tilemap-engine/internal/tilemap"
	"github.com/annel0/tilemap-engine/internal/vec"
)

// Кодек снимков: JSON + zstd. Снимок разреженный — пустые клетки не
// записываются, поэтому большие карты с редкой застройкой сжимаются хорошо.

var (
	zstdEncoder, _ = zstd.NewWriter(nil)
	zstdDecoder, _ = zstd.NewReader(nil)
)

// mapSnapshot — сериализуемое представление карты
type mapSnapshot struct {
	Size      vec.Vec3     `json:"size"`
	ChunkSize vec.Vec2     `json:"chunk_size"`
	TileSize  vec.Vec2     `json:"tile_size"`
	Tiles     []tileRecord `json:"tiles,omitempty"`
}

// tileRecord — одна непустая клетка карты
type tileRecord struct {
	Coord    vec.Vec3      `json:"coord"`
	Entity   uint64        `json:"entity,omitempty"`
	Pickable bool          `json:"pickable,omitempty"`
	Sprite   *spriteRecord `json:"sprite,omitempty"`
	Fill     *fillRecord   `json:"fill,omitempty"`
}

type spriteRecord struct {
	Idx       uint16         `json:"idx"`
	Transform tile.Transform `json:"transform"`
	Color     tile.Color     `json:"color"`
}

type fillRecord struct {
	Color     tile.Color     `json:"color"`
	Transform tile.Transform `json:"transform"`
}

// encodeMap сериализует карту в сжатый снимок
func encodeMap(tm *tilemap.TileMap) ([]byte, error) {
	size := tm.Size()
	snap := mapSnapshot{
		Size:      size,
		ChunkSize: tm.ChunkSize(),
		TileSize:  tm.TileSize(),
	}

	for z := 0; z < size.Z; z++ {
		for y := 0; y < size.Y; y++ {
			for x := 0; x < size.X; x++ {
				coord := vec.Vec3{X: x, Y: y, Z: z}
				t := tm.MustGet(coord)
				if t.Empty() {
					continue
				}

				rec := tileRecord{
					Coord:    coord,
					Entity:   t.Entity,
					Pickable: t.Pickable,
				}
				switch k := t.Kind.(type) {
				case tile.Sprite:
					rec.Sprite = &spriteRecord{Idx: k.Idx, Transform: k.Transform, Color: k.MaskColor}
				case tile.ColorFill:
					rec.Fill = &fillRecord{Color: k.Color, Transform: k.Transform}
				default:
					return nil, fmt.Errorf("storage: неизвестный вид тайла %T в клетке %v", t.Kind, coord)
				}
				snap.Tiles = append(snap.Tiles, rec)
			}
		}
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации снимка: %w", err)
	}
	return zstdEncoder.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}

// decodeMap восстанавливает карту из сжатого снимка.
// Все чанки восстановленной карты помечаются грязными.
func decodeMap(data []byte, sheet *atlas.TileSheet) (*tilemap.TileMap, error) {
	raw, err := zstdDecoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка распаковки снимка: %w", err)
	}

	var snap mapSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("ошибка десериализации снимка: %w", err)
	}

	tm := tilemap.New(vec.Vec2{X: snap.Size.X, Y: snap.Size.Y}, snap.ChunkSize, snap.TileSize, sheet)
	for z := 1; z < snap.Size.Z; z++ {
		tm.AddEmptyLayer()
	}
	for _, rec := range snap.Tiles {
		if !tm.InBounds(rec.Coord) {
			return nil, fmt.Errorf("storage: клетка %v за границами карты %v", rec.Coord, snap.Size)
		}

		t := tile.Tile{Entity: rec.Entity, Pickable: rec.Pickable}
		switch {
		case rec.Sprite != nil:
			t.Kind = tile.Sprite{Idx: rec.Sprite.Idx, Transform: rec.Sprite.Transform, MaskColor: rec.Sprite.Color}
		case rec.Fill != nil:
			t.Kind = tile.ColorFill{Color: rec.Fill.Color, Transform: rec.Fill.Transform}
		default:
			return nil, fmt.Errorf("storage: клетка %v без вида тайла", rec.Coord)
		}
		tm.SetUnchecked(rec.Coord, t)
	}

	tm.MarkAllChunksDirty()
	return tm, nil
}
