package maploader

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lafriks/go-tiled"
	"github.com/samber/oops"

	"chosenoffset.com/christmasbits/internal/world/tilemap"
)

// loadTMX reads a Tiled XML map. go-tiled keeps tile layers, object groups
// and groups in separate lists, so tile layers come first, then object
// layers, then each group's layers in the same order.
func (l *Loader) loadTMX(path string) (*tilemap.Map, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, oops.Code("MAP_READ_FAILED").Wrap(err)
	}
	tm, err := tiled.LoadFile(path)
	if err != nil {
		return nil, oops.Code("MAP_PARSE_FAILED").Wrap(err)
	}
	if tm.Width <= 0 || tm.Height <= 0 {
		return nil, oops.Code("MAP_INVALID").Errorf("invalid map dimensions: %dx%d", tm.Width, tm.Height)
	}
	if tm.Infinite {
		return nil, oops.Code("MAP_UNSUPPORTED").Errorf("infinite maps are not supported")
	}
	l.checkVersion(tm.TiledVersion)

	tileW, tileH := tileDims(tm.TileWidth, tm.TileHeight)
	m := &tilemap.Map{
		Width:    tm.Width,
		Height:   tm.Height,
		TileSize: tileW,
	}

	var addLayers func(layers []*tiled.Layer, groups []*tiled.ObjectGroup, nested []*tiled.Group)
	addLayers = func(layers []*tiled.Layer, groups []*tiled.ObjectGroup, nested []*tiled.Group) {
		for _, tl := range layers {
			m.Layers = append(m.Layers, tmxTileLayer(tl, tm.Width))
		}
		for _, og := range groups {
			layer := tmxObjectLayer(og)
			m.Layers = append(m.Layers, layer)
			m.Spawns = append(m.Spawns, spawnsFrom(layer.Objects, tileW, tileH)...)
		}
		for _, g := range nested {
			addLayers(g.Layers, g.ObjectGroups, g.Groups)
		}
	}
	addLayers(tm.Layers, tm.ObjectGroups, tm.Groups)

	for _, ts := range tm.Tilesets {
		if ts == nil {
			continue
		}
		tf := tilesetFile{
			FirstGID:   ts.FirstGID,
			Name:       ts.Name,
			Source:     ts.Source,
			TileWidth:  ts.TileWidth,
			TileHeight: ts.TileHeight,
		}
		if ts.Image != nil {
			tf.Image = ts.Image.Source
			tf.ImageWidth = ts.Image.Width
			tf.ImageHeight = ts.Image.Height
		}
		if resolved, ok := l.resolveTileset(tf); ok {
			m.Tilesets = append(m.Tilesets, resolved)
		}
	}
	sort.SliceStable(m.Tilesets, func(i, j int) bool {
		return m.Tilesets[i].FirstGID < m.Tilesets[j].FirstGID
	})

	return m, nil
}

// tmxTileLayer turns decoded layer tiles back into global ids.
func tmxTileLayer(tl *tiled.Layer, width int) tilemap.Layer {
	layer := tilemap.Layer{
		Name:    tl.Name,
		Kind:    tilemap.TileLayer,
		Visible: tl.Visible,
		Width:   width,
		Data:    make([]uint32, len(tl.Tiles)),
	}
	for i, t := range tl.Tiles {
		if t == nil || t.Nil || t.Tileset == nil {
			continue
		}
		layer.Data[i] = t.Tileset.FirstGID + t.ID
	}
	return layer
}

func tmxObjectLayer(og *tiled.ObjectGroup) tilemap.Layer {
	layer := tilemap.Layer{
		Name:    og.Name,
		Kind:    tilemap.ObjectLayer,
		Visible: og.Visible,
	}
	for _, o := range og.Objects {
		if o == nil {
			continue
		}
		of := objectFile{Name: o.Name, Type: o.Type}
		layer.Objects = append(layer.Objects, tilemap.Object{
			Name:   o.Name,
			Type:   objectType(of),
			X:      float64(o.X),
			Y:      float64(o.Y),
			Width:  float64(o.Width),
			Height: float64(o.Height),
			GID:    uint32(o.GID) & tilemap.GIDMask,
		})
	}
	return layer
}

// isTMX reports whether path names a Tiled XML map.
func isTMX(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".tmx")
}
