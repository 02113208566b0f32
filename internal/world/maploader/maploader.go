// Package maploader reads Tiled maps, JSON exports or TMX files, into the
// tilemap model.
package maploader

import (
	"encoding/json"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/samber/oops"

	"chosenoffset.com/christmasbits/internal/logging"
	"chosenoffset.com/christmasbits/internal/render"
	"chosenoffset.com/christmasbits/internal/world/tilemap"
)

// DefaultTileSize is used when a map or tileset omits its tile size.
const DefaultTileSize = 32

// testedTiled is the range of Tiled editor versions whose output is known to load.
var testedTiled = mustConstraint(">= 1.2, < 2.0")

func mustConstraint(s string) *semver.Constraints {
	c, err := semver.NewConstraint(s)
	if err != nil {
		panic(err)
	}
	return c
}

// mapFile mirrors the subset of the Tiled JSON map format the game reads.
type mapFile struct {
	Width        int           `json:"width"`
	Height       int           `json:"height"`
	TileWidth    int           `json:"tilewidth"`
	TileHeight   int           `json:"tileheight"`
	Infinite     bool          `json:"infinite"`
	TiledVersion string        `json:"tiledversion"`
	Layers       []layerFile   `json:"layers"`
	Tilesets     []tilesetFile `json:"tilesets"`
}

type layerFile struct {
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	Visible  *bool           `json:"visible"`
	Width    int             `json:"width"`
	Encoding string          `json:"encoding"`
	Data     json.RawMessage `json:"data"`
	Objects  []objectFile    `json:"objects"`
	Layers   []layerFile     `json:"layers"` // group layers
}

type objectFile struct {
	Name   string  `json:"name"`
	Type   string  `json:"type"`
	Class  string  `json:"class"` // Tiled 1.9 renamed type to class
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	GID    uint32  `json:"gid"`
}

type tilesetFile struct {
	FirstGID    uint32 `json:"firstgid"`
	Name        string `json:"name"`
	Source      string `json:"source"`
	Image       string `json:"image"`
	TileWidth   int    `json:"tilewidth"`
	TileHeight  int    `json:"tileheight"`
	ImageWidth  int    `json:"imagewidth"`
	ImageHeight int    `json:"imageheight"`
}

// Loader resolves maps and their tileset images.
type Loader struct {
	// Resources loads tileset images; nil leaves every tileset without an image.
	Resources render.ResourceLoader
	// AssetDir is searched for tileset images by file name.
	AssetDir string
	Logger   *slog.Logger
}

// New creates a loader.
func New(resources render.ResourceLoader, assetDir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{Resources: resources, AssetDir: assetDir, Logger: logger}
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.Default()
}

// Load reads the map at path. Files ending in .tmx are read as Tiled XML,
// anything else as a Tiled JSON export.
func (l *Loader) Load(path string) (*tilemap.Map, error) {
	var (
		m   *tilemap.Map
		err error
	)
	if isTMX(path) {
		m, err = l.loadTMX(path)
	} else {
		var data []byte
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, oops.Code("MAP_READ_FAILED").With("path", path).Wrap(err)
		}
		m, err = l.Parse(data)
	}
	if err != nil {
		return nil, oops.With("path", path).Wrap(err)
	}
	l.logger().Info("map loaded", "path", path,
		"width", m.Width, "height", m.Height, "layers", len(m.Layers),
		"tilesets", len(m.Tilesets), "spawns", len(m.Spawns))
	return m, nil
}

// LoadOrStub reads the map at path, falling back to the stub map on any
// failure.
func (l *Loader) LoadOrStub(path string) *tilemap.Map {
	m, err := l.Load(path)
	if err != nil {
		logging.LogError(l.logger(), "map load failed, using stub map", err)
		return tilemap.Stub()
	}
	return m
}

// Parse decodes a Tiled JSON document.
func (l *Loader) Parse(data []byte) (*tilemap.Map, error) {
	var mf mapFile
	if err := json.Unmarshal(data, &mf); err != nil {
		return nil, oops.Code("MAP_PARSE_FAILED").Wrap(err)
	}
	if mf.Width <= 0 || mf.Height <= 0 {
		return nil, oops.Code("MAP_INVALID").Errorf("invalid map dimensions: %dx%d", mf.Width, mf.Height)
	}
	if mf.Infinite {
		return nil, oops.Code("MAP_UNSUPPORTED").Errorf("infinite maps are not supported")
	}
	l.checkVersion(mf.TiledVersion)

	tileSize, tileHeight := tileDims(mf.TileWidth, mf.TileHeight)

	m := &tilemap.Map{
		Width:    mf.Width,
		Height:   mf.Height,
		TileSize: tileSize,
	}

	layers, err := flattenLayers(mf.Layers)
	if err != nil {
		return nil, err
	}
	for _, lf := range layers {
		layer, err := convertLayer(lf)
		if err != nil {
			return nil, err
		}
		m.Layers = append(m.Layers, layer)
		if layer.Kind == tilemap.ObjectLayer {
			m.Spawns = append(m.Spawns, spawnsFrom(layer.Objects, tileSize, tileHeight)...)
		}
	}

	for _, tf := range mf.Tilesets {
		if ts, ok := l.resolveTileset(tf); ok {
			m.Tilesets = append(m.Tilesets, ts)
		}
	}
	sort.SliceStable(m.Tilesets, func(i, j int) bool {
		return m.Tilesets[i].FirstGID < m.Tilesets[j].FirstGID
	})

	return m, nil
}

func (l *Loader) checkVersion(raw string) {
	if raw == "" {
		return
	}
	v, err := semver.NewVersion(raw)
	if err != nil {
		l.logger().Warn("unrecognised tiled version", "tiledversion", raw)
		return
	}
	if !testedTiled.Check(v) {
		l.logger().Warn("map written by an untested tiled version", "tiledversion", v.String())
	}
}

// flattenLayers expands group layers in draw order.
func flattenLayers(in []layerFile) ([]layerFile, error) {
	var out []layerFile
	for _, lf := range in {
		switch lf.Type {
		case "group":
			inner, err := flattenLayers(lf.Layers)
			if err != nil {
				return nil, err
			}
			if lf.Visible != nil && !*lf.Visible {
				hidden := false
				for i := range inner {
					inner[i].Visible = &hidden
				}
			}
			out = append(out, inner...)
		case "tilelayer", "objectgroup":
			out = append(out, lf)
		case "imagelayer":
			// Not drawn.
		default:
			return nil, oops.Code("MAP_UNSUPPORTED").With("layer", lf.Name).Errorf("unknown layer type %q", lf.Type)
		}
	}
	return out, nil
}

func convertLayer(lf layerFile) (tilemap.Layer, error) {
	layer := tilemap.Layer{
		Name:    lf.Name,
		Visible: lf.Visible == nil || *lf.Visible,
		Width:   lf.Width,
	}

	if lf.Type == "objectgroup" {
		layer.Kind = tilemap.ObjectLayer
		for _, of := range lf.Objects {
			layer.Objects = append(layer.Objects, tilemap.Object{
				Name:   of.Name,
				Type:   objectType(of),
				X:      of.X,
				Y:      of.Y,
				Width:  of.Width,
				Height: of.Height,
				GID:    of.GID & tilemap.GIDMask,
			})
		}
		return layer, nil
	}

	layer.Kind = tilemap.TileLayer
	if lf.Encoding != "" && lf.Encoding != "csv" {
		return layer, oops.Code("MAP_UNSUPPORTED").With("layer", lf.Name).
			Errorf("layer encoding %q is not supported, export the map with CSV layer data", lf.Encoding)
	}
	if len(lf.Data) > 0 {
		if err := json.Unmarshal(lf.Data, &layer.Data); err != nil {
			return layer, oops.Code("MAP_PARSE_FAILED").With("layer", lf.Name).Wrap(err)
		}
	}
	for i, gid := range layer.Data {
		layer.Data[i] = gid & tilemap.GIDMask
	}
	return layer, nil
}

// objectType picks type, then class, then the lower-cased name.
func objectType(of objectFile) string {
	switch {
	case of.Type != "":
		return of.Type
	case of.Class != "":
		return of.Class
	case of.Name != "":
		return strings.ToLower(of.Name)
	}
	return "npc"
}

// tileDims applies the default tile size to missing dimensions. A missing
// height follows the width.
func tileDims(w, h int) (int, int) {
	if w <= 0 {
		w = DefaultTileSize
	}
	if h <= 0 {
		h = w
	}
	return w, h
}

func spawnsFrom(objects []tilemap.Object, tileW, tileH int) []tilemap.Spawn {
	spawns := make([]tilemap.Spawn, 0, len(objects))
	for _, o := range objects {
		spawns = append(spawns, tilemap.Spawn{
			Name: o.Name,
			Type: o.Type,
			X:    int(math.Floor(o.X / float64(tileW))),
			Y:    int(math.Floor(o.Y / float64(tileH))),
		})
	}
	return spawns
}

// imageName returns the atlas file name for a tileset: its inline image, or
// the external .tsx source renamed to .png.
func imageName(tf tilesetFile) string {
	if tf.Image != "" {
		return baseName(tf.Image)
	}
	if tf.Source == "" {
		return ""
	}
	base := baseName(tf.Source)
	ext := filepath.Ext(base)
	if !strings.EqualFold(ext, ".tsx") {
		return ""
	}
	return strings.TrimSuffix(base, ext) + ".png"
}

// baseName handles both slash styles, since maps are authored on any OS.
func baseName(p string) string {
	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		return p[i+1:]
	}
	return p
}

func (l *Loader) resolveTileset(tf tilesetFile) (tilemap.Tileset, bool) {
	name := imageName(tf)
	if name == "" {
		l.logger().Warn("skipping tileset without image or source", "firstgid", tf.FirstGID, "name", tf.Name)
		return tilemap.Tileset{}, false
	}

	ts := tilemap.Tileset{
		Name:       tf.Name,
		FirstGID:   tf.FirstGID,
		TileWidth:  tf.TileWidth,
		TileHeight: tf.TileHeight,
		ImageWidth: tf.ImageWidth,
	}
	if ts.Name == "" {
		ts.Name = name
	}
	if ts.TileWidth <= 0 {
		ts.TileWidth = DefaultTileSize
	}
	if ts.TileHeight <= 0 {
		ts.TileHeight = DefaultTileSize
	}

	if l.Resources == nil {
		return ts, true
	}
	path := filepath.Join(l.AssetDir, name)
	img, err := l.Resources.LoadImage(path)
	if err != nil {
		l.logger().Warn("tileset image failed to load", "tileset", ts.Name, "path", path, "error", err)
		return ts, true
	}
	ts.Image = img
	if w, _ := img.Size(); w > 0 {
		ts.ImageWidth = w
	}
	return ts, true
}
