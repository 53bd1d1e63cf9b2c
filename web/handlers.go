// Package web serves a decoded sprite archive over HTTP: single fragments
// and composed frames as PNG, animations as GIF, plus an HTML index of the
// whole archive.
package web

import (
	"bytes"
	"fmt"
	"html/template"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/png"
	"net/http"
	"os"
	"strconv"
	"sync"

	"github.com/andybons/gogif"
	"github.com/golang/glog"
	"github.com/gorilla/mux"
	"github.com/vincent-petithory/dataurl"

	"github.com/arcln/pmd-wan/datafiles"
	"github.com/arcln/pmd-wan/render"
	"github.com/arcln/pmd-wan/wan"
)

// gifDelayNum converts game ticks (60 per second) to GIF delay units (100
// per second).
func gifDelay(ticks int) int {
	d := ticks * 100 / 60
	if d < 2 {
		d = 2
	}
	return d
}

type Handler struct {
	renderLock sync.Mutex
	w          *wan.WanImage

	wanPath    string
	archiveTag string
}

// NewHandler constructs a web handler for the passed archive. wanPath, if
// not empty, points at the file the archive was decoded from and is only
// used for Last-Modified headers.
func NewHandler(w *wan.WanImage, wanPath string) *Handler {
	return &Handler{
		w:       w,
		wanPath: wanPath,
		archiveTag: fmt.Sprintf("%d.%d.%d.%d.%d", w.SpriteType,
			len(w.ImageStore.Images), len(w.FrameStore.Frames),
			len(w.AnimationStore.Animations), len(w.Palette.Colors)),
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.indexHandler)
	r.HandleFunc("/fragment/{idx:[0-9]+}", h.fragmentHandler)
	r.HandleFunc("/frame/{idx:[0-9]+}", h.frameHandler)
	r.HandleFunc("/anim/{idx:[0-9]+}.gif", h.animGIFHandler)
	r.HandleFunc("/palette", h.paletteHandler)
}

// setCacheHeaders writes the caching headers shared by all image responses
// and reports whether the client already holds the current bytes.
func (h *Handler) setCacheHeaders(w http.ResponseWriter, r *http.Request, etag string) bool {
	w.Header().Set("Cache-Control", "public; max-age=36000") // 36000 = 10h
	w.Header().Set("ETag", etag)
	if s, err := os.Stat(h.wanPath); err == nil {
		w.Header().Set("Last-Modified", s.ModTime().Format(http.TimeFormat))
	}
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return true
	}
	return false
}

func muxIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	vars := mux.Vars(r)
	idx, err := strconv.Atoi(vars["idx"])
	if err != nil {
		http.Error(w, "idx not a number", http.StatusBadRequest)
		return 0, false
	}
	return idx, true
}

func (h *Handler) fragmentHandler(w http.ResponseWriter, r *http.Request) {
	h.renderLock.Lock()
	defer h.renderLock.Unlock()

	idx, ok := muxIndex(w, r)
	if !ok {
		return
	}
	if idx >= len(h.w.ImageStore.Images) {
		http.Error(w, "no such fragment", http.StatusNotFound)
		return
	}

	generation := 1 // bump if the way we generate it changes
	mime := "image/png"
	etag := fmt.Sprintf(`W/"fragment:%d:%s:%d:%s"`, generation, h.archiveTag, idx, mime)
	if h.setCacheHeaders(w, r, etag) {
		return
	}

	img, err := render.Fragment(h.w, idx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.WriteHeader(http.StatusOK)
	png.Encode(w, img)
}

func (h *Handler) frameHandler(w http.ResponseWriter, r *http.Request) {
	h.renderLock.Lock()
	defer h.renderLock.Unlock()

	idx, ok := muxIndex(w, r)
	if !ok {
		return
	}

	generation := 1 // bump if the way we generate it changes
	mime := "image/png"
	etag := fmt.Sprintf(`W/"frame:%d:%s:%d:%s"`, generation, h.archiveTag, idx, mime)
	if h.setCacheHeaders(w, r, etag) {
		return
	}

	img, err := render.Frame(h.w, idx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.WriteHeader(http.StatusOK)
	png.Encode(w, img)
}

func (h *Handler) animGIFHandler(w http.ResponseWriter, r *http.Request) {
	h.renderLock.Lock()
	defer h.renderLock.Unlock()

	idx, ok := muxIndex(w, r)
	if !ok {
		return
	}

	generation := 1 // bump if the way we generate it changes
	mime := "image/gif"
	etag := fmt.Sprintf(`W/"anim:%d:%s:%d:%s"`, generation, h.archiveTag, idx, mime)
	if h.setCacheHeaders(w, r, etag) {
		return
	}

	images, durations, err := render.Animation(h.w, idx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	g, err := animationGIF(images, durations)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		glog.Errorf("error building gif for animation %d: %v", idx, err)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.WriteHeader(http.StatusOK)
	gif.EncodeAll(w, g)
}

// animationGIF assembles rendered animation frames into a GIF with
// transparency between frames.
func animationGIF(images []image.Image, durations []int) (*gif.GIF, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("animation has no frames")
	}

	g := &gif.GIF{}
	quantizer := gogif.MedianCutQuantizer{NumColor: 255} // Up to 255 colors plus 1 space for transparency.
	for i, img := range images {
		pal := image.NewPaletted(img.Bounds(), nil)
		quantizer.Quantize(pal, img.Bounds(), img, image.ZP)

		// gogif's MedianCutQuantizer computes the palette only while also
		// copying the image pixel by pixel, so preserving transparency
		// means drawing the image a second time into a palette that leads
		// with color.Transparent. The images are tiny.
		palTransparent := image.NewPaletted(img.Bounds(), append(color.Palette([]color.Color{color.Transparent}), pal.Palette...))
		draw.Draw(palTransparent, img.Bounds(), img, img.Bounds().Min, draw.Over)

		g.Image = append(g.Image, palTransparent)
		g.Delay = append(g.Delay, gifDelay(durations[i]))
		g.Disposal = append(g.Disposal, gif.DisposalBackground)
		g.BackgroundIndex = 0 // image.Transparent
	}
	return g, nil
}

func (h *Handler) paletteHandler(w http.ResponseWriter, r *http.Request) {
	generation := 1 // bump if the way we generate it changes
	mime := "image/png"
	etag := fmt.Sprintf(`W/"palette:%d:%s:%s"`, generation, h.archiveTag, mime)
	if h.setCacheHeaders(w, r, etag) {
		return
	}

	// One 8x8 swatch per palette entry, transparency included.
	const swatch = 8
	img := image.NewRGBA(image.Rect(0, 0, swatch*len(h.w.Palette.Colors), swatch))
	for i, c := range h.w.Palette.Colors {
		if i == 0 {
			continue
		}
		draw.Draw(img, image.Rect(i*swatch, 0, (i+1)*swatch, swatch), &image.Uniform{c}, image.ZP, draw.Src)
	}

	w.Header().Set("Content-Type", mime)
	w.WriteHeader(http.StatusOK)
	png.Encode(w, img)
}

type indexFrame struct {
	Index   int
	DataURL template.URL
}

type indexAnim struct {
	Index      int
	FrameCount int
}

type indexData struct {
	SpriteType    wan.SpriteType
	FragmentCount int
	PaletteSize   int
	Frames        []indexFrame
	Anims         []indexAnim
}

func (h *Handler) indexHandler(w http.ResponseWriter, r *http.Request) {
	h.renderLock.Lock()
	defer h.renderLock.Unlock()

	t, err := template.New("frametable").Parse(datafiles.FrameTableHTML())
	if err != nil {
		http.Error(w, "failed to parse template", http.StatusInternalServerError)
		glog.Errorf("error parsing frametable template: %v", err)
		return
	}

	data := indexData{
		SpriteType:    h.w.SpriteType,
		FragmentCount: len(h.w.ImageStore.Images),
		PaletteSize:   len(h.w.Palette.Colors),
	}
	for i := range h.w.FrameStore.Frames {
		img, err := render.Frame(h.w, i)
		if err != nil {
			glog.Errorf("error rendering frame %d for index: %v", i, err)
			continue
		}
		buf := &bytes.Buffer{}
		if err := png.Encode(buf, img); err != nil {
			glog.Errorf("error encoding frame %d for index: %v", i, err)
			continue
		}
		dataURL := dataurl.New(buf.Bytes(), "image/png")
		data.Frames = append(data.Frames, indexFrame{
			Index:   i,
			DataURL: template.URL(dataURL.String()),
		})
	}
	for i, anim := range h.w.AnimationStore.Animations {
		data.Anims = append(data.Anims, indexAnim{Index: i, FrameCount: len(anim.Frames)})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := t.Execute(w, data); err != nil {
		glog.Errorf("error executing frametable template: %v", err)
	}
}
