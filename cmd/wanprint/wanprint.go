// Command wanprint prints sprite archive contents on the terminal.
//
// Pass the archive with -wan (a path or an http(s) URL), then pick what to
// print: -fragment, -frame or -anim. The output renderer is chosen with
// -rasterm, -iterm, -col256 or -col=false.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"badc0de.net/pkg/flagutil/v1"

	"github.com/golang/glog"

	"github.com/arcln/pmd-wan/imageprint"
	"github.com/arcln/pmd-wan/paths"
	"github.com/arcln/pmd-wan/render"
	"github.com/arcln/pmd-wan/wan"
)

var (
	wanPath    = flag.String("wan", "", "path or URL of the archive to print")
	fragmentID = flag.Int("fragment", -1, "fragment to print")
	frameID    = flag.Int("frame", -1, "frame to print")
	animID     = flag.Int("anim", -1, "animation to print, frame by frame")
	animate    = flag.Bool("animate", false, "whether to pause between animation frames per their durations")
	indexed    = flag.Bool("indexed", false, "whether to dump fragments as raw palette indices instead of pixels")
)

type readSeekerCloser interface {
	io.ReadCloser
	io.Seeker
}

func wanOpen() (readSeekerCloser, error) {
	if *wanPath == "" {
		return nil, fmt.Errorf("no archive given; pass -wan")
	}
	if paths.IsURL(*wanPath) {
		return paths.OpenURL(*wanPath)
	}
	return paths.Open(*wanPath)
}

func fragmentHandler(w *wan.WanImage, idx int) {
	if idx >= len(w.ImageStore.Images) {
		glog.Errorf("no fragment %d, have %d", idx, len(w.ImageStore.Images))
		return
	}
	ib := w.ImageStore.Images[idx]
	fmt.Printf("fragment %d: %dx%d, z-index %d\n", idx, ib.Resolution.X, ib.Resolution.Y, ib.ZIndex)
	if *indexed {
		imageprint.PrintIndexed(ib.Pixels, ib.Resolution)
		return
	}
	img, err := render.Fragment(w, idx)
	if err != nil {
		glog.Errorf("error rendering fragment: %v", err)
		return
	}
	out(img)
}

func frameHandler(w *wan.WanImage, idx int) {
	img, err := render.Frame(w, idx)
	if err != nil {
		glog.Errorf("error rendering frame: %v", err)
		return
	}
	out(img)
}

func animHandler(w *wan.WanImage, idx int) {
	images, durations, err := render.Animation(w, idx)
	if err != nil {
		glog.Errorf("error rendering animation: %v", err)
		return
	}
	for i, img := range images {
		if *animate {
			// 60 game ticks per second.
			fmt.Printf("\033[2J\033[H")
			out(img)
			time.Sleep(time.Duration(durations[i]) * time.Second / 60)
		} else {
			fmt.Printf("animation %d frame %d (%d ticks):\n", idx, i, durations[i])
			out(img)
		}
	}
}

func main() {
	flagutil.Parse()
	flag.Set("logtostderr", "true")

	f, err := wanOpen()
	if err != nil {
		glog.Errorf("error opening archive: %v", err)
		os.Exit(1)
	}
	defer f.Close()

	w, err := wan.Decode(f)
	if err != nil {
		glog.Errorf("error decoding archive: %v", err)
		os.Exit(1)
	}
	glog.V(1).Infof("decoded %s archive: %d fragments, %d frames, %d animations",
		w.SpriteType, len(w.ImageStore.Images), len(w.FrameStore.Frames), len(w.AnimationStore.Animations))

	if *fragmentID >= 0 {
		fragmentHandler(w, *fragmentID)
	}
	if *frameID >= 0 {
		frameHandler(w, *frameID)
	}
	if *animID >= 0 {
		animHandler(w, *animID)
	}
}
