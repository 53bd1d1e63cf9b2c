// Command wanweb serves a sprite archive over HTTP: frames and fragments as
// PNG, animations as GIF, and an HTML index at /.
package main

import (
	"flag"
	"net/http"
	"os"

	"badc0de.net/pkg/flagutil/v1"

	"github.com/common-nighthawk/go-figure"
	"github.com/golang/glog"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	_ "golang.org/x/net/trace"

	"github.com/arcln/pmd-wan/paths"
	"github.com/arcln/pmd-wan/wan"
	"github.com/arcln/pmd-wan/web"
)

var (
	listenAddress = flag.String("listen_address", ":8080", "http listen address for wanweb")
	wanPath       = flag.String("wan", "", "path of the archive to serve")
)

func main() {
	flagutil.Parse()

	if *wanPath == "" {
		glog.Exit("no archive given; pass -wan")
	}
	f, err := paths.Open(*wanPath)
	if err != nil {
		glog.Exitf("error opening archive: %v", err)
	}
	w, err := wan.Decode(f)
	f.Close()
	if err != nil {
		glog.Exitf("error decoding archive: %v", err)
	}
	glog.Infof("serving %s archive: %d fragments, %d frames, %d animations",
		w.SpriteType, len(w.ImageStore.Images), len(w.FrameStore.Frames), len(w.AnimationStore.Animations))

	figure.NewFigure("wanweb", "", false).Print()

	r := mux.NewRouter()
	web.NewHandler(w, paths.Find(*wanPath)).RegisterRoutes(r)

	glog.Fatal(http.ListenAndServe(*listenAddress, handlers.LoggingHandler(os.Stderr, r)))
}
