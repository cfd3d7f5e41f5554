package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/ancientlore/cachefs"
	"github.com/facebookgo/flagenv"
	"github.com/golang/groupcache"

	"inkwell/site"
	"inkwell/web"
)

// main is where it all begins. 😀
func main() {
	// Setup flags
	var (
		fPort              = flag.Int("port", 8080, "Port to listen on.")
		fReadTimeout       = flag.Duration("readtimeout", 10*time.Second, "HTTP server read timeout.")
		fReadHeaderTimeout = flag.Duration("readheadertimeout", 5*time.Second, "HTTP server read header timeout.")
		fWriteTimeout      = flag.Duration("writetimeout", 30*time.Second, "HTTP server write timeout.")
		fRoot              = flag.String("root", ".", "Root folder of the blog.")
		fCacheSize         = flag.Int64("cachesize", 10*1024*1024, "Size of the rendered-page cache in bytes.")
		fCacheDuration     = flag.Duration("cacheduration", 10*time.Second, "How long rendered pages stay cached.")
		fWatch             = flag.Bool("watch", false, "Reload templates when the template folder changes.")
	)
	flag.Parse()
	flagenv.Parse()

	// Setup groupcache (in this deployment with no peers)
	groupcache.RegisterPeerPicker(func() groupcache.PeerPicker { return groupcache.NoPeers{} })

	// Create the virtual file system over the blog folder
	vfs, err := site.New(os.DirFS(*fRoot))
	if err != nil {
		log.Printf("Cannot create site file system for %q: %s", *fRoot, err)
		os.Exit(1)
	}
	log.Printf("Loaded site from %q", *fRoot)

	// Get the site configuration
	cfg, err := vfs.Config()
	if err != nil {
		log.Printf("Cannot read site config: %s", err)
		os.Exit(2)
	}
	if cfg == nil {
		cfg = &site.Config{}
	}

	// Wrap the site in a cached file system so rendered pages are reused
	cachedFileSystem := cachefs.New(vfs, &cachefs.Config{GroupName: "site", SizeInBytes: *fCacheSize, Duration: *fCacheDuration})

	// Setup handlers
	handler := web.HeaderHandler(
		web.ExpiresHandler(
			gziphandler.GzipHandler(
				web.ErrorHandler(
					http.FileServer(
						http.FS(cachedFileSystem),
					),
					cachedFileSystem,
				),
			),
			time.Duration(cfg.Expires),
			time.Duration(cfg.StaticExpires),
		),
		cfg.Headers)
	log.Print("Created handlers")

	// Create HTTP server
	var srv = http.Server{
		Addr:              fmt.Sprintf(":%d", *fPort),
		ReadTimeout:       *fReadTimeout,
		WriteTimeout:      *fWriteTimeout,
		ReadHeaderTimeout: *fReadHeaderTimeout,
		Handler:           handler,
	}

	// Watch the template folder for edits
	if *fWatch {
		go watchTemplates(vfs, *fRoot)
	}

	// Create signal handler for graceful shutdown
	go func() {
		sigint := make(chan os.Signal, 1)

		// interrupt signal sent from terminal
		signal.Notify(sigint, os.Interrupt)
		// sigterm signal sent from kubernetes
		signal.Notify(sigint, syscall.SIGTERM)

		<-sigint

		// We received an interrupt signal, shut down.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			// Error from closing listeners, or context timeout:
			log.Printf("HTTP server Shutdown: %v", err)
		}
	}()

	// Listen for requests
	log.Print("Listening for requests")
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Printf("HTTP server: %v", err)
	} else {
		log.Print("Goodbye.")
	}
}
