package main

import (
	"flag"
	"log"
	"os"
	"runtime/pprof"

	"github.com/gannet-chess/gannet/internal/engine"
	"github.com/gannet-chess/gannet/internal/storage"
	"github.com/gannet-chess/gannet/internal/uci"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	hashMB     = flag.Int("hash", 64, "initial hash table size in MB")
	settings   = flag.String("settings", "", "settings directory (default: per-user config dir)")
)

func main() {
	flag.Parse()
	log.SetFlags(0)
	log.SetPrefix("")

	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	var store *storage.Store
	dir := *settings
	if dir == "" {
		d, err := storage.DefaultDir()
		if err != nil {
			log.Printf("info string no settings directory: %v", err)
		}
		dir = d
	}
	if dir != "" {
		s, err := storage.Open(dir)
		if err != nil {
			// The engine still works, options just won't survive restarts.
			log.Printf("info string settings store unavailable: %v", err)
		} else {
			store = s
		}
	}
	defer store.Close()

	eng := engine.New(*hashMB)
	uci.New(eng, os.Stdout, store).Run(os.Stdin)
}
