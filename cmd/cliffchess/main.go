package main

import (
	"errors"
	"flag"
	"log"
	"math/rand/v2"
	"os"
	"runtime/pprof"
	"time"

	"github.com/hailam/cliffchess/internal/board"
	"github.com/hailam/cliffchess/internal/console"
	"github.com/hailam/cliffchess/internal/game"
	"github.com/hailam/cliffchess/internal/storage"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	size       = flag.Int("size", 0, "board size, 6 or 8 (default: saved preference)")
	seed       = flag.Uint64("seed", 0, "seed for the terrain roll (default: random)")
	flat       = flag.Bool("flat", false, "start with every tile at height 0")
	dbPath     = flag.String("db", "", "database directory (default: platform data directory)")
	memDB      = flag.Bool("memdb", false, "keep preferences and stats in memory only")
	debug      = flag.Bool("debug", false, "log every applied move")
)

func main() {
	flag.Parse()

	// Start CPU profiling if requested (via flag or environment variable)
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
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	game.DebugMoves = *debug

	store, err := openStorage()
	if err != nil {
		log.Fatal("could not open storage: ", err)
	}
	defer store.Close()

	first, err := store.IsFirstLaunch()
	if err != nil {
		log.Printf("Warning: could not read first launch flag: %v", err)
	}

	prefs, err := store.LoadPreferences()
	if err != nil {
		log.Printf("Warning: preferences not loaded: %v (using defaults)", err)
		prefs = storage.DefaultPreferences()
	}
	if err := prefs.Validate(); err != nil {
		log.Printf("Warning: saved preferences are invalid: %v (using defaults)", err)
		prefs = storage.DefaultPreferences()
	}
	if *size != 0 {
		prefs.BoardSize = *size
	}

	var rng *rand.Rand
	if !*flat {
		s := *seed
		if s == 0 {
			s = uint64(time.Now().UnixNano())
		}
		rng = rand.New(rand.NewPCG(s, s>>32|1))
	}

	b, err := board.NewBoard(prefs.BoardSize, rng)
	if err != nil {
		log.Fatal(err)
	}
	if err := store.SavePreferences(prefs); err != nil {
		log.Printf("Warning: preferences not saved: %v", err)
	}

	con := console.New(os.Stdin, os.Stdout)
	con.SetRecorder(store)

	con.Welcome(b, first)
	if first {
		if err := store.MarkFirstLaunchComplete(); err != nil {
			log.Printf("Warning: first launch not recorded: %v", err)
		}
	}

	g := game.New(b, prefs.HouseRules, con)
	log.Printf("Starting game %s on a %dx%d board", g.ID, b.Size(), b.Size())

	if _, err := con.Run(g); err != nil && !errors.Is(err, console.ErrQuit) {
		log.Printf("Game %s ended early: %v", g.ID, err)
	}
}

// openStorage opens the preferences database selected by the flags
func openStorage() (*storage.Storage, error) {
	switch {
	case *memDB:
		return storage.OpenInMemory()
	case *dbPath != "":
		return storage.Open(*dbPath)
	default:
		return storage.NewStorage()
	}
}
