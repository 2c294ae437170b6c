// Command peersim runs a headless sociogram client: it loads the
// viewer's local graph, connects to the relay, and keeps local state,
// remote persistence, and peers in sync. It is the same engine a UI
// embeds, minus the rendering.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sociogram/internal/api"
	"sociogram/internal/codec"
	"sociogram/internal/config"
	"sociogram/internal/domain"
	"sociogram/internal/graphsync"
	"sociogram/internal/layout"
	"sociogram/internal/presence"
	"sociogram/internal/relay"
	"sociogram/internal/repository/sqlite"
	"sociogram/internal/store"
	"sociogram/internal/watcher"
)

func main() {
	configPath := flag.String("config", "", "config file path (default: search standard locations)")
	viewerFlag := flag.String("viewer", "", "viewer user id (overrides config)")
	resetFlag := flag.Bool("reset", false, "discard the mirrored local state and start from the seed")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, path, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if path != "" {
		log.Printf("Config loaded from %s", path)
	}
	if *viewerFlag != "" {
		cfg.Viewer.ID = *viewerFlag
	}
	if cfg.Viewer.ID == "" {
		log.Fatal("No viewer id configured; set viewer.id or pass -viewer")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer repo.Close()
	log.Printf("Database opened: %s", cfg.Database.Path)

	seed := loadSeed(cfg.Seed.Path)
	st := store.New(repo, cfg.Viewer.ID, seed)
	if *resetFlag {
		// Reset drops the mirror and reloads, which lands on the seed.
		if err := st.Reset(ctx); err != nil {
			log.Fatalf("Failed to reset local state: %v", err)
		}
		log.Println("Local state reset to seed")
	} else if err := st.Load(ctx); err != nil {
		log.Fatalf("Failed to load local state: %v", err)
	}
	log.Printf("Loaded %d nodes, %d edges, %d pending requests",
		len(st.Nodes()), len(st.Edges()), len(st.Requests()))

	client := api.NewClient(cfg.API.BaseURL)
	engine := graphsync.New(graphsync.Options{
		Viewer:    cfg.Viewer.ID,
		Store:     st,
		Persister: api.FriendshipPersister{Client: client},
		Geocoder:  api.NewGeocoder(cfg.API.GeocoderURL),
	})

	// Register the viewer with the persistence service; an "already
	// exists" rejection is the normal case after the first run.
	if _, err := client.CreateUser(ctx, cfg.Viewer.ID, viewerLabel(cfg), cfg.Viewer.Role); err != nil {
		log.Printf("User registration: %v", err)
	}

	tracker := presence.NewTracker()

	// Subscribe before anything can mutate; the change bus is not
	// synchronized against publishes.
	changes := make(chan graphsync.Change, 64)
	engine.Changes().Subscribe(changes)

	// The relay is optional: without it the client still works
	// locally, just without real-time fan-out.
	rc, dialErr := relay.Dial(ctx, cfg.Relay.URL)
	var roomChanges chan graphsync.Change
	if dialErr != nil {
		log.Printf("Relay unavailable, running local-only: %v", dialErr)
	} else {
		roomChanges = make(chan graphsync.Change, 64)
		engine.Changes().Subscribe(roomChanges)
	}

	go layoutLoop(ctx, engine, layoutConfig(cfg), changes)

	if rc != nil {
		defer rc.Close()
		if err := rc.Join(cfg.Viewer.ID); err != nil {
			log.Printf("Failed to join relay: %v", err)
		}
		go pumpOutbound(ctx, engine, rc)
		go pumpInbound(ctx, engine, tracker, rc)
		go joinRooms(ctx, engine, rc, cfg.Viewer.ID, roomChanges)
	}

	if cfg.Seed.Watch && cfg.Seed.Path != "" {
		w := watcher.New(cfg.Seed.Path, func() {
			engine.ImportFragment(ctx, loadSeedFragment(cfg.Seed.Path))
		})
		go func() {
			if err := w.Watch(ctx); err != nil && err != context.Canceled {
				log.Printf("Seed watcher stopped: %v", err)
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	cancel()
	engine.Flush(context.Background())
	log.Println("Stopped")
}

func loadConfig(path string) (*config.Config, string, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

func viewerLabel(cfg *config.Config) string {
	if cfg.Viewer.Label != "" {
		return cfg.Viewer.Label
	}
	return cfg.Viewer.ID
}

// loadSeed returns the bootstrap fragment for store initialization.
// A missing or unreadable seed file degrades to an empty graph.
func loadSeed(path string) domain.Fragment {
	f := loadSeedFragment(path)
	if f == nil {
		return domain.Fragment{}
	}
	return *f
}

func loadSeedFragment(path string) *domain.Fragment {
	if path == "" {
		return nil
	}
	imp, err := codec.ForPath(path)
	if err != nil {
		log.Printf("Unsupported seed file: %v", err)
		return nil
	}
	file, err := os.Open(path)
	if err != nil {
		log.Printf("Failed to open seed %s: %v", path, err)
		return nil
	}
	defer file.Close()

	fragment, err := imp.Parse(file)
	if err != nil {
		log.Printf("Failed to parse seed %s: %v", path, err)
		return nil
	}
	log.Printf("Seed %s: %d nodes, %d edges", path, len(fragment.Nodes), len(fragment.Edges))
	return fragment
}

func layoutConfig(cfg *config.Config) layout.Config {
	return layout.Config{
		Repulsion:  cfg.Layout.Repulsion,
		Spring:     cfg.Layout.Spring,
		TargetDist: cfg.Layout.TargetDist,
		Radius:     cfg.Layout.Radius,
	}
}

// pumpOutbound forwards engine events to the relay.
func pumpOutbound(ctx context.Context, engine *graphsync.Engine, rc *relay.Client) {
	for {
		select {
		case ev := <-engine.Outbound():
			if err := rc.Emit(ev); err != nil {
				log.Printf("Failed to emit %s: %v", ev.Name, err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// pumpInbound reconciles relay events into the engine and the presence
// tracker. The events channel closes when the relay drops.
func pumpInbound(ctx context.Context, engine *graphsync.Engine, tracker *presence.Tracker, rc *relay.Client) {
	for {
		select {
		case ev, ok := <-rc.Events():
			if !ok {
				return
			}
			tracker.Apply(ev)
			engine.Inbound(ctx, ev)
		case <-ctx.Done():
			return
		}
	}
}

// joinRooms keeps relay room membership aligned with the viewer's
// friendships: one room per relationship, keyed by the pair.
func joinRooms(ctx context.Context, engine *graphsync.Engine, rc *relay.Client, viewer string, changes <-chan graphsync.Change) {
	joined := make(map[string]bool)
	sync := func() {
		for _, edge := range engine.Snapshot().Edges {
			if !edge.Touches(viewer) {
				continue
			}
			room := domain.PairKey(edge.From, edge.To)
			if joined[room] {
				continue
			}
			if err := rc.JoinRoom(room); err != nil {
				log.Printf("Failed to join room %s: %v", room, err)
				continue
			}
			joined[room] = true
		}
	}
	sync()

	for {
		select {
		case ch := <-changes:
			if ch.Kind == graphsync.ChangeEdges {
				sync()
			}
		case <-ctx.Done():
			return
		}
	}
}

// Ticks granted to the initial burst that settles the graph before the
// loop switches to incremental stepping.
const startupRelaxTicks = 5000

// layoutLoop relaxes node positions as the graph mutates and writes
// settled coordinates back to the store.
func layoutLoop(ctx context.Context, engine *graphsync.Engine, cfg layout.Config, changes <-chan graphsync.Change) {
	lay := layout.NewEngine(cfg)

	snapshot := engine.Snapshot()
	lay.SetGraph(snapshot.Nodes, snapshot.Edges)
	lay.Relax(startupRelaxTicks)
	for id, pos := range lay.Positions() {
		engine.SetPosition(ctx, id, pos)
	}

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-changes:
			snapshot := engine.Snapshot()
			lay.SetGraph(snapshot.Nodes, snapshot.Edges)
		case <-ticker.C:
			if lay.Settled() {
				continue
			}
			lay.Step()
			if lay.Settled() {
				for id, pos := range lay.Positions() {
					engine.SetPosition(ctx, id, pos)
				}
			}
		case <-ctx.Done():
			return
		}
	}
}
