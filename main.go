// Command ricochet-robots is the Ricochet Robots game toolchain.
//
// The serve command runs the HTTP server exposing the REST API, the
// WebSocket feed, and an /mcp HTTP endpoint; mcp runs an MCP stdio server
// and spins up an internal HTTP API if none is available. The remaining
// commands are offline tools over problem and plan files: draw, eval,
// solve, generate, and play.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/ricochet-robots-game/api"
	"github.com/wricardo/ricochet-robots-game/game/archive"
	"github.com/wricardo/ricochet-robots-game/game/engine"
	"github.com/wricardo/ricochet-robots-game/game/gen"
	"github.com/wricardo/ricochet-robots-game/game/problem"
	"github.com/wricardo/ricochet-robots-game/game/render"
	"github.com/wricardo/ricochet-robots-game/game/service"
	"github.com/wricardo/ricochet-robots-game/game/session"
	"github.com/wricardo/ricochet-robots-game/game/solver"
	"github.com/wricardo/ricochet-robots-game/transport/mcp"
	"github.com/wricardo/ricochet-robots-game/transport/websocket"
	"github.com/wricardo/ricochet-robots-game/tui"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Ricochet Robots Game Server"
)

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	if err := rootCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// rootCommand assembles the CLI tree. Server state flags (problems dir,
// sessions dir, archive path) are repeated on the commands that stand up a
// service so each command reads its own copy.
func rootCommand() *cli.Command {
	return &cli.Command{
		Name:    "ricochet-robots",
		Usage:   "Ricochet Robots game server and tools",
		Version: Version,
		Commands: []*cli.Command{
			serveCommand(),
			mcpCommand(),
			drawCommand(),
			evalCommand(),
			solveCommand(),
			generateCommand(),
			playCommand(),
		},
	}
}

// storeFlags are the flags shared by every command that wires the game
// service. urfave/cli flags are per-command values, so each caller gets a
// fresh slice.
func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "problems",
			Value:   "problems",
			Usage:   "Directory containing problem files",
			Sources: cli.EnvVars("PROBLEMS_DIR"),
		},
		&cli.StringFlag{
			Name:    "sessions",
			Value:   "sessions",
			Usage:   "Directory for persisted sessions",
			Sources: cli.EnvVars("SESSIONS_DIR"),
		},
		&cli.StringFlag{
			Name:    "archive",
			Value:   "archive/evaluations.db",
			Usage:   "SQLite evaluation archive path (empty disables the archive)",
			Sources: cli.EnvVars("ARCHIVE_PATH"),
		},
	}
}

func serveCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.IntFlag{
			Name:    "port",
			Value:   8080,
			Usage:   "HTTP server port",
			Sources: cli.EnvVars("PORT"),
		},
		&cli.StringFlag{
			Name:  "host",
			Value: "localhost",
			Usage: "HTTP server host",
		},
		&cli.BoolFlag{
			Name:    "ngrok",
			Usage:   "Enable ngrok tunnel",
			Sources: cli.EnvVars("NGROK_ENABLED"),
		},
		&cli.StringFlag{
			Name:    "ngrok-domain",
			Usage:   "Custom ngrok domain (optional)",
			Sources: cli.EnvVars("NGROK_DOMAIN"),
		},
	}
	return &cli.Command{
		Name:   "serve",
		Usage:  "Run the HTTP server with REST API, WebSocket, and MCP endpoint",
		Flags:  append(flags, storeFlags()...),
		Action: runServe,
	}
}

func mcpCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:  "base-url",
			Usage: "Target an existing API server instead of probing/starting one",
		},
		&cli.IntFlag{
			Name:    "port",
			Value:   8080,
			Usage:   "Port probed for an external API server",
			Sources: cli.EnvVars("PORT"),
		},
	}
	return &cli.Command{
		Name:   "mcp",
		Usage:  "Run an MCP stdio server backed by an HTTP API",
		Flags:  append(flags, storeFlags()...),
		Action: runStdioMCP,
	}
}

func drawCommand() *cli.Command {
	return &cli.Command{
		Name:      "draw",
		Usage:     "Render a problem file to stdout",
		ArgsUsage: "<problem.rr>",
		Action:    runDraw,
	}
}

func evalCommand() *cli.Command {
	return &cli.Command{
		Name:      "eval",
		Usage:     "Run a plan against a problem and show each move",
		ArgsUsage: "<problem.rr> <plan> [expanded-out.plan]",
		Action:    runEval,
	}
}

func solveCommand() *cli.Command {
	return &cli.Command{
		Name:      "solve",
		Usage:     "Solve a problem with the external solver",
		ArgsUsage: "<problem.rr>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the verified plan to a file instead of stdout",
			},
			&cli.StringFlag{
				Name:    "bin",
				Usage:   "Solver binary",
				Sources: cli.EnvVars("SOLVER_BIN"),
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: 30 * time.Second,
				Usage: "Solver run timeout",
			},
		},
		Action: runSolve,
	}
}

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Generate a random problem",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "size", Value: 8, Usage: "Board dimension"},
			&cli.IntFlag{Name: "barriers", Usage: "Interior wall count (0 picks randomly)"},
			&cli.IntFlag{Name: "robots", Usage: "Robot count (0 places four)"},
			&cli.IntFlag{Name: "seed", Usage: "Random seed (0 seeds from the clock)"},
			&cli.StringFlag{Name: "name", Usage: "Problem name"},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the problem to a file instead of stdout",
			},
		},
		Action: runGenerate,
	}
}

func playCommand() *cli.Command {
	return &cli.Command{
		Name:      "play",
		Usage:     "Play a problem interactively in the terminal",
		ArgsUsage: "<problem.rr>",
		Action:    runPlay,
	}
}

// gameServices bundles everything runServe and runStdioMCP wire up, so the
// archive handle can be closed on the way out.
type gameServices struct {
	game    service.GameService
	manager *session.Manager
	store   *archive.Store
}

func (s *gameServices) Close() {
	if s.manager != nil {
		if err := s.manager.SaveAllSessions(); err != nil {
			log.Printf("Warning: Failed to save sessions: %v", err)
		}
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("Warning: Failed to close archive: %v", err)
		}
	}
}

// initializeServices wires problem/session managers, the evaluation
// archive, the solver adapter, and the game service. It also starts the
// background session cleanup and filesystem sync routines.
func initializeServices(problemsDir, sessionsDir, archivePath string) (*gameServices, error) {
	problems, err := problem.NewManager(problemsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create problem manager: %w", err)
	}

	persistence, err := session.NewFilePersistence(sessionsDir, problems)
	if err != nil {
		return nil, fmt.Errorf("failed to create session persistence: %w", err)
	}

	sessionManager := session.NewManagerWithPersistence(persistence)
	if err := sessionManager.LoadPersistedSessions(); err != nil {
		log.Printf("Warning: Failed to load persisted sessions: %v", err)
	}

	var store *archive.Store
	var evalStore service.EvaluationStore
	if archivePath != "" {
		store, err = archive.NewStore(archivePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open evaluation archive: %w", err)
		}
		evalStore = store
	}

	slv := solver.New(solver.Config{Timeout: 30 * time.Second})

	gameService := service.NewGameService(sessionManager, problems, slv, evalStore)

	go sessionCleanupRoutine(sessionManager)
	go filesystemSyncRoutine(sessionManager, persistence)

	return &gameServices{game: gameService, manager: sessionManager, store: store}, nil
}

// runServe starts the HTTP server with REST API, WebSocket hub, and an /mcp
// proxy endpoint. If ngrok is enabled (via flag or environment), it also
// provisions a public tunnel.
func runServe(ctx context.Context, cmd *cli.Command) error {
	services, err := initializeServices(cmd.String("problems"), cmd.String("sessions"), cmd.String("archive"))
	if err != nil {
		return err
	}
	defer services.Close()

	hub := websocket.NewHub()
	go hub.Run()

	apiServer := api.NewServer(services.game, hub)

	addr := fmt.Sprintf("%s:%d", cmd.String("host"), cmd.Int("port"))

	// The /mcp endpoint is a thin proxy: the MCP client calls back into
	// this same server over HTTP.
	mcpClient := mcp.NewClient(fmt.Sprintf("http://%s", addr))

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("%s v%s listening on %s", AppName, Version, addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws?sessionId=<session_id>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	if cmd.Bool("ngrok") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(serveCtx, mainRouter, cmd.String("ngrok-domain"))
		}()
	}

	sig := <-stop
	log.Printf("Received signal: %v. Shutting down...", sig)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("Server stopped")
	return nil
}

// runNgrokTunnel serves the router through an ngrok tunnel until the
// context is cancelled. The auth token comes from the environment.
func runNgrokTunnel(ctx context.Context, handler http.Handler, domain string) {
	authToken := os.Getenv("NGROK_AUTHTOKEN")
	if authToken == "" {
		authToken = os.Getenv("NGROK_AUTH_TOKEN")
	}
	if authToken == "" {
		log.Println("WARNING: Ngrok enabled but no auth token provided (set NGROK_AUTHTOKEN)")
		return
	}

	log.Println("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		log.Printf("Using custom ngrok domain: %s", domain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}
	defer func() {
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	ngrokURL := tun.URL()
	log.Printf("🚀 Ngrok tunnel established: %s", ngrokURL)
	log.Printf("  REST API (ngrok): %s/api", ngrokURL)
	log.Printf("  WebSocket (ngrok): %s/ws?sessionId=<session_id>", ngrokURL)
	log.Printf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed {
		log.Printf("Ngrok server error: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}

// sessionCleanupRoutine periodically removes sessions that have not been
// accessed within the retention window.
func sessionCleanupRoutine(manager *session.Manager) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		removed := manager.CleanupExpiredSessions(24 * time.Hour)
		if removed > 0 {
			log.Printf("Cleaned up %d expired sessions", removed)
		}
	}
}

// filesystemSyncRoutine prunes in-memory sessions whose files have been
// deleted out from under the server, so a session removed on disk also
// disappears from the API.
func filesystemSyncRoutine(manager *session.Manager, persistence session.SessionPersistence) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		if persistence == nil {
			continue
		}

		pruned := 0
		for _, sess := range manager.List() {
			if !persistence.Exists(sess.ID) {
				if err := manager.DeleteFromMemory(sess.ID); err == nil {
					pruned++
					log.Printf("Pruned session %s from memory (file deleted)", sess.ID)
				}
			}
		}

		if pruned > 0 {
			log.Printf("Filesystem sync: pruned %d orphaned sessions from memory", pruned)
		}
	}
}

// runStdioMCP runs an MCP stdio server. It targets --base-url when given;
// otherwise it tries to reuse an external API on the configured port, and
// failing that starts a minimal internal HTTP API bound to a random
// loopback port.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	baseURL := cmd.String("base-url")

	if baseURL == "" {
		externalURL := fmt.Sprintf("http://localhost:%d", cmd.Int("port"))
		log.Printf("Checking for external API server at %s...", externalURL)

		testClient := &http.Client{Timeout: 2 * time.Second}
		resp, err := testClient.Get(externalURL + "/api/health")
		if err == nil && resp.StatusCode < 500 {
			resp.Body.Close()
			log.Printf("External API server found at %s, using it for MCP", externalURL)
			baseURL = externalURL
		}
	}

	if baseURL == "" {
		log.Printf("No external API server found, starting internal HTTP server")

		services, err := initializeServices(cmd.String("problems"), cmd.String("sessions"), cmd.String("archive"))
		if err != nil {
			return err
		}
		defer services.Close()

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		internalAddr := fmt.Sprintf("127.0.0.1:%d", listener.Addr().(*net.TCPAddr).Port)
		log.Printf("Starting internal HTTP server on %s for MCP stdio", internalAddr)

		hub := websocket.NewHub()
		go hub.Run()

		httpServer := &http.Server{Handler: api.NewServer(services.game, hub)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				log.Printf("Internal HTTP server error: %v", err)
			}
		}()
		defer httpServer.Close()

		// Give the listener goroutine a moment to come up.
		time.Sleep(100 * time.Millisecond)

		baseURL = fmt.Sprintf("http://%s", internalAddr)
	}

	mcpClient := mcp.NewClient(baseURL)

	log.Printf("MCP stdio server ready (API at %s)", baseURL)
	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

func runDraw(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return cli.Exit("usage: ricochet-robots draw <problem.rr>", 2)
	}

	p, err := engine.LoadProblem(cmd.Args().Get(0))
	if err != nil {
		return err
	}
	board, err := engine.Reconstruct(p)
	if err != nil {
		return err
	}

	sketch, err := render.Sketch("", board, startPositions(p), p.Goal)
	if err != nil {
		return err
	}
	fmt.Print(sketch)
	return nil
}

// runEval replays a plan file against a problem, printing each move as a
// before/after board pair with the step trace between them. Exit code 1
// means the plan failed, either by crashing mid-move or by not reaching
// the goal.
func runEval(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args()
	if args.Len() < 2 || args.Len() > 3 {
		return cli.Exit("usage: ricochet-robots eval <problem.rr> <plan> [expanded-out.plan]", 2)
	}

	p, err := engine.LoadProblem(args.Get(0))
	if err != nil {
		return err
	}
	plan, err := engine.LoadPlan(args.Get(1))
	if err != nil {
		return err
	}
	board, err := engine.Reconstruct(p)
	if err != nil {
		return err
	}

	occ := engine.NewOccupancy()
	for _, rf := range p.Robots {
		if err := occ.Place(rf.Robot, rf.Cell); err != nil {
			return err
		}
	}

	fmt.Printf("Problem %s: %d moves, goal %s on %s\n\n", p.Name, len(plan), p.Goal.Robot, p.Goal.Cell)

	var trace []engine.Event
	for i, m := range plan {
		before := render.Compact(board, occ.Positions(), p.Goal)
		events, err := engine.ApplyMove(board, occ, m.Robot, m.Dir)
		if err != nil {
			return cli.Exit(fmt.Sprintf("move %d %s: %v", i+1, m, err), 1)
		}
		after := render.Compact(board, occ.Positions(), p.Goal)

		fmt.Printf("Move %d: %s\n", i+1, m)
		fmt.Println(render.Splice(before, after, render.MoveText(board, events)))
		trace = append(trace, events...)
	}

	if out := args.Get(2); out != "" {
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		if err := engine.WriteExpandedPlan(f, trace); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Printf("Expanded plan written to %s\n", out)
	}

	status := engine.CheckGoal(p.Goal, occ)
	if status != engine.GoalReached {
		return cli.Exit(fmt.Sprintf("%v", &engine.GoalNotReachedError{Status: status, Goal: p.Goal}), 1)
	}
	fmt.Printf("Goal reached in %d moves.\n", len(plan))
	return nil
}

func runSolve(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return cli.Exit("usage: ricochet-robots solve <problem.rr>", 2)
	}

	p, err := engine.LoadProblem(cmd.Args().Get(0))
	if err != nil {
		return err
	}
	board, err := engine.Reconstruct(p)
	if err != nil {
		return err
	}

	slv := solver.New(solver.Config{
		Bin:     cmd.String("bin"),
		Timeout: cmd.Duration("timeout"),
	})
	res, err := slv.Solve(ctx, board, startPositions(p), p.Goal)
	if err != nil {
		return err
	}

	log.Printf("Solved %s: %d moves", p.Name, res.Cost)

	if out := cmd.String("output"); out != "" {
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		if err := solver.WritePlan(f, res); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
	return solver.WritePlan(os.Stdout, res)
}

func runGenerate(ctx context.Context, cmd *cli.Command) error {
	var rng *rand.Rand
	if seed := cmd.Int("seed"); seed != 0 {
		rng = rand.New(rand.NewSource(int64(seed)))
	}

	p, err := gen.Generate(gen.Config{
		Size:     int(cmd.Int("size")),
		Barriers: int(cmd.Int("barriers")),
		Robots:   int(cmd.Int("robots")),
		Rand:     rng,
		Name:     cmd.String("name"),
	})
	if err != nil {
		return err
	}

	if out := cmd.String("output"); out != "" {
		if err := engine.SaveProblem(out, p); err != nil {
			return err
		}
		log.Printf("Problem %s written to %s", p.Name, out)
		return nil
	}
	return engine.WriteProblem(os.Stdout, p)
}

func runPlay(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return cli.Exit("usage: ricochet-robots play <problem.rr>", 2)
	}

	p, err := engine.LoadProblem(cmd.Args().Get(0))
	if err != nil {
		return err
	}
	return tui.Run(p)
}

func startPositions(p *engine.Problem) map[engine.Robot]engine.Cell {
	robots := make(map[engine.Robot]engine.Cell, len(p.Robots))
	for _, rf := range p.Robots {
		robots[rf.Robot] = rf.Cell
	}
	return robots
}
