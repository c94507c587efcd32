package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/nstehr/vimy/vimy-planner/agent"
	"github.com/nstehr/vimy/vimy-planner/config"
	"github.com/nstehr/vimy/vimy-planner/gamedata"
	"github.com/nstehr/vimy/vimy-planner/ipc"
	"github.com/nstehr/vimy/vimy-planner/journal"
	"github.com/nstehr/vimy/vimy-planner/planner"
	"github.com/nstehr/vimy/vimy-planner/rules"
	"github.com/nstehr/vimy/vimy-planner/scenario"
	"github.com/nstehr/vimy/vimy-planner/telemetry"
	"github.com/nstehr/vimy/vimy-planner/threat"
)

const banner = `
██╗   ██╗██╗███╗   ███╗██╗   ██╗
██║   ██║██║████╗ ████║╚██╗ ██╔╝
██║   ██║██║██╔████╔██║ ╚████╔╝
╚██╗ ██╔╝██║██║╚██╔╝██║  ╚██╔╝
 ╚████╔╝ ██║██║ ╚═╝ ██║   ██║
  ╚═══╝  ╚═╝╚═╝     ╚═╝   ╚═╝

Goal-Driven Adventure Map Planner`

const usage = `usage: vimy-planner <command> [flags]

commands:
  serve              plan turns for clients on the unix socket
  plan <script.lua>  run one scenario and print the ranked tasks`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cmd, args := os.Args[1], os.Args[2:]
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	cfg, err := config.Parse(fs, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	level, _ := cfg.Level()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.Setup(ctx, "vimy-planner", cfg.OTelEndpoint)
	if err != nil {
		slog.Error("failed to set up tracing", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			slog.Warn("tracing shutdown failed", "error", err)
		}
	}()

	switch cmd {
	case "serve":
		fmt.Println(banner)
		err = serve(ctx, cfg)
	case "plan":
		err = runScenario(ctx, cfg, fs.Args())
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		slog.Error(cmd+" failed", "error", err)
		os.Exit(1)
	}
}

// session holds what every connection shares.
type session struct {
	cfg      config.Config
	doctrine rules.Doctrine
	journal  *journal.Store
}

func newSession(cfg config.Config, doctrineName string) (*session, error) {
	d, err := rules.LoadDoctrine(doctrineName)
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg, doctrine: d}
	if cfg.Journal != "" {
		s.journal, err = journal.Open(cfg.Journal)
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

// newAgent builds a player agent with its own rule engine, so doctrine
// swaps in one game never leak into another.
func (s *session) newAgent(conn *ipc.Connection) (*agent.Agent, error) {
	engine, err := rules.NewEngine(rules.CompileDoctrine(s.doctrine))
	if err != nil {
		return nil, fmt.Errorf("compile doctrine %s: %w", s.doctrine.Name, err)
	}
	p := planner.New(planner.Config{MaxDepth: s.cfg.MaxDepth, MaxIterations: s.cfg.MaxIterations}, engine)
	a := agent.New(conn, p, agent.Options{
		HireCost:      s.cfg.HireCost,
		GoldReserve:   s.doctrine.GoldReserve,
		ThreatHorizon: s.cfg.ThreatHorizon,
		ThreatMode:    threat.Mode(s.cfg.ThreatMode),
	})
	a.Strategist = agent.NewStrategist(engine, s.doctrine, 0)
	if s.journal != nil {
		a.Journal = s.journal
	}
	return a, nil
}

func serve(ctx context.Context, cfg config.Config) error {
	s, err := newSession(cfg, cfg.Doctrine)
	if err != nil {
		return err
	}
	defer s.journal.Close()

	slog.Info("starting vimy planner", "doctrine", s.doctrine.Name, "maxDepth", cfg.MaxDepth, "threatMode", cfg.ThreatMode)
	if cfg.Seed != 0 {
		slog.Warn("VIMY_SEED only applies to the plan command", "seed", cfg.Seed)
	}

	// Unix sockets leave behind a file on unclean shutdown; remove it so we can rebind.
	if err := os.RemoveAll(cfg.Socket); err != nil {
		return fmt.Errorf("clean up socket %s: %w", cfg.Socket, err)
	}
	listener, err := net.Listen("unix", cfg.Socket)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Socket, err)
	}
	defer os.Remove(cfg.Socket)
	context.AfterFunc(ctx, func() { listener.Close() })

	slog.Info("listening on domain socket", "path", cfg.Socket)

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				slog.Info("shutting down")
				return nil
			}
			slog.Error("failed to accept connection", "error", err)
			continue
		}
		slog.Info("new connection accepted")
		go s.handleConn(ctx, conn)
	}
}

func (s *session) handleConn(ctx context.Context, conn net.Conn) {
	c := ipc.NewConnection(conn, nil)
	a, err := s.newAgent(c)
	if err != nil {
		slog.Error("failed to create agent", "error", err)
		conn.Close()
		return
	}
	c.RegisterHandler(ipc.TypeHello, a.HandleHello)
	c.RegisterHandler(ipc.TypeGameState, a.HandleGameState)
	c.ReadLoop(ctx)
}

func runScenario(ctx context.Context, cfg config.Config, args []string) error {
	if len(args) != 1 {
		return errors.New("plan needs exactly one scenario script")
	}

	data := gamedata.Default()
	if cfg.GameData != "" {
		var err error
		if data, err = gamedata.Load(cfg.GameData); err != nil {
			return err
		}
	}
	sc, err := scenario.Load(args[0], data, cfg.Seed)
	if err != nil {
		return err
	}

	doctrine := cfg.Doctrine
	if sc.Doctrine != "" {
		doctrine = sc.Doctrine
	}
	s, err := newSession(cfg, doctrine)
	if err != nil {
		return err
	}
	defer s.journal.Close()

	a, err := s.newAgent(nil)
	if err != nil {
		return err
	}
	a.Player = sc.State.Player
	a.SetTerrain(sc.Terrain)

	plan, events := a.PlanTurn(ctx, sc.State)
	fmt.Printf("scenario %q (seed %d, doctrine %s, day %d)\n", sc.Name, sc.Seed, a.Strategist.Current(), plan.Day)
	for _, e := range events {
		fmt.Printf("  event %s\n", e)
	}
	fmt.Print(scenario.Summary(plan))
	if plan.Truncated {
		fmt.Println("(search truncated)")
	}
	return sc.Check(plan)
}
