package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/data/binding"

	"SketchBoard/internal/board"
	"SketchBoard/internal/config"
	"SketchBoard/internal/predict"
	"SketchBoard/internal/render"
	"SketchBoard/internal/share"
	"SketchBoard/internal/snapshot"
	"SketchBoard/internal/state"
	"SketchBoard/internal/submit"
	"SketchBoard/internal/ui"
)

func main() {
	configPath := flag.String("config", "", "path to the TOML config file")
	host := flag.Bool("share", false, "host a shared session other machines can join")
	discover := flag.Bool("discover", false, "list shared sessions on the local network and exit")
	exportPath := flag.String("export", "", "write the saved drawing to this PDF file and exit")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	level := cfg.SlogLevel()
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if *discover {
		if err := listSessions(); err != nil {
			slog.Error("discovery failed", "err", err)
			os.Exit(1)
		}
		return
	}

	link := flag.Arg(0)
	if link != "" && !share.IsLink(link) {
		fmt.Fprintf(os.Stderr, "not a session link: %s\n", link)
		os.Exit(2)
	}

	a := app.NewWithID(cfg.AppID)
	appState := state.NewAppState()
	appState.SetModel(cfg.Model.Variant)
	appState.SetInkColor(cfg.Canvas.InkColor)

	b := board.New(board.Config{
		Width:   cfg.Canvas.Width,
		Height:  cfg.Canvas.Height,
		Brush:   brushOf(cfg),
		Storage: snapshot.NewPrefsStorage(a.Preferences()),
		Snapshot: snapshot.Options{
			Key:    cfg.Canvas.StorageKey,
			Window: cfg.Canvas.SaveDebounce.Duration,
		},
		Site: state.NewSiteID(),
		Ink:  appState.InkColor,
	})

	if *exportPath != "" {
		if err := b.Mount(); err != nil {
			slog.Warn("could not load snapshot", "err", err)
		}
		if err := ui.ExportPDF(b, *exportPath); err != nil {
			slog.Error("export failed", "path", *exportPath, "err", err)
			os.Exit(1)
		}
		slog.Info("exported", "path", *exportPath)
		return
	}

	var controller *submit.Controller
	if cfg.Model.APIKey != "" {
		client, err := predict.NewGeminiClient(context.Background(), cfg.Model.APIKey, predict.GeminiOptions{
			BaseURL: cfg.Model.BaseURL,
			Models:  cfg.Model.Variants,
			Timeout: cfg.Model.Timeout.Duration,
		})
		if err != nil {
			slog.Error("could not create model client", "err", err)
			os.Exit(1)
		}
		controller = submit.New(appState, client)
	} else {
		slog.Warn("no API key configured, sending is disabled", "env", config.APIKeyEnv)
	}

	session := ui.Session{
		Board:   b,
		State:   appState,
		Regions: state.NewRegions(),
		Submit:  controller,
		Status:  binding.NewString(),
	}

	switch {
	case *host:
		shutdown, err := runHost(cfg, b, &session)
		if err != nil {
			slog.Error("could not host session", "err", err)
			os.Exit(1)
		}
		defer shutdown()
	case link != "":
		go runGuest(link, b, session.Status)
	}

	ui.RunApp(a, session)
}

func brushOf(cfg config.Config) render.Brush {
	brush := render.DefaultBrush()
	brush.Size = cfg.Canvas.BrushSize
	return brush
}

// runHost serves the hub and advertises it. Local strokes go to every
// guest; guest strokes are drawn here and relayed to the others.
func runHost(cfg config.Config, b *board.Board, session *ui.Session) (func(), error) {
	hub := share.NewHub()
	hub.OnOp = func(op state.Op) { b.Apply(op) }
	b.SetOnOp(hub.Broadcast)

	ln, err := net.Listen("tcp", net.JoinHostPort("", strconv.Itoa(cfg.Share.Port)))
	if err != nil {
		return nil, fmt.Errorf("listen on port %d: %w", cfg.Share.Port, err)
	}
	srv := &http.Server{Handler: hub.Handler(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("share server stopped", "err", err)
		}
	}()

	session.ShareLink = share.Link(share.OutgoingIP(), cfg.Share.Port)
	_ = session.Status.Set("Hosting at " + session.ShareLink)
	slog.Info("hosting shared session", "link", session.ShareLink)

	var stopMDNS func() error
	if cfg.Share.Advertise {
		server, err := share.Advertise(cfg.Share.Port)
		if err != nil {
			slog.Warn("mDNS advertisement failed", "err", err)
		} else {
			stopMDNS = server.Shutdown
		}
	}

	return func() {
		if stopMDNS != nil {
			_ = stopMDNS()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}

// runGuest joins the host behind link. Local strokes go to the host; the
// host's relays are drawn here.
func runGuest(link string, b *board.Board, status binding.String) {
	addr, err := share.ParseLink(link)
	if err != nil {
		_ = status.Set(err.Error())
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	client, err := share.Dial(ctx, addr)
	cancel()
	if err != nil {
		slog.Error("could not join session", "err", err)
		_ = status.Set(fmt.Sprintf("Connection failed: %v", err))
		return
	}
	defer client.Close()

	b.SetOnOp(func(op state.Op) {
		if err := client.Send(op); err != nil {
			slog.Warn("could not send op to host", "err", err)
		}
	})
	defer b.SetOnOp(nil)
	_ = status.Set("Connected to host as " + client.LocalAddr())

	err = client.Listen(func(op state.Op) { b.Apply(op) })
	slog.Warn("left shared session", "err", err)
	_ = status.Set(err.Error())
}

func listSessions() error {
	links, err := share.Browse(context.Background(), 3*time.Second)
	if err != nil {
		return err
	}
	if len(links) == 0 {
		fmt.Println("no shared sessions found")
		return nil
	}
	for _, l := range links {
		fmt.Println(l)
	}
	return nil
}
