// Command player is a headless slideshow driven from stdin. It loads photos
// and settings from the api server and logs every slide change.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/aouyang1/photoslideshow/api/client"
	"github.com/aouyang1/photoslideshow/config"
	"github.com/aouyang1/photoslideshow/slideshow"
)

const usage = "commands: left, right, 1-9 (theme), interval <ms>, mode <auto|random>, drop <path>, detail, quit"

type player struct {
	client     *client.PhotoClient
	controller *slideshow.Controller
	panel      *slideshow.Panel
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pc := client.NewPhotoClient(cfg.ServerURL, time.Duration(cfg.RequestTimeoutMS)*time.Millisecond)
	session, err := pc.LoadSession(ctx)
	if err != nil {
		log.Fatalf("Failed to load slideshow from %s: %v", cfg.ServerURL, err)
	}
	slog.Info("loaded slideshow", "photos", len(session.Photos), "themes", len(session.Themes), "settings", session.Settings)

	controller := slideshow.NewController(session.Photos, session.Settings, slideshow.WithObserver(logState))
	p := &player{
		client:     pc,
		controller: controller,
		panel:      slideshow.NewPanel(pc, controller, session.Themes, session.Settings),
	}

	controller.Arm()
	defer controller.Stop()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		if err := scanner.Err(); err != nil {
			slog.Error("failed to read stdin", "error", err)
		}
	}()

	fmt.Println(usage)
	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if p.handle(ctx, line) {
				return
			}
		}
	}
}

func logState(s slideshow.State) {
	if s.Photo == nil {
		slog.Info("no photos to show")
		return
	}
	slog.Info("slide",
		"index", s.Index,
		"count", s.Count,
		"photo_id", s.Photo.ID,
		"caption", s.Photo.Caption,
		"phase", s.Phase.String(),
		"class", s.AnimationClass,
	)
}

// handle runs one command line and reports whether the player should exit.
func (p *player) handle(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "quit", "exit":
		return true
	case "left":
		p.controller.HandleKey("ArrowLeft", false)
	case "right":
		p.controller.HandleKey("ArrowRight", false)
	case "ArrowLeft", "ArrowRight":
		p.controller.HandleKey(cmd, false)
	case "interval":
		if len(args) != 1 {
			fmt.Println("usage: interval <ms>")
			return false
		}
		if err := p.panel.SubmitInterval(ctx, args[0]); err != nil {
			slog.Warn("interval not saved", "input", args[0], "shown", p.panel.IntervalText(), "error", err)
		}
	case "mode":
		if len(args) != 1 {
			fmt.Println("usage: mode <auto|random>")
			return false
		}
		if err := p.panel.SelectPlayMode(ctx, args[0]); err != nil {
			slog.Warn("play mode not saved", "mode", args[0], "error", err)
		}
	case "drop":
		p.drop(args)
	case "detail":
		p.detail(ctx)
	default:
		handled, err := p.panel.HandleKey(ctx, cmd, false)
		if err != nil {
			slog.Warn("theme not saved", "key", cmd, "error", err)
		}
		if !handled {
			fmt.Println(usage)
		}
	}
	return false
}

func (p *player) drop(paths []string) {
	files := make([]slideshow.DroppedFile, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			slog.Error("failed to read dropped file", "path", path, "error", err)
			return
		}
		files = append(files, slideshow.DroppedFile{Name: filepath.Base(path), Data: data})
	}

	photo, err := p.controller.Drop(files)
	switch {
	case errors.Is(err, slideshow.ErrNotImage):
		fmt.Println("please drop an image file")
	case err != nil:
		slog.Warn("drop ignored", "error", err)
	default:
		slog.Info("added photo", "id", photo.ID, "caption", photo.Caption)
	}
}

func (p *player) detail(ctx context.Context) {
	id, ok := p.controller.PhotoClick()
	if !ok {
		return
	}

	d := slideshow.LoadDetail(ctx, p.client, id)
	if d.NotFound {
		fmt.Printf("photo %d not found\n", id)
		return
	}
	fmt.Printf("#%d %s\n  file: %s\n  size: %s\n  created: %s\n", d.Photo.ID, d.Photo.Caption, d.FileName, d.Photo.FileSize, d.Photo.CreatedAt)
}
