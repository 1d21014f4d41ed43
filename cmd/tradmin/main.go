package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"tradmin/internal/api"
	"tradmin/internal/config"
	"tradmin/internal/logging"
	"tradmin/internal/metrics"
	"tradmin/internal/preview"
	"tradmin/internal/services"
	"tradmin/internal/session"
	"tradmin/internal/tui"
)

var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	// Local .env files supply ${VAR} placeholders in the YAML config.
	_ = godotenv.Load()
	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		usage()
		return errors.New("no command provided")
	}
	switch cmd := args[0]; cmd {
	case "login":
		return handleLogin(ctx, args[1:])
	case "logout":
		return handleLogout(ctx, args[1:])
	case "whoami":
		return handleWhoami(ctx, args[1:])
	case "tui":
		return handleTUI(ctx, args[1:])
	case "upload":
		return handleUpload(ctx, args[1:])
	case "download":
		return handleDownload(ctx, args[1:])
	case "config":
		return handleConfig(ctx, args[1:])
	case "version":
		fmt.Println(version)
		return nil
	case "help", "-h", "--help":
		usage()
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func usage() {
	fmt.Println(strings.TrimSpace(`tradmin - tradition room admin client

Usage:
  tradmin <command> [flags]

Commands:
  login             Sign in and persist the session
  logout            Drop the persisted session
  whoami            Show the current session
  tui               Open the interactive admin dashboard
  upload            Upload one or more image files
  download          Save an image's original file by id
  config validate   Validate a YAML config file
  config print      Print the loaded config as JSON
  version           Print version
  help              Show this help

Flags:
  --config PATH     Path to YAML config file (or TRADMIN_CONFIG env var; default: ~/.config/tradmin/config.yml)
  --log-level L     Log level: debug|info|warn|error (per command)
  --json            JSON log output (per command)
`))
}

// app holds the wiring every subcommand shares.
type app struct {
	cfg    *config.Config
	log    *logging.Logger
	sess   *session.Store
	client *api.Client
	met    *metrics.Manager
}

func commonFlags(fs *flag.FlagSet) (cfgPath *string, logLevel *string, jsonOut *bool) {
	cfgPath = fs.String("config", "", "Path to YAML config file")
	logLevel = fs.String("log-level", "info", "log level")
	jsonOut = fs.Bool("json", false, "json logs")
	return
}

func resolveConfigPath(p string) (string, error) {
	if p == "" {
		if env := os.Getenv("TRADMIN_CONFIG"); env != "" {
			p = env
		} else if h, err := os.UserHomeDir(); err == nil && h != "" {
			p = filepath.Join(h, ".config", "tradmin", "config.yml")
		}
	}
	if _, err := os.Stat(p); err != nil {
		return "", fmt.Errorf("config file not found: %s", p)
	}
	return p, nil
}

func newApp(cfgPath, logLevel string, jsonOut bool) (*app, error) {
	path, err := resolveConfigPath(cfgPath)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := config.EnsureDir(cfg.Cache.DataRoot); err != nil {
		return nil, err
	}
	log := logging.New(logLevel, jsonOut)
	sess := session.NewStore(session.NewFileStorage(cfg.SessionPath()))
	if err := sess.Restore(); err != nil {
		log.Warnf("session restore: %v", err)
	}
	met := metrics.New(cfg)
	return &app{
		cfg:    cfg,
		log:    log,
		sess:   sess,
		client: api.New(cfg, log, sess, met),
		met:    met,
	}, nil
}

func (a *app) services() tui.Services {
	return tui.Services{
		Auth:          services.NewAuth(a.client, a.sess),
		GoldenBooks:   services.NewGoldenBooks(a.client),
		Artifacts:     services.NewArtifacts(a.client),
		Histories:     services.NewHistories(a.client),
		Introductions: services.NewIntroductions(a.client),
		Users:         services.NewUsers(a.client),
		Images:        services.NewImages(a.client),
	}
}

func handleLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	cfgPath, logLevel, jsonOut := commonFlags(fs)
	username := fs.String("username", "", "admin username")
	password := fs.String("password", "", "admin password (or TRADMIN_PASSWORD env var)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	a, err := newApp(*cfgPath, *logLevel, *jsonOut)
	if err != nil {
		return err
	}
	if *password == "" {
		*password = os.Getenv("TRADMIN_PASSWORD")
	}
	if *username == "" || *password == "" {
		return errors.New("login requires --username and --password (or TRADMIN_PASSWORD)")
	}
	auth := services.NewAuth(a.client, a.sess)
	sess, err := auth.Login(ctx, *username, *password)
	if err != nil {
		return err
	}
	a.log.Infof("signed in as %s (token %s)", sess.Username, logging.RedactToken(sess.Token))
	return a.met.Write()
}

func handleLogout(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("logout", flag.ContinueOnError)
	cfgPath, logLevel, jsonOut := commonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	a, err := newApp(*cfgPath, *logLevel, *jsonOut)
	if err != nil {
		return err
	}
	if err := a.sess.Logout(); err != nil {
		return err
	}
	a.log.Infof("signed out")
	return nil
}

func handleWhoami(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("whoami", flag.ContinueOnError)
	cfgPath, logLevel, jsonOut := commonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	a, err := newApp(*cfgPath, *logLevel, *jsonOut)
	if err != nil {
		return err
	}
	if !a.sess.Authenticated() {
		return errors.New("not signed in")
	}
	s := a.sess.Current()
	fmt.Printf("%s (user %d), token %s\n", s.Username, s.UserID, logging.RedactToken(s.Token))
	return nil
}

func handleTUI(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	cfgPath, logLevel, jsonOut := commonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	a, err := newApp(*cfgPath, *logLevel, *jsonOut)
	if err != nil {
		return err
	}
	// While the TUI owns the terminal, logs go to the configured file only.
	var log *logging.Logger
	if a.cfg.Logging.File.Enabled && a.cfg.Logging.File.Path != "" {
		if err := config.EnsureDir(filepath.Dir(a.cfg.Logging.File.Path)); err != nil {
			return err
		}
		f, ferr := os.OpenFile(a.cfg.Logging.File.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if ferr != nil {
			return ferr
		}
		defer func() { _ = f.Close() }()
		log = logging.NewWithWriter(*logLevel, *jsonOut, f)
	} else {
		log = logging.New("error", *jsonOut)
	}

	cache, err := preview.OpenCache(a.cfg)
	if err != nil {
		return err
	}
	defer func() { _ = cache.Close() }()

	svc := a.services()
	loader := preview.NewLoader(a.client, cache, svc.Images.DownloadURL, log, a.met)

	m := tui.New(ctx, a.cfg, log, a.sess, svc, loader, version)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return err
	}
	loader.Wait()
	return a.met.Write()
}

func handleUpload(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("upload", flag.ContinueOnError)
	cfgPath, logLevel, jsonOut := commonFlags(fs)
	desc := fs.String("description", "", "description for a single upload")
	if err := fs.Parse(args); err != nil {
		return err
	}
	paths := fs.Args()
	if len(paths) == 0 {
		return errors.New("upload requires at least one file path")
	}
	a, err := newApp(*cfgPath, *logLevel, *jsonOut)
	if err != nil {
		return err
	}
	if !a.sess.Authenticated() {
		return errors.New("not signed in; run tradmin login first")
	}
	images := services.NewImages(a.client)
	if len(paths) == 1 {
		img, err := images.Upload(ctx, paths[0], *desc)
		if err != nil {
			return err
		}
		a.log.Infof("uploaded %s as image %d", img.OriginalFilename, img.ImageID)
		return a.met.Write()
	}
	if *desc != "" {
		return errors.New("--description only applies to a single upload")
	}
	uploaded, err := images.UploadMultiple(ctx, paths)
	if err != nil {
		return err
	}
	for _, img := range uploaded {
		a.log.Infof("uploaded %s as image %d", img.OriginalFilename, img.ImageID)
	}
	return a.met.Write()
}

func handleDownload(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("download", flag.ContinueOnError)
	cfgPath, logLevel, jsonOut := commonFlags(fs)
	id := fs.Int64("id", 0, "image id")
	out := fs.String("out", "", "output directory (default: downloads dir from config)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id <= 0 {
		return errors.New("download requires --id")
	}
	a, err := newApp(*cfgPath, *logLevel, *jsonOut)
	if err != nil {
		return err
	}
	if !a.sess.Authenticated() {
		return errors.New("not signed in; run tradmin login first")
	}

	cache, err := preview.OpenCache(a.cfg)
	if err != nil {
		return err
	}
	defer func() { _ = cache.Close() }()

	images := services.NewImages(a.client)
	img, err := images.Get(ctx, *id)
	if err != nil {
		return err
	}
	dir := *out
	if dir == "" {
		dir = a.cfg.DownloadDir()
	}
	loader := preview.NewLoader(a.client, cache, images.DownloadURL, a.log, a.met)
	dest, err := loader.Download(ctx, img.ImageID, img.URL, img.OriginalFilename, preview.DirSaver{Dir: dir})
	if err != nil {
		return err
	}
	a.log.Infof("saved %s", dest)
	return a.met.Write()
}

func handleConfig(_ context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("config subcommand required: validate | print")
	}
	switch sub := args[0]; sub {
	case "validate":
		return configOp(args[1:], func(c *config.Config, log *logging.Logger) error {
			log.Infof("config: valid")
			return nil
		})
	case "print":
		return configOp(args[1:], func(c *config.Config, _ *logging.Logger) error {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(c)
		})
	default:
		return fmt.Errorf("unknown config subcommand: %s", sub)
	}
}

func configOp(args []string, fn func(*config.Config, *logging.Logger) error) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	cfgPath, logLevel, jsonOut := commonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := resolveConfigPath(*cfgPath)
	if err != nil {
		return err
	}
	c, err := config.Load(path)
	if err != nil {
		return err
	}
	return fn(c, logging.New(*logLevel, *jsonOut))
}
