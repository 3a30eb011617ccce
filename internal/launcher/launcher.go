// Package launcher runs the startup sequence: rotate the log, load .env,
// resolve configuration, detect TLS material and start the application.
package launcher

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"launcher/internal/certs"
	"launcher/internal/config"
	"launcher/internal/logfile"
	"launcher/internal/server"
)

// Files looked up in the base directory.
const (
	EnvFileName = ".env"
	LogFileName = "log.txt"
)

// DefaultName is used in the "started" line when Options.Name is empty.
const DefaultName = "launcher"

// Options configures a single launch.
type Options struct {
	// Dir is the base directory holding .env, log.txt and the certificates.
	// Defaults to the executable's directory.
	Dir string

	// Name identifies the program in the log.
	Name string

	// LogMaxSize is the rotation threshold in bytes.
	LogMaxSize int64

	// EntryPoint builds the application to serve.
	EntryPoint server.EntryPoint

	// Stdout receives a copy of every log line. Nil disables the copy.
	Stdout io.Writer

	// Clock defaults to time.Now.
	Clock func() time.Time

	// Serve starts the prepared server and blocks. Defaults to
	// (*server.Server).ListenAndServe.
	Serve func(*server.Server) error
}

// ExecutableDir returns the directory of the running executable with
// symlinks resolved.
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

func (o *Options) setDefaults() error {
	if o.Dir == "" {
		dir, err := ExecutableDir()
		if err != nil {
			return err
		}
		o.Dir = dir
	}
	if o.Name == "" {
		o.Name = DefaultName
	}
	if o.LogMaxSize <= 0 {
		o.LogMaxSize = logfile.DefaultMaxSize
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	if o.Serve == nil {
		o.Serve = (*server.Server).ListenAndServe
	}
	return nil
}

// Run performs the startup sequence and blocks while the server runs.
// Fatal conditions are written to the log before being returned.
func Run(opts Options) error {
	if err := opts.setDefaults(); err != nil {
		return err
	}

	logPath := filepath.Join(opts.Dir, LogFileName)
	backup, err := logfile.Rotate(logPath, opts.LogMaxSize, opts.Clock())
	if err != nil {
		return err
	}

	log, err := logfile.Open(logPath, opts.Clock, opts.Stdout)
	if err != nil {
		return err
	}
	defer log.Close()

	if backup != "" {
		log.Info().Msgf("Log rotated to %s", backup)
	}
	log.Info().Msgf("%s started", opts.Name)

	env, err := config.LoadEnvFile(filepath.Join(opts.Dir, EnvFileName))
	if err != nil {
		log.Error().Msgf("Failed to load .env: %v", err)
		return err
	}
	if env.Found {
		if env.Skipped > 0 {
			log.Warn().Msgf(".env: skipped %d malformed line(s)", env.Skipped)
		}
		log.Info().Msg(".env loaded successfully")
	} else {
		log.Warn().Msg(".env file not found")
	}

	cfg, err := config.Resolve(nil)
	cfg.Report(log.Logger)
	if err != nil {
		log.Error().Msgf("Invalid configuration: %v", err)
		return err
	}

	tls := certs.Detect(opts.Dir)
	if tls.Enabled() {
		log.Info().Msg("SSL certificates found: using HTTPS")
	} else {
		log.Info().Msg("SSL certificates not found: using HTTP")
	}

	srv, err := server.New(cfg, tls, opts.EntryPoint, log.Logger)
	if err == nil {
		log.Info().Msgf("Starting server on %s", srv.Addr())
		err = opts.Serve(srv)
	}
	if err != nil {
		log.Error().Msgf("Failed to run app: %v", err)
		return fmt.Errorf("run app: %w", err)
	}
	return nil
}
