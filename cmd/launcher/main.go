// Launcher
//
// Starts the web application: rotates log.txt when it grows past the limit,
// loads .env, reports the tracked environment variables, switches to HTTPS
// when cert.pem and key.pem are present and then serves until killed.
//
// Usage:
//
//	launcher [--dir DIR] [--log-max-size BYTES]
//
// Environment Variables:
//   - HOST: Address to bind (default: "0.0.0.0")
//   - PORT: Port to bind (default: 7000)
//   - API_KEY: Application secret passed through to the app (alias: TMDB_KEY)
//   - DEBUG: Enables request logging when truthy
//   - ENV: Deployment environment name
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"launcher/internal/app"
	"launcher/internal/launcher"
	"launcher/internal/logfile"
)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stderr, launcher.Run))
}

// execute runs the root command with args and returns the process exit code.
func execute(args []string, stderr io.Writer, run func(launcher.Options) error) int {
	if args == nil {
		args = []string{}
	}
	root := newRootCmd(run)
	root.SetArgs(args)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		return 1
	}
	return 0
}

func newRootCmd(run func(launcher.Options) error) *cobra.Command {
	opts := launcher.Options{
		Name:       filepath.Base(os.Args[0]),
		LogMaxSize: logfile.DefaultMaxSize,
		EntryPoint: app.New,
	}

	root := &cobra.Command{
		Use:          "launcher",
		Short:        "Start the web application with log rotation, .env loading and TLS auto-detection",
		Version:      fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Stdout = cmd.OutOrStdout()
			return run(opts)
		},
	}

	root.Flags().StringVar(&opts.Dir, "dir", "", "directory holding .env, log.txt, cert.pem and key.pem (default: executable directory)")
	root.Flags().Int64Var(&opts.LogMaxSize, "log-max-size", opts.LogMaxSize, "rotate log.txt at startup when larger than this many bytes")
	root.Flags().StringVar(&opts.Name, "name", opts.Name, "program name written to the log")

	return root
}
