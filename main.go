package main

import (
	"fmt"
	"os"

	"github.com/lookbusy1344/hlasm-lsp/config"
	"github.com/lookbusy1344/hlasm-lsp/logger"
	"github.com/lookbusy1344/hlasm-lsp/lsp"
	"github.com/lookbusy1344/hlasm-lsp/server"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"     // Version number (set by git tag at build time)
	Commit  = "unknown" // Git commit hash
	Date    = "unknown" // Build date
)

// options is the command-line surface; unknown arguments are ignored
type options struct {
	dataDir     string
	macroDirs   []string
	configPath  string
	listen      string
	verbose     bool
	showVersion bool
}

// parseArgs scans the arguments by hand so unrecognized flags from editor
// clients are skipped rather than fatal
func parseArgs(args []string) options {
	var opts options
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--data-dir":
			if i+1 < len(args) {
				i++
				opts.dataDir = args[i]
			}
		case "--macro-dir":
			if i+1 < len(args) {
				i++
				opts.macroDirs = append(opts.macroDirs, args[i])
			}
		case "--config":
			if i+1 < len(args) {
				i++
				opts.configPath = args[i]
			}
		case "--listen":
			if i+1 < len(args) {
				i++
				opts.listen = args[i]
			}
		case "--verbose":
			opts.verbose = true
		case "--version":
			opts.showVersion = true
		}
	}
	return opts
}

func main() {
	os.Exit(run(parseArgs(os.Args[1:])))
}

func run(opts options) int {
	if opts.showVersion {
		fmt.Printf("hlasm-lsp %s (protocol %s)\n", Version, server.Version)
		if Commit != "unknown" {
			fmt.Printf("Commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("Built: %s\n", Date)
		}
		return 0
	}

	configPath := opts.configPath
	if configPath == "" {
		configPath = config.DefaultPath
	}
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[hlasm-lsp] %v\n", err)
		return 1
	}

	// Command-line flags override the config file; macro dirs concatenate
	// with the flags first so the first argument wins during lookup
	dataDir := opts.dataDir
	if dataDir == "" {
		dataDir = cfg.Catalog.DataDir
	}
	macroDirs := append(opts.macroDirs, cfg.Macros.Dirs...)
	listen := opts.listen
	if listen == "" {
		listen = cfg.Server.Listen
	}

	logger.Init(opts.verbose || cfg.Log.Verbose)
	logger.Info("starting hlasm-lsp {Version}", Version)

	if listen != "" {
		logger.Info("serving WebSocket LSP on {Addr}", listen)
		if err := lsp.ListenAndServe(listen, func(conn *lsp.Conn) {
			server.New(conn, dataDir, macroDirs).Run()
		}); err != nil {
			logger.Error("listen failed: {Error}", err.Error())
			return 1
		}
		return 0
	}

	conn := lsp.NewStdioConn(os.Stdin, os.Stdout)
	return server.New(conn, dataDir, macroDirs).Run()
}
