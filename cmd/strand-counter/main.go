package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/strand-counter/internal/config"
	"github.com/ironsheep/strand-counter/internal/engine"
	"github.com/ironsheep/strand-counter/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func usage() {
	fmt.Println("strand-counter - MCP server for counting rope strands across a frame sequence")
	fmt.Println()
	fmt.Println("Usage: strand-counter [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v          Print version information")
	fmt.Println("  --help, -h             Print this help message")
	fmt.Println("  -config <path>         YAML configuration file (defaults are used if missing)")
	fmt.Println("  -write-config <path>   Write the default configuration to path and exit")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  STRAND_COUNTER_LOG_LEVEL=debug    Enable debug logging")
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("strand-counter %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			usage()
			return
		}
	}

	configPath := flag.String("config", "strand-counter.yaml", "YAML configuration file")
	writeConfig := flag.String("write-config", "", "write the default configuration to this path and exit")
	flag.Usage = usage
	flag.Parse()

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if *writeConfig != "" {
		if err := config.CreateDefaultConfigFile(*writeConfig); err != nil {
			log.Fatalf("Failed to write config: %v", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote default configuration to %s\n", *writeConfig)
		return
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Printf("Configuration: %s", cfg.Source())

	var opts []engine.Option
	if os.Getenv("STRAND_COUNTER_LOG_LEVEL") == "debug" {
		log.Printf("Strand Counter v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		log.Printf("Config: %d strands, band %d..%d", cfg.Strands, cfg.Band.Top, cfg.Band.Bottom)
		opts = append(opts, engine.WithLogger(log.Default()))
	}

	srv, err := server.New(cfg, opts...)
	if err != nil {
		log.Fatalf("Server error: %v", err)
	}
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
