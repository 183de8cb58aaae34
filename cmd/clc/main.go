// clc is a terminal MUD client: it connects to a text server over
// telnet (or the simpler delimited awe protocol), renders the server
// stream with color support, and line-edits keyboard input.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/elanthis/clc/pkg/client"
)

// envDefault returns the environment variable value if set, otherwise the fallback.
func envDefault(envVar, fallback string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	return fallback
}

func main() {
	confFile := flag.String("conf", envDefault("CLC_CONF", ""), "Path to YAML config file (env: CLC_CONF)")
	awe := flag.Bool("awe", os.Getenv("CLC_AWE") == "true", "Use the delimited awe protocol instead of telnet (env: CLC_AWE)")
	wsURL := flag.String("ws", envDefault("CLC_WS", ""), "Connect via a ws:// or wss:// endpoint instead of TCP (env: CLC_WS)")
	logFile := flag.String("log", envDefault("CLC_LOG", ""), "Append diagnostics to this file (env: CLC_LOG)")
	transcriptFile := flag.String("transcript", envDefault("CLC_TRANSCRIPT", ""), "Append a plain-text transcript of output to this file (env: CLC_TRANSCRIPT)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: clc [flags] <host> [port]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := client.LoadConfig(*confFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "clc: %v\n", err)
		os.Exit(1)
	}

	if host := flag.Arg(0); host != "" {
		cfg.Host = host
	} else if v := os.Getenv("CLC_HOST"); v != "" && cfg.Host == "" {
		cfg.Host = v
	}
	if portArg := flag.Arg(1); portArg != "" {
		p, err := strconv.Atoi(portArg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "clc: bad port %q\n", portArg)
			os.Exit(1)
		}
		cfg.Port = p
	} else if v := os.Getenv("CLC_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if *awe {
		cfg.Protocol = "awe"
	}
	if *wsURL != "" {
		cfg.WebsocketURL = *wsURL
	}
	if *logFile != "" {
		cfg.LogFile = *logFile
	}
	if *transcriptFile != "" {
		cfg.TranscriptFile = *transcriptFile
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "clc: %v\n", err)
		os.Exit(1)
	}
	if cfg.Host == "" && cfg.WebsocketURL == "" {
		flag.Usage()
		os.Exit(1)
	}

	// Diagnostics must not corrupt the full-screen display: send them
	// to a file, or drop them
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "clc: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	} else {
		log.SetOutput(io.Discard)
	}

	conn, transport, err := client.Dial(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "clc: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()
	log.Printf("connected to %s (transport %d, protocol %s)", cfg.Host, transport, cfg.Protocol)

	screen, err := client.NewScreen(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "clc: %v\n", err)
		os.Exit(1)
	}

	c := client.New(cfg, screen, conn)
	if cfg.TranscriptFile != "" {
		f, err := os.OpenFile(cfg.TranscriptFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "clc: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		screen.SetTranscript(f)
	}
	client.WatchConfig(*confFile, c.Updates)

	runErr := c.Run()
	screen.Fini()
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "clc: %v\n", runErr)
		os.Exit(1)
	}
	fmt.Println("Disconnected.")
}
