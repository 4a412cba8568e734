// Command perceive runs the perception core over a stream of per-cycle
// sensor frames and optionally records the belief summaries of the run.
//
// Frames come from a JSON-lines file (default), live UDP datagrams (-udp)
// or a packet capture (-pcap).
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/fieldsense/perception/internal/config"
	"github.com/fieldsense/perception/internal/db"
	"github.com/fieldsense/perception/internal/monitoring"
	"github.com/fieldsense/perception/internal/network"
	"github.com/fieldsense/perception/internal/params"
	"github.com/fieldsense/perception/internal/sensor"
	"github.com/fieldsense/perception/internal/timeutil"
	"github.com/fieldsense/perception/internal/version"
	"github.com/fieldsense/perception/internal/world"
)

var (
	configPath  = flag.String("config", "", "Tuning config JSON (defaults to "+config.DefaultConfigPath+" when present)")
	inputPath   = flag.String("input", "-", "JSON-lines frame stream, - for stdin")
	udpAddr     = flag.String("udp", "", "Receive frames as UDP datagrams on this address instead of -input")
	udpRcvBuf   = flag.Int("udp-rcvbuf", 1<<20, "UDP receive buffer size in bytes")
	pcapFile    = flag.String("pcap", "", "Replay frames from UDP datagrams in a capture file (requires pcap build tag)")
	pcapPort    = flag.Int("pcap-port", 6000, "UDP port of the frame datagrams inside -pcap")
	dbPath      = flag.String("db", "", "SQLite file to record cycle summaries into (empty disables recording)")
	listen      = flag.String("listen", "", "Serve /debug/ pages on this address (empty disables)")
	sideFlag    = flag.String("side", "l", "Side our team defends: l or r")
	unum        = flag.Int("unum", 1, "Our uniform number")
	goalie      = flag.Bool("goalie", false, "We are the goalie")
	stepMs      = flag.Int("step-ms", 0, "Pace -input replay at one cycle per step (0 replays as fast as possible)")
	logDiag     = flag.Bool("log-diag", false, "Enable the diagnostic log stream")
	logTrace    = flag.Bool("log-trace", false, "Enable the per-sample trace log stream")
	quiet       = flag.Bool("quiet", false, "Suppress startup and summary messages")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println("perceive", version.String())
		return
	}

	setupLogging(os.Stderr, *logDiag, *logTrace, *quiet)

	side, err := sensor.ParseSide(*sideFlag)
	if err != nil {
		log.Fatalf("invalid -side: %v", err)
	}
	if *unum < 1 || *unum > 11 {
		log.Fatalf("invalid -unum %d: must be 1..11", *unum)
	}

	tuning, err := loadTuning(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	s := params.DefaultServer()
	w := world.New(world.ConfigFromTuning(tuning, s), s, params.DefaultTypes(),
		world.Identity{Side: side, Unum: *unum, Goalie: *goalie})

	var (
		store *db.DB
		rec   cycleRecorder
		runID string
	)
	if *dbPath != "" {
		store, err = db.OpenDB(*dbPath)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer store.Close()

		cfgJSON, err := json.Marshal(tuning)
		if err != nil {
			log.Fatalf("failed to encode config: %v", err)
		}
		run, err := store.StartRun(side.String(), *unum, *goalie, string(cfgJSON))
		if err != nil {
			log.Fatalf("failed to start run: %v", err)
		}
		rec, runID = store, run.ID
		monitoring.Logf("recording run %s (%s) to %s", run.ID, version.Version, *dbPath)
	}
	p := newPipeline(w, rec, runID)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var udp *network.UDPListener
	if *udpAddr != "" {
		udp = network.NewUDPListener(network.UDPListenerConfig{Address: *udpAddr, RcvBuf: *udpRcvBuf, Sink: p})
	}

	if *listen != "" {
		mux := http.NewServeMux()
		dbg := &debugServer{p: p, store: store, runID: runID, udp: udp}
		if err := dbg.attach(mux); err != nil {
			log.Fatalf("failed to attach debug routes: %v", err)
		}
		srv := &http.Server{Addr: *listen, Handler: mux}

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				monitoring.Logf("debug server failed: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				monitoring.Logf("debug server shutdown: %v", err)
			}
			wg.Wait()
		}()
		monitoring.Logf("debug pages on http://%s/debug/", *listen)
	}

	switch {
	case udp != nil:
		if err := udp.Start(ctx); err != nil && ctx.Err() == nil {
			log.Fatalf("udp listener failed: %v", err)
		}
	case *pcapFile != "":
		stats, err := network.ReadPCAPFile(ctx, network.PCAPConfig{File: *pcapFile, UDPPort: *pcapPort, Sink: p})
		if err != nil && ctx.Err() == nil {
			log.Fatalf("pcap replay failed: %v", err)
		}
		monitoring.Logf("pcap: %d packets, %d frames, %d rejected", stats.Packets, stats.Frames, stats.Rejected)
	default:
		in, closeIn, err := openInput(*inputPath)
		if err != nil {
			log.Fatalf("failed to open input: %v", err)
		}
		defer closeIn()

		pacer := timeutil.NewPacer(timeutil.RealClock{}, time.Duration(*stepMs)*time.Millisecond)
		defer pacer.Stop()

		if n, err := replay(ctx, in, p, pacer); err != nil && ctx.Err() == nil {
			log.Fatalf("replay failed after %d frames: %v", n, err)
		}
	}

	last, frames := p.Snapshot()
	monitoring.Logf("applied %d frames, last cycle %d", frames, last.Cycle)
}

// setupLogging points every log stream at out. Diag and trace are opt-in;
// quiet mutes the startup and summary messages.
func setupLogging(out io.Writer, diag, trace, quiet bool) {
	writers := monitoring.LogWriters{Ops: out}
	if diag {
		writers.Diag = out
	}
	if trace {
		writers.Trace = out
	}
	monitoring.SetLogWriters(writers)
	if quiet {
		monitoring.SetLogger(nil)
		return
	}
	monitoring.SetLogger(log.New(out, "", log.LstdFlags).Printf)
}

func loadTuning(path string) (*config.TuningConfig, error) {
	if path != "" {
		return config.LoadTuningConfig(path)
	}
	if _, err := os.Stat(config.DefaultConfigPath); err == nil {
		return config.LoadTuningConfig(config.DefaultConfigPath)
	}
	return config.DefaultTuningConfig(), nil
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}
