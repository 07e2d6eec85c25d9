package main

import (
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/TomonoriSoejima/ilm-analyzer/pkg/api"
	"github.com/TomonoriSoejima/ilm-analyzer/pkg/config"
	"github.com/TomonoriSoejima/ilm-analyzer/pkg/db"
	"github.com/TomonoriSoejima/ilm-analyzer/pkg/ingest"
	"github.com/TomonoriSoejima/ilm-analyzer/pkg/logging"
	"github.com/TomonoriSoejima/ilm-analyzer/pkg/stash"
	"github.com/TomonoriSoejima/ilm-analyzer/pkg/version"
)

func main() {
	logger := logging.NewWithService("server")
	config.LoadEnv(logger)

	addr := flag.String("addr", config.GetEnv("LISTEN_ADDR", ":8080"), "listen address")
	token := flag.String("token", config.GetEnv("AUTH_TOKEN", ""), "shared auth token (optional)")
	stashType := flag.String("stash", config.GetEnv("STASH_BACKEND", "memory"), "stash backend: memory|consul (requires build tag consul)")
	consulAddr := flag.String("consul-addr", config.GetEnv("CONSUL_ADDR", "127.0.0.1:8500"), "consul address (when stash=consul)")
	demoBase := flag.String("demo-base", config.GetEnv("DEMO_BASE_URL", "http://127.0.0.1:8080/ui"), "origin serving the demo json resources")
	webDir := flag.String("web", "web", "static UI directory served under /ui/")
	tlsCert := flag.String("tls-cert", "", "TLS cert path (enables HTTPS if set with --tls-key)")
	tlsKey := flag.String("tls-key", "", "TLS key path (enables HTTPS if set with --tls-cert)")
	clientCA := flag.String("client-ca", "", "require and verify client certs using this CA (optional)")
	withLogin := flag.Bool("login", config.GetEnvBool("ENABLE_LOGIN", false), "register login routes backed by MySQL")
	flag.Parse()

	var kv stash.Stash
	switch *stashType {
	case "consul":
		kv = stash.NewConsulStash(*consulAddr)
	case "memory":
		kv = stash.NewMemory()
	default:
		logger.Fatalf("unsupported stash type: %s", *stashType)
	}

	hub := api.NewWSHub(logger)
	srv := &api.Server{
		Ingestor: ingest.New(kv, logger),
		Stash:    kv,
		Hub:      hub,
		Log:      logger,
		DemoBase: *demoBase,
	}

	mux := http.NewServeMux()
	srv.RegisterRoutes(mux, *token)
	if _, err := os.Stat(*webDir); err == nil {
		mux.Handle("/ui/", http.StripPrefix("/ui/", http.FileServer(http.Dir(*webDir))))
	}

	if *withLogin {
		gdb, err := db.Init()
		if err != nil {
			logger.WithError(err).Fatal("login enabled but mysql init failed")
		}
		(&api.AuthHandler{DB: gdb}).RegisterRoutes(mux)
	}

	httpSrv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Infof("ilm-analyzer %s listening on %s", version.Build, *addr)
	var err error
	if *tlsCert != "" && *tlsKey != "" {
		if *clientCA != "" {
			cfg, errTLS := api.ServerTLSConfig(*tlsCert, *tlsKey, *clientCA)
			if errTLS != nil {
				logger.WithError(errTLS).Fatal("failed to build TLS config")
			}
			httpSrv.TLSConfig = cfg
			err = httpSrv.ListenAndServeTLS("", "")
		} else {
			err = httpSrv.ListenAndServeTLS(*tlsCert, *tlsKey)
		}
	} else {
		err = httpSrv.ListenAndServe()
	}
	if err != nil {
		srv.Ingestor.Wait()
		logger.WithError(err).Fatal("server error")
	}
}
