package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"rds-provider/internal/ports"
	"rds-provider/pkg/api"
	"rds-provider/pkg/cli"
	"rds-provider/pkg/clients"
	"rds-provider/pkg/config"
)

const version = "1.0.0"

var setupLog = ctrl.Log.WithName("setup")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Check if running in CLI mode
	if cli.IsCliCommand(os.Args) {
		ctrl.SetLogger(zap.New(zap.UseDevMode(hasFlag(os.Args, "-v", "--verbose"))))
		ctx = log.IntoContext(ctx, ctrl.Log.WithName("cli"))

		if err := cli.Run(ctx, os.Args, os.Stdout, newProvider); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if len(os.Args) > 1 && os.Args[1] == "serve" {
		if err := runAPIServer(ctx, os.Args[2:]); err != nil {
			setupLog.Error(err, "API server failed")
			os.Exit(1)
		}
		return
	}

	cli.PrintUsage(os.Stdout)
	os.Exit(2)
}

func newProvider(ctx context.Context, providerConfig *config.ProviderConfig) (ports.RDSProviderUseCase, error) {
	return clients.NewProviderFactory(providerConfig).GetRDSProviderUseCase(ctx)
}

// runAPIServer inicia o servidor HTTP da API
func runAPIServer(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)

	var configPath, host, region, endpoint, apiKeys, corsOrigins, metricsPath string
	var port int

	fs.StringVar(&configPath, "config", "", "Provider configuration file.")
	fs.StringVar(&host, "host", "", "Server host (default: server.host or 0.0.0.0).")
	fs.IntVar(&port, "port", 0, "Server port (default: server.port or 8080).")
	fs.StringVar(&metricsPath, "metrics-path", "", "Path the Prometheus metrics are served on (default: /metrics).")
	fs.StringVar(&region, "region", "", "AWS region.")
	fs.StringVar(&endpoint, "endpoint", "", "RDS endpoint URL (for LocalStack).")
	fs.StringVar(&apiKeys, "api-keys", "", "Comma-separated API keys; enables authentication.")
	fs.StringVar(&corsOrigins, "cors-origins", "", "Comma-separated CORS origins.")

	opts := zap.Options{
		Development: true,
	}
	opts.BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctrl.SetLogger(zap.New(zap.UseFlagOptions(&opts)))
	logger := ctrl.Log.WithName("api")
	ctx = log.IntoContext(ctx, logger)

	fileConfig, providerConfig, err := cli.LoadProviderConfig(configPath, region, endpoint)
	if err != nil {
		return fmt.Errorf("invalid provider configuration: %w", err)
	}

	provider, err := newProvider(ctx, providerConfig)
	if err != nil {
		return err
	}

	serverConfig := &api.ServerConfig{
		Host:           firstNonEmpty(host, fileConfig.Server.Host, "0.0.0.0"),
		Port:           fileConfig.Server.Port,
		Version:        version,
		MetricsPath:    firstNonEmpty(metricsPath, fileConfig.Server.MetricsPath, "/metrics"),
		AllowedOrigins: fileConfig.Server.AllowedOrigins,
		Auth: api.AuthConfig{
			Enabled: len(fileConfig.Server.APIKeys) > 0,
			APIKeys: fileConfig.Server.APIKeys,
		},
	}
	if port != 0 {
		serverConfig.Port = port
	}
	if serverConfig.Port == 0 {
		serverConfig.Port = 8080
	}
	if apiKeys != "" {
		serverConfig.Auth = api.AuthConfig{Enabled: true, APIKeys: config.SplitList(apiKeys)}
	}
	if corsOrigins != "" {
		serverConfig.AllowedOrigins = config.SplitList(corsOrigins)
	}

	server := api.NewServer(serverConfig, provider, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down API server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func hasFlag(args []string, names ...string) bool {
	for _, arg := range args {
		for _, name := range names {
			if arg == name {
				return true
			}
		}
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
