package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"xdao.co/nodeid/fingerprintrpc"
	"xdao.co/nodeid/internal/config"
	"xdao.co/nodeid/internal/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	var cfgPath string
	def := config.Default()
	cmd := &cobra.Command{
		Use:          "nodeid-fpd",
		Short:        "Serve fingerprint derivation and trust checks over gRPC",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgPath, cmd.Flags())
			if err != nil {
				return err
			}
			logger, err := log.New(errOut, cfg.LogLevel)
			if err != nil {
				return err
			}
			log.Set(logger)

			lis, err := net.Listen("tcp", cfg.Listen)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, lis)
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	f := cmd.Flags()
	f.StringVarP(&cfgPath, "config", "c", "", "config file (yaml, json or toml)")
	f.String("listen", def.Listen, "listen address")
	f.Int("max-msg-bytes", def.MaxMsgBytes, "max gRPC message size in bytes (send+recv); 0 uses grpc defaults")
	f.String("trust-file", def.TrustFile, "peer-trust document enabling Authenticate")
	f.String("log-level", def.LogLevel, "log level: debug|info|warn|error")
	f.String("compliance", def.Compliance, "fingerprint parsing: permissive|strict")
	return cmd
}

// serve runs the Fingerprints service on lis until ctx is done, then stops
// gracefully. It logs through the package logger (log.Set).
func serve(ctx context.Context, cfg config.Config, lis net.Listener) error {
	policy, err := cfg.LoadPolicy()
	if err != nil {
		_ = lis.Close()
		return err
	}

	opts := []grpc.ServerOption{grpc.UnaryInterceptor(fingerprintrpc.LoggingInterceptor(log.Logger()))}
	if cfg.MaxMsgBytes > 0 {
		opts = append(opts, grpc.MaxRecvMsgSize(cfg.MaxMsgBytes), grpc.MaxSendMsgSize(cfg.MaxMsgBytes))
	}
	s := grpc.NewServer(opts...)
	fingerprintrpc.RegisterFingerprintsServer(s, &fingerprintrpc.Server{
		Policy:     policy,
		Compliance: cfg.ComplianceMode(),
	})

	ev := log.Info().
		Str("listen", lis.Addr().String()).
		Str("compliance", cfg.ComplianceMode().String())
	if policy != nil {
		ev = ev.Str("trust_file", cfg.TrustFile).Int("pinned", policy.Len())
	}
	ev.Msg("nodeid-fpd listening")

	errc := make(chan error, 1)
	go func() {
		errc <- s.Serve(lis)
	}()

	select {
	case err := <-errc:
		log.Error().Err(err).Msg("serve failed")
		return err
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		s.GracefulStop()
		<-errc
		return nil
	}
}
