// Package remote implements the pipeline Generator against a podcast
// generation service reached over gRPC.
//
// The service exposes a single unary method, Generate, whose request is the
// resolved GenerationRequest and whose reply carries the audio bytes. Both
// are JSON-encoded. The standard grpc.health.v1 service is consulted before
// the call so an unavailable backend is reported without spending anything.
package remote

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/nadzzz/podcastgen/internal/config"
	"github.com/nadzzz/podcastgen/internal/pipeline"
	"github.com/nadzzz/podcastgen/internal/request"
)

// ServiceName is the gRPC service name, also used for health checks.
const ServiceName = "podcastgen.v1.Generator"

const generateMethod = "/" + ServiceName + "/Generate"

// GenerateReply is the response of the Generate method.
type GenerateReply struct {
	Audio  []byte `json:"audio"`
	Format string `json:"format"`
}

var _ pipeline.Generator = (*Generator)(nil)

// Generator calls a remote generation service.
type Generator struct {
	conn    *grpc.ClientConn
	health  healthpb.HealthClient
	token   string
	timeout time.Duration
}

// New creates a client for the service at cfg.Address. Extra dial options
// are appended after the transport credentials.
func New(cfg config.RemoteConfig, opts ...grpc.DialOption) (*Generator, error) {
	if cfg.Address == "" {
		return nil, errors.New("remote generator address is empty")
	}

	creds := insecure.NewCredentials()
	if !cfg.Insecure {
		creds = credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})
	}

	dialOpts := append([]grpc.DialOption{grpc.WithTransportCredentials(creds)}, opts...)
	conn, err := grpc.NewClient(cfg.Address, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating grpc client: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}

	return &Generator{
		conn:    conn,
		health:  healthpb.NewHealthClient(conn),
		token:   cfg.Token,
		timeout: timeout,
	}, nil
}

// Name returns the backend identifier.
func (g *Generator) Name() string { return "remote" }

// Generate sends req to the service and stores the returned audio in a
// temporary file.
func (g *Generator) Generate(ctx context.Context, req *request.GenerationRequest) (*pipeline.Artifact, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if g.token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+g.token)
	}

	if err := g.checkHealth(ctx); err != nil {
		return nil, err
	}

	var reply GenerateReply
	if err := g.conn.Invoke(ctx, generateMethod, req, &reply, grpc.CallContentSubtype(codecName)); err != nil {
		return nil, fmt.Errorf("remote generate: %w", err)
	}
	if len(reply.Audio) == 0 {
		return nil, errors.New("remote generate: empty audio in reply")
	}

	format := reply.Format
	if format == "" {
		format = "mp3"
	}

	f, err := os.CreateTemp("", "podcastgen-remote-*."+format)
	if err != nil {
		return nil, fmt.Errorf("creating audio file: %w", err)
	}
	if _, err := f.Write(reply.Audio); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("writing audio file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("writing audio file: %w", err)
	}

	slog.Debug("remote generate complete", "bytes", len(reply.Audio), "format", format, "path", f.Name())
	return &pipeline.Artifact{Path: f.Name(), Format: format}, nil
}

// checkHealth fails unless the service reports SERVING. Servers without the
// health service are assumed healthy.
func (g *Generator) checkHealth(ctx context.Context) error {
	resp, err := g.health.Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		if status.Code(err) == codes.Unimplemented {
			slog.Debug("remote generator has no health service")
			return nil
		}
		return fmt.Errorf("remote health check: %w", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("remote generator not serving (status %s)", resp.GetStatus())
	}
	return nil
}

// Close closes the client connection.
func (g *Generator) Close() error {
	return g.conn.Close()
}
