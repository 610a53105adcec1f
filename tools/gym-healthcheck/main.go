package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/md-rashed-zaman/gymdesk/libs/grpcx"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// gym-healthcheck exits 0 only when the service reports SERVING over the gRPC
// health protocol. It is meant for container probes.
func main() {
	var (
		addr    = flag.String("addr", getenv("GRPC_ADDR", "localhost:9090"), "gym-service gRPC address")
		service = flag.String("service", "", "service name to check (empty checks the server as a whole)")
		timeout = flag.Duration("timeout", 3*time.Second, "dial and check timeout")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	conn, err := grpcx.Dial(ctx, *addr, grpcx.DialOptions{Timeout: *timeout})
	if err != nil {
		fatal(fmt.Sprintf("dial %s: %v", *addr, err))
	}
	defer conn.Close()

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: *service})
	if err != nil {
		fatal(fmt.Sprintf("health check: %v", err))
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		fatal("status " + resp.GetStatus().String())
	}
	fmt.Println("SERVING")
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func fatal(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
