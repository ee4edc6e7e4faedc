package observability

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/league-auction/internal/config"
	"github.com/riskibarqy/league-auction/internal/platform/logging"
)

func TestSetup_AllDisabled(t *testing.T) {
	shutdown, err := Setup(config.Config{
		ServiceName:    "league-auction-api",
		ServiceVersion: "dev",
		AppEnv:         config.EnvDev,
	}, logging.NewNop())
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestSetup_UptraceWithoutDSNStaysOff(t *testing.T) {
	shutdown, err := Setup(config.Config{UptraceEnabled: true}, logging.NewNop())
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestStartPprof_ServesIndexAndStops(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserve port: %v", err)
	}
	addr := listener.Addr().String()
	_ = listener.Close()

	stop, err := startPprof(config.Config{PprofEnabled: true, PprofAddr: addr}, logging.NewNop())
	if err != nil {
		t.Fatalf("start pprof: %v", err)
	}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + addr + "/debug/pprof/")
	if err != nil {
		t.Fatalf("get pprof index: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "goroutine") {
		t.Fatalf("unexpected pprof index: status=%d", resp.StatusCode)
	}

	if err := stop(context.Background()); err != nil {
		t.Fatalf("stop pprof: %v", err)
	}
}

func TestStartPprof_PortInUseFails(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer busy.Close()

	if _, err := startPprof(config.Config{PprofEnabled: true, PprofAddr: busy.Addr().String()}, logging.NewNop()); err == nil {
		t.Fatalf("expected error when pprof port is taken")
	}
}
