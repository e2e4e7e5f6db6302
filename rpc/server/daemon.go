package server

import (
	"context"
	"errors"
	"fmt"
	"github.com/ValentinKolb/dRPC/rpc/channel"
	"github.com/ValentinKolb/dRPC/rpc/common"
	"github.com/ValentinKolb/dRPC/rpc/serializer"
	"github.com/ValentinKolb/dRPC/rpc/transport"
	"github.com/ValentinKolb/dRPC/rpc/transport/framed"
	"github.com/ValentinKolb/dRPC/rpc/transport/jsonrpc"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
)

var Logger = logger.GetLogger("server")

// Call metrics, exposed via the optional HTTP /metrics endpoint.
var (
	callsTotal   = metrics.NewCounter("drpc_server_calls_total")
	callErrors   = metrics.NewCounter("drpc_server_call_errors_total")
	callDuration = metrics.NewHistogram("drpc_server_call_duration_seconds")

	activeConns = xsync.NewCounter()
	_           = metrics.NewGauge("drpc_server_connections_active", func() float64 {
		return float64(activeConns.Value())
	})
)

// --------------------------------------------------------------------------
// Codec Factory
// --------------------------------------------------------------------------

// NewCodecServerTransport creates the server side of the named codec over the
// given byte channel (valid names see the common.Codec* constants). The empty
// name selects the default framed codec.
func NewCodecServerTransport(codec string, ch io.ReadWriter) (transport.IRPCServerTransport, error) {
	switch codec {
	case "", common.CodecFramed:
		return framed.NewServerTransport(ch), nil
	case common.CodecFramedJSON:
		return framed.NewServerTransportWithSerializer(ch, serializer.NewJSONSerializer()), nil
	case common.CodecFramedGOB:
		return framed.NewServerTransportWithSerializer(ch, serializer.NewGOBSerializer()), nil
	case common.CodecJSONRPC:
		return jsonrpc.NewServerTransport(ch), nil
	default:
		return nil, fmt.Errorf("unknown codec %q (supported: %s, %s, %s, %s)",
			codec, common.CodecFramed, common.CodecFramedJSON, common.CodecFramedGOB, common.CodecJSONRPC)
	}
}

// --------------------------------------------------------------------------
// Network Daemon
// --------------------------------------------------------------------------

// NewRPCServer creates the network daemon serving the given dispatcher.
//
// Usage:
//
//	s, err := server.NewRPCServer(config, server.NewDemoDispatcher(demo.NewDemoService()))
//	if err != nil {
//		panic(err)
//	}
//	if err := s.Serve(); err != nil {
//		panic(err)
//	}
func NewRPCServer(config common.ServerConfig, d *Dispatcher) (IRPCServer, error) {
	// https://github.com/golang/go/issues/17393
	if runtime.GOOS == "darwin" {
		signal.Ignore(syscall.Signal(0xd))
	}

	// Reject a bad codec name now instead of on the first connection
	if _, err := NewCodecServerTransport(config.Codec, nil); err != nil {
		return nil, err
	}

	Logger.Infof("created RPC server")
	Logger.Infof(config.String())

	return &rpcServer{
		config:     config,
		dispatcher: d,
		conns:      xsync.NewMapOf[uint64, net.Conn](),
	}, nil
}

// rpcServer implements IRPCServer.
type rpcServer struct {
	config     common.ServerConfig
	dispatcher *Dispatcher

	mu         sync.Mutex
	listener   net.Listener
	metricsSrv *http.Server

	inShutdown atomic.Bool
	nextConnID atomic.Uint64
	conns      *xsync.MapOf[uint64, net.Conn]
	wg         sync.WaitGroup
}

// Serve binds the configured endpoint and accepts connections until Shutdown
// closes the listener. Every accepted connection is tuned, registered and
// served by its own goroutine.
func (s *rpcServer) Serve() error {
	ln, err := channel.Listen(s.config.Network, s.config.Endpoint)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	if s.config.MetricsEndpoint != "" {
		s.startMetricsServer()
	}

	Logger.Infof("listening on %s://%s", s.config.Network, ln.Addr())

	for {
		conn, err := ln.Accept()
		if err != nil {
			// Shutdown closes the listener, which surfaces here
			if s.inShutdown.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}

		if err := channel.Tune(conn, s.config.Channel); err != nil {
			Logger.Warningf("failed to tune connection %s: %v", conn.RemoteAddr(), err)
		}

		id := s.nextConnID.Add(1)
		s.conns.Store(id, conn)
		activeConns.Inc()
		Logger.Infof("accepted connection from %s", conn.RemoteAddr())

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer func() {
				_ = conn.Close()
				s.conns.Delete(id)
				activeConns.Dec()
			}()
			s.serveConn(conn)
		}()
	}
}

// serveConn runs the serve loop for one connection until an iteration fails.
// A clean peer disconnect and an idle timeout log at INFO, everything else
// counts as a call error and logs at WARNING.
func (s *rpcServer) serveConn(conn net.Conn) {
	t, err := NewCodecServerTransport(s.config.Codec, conn)
	if err != nil {
		// The codec name was validated in the constructor
		Logger.Errorf("failed to create server transport: %v", err)
		return
	}

	for {
		// Bound one serve iteration, waiting for a call plus answering it
		if s.config.TimeoutSecond > 0 {
			_ = conn.SetDeadline(time.Now().Add(time.Duration(s.config.TimeoutSecond) * time.Second))
		}

		start := time.Now()
		if err := ServeSingleCall(t, s.dispatcher); err != nil {
			switch {
			case common.IsKind(err, common.TransportEOF):
				Logger.Infof("connection %s closed by peer", conn.RemoteAddr())
			case errors.Is(err, os.ErrDeadlineExceeded):
				Logger.Infof("connection %s timed out", conn.RemoteAddr())
			default:
				callErrors.Inc()
				Logger.Warningf("failed to serve call on %s: %v", conn.RemoteAddr(), err)
			}
			return
		}

		callsTotal.Inc()
		callDuration.UpdateDuration(start)
	}
}

// startMetricsServer exposes the metrics registry over HTTP.
func (s *rpcServer) startMetricsServer() {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		metrics.WritePrometheus(w, true)
	})

	srv := &http.Server{Addr: s.config.MetricsEndpoint, Handler: mux}

	s.mu.Lock()
	s.metricsSrv = srv
	s.mu.Unlock()

	go func() {
		Logger.Infof("metrics endpoint on http://%s/metrics", s.config.MetricsEndpoint)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			Logger.Errorf("metrics endpoint failed: %v", err)
		}
	}()
}

// Shutdown stops the daemon: the listener is closed so no new connections are
// accepted, open connections are closed to unblock their serve loops, then
// the serve goroutines are awaited, bounded by ctx. Safe to call while Serve
// runs in another goroutine.
func (s *rpcServer) Shutdown(ctx context.Context) error {
	s.inShutdown.Store(true)

	s.mu.Lock()
	ln := s.listener
	metricsSrv := s.metricsSrv
	s.mu.Unlock()

	if ln != nil {
		_ = ln.Close()
	}

	s.conns.Range(func(_ uint64, conn net.Conn) bool {
		_ = conn.Close()
		return true
	})

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(ctx); err != nil {
			return err
		}
	}

	Logger.Infof("server stopped")
	return nil
}

// Addr returns the bound listen address, or nil before Serve bound it.
func (s *rpcServer) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}
