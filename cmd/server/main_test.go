package main

import (
	"io"
	"net"
	"net/http"
	"os"
	"sync/atomic"
	"syscall"
	"testing"
	"time"
)

func TestServe_DrainsInFlightRequests(t *testing.T) {
	entered := make(chan struct{})
	var finished atomic.Bool
	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		time.Sleep(200 * time.Millisecond)
		finished.Store(true)
		w.Write([]byte("done"))
	})}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	stop := make(chan os.Signal, 1)
	served := make(chan error, 1)
	go func() { served <- serve(srv, ln, stop, 5*time.Second) }()

	replies := make(chan string, 1)
	go func() {
		resp, err := http.Get("http://" + ln.Addr().String() + "/")
		if err != nil {
			replies <- "error: " + err.Error()
			return
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		replies <- string(body)
	}()

	<-entered
	stop <- syscall.SIGTERM

	if err := <-served; err != nil {
		t.Fatalf("expected clean shutdown, got %v", err)
	}
	if !finished.Load() {
		t.Fatalf("serve returned before the in-flight request finished")
	}
	if got := <-replies; got != "done" {
		t.Fatalf("expected in-flight request to complete, got %q", got)
	}
}

func TestServe_StopsAuxiliaryServers(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	auxLn, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	aux := &http.Server{Handler: http.NotFoundHandler()}
	auxDone := make(chan error, 1)
	go func() { auxDone <- aux.Serve(auxLn) }()

	stop := make(chan os.Signal, 1)
	stop <- syscall.SIGINT
	if err := serve(&http.Server{Handler: http.NotFoundHandler()}, ln, stop, time.Second, aux, nil); err != nil {
		t.Fatalf("expected clean shutdown, got %v", err)
	}

	select {
	case err := <-auxDone:
		if err != http.ErrServerClosed {
			t.Fatalf("expected auxiliary server closed, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("auxiliary server still running")
	}
}
