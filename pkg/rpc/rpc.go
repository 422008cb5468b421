// Package `rpc` exports methods to manage a pairq server over RPC.
//
// This separation allows RPC clients (like pairqctl) to not require
// importing the `server` package, which makes them a lot lighter.
//
// The "Impl" variables are to be used by the server for the internal
// implementations of each RPC operation.
package rpc

import (
	"fmt"
	"net/http"
	"net/rpc"
	"time"
)

// The receivers for the exported RPC methods.
type (
	Queue int
	Auth  int
)

// Arguments for the Stats operation.
type StatsArgs struct{}

// Reply of the Stats operation.
type StatsReply struct {
	Name   string
	Queued int
	Taken  uint64
}

// Arguments for the Drain operation.
type DrainArgs struct{}

// Reply of the Drain operation: the jobs that were still queued.
type DrainReply struct {
	Dropped int
}

// Arguments for the AddAuth operation.
type AddAuthArgs struct {
	Username string
	Password string
	Role     string
}

// Arguments for the RmAuth operation.
type RmAuthArgs struct {
	Username string
}

// These define the internal implementation of each operation.
// They only need to be set by the server, RPC clients can ignore this.
var (
	StatsImpl   = func(args *StatsArgs, reply *StatsReply) error { return nil }
	DrainImpl   = func(args *DrainArgs, reply *DrainReply) error { return nil }
	AddAuthImpl = func(args *AddAuthArgs, reply *int) error { return nil }
	RmAuthImpl  = func(args *RmAuthArgs, reply *int) error { return nil }
)

// NewServer returns an HTTP server that serves RPC on the passed port.
// The "Impl" variables should be used to configure its operations before
// running the server.
func NewServer(port int) (*http.Server, error) {
	s := rpc.NewServer()
	if err := s.Register(new(Queue)); err != nil {
		return nil, err
	}
	if err := s.Register(new(Auth)); err != nil {
		return nil, err
	}

	return &http.Server{
		Addr:           fmt.Sprintf("localhost:%v", port),
		Handler:        s,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}, nil
}

// Reports the queue statistics.
func (*Queue) Stats(args *StatsArgs, reply *StatsReply) error {
	return StatsImpl(args, reply)
}

// Drops every queued job.
func (*Queue) Drain(args *DrainArgs, reply *DrainReply) error {
	return DrainImpl(args, reply)
}

// Adds an user to the auth table in the database.
func (*Auth) AddAuth(args *AddAuthArgs, reply *int) error {
	return AddAuthImpl(args, reply)
}

// Removes an user from the auth table in the database.
func (*Auth) RmAuth(args *RmAuthArgs, reply *int) error {
	return RmAuthImpl(args, reply)
}
