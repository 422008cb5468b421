// Package `server` handles client communication and the main loop of the
// pairq queue server.
package server

import (
	"fmt"
	"path"

	"github.com/lambdcalculus/pairq/internal/config"
	"github.com/lambdcalculus/pairq/internal/db"
	"github.com/lambdcalculus/pairq/internal/sched"
	"github.com/lambdcalculus/pairq/pkg/duration"
	"github.com/lambdcalculus/pairq/pkg/logger"
	"github.com/lambdcalculus/pairq/pkg/rpc"
)

type QueueServer struct {
	config *config.Server
	db     *db.Database
	queue  *sched.Queue

	fatal chan error

	logger *logger.Logger
}

// Tries to create and prepare the server. May fail if configs are not set
// appropriately.
func MakeServer(log *logger.Logger) (*QueueServer, error) {
	conf, err := config.ReadServer()
	if err != nil {
		// Defaults still work, so only complain.
		log.Warnf("server: Running on default configuration (%v).", err)
	}

	dbPath := conf.Database
	if !path.IsAbs(dbPath) {
		execDir, err := config.ExecDir()
		if err != nil {
			return nil, fmt.Errorf("server: Couldn't get executable directory (%w).", err)
		}
		dbPath = path.Join(execDir, dbPath)
	}
	database, err := db.Init(dbPath)
	if err != nil {
		return nil, fmt.Errorf("server: Couldn't initialize database (%w).", err)
	}

	// Once the config is in, it decides the logging setup.
	if lvl, ok := config.StringToLevel[conf.LevelString]; ok && len(conf.LogOutputs) > 0 {
		log = logger.NewLoggerOutputs(lvl, nil, conf.LogOutputs...)
	}

	srv := &QueueServer{
		config: conf,
		db:     database,
		queue:  sched.NewQueue(conf.MaxQueued),
		fatal:  make(chan error),
		logger: log,
	}

	if err := srv.reloadJobs(); err != nil {
		return nil, err
	}
	srv.logger.Debugf("Successfully loaded server configuration: %#v", conf)
	return srv, nil
}

// Refills the queue with the jobs stored in the database, dropping rows
// older than the retention period first.
func (srv *QueueServer) reloadJobs() error {
	retention := srv.config.Retention()
	srv.logger.Debugf("Job retention is %v.", duration.String(retention))
	pruned, err := srv.db.PruneJobs(retention)
	if err != nil {
		return fmt.Errorf("server: Couldn't prune old jobs (%w).", err)
	}
	if pruned > 0 {
		srv.logger.Infof("Pruned %v stale job(s).", pruned)
	}

	jobs, err := srv.db.LoadJobs()
	if err != nil {
		return fmt.Errorf("server: Couldn't reload jobs (%w).", err)
	}
	for _, job := range jobs {
		err := srv.queue.Submit(&sched.Job{
			ID:        job.ID,
			Priority:  job.Priority,
			Payload:   job.Payload,
			Submitted: job.Submitted,
		})
		if err != nil {
			srv.logger.Warnf("Couldn't requeue stored job %v (%v).", job.ID, err)
		}
	}
	if len(jobs) > 0 {
		srv.logger.Infof("Requeued %v stored job(s).", len(jobs))
	}
	return nil
}

// Starts and runs the server.
func (srv *QueueServer) Run() error {
	srv.logger.Info("Starting server.")
	if srv.config.PortWS > 0 {
		go srv.listenWS()
	}
	if srv.config.PortRPC > 0 {
		go srv.listenRPC()
	}
	return <-srv.fatal
}

// Registers the RPC implementations and serves the management interface.
func (srv *QueueServer) listenRPC() {
	rpc.StatsImpl = func(args *rpc.StatsArgs, reply *rpc.StatsReply) error {
		reply.Name = srv.config.Name
		reply.Queued = srv.queue.Len()
		reply.Taken = srv.queue.Taken()
		return nil
	}
	rpc.DrainImpl = func(args *rpc.DrainArgs, reply *rpc.DrainReply) error {
		reply.Dropped = srv.queue.Drain()
		srv.logger.Infof("Drained %v job(s) over RPC.", reply.Dropped)
		return nil
	}
	rpc.AddAuthImpl = func(args *rpc.AddAuthArgs, reply *int) error {
		return srv.db.AddAuth(args.Username, args.Password, args.Role)
	}
	rpc.RmAuthImpl = func(args *rpc.RmAuthArgs, reply *int) error {
		return srv.db.RemoveAuth(args.Username)
	}

	rpcServer, err := rpc.NewServer(srv.config.PortRPC)
	if err != nil {
		srv.logger.Errorf("Couldn't set up RPC server (%v).", err)
		return
	}
	srv.logger.Infof("Listening RPC on port %v.", srv.config.PortRPC)
	srv.logger.Errorf("Stopped serving RPC: %v.", rpcServer.ListenAndServe())
}
