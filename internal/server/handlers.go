package server

import (
	"github.com/lambdcalculus/pairq/internal/db"
	"github.com/lambdcalculus/pairq/internal/sched"
	"github.com/lambdcalculus/pairq/pkg/packets"
)

// Dispatches one decoded packet to its handler.
func (srv *QueueServer) handlePacket(c *conn, p packets.Packet) {
	switch p.Header {
	case "submit":
		srv.handleSubmit(c, p)
	case "next":
		srv.handleNext(c, p)
	case "cancel":
		srv.handleCancel(c, p)
	case "reprioritize":
		srv.handleReprioritize(c, p)
	case "login":
		srv.handleLogin(c, p)
	case "stats":
		c.writePacket(srv.statsPacket())
	case "snapshot":
		srv.handleSnapshot(c)
	default:
		srv.writeError(c, "unknown header")
	}
}

func (srv *QueueServer) writeError(c *conn, reason string) {
	c.writePacket(packets.Packet{
		Header: "error",
		Data:   packets.DataError{Reason: reason},
	})
}

func (srv *QueueServer) handleSubmit(c *conn, p packets.Packet) {
	var data packets.DataSubmit
	if err := packets.DecodeData(p, &data); err != nil || data.ID == "" {
		srv.writeError(c, "bad submit data")
		return
	}

	job := &sched.Job{ID: data.ID, Priority: data.Priority, Payload: data.Payload}
	if err := srv.queue.Submit(job); err != nil {
		srv.logger.Debugf("Rejected job %v from %v (%v).", data.ID, c.addr(), err)
		srv.writeError(c, err.Error())
		return
	}
	if err := srv.db.SaveJob(toRow(job)); err != nil {
		srv.logger.Errorf("Couldn't persist job %v (%v).", job.ID, err)
	}
	srv.logger.Debugf("Queued job %v with priority %v.", job.ID, job.Priority)
	c.writePacket(packets.Packet{Header: "ok", Data: packets.DataOK{}})
}

func (srv *QueueServer) handleNext(c *conn, p packets.Packet) {
	var data packets.DataNext
	if err := packets.DecodeData(p, &data); err != nil {
		srv.writeError(c, "bad next data")
		return
	}

	var job *sched.Job
	var ok bool
	if data.Take {
		job, ok = srv.queue.Take()
	} else {
		job, ok = srv.queue.Peek()
	}
	if !ok {
		srv.writeError(c, "queue is empty")
		return
	}
	if data.Take {
		if err := srv.db.RemoveJob(job.ID); err != nil {
			srv.logger.Errorf("Couldn't remove taken job %v (%v).", job.ID, err)
		}
	}
	c.writePacket(packets.Packet{Header: "job", Data: toPacket(job)})
}

func (srv *QueueServer) handleLogin(c *conn, p packets.Packet) {
	var data packets.DataLogin
	if err := packets.DecodeData(p, &data); err != nil {
		srv.writeError(c, "bad login data")
		return
	}

	ok, role, err := srv.db.CheckAuth(data.Username, data.Password)
	if err != nil {
		srv.logger.Errorf("Couldn't check auth for %v (%v).", data.Username, err)
		srv.writeError(c, "internal error")
		return
	}
	if !ok {
		srv.logger.Debugf("Failed login as %v from %v.", data.Username, c.addr())
		srv.writeError(c, "bad credentials")
		return
	}
	c.role = role
	srv.logger.Infof("%v logged in as %v (role %v).", c.addr(), data.Username, role)
	c.writePacket(packets.Packet{Header: "ok", Data: packets.DataOK{}})
}

func (srv *QueueServer) handleCancel(c *conn, p packets.Packet) {
	// Dropping someone else's work needs a login, submitting doesn't.
	if c.role == "" {
		srv.writeError(c, "login required")
		return
	}
	var data packets.DataCancel
	if err := packets.DecodeData(p, &data); err != nil {
		srv.writeError(c, "bad cancel data")
		return
	}

	job, err := srv.queue.Cancel(data.ID)
	if err != nil {
		srv.writeError(c, err.Error())
		return
	}
	if err := srv.db.RemoveJob(job.ID); err != nil {
		srv.logger.Errorf("Couldn't remove cancelled job %v (%v).", job.ID, err)
	}
	srv.logger.Debugf("Cancelled job %v.", job.ID)
	c.writePacket(packets.Packet{Header: "ok", Data: packets.DataOK{}})
}

func (srv *QueueServer) handleReprioritize(c *conn, p packets.Packet) {
	var data packets.DataReprioritize
	if err := packets.DecodeData(p, &data); err != nil {
		srv.writeError(c, "bad reprioritize data")
		return
	}

	old, err := srv.queue.Reprioritize(data.ID, data.Priority)
	if err != nil {
		srv.writeError(c, err.Error())
		return
	}
	if err := srv.db.SetJobPriority(data.ID, data.Priority); err != nil {
		srv.logger.Errorf("Couldn't persist priority of job %v (%v).", data.ID, err)
	}
	srv.logger.Debugf("Reprioritized job %v: %v -> %v.", data.ID, old, data.Priority)
	c.writePacket(packets.Packet{Header: "ok", Data: packets.DataOK{}})
}

func (srv *QueueServer) handleSnapshot(c *conn) {
	jobs := srv.queue.Snapshot()
	data := packets.DataSnapshot{Jobs: make([]packets.DataJob, 0, len(jobs))}
	for _, job := range jobs {
		data.Jobs = append(data.Jobs, toPacket(job))
	}
	c.writePacket(packets.Packet{Header: "snapshot", Data: data})
}

func (srv *QueueServer) statsPacket() packets.Packet {
	stats := packets.DataQueueStats{
		Name:   srv.config.Name,
		Queued: srv.queue.Len(),
		Taken:  srv.queue.Taken(),
	}
	if min, ok := srv.queue.MinPriority(); ok {
		stats.MinPrio = min
	}
	return packets.Packet{Header: "stats", Data: stats}
}

func toRow(job *sched.Job) db.Job {
	return db.Job{
		ID:        job.ID,
		Priority:  job.Priority,
		Payload:   job.Payload,
		Submitted: job.Submitted,
	}
}

func toPacket(job *sched.Job) packets.DataJob {
	return packets.DataJob{
		ID:        job.ID,
		Priority:  job.Priority,
		Payload:   job.Payload,
		Submitted: job.Submitted.Unix(),
	}
}
