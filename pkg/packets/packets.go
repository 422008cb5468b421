// Package `packets` defines the JSON packets of the pairq job protocol,
// shared between the server and its clients.
package packets

import "encoding/json"

// A Packet is one protocol message: a header naming the operation and an
// operation-specific data payload.
type Packet struct {
	Header string      `json:"header"`
	Data   interface{} `json:"data"`
}

// MakePacket parses a raw message into a [Packet]. The Data field remains
// undecoded (a map) until it is re-marshalled into the right Data* struct
// for the header.
func MakePacket(raw []byte) (Packet, error) {
	var p Packet
	if err := json.Unmarshal(raw, &p); err != nil {
		return Packet{}, err
	}
	return p, nil
}

// DecodeData re-marshals a packet's data into the passed Data* struct.
func DecodeData(p Packet, into interface{}) error {
	raw, err := json.Marshal(p.Data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, into)
}

// Client packets

// DataSubmit queues a new job.
type DataSubmit struct {
	ID       string `json:"id"`
	Priority int64  `json:"priority"`
	Payload  string `json:"payload"`
}

// DataNext asks for the highest-priority job. The job is removed from the
// queue when `take` is set, and only peeked at otherwise.
type DataNext struct {
	Take bool `json:"take"`
}

// DataLogin authenticates the connection for the privileged operations.
type DataLogin struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// DataCancel drops a queued job.
type DataCancel struct {
	ID string `json:"id"`
}

// DataReprioritize changes a queued job's priority.
type DataReprioritize struct {
	ID       string `json:"id"`
	Priority int64  `json:"priority"`
}

// DataStats asks for the queue statistics.
type DataStats struct{}

// DataSnapshotReq asks for the full queue listing.
type DataSnapshotReq struct{}

// Server packets

// DataJob describes one job, in replies to `next` and in `snapshot` lists.
type DataJob struct {
	ID        string `json:"id"`
	Priority  int64  `json:"priority"`
	Payload   string `json:"payload"`
	Submitted int64  `json:"submitted"` // unix seconds
}

// DataOK acknowledges an operation that has no other reply.
type DataOK struct{}

// DataError reports a failed operation back to the client.
type DataError struct {
	Reason string `json:"reason"`
}

// DataSnapshot is the reply to `snapshot`: every queued job, best priority
// first.
type DataSnapshot struct {
	Jobs []DataJob `json:"jobs"`
}

// DataQueueStats is the reply to `stats`.
type DataQueueStats struct {
	Name    string `json:"name"`
	Queued  int    `json:"queued"`
	Taken   uint64 `json:"taken"`
	MinPrio int64  `json:"min_priority"` // meaningless when Queued is 0
}
