package packets_test

import (
	"testing"

	"github.com/lambdcalculus/pairq/pkg/packets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakePacket(t *testing.T) {
	raw := []byte(`{"header":"submit","data":{"id":"j1","priority":5,"payload":"work"}}`)

	p, err := packets.MakePacket(raw)
	require.NoError(t, err)
	assert.Equal(t, "submit", p.Header)

	var data packets.DataSubmit
	require.NoError(t, packets.DecodeData(p, &data))
	assert.Equal(t, "j1", data.ID)
	assert.Equal(t, int64(5), data.Priority)
	assert.Equal(t, "work", data.Payload)
}

func TestMakePacketBadJSON(t *testing.T) {
	_, err := packets.MakePacket([]byte(`{"header":`))
	assert.Error(t, err)
}

func TestDecodeDataMismatch(t *testing.T) {
	p, err := packets.MakePacket([]byte(`{"header":"cancel","data":{"id":42}}`))
	require.NoError(t, err)

	// An int where a string belongs doesn't decode.
	var data packets.DataCancel
	assert.Error(t, packets.DecodeData(p, &data))
}
