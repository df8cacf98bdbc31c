package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x-soft-ua/xAsyncRedis/protocol"
)

func TestRegistrySubmissionOrder(t *testing.T) {
	cmds := MakeCommands(
		[2]string{"GET a", "tcp://127.0.0.1:1"},
		[2]string{"GET b", "tcp://127.0.0.1:1"},
		[2]string{"GET c", "tcp://127.0.0.1:1"},
	)
	r := NewRegistry(len(cmds))

	// 完成顺序与提交顺序不同
	r.Record(replyOutcome(cmds[2], protocol.MakeBulkReply([]byte("c"))))
	r.Record(failedOutcome(cmds[0], protocol.TimedOutMsg))
	require.Equal(t, 2, r.Len())

	results := r.Results()
	require.Len(t, results, 2)
	assert.Equal(t, 0, results[0].ID)
	assert.Equal(t, 2, results[1].ID)

	r.Record(replyOutcome(cmds[1], protocol.MakeIntReply(3)))
	results = r.Results()
	require.Len(t, results, 3)
	for i, o := range results {
		assert.Equal(t, i, o.ID)
		assert.Equal(t, cmds[i], o.Command)
	}
	assert.Equal(t, "3", results[1].Value)
	assert.True(t, results[0].IsError)
	assert.Equal(t, protocol.TimedOutMsg, results[0].ErrMsg)
}

func TestRegistryEmptyAndUnknownID(t *testing.T) {
	r := NewRegistry(2)
	assert.Empty(t, r.Results())
	assert.Equal(t, 0, r.Len())

	r.Record(Outcome{ID: 5})
	r.Record(Outcome{ID: -1})
	assert.Equal(t, 0, r.Len())

	cmd := Command{ID: 1, Text: "PING", Target: "tcp://127.0.0.1:1"}
	r.Record(replyOutcome(cmd, protocol.MakeStatusReply("OK")))
	results := r.Results()
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].ID)
	assert.Equal(t, true, results[0].Value)
	assert.False(t, results[0].IsError)
	assert.Empty(t, results[0].ErrMsg)
}

func TestRegistryRecordTwice(t *testing.T) {
	r := NewRegistry(1)
	cmd := Command{ID: 0}
	r.Record(failedOutcome(cmd, protocol.ConnectFailedMsg))
	r.Record(failedOutcome(cmd, protocol.TimedOutMsg))

	// 最后一次写入生效，计数不变
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, protocol.TimedOutMsg, r.Results()[0].ErrMsg)

	r.Record(Outcome{ID: 7})
	assert.Equal(t, 1, r.Len())
}

func TestReplyOutcome(t *testing.T) {
	cmd := Command{ID: 0}

	o := replyOutcome(cmd, protocol.MakeErrReply("ERR no such key"))
	assert.True(t, o.IsError)
	assert.Nil(t, o.Value)
	assert.Equal(t, "no such key", o.ErrMsg)
	assert.NotNil(t, o.Reply)

	o = replyOutcome(cmd, protocol.MakeUnknownReply("?x"))
	assert.True(t, o.IsError)
	assert.Equal(t, "unknown reply type: ?x", o.ErrMsg)

	o = replyOutcome(cmd, protocol.MakeNullBulkReply())
	assert.False(t, o.IsError)
	assert.Nil(t, o.Value)
}
