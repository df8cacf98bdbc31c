package protocol

import (
	"reflect"
	"testing"

	"github.com/x-soft-ua/xAsyncRedis/interface/resp"
)

func TestReplyToBytes(t *testing.T) {
	tests := []struct {
		reply resp.Reply
		want  string
	}{
		{MakeStatusReply("OK"), "+OK\r\n"},
		{MakeErrReply("ERR unknown"), "-ERR unknown\r\n"},
		{MakeIntReply(-12), ":-12\r\n"},
		{MakeBulkReply([]byte("foo")), "$3\r\nfoo\r\n"},
		{MakeBulkReply(nil), "$-1\r\n"},
		{MakeNullBulkReply(), "$-1\r\n"},
		{MakeEmptyMultiBulkReply(), "*0\r\n"},
		{MakeNullMultiBulkReply(), "*-1\r\n"},
		{MakeMultiBulkReply([][]byte{[]byte("a"), nil}), "*2\r\n$1\r\na\r\n$-1\r\n"},
		{MakeMultiRawReply([]resp.Reply{MakeIntReply(1), MakeOkReply()}), "*2\r\n:1\r\n+OK\r\n"},
		{&PongReply{}, "+PONG\r\n"},
	}
	for _, tt := range tests {
		if got := string(tt.reply.ToBytes()); got != tt.want {
			t.Errorf("expected %q, actually %q", tt.want, got)
		}
	}
}

func TestReplyValue(t *testing.T) {
	tests := []struct {
		reply resp.Reply
		want  interface{}
	}{
		{MakeStatusReply("OK"), true},
		{MakeStatusReply("Ok"), true},
		{MakeStatusReply("QUEUED"), "QUEUED"},
		{MakeOkReply(), true},
		{MakeErrReply("ERR no such key"), "no such key"},
		{MakeArgNumErrReply("get"), "wrong number of arguments for 'get' command"},
		{MakeIntReply(7), "7"},
		{MakeBulkReply([]byte("")), ""},
		{MakeBulkReply(nil), nil},
		{MakeNullBulkReply(), nil},
		{MakeNullMultiBulkReply(), nil},
		{MakeEmptyMultiBulkReply(), []interface{}{}},
		{MakeMultiBulkReply([][]byte{[]byte("x"), nil}), []interface{}{"x", nil}},
		{MakeMultiRawReply([]resp.Reply{MakeIntReply(1), MakeNullBulkReply()}), []interface{}{"1", nil}},
		{MakeUnknownReply("?x"), "unknown reply type: ?x"},
	}
	for _, tt := range tests {
		if got := tt.reply.Value(); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%q: expected %#v, actually %#v", tt.reply.ToBytes(), tt.want, got)
		}
	}
}

func TestIsErrorReply(t *testing.T) {
	if !IsErrorReply(MakeErrReply("ERR x")) {
		t.Error("standard error reply should be an error reply")
	}
	if !IsErrorReply(MakeUnknownReply("?")) {
		t.Error("unknown reply should be an error reply")
	}
	if IsErrorReply(MakeStatusReply("ERR")) {
		t.Error("status reply is not an error reply")
	}
	if !IsOKReply(MakeStatusReply("ok")) || IsOKReply(MakeBulkReply([]byte("OK"))) {
		t.Error("IsOKReply only matches status OK")
	}
}

func TestStripErrorCode(t *testing.T) {
	tests := map[string]string{
		"ERR unknown command": "unknown command",
		"ERR":                 "",
		"":                    "",
		// 错误码不足 4 个字符时会多截掉
		"NOAUTH Authentication required": "TH Authentication required",
	}
	for in, want := range tests {
		if got := StripErrorCode(in); got != want {
			t.Errorf("StripErrorCode(%q) = %q, want %q", in, got, want)
		}
	}
}
