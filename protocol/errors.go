package protocol

import "errors"

// 固定的诊断信息，调用方可以直接比较
const (
	ConnectFailedMsg = "connection/stream timeout"
	TimedOutMsg      = "connection timed out"
	ReadReplyMsg     = "error reading reply"
	ReadBulkMsg      = "error reading bulk reply"
	UnknownTypeMsg   = "unknown reply type"
)

var (
	ErrReadReply = errors.New(ReadReplyMsg)
	ErrReadBulk  = errors.New(ReadBulkMsg)
	ErrProtocol  = errors.New("protocol error")
)

// 错误码固定按 4 个字符处理（"ERR " 之类），更短的错误码会被多截掉字符
const errorCodeWidth = 4

// StripErrorCode 去掉错误回复开头的错误码
func StripErrorCode(msg string) string {
	if len(msg) <= errorCodeWidth {
		return ""
	}
	return msg[errorCodeWidth:]
}

// 未知类型的回复，保留原始行
type UnknownReply struct {
	Line string
}

func MakeUnknownReply(line string) *UnknownReply {
	return &UnknownReply{
		Line: line,
	}
}

func (r *UnknownReply) ToBytes() []byte {
	return []byte(r.Line + CRLF)
}

func (r *UnknownReply) Error() string {
	return UnknownTypeMsg + ": " + r.Line
}

func (r *UnknownReply) Value() interface{} {
	return r.Error()
}

// 错误的参数数量
type ArgNumErrReply struct {
	Cmd string
}

func (r *ArgNumErrReply) ToBytes() []byte {
	return []byte("-ERR wrong number of arguments for '" + r.Cmd + "' command\r\n")
}

func (r *ArgNumErrReply) Error() string {
	return "ERR wrong number of arguments for '" + r.Cmd + "' command"
}

func (r *ArgNumErrReply) Value() interface{} {
	return StripErrorCode(r.Error())
}

func MakeArgNumErrReply(cmd string) *ArgNumErrReply {
	return &ArgNumErrReply{
		Cmd: cmd,
	}
}
