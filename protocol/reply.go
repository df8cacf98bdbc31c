package protocol

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/x-soft-ua/xAsyncRedis/interface/resp"
)

var CRLF = "\r\n"

/*
BulkReply: 批量字符串回复
*/
type BulkReply struct {
	Arg []byte
}

// 字符串回复
func MakeBulkReply(arg []byte) *BulkReply {
	return &BulkReply{
		Arg: arg,
	}
}

func (r *BulkReply) ToBytes() []byte {
	if r.Arg == nil {
		return nullBulkBytes
	}
	// $5\r\nmamba\r\n
	return []byte("$" + strconv.Itoa(len(r.Arg)) + CRLF + string(r.Arg) + CRLF)
}

func (r *BulkReply) Value() interface{} {
	if r.Arg == nil {
		return nil
	}
	return string(r.Arg)
}

/*
MultiBulkReply: 多个 Bulk 字符串组成的数组，请求帧也是这个格式
*/
type MultiBulkReply struct {
	Args [][]byte
}

func MakeMultiBulkReply(args [][]byte) *MultiBulkReply {
	return &MultiBulkReply{
		Args: args,
	}
}

// *2\r\n
// $5\r\n
// hello\r\n
// $5\r\n
// world\r\n

func (r *MultiBulkReply) ToBytes() []byte {
	var buf bytes.Buffer

	// * + len + CRLF
	argLen := len(r.Args)
	bufLen := 1 + len(strconv.Itoa(argLen)) + 2

	for _, arg := range r.Args {
		if arg == nil {
			bufLen += 3 + 2
		} else {
			bufLen += 1 + len(strconv.Itoa(len(arg))) + 2 + len(arg) + 2
		}
	}

	buf.Grow(bufLen)
	buf.WriteString("*")
	buf.WriteString(strconv.Itoa(argLen))
	buf.WriteString(CRLF)
	for _, arg := range r.Args {
		if arg == nil {
			buf.WriteString("$-1")
			buf.WriteString(CRLF)
		} else {
			buf.WriteString("$")
			buf.WriteString(strconv.Itoa(len(arg)))
			buf.WriteString(CRLF)
			buf.Write(arg)
			buf.WriteString(CRLF)
		}
	}
	return buf.Bytes()
}

func (r *MultiBulkReply) Value() interface{} {
	values := make([]interface{}, len(r.Args))
	for i, arg := range r.Args {
		if arg != nil {
			values[i] = string(arg)
		}
	}
	return values
}

// 存储已经完成解析的嵌套回复
type MultiRawReply struct {
	Replies []resp.Reply
}

func MakeMultiRawReply(replies []resp.Reply) *MultiRawReply {
	return &MultiRawReply{
		Replies: replies,
	}
}

func (r *MultiRawReply) ToBytes() []byte {
	argLen := len(r.Replies)
	var buf bytes.Buffer
	buf.WriteString("*" + strconv.Itoa(argLen) + CRLF)
	for _, arg := range r.Replies {
		buf.Write(arg.ToBytes())
	}
	return buf.Bytes()
}

func (r *MultiRawReply) Value() interface{} {
	values := make([]interface{}, len(r.Replies))
	for i, reply := range r.Replies {
		values[i] = reply.Value()
	}
	return values
}

/* ---- Status Reply ---- */

// 状态回复
type StatusReply struct {
	Status string
}

func MakeStatusReply(status string) *StatusReply {
	return &StatusReply{
		Status: status,
	}
}

// +OK\r\n
func (r *StatusReply) ToBytes() []byte {
	return []byte("+" + r.Status + CRLF)
}

// OK（不区分大小写）映射为 true，其余状态原样返回
func (r *StatusReply) Value() interface{} {
	if IsOKReply(r) {
		return true
	}
	return r.Status
}

func IsOKReply(reply resp.Reply) bool {
	status, ok := reply.(*StatusReply)
	return ok && strings.EqualFold(status.Status, "OK")
}

/* ---- Int Reply ---- */

// 整数回复，保留原始的数字字符串
type IntReply struct {
	Code string
}

func MakeIntReply(code int64) *IntReply {
	return &IntReply{
		Code: strconv.FormatInt(code, 10),
	}
}

// :1000\r\n
func (r *IntReply) ToBytes() []byte {
	return []byte(":" + r.Code + CRLF)
}

func (r *IntReply) Value() interface{} {
	return r.Code
}

/* ---- Error Reply ---- */

// ErrorReply is an error and resp.Reply
type ErrorReply interface {
	Error() string
	ToBytes() []byte
	Value() interface{}
}

type StandardErrReply struct {
	Status string
}

func MakeErrReply(status string) *StandardErrReply {
	return &StandardErrReply{
		Status: status,
	}
}

func IsErrorReply(reply resp.Reply) bool {
	_, ok := reply.(ErrorReply)
	return ok
}

func (r *StandardErrReply) ToBytes() []byte {
	return []byte("-" + r.Status + CRLF)
}

func (r *StandardErrReply) Error() string {
	return r.Status
}

// 返回去掉错误码之后的信息
func (r *StandardErrReply) Value() interface{} {
	return StripErrorCode(r.Status)
}
