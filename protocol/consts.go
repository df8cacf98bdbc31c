package protocol

// 回复类型前缀
const (
	StatusPrefix    = '+'
	ErrorPrefix     = '-'
	IntegerPrefix   = ':'
	BulkPrefix      = '$'
	MultiBulkPrefix = '*'
)

// 处理 PING 命令的响应
type PongReply struct{}

var PongBytes = []byte("+PONG\r\n")

func (r *PongReply) ToBytes() []byte {
	return PongBytes
}

func (r *PongReply) Value() interface{} {
	return "PONG"
}

// 执行成功
type OkReply struct{}

var OkBytes = []byte("+OK\r\n")

func (r *OkReply) ToBytes() []byte {
	return OkBytes
}

func (r *OkReply) Value() interface{} {
	return true
}

var theOkReply = new(OkReply)

func MakeOkReply() *OkReply {
	return theOkReply
}

// 访问一个不存在的键时返回此响应
type NullBulkReply struct{}

var nullBulkBytes = []byte("$-1\r\n")

func (r *NullBulkReply) ToBytes() []byte {
	return nullBulkBytes
}

func (r *NullBulkReply) Value() interface{} {
	return nil
}

func MakeNullBulkReply() *NullBulkReply {
	return &NullBulkReply{}
}

// 空数组：*0
var emptyMultiBulkBytes = []byte("*0\r\n")

type EmptyMultiBulkReply struct{}

func (r *EmptyMultiBulkReply) ToBytes() []byte {
	return emptyMultiBulkBytes
}

func (r *EmptyMultiBulkReply) Value() interface{} {
	return []interface{}{}
}

func MakeEmptyMultiBulkReply() *EmptyMultiBulkReply {
	return &EmptyMultiBulkReply{}
}

// 空数组（nil）：*-1，例如 BLPOP 超时
var nullMultiBulkBytes = []byte("*-1\r\n")

type NullMultiBulkReply struct{}

func (r *NullMultiBulkReply) ToBytes() []byte {
	return nullMultiBulkBytes
}

func (r *NullMultiBulkReply) Value() interface{} {
	return nil
}

func MakeNullMultiBulkReply() *NullMultiBulkReply {
	return &NullMultiBulkReply{}
}
