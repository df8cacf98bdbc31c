package protocol

import "github.com/x-soft-ua/xAsyncRedis/lib/utils"

// MakeCommand 把一行命令编码为请求帧：bulk string 组成的数组
//
//	SET foo "bar baz"  =>  *3\r\n$3\r\nSET\r\n$3\r\nfoo\r\n$7\r\nbar baz\r\n
func MakeCommand(line string) *MultiBulkReply {
	return MakeMultiBulkReply(utils.ToCmdLine(utils.SplitCommandLine(line)...))
}
