package parser

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/x-soft-ua/xAsyncRedis/interface/resp"
	"github.com/x-soft-ua/xAsyncRedis/lib/logger"
	"github.com/x-soft-ua/xAsyncRedis/protocol"
)

// 与 redis 默认的 proto-max-bulk-len 一致
const maxBulkLen = 512 << 20

// ParseReply 从 reader 中读取并解析恰好一条回复（数组会递归读取其元素）
//
// 返回的 error 只表示读取失败或帧格式错误；服务端返回的错误回复
// 和未知类型的回复作为 reply 返回（实现 protocol.ErrorReply）。
func ParseReply(reader *bufio.Reader) (resp.Reply, error) {
	line, err := readLine(reader)
	if err != nil {
		return nil, err
	}
	if len(line) == 0 {
		return protocol.MakeUnknownReply(""), nil
	}
	switch line[0] {
	case protocol.StatusPrefix:
		return protocol.MakeStatusReply(string(line[1:])), nil
	case protocol.ErrorPrefix:
		return protocol.MakeErrReply(string(line[1:])), nil
	case protocol.IntegerPrefix:
		return &protocol.IntReply{Code: string(line[1:])}, nil
	case protocol.BulkPrefix:
		return parseBulkString(line, reader)
	case protocol.MultiBulkPrefix:
		return parseArray(line, reader)
	default:
		return protocol.MakeUnknownReply(string(line)), nil
	}
}

// reads data from []byte and return the first reply
func ParseOne(data []byte) (resp.Reply, error) {
	return ParseReply(bufio.NewReader(bytes.NewReader(data)))
}

// 解析 data 中的全部回复
func ParseBytes(data []byte) ([]resp.Reply, error) {
	reader := bufio.NewReader(bytes.NewReader(data))
	var results []resp.Reply
	for {
		if _, err := reader.Peek(1); errors.Is(err, io.EOF) {
			return results, nil
		}
		reply, err := ParseReply(reader)
		if err != nil {
			return nil, err
		}
		results = append(results, reply)
	}
}

// Scan 返回 data 开头第一条完整回复的字节数，数据还不完整时返回 0。
// 只检查帧边界不分配内存，帧头格式错误时返回 ErrProtocol。
func Scan(data []byte) (int, error) {
	return scanAt(data, 0)
}

func scanAt(data []byte, pos int) (int, error) {
	line, next, ok := scanLine(data, pos)
	if !ok {
		return 0, nil
	}
	if len(line) == 0 {
		return next, nil
	}
	switch line[0] {
	case protocol.BulkPrefix:
		strLen, err := strconv.ParseInt(string(line[1:]), 10, 64)
		if err != nil || strLen > maxBulkLen {
			return 0, fmt.Errorf("%w: illegal bulk string header: %s", protocol.ErrProtocol, line)
		}
		if strLen < 0 {
			return next, nil
		}
		end := next + int(strLen) + 2
		if end > len(data) {
			return 0, nil
		}
		return end, nil
	case protocol.MultiBulkPrefix:
		n, err := strconv.ParseInt(string(line[1:]), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: illegal array header: %s", protocol.ErrProtocol, line)
		}
		for i := int64(0); i < n; i++ {
			if next, err = scanAt(data, next); next == 0 || err != nil {
				return 0, err
			}
		}
		return next, nil
	}
	return next, nil
}

// 不含 CRLF 的一行以及下一行的起始位置
func scanLine(data []byte, pos int) ([]byte, int, bool) {
	i := bytes.IndexByte(data[pos:], '\n')
	if i < 0 {
		return nil, 0, false
	}
	line := bytes.TrimSuffix(data[pos:pos+i], []byte{'\r'})
	return line, pos + i + 1, true
}

// 读取一行并去掉行尾的 CRLF
func readLine(reader *bufio.Reader) ([]byte, error) {
	line, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("%w: %w", protocol.ErrReadReply, err)
	}
	line = bytes.TrimSuffix(line, []byte{'\n'})
	return bytes.TrimSuffix(line, []byte{'\r'}), nil
}

// $3\r\nSET\r\n
func parseBulkString(header []byte, reader *bufio.Reader) (resp.Reply, error) {
	strLen, err := strconv.ParseInt(string(header[1:]), 10, 64)
	if err != nil || strLen > maxBulkLen {
		return nil, fmt.Errorf("%w: illegal bulk string header: %s", protocol.ErrProtocol, header)
	}
	// 空字符串回复，后面没有数据
	if strLen < 0 {
		return protocol.MakeNullBulkReply(), nil
	}
	body := make([]byte, strLen+2)
	if _, err = io.ReadFull(reader, body); err != nil {
		return nil, fmt.Errorf("%w: %w", protocol.ErrReadBulk, err)
	}
	return protocol.MakeBulkReply(body[:strLen]), nil
}

// *2\r\n$3\r\nfoo\r\n$3\r\nbar\r\n
func parseArray(header []byte, reader *bufio.Reader) (resp.Reply, error) {
	n, err := strconv.ParseInt(string(header[1:]), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: illegal array header: %s", protocol.ErrProtocol, header)
	}
	if n < 0 {
		return protocol.MakeNullMultiBulkReply(), nil
	} else if n == 0 {
		return protocol.MakeEmptyMultiBulkReply(), nil
	}
	replies := make([]resp.Reply, 0, min(n, 1024))
	for i := int64(0); i < n; i++ {
		reply, err := ParseReply(reader)
		if err != nil {
			return nil, err
		}
		// 元素本身是错误回复时跳过
		if protocol.IsErrorReply(reply) {
			logger.Debugf("skip nested error reply: %s", reply.ToBytes())
			continue
		}
		replies = append(replies, reply)
	}
	return protocol.MakeMultiRawReply(replies), nil
}
