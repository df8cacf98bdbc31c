package utils

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

// SplitCommandLine 按空格切分一行命令，双引号内的空格不切分
//
// 规则与 CSV 一致（分隔符为空格，引号为 "）：
//
//	SET foo "bar with space"  =>  [SET foo bar with space]
//	SET foo "a ""b"""         =>  [SET foo a "b"]
//
// 引号不成对时尽量解析，不返回错误，交给服务端报协议错误。
// 连续的空格会产生空参数。
func SplitCommandLine(line string) []string {
	reader := csv.NewReader(strings.NewReader(line))
	reader.Comma = ' '
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	tokens := make([]string, 0, 4)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return tokens
		}
		if err != nil {
			// 解析失败时退化为按空白切分
			return strings.Fields(line)
		}
		tokens = append(tokens, record...)
	}
}

// 将 string 类型的命令转为 [][]byte 类型（即 CmdLine)
func ToCmdLine(cmd ...string) [][]byte {
	args := make([][]byte, len(cmd))
	for i, s := range cmd {
		// 空参数也必须是非 nil，否则会被编码成 $-1
		args[i] = append([]byte{}, s...)
	}
	return args
}

// 检查两个 []byte 类型的变量是否相同
func BytesEquals(a []byte, b []byte) bool {
	if (a == nil && b != nil) || (a != nil && b == nil) {
		return false
	}
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
