package assert

import (
	"fmt"
	"reflect"
	"runtime"
	"testing"

	"github.com/x-soft-ua/xAsyncRedis/interface/resp"
	"github.com/x-soft-ua/xAsyncRedis/lib/utils"
	"github.com/x-soft-ua/xAsyncRedis/protocol"
)

func printStack() string {
	_, file, no, ok := runtime.Caller(2)
	if ok {
		return fmt.Sprintf("at %s %d", file, no)
	}
	return ""
}

func AssertErrReply(t *testing.T, actual resp.Reply, expected string) {
	t.Helper()
	errReply, ok := actual.(protocol.ErrorReply)
	if !ok {
		t.Errorf("expected err reply, actually %q, %s", actual.ToBytes(), printStack())
		return
	}
	if errReply.Error() != expected {
		t.Errorf("expected %s, actually %q, %s", expected, actual.ToBytes(), printStack())
	}
}

func AssertIntReply(t *testing.T, actual resp.Reply, expected int) {
	t.Helper()
	intReply, ok := actual.(*protocol.IntReply)
	if !ok {
		t.Errorf("expected int reply, actually %q, %s", actual.ToBytes(), printStack())
		return
	}
	if intReply.Code != fmt.Sprint(expected) {
		t.Errorf("expected %d, actually %s, %s", expected, intReply.Code, printStack())
	}
}

func AssertBulkReply(t *testing.T, actual resp.Reply, expected string) {
	t.Helper()
	bulkReply, ok := actual.(*protocol.BulkReply)
	if !ok {
		t.Errorf("expected bulk reply, actually %q, %s", actual.ToBytes(), printStack())
		return
	}
	if !utils.BytesEquals(bulkReply.Arg, []byte(expected)) {
		t.Errorf("expected %s, actually %q, %s", expected, actual.ToBytes(), printStack())
	}
}

func AssertStatusReply(t *testing.T, actual resp.Reply, expected string) {
	t.Helper()
	statusReply, ok := actual.(*protocol.StatusReply)
	if !ok {
		t.Errorf("expected status reply, actually %q, %s", actual.ToBytes(), printStack())
		return
	}
	if statusReply.Status != expected {
		t.Errorf("expected %s, actually %q, %s", expected, actual.ToBytes(), printStack())
	}
}

// 断言为 $-1 或 *-1
func AssertNullReply(t *testing.T, actual resp.Reply) {
	t.Helper()
	switch actual.(type) {
	case *protocol.NullBulkReply, *protocol.NullMultiBulkReply:
	default:
		t.Errorf("expected null reply, actually %q, %s", actual.ToBytes(), printStack())
		return
	}
	if actual.Value() != nil {
		t.Errorf("expected nil value, actually %v, %s", actual.Value(), printStack())
	}
}

func AssertMultiBulkReply(t *testing.T, actual resp.Reply, expected []string) {
	t.Helper()
	values, ok := actual.Value().([]interface{})
	if !ok {
		t.Errorf("expected multi bulk reply, actually %q, %s", actual.ToBytes(), printStack())
		return
	}
	if len(values) != len(expected) {
		t.Errorf("expected %d elements, actually %d, %s", len(expected), len(values), printStack())
		return
	}
	for i, v := range values {
		if str, _ := v.(string); str != expected[i] {
			t.Errorf("expected %s, actually %v, %s", expected[i], v, printStack())
		}
	}
}

// 比较调用方可见的值
func AssertValue(t *testing.T, actual resp.Reply, expected interface{}) {
	t.Helper()
	if !reflect.DeepEqual(actual.Value(), expected) {
		t.Errorf("expected value %#v, actually %#v, %s", expected, actual.Value(), printStack())
	}
}
