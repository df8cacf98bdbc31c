package resp

// Reply 是 RESP 协议中的一条回复
type Reply interface {
	// ToBytes 序列化为线上格式
	ToBytes() []byte
	// Value 返回调用方可见的值：bool / string / nil / []interface{}
	Value() interface{}
}
