package server

import (
	"encoding/json"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

// Codec 下行消息编码：JSON 文本帧或 msgpack 二进制帧
type Codec int

const (
	CodecJSON Codec = iota
	CodecMsgpack
)

// ParseCodec ?codec=msgpack 选择二进制编码，其余一律 JSON
func ParseCodec(s string) Codec {
	if strings.EqualFold(s, "msgpack") {
		return CodecMsgpack
	}
	return CodecJSON
}

func (c Codec) String() string {
	if c == CodecMsgpack {
		return "msgpack"
	}
	return "json"
}

// Encode 编码一条消息
func (c Codec) Encode(v any) ([]byte, error) {
	if c == CodecMsgpack {
		return msgpack.Marshal(v)
	}
	return json.Marshal(v)
}

// MessageType 对应的 WebSocket 帧类型
func (c Codec) MessageType() int {
	if c == CodecMsgpack {
		return websocket.BinaryMessage
	}
	return websocket.TextMessage
}

// encodedCache 同一 Tick 的快照每种编码只序列化一次
type encodedCache struct {
	v   any
	out map[Codec][]byte
}

func newEncodedCache(v any) *encodedCache {
	return &encodedCache{v: v, out: make(map[Codec][]byte, 2)}
}

func (e *encodedCache) get(c Codec) ([]byte, error) {
	if b, ok := e.out[c]; ok {
		return b, nil
	}
	b, err := c.Encode(e.v)
	if err != nil {
		return nil, err
	}
	e.out[c] = b
	return b, nil
}
