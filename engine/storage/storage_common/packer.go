package storagecommon

import (
	"bytes"

	"github.com/kasanryukin/nesiadmud/engine/storageset"
	"github.com/vmihailenco/msgpack"
)

// SetPacker packs and unpacks storage sets for backends storing opaque bytes
type SetPacker interface {
	PackSet(s *storageset.Set, buf []byte) ([]byte, error)
	UnpackSet(data []byte) (*storageset.Set, error)
}

// MessagePackSetPacker packs storage sets in MessagePack format
type MessagePackSetPacker struct{}

// PackSet packs the set to bytes in MessagePack format
func (mp MessagePackSetPacker) PackSet(s *storageset.Set, buf []byte) ([]byte, error) {
	buffer := bytes.NewBuffer(buf)

	encoder := msgpack.NewEncoder(buffer)
	err := encoder.Encode(s.ToMap())
	if err != nil {
		return buf, err
	}
	buf = buffer.Bytes()
	return buf, nil
}

// UnpackSet unpacks bytes in MessagePack format to a new set
func (mp MessagePackSetPacker) UnpackSet(data []byte) (*storageset.Set, error) {
	var doc map[string]interface{}
	if err := msgpack.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	s := storageset.New()
	s.AssignMap(doc)
	return s, nil
}

// TextSetPacker packs storage sets in the storage set file format
type TextSetPacker struct{}

// PackSet packs the set to bytes in storage set file format
func (tp TextSetPacker) PackSet(s *storageset.Set, buf []byte) ([]byte, error) {
	buffer := bytes.NewBuffer(buf)
	if err := storageset.Encode(buffer, s); err != nil {
		return buf, err
	}
	return buffer.Bytes(), nil
}

// UnpackSet parses bytes in storage set file format
func (tp TextSetPacker) UnpackSet(data []byte) (*storageset.Set, error) {
	return storageset.Unmarshal(data)
}
