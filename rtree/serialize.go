package rtree

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/katalvlaran/irtree/geo"
)

// Persistent node type markers, written as the first byte of every
// serialized node (spec §6's "serialized node layout"). The value is
// redundant with Level == 0 but is carried explicitly so the on-disk
// layout is self-describing, matching the spec's naming
// (PersistentIndex/PersistentLeaf).
const (
	persistentLeaf  byte = 0
	persistentIndex byte = 1
)

// hasPayload/noPayload flag a leaf entry's optional application payload.
const (
	noPayload  byte = 0
	hasPayload byte = 1
)

// encodeNode serializes n into the page store's opaque byte form. The
// layout is total (every field recoverable) and stable (encode/decode is
// an exact round trip): type byte, level (varint), entry count (varint),
// per entry (mbr low/high floats, childID varint, payload flag, payload
// length+bytes), then the node's own MBR low/high floats.
func encodeNode(n *Node, dim int) ([]byte, error) {
	var buf bytes.Buffer

	typ := persistentIndex
	if n.IsLeaf() {
		typ = persistentLeaf
	}
	buf.WriteByte(typ)

	if err := writeVarint(&buf, int64(n.Level)); err != nil {
		return nil, err
	}
	if err := writeVarint(&buf, int64(len(n.Entries))); err != nil {
		return nil, err
	}

	for _, e := range n.Entries {
		if err := writeRegion(&buf, e.MBR, dim); err != nil {
			return nil, err
		}
		if err := writeVarint(&buf, e.ChildID); err != nil {
			return nil, err
		}
		if e.Payload == nil {
			buf.WriteByte(noPayload)
		} else {
			buf.WriteByte(hasPayload)
			if err := writeVarint(&buf, int64(len(e.Payload))); err != nil {
				return nil, err
			}
			buf.Write(e.Payload)
		}
	}

	if err := writeRegion(&buf, n.NodeMBR, dim); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// decodeNode is the inverse of encodeNode. The returned Node's ID and tree
// back-pointer are not set here; callers fill them in.
func decodeNode(page []byte, dim int) (*Node, error) {
	r := bytes.NewReader(page)

	typ, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("rtree: decode node type: %w", err)
	}
	if typ != persistentLeaf && typ != persistentIndex {
		return nil, fmt.Errorf("rtree: unknown node type byte %d: %w", typ, ErrCorrupt)
	}

	level, err := readVarint(r)
	if err != nil {
		return nil, fmt.Errorf("rtree: decode level: %w", err)
	}
	count, err := readVarint(r)
	if err != nil {
		return nil, fmt.Errorf("rtree: decode entry count: %w", err)
	}

	entries := make([]Entry, 0, count)
	for i := int64(0); i < count; i++ {
		mbr, err := readRegion(r, dim)
		if err != nil {
			return nil, fmt.Errorf("rtree: decode entry %d mbr: %w", i, err)
		}
		childID, err := readVarint(r)
		if err != nil {
			return nil, fmt.Errorf("rtree: decode entry %d childID: %w", i, err)
		}
		flag, err := r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("rtree: decode entry %d payload flag: %w", i, err)
		}
		var payload []byte
		if flag == hasPayload {
			n, err := readVarint(r)
			if err != nil {
				return nil, fmt.Errorf("rtree: decode entry %d payload length: %w", i, err)
			}
			payload = make([]byte, n)
			if _, err := readFull(r, payload); err != nil {
				return nil, fmt.Errorf("rtree: decode entry %d payload: %w", i, err)
			}
		}
		entries = append(entries, Entry{MBR: mbr, ChildID: childID, Payload: payload})
	}

	nodeMBR, err := readRegion(r, dim)
	if err != nil {
		return nil, fmt.Errorf("rtree: decode node mbr: %w", err)
	}

	wantLeaf := typ == persistentLeaf
	if wantLeaf != (level == 0) {
		return nil, fmt.Errorf("rtree: node type/level mismatch (type=%d level=%d): %w", typ, level, ErrCorrupt)
	}

	return &Node{Level: int(level), Entries: entries, NodeMBR: nodeMBR}, nil
}

func writeRegion(buf *bytes.Buffer, r geo.Region, dim int) error {
	if r.Dim() != dim {
		return fmt.Errorf("rtree: region dim %d != tree dim %d: %w", r.Dim(), dim, ErrShape)
	}
	for d := 0; d < dim; d++ {
		if err := binary.Write(buf, binary.BigEndian, math.Float64bits(r.Low[d])); err != nil {
			return err
		}
	}
	for d := 0; d < dim; d++ {
		if err := binary.Write(buf, binary.BigEndian, math.Float64bits(r.High[d])); err != nil {
			return err
		}
	}

	return nil
}

func readRegion(r *bytes.Reader, dim int) (geo.Region, error) {
	low := make(geo.Point, dim)
	high := make(geo.Point, dim)
	for d := 0; d < dim; d++ {
		var bits uint64
		if err := binary.Read(r, binary.BigEndian, &bits); err != nil {
			return geo.Region{}, err
		}
		low[d] = math.Float64frombits(bits)
	}
	for d := 0; d < dim; d++ {
		var bits uint64
		if err := binary.Read(r, binary.BigEndian, &bits); err != nil {
			return geo.Region{}, err
		}
		high[d] = math.Float64frombits(bits)
	}

	return geo.Region{Low: low, High: high}, nil
}

// writeVarint/readVarint encode signed integers with zigzag + LEB128, the
// same compact variable-length scheme encoding/binary.AppendVarint uses.
func writeVarint(buf *bytes.Buffer, v int64) error {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutVarint(tmp[:], v)
	_, err := buf.Write(tmp[:n])

	return err
}

func readVarint(r *bytes.Reader) (int64, error) {
	return binary.ReadVarint(r)
}

func readFull(r *bytes.Reader, buf []byte) (int, error) {
	return io.ReadFull(r, buf)
}
