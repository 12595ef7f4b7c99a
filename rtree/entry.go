package rtree

import "github.com/katalvlaran/irtree/geo"

// Entry is a member of a Node: an MBR, the identifier of the child it
// points to (for leaf entries, the document id), and — for leaf entries
// only — an opaque payload carrying any extra application data.
type Entry struct {
	MBR     geo.Region
	ChildID int64
	Payload []byte
}

// IsLeafEntry reports whether e carries a payload, i.e. is a data entry
// rather than a pointer to a child index node.
func (e Entry) IsLeafEntry() bool {
	return e.Payload != nil
}

// clone returns an independent copy of e.
func (e Entry) clone() Entry {
	var payload []byte
	if e.Payload != nil {
		payload = make([]byte, len(e.Payload))
		copy(payload, e.Payload)
	}

	return Entry{MBR: e.MBR.Clone(), ChildID: e.ChildID, Payload: payload}
}
