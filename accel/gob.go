package accel

import (
	"bytes"
	"encoding/gob"
)

// The serialized form of a BVHAccel. Concrete Object types must be
// registered with gob.Register.
type gobAccel struct {
	Options Options
	Nodes   []BvhNode
	Objects []Object
}

// GobEncode implements gob.GobEncoder.
func (a *BVHAccel) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(gobAccel{
		Options: a.opts,
		Nodes:   a.nodes,
		Objects: a.objects,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder. The decoded tree is validated with
// Restore.
func (a *BVHAccel) GobDecode(data []byte) error {
	var ga gobAccel
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&ga); err != nil {
		return err
	}

	restored, err := Restore(ga.Nodes, ga.Objects, ga.Options)
	if err != nil {
		return err
	}
	*a = *restored
	return nil
}
