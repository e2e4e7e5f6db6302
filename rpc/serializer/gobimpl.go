package serializer

import (
	"encoding/gob"
	"io"
)

// NewGOBSerializer creates a new serializer using Go's binary gob format
func NewGOBSerializer() IRPCSerializer {
	return &gobSerializerImpl{}
}

// gobSerializerImpl implements the IRPCSerializer interface using gob encoding
type gobSerializerImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (g gobSerializerImpl) GetName() string {
	return "gob"
}

func (g gobSerializerImpl) NewEncoder(w io.Writer) IEncoder {
	return gob.NewEncoder(w)
}

func (g gobSerializerImpl) NewDecoder(r io.Reader) IDecoder {
	return gob.NewDecoder(r)
}
