package serializer

import (
	"encoding/json"
	"io"
)

// NewJSONSerializer creates a new serializer using json encoding
func NewJSONSerializer() IRPCSerializer {
	return &jsonSerializerImpl{}
}

// jsonSerializerImpl implements the IRPCSerializer interface using json encoding
type jsonSerializerImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (j jsonSerializerImpl) GetName() string {
	return "json"
}

func (j jsonSerializerImpl) NewEncoder(w io.Writer) IEncoder {
	return json.NewEncoder(w)
}

func (j jsonSerializerImpl) NewDecoder(r io.Reader) IDecoder {
	return json.NewDecoder(r)
}
