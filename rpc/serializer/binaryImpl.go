package serializer

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"reflect"
	"sort"
)

// NewBinarySerializer creates a new serializer using a compact positional
// binary format optimized for speed and size. The encoding carries no field
// names and no type information: values must be decoded in the exact order
// and with the exact types they were encoded with.
func NewBinarySerializer() IRPCSerializer {
	return &binarySerializerImpl{}
}

// binarySerializerImpl implements IRPCSerializer using a custom binary format
type binarySerializerImpl struct{}

// maxBytesLen bounds the length prefix accepted for strings, byte slices and
// collection counts during decoding, so a corrupt prefix cannot trigger a
// huge allocation before the read fails.
const maxBytesLen = 256 << 20 // 256 MiB

// --------------------------------------------------------------------------
// Wire format
// --------------------------------------------------------------------------

// All multi-byte values are little-endian:
//
//	bool                1 byte (0 or 1)
//	int8/uint8          1 byte
//	int16/uint16        2 bytes
//	int32/uint32        4 bytes
//	int64/uint64        8 bytes
//	int/uint            8 bytes (always 64 bit on the wire)
//	float32             4 bytes (IEEE 754 bits)
//	float64             8 bytes (IEEE 754 bits)
//	string, []byte      uint32 length + raw bytes
//	slice, array        uint32 element count + elements in order
//	map                 uint32 pair count + key/value pairs, sorted by the
//	                    encoded key bytes so output is deterministic
//	struct              exported fields in declaration order, no names
//	pointer             1 flag byte (0 = nil) + pointee if present
//
// Interfaces, channels, functions and complex numbers are not encodable.

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (b binarySerializerImpl) GetName() string {
	return "binary"
}

func (b binarySerializerImpl) NewEncoder(w io.Writer) IEncoder {
	return &binaryEncoder{w: w}
}

func (b binarySerializerImpl) NewDecoder(r io.Reader) IDecoder {
	return &binaryDecoder{r: r}
}

// --------------------------------------------------------------------------
// Encoder
// --------------------------------------------------------------------------

type binaryEncoder struct {
	w       io.Writer
	scratch [8]byte
}

func (e *binaryEncoder) Encode(v interface{}) error {
	if v == nil {
		return fmt.Errorf("binary: cannot encode nil interface value")
	}
	return e.encodeValue(reflect.ValueOf(v))
}

func (e *binaryEncoder) write(b []byte) error {
	_, err := e.w.Write(b)
	return err
}

func (e *binaryEncoder) writeUint32(n uint32) error {
	binary.LittleEndian.PutUint32(e.scratch[:4], n)
	return e.write(e.scratch[:4])
}

func (e *binaryEncoder) writeUint64(n uint64) error {
	binary.LittleEndian.PutUint64(e.scratch[:8], n)
	return e.write(e.scratch[:8])
}

func (e *binaryEncoder) writeBytes(b []byte) error {
	if err := e.writeUint32(uint32(len(b))); err != nil {
		return err
	}
	return e.write(b)
}

func (e *binaryEncoder) encodeValue(v reflect.Value) error {
	switch v.Kind() {
	case reflect.Bool:
		e.scratch[0] = 0
		if v.Bool() {
			e.scratch[0] = 1
		}
		return e.write(e.scratch[:1])

	case reflect.Int8:
		e.scratch[0] = byte(v.Int())
		return e.write(e.scratch[:1])

	case reflect.Int16:
		binary.LittleEndian.PutUint16(e.scratch[:2], uint16(v.Int()))
		return e.write(e.scratch[:2])

	case reflect.Int32:
		return e.writeUint32(uint32(v.Int()))

	case reflect.Int, reflect.Int64:
		return e.writeUint64(uint64(v.Int()))

	case reflect.Uint8:
		e.scratch[0] = byte(v.Uint())
		return e.write(e.scratch[:1])

	case reflect.Uint16:
		binary.LittleEndian.PutUint16(e.scratch[:2], uint16(v.Uint()))
		return e.write(e.scratch[:2])

	case reflect.Uint32:
		return e.writeUint32(uint32(v.Uint()))

	case reflect.Uint, reflect.Uint64:
		return e.writeUint64(v.Uint())

	case reflect.Float32:
		return e.writeUint32(math.Float32bits(float32(v.Float())))

	case reflect.Float64:
		return e.writeUint64(math.Float64bits(v.Float()))

	case reflect.String:
		str := v.String()
		if err := e.writeUint32(uint32(len(str))); err != nil {
			return err
		}
		return e.write([]byte(str))

	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return e.writeBytes(byteSlice(v))
		}
		if err := e.writeUint32(uint32(v.Len())); err != nil {
			return err
		}
		for i := 0; i < v.Len(); i++ {
			if err := e.encodeValue(v.Index(i)); err != nil {
				return err
			}
		}
		return nil

	case reflect.Array:
		if err := e.writeUint32(uint32(v.Len())); err != nil {
			return err
		}
		for i := 0; i < v.Len(); i++ {
			if err := e.encodeValue(v.Index(i)); err != nil {
				return err
			}
		}
		return nil

	case reflect.Map:
		return e.encodeMap(v)

	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			if !t.Field(i).IsExported() {
				continue
			}
			if err := e.encodeValue(v.Field(i)); err != nil {
				return err
			}
		}
		return nil

	case reflect.Ptr:
		if v.IsNil() {
			e.scratch[0] = 0
			return e.write(e.scratch[:1])
		}
		e.scratch[0] = 1
		if err := e.write(e.scratch[:1]); err != nil {
			return err
		}
		return e.encodeValue(v.Elem())

	default:
		return fmt.Errorf("binary: unsupported kind %s", v.Kind())
	}
}

// encodeMap writes a map as a pair count followed by key/value pairs sorted
// by the encoded key bytes, so equal maps always produce equal output.
func (e *binaryEncoder) encodeMap(v reflect.Value) error {
	type pair struct {
		key []byte
		val reflect.Value
	}

	pairs := make([]pair, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		var buf bytes.Buffer
		sub := binaryEncoder{w: &buf}
		if err := sub.encodeValue(iter.Key()); err != nil {
			return err
		}
		pairs = append(pairs, pair{key: buf.Bytes(), val: iter.Value()})
	}
	sort.Slice(pairs, func(i, j int) bool {
		return bytes.Compare(pairs[i].key, pairs[j].key) < 0
	})

	if err := e.writeUint32(uint32(len(pairs))); err != nil {
		return err
	}
	for _, p := range pairs {
		if err := e.write(p.key); err != nil {
			return err
		}
		if err := e.encodeValue(p.val); err != nil {
			return err
		}
	}
	return nil
}

// byteSlice converts a slice with uint8 element kind (including named byte
// types) to a plain []byte without copying.
func byteSlice(v reflect.Value) []byte {
	if v.Type() == byteSliceType {
		return v.Bytes()
	}
	return v.Convert(byteSliceType).Interface().([]byte)
}

var byteSliceType = reflect.TypeOf([]byte(nil))

// --------------------------------------------------------------------------
// Decoder
// --------------------------------------------------------------------------

type binaryDecoder struct {
	r       io.Reader
	scratch [8]byte
}

func (d *binaryDecoder) Decode(v interface{}) error {
	if v == nil {
		return fmt.Errorf("binary: decode target must be a non-nil pointer")
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("binary: decode target must be a non-nil pointer, got %T", v)
	}
	return d.decodeValue(rv.Elem())
}

func (d *binaryDecoder) read(n int) ([]byte, error) {
	if _, err := io.ReadFull(d.r, d.scratch[:n]); err != nil {
		return nil, err
	}
	return d.scratch[:n], nil
}

func (d *binaryDecoder) readUint32() (uint32, error) {
	b, err := d.read(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (d *binaryDecoder) readUint64() (uint64, error) {
	b, err := d.read(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// readLen reads and validates a length prefix.
func (d *binaryDecoder) readLen() (int, error) {
	n, err := d.readUint32()
	if err != nil {
		return 0, err
	}
	if n > maxBytesLen {
		return 0, fmt.Errorf("binary: length prefix %d exceeds limit", n)
	}
	return int(n), nil
}

func (d *binaryDecoder) decodeValue(v reflect.Value) error {
	switch v.Kind() {
	case reflect.Bool:
		b, err := d.read(1)
		if err != nil {
			return err
		}
		v.SetBool(b[0] != 0)
		return nil

	case reflect.Int8:
		b, err := d.read(1)
		if err != nil {
			return err
		}
		v.SetInt(int64(int8(b[0])))
		return nil

	case reflect.Int16:
		b, err := d.read(2)
		if err != nil {
			return err
		}
		v.SetInt(int64(int16(binary.LittleEndian.Uint16(b))))
		return nil

	case reflect.Int32:
		n, err := d.readUint32()
		if err != nil {
			return err
		}
		v.SetInt(int64(int32(n)))
		return nil

	case reflect.Int, reflect.Int64:
		n, err := d.readUint64()
		if err != nil {
			return err
		}
		v.SetInt(int64(n))
		return nil

	case reflect.Uint8:
		b, err := d.read(1)
		if err != nil {
			return err
		}
		v.SetUint(uint64(b[0]))
		return nil

	case reflect.Uint16:
		b, err := d.read(2)
		if err != nil {
			return err
		}
		v.SetUint(uint64(binary.LittleEndian.Uint16(b)))
		return nil

	case reflect.Uint32:
		n, err := d.readUint32()
		if err != nil {
			return err
		}
		v.SetUint(uint64(n))
		return nil

	case reflect.Uint, reflect.Uint64:
		n, err := d.readUint64()
		if err != nil {
			return err
		}
		v.SetUint(n)
		return nil

	case reflect.Float32:
		n, err := d.readUint32()
		if err != nil {
			return err
		}
		v.SetFloat(float64(math.Float32frombits(n)))
		return nil

	case reflect.Float64:
		n, err := d.readUint64()
		if err != nil {
			return err
		}
		v.SetFloat(math.Float64frombits(n))
		return nil

	case reflect.String:
		n, err := d.readLen()
		if err != nil {
			return err
		}
		buf := make([]byte, n)
		if _, err := io.ReadFull(d.r, buf); err != nil {
			return err
		}
		v.SetString(string(buf))
		return nil

	case reflect.Slice:
		n, err := d.readLen()
		if err != nil {
			return err
		}
		if n == 0 {
			// zero-length and nil collapse to nil on the wire
			v.Set(reflect.Zero(v.Type()))
			return nil
		}

		if v.Type().Elem().Kind() == reflect.Uint8 {
			buf := make([]byte, n)
			if _, err := io.ReadFull(d.r, buf); err != nil {
				return err
			}
			if v.Type() == byteSliceType {
				v.SetBytes(buf)
			} else {
				v.Set(reflect.ValueOf(buf).Convert(v.Type()))
			}
			return nil
		}

		s := reflect.MakeSlice(v.Type(), n, n)
		for i := 0; i < n; i++ {
			if err := d.decodeValue(s.Index(i)); err != nil {
				return err
			}
		}
		v.Set(s)
		return nil

	case reflect.Array:
		n, err := d.readLen()
		if err != nil {
			return err
		}
		if n != v.Len() {
			return fmt.Errorf("binary: array length mismatch: wire has %d, target holds %d", n, v.Len())
		}
		for i := 0; i < n; i++ {
			if err := d.decodeValue(v.Index(i)); err != nil {
				return err
			}
		}
		return nil

	case reflect.Map:
		n, err := d.readLen()
		if err != nil {
			return err
		}
		if n == 0 {
			v.Set(reflect.Zero(v.Type()))
			return nil
		}
		m := reflect.MakeMapWithSize(v.Type(), n)
		for i := 0; i < n; i++ {
			key := reflect.New(v.Type().Key()).Elem()
			if err := d.decodeValue(key); err != nil {
				return err
			}
			val := reflect.New(v.Type().Elem()).Elem()
			if err := d.decodeValue(val); err != nil {
				return err
			}
			m.SetMapIndex(key, val)
		}
		v.Set(m)
		return nil

	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			if !t.Field(i).IsExported() {
				continue
			}
			if err := d.decodeValue(v.Field(i)); err != nil {
				return err
			}
		}
		return nil

	case reflect.Ptr:
		b, err := d.read(1)
		if err != nil {
			return err
		}
		if b[0] == 0 {
			v.Set(reflect.Zero(v.Type()))
			return nil
		}
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		return d.decodeValue(v.Elem())

	default:
		return fmt.Errorf("binary: unsupported kind %s", v.Kind())
	}
}
