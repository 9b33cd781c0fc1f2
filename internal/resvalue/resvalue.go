// Package resvalue renders an 8-byte typed Res_value record into the
// human-readable string an equivalent textual-XML attribute would carry.
package resvalue

import (
	"fmt"
	"math"
	"strconv"

	"github.com/jacoelho/axmldecode/axmlerr"
	"github.com/jacoelho/axmldecode/internal/cursor"
)

// DataType is the type tag of a Res_value record.
type DataType uint8

// The subset of android ResTable_map data types this decoder understands;
// anything else falls through to the generic "type<N>/<data>" rendering.
const (
	TypeNull       DataType = 0x00
	TypeString     DataType = 0x03
	TypeFloat      DataType = 0x04
	TypeDimension  DataType = 0x05
	TypeFraction   DataType = 0x06
	TypeIntDec     DataType = 0x10
	TypeIntHex     DataType = 0x11
	TypeIntBoolean DataType = 0x12
)

// Size is the fixed on-wire size of a Res_value record.
const Size = 8

// Value is a decoded Res_value record: a typed 32-bit payload.
type Value struct {
	Size     uint16
	Res0     uint8
	DataType DataType
	Data     uint32
}

// Read consumes a Value at the cursor's current position, advancing past
// it.
func Read(c *cursor.Cursor) (Value, error) {
	size, err := c.GetU16()
	if err != nil {
		return Value{}, err
	}
	res0, err := c.GetU8()
	if err != nil {
		return Value{}, err
	}
	dataType, err := c.GetU8()
	if err != nil {
		return Value{}, err
	}
	data, err := c.GetU32()
	if err != nil {
		return Value{}, err
	}
	return Value{Size: size, Res0: res0, DataType: DataType(dataType), Data: data}, nil
}

var dimensionUnits = [...]string{"px", "dip", "sp", "pt", "in", "mm"}

// complexMultipliers are the four radix multipliers (scaled by 1/2^8) a
// complex value's low two "radix" bits select between.
var complexMultipliers = [4]float64{
	1.0 / (1 << 8),
	1.0 / (1 << 15),
	1.0 / (1 << 23),
	1.0 / (1 << 31),
}

// complex decodes a COMPLEX-encoded 32-bit value into its floating-point
// magnitude, per §4.3: the top 24 bits are a signed mantissa, the next two
// bits select a radix-point position, and the bottom four bits (unused
// here) are reserved for a unit/type selector the caller interprets.
func complex(data uint32) float64 {
	mantissa := int32(data & 0xFFFFFF00)
	radix := (data >> 4) & 0x3
	return float64(mantissa) * complexMultipliers[radix]
}

// Format renders a Value as the equivalent textual-XML attribute value.
// lookupString resolves a string-pool index for TypeString values.
func Format(v Value, lookupString func(idx uint32) (string, error)) (string, error) {
	switch v.DataType {
	case TypeNull:
		return "null", nil
	case TypeString:
		s, err := lookupString(v.Data)
		if err != nil {
			return "", err
		}
		return s, nil
	case TypeFloat:
		f := math.Float32frombits(v.Data)
		return strconv.FormatFloat(float64(f), 'g', -1, 32), nil
	case TypeDimension:
		value := complex(v.Data)
		unit := dimensionUnits[v.Data&0xF%uint32(len(dimensionUnits))]
		return formatNumber(value) + unit, nil
	case TypeFraction:
		value := complex(v.Data) * 100
		suffix := "%"
		if v.Data&0xF == 1 {
			suffix = "%p"
		}
		return formatNumber(value) + suffix, nil
	case TypeIntDec:
		return strconv.FormatUint(uint64(v.Data), 10), nil
	case TypeIntHex:
		return "0x" + strconv.FormatUint(uint64(v.Data), 16), nil
	case TypeIntBoolean:
		if v.Data != 0 {
			return "true", nil
		}
		return "false", nil
	default:
		return fmt.Sprintf("type<%d>/%d", v.DataType, v.Data), nil
	}
}

// formatNumber renders a float with no locale-specific separators, trimming
// a trailing ".0" the way the dimension/fraction examples in §8 expect
// ("20dip", not "20.0dip").
func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ErrStyleRunsUnsupported is an Unsupported error describing styled-string
// spans. The string-pool decoder does not return it: for a non-zero style
// count it builds its own Unsupported error carrying the chunk context.
var ErrStyleRunsUnsupported = axmlerr.New(axmlerr.Unsupported, "styled-string spans are not supported")
