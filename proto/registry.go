package proto

// NewColumn is the Column Codec Registry of spec §4.7: given a rendered
// type name it returns an empty, ready-to-decode column of the matching
// concrete codec. It is the dynamic counterpart to the column_test.go
// pattern of constructing typed columns directly (NewColNum[int32](...),
// etc.) for callers, such as block decoding, that only know the type as
// a string off the wire.
func NewColumn(t ColumnType) (ColInput, error) {
	info, err := ParseType(string(t))
	if err != nil {
		return nil, err
	}
	return newColumnFromInfo(info)
}

// NewSkippingColumn returns a ColumnReader for t that decodes and
// discards its values, used when a caller's Result does not name a
// column present in the block (spec §4.7
// create_skipping_column_reader).
func NewSkippingColumn(t ColumnType) (ColumnReader, error) {
	col, err := NewColumn(t)
	if err != nil {
		return nil, err
	}
	return &discardingColumn{col: col}, nil
}

type discardingColumn struct{ col ColInput }

func (d *discardingColumn) DecodeColumn(r *Reader, rows int) error {
	if err := d.col.DecodeColumn(r, rows); err != nil {
		return err
	}
	d.col.Reset()
	return nil
}

func newColumnFromInfo(t *TypeInfo) (ColInput, error) {
	switch t.Name {
	case string(ColumnTypeInt8):
		return NewColNum[int8](ColumnTypeInt8), nil
	case string(ColumnTypeInt16):
		return NewColNum[int16](ColumnTypeInt16), nil
	case string(ColumnTypeInt32):
		return NewColNum[int32](ColumnTypeInt32), nil
	case string(ColumnTypeInt64):
		return NewColNum[int64](ColumnTypeInt64), nil
	case string(ColumnTypeUInt8):
		return NewColNum[uint8](ColumnTypeUInt8), nil
	case string(ColumnTypeUInt16):
		return NewColNum[uint16](ColumnTypeUInt16), nil
	case string(ColumnTypeUInt32):
		return NewColNum[uint32](ColumnTypeUInt32), nil
	case string(ColumnTypeUInt64):
		return NewColNum[uint64](ColumnTypeUInt64), nil
	case string(ColumnTypeFloat32):
		return NewColNum[float32](ColumnTypeFloat32), nil
	case string(ColumnTypeFloat64):
		return NewColNum[float64](ColumnTypeFloat64), nil
	case string(ColumnTypeInt128):
		return NewColInt128(), nil
	case string(ColumnTypeUInt128):
		return NewColUInt128(), nil
	case string(ColumnTypeInt256):
		return NewColInt256(), nil
	case string(ColumnTypeUInt256):
		return NewColUInt256(), nil
	case string(ColumnTypeBool):
		return NewColBool(), nil
	case string(ColumnTypeString):
		return NewColStr(), nil
	case string(ColumnTypeFixedString):
		n, err := fixedStringWidth(t)
		if err != nil {
			return nil, err
		}
		return NewColFixedStr(n), nil
	case string(ColumnTypeDate):
		return NewColDate(), nil
	case string(ColumnTypeDate32):
		return NewColDate32(), nil
	case string(ColumnTypeDateTime):
		return NewColDateTime(dateTimeTZ(t)), nil
	case string(ColumnTypeDateTime64):
		return newColDateTime64(t)
	case string(ColumnTypeDecimal):
		return newColDecimal(t)
	case string(ColumnTypeDecimal32):
		return NewColDecimal32(decimalScale(t)), nil
	case string(ColumnTypeDecimal64):
		return NewColDecimal64(decimalScale(t)), nil
	case string(ColumnTypeDecimal128):
		return NewColDecimal128(decimalScale(t)), nil
	case string(ColumnTypeDecimal256):
		return NewColDecimal256(decimalScale(t)), nil
	case string(ColumnTypeEnum8):
		values, err := NewEnumValues(t.Args)
		if err != nil {
			return nil, err
		}
		return NewColEnum8(values), nil
	case string(ColumnTypeEnum16):
		values, err := NewEnumValues(t.Args)
		if err != nil {
			return nil, err
		}
		return NewColEnum16(values), nil
	case string(ColumnTypeUUID):
		return NewColUUID(), nil
	case string(ColumnTypeIPv4):
		return NewColIPv4(), nil
	case string(ColumnTypeIPv6):
		return NewColIPv6(), nil
	case string(ColumnTypeNothing):
		return NewColNothing(), nil
	case string(ColumnTypeNullable):
		inner, err := nestedType(t)
		if err != nil {
			return nil, err
		}
		innerCol, err := newColumnFromInfo(inner)
		if err != nil {
			return nil, err
		}
		return NewColNullable(innerCol), nil
	case string(ColumnTypeArray):
		inner, err := nestedType(t)
		if err != nil {
			return nil, err
		}
		innerCol, err := newColumnFromInfo(inner)
		if err != nil {
			return nil, err
		}
		return NewColArray(innerCol), nil
	case string(ColumnTypeTuple):
		return newColTuple(t)
	case string(ColumnTypeLowCardinality):
		inner, err := nestedType(t)
		if err != nil {
			return nil, err
		}
		if inner.Name != string(ColumnTypeString) {
			return nil, ErrTypeNotSupported("LowCardinality(" + inner.Name + ")")
		}
		return NewColLowCardinality[string](ColumnTypeString, func() ColumnOf[string] { return NewColStr() }), nil
	default:
		return nil, ErrTypeNotSupported(t.Name)
	}
}

func nestedType(t *TypeInfo) (*TypeInfo, error) {
	if len(t.Generics) != 1 {
		return nil, ErrTypeNotFullySpecified(t.Name + " expects exactly one type argument")
	}
	return t.Generics[0], nil
}

func fixedStringWidth(t *TypeInfo) (int, error) {
	if len(t.Args) != 1 || t.Args[0].Kind != ArgInt {
		return 0, ErrTypeNotFullySpecified("FixedString(N) requires a length")
	}
	return int(t.Args[0].Int), nil
}

func decimalScale(t *TypeInfo) int {
	if len(t.Args) == 1 && t.Args[0].Kind == ArgInt {
		return int(t.Args[0].Int)
	}
	return 0
}

func dateTimeTZ(t *TypeInfo) string {
	if len(t.Args) == 1 && t.Args[0].Kind == ArgString {
		return t.Args[0].Str
	}
	return ""
}

func newColDateTime64(t *TypeInfo) (ColInput, error) {
	if len(t.Args) == 0 || t.Args[0].Kind != ArgInt {
		return nil, ErrTypeNotFullySpecified("DateTime64(precision, tz?) requires a precision")
	}
	tz := ""
	if len(t.Args) > 1 && t.Args[1].Kind == ArgString {
		tz = t.Args[1].Str
	}
	return NewColDateTime64(int(t.Args[0].Int), tz), nil
}

func newColDecimal(t *TypeInfo) (ColInput, error) {
	if len(t.Args) < 2 || t.Args[0].Kind != ArgInt || t.Args[1].Kind != ArgInt {
		return nil, ErrTypeNotFullySpecified("Decimal(precision, scale) requires both arguments")
	}
	precision := int(t.Args[0].Int)
	scale := int(t.Args[1].Int)
	switch {
	case precision <= 9:
		return NewColDecimal32(scale), nil
	case precision <= 18:
		return NewColDecimal64(scale), nil
	case precision <= 38:
		return NewColDecimal128(scale), nil
	default:
		return NewColDecimal256(scale), nil
	}
}

func newColTuple(t *TypeInfo) (ColInput, error) {
	if len(t.Args) == 0 {
		return nil, ErrTypeNotFullySpecified("Tuple requires at least one element")
	}
	elems := make([]Column, 0, len(t.Args))
	names := make([]string, 0, len(t.Args))
	named := false
	for _, a := range t.Args {
		if a.Kind != ArgType && a.Kind != ArgNamed {
			return nil, ErrMalformedTypeName("Tuple element must be a type")
		}
		var elemType *TypeInfo
		if a.Kind == ArgType {
			elemType = a.Type
			names = append(names, "")
		} else {
			elemType = a.Type
			names = append(names, a.Name)
			named = true
		}
		col, err := newColumnFromInfo(elemType)
		if err != nil {
			return nil, err
		}
		elems = append(elems, col)
	}
	if named {
		return NewColNamedTuple(names, elems...), nil
	}
	return NewColTuple(elems...), nil
}
