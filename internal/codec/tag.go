package codec

// Tag selects the encoding rule for one appended value.
type Tag uint8

const (
	TagInvalid Tag = iota
	TagUint8
	TagUint16
	TagUint32
	TagUint64
	TagInt8
	TagInt16
	TagInt32
	TagInt64
	TagString
	TagUnicode
	TagPython
	TagPyDict
	TagPyTuple
	TagPyList
	TagBlob
)

var tagLabels = [...]string{
	TagInvalid: "INVALID",
	TagUint8:   "UINT8",
	TagUint16:  "UINT16",
	TagUint32:  "UINT32",
	TagUint64:  "UINT64",
	TagInt8:    "INT8",
	TagInt16:   "INT16",
	TagInt32:   "INT32",
	TagInt64:   "INT64",
	TagString:  "STRING",
	TagUnicode: "UNICODE",
	TagPython:  "PYTHON",
	TagPyDict:  "PY_DICT",
	TagPyTuple: "PY_TUPLE",
	TagPyList:  "PY_LIST",
	TagBlob:    "BLOB",
}

var labelTags = func() map[string]Tag {
	m := make(map[string]Tag, len(tagLabels)-1)
	for i, label := range tagLabels {
		if Tag(i) == TagInvalid {
			continue
		}
		m[label] = Tag(i)
	}
	return m
}()

// Tags lists every valid tag in declaration order.
func Tags() []Tag {
	out := make([]Tag, 0, len(tagLabels)-1)
	for i := TagUint8; i <= TagBlob; i++ {
		out = append(out, i)
	}
	return out
}

// ParseTag maps a text label to its Tag. Labels are case sensitive.
func ParseTag(label string) (Tag, error) {
	tag, ok := labelTags[label]
	if !ok {
		return TagInvalid, &UnsupportedTypeError{Label: label}
	}
	return tag, nil
}

func (t Tag) String() string {
	if int(t) < len(tagLabels) {
		return tagLabels[t]
	}
	return "INVALID"
}

func (t Tag) Valid() bool {
	return t >= TagUint8 && t <= TagBlob
}

// IsInteger reports whether t is one of the fixed-width integer tags.
func (t Tag) IsInteger() bool {
	return t >= TagUint8 && t <= TagInt64
}

// IsComposite reports whether t is one of the pickled composite aliases.
func (t Tag) IsComposite() bool {
	switch t {
	case TagPython, TagPyDict, TagPyTuple, TagPyList:
		return true
	default:
		return false
	}
}

// width returns the byte width and signedness of an integer tag.
func (t Tag) width() (int, bool) {
	switch t {
	case TagUint8:
		return 1, false
	case TagUint16:
		return 2, false
	case TagUint32:
		return 4, false
	case TagUint64:
		return 8, false
	case TagInt8:
		return 1, true
	case TagInt16:
		return 2, true
	case TagInt32:
		return 4, true
	case TagInt64:
		return 8, true
	default:
		return 0, false
	}
}
