package attrtable

// BaseResourceID is the first resource ID covered by the table (android:theme).
const BaseResourceID = 0x01010000

// Lookup returns the symbolic attribute name for a framework resource ID,
// and whether the ID falls inside the table's covered range at all. An ID
// inside the range but mapped to the unknownName sentinel still reports ok
// == true: the slot is valid, only the name is a placeholder.
func Lookup(resourceID uint32) (name string, ok bool) {
	if resourceID < BaseResourceID {
		return "", false
	}
	idx := resourceID - BaseResourceID
	if idx >= uint32(len(names)) {
		return "", false
	}
	return names[idx], true
}

// LookupIndex returns the symbolic attribute name for a zero-based table
// index, and whether the index falls inside the table's covered range.
func LookupIndex(idx uint32) (name string, ok bool) {
	if idx >= uint32(len(names)) {
		return "", false
	}
	return names[idx], true
}

// Len reports the number of entries in the table.
func Len() int {
	return len(names)
}
