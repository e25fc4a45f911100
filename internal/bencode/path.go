package bencode

import (
	"strings"
)

// Lookup walks dot separated keys ("info.piece length") through nested
// dictionaries. Keys that themselves contain a dot cannot be addressed.
func Lookup(dict *Dictionary, path string) (Value, bool) {
	var cur Value = dict
	for _, part := range strings.Split(path, ".") {
		d, ok := cur.(*Dictionary)
		if !ok || d == nil {
			return nil, false
		}
		cur, ok = d.Get(part)
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func GetString(dict *Dictionary, path string) (string, bool) {
	v, _ := Lookup(dict, path)
	b, ok := v.(ByteString)
	if !ok {
		return "", false
	}
	return string(b), true
}

func GetInt(dict *Dictionary, path string) (int64, bool) {
	v, _ := Lookup(dict, path)
	n, ok := v.(Integer)
	if !ok {
		return 0, false
	}
	return int64(n), true
}

func GetDict(dict *Dictionary, path string) (*Dictionary, bool) {
	v, _ := Lookup(dict, path)
	d, ok := v.(*Dictionary)
	return d, ok
}

func GetList(dict *Dictionary, path string) (List, bool) {
	v, _ := Lookup(dict, path)
	l, ok := v.(List)
	return l, ok
}
