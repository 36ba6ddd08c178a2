package nea

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// fieldKeys lists the keys a field may arrive under, highest priority first.
// Daemon generations renamed several members; dotted keys address nested objects.
type fieldKeys []string

func keys(k ...string) fieldKeys {
	return k
}

// Field candidates whose names changed between daemon generations.
var (
	keysProvisioned = keys("provisioned", "isProvisioned")

	keysPID                 = keys("pid", "provisioned.pid")
	keysAuthWindowRemaining = keys("authenticationWindowRemaining", "provisioned.authenticationWindowRemaining")
	keysCommandsQueued      = keys("commandsQueued", "provisioned.commandsQueued")

	keysCapCDF              = keys("enabledCDF", "cdf")
	keysCapRoamingAuthSetup = keys("enabledRoamingAuthSetup", "ra")
	keysCapSigning          = keys("enabledSigning", "sign")
	keysCapSymmetricKeys    = keys("enabledSymmetricKeys", "symmetric")
	keysCapTOTP             = keys("enabledTOTP", "totp")
)

// object is a JSON object whose members are decoded on demand.
type object map[string]json.RawMessage

func parseObject(raw json.RawMessage) (object, bool) {
	if isNull(raw) {
		return nil, false
	}
	var o object
	if err := json.Unmarshal(raw, &o); err != nil {
		return nil, false
	}
	return o, true
}

// get resolves a possibly dotted key. Null members count as absent.
func (o object) get(key string) (json.RawMessage, bool) {
	cur := o
	parts := strings.Split(key, ".")
	for i, p := range parts {
		v, ok := cur[p]
		if !ok || isNull(v) {
			return nil, false
		}
		if i == len(parts)-1 {
			return v, true
		}
		next, ok := parseObject(v)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return nil, false
}

// present returns the first candidate that exists, whatever its value.
func (o object) present(k fieldKeys) (json.RawMessage, bool) {
	for _, key := range k {
		if v, ok := o.get(key); ok {
			return v, true
		}
	}
	return nil, false
}

// truthy evaluates candidates like a chain of logical ORs: a candidate that is
// present but false, zero or empty falls through to the next one.
func (o object) truthy(k fieldKeys) bool {
	for _, key := range k {
		if v, ok := o.get(key); ok && isTruthy(v) {
			return true
		}
	}
	return false
}

func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

func isTruthy(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	if len(t) == 0 {
		return false
	}
	switch t[0] {
	case 'n', 'f':
		return false
	case 't', '{', '[':
		return true
	case '"':
		var s string
		return json.Unmarshal(t, &s) == nil && s != ""
	default:
		f, err := strconv.ParseFloat(string(t), 64)
		return err == nil && f != 0
	}
}

func asString(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	t := bytes.TrimSpace(raw)
	if len(t) == 0 {
		return "", false
	}
	return string(t), true
}

func asFloat(raw json.RawMessage) (float64, bool) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func asInt(raw json.RawMessage) (int, bool) {
	f, ok := asFloat(raw)
	if !ok {
		return 0, false
	}
	return int(f), true
}

func asStrings(raw json.RawMessage) ([]string, bool) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := asString(item)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

func asInts(raw json.RawMessage) ([]int, bool) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	out := make([]int, 0, len(items))
	for _, item := range items {
		n, ok := asInt(item)
		if !ok {
			return nil, false
		}
		out = append(out, n)
	}
	return out, true
}

// reader extracts typed fields from a payload object and remembers the first
// required field that was missing or had the wrong type.
type reader struct {
	obj     object
	prefix  string
	missing *string
}

func newReader(raw json.RawMessage, prefix string) *reader {
	obj, _ := parseObject(raw)
	var missing string
	return &reader{obj: obj, prefix: prefix, missing: &missing}
}

func (r *reader) child(obj object, name string) *reader {
	return &reader{obj: obj, prefix: r.qualify(name), missing: r.missing}
}

func (r *reader) qualify(key string) string {
	if r.prefix == "" {
		return key
	}
	return r.prefix + "." + key
}

func (r *reader) miss(k fieldKeys) {
	if *r.missing == "" {
		*r.missing = r.qualify(k[0])
	}
}

// missingField returns the first required field that could not be read.
func (r *reader) missingField() string {
	return *r.missing
}

func (r *reader) str(k fieldKeys) string {
	s, _ := r.optString(k)
	return s
}

func (r *reader) optString(k fieldKeys) (string, bool) {
	v, ok := r.obj.present(k)
	if !ok {
		return "", false
	}
	return asString(v)
}

func (r *reader) requireString(k fieldKeys) string {
	s, ok := r.optString(k)
	if !ok {
		r.miss(k)
	}
	return s
}

func (r *reader) requireHex(k fieldKeys) HexString {
	return HexString(r.requireString(k))
}

func (r *reader) number(k fieldKeys) float64 {
	v, ok := r.obj.present(k)
	if !ok {
		return 0
	}
	f, _ := asFloat(v)
	return f
}

func (r *reader) integer(k fieldKeys) int {
	v, ok := r.obj.present(k)
	if !ok {
		return 0
	}
	n, _ := asInt(v)
	return n
}

func (r *reader) requireInt(k fieldKeys) int {
	v, ok := r.obj.present(k)
	if !ok {
		r.miss(k)
		return 0
	}
	n, ok := asInt(v)
	if !ok {
		r.miss(k)
	}
	return n
}

func (r *reader) flag(k fieldKeys) bool {
	return r.obj.truthy(k)
}

func (r *reader) strs(k fieldKeys) []string {
	v, ok := r.obj.present(k)
	if !ok {
		return nil
	}
	s, _ := asStrings(v)
	return s
}

func (r *reader) requireStrs(k fieldKeys) []string {
	v, ok := r.obj.present(k)
	if !ok {
		r.miss(k)
		return nil
	}
	s, ok := asStrings(v)
	if !ok {
		r.miss(k)
	}
	return s
}

func (r *reader) ints(k fieldKeys) []int {
	v, ok := r.obj.present(k)
	if !ok {
		return nil
	}
	n, _ := asInts(v)
	return n
}

func (r *reader) raw(k fieldKeys) json.RawMessage {
	v, _ := r.obj.present(k)
	return v
}

// nested returns a reader over the object stored under key, if there is one.
func (r *reader) nested(key string) (*reader, bool) {
	v, ok := r.obj.get(key)
	if !ok {
		return nil, false
	}
	obj, ok := parseObject(v)
	if !ok {
		return nil, false
	}
	return r.child(obj, key), true
}

func (r *reader) requireNested(key string) *reader {
	n, ok := r.nested(key)
	if !ok {
		r.miss(keys(key))
		return r.child(nil, key)
	}
	return n
}

// requireList returns one reader per element of the array stored under key.
func (r *reader) requireList(key string) []*reader {
	v, ok := r.obj.get(key)
	if !ok {
		r.miss(keys(key))
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(v, &items); err != nil {
		r.miss(keys(key))
		return nil
	}
	out := make([]*reader, 0, len(items))
	for i, item := range items {
		obj, ok := parseObject(item)
		name := key + "[" + strconv.Itoa(i) + "]"
		if !ok {
			r.miss(keys(name))
			return nil
		}
		out = append(out, r.child(obj, name))
	}
	return out
}
