package value

import "github.com/kristofer/loxgo/internal/table"

// ObjKind tags the variant of a heap object (spec §3's "object kind
// tag"), mirroring original_source's ObjType enum.
type ObjKind int

const (
	ObjStringKind ObjKind = iota
	ObjFunctionKind
	ObjNativeKind
	ObjUpvalueKind
	ObjClosureKind
	ObjClassKind
	ObjInstanceKind
	ObjBoundMethodKind
)

func (k ObjKind) String() string {
	switch k {
	case ObjStringKind:
		return "string"
	case ObjFunctionKind:
		return "function"
	case ObjNativeKind:
		return "native function"
	case ObjUpvalueKind:
		return "upvalue"
	case ObjClosureKind:
		return "function"
	case ObjClassKind:
		return "class"
	case ObjInstanceKind:
		return "instance"
	case ObjBoundMethodKind:
		return "bound method"
	default:
		return "object"
	}
}

// Header is the common header every heap object embeds: a GC mark bit
// and the intrusive pointer threading every live object into the VM's
// object list (spec §3's "Heap object" common header). Obj.next
// appears with that exact name in one captured iteration of the
// original C header without a trailing semicolon; spec §9 resolves
// that as a transcription artifact and keeps the field.
type Header struct {
	Marked bool
	Next   Obj
}

// Obj is any heap-allocated value: strings, functions, natives,
// upvalues, closures, classes, instances, and bound methods.
type Obj interface {
	Value
	Kind() ObjKind
	GCHeader() *Header
}

func (*ObjString) isValue()      {}
func (*ObjFunction) isValue()    {}
func (*ObjNative) isValue()      {}
func (*ObjUpvalue) isValue()     {}
func (*ObjClosure) isValue()     {}
func (*ObjClass) isValue()       {}
func (*ObjInstance) isValue()    {}
func (*ObjBoundMethod) isValue() {}

// ObjString is an immutable, interned byte sequence plus its
// precomputed FNV-1a hash (spec §3).
type ObjString struct {
	Header
	Chars    string
	hashCode uint32
}

func (s *ObjString) Kind() ObjKind     { return ObjStringKind }
func (s *ObjString) GCHeader() *Header { return &s.Header }

// Hash and SameKey implement table.Key: strings are looked up by hash
// and compared by pointer identity, safe because of interning.
func (s *ObjString) Hash() uint32 { return s.hashCode }
func (s *ObjString) SameKey(o table.Key) bool {
	other, ok := o.(*ObjString)
	return ok && other == s
}

// fnv1a computes the 32-bit FNV-1a hash of s, hand-rolled (rather than
// delegating to hash/fnv) so that the exact algorithm spec §3 names is
// what the interner and the invariants in §8 actually exercise.
func fnv1a(s string) uint32 {
	const offsetBasis uint32 = 2166136261
	const prime uint32 = 16777619
	hash := offsetBasis
	for i := 0; i < len(s); i++ {
		hash ^= uint32(s[i])
		hash *= prime
	}
	return hash
}

// ObjFunction is a compiled function body: its arity, how many
// upvalues its closures capture, its bytecode chunk, and an optional
// name (nil name means top-level script, per spec §3).
type ObjFunction struct {
	Header
	Arity        int
	UpvalueCount int
	Chunk        *Chunk
	Name         *ObjString
}

func (f *ObjFunction) Kind() ObjKind     { return ObjFunctionKind }
func (f *ObjFunction) GCHeader() *Header { return &f.Header }

// NativeFn is a host-provided callable: given the call's arguments, it
// returns a Value or an error (spec §4.2 native functions).
type NativeFn func(args []Value) (Value, error)

// ObjNative wraps a host callable so it can live as a loxgo Value.
type ObjNative struct {
	Header
	Name string
	Fn   NativeFn
}

func (n *ObjNative) Kind() ObjKind     { return ObjNativeKind }
func (n *ObjNative) GCHeader() *Header { return &n.Header }

// ObjUpvalue is either open (Location points into the VM's value
// stack) or closed (Location points at Closed, an owned slot). Spec
// §3: "Open upvalues are threaded in a VM-owned list sorted by
// descending stack address."
type ObjUpvalue struct {
	Header
	Location *Value // points into the stack while open, or at Closed once closed
	Closed   Value
	NextOpen *ObjUpvalue // VM-owned open-upvalue list link (distinct from Header.Next)
}

func (u *ObjUpvalue) Kind() ObjKind     { return ObjUpvalueKind }
func (u *ObjUpvalue) GCHeader() *Header { return &u.Header }

// IsOpen reports whether the upvalue still points into the stack.
func (u *ObjUpvalue) IsOpen() bool { return u.Location != &u.Closed }

// ObjClosure pairs a Function with the upvalues its closure captured.
type ObjClosure struct {
	Header
	Function *ObjFunction
	Upvalues []*ObjUpvalue
}

func (c *ObjClosure) Kind() ObjKind     { return ObjClosureKind }
func (c *ObjClosure) GCHeader() *Header { return &c.Header }

// ObjClass is a class: its name and a table mapping method name to
// Closure. loxgo classes have no inheritance (spec's grammar defines
// no superclass clause).
type ObjClass struct {
	Header
	Name    *ObjString
	Methods *table.Table[*ObjClosure]
}

func (c *ObjClass) Kind() ObjKind     { return ObjClassKind }
func (c *ObjClass) GCHeader() *Header { return &c.Header }

// ObjInstance is an instance of a class: the class pointer plus a
// table of field name to Value.
type ObjInstance struct {
	Header
	Class  *ObjClass
	Fields *table.Table[Value]
}

func (i *ObjInstance) Kind() ObjKind     { return ObjInstanceKind }
func (i *ObjInstance) GCHeader() *Header { return &i.Header }

// ObjBoundMethod pairs a receiver value with the Closure the property
// lookup resolved, produced when a method is read off an instance
// without immediately being called.
type ObjBoundMethod struct {
	Header
	Receiver Value
	Method   *ObjClosure
}

func (b *ObjBoundMethod) Kind() ObjKind     { return ObjBoundMethodKind }
func (b *ObjBoundMethod) GCHeader() *Header { return &b.Header }
