package value

import "github.com/kristofer/loxgo/internal/table"

// Heap owns every object allocation loxgo makes: the intrusive list of
// live objects (spec §3's "intrusive next pointer threading all live
// heap objects"), the string intern table, and the byte-accounting used
// to decide when a collection is due (spec §4.3).
//
// Heap itself knows nothing about mark-sweep; Collect is a hook the
// internal/gc package installs at startup, keeping this package free of
// a dependency on the collector (which necessarily depends on Value).
type Heap struct {
	objects Obj
	Strings *table.Table[*ObjString]

	BytesAllocated int64
	NextGC         int64
	StressGC       bool
	LogGC          bool

	// Collect is invoked whenever an allocation pushes BytesAllocated
	// past NextGC (or always, if StressGC is set). nil until GC wiring
	// is installed (e.g. during early compiler-only use).
	Collect func()
}

const heapGrowFactor = 2
const initialNextGC = 1 << 20

// NewHeap returns an empty Heap ready to allocate into.
func NewHeap() *Heap {
	return &Heap{
		Strings: table.New[*ObjString](),
		NextGC:  initialNextGC,
	}
}

// Objects returns the head of the intrusive live-object list, for the
// GC sweep phase.
func (h *Heap) Objects() Obj { return h.objects }

// SetObjects replaces the live-object list head; used by the sweep
// phase to install the post-sweep list.
func (h *Heap) SetObjects(o Obj) { h.objects = o }

// GrowAfterCollect applies the heap-grow-factor policy from spec §4.3:
// after a collection, the next one is due once bytesAllocated doubles.
func (h *Heap) GrowAfterCollect() {
	h.NextGC = h.BytesAllocated * heapGrowFactor
	if h.NextGC < initialNextGC {
		h.NextGC = initialNextGC
	}
}

// track threads a freshly allocated object into the live list and
// accounts its size, running a collection first if the budget calls
// for one. Every allocator in this file funnels through here.
func (h *Heap) track(o Obj, size int64) {
	h.BytesAllocated += size
	if h.Collect != nil && (h.StressGC || h.BytesAllocated > h.NextGC) {
		h.Collect()
	}
	hdr := o.GCHeader()
	hdr.Next = h.objects
	h.objects = o
}

const (
	sizeString      = 32
	sizeFunction    = 96
	sizeNative      = 48
	sizeUpvalue     = 40
	sizeClosure     = 64
	sizeClass       = 64
	sizeInstance    = 64
	sizeBoundMethod = 32
)

// InternString returns the unique ObjString for chars, allocating one
// only if an equal string isn't already interned (spec §3: "A string
// exists at most once in the interner for equal byte content").
func (h *Heap) InternString(chars string) *ObjString {
	hash := fnv1a(chars)
	if key, ok := h.Strings.FindMatch(hash, func(k table.Key) bool {
		s := k.(*ObjString)
		return s.hashCode == hash && s.Chars == chars
	}); ok {
		return key.(*ObjString)
	}

	s := &ObjString{Chars: chars, hashCode: hash}
	h.track(s, sizeString+int64(len(chars)))
	h.Strings.Set(s, s)
	return s
}

// NewFunction allocates an (initially nameless, empty) function; the
// compiler fills in Arity/UpvalueCount/Chunk/Name as it finishes
// compiling the body.
func (h *Heap) NewFunction() *ObjFunction {
	fn := &ObjFunction{Chunk: NewChunk()}
	h.track(fn, sizeFunction)
	return fn
}

// NewNative allocates a host-provided callable.
func (h *Heap) NewNative(name string, fn NativeFn) *ObjNative {
	n := &ObjNative{Name: name, Fn: fn}
	h.track(n, sizeNative)
	return n
}

// NewUpvalue allocates an open upvalue pointing at slot.
func (h *Heap) NewUpvalue(slot *Value) *ObjUpvalue {
	u := &ObjUpvalue{Location: slot}
	h.track(u, sizeUpvalue)
	return u
}

// NewClosure allocates a closure over fn with upvalueCount empty
// upvalue slots, to be filled in by OP_CLOSURE.
func (h *Heap) NewClosure(fn *ObjFunction) *ObjClosure {
	c := &ObjClosure{Function: fn, Upvalues: make([]*ObjUpvalue, fn.UpvalueCount)}
	h.track(c, sizeClosure)
	return c
}

// NewClass allocates an empty class named name.
func (h *Heap) NewClass(name *ObjString) *ObjClass {
	c := &ObjClass{Name: name, Methods: table.New[*ObjClosure]()}
	h.track(c, sizeClass)
	return c
}

// NewInstance allocates a fresh instance of class.
func (h *Heap) NewInstance(class *ObjClass) *ObjInstance {
	i := &ObjInstance{Class: class, Fields: table.New[Value]()}
	h.track(i, sizeInstance)
	return i
}

// NewBoundMethod allocates a bound method closing over receiver.
func (h *Heap) NewBoundMethod(receiver Value, method *ObjClosure) *ObjBoundMethod {
	b := &ObjBoundMethod{Receiver: receiver, Method: method}
	h.track(b, sizeBoundMethod)
	return b
}
