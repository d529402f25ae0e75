package ir

import "fmt"

// Element is the element role of an intrusive doubly-linked list. It is
// implemented by handle types: the link fields live inside the arena
// node, the handle only routes access through the Context. The zero
// handle means "none".
type Element[E, C comparable] interface {
	comparable
	Next(ctx *Context) E
	Prev(ctx *Context) E
	SetNext(ctx *Context, next E)
	SetPrev(ctx *Context, prev E)
	Parent(ctx *Context) C
	SetParent(ctx *Context, parent C)
}

// Container is the container role: it holds the head and tail handles of
// the chain of elements linked into it.
type Container[E, C comparable] interface {
	comparable
	Head(ctx *Context) E
	Tail(ctx *Context) E
	SetHead(ctx *Context, head E)
	SetTail(ctx *Context, tail E)
}

func mustUnlinked[E Element[E, C], C comparable](ctx *Context, e E) {
	var none C
	if e.Parent(ctx) != none {
		panic(fmt.Sprintf("list: element %v is already linked", e))
	}
}

// InsertAtFront links e as the first element of c. Panics if e is
// already linked somewhere.
func InsertAtFront[E Element[E, C], C Container[E, C]](ctx *Context, c C, e E) {
	mustUnlinked[E, C](ctx, e)
	var none E
	head := c.Head(ctx)
	e.SetNext(ctx, head)
	e.SetPrev(ctx, none)
	e.SetParent(ctx, c)
	if head == none {
		c.SetTail(ctx, e)
	} else {
		head.SetPrev(ctx, e)
	}
	c.SetHead(ctx, e)
}

// InsertAtBack links e as the last element of c. Panics if e is already
// linked somewhere.
func InsertAtBack[E Element[E, C], C Container[E, C]](ctx *Context, c C, e E) {
	mustUnlinked[E, C](ctx, e)
	var none E
	tail := c.Tail(ctx)
	e.SetPrev(ctx, tail)
	e.SetNext(ctx, none)
	e.SetParent(ctx, c)
	if tail == none {
		c.SetHead(ctx, e)
	} else {
		tail.SetNext(ctx, e)
	}
	c.SetTail(ctx, e)
}

// InsertAfter links e immediately after at, which must itself be linked.
// Panics if e is already linked somewhere.
func InsertAfter[E Element[E, C], C Container[E, C]](ctx *Context, e, at E) {
	mustUnlinked[E, C](ctx, e)
	var noC C
	c := at.Parent(ctx)
	if c == noC {
		panic(fmt.Sprintf("list: insertion point %v is not linked", at))
	}
	var none E
	next := at.Next(ctx)
	e.SetPrev(ctx, at)
	e.SetNext(ctx, next)
	e.SetParent(ctx, c)
	at.SetNext(ctx, e)
	if next == none {
		c.SetTail(ctx, e)
	} else {
		next.SetPrev(ctx, e)
	}
}

// InsertBefore links e immediately before at, which must itself be
// linked. Panics if e is already linked somewhere.
func InsertBefore[E Element[E, C], C Container[E, C]](ctx *Context, e, at E) {
	mustUnlinked[E, C](ctx, e)
	var noC C
	c := at.Parent(ctx)
	if c == noC {
		panic(fmt.Sprintf("list: insertion point %v is not linked", at))
	}
	var none E
	prev := at.Prev(ctx)
	e.SetNext(ctx, at)
	e.SetPrev(ctx, prev)
	e.SetParent(ctx, c)
	at.SetPrev(ctx, e)
	if prev == none {
		c.SetHead(ctx, e)
	} else {
		prev.SetNext(ctx, e)
	}
}

// Remove splices e out of its container, reconnecting the neighbours and
// clearing e's own links. It does not deallocate e. Panics if e is not
// linked.
func Remove[E Element[E, C], C Container[E, C]](ctx *Context, e E) {
	var noC C
	c := e.Parent(ctx)
	if c == noC {
		panic(fmt.Sprintf("list: remove of unlinked element %v", e))
	}
	var none E
	prev := e.Prev(ctx)
	next := e.Next(ctx)
	if prev == none {
		c.SetHead(ctx, next)
	} else {
		prev.SetNext(ctx, next)
	}
	if next == none {
		c.SetTail(ctx, prev)
	} else {
		next.SetPrev(ctx, prev)
	}
	e.SetNext(ctx, none)
	e.SetPrev(ctx, none)
	e.SetParent(ctx, noC)
}

// Iter walks a list from both ends. The two cursors move in lockstep:
// they are both set or both cleared, and the step that makes them meet
// clears both, so any interleaving of Next and NextBack calls visits
// every element exactly once. One cursor set while the other is clear
// means the list was corrupted mid-iteration and is a panic.
type Iter[E Element[E, C], C Container[E, C]] struct {
	ctx      *Context
	next     E
	nextBack E
}

// NewIter returns an iterator over the elements of c. The iterator
// re-dereferences the Context on every step, so it observes structural
// mutations made after its creation.
func NewIter[E Element[E, C], C Container[E, C]](ctx *Context, c C) Iter[E, C] {
	return Iter[E, C]{
		ctx:      ctx,
		next:     c.Head(ctx),
		nextBack: c.Tail(ctx),
	}
}

// Next yields the next element from the front, or ok=false when the
// iteration is exhausted.
func (it *Iter[E, C]) Next() (E, bool) {
	var none E
	if it.next == none {
		if it.nextBack != none {
			panic("list: iterator cursors desynchronized")
		}
		return none, false
	}
	if it.nextBack == none {
		panic("list: iterator cursors desynchronized")
	}
	curr := it.next
	if curr == it.nextBack {
		it.next = none
		it.nextBack = none
	} else {
		it.next = curr.Next(it.ctx)
	}
	return curr, true
}

// NextBack yields the next element from the back, or ok=false when the
// iteration is exhausted.
func (it *Iter[E, C]) NextBack() (E, bool) {
	var none E
	if it.nextBack == none {
		if it.next != none {
			panic("list: iterator cursors desynchronized")
		}
		return none, false
	}
	if it.next == none {
		panic("list: iterator cursors desynchronized")
	}
	curr := it.nextBack
	if curr == it.next {
		it.next = none
		it.nextBack = none
	} else {
		it.nextBack = curr.Prev(it.ctx)
	}
	return curr, true
}
