package board

import "Whiteboard/internal/state"

// Snapshot is a published copy of the board contents. Revisions increase
// strictly in the order the changes were made.
type Snapshot struct {
	Revision uint64          `json:"revision"`
	Shapes   state.ShapeList `json:"shapes"`
}

// Subscriber receives a Snapshot after every change to the board.
type Subscriber interface {
	Publish(Snapshot)
}

// SubscriberFunc adapts a function to a Subscriber.
type SubscriberFunc func(Snapshot)

func (f SubscriberFunc) Publish(s Snapshot) { f(s) }

type subscription struct {
	id  int
	sub Subscriber
}

// Subscribe registers s and returns a function that removes it again.
// Subscribers are called in registration order on the board's goroutine,
// each with its own copy of the shapes.
func (c *Controller) Subscribe(s Subscriber) (unsubscribe func()) {
	c.nextSub++
	id := c.nextSub
	c.subs = append(c.subs, subscription{id: id, sub: s})
	return func() {
		for i, e := range c.subs {
			if e.id == id {
				c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

func (c *Controller) publish() {
	rev := c.clock.Tick()
	for _, e := range c.subs {
		e.sub.Publish(Snapshot{Revision: rev, Shapes: c.shapes.Clone()})
	}
}

// Revision is the revision of the last published change.
func (c *Controller) Revision() uint64 {
	return c.clock.Now()
}
