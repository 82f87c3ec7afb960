/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package game

// Event names, shared by both directions of the wire protocol.
const (
	EventSetName          = "setName"
	EventBuzz             = "buzz"
	EventSetResetTime     = "setResetTime"
	EventSetPoints        = "setPoints"
	EventToggleShowPoints = "toggleShowPoints"
	EventResetRound       = "resetRound"

	EventPlayerList        = "playerList"
	EventUpdateScoreboard  = "updateScoreboard"
	EventWinner            = "winner"
	EventLoser             = "loser"
	EventResetTimeChanged  = "resetTimeChanged"
	EventShowPointsUpdated = "showPointsUpdated"
	EventPointsUpdated     = "pointsUpdated"
	EventReset             = "reset"
)

// Message is one outbound frame.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Subscriber receives messages for one connection. Send must not block;
// returning false marks the subscriber as too slow, and it is closed and
// dropped.
type Subscriber interface {
	Send(msg Message) bool
	Close()
}

type subscription struct {
	role Role
	sub  Subscriber
}

// Dispatcher fans messages out to every connected audience, in connection
// order, and knows the role of each one.
type Dispatcher struct {
	order []string
	subs  map[string]subscription
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		subs: make(map[string]subscription),
	}
}

func (d *Dispatcher) Subscribe(id string, role Role, sub Subscriber) {
	if _, ok := d.subs[id]; !ok {
		d.order = append(d.order, id)
	}
	d.subs[id] = subscription{role: role, sub: sub}
}

func (d *Dispatcher) Unsubscribe(id string) bool {
	if _, ok := d.subs[id]; !ok {
		return false
	}

	delete(d.subs, id)

	dst := d.order[:0]
	for _, sid := range d.order {
		if sid != id {
			dst = append(dst, sid)
		}
	}
	d.order = dst

	return true
}

func (d *Dispatcher) Role(id string) (Role, bool) {
	s, ok := d.subs[id]
	return s.role, ok
}

func (d *Dispatcher) Len() int {
	return len(d.order)
}

// Send delivers msg to a single connection.
func (d *Dispatcher) Send(id string, msg Message) error {
	s, ok := d.subs[id]
	if !ok {
		return ErrUnknownSubscriber
	}

	if !s.sub.Send(msg) {
		d.evict(id)
	}

	return nil
}

// Broadcast delivers the same msg to everyone.
func (d *Dispatcher) Broadcast(msg Message) {
	d.BroadcastEach(msg.Type, func(Role) any {
		return msg.Payload
	})
}

// BroadcastEach computes the payload separately for every subscriber from
// its role, at the moment of sending.
func (d *Dispatcher) BroadcastEach(msgType string, project func(role Role) any) {
	var slow []string

	for _, id := range d.order {
		s := d.subs[id]
		if !s.sub.Send(Message{Type: msgType, Payload: project(s.role)}) {
			slow = append(slow, id)
		}
	}

	for _, id := range slow {
		d.evict(id)
	}
}

// CloseAll closes and forgets every subscriber.
func (d *Dispatcher) CloseAll() {
	for _, id := range append([]string(nil), d.order...) {
		d.evict(id)
	}
}

func (d *Dispatcher) evict(id string) {
	s, ok := d.subs[id]
	if !ok {
		return
	}

	d.Unsubscribe(id)
	s.sub.Close()
}
