package msgbox

import (
	"time"

	"github.com/kasanryukin/nesiadmud/engine/auxiliary"
	"github.com/kasanryukin/nesiadmud/engine/common"
	"github.com/kasanryukin/nesiadmud/engine/entity"
	"github.com/kasanryukin/nesiadmud/engine/storageset"
	"github.com/pkg/errors"
)

// msgbox is a reliable message box for characters and accounts.
// Messages can always be received by the target, even when it is not loaded: the target is loaded, given the
// message and saved again, and receives the message with Recv next time it is loaded.

// Name is the auxiliary name of message boxes
const Name = "msgbox"

// ErrNoMsgbox is returned when sending to an entity kind without message boxes
var ErrNoMsgbox = errors.New("entity has no msgbox")

// Message is a message sent to an entity
type Message struct {
	From common.EntityID
	Text string
	Sent time.Time
}

// Msgbox holds the messages an entity has not received yet
type Msgbox struct {
	messages []Message
}

// Put appends the message to the box
func (mb *Msgbox) Put(msg Message) {
	mb.messages = append(mb.messages, msg)
}

// Len returns the number of waiting messages
func (mb *Msgbox) Len() int {
	return len(mb.messages)
}

// Recv takes all waiting messages out of the box, oldest first
func (mb *Msgbox) Recv() []Message {
	msgs := mb.messages
	mb.messages = nil
	return msgs
}

// Store implements auxiliary.Data
func (mb *Msgbox) Store() *storageset.Set {
	set := storageset.New()
	list := storageset.NewList()
	for _, msg := range mb.messages {
		item := storageset.New()
		item.StoreString("from", string(msg.From))
		item.StoreString("text", msg.Text)
		item.StoreLong("sent", msg.Sent.Unix())
		list.Add(item)
	}
	set.StoreList("messages", list)
	return set
}

// Copy implements auxiliary.Data
func (mb *Msgbox) Copy() auxiliary.Data {
	return &Msgbox{messages: append([]Message(nil), mb.messages...)}
}

// CopyTo implements auxiliary.Data
func (mb *Msgbox) CopyTo(to auxiliary.Data) {
	to.(*Msgbox).messages = append([]Message(nil), mb.messages...)
}

func read(set *storageset.Set) (auxiliary.Data, error) {
	mb := &Msgbox{}
	for item := range set.ReadList("messages").Sets() {
		mb.Put(Message{
			From: common.EntityID(item.ReadString("from")),
			Text: item.ReadString("text"),
			Sent: time.Unix(item.ReadLong("sent"), 0),
		})
	}
	return mb, nil
}

// Install installs the msgbox auxiliary for characters and accounts
func Install() error {
	return auxiliary.Install(auxiliary.Descriptor{
		Name:  Name,
		Kinds: auxiliary.Character | auxiliary.Account,
		New: func() auxiliary.Data {
			return &Msgbox{}
		},
		Read: read,
	})
}

// Get returns the msgbox of the entity, or nil
func Get(h auxiliary.Holder) *Msgbox {
	mb, _ := auxiliary.Default().Aux(h, Name).(*Msgbox)
	return mb
}

// pendingSend collects messages to a target whose load is in progress
type pendingSend struct {
	kind      auxiliary.Kind
	msgs      []Message
	callbacks []func(err error)
}

// loads in progress, by target ID
var pendingSends = map[common.EntityID]*pendingSend{}

// Send puts the message into the msgbox of the target entity, loading the target if it is not loaded.
//
// Messages sent to a target while it is being loaded are delivered together by a single load and save.
// callback is called in the world loop once the message is delivered, or failed to be delivered.
func Send(kind auxiliary.Kind, targetID common.EntityID, msg Message, callback func(err error)) {
	if msg.Sent.IsZero() {
		msg.Sent = time.Now()
	}
	if callback == nil {
		callback = func(err error) {}
	}

	if target := entity.GetEntity(targetID); target != nil {
		if target.Kind != kind {
			callback(errors.Wrapf(entity.ErrKindMismatch, "%s is not %s", target, kind))
			return
		}
		callback(deliver(target, msg))
		return
	}

	if p := pendingSends[targetID]; p != nil {
		if p.kind != kind {
			callback(errors.Wrapf(entity.ErrKindMismatch, "%s is being loaded as %s", targetID, p.kind))
			return
		}
		p.msgs = append(p.msgs, msg)
		p.callbacks = append(p.callbacks, callback)
		return
	}

	p := &pendingSend{kind: kind, msgs: []Message{msg}, callbacks: []func(error){callback}}
	pendingSends[targetID] = p
	entity.LoadOrGetEntity(kind, targetID, func(target *entity.Entity, wasLoaded bool, err error) {
		delete(pendingSends, targetID)
		if err != nil {
			p.done(err)
			return
		}
		for _, msg := range p.msgs {
			if err = deliver(target, msg); err != nil {
				break
			}
		}
		if !wasLoaded {
			if !entity.SaveOnDestroy() {
				target.Save()
			}
			target.Destroy()
		}
		p.done(err)
	})
}

func (p *pendingSend) done(err error) {
	for _, cb := range p.callbacks {
		cb(err)
	}
}

func deliver(target *entity.Entity, msg Message) error {
	mb := Get(target)
	if mb == nil {
		return errors.Wrapf(ErrNoMsgbox, "%s", target)
	}
	mb.Put(msg)
	return nil
}
