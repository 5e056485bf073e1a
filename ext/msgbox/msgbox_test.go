package msgbox

import (
	"testing"
	"time"

	"github.com/kasanryukin/nesiadmud/engine/auxiliary"
	"github.com/kasanryukin/nesiadmud/engine/common"
	"github.com/kasanryukin/nesiadmud/engine/entity"
	"github.com/kasanryukin/nesiadmud/engine/post"
	"github.com/kasanryukin/nesiadmud/engine/storage"
	"github.com/kasanryukin/nesiadmud/engine/storage/backend/sqlite"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) {
	auxiliary.Teardown()
	auxiliary.Initialize()
	require.NoError(t, Install())

	es, err := entitystoragesqlite.OpenSQLite(entitystoragesqlite.MemoryDSN)
	require.NoError(t, err)
	storage.InitializeWithEngine(es)
	t.Cleanup(func() {
		entity.DestroyAllEntities()
		storage.Shutdown()
		post.Tick()
		auxiliary.Teardown()
	})
}

// waitFor ticks the world loop until done returns true
func waitFor(t *testing.T, done func() bool) {
	deadline := time.Now().Add(5 * time.Second)
	for !done() {
		require.True(t, time.Now().Before(deadline), "timeout")
		time.Sleep(time.Millisecond)
		post.Tick()
	}
}

func TestSendToLoaded(t *testing.T) {
	setup(t)
	from := common.GenEntityID()
	c := entity.CreateEntity(auxiliary.Character)

	var sendErr error
	called := false
	Send(auxiliary.Character, c.ID, Message{From: from, Text: "hello"}, func(err error) {
		sendErr, called = err, true
	})
	assert.True(t, called)
	assert.NoError(t, sendErr)

	mb := Get(c)
	require.Equal(t, 1, mb.Len())
	msgs := mb.Recv()
	assert.Equal(t, from, msgs[0].From)
	assert.Equal(t, "hello", msgs[0].Text)
	assert.False(t, msgs[0].Sent.IsZero())
	assert.Equal(t, 0, mb.Len())

	room := entity.CreateEntity(auxiliary.Room)
	Send(auxiliary.Room, room.ID, Message{Text: "hi"}, func(err error) {
		sendErr = err
	})
	assert.Equal(t, ErrNoMsgbox, errors.Cause(sendErr))
}

func TestSendToSaved(t *testing.T) {
	setup(t)
	acc := entity.CreateEntity(auxiliary.Account)
	id := acc.ID
	acc.Destroy()

	done := false
	var sendErr error
	Send(auxiliary.Account, id, Message{Text: "you have mail", Sent: time.Unix(100, 0)}, func(err error) {
		sendErr, done = err, true
	})
	waitFor(t, func() bool { return done })
	require.NoError(t, sendErr)
	assert.Nil(t, entity.GetEntity(id), "loaded target is destroyed after delivery")

	var loaded *entity.Entity
	entity.LoadEntity(auxiliary.Account, id, func(e *entity.Entity, err error) {
		require.NoError(t, err)
		loaded = e
	})
	waitFor(t, func() bool { return loaded != nil })
	msgs := Get(loaded).Recv()
	require.Len(t, msgs, 1)
	assert.Equal(t, "you have mail", msgs[0].Text)
	assert.Equal(t, int64(100), msgs[0].Sent.Unix())

	done = false
	Send(auxiliary.Account, common.GenEntityID(), Message{Text: "lost"}, func(err error) {
		sendErr, done = err, true
	})
	waitFor(t, func() bool { return done })
	assert.Equal(t, entity.ErrEntityNotFound, errors.Cause(sendErr))
}

func TestSendTwiceToSaved(t *testing.T) {
	setup(t)
	acc := entity.CreateEntity(auxiliary.Account)
	id := acc.ID
	acc.Destroy()

	var errs []error
	for _, text := range []string{"first", "second"} {
		Send(auxiliary.Account, id, Message{Text: text}, func(err error) {
			errs = append(errs, err)
		})
	}
	waitFor(t, func() bool { return len(errs) == 2 })
	assert.NoError(t, errs[0])
	assert.NoError(t, errs[1])
	assert.Nil(t, entity.GetEntity(id))

	var loaded *entity.Entity
	entity.LoadEntity(auxiliary.Account, id, func(e *entity.Entity, err error) {
		require.NoError(t, err)
		loaded = e
	})
	waitFor(t, func() bool { return loaded != nil })
	msgs := Get(loaded).Recv()
	require.Len(t, msgs, 2)
	assert.Equal(t, "first", msgs[0].Text)
	assert.Equal(t, "second", msgs[1].Text)
}

func TestSendWhileTargetLogsIn(t *testing.T) {
	setup(t)
	acc := entity.CreateEntity(auxiliary.Account)
	id := acc.ID
	acc.Destroy()

	done := false
	Send(auxiliary.Account, id, Message{Text: "welcome"}, func(err error) {
		require.NoError(t, err)
		done = true
	})
	// the target is loaded by someone else before the send's load completes
	online := entity.RestoreEntity(auxiliary.Account, id, nil)
	waitFor(t, func() bool { return done })

	assert.Same(t, online, entity.GetEntity(id), "an entity loaded elsewhere stays loaded")
	require.Equal(t, 1, Get(online).Len())
	assert.Equal(t, "welcome", Get(online).Recv()[0].Text)
}

func TestSendKindMismatch(t *testing.T) {
	setup(t)
	c := entity.CreateEntity(auxiliary.Character)
	var sendErr error
	Send(auxiliary.Account, c.ID, Message{Text: "hi"}, func(err error) {
		sendErr = err
	})
	assert.Equal(t, entity.ErrKindMismatch, errors.Cause(sendErr))
	assert.Equal(t, 0, Get(c).Len())
}

func TestCopy(t *testing.T) {
	mb := &Msgbox{}
	mb.Put(Message{Text: "a"})
	cp := mb.Copy().(*Msgbox)
	cp.Put(Message{Text: "b"})
	assert.Equal(t, 1, mb.Len())

	dst := &Msgbox{}
	cp.CopyTo(dst)
	assert.Equal(t, 2, dst.Len())

	restored, err := read(mb.Store())
	require.NoError(t, err)
	assert.Equal(t, "a", restored.(*Msgbox).Recv()[0].Text)
}
