// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package topic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishSubscribe(t *testing.T) {
	b := NewBus()
	defer b.Close()
	b.RegisterTopic("UPower")
	assert.True(t, b.HasTopic("UPower"))

	var got []*Message
	var gotData []interface{}
	unsubscribe, err := b.Subscribe("UPower", ReceiverFunc(func(msg *Message, userdata interface{}) {
		got = append(got, msg)
		gotData = append(gotData, userdata)
	}), "dimmer")
	require.NoError(t, err)

	require.NoError(t, b.Publish("UPower", "UPOWER", "Changed"))
	require.NoError(t, b.Publish("UPower", "UPOWER", nil))
	require.Len(t, got, 2)
	assert.Equal(t, "Changed", got[0].Payload)
	assert.Equal(t, "UPOWER", got[0].Sender)
	assert.Nil(t, got[1].Payload)
	assert.Equal(t, []interface{}{"dimmer", "dimmer"}, gotData)

	unsubscribe()
	unsubscribe()
	require.NoError(t, b.Publish("UPower", "UPOWER", "Changed"))
	assert.Len(t, got, 2)
}

func TestUnregisteredTopic(t *testing.T) {
	b := NewBus()
	assert.Error(t, b.Publish("nope", "", nil))
	_, err := b.Subscribe("nope", ReceiverFunc(func(*Message, interface{}) {}), nil)
	assert.Error(t, err)
}

func TestRegisterTopicKeepsSubscribers(t *testing.T) {
	b := NewBus()
	b.RegisterTopic("InterfaceTemp")
	n := 0
	_, err := b.Subscribe("InterfaceTemp", ReceiverFunc(func(*Message, interface{}) { n++ }), nil)
	require.NoError(t, err)

	b.RegisterTopic("InterfaceTemp")
	require.NoError(t, b.Publish("InterfaceTemp", "", nil))
	assert.Equal(t, 1, n)
}

func TestDeliveryOrder(t *testing.T) {
	b := NewBus()
	b.RegisterTopic("t")
	var order []int
	for i := 0; i < 3; i++ {
		idx := i
		_, err := b.Subscribe("t", ReceiverFunc(func(*Message, interface{}) {
			order = append(order, idx)
		}), nil)
		require.NoError(t, err)
	}
	require.NoError(t, b.Publish("t", "", nil))
	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestReentrantPublish(t *testing.T) {
	b := NewBus()
	b.RegisterTopic("a")
	b.RegisterTopic("b")
	var got []string
	_, err := b.Subscribe("a", ReceiverFunc(func(msg *Message, _ interface{}) {
		got = append(got, msg.Topic)
		assert.NoError(t, b.Publish("b", "", nil))
	}), nil)
	require.NoError(t, err)
	_, err = b.Subscribe("b", ReceiverFunc(func(msg *Message, _ interface{}) {
		got = append(got, msg.Topic)
	}), nil)
	require.NoError(t, err)

	require.NoError(t, b.Publish("a", "", nil))
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestClose(t *testing.T) {
	b := NewBus()
	b.RegisterTopic("t")
	b.Close()
	assert.Error(t, b.Publish("t", "", nil))
	_, err := b.Subscribe("t", ReceiverFunc(func(*Message, interface{}) {}), nil)
	assert.Error(t, err)
}
