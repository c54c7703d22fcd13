// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package topic implements the in-process publish/subscribe bus modules use
// to notify each other without polling.
package topic

import (
	"errors"
	"fmt"
	"sync"

	"github.com/linuxdeepin/go-lib/log"
)

var logger = log.NewLogger("daemon/topic")

var errClosed = errors.New("topic bus is closed")

// Message is what subscribers receive. Payload is nil for pure state-shape
// signals.
type Message struct {
	Topic   string
	Sender  string
	Payload interface{}
}

// Receiver is called for every message published on a subscribed topic,
// together with the userdata given at subscription time.
type Receiver interface {
	Receive(msg *Message, userdata interface{})
}

// ReceiverFunc adapts a plain function to Receiver.
type ReceiverFunc func(msg *Message, userdata interface{})

func (f ReceiverFunc) Receive(msg *Message, userdata interface{}) {
	f(msg, userdata)
}

type subscriber struct {
	id       uint64
	receiver Receiver
	userdata interface{}
}

// Bus delivers messages synchronously, in publication order, on the
// publisher's goroutine.
type Bus struct {
	mu     sync.RWMutex
	topics map[string][]*subscriber
	nextID uint64
	closed bool
}

func NewBus() *Bus {
	return &Bus{
		topics: make(map[string][]*subscriber),
	}
}

// RegisterTopic declares a topic. Registering an existing topic is a no-op.
func (b *Bus) RegisterTopic(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.topics[name]; !ok {
		logger.Debug("register topic", name)
		b.topics[name] = nil
	}
}

func (b *Bus) HasTopic(name string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.topics[name]
	return ok
}

// Subscribe attaches r to a registered topic and returns a function that
// detaches it.
func (b *Bus) Subscribe(name string, r Receiver, userdata interface{}) (func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, errClosed
	}
	subs, ok := b.topics[name]
	if !ok {
		return nil, fmt.Errorf("topic %q is not registered", name)
	}
	b.nextID++
	sub := &subscriber{id: b.nextID, receiver: r, userdata: userdata}
	b.topics[name] = append(subs, sub)

	var once sync.Once
	return func() {
		once.Do(func() {
			b.unsubscribe(name, sub.id)
		})
	}, nil
}

func (b *Bus) unsubscribe(name string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.topics[name]
	for i, sub := range subs {
		if sub.id == id {
			b.topics[name] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Publish sends payload to every subscriber of the topic.
func (b *Bus) Publish(name, sender string, payload interface{}) error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return errClosed
	}
	subs, ok := b.topics[name]
	if !ok {
		b.mu.RUnlock()
		return fmt.Errorf("topic %q is not registered", name)
	}
	targets := make([]*subscriber, len(subs))
	copy(targets, subs)
	b.mu.RUnlock()

	msg := &Message{Topic: name, Sender: sender, Payload: payload}
	logger.Debugf("publish on %s from %s: %v", name, sender, payload)
	for _, sub := range targets {
		sub.receiver.Receive(msg, sub.userdata)
	}
	return nil
}

// Close drops every subscription. Later publications fail.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.topics = make(map[string][]*subscriber)
}
