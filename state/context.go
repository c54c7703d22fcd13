// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package state

import (
	"sync"
)

// ConfStore persists a Conf as a whole. Implementations must not leave a
// partially written configuration behind.
type ConfStore interface {
	Load(conf *Conf) error
	Store(conf *Conf) error
}

// Context is the daemon context shared by every module. It is created once
// at startup and owns the live state and the configuration.
//
// Every handler turn (a bus property access, a method call, a foreign
// signal callback) runs between Lock and Unlock, so read-modify-write
// sequences on State and Conf never interleave.
type Context struct {
	mu sync.Mutex

	State *State
	Conf  *Conf
	store ConfStore
}

func NewContext(conf *Conf, store ConfStore) *Context {
	if conf == nil {
		conf = DefaultConf()
	}
	return &Context{
		State: &State{
			CurrentLoc: Location{Lat: LocationUndefined, Lon: LocationUndefined},
		},
		Conf:  conf,
		store: store,
	}
}

func (c *Context) Lock() {
	c.mu.Lock()
}

func (c *Context) Unlock() {
	c.mu.Unlock()
}

// StoreConf persists the current configuration. Must be called inside a
// turn.
func (c *Context) StoreConf() error {
	if c.store == nil {
		return errNoStore
	}
	return c.store.Store(c.Conf)
}
