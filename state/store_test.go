// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package state

import (
	"os"
	"path/filepath"
	"testing"

	. "gopkg.in/check.v1"
)

func Test(t *testing.T) { TestingT(t) }

type storeSuite struct {
	dir string
}

var _ = Suite(&storeSuite{})

func (s *storeSuite) SetUpTest(c *C) {
	s.dir = c.MkDir()
}

func (s *storeSuite) TestLoadMissingFile(c *C) {
	store := NewFileStore(filepath.Join(s.dir, "none.yaml"))
	conf := DefaultConf()
	c.Assert(store.Load(conf), IsNil)
	c.Check(conf, DeepEquals, DefaultConf())
}

func (s *storeSuite) TestStoreThenLoad(c *C) {
	path := filepath.Join(s.dir, "sub", "clight.yaml")
	store := NewFileStore(path)

	conf := DefaultConf()
	conf.Temp[Night] = 3500
	conf.DevName = "video0"
	conf.RegressionPoints[OnBattery][4] = 0.5
	conf.Timeout[OnBattery][Event] = 42
	c.Assert(store.Store(conf), IsNil)

	loaded := DefaultConf()
	c.Assert(store.Load(loaded), IsNil)
	c.Check(loaded, DeepEquals, conf)

	// no temp files left next to the configuration
	entries, err := os.ReadDir(filepath.Dir(path))
	c.Assert(err, IsNil)
	c.Check(entries, HasLen, 1)
}

func (s *storeSuite) TestLoadMalformedKeepsConf(c *C) {
	path := filepath.Join(s.dir, "clight.yaml")
	err := os.WriteFile(path, []byte("gamma_temp: [1, 2, 3]\ncaptures: nope\n"), 0644)
	c.Assert(err, IsNil)

	conf := DefaultConf()
	c.Assert(NewFileStore(path).Load(conf), NotNil)
	c.Check(conf, DeepEquals, DefaultConf())
}

func (s *storeSuite) TestContextStoreConf(c *C) {
	path := filepath.Join(s.dir, "clight.yaml")
	ctx := NewContext(nil, NewFileStore(path))
	ctx.Conf.Verbose = true
	c.Assert(ctx.StoreConf(), IsNil)

	conf := DefaultConf()
	c.Assert(NewFileStore(path).Load(conf), IsNil)
	c.Check(conf.Verbose, Equals, true)
}
