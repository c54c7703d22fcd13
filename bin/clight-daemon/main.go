// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/linuxdeepin/go-lib/dbusutil"
	"github.com/linuxdeepin/go-lib/log"
	"github.com/linuxdeepin/go-lib/strv"
	"github.com/linuxdeepin/go-lib/utils"

	// modules:
	_ "github.com/clight/clight-daemon/interface1"
	_ "github.com/clight/clight-daemon/upower1"

	"github.com/clight/clight-daemon/common/metrics"
	"github.com/clight/clight-daemon/common/topic"
	"github.com/clight/clight-daemon/loader"
	"github.com/clight/clight-daemon/state"
)

var logger = log.NewLogger("daemon/clight-daemon")

const dbusServiceName = "org.clight.clight"

var _options struct {
	verbose  bool
	logLevel string
	list     bool
	enable   string
	disable  string
	conf     string
	metrics  string

	enablingModules []string
	disableModules  []string
}

func toLogLevel(name string) (log.Priority, error) {
	name = strings.ToLower(name)
	logLevel := log.LevelInfo
	var err error
	switch name {
	case "":
		logLevel = log.LevelInfo
	case "error":
		logLevel = log.LevelError
	case "warn":
		logLevel = log.LevelWarning
	case "info":
		logLevel = log.LevelInfo
	case "debug":
		logLevel = log.LevelDebug
	case "no":
		logLevel = log.LevelDisable
	default:
		err = fmt.Errorf("%s is not support", name)
	}

	return logLevel, err
}

func splitModules(value string) []string {
	var result strv.Strv
	for _, name := range strings.Split(value, ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			result, _ = result.Add(name)
		}
	}
	return result
}

func init() {
	// -v | -verbose
	const verboseUsage = "Show much more message, shorthand for --loglevel debug."
	flag.BoolVar(&_options.verbose, "v", false, verboseUsage)
	flag.BoolVar(&_options.verbose, "verbose", false, verboseUsage)

	// -l | -loglevel
	const logLevelUsage = "Set log level, possible value is error/warn/info/debug/no, info is default"
	flag.StringVar(&_options.logLevel, "l", "", logLevelUsage)
	flag.StringVar(&_options.logLevel, "loglevel", "", logLevelUsage)

	flag.BoolVar(&_options.list, "list", false, "List all the modules and their dependencies.")
	flag.StringVar(&_options.enable, "enable", "", "Enable only these modules and their dependencies.")
	flag.StringVar(&_options.disable, "disable", "", "Disable modules.")
	flag.StringVar(&_options.conf, "conf", "", "Configuration file, default is "+state.DefaultConfFile())
	flag.StringVar(&_options.metrics, "metrics", "", "Serve prometheus metrics on this address, e.g. 127.0.0.1:9101")
}

func listModules() {
	for _, module := range loader.List() {
		fmt.Printf("%s: %s\n", module.Name(), strings.Join(module.GetDependencies(), ","))
	}
}

func serveMetrics(addr string) {
	registry := prom.NewRegistry()
	metrics.SetGlobal(metrics.NewPrometheusRecorder(registry))

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(registry))
	go func() {
		logger.Info("serve metrics on", addr)
		err := http.ListenAndServe(addr, mux)
		if err != nil {
			logger.Warning("metrics server:", err)
		}
	}()
}

func loadConf(path string) *state.Context {
	store := state.NewFileStore(path)
	conf := state.DefaultConf()
	err := store.Load(conf)
	if err != nil {
		logger.Warning("failed to load configuration, use defaults:", err)
	}
	return state.NewContext(conf, store)
}

func main() {
	flag.Parse()

	if _options.list {
		listModules()
		os.Exit(0)
	}

	if _options.verbose {
		_options.logLevel = "debug"
	}
	logLevel, err := toLogLevel(_options.logLevel)
	if err != nil {
		logger.Warning("failed to parse loglevel:", err)
		os.Exit(1)
	}
	_options.enablingModules = splitModules(_options.enable)
	_options.disableModules = splitModules(_options.disable)

	confFile := _options.conf
	if confFile == "" {
		confFile = state.DefaultConfFile()
	}
	ctx := loadConf(confFile)
	if ctx.Conf.Verbose && _options.logLevel == "" {
		logLevel = log.LevelDebug
	}

	service, err := dbusutil.NewSessionService()
	if err != nil {
		logger.Fatal(err)
	}

	hasOwner, err := service.NameHasOwner(dbusServiceName)
	if err != nil {
		logger.Fatal("failed to call NameHasOwner:", err)
	}
	if hasOwner {
		logger.Warningf("name %q already has the owner", dbusServiceName)
		os.Exit(1)
	}

	if _options.metrics != "" {
		serveMetrics(_options.metrics)
	}

	bus := topic.NewBus()
	loader.SetService(service)
	loader.SetContext(ctx)
	loader.SetTopicBus(bus)

	if _options.logLevel == "" && !ctx.Conf.Verbose &&
		(utils.IsEnvExists(log.DebugLevelEnv) || utils.IsEnvExists(log.DebugMatchEnv)) {
		logger.Info("Log level is none and debug env exists, so do not call loader.SetLogLevel")
	} else {
		logger.SetLogLevel(logLevel)
		loader.SetLogLevel(logLevel)
	}

	if len(_options.enablingModules) > 0 {
		err = loader.EnableModules(_options.enablingModules, _options.disableModules, loader.EnableFlagNone)
	} else {
		disabled := strv.Strv(_options.disableModules)
		var all []string
		for _, module := range loader.List() {
			if !disabled.Contains(module.Name()) {
				all = append(all, module.Name())
			}
		}
		err = loader.EnableModules(all, _options.disableModules, loader.EnableFlagIgnoreMissingModule)
	}
	if err != nil {
		logger.Warning(err)
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal", sig)
		service.Quit()
	}()

	service.Wait()
	loader.StopAll()
	bus.Close()
}
